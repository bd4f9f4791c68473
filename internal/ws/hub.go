package ws

import (
	"errors"
	"sync"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Hub is the room registry: document id ➜ set of joined sessions. It is the
// only state shared across connections.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*room)} }

// Join adds the session to the document's room, creating the room on first
// join. Idempotent; reports whether the membership is new.
func (h *Hub) Join(s *Session, docID string) (bool, error) {
	if s == nil || docID == "" {
		return false, ErrInvalidArgument
	}

	h.mu.Lock()
	r, ok := h.rooms[docID]
	if !ok {
		r = newRoom()
		h.rooms[docID] = r
	}
	r.add(s)
	h.mu.Unlock()

	return s.addRoom(docID), nil
}

// Leave removes the membership; no-op if the session is not a member. Empty
// rooms are pruned.
func (h *Hub) Leave(s *Session, docID string) bool {
	if s == nil || docID == "" {
		return false
	}
	left := s.removeRoom(docID)

	h.mu.Lock()
	if r, ok := h.rooms[docID]; ok {
		if r.remove(s.id) {
			delete(h.rooms, docID)
		}
	}
	h.mu.Unlock()
	return left
}

// LeaveAll removes the session from every room it belongs to and returns the
// rooms that were left. Called exactly once, on disconnect.
func (h *Hub) LeaveAll(s *Session) []string {
	if s == nil {
		return nil
	}
	left := s.drainRooms()

	h.mu.Lock()
	for _, docID := range left {
		if r, ok := h.rooms[docID]; ok {
			if r.remove(s.id) {
				delete(h.rooms, docID)
			}
		}
	}
	h.mu.Unlock()
	return left
}

// Members returns a point-in-time snapshot of the room's member sessions.
func (h *Hub) Members(docID string) []*Session {
	h.mu.RLock()
	r, ok := h.rooms[docID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return r.snapshot()
}

// Broadcast relays a pre-encoded event to every room member except the
// sender. Pass an empty senderSessionID to reach all members.
func (h *Hub) Broadcast(docID string, msg []byte, senderSessionID string) {
	h.mu.RLock()
	r, ok := h.rooms[docID]
	h.mu.RUnlock()
	if ok {
		r.broadcast(msg, senderSessionID)
	}
}
