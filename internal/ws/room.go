package ws

import (
	"sync"

	"go.uber.org/zap"
)

type room struct {
	mu       sync.RWMutex
	sessions map[string]*Session // keyed by session id

	// sendMu serializes deliveries so every member observes change events in
	// arrival order.
	sendMu sync.Mutex
}

func newRoom() *room { return &room{sessions: map[string]*Session{}} }

func (r *room) add(s *Session) {
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
}

func (r *room) remove(sessionID string) (empty bool) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	empty = len(r.sessions) == 0
	r.mu.Unlock()
	return empty
}

func (r *room) snapshot() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	return out
}

// broadcast delivers msg to every member except the sender. A recipient that
// cannot be written to is logged and skipped; its own reader loop is
// responsible for tearing it down.
func (r *room) broadcast(msg []byte, senderSessionID string) {
	r.sendMu.Lock()
	defer r.sendMu.Unlock()

	for _, s := range r.snapshot() {
		if s.id == senderSessionID {
			continue
		}
		if err := s.write(msg); err != nil {
			zap.L().Warn("ws.deliver_failed",
				zap.String("session_id", s.id), zap.Error(err))
		}
	}
}
