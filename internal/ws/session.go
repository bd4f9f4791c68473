package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/oklog/ulid/v2"
)

// Session is one live client connection plus the set of rooms it has joined.
type Session struct {
	id     string
	userID string

	rawConn *websocket.Conn
	writeMu sync.Mutex

	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool
}

func newSession(userID string, rawConn *websocket.Conn) *Session {
	return &Session{
		id:      ulid.Make().String(),
		userID:  userID,
		rawConn: rawConn,
		rooms:   make(map[string]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return s.rawConn.Write(ctx, websocket.MessageText, data)
}

func (s *Session) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return wsjson.Write(ctx, s.rawConn, v)
}

// addRoom records a joined room; reports whether the membership is new.
func (s *Session) addRoom(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[docID]; ok {
		return false
	}
	s.rooms[docID] = struct{}{}
	return true
}

func (s *Session) removeRoom(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[docID]; !ok {
		return false
	}
	delete(s.rooms, docID)
	return true
}

// drainRooms empties the membership set and returns what it held. Used once,
// on teardown.
func (s *Session) drainRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		out = append(out, id)
	}
	s.rooms = make(map[string]struct{})
	return out
}

func (s *Session) markClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	return true
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 3 * time.Second
)
