package ws

import "encoding/json"

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // "join", "change", "save", ...
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// ──────────────────────────── Request / Response DTOs ─────────────────────────

// JoinBody is the body for "join".
type JoinBody struct {
	Document string `json:"document"`
}

// ChangeBody is the body for "change" and "save"; Delta is opaque to the
// engine.
type ChangeBody struct {
	Room  string          `json:"room"`
	Delta json.RawMessage `json:"delta"`
}

// Empty ACK body (useful for many handlers).
type AckBody struct{}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}

// changesEnvelope encodes the server→client "changes" event relayed to the
// other members of a room.
func changesEnvelope(docID string, delta json.RawMessage) ([]byte, error) {
	body, err := json.Marshal(ChangeBody{Room: docID, Delta: delta})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: "changes", Body: body})
}
