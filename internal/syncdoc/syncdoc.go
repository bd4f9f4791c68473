package syncdoc

import (
	"context"
	"errors"
	"sync"

	"docsyncgo/internal/services/document"

	"go.uber.org/zap"
)

// Coordinator serializes document saves: per document id, at most one store
// write is in flight, and a delta arriving while a write runs supersedes any
// delta queued before it (last-writer-wins).
type Coordinator struct {
	ctx context.Context
	svc document.IDocumentService

	mu   sync.Mutex
	docs map[string]*docState
}

type docState struct {
	writing    bool
	pending    []byte
	hasPending bool
}

func New(ctx context.Context, svc document.IDocumentService) *Coordinator {
	return &Coordinator{
		ctx:  ctx,
		svc:  svc,
		docs: make(map[string]*docState),
	}
}

// RequestSave accepts a save without blocking the caller. Saves for distinct
// documents proceed fully in parallel.
func (c *Coordinator) RequestSave(documentID string, delta []byte) {
	if documentID == "" || len(delta) == 0 {
		zap.L().Warn("syncdoc.invalid_request", zap.String("document_id", documentID))
		return
	}

	c.mu.Lock()
	st, ok := c.docs[documentID]
	if !ok {
		st = &docState{}
		c.docs[documentID] = st
	}
	if st.writing {
		// A write is in flight: park the delta, superseding any earlier
		// queued one.
		st.pending = delta
		st.hasPending = true
		c.mu.Unlock()
		return
	}
	st.writing = true
	c.mu.Unlock()

	go c.writeLoop(documentID, delta)
}

// writeLoop performs one store write after another until no delta remains
// queued for the document. It is the only goroutine touching the store for
// its document id.
func (c *Coordinator) writeLoop(documentID string, delta []byte) {
	for {
		err := c.svc.SaveContent(c.ctx, documentID, delta)
		switch {
		case err == nil:
			zap.L().Debug("syncdoc.saved",
				zap.String("document_id", documentID), zap.Int("bytes", len(delta)))
		case errors.Is(err, document.ErrDocumentNotFound):
			zap.L().Warn("syncdoc.document_missing", zap.String("document_id", documentID))
		default:
			zap.L().Error("syncdoc.save_failed",
				zap.String("document_id", documentID), zap.Error(err))
		}

		c.mu.Lock()
		st := c.docs[documentID]
		if st.hasPending {
			delta = st.pending
			st.pending = nil
			st.hasPending = false
			c.mu.Unlock()
			continue
		}
		// Idle again: clear the in-flight flag on success and failure alike
		// so later saves are never poisoned.
		delete(c.docs, documentID)
		c.mu.Unlock()
		return
	}
}
