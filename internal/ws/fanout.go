package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func eventsChannel(docID string) string { return "doc:" + docID + ":events" }

// remoteChange is the Pub/Sub payload mirrored between instances. Origin lets
// the publishing instance drop its own messages, which it already delivered
// locally.
type remoteChange struct {
	Origin string          `json:"origin"`
	Sender string          `json:"sender"`
	Room   string          `json:"room"`
	Delta  json.RawMessage `json:"delta"`
}

// subscriptionManager guarantees that we have **exactly one** Redis
// subscription per "doc:<id>:events" channel ― no matter how many websocket
// clients join the same document room.
type subscriptionManager struct {
	rdb        *redis.Client
	hub        *Hub
	instanceID string
	mu         sync.Mutex
	subs       map[string]*subEntry // documentID ➜ subscription data
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdb *redis.Client, hub *Hub, instanceID string) *subscriptionManager {
	return &subscriptionManager{
		rdb:        rdb,
		hub:        hub,
		instanceID: instanceID,
		subs:       make(map[string]*subEntry),
	}
}

// Publish mirrors a locally relayed change to the other instances.
func (sm *subscriptionManager) Publish(ctx context.Context, docID string, delta json.RawMessage, senderSessionID string) {
	payload, err := json.Marshal(remoteChange{
		Origin: sm.instanceID,
		Sender: senderSessionID,
		Room:   docID,
		Delta:  delta,
	})
	if err != nil {
		zap.L().Warn("ws.fanout_encode", zap.Error(err))
		return
	}
	if err := sm.rdb.Publish(ctx, eventsChannel(docID), payload).Err(); err != nil {
		zap.L().Warn("ws.fanout_publish", zap.String("document_id", docID), zap.Error(err))
	}
}

// Subscribe ensures that the process is subscribed to the document's channel;
// subsequent calls for the same document only increment the ref-counter.
func (sm *subscriptionManager) Subscribe(docID string) {
	sm.mu.Lock()
	if e, ok := sm.subs[docID]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	// First consumer → create Redis SUB and fan-out loop.
	ctx, cancel := context.WithCancel(context.Background())
	ps := sm.rdb.Subscribe(ctx, eventsChannel(docID))

	sm.subs[docID] = &subEntry{refCnt: 1, cancel: cancel}
	sm.mu.Unlock()

	go func() {
		defer ps.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ps.Channel():
				if !ok { // Redis connection closed.
					return
				}
				sm.replay(docID, m.Payload)
			}
		}
	}()
}

// Unsubscribe decrements the ref-counter and tears the Redis SUB down when
// the last websocket client leaves the room.
func (sm *subscriptionManager) Unsubscribe(docID string) {
	sm.mu.Lock()
	e, ok := sm.subs[docID]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, docID)
	sm.mu.Unlock()

	// Outside the lock → stop the fan-out goroutine.
	e.cancel()
}

// replay feeds a remote-origin change into the local hub as a "changes"
// event.
func (sm *subscriptionManager) replay(docID, payload string) {
	var rc remoteChange
	if err := json.Unmarshal([]byte(payload), &rc); err != nil {
		zap.L().Warn("ws.fanout_decode", zap.Error(err))
		return
	}
	if rc.Origin == sm.instanceID {
		return // already delivered locally
	}
	msg, err := changesEnvelope(docID, rc.Delta)
	if err != nil {
		zap.L().Warn("ws.fanout_encode", zap.Error(err))
		return
	}
	sm.hub.Broadcast(docID, msg, rc.Sender)
}
