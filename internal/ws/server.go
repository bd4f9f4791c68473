package ws

import (
	"context"
	"fmt"
	"time"

	"docsyncgo/internal/http/authmw"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxFrameSize = 1 << 20 // deltas can carry full snapshots

// Saver accepts fire-and-forget persistence requests.
type Saver interface {
	RequestSave(documentID string, delta []byte)
}

type WsServer struct {
	hub    *Hub
	subMgr *subscriptionManager // nil when no broker is configured
	router *Router
	saver  Saver
}

func NewWsServer(h *Hub, rdc *redis.Client, saver Saver) *WsServer {
	srv := &WsServer{
		hub:    h,
		router: NewRouter(),
		saver:  saver,
	}
	if rdc != nil {
		srv.subMgr = newSubscriptionManager(rdc, h, ulid.Make().String())
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	userID := authmw.UserID(ginCtx)

	rawConn, err := websocket.Accept(
		ginCtx.Writer, ginCtx.Request,
		&websocket.AcceptOptions{InsecureSkipVerify: true}, // dev-only
	)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxFrameSize)

	sess := newSession(userID, rawConn)
	zap.L().Info("ws.connected",
		zap.String("session_id", sess.id), zap.String("user_id", userID))

	go s.reader(sess)
	go s.pinger(sess)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 join -----------------------------------------------------------------
	Register(
		s.router,
		"join",
		func(ctx context.Context, cc *ConnContext, req JoinBody) (AckBody, error) {
			joined, err := s.hub.Join(cc.Session, req.Document)
			if err != nil {
				return AckBody{}, err
			}
			if joined && s.subMgr != nil {
				s.subMgr.Subscribe(req.Document)
			}
			zap.L().Info("ws.joined",
				zap.String("session_id", cc.Session.id),
				zap.String("document_id", req.Document))
			return AckBody{}, nil
		},
	)

	// 🔹 change ---------------------------------------------------------------
	Register(
		s.router,
		"change",
		func(ctx context.Context, cc *ConnContext, req ChangeBody) (AckBody, error) {
			if req.Room == "" || len(req.Delta) == 0 {
				return AckBody{}, fmt.Errorf("%w: room and delta are required", ErrInvalidArgument)
			}
			msg, err := changesEnvelope(req.Room, req.Delta)
			if err != nil {
				return AckBody{}, err
			}
			s.hub.Broadcast(req.Room, msg, cc.Session.id)
			if s.subMgr != nil {
				s.subMgr.Publish(ctx, req.Room, req.Delta, cc.Session.id)
			}
			return AckBody{}, nil
		},
	)

	// 🔹 save -----------------------------------------------------------------
	Register(
		s.router,
		"save",
		func(ctx context.Context, cc *ConnContext, req ChangeBody) (AckBody, error) {
			if req.Room == "" || len(req.Delta) == 0 {
				return AckBody{}, fmt.Errorf("%w: room and delta are required", ErrInvalidArgument)
			}
			// The ack only confirms acceptance; persistence outcome is
			// reported through logs.
			s.saver.RequestSave(req.Room, []byte(req.Delta))
			return AckBody{}, nil
		},
	)
}

func (s *WsServer) reader(sess *Session) {
	defer s.teardown(sess)

	cc := &ConnContext{Session: sess, UserID: sess.userID, Server: s}

	for {
		var env Envelope
		if err := wsjson.Read(context.Background(), sess.rawConn, &env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1900*time.Millisecond)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{...}} ---------------
		if err != nil {
			_ = sess.writeJSON(map[string]any{
				"event": "error",
				"body":  ErrorBody{Error: err.Error()},
			})
			continue
		}

		// ---- success -> {"event":"<evt>-ack", "body":{...}} --------
		reply := map[string]any{"event": env.Event + "-ack"}
		if res != nil {
			reply["body"] = res
		}
		_ = sess.writeJSON(reply)
	}
}

// teardown runs exactly once per session, synchronously with the reader's
// exit; stale room memberships are a correctness bug.
func (s *WsServer) teardown(sess *Session) {
	if !sess.markClosed() {
		return
	}
	left := s.hub.LeaveAll(sess)
	if s.subMgr != nil {
		for _, docID := range left {
			s.subMgr.Unsubscribe(docID)
		}
	}
	_ = sess.rawConn.Close(websocket.StatusNormalClosure, "bye")
	zap.L().Info("ws.disconnected",
		zap.String("session_id", sess.id), zap.Strings("left_rooms", left))
}

func (s *WsServer) pinger(sess *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := sess.rawConn.Ping(ctx)
		cancel()
		if err != nil {
			_ = sess.rawConn.Close(websocket.StatusNormalClosure, "ping timeout")
			return
		}
	}
}
