package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"docsyncgo/internal/auth"
	"docsyncgo/internal/http/authhandler"
	"docsyncgo/internal/http/authmw"
	"docsyncgo/internal/http/documenthandler"
	"docsyncgo/internal/services/document"
	"docsyncgo/internal/services/user"
	"docsyncgo/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type httpServer struct {
	listenPort  uint16
	srv         http.Server
	ln          net.Listener
	docService  document.IDocumentService
	userService user.IUserService
	tokens      *auth.Tokens
	wsSrv       *ws.WsServer
	ctx         context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, wsSrv *ws.WsServer,
	docService document.IDocumentService, userService user.IUserService, tokens *auth.Tokens) *httpServer {
	return &httpServer{
		listenPort:  listenPort,
		wsSrv:       wsSrv,
		docService:  docService,
		userService: userService,
		tokens:      tokens,
		ctx:         ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()

	// routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	requireAuth := authmw.RequireAuth(h.tokens)

	// websocket endpoint; identity is resolved before the upgrade
	routerEngine.GET("/ws", requireAuth, h.wsSrv.Handle)

	// REST API
	uh := authhandler.New(h.userService, h.tokens)
	uh.RegisterPublic(routerEngine)

	protected := routerEngine.Group("", requireAuth)
	uh.RegisterProtected(protected)
	documenthandler.New(h.docService).Register(protected)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	// Create a context that times-out after 10 s.
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	// Ask the server to shut down.
	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	// If the context's deadline expired, log it for observability.
	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
