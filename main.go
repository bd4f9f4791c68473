package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"docsyncgo/internal/auth"
	"docsyncgo/internal/config"
	"docsyncgo/internal/database/db_client"
	"docsyncgo/internal/http/http_server"
	"docsyncgo/internal/redis/redis_client"
	"docsyncgo/internal/services/document"
	"docsyncgo/internal/services/user"
	"docsyncgo/internal/syncdoc"
	"docsyncgo/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis (cross-instance change fan-out)
	redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	Log.Debug("Redis client created successfully")

	// 4. Postgres db client (durable document store)
	pgDb, err := db_client.Open(ctx, cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	// 5. Services and token issuer
	docService := document.NewDocumentService(pgDb)
	userService := user.NewUserService(pgDb)
	tokens := auth.NewTokens(cfg.JwtSecret)

	// 6. Persistence coordinator (serialized per-document saves)
	saver := syncdoc.New(ctx, docService)

	// 7. WebSockets hub + Redis fan-out
	hub := ws.NewHub()

	// 8. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, redisClient, saver)

	// 9. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv,
		docService, userService, tokens)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
