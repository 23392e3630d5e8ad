package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartnotes-server/internal/ai"
	"smartnotes-server/internal/cache"
	"smartnotes-server/internal/config"
	"smartnotes-server/internal/handler"
	"smartnotes-server/internal/ratelimit"
	"smartnotes-server/internal/repository"
	"smartnotes-server/internal/service"
	"smartnotes-server/internal/websocket"
	"smartnotes-server/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Server.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()
	logger.SetGlobalLogger(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, appLogger)

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(ctx, "server exited with error", zap.Error(err))
		appLogger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) error {
	var (
		noteRepo repository.NoteRepository
		userRepo repository.UserRepository
		storage  handler.Pinger
	)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		noteRepo = repository.NewMemoryNoteRepository()
		userRepo = repository.NewMemoryUserRepository()
		appLogger.Warn(ctx, "using in-memory storage; data is lost on restart")
	default:
		client, err := repository.Connect(ctx, cfg.Database.URL(), cfg.Database.Name)
		if err != nil {
			return err
		}
		defer client.Close()

		noteRepo = repository.NewNoteRepository(client, cfg.Database.Name)
		userRepo = repository.NewUserRepository(client, cfg.Database.Name)
		storage = repository.NewCouchHealth(client)
		appLogger.Info(ctx, "connected to CouchDB",
			zap.String("host", cfg.Database.Host),
			zap.String("port", cfg.Database.Port),
			zap.String("db", cfg.Database.Name))
	}

	var replyCache cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.Options{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			DefaultTTL: cfg.AI.CacheTTL,
		})
		if err != nil {
			appLogger.Warn(ctx, "AI reply cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			replyCache = redisCache
		}
	}

	if cfg.AI.APIKey == "" {
		appLogger.Warn(ctx, "AI_API_KEY is not set; AI endpoints will fail")
	}
	aiClient := ai.NewClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})

	var limiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRateLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute})
		defer limiter.Stop()
	}

	wsManager := websocket.NewManager(websocket.Options{
		MaxConnPerUser: cfg.WebSocket.MaxConnPerUser,
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
	})
	go wsManager.Run(ctx)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	userService := service.NewUserService(userRepo)
	noteService := service.NewNoteService(noteRepo, wsManager)
	aiService := service.NewAIService(aiClient, replyCache, cfg.AI.CacheTTL)

	router := handler.NewRouter(handler.Handlers{
		Auth: handler.NewAuthHandler(authService, cfg.Server.CookieSecure),
		User: handler.NewUserHandler(userService),
		Note: handler.NewNoteHandler(noteService),
		AI:   handler.NewAIHandler(aiService),
		WebSocket: handler.NewWebSocketHandler(ctx, wsManager, authService, handler.UpgraderOptions{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			AllowedOrigins:  cfg.CORS.AllowedOrigins,
		}),
		Health:         handler.NewHealthHandler(storage),
		TokenValidator: authService,
		RateLimiter:    limiter,
		Logger:         appLogger,
		CORS: handler.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info(ctx, "starting smartnotes server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info(ctx, "server stopped gracefully")
	return nil
}
