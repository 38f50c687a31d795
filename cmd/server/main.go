package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"medhaven/internal/assets"
	"medhaven/internal/config"
	"medhaven/internal/handler"
	"medhaven/internal/middleware"
	"medhaven/internal/realtime"
	"medhaven/internal/repository"
	"medhaven/internal/service"
	"medhaven/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var appLogger logger.Logger
	if cfg.IsProduction() {
		appLogger = logger.NewProduction(cfg.Log.Level)
	} else {
		appLogger = logger.New(cfg.Log.Level)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection established")

	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		appLogger.Fatal("Failed to prepare database schema", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Rate limiting fails open, so a missing Redis is not fatal.
	if err := rdb.Ping(ctx).Err(); err != nil {
		appLogger.Warn("Redis unavailable, rate limiting disabled until it recovers", "error", err)
	} else {
		appLogger.Info("Redis connection established")
	}

	assetHost, err := assets.NewS3Host(ctx, cfg.Assets, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to configure asset host", "error", err)
	}

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, assetHost, cfg, appLogger)

	hub := realtime.NewHub(appLogger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, cfg.JWT, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	handlers := handler.NewHandlers(services, hub, cfg, appLogger)
	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; stopping
	// the hub closes them.
	stopHub()
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConnections)
	poolCfg.MaxConnIdleTime = cfg.MaxIdleTime
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.MaxMultipartMemory = cfg.Upload.MaxBytes + 1<<20

	handler.RegisterRoutes(router, handlers, authMiddleware, rateLimitMiddleware, cfg)

	return router
}
