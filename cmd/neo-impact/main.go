package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-neo-impact/internal/api"
	"github.com/mr1hm/go-neo-impact/internal/config"
	"github.com/mr1hm/go-neo-impact/internal/logging"
	"github.com/mr1hm/go-neo-impact/internal/neows"
	"github.com/mr1hm/go-neo-impact/internal/observability"
	"github.com/mr1hm/go-neo-impact/internal/prefetch"
	"github.com/mr1hm/go-neo-impact/internal/repository"
	"github.com/mr1hm/go-neo-impact/internal/resolver"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger := slog.Default()

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if cfg.EnvCredential() == "" {
		slog.Warn("no NASA API key in environment; lookups without a per-request key serve synthetic data")
	}

	metrics := observability.NewMetrics()

	var fetcher resolver.Fetcher = neows.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, metrics, logger)

	var pruner prefetch.Pruner
	if cfg.Cache.Enabled {
		if cfg.DB.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
				logging.Fatalf("Failed to create database directory: %v", err)
			}
		}
		db, err := repository.NewSQLiteDB(cfg.DB.Path)
		if err != nil {
			logging.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		fetcher = neows.NewCachedFetcher(fetcher, db, cfg.Cache.TTL, nil, metrics, logger)
		pruner = db
		slog.Info("record cache enabled", "path", cfg.DB.Path, "ttl", cfg.Cache.TTL)
	}

	res := resolver.New(fetcher, metrics, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mgr *prefetch.Manager
	if len(cfg.Prefetch.Watchlist) > 0 && cfg.EnvCredential() != "" {
		mgr = prefetch.NewManager(cfg, res, pruner, nil, metrics, logger)
		mgr.Start(ctx)
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", api.APIKeyHeader, api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", api.RequestIDHeader},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.MetricsMiddleware(metrics))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS, "/health", "/metrics"))

	handler := api.NewHandler(res, []string{cfg.Catalog.APIKey, cfg.Catalog.FallbackAPIKey}, metrics)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if mgr != nil {
		mgr.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
