// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Yomira reader HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the catalog client, domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/yomira-reader/internal/admin"
	"github.com/taibuivan/yomira-reader/internal/api"
	"github.com/taibuivan/yomira-reader/internal/catalog"
	"github.com/taibuivan/yomira-reader/internal/library/bookmark"
	"github.com/taibuivan/yomira-reader/internal/library/collection"
	"github.com/taibuivan/yomira-reader/internal/platform/config"
	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	"github.com/taibuivan/yomira-reader/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-reader/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomira-reader/internal/platform/redis"
	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("catalog", cfg.CatalogBaseURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background workers on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	catalogMetrics := catalog.NewCollector(registry)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL,
		catalog.WithUploadsURL(cfg.CatalogUploadsURL),
		catalog.WithTimeout(cfg.CatalogTimeout),
		catalog.WithRateLimit(cfg.CatalogRPS, constants.CatalogBurst),
		catalog.WithMetrics(catalogMetrics),
		catalog.WithLogger(log),
	)
	catalogService := catalog.NewService(catalogClient, catalog.ServiceConfig{
		PageSize: cfg.CatalogPageSize,
		FanOut:   constants.CatalogFanOut,
		Cache:    catalog.NewRedisCoverCache(rdb, constants.CoverCacheTTL, log),
		Metrics:  catalogMetrics,
		Logger:   log,
	})

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewBanCache(rdb),
		jwtSvc,
		auth.ServiceConfig{IsAdminEmail: cfg.IsAdminEmail, Logger: log},
	)

	hub := comment.NewHub(log)
	commentService := comment.NewService(comment.NewRepository(pool), authService, comment.ServiceConfig{
		Publisher: hub,
		Logger:    log,
	})

	checkOrigin := func(request *http.Request) bool {
		origin := request.Header.Get(constants.HeaderOrigin)
		return origin == "" || middleware.OriginAllowed(cfg, origin)
	}

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Auth:       auth.NewHandler(authService),
		Catalog:    catalog.NewHandler(catalogService),
		Collection: collection.NewHandler(collection.NewService(collection.NewRepository(pool), log)),
		Bookmark:   bookmark.NewHandler(bookmark.NewService(bookmark.NewRepository(pool), log)),
		Comment:    comment.NewHandler(commentService, hub, checkOrigin),
		Admin:      admin.NewHandler(admin.NewService(commentService, authService, log)),
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
