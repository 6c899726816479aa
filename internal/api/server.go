// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yomira-reader/internal/admin"
	"github.com/taibuivan/yomira-reader/internal/catalog"
	"github.com/taibuivan/yomira-reader/internal/library/bookmark"
	"github.com/taibuivan/yomira-reader/internal/library/collection"
	"github.com/taibuivan/yomira-reader/internal/platform/config"
	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics exposes Prometheus collectors on /metrics.
	Metrics http.Handler

	// Auth handles account routes (register, signin).
	Auth *auth.Handler

	// Catalog proxies the remote manga catalog.
	Catalog *catalog.Handler

	// Collection manages the reader's saved manga.
	Collection *collection.Handler

	// Bookmark manages saved page positions.
	Bookmark *bookmark.Handler

	// Comment handles page comments and the live feed.
	Comment *comment.Handler

	// Admin handles moderation.
	Admin *admin.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The live comment feed is registered outside the request timeout: a
// hijacked WebSocket connection outlives any per-request deadline.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(limiter.Middleware)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/chapters/{chapterID}/comments/live", h.Comment.Live)

		api.Group(func(timed chi.Router) {
			timed.Use(chimw.Timeout(constants.GlobalRequestTimeout))

			timed.Mount("/auth", h.Auth.Routes())
			timed.Mount("/catalog", h.Catalog.Routes())
			timed.Mount("/collections", h.Collection.Routes())
			timed.Mount("/bookmarks", h.Bookmark.Routes())
			timed.Mount("/comments", h.Comment.Routes())
			timed.Mount("/admin", h.Admin.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
//
// Hijacked WebSocket connections are not tracked by [http.Server.Shutdown];
// they end when the process exits.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
