// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

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

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/core/photo"
	"github.com/tagmi/tagmi/internal/core/tag"
	"github.com/tagmi/tagmi/internal/platform/config"
	"github.com/tagmi/tagmi/internal/platform/constants"
	"github.com/tagmi/tagmi/internal/platform/middleware"
	"github.com/tagmi/tagmi/internal/users/auth"
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
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication and account routes.
	Auth *auth.Handler

	// Group manages photo groups and their memberships.
	Group *group.Handler

	// Tag manages per-group tag vocabularies.
	Tag *tag.Handler

	// Photo handles uploads, group sharing, and the composite group page.
	Photo *photo.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The /groups subtree spans three domains: the group package owns the
// collection and roster, the tag package owns the vocabulary, and the photo
// package owns the composite detail page and everything photo-scoped. The
// tree is therefore composed explicitly here instead of mounted wholesale.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Route("/groups", func(groups chi.Router) {
			groups.Use(middleware.RequireAuth)

			groups.Get("/", h.Group.List)
			groups.Post("/", h.Group.Create)

			groups.Route("/{groupID}", func(sub chi.Router) {
				sub.Get("/", h.Photo.GroupDetail)
				sub.Delete("/", h.Group.Delete)
				sub.Get("/members", h.Group.Members)
				sub.Mount("/tags", h.Tag.Routes())
				sub.Mount("/photos", h.Photo.GroupRoutes())
			})
		})

		api.Route("/photos", func(photos chi.Router) {
			photos.Use(middleware.RequireAuth)
			photos.Mount("/", h.Photo.Routes())
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

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
