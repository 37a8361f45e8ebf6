// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Route access (public or bearer-protected) is declared once, in [UserRoutes].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/platform/constants"
	"github.com/taibuivan/userhub/internal/platform/metrics"
	"github.com/taibuivan/userhub/internal/platform/middleware"
	"github.com/taibuivan/userhub/internal/platform/respond"
	"github.com/taibuivan/userhub/internal/users/account"
	"github.com/taibuivan/userhub/internal/users/auth"
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
	// Liveness is the /health handler; always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, account creation and password change.
	Auth *auth.Handler

	// Account handles profile reads and updates.
	Account *account.Handler
}

// Options carries the settings the router needs from configuration.
type Options struct {
	Port string
	CORS middleware.AppConfig
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all routes, gating each one according to [UserRoutes].
func NewServer(options Options, log *slog.Logger, gate *middleware.Gate, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(options.CORS))
	r.Use(chimw.CleanPath)

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Not Found"))
	})

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", metrics.Handler())

	// # Application API
	requireBearer := middleware.RequireBearer(gate)
	r.Route(UserRoutesPrefix, func(user chi.Router) {
		for _, route := range UserRoutes(h) {
			var handler http.Handler = route.Handler
			if route.Access == Protected {
				handler = requireBearer(handler)
			}
			user.Method(route.Method, route.Pattern, handler)
		}
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + options.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root HTTP handler.
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
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
