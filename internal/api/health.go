// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/userhub/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(context.Context) error

	// CheckCache pings the Redis client.
	CheckCache func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// checkResult reports one dependency. Failure details stay in the server log.
type checkResult struct {
	Name string `json:"name"`
	IsOK bool   `json:"ok"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}
		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(request.Context()); err != nil {
			result.IsOK = false
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	if !isSystemReady {
		respond.JSON(writer, http.StatusServiceUnavailable, respond.Envelope{
			Success: false,
			Data:    map[string]any{"status": "degraded", "checks": results},
		})
		return
	}

	respond.OK(writer, map[string]any{"status": "ready", "checks": results})
}
