// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Userhub HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the password hasher and token service.
//  7. Wire stores, services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/userhub/internal/api"
	"github.com/taibuivan/userhub/internal/platform/config"
	"github.com/taibuivan/userhub/internal/platform/constants"
	"github.com/taibuivan/userhub/internal/platform/middleware"
	"github.com/taibuivan/userhub/internal/platform/migration"
	pgstore "github.com/taibuivan/userhub/internal/platform/postgres"
	redisstore "github.com/taibuivan/userhub/internal/platform/redis"
	"github.com/taibuivan/userhub/internal/platform/sec"
	"github.com/taibuivan/userhub/internal/users/account"
	"github.com/taibuivan/userhub/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Userhub] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("bcrypt_cost", cfg.BcryptCost),
		slog.Int("previous_token_secrets", len(cfg.TokenPreviousSecrets)),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Credentials ────────────────────────────────────────────────────
	hasher, err := sec.NewHasher(cfg.BcryptCost)
	must(log, err, "initialize password hasher")

	tokens, err := sec.NewTokenService(cfg.TokenSecret, cfg.TokenPreviousSecrets)
	must(log, err, "initialize token service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	userStore := auth.NewCachedUserStore(auth.NewPostgresUserStore(pool), rdb, cfg.UserCacheTTL, log)
	authService := auth.NewService(userStore, hasher, tokens, log)
	accountService := account.NewService(userStore, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(
		api.Options{Port: cfg.ServerPort, CORS: cfg},
		log,
		middleware.NewGate(tokens),
		handlers,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
