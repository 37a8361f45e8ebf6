// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration wraps golang-migrate for the user schema.
//
// The API server applies pending migrations at startup; the credctl tool
// exposes the same runner for operators.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies all pending UP migrations.
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, closeMigrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer closeMigrator()

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: database is dirty at version %d (manual intervention required)", currentVersion)
	}

	logger.Info("migration_started", slog.Uint64("current_version", uint64(currentVersion)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(currentVersion)),
		slog.Uint64("to_version", uint64(newVersion)),
	)

	return nil
}

// Version reports the applied schema version and whether it is dirty.
// A database without any applied migration reports version 0.
func Version(dsn string, migrationsPath string, logger *slog.Logger) (uint, bool, error) {
	migrator, closeMigrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator()

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return version, dirty, nil
}

// open builds a migrator and returns a close function that logs close failures.
func open(dsn, migrationsPath string, logger *slog.Logger) (*migrate.Migrate, func(), error) {
	migrator, err := migrate.New("file://"+migrationsPath, ToPgx5DSN(dsn))
	if err != nil {
		return nil, nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	closeMigrator := func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}

	return migrator, closeMigrator, nil
}

// ToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// golang-migrate expects. Other inputs are returned unchanged.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
