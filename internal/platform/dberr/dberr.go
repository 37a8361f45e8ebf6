// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies low-level PostgreSQL errors into the small set of
// storage outcomes the domain layer cares about.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a queried or targeted row doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate")
)

// Classify maps a pgx error onto [ErrNotFound] or [ErrDuplicate] when it
// matches one. Any other error is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violation (SQLSTATE 23505)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicate
	}

	return err
}
