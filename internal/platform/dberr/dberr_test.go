// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/userhub/internal/platform/dberr"
)

func TestClassify(t *testing.T) {
	opaque := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no_rows", pgx.ErrNoRows, dberr.ErrNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), dberr.ErrNotFound},
		{"unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, dberr.ErrDuplicate},
		{"other_pg_error", &pgconn.PgError{Code: pgerrcode.UndefinedTable}, nil},
		{"opaque", opaque, opaque},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dberr.Classify(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				// Unclassified errors pass through untouched.
				assert.Equal(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
