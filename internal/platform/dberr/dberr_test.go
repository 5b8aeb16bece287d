// Copyright (c) 2026 Yomira. All rights reserved.
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
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangatrack/internal/platform/apperr"
	"github.com/taibuivan/mangatrack/internal/platform/dberr"
)

/*
TestWrap verifies the translation of driver errors into application errors.
*/
func TestWrap(t *testing.T) {
	t.Run("nil_passthrough", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "User", "create"))
	})

	t.Run("no_rows_is_not_found", func(t *testing.T) {
		err := dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "User", "find")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("unique_violation_is_conflict", func(t *testing.T) {
		err := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "User", "create")
		require.True(t, apperr.HasCode(err, apperr.CodeConflict))
		assert.Equal(t, "User already exists", err.Error())
	})

	t.Run("other_errors_keep_cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := dberr.Wrap(cause, "User", "postgres_user_create_failed")
		assert.ErrorIs(t, err, cause)
		assert.Nil(t, apperr.As(err))
	})
}
