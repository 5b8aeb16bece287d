// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/mangatrack/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// # Mapping
//   - pgx.ErrNoRows: NotFound for the named resource.
//   - unique_violation (23505): Conflict, "<resource> already exists".
//   - anything else: the raw error prefixed with the action, left for respond.Error to hide.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	if IsUniqueViolation(err) {
		return apperr.Conflict(resource + " already exists")
	}

	return fmt.Errorf("%s: %w", action, err)
}

// IsUniqueViolation reports whether err carries the Postgres SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
