// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package shelf (Postgres) implements the relational storage driver.

# Schema Table Mapping
  - tracker.userprofile: Username registry ordered by creation time.
  - tracker.mangalist: One JSONB document per user, replaced on every save.
*/
package shelf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/internal/platform/database/schema"
	"github.com/taibuivan/mangatrack/internal/platform/dberr"
	"github.com/taibuivan/mangatrack/internal/platform/postgres"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation of [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
ListUsers returns the registry ordered by creation time.

Parameters:
  - ctx: context.Context

Returns:
  - []string: Usernames
  - error: Query failures
*/
func (store *PostgresStore) ListUsers(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`,
		schema.TrackerUserProfile.Username,
		schema.TrackerUserProfile.Table,
		schema.TrackerUserProfile.CreatedAt, schema.TrackerUserProfile.Username,
	)

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_shelf_list_users_failed: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres_shelf_list_users_failed: %w", err)
	}
	if users == nil {
		users = []string{}
	}
	return users, nil
}

/*
CreateUser inserts the profile and resets its list inside one transaction.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - error: apperr.Conflict on a duplicate username, or execution failures
*/
func (store *PostgresStore) CreateUser(ctx context.Context, username string) error {
	insertProfile := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.TrackerUserProfile.Table,
		schema.TrackerUserProfile.Username, schema.TrackerUserProfile.CreatedAt,
	)

	err := pgx.BeginFunc(ctx, store.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertProfile, username, time.Now().UTC()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, store.upsertListQuery(), username, "[]")
		return err
	})
	if err != nil {
		return dberr.Wrap(err, "Username", "postgres_shelf_create_user_failed")
	}

	return nil
}

/*
GetList loads the JSONB document for username.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - []library.Item: Decoded list, empty when no row exists
  - error: Query or decode failures
*/
func (store *PostgresStore) GetList(ctx context.Context, username string) ([]library.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.TrackerMangaList.Items,
		schema.TrackerMangaList.Table,
		schema.TrackerMangaList.Username,
	)

	var payload []byte
	err := store.pool.QueryRow(ctx, query, username).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return []library.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_shelf_get_list_failed: %w", err)
	}

	items := []library.Item{}
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("postgres_shelf_decode_list_failed: %w", err)
	}
	if items == nil {
		items = []library.Item{}
	}
	return items, nil
}

/*
SaveList upserts the JSONB document for username.

Parameters:
  - ctx: context.Context
  - username: string
  - items: []library.Item

Returns:
  - error: Encode or execution failures
*/
func (store *PostgresStore) SaveList(ctx context.Context, username string, items []library.Item) error {
	if items == nil {
		items = []library.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("postgres_shelf_encode_list_failed: %w", err)
	}

	if _, err := store.pool.Exec(ctx, store.upsertListQuery(), username, string(payload)); err != nil {
		return fmt.Errorf("postgres_shelf_save_list_failed: %w", err)
	}
	return nil
}

// Ping implements [Store].
func (store *PostgresStore) Ping(ctx context.Context) error {
	return postgres.Ping(ctx, store.pool)
}

func (store *PostgresStore) upsertListQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s`,
		schema.TrackerMangaList.Table,
		schema.TrackerMangaList.Username,
		schema.TrackerMangaList.Items,
		schema.TrackerMangaList.UpdatedAt,
	)
}
