// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shelf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/internal/platform/apperr"
	"github.com/taibuivan/mangatrack/internal/platform/constants"
	platformredis "github.com/taibuivan/mangatrack/internal/platform/redis"
)

// RedisStore implements [Store] on a Redis server.
//
// # Key Layout
//   - tracker:users: hash username -> RFC 3339 creation time (HSETNX guards uniqueness).
//   - tracker:users:order: sorted set scored by creation time, for ordered listing.
//   - tracker:list:<username>: JSON array of items.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new Redis implementation of [Store].
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// ListUsers implements [Store].
func (store *RedisStore) ListUsers(ctx context.Context) ([]string, error) {
	users, err := store.client.ZRange(ctx, constants.RedisKeyUserOrder, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_shelf_list_users_failed: %w", err)
	}
	if users == nil {
		users = []string{}
	}
	return users, nil
}

// createUserScript registers a user in one atomic step: the uniqueness guard,
// the ordering entry and the empty list are written together or not at all.
//
// KEYS: users hash, order set, list key. ARGV: username, created_at, score.
var createUserScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
redis.call('SET', KEYS[3], '[]')
return 1
`)

// CreateUser implements [Store].
func (store *RedisStore) CreateUser(ctx context.Context, username string) error {
	now := time.Now().UTC()

	created, err := createUserScript.Run(ctx, store.client,
		[]string{constants.RedisKeyUsers, constants.RedisKeyUserOrder, listKey(username)},
		username, now.Format(time.RFC3339Nano), strconv.FormatInt(now.UnixNano(), 10),
	).Int()
	if err != nil {
		return fmt.Errorf("redis_shelf_create_user_failed: %w", err)
	}
	if created == 0 {
		return apperr.Conflict("Username already exists")
	}
	return nil
}

// GetList implements [Store].
func (store *RedisStore) GetList(ctx context.Context, username string) ([]library.Item, error) {
	payload, err := store.client.Get(ctx, listKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []library.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis_shelf_get_list_failed: %w", err)
	}

	items := []library.Item{}
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("redis_shelf_decode_list_failed: %w", err)
	}
	if items == nil {
		items = []library.Item{}
	}
	return items, nil
}

// SaveList implements [Store].
func (store *RedisStore) SaveList(ctx context.Context, username string, items []library.Item) error {
	if items == nil {
		items = []library.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("redis_shelf_encode_list_failed: %w", err)
	}

	if err := store.client.Set(ctx, listKey(username), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis_shelf_save_list_failed: %w", err)
	}
	return nil
}

// Ping implements [Store].
func (store *RedisStore) Ping(ctx context.Context) error {
	return platformredis.Ping(ctx, store.client)
}

func listKey(username string) string {
	return constants.RedisPrefixList + username
}
