// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache is the device-local, best-effort copy of the tracker state.

Values are JSON documents stored under "<kind>_<username>" keys (registry and
current-user keys carry no username part). Reads treat unparsable payloads as
absent and writes log failures instead of returning them: the cache is a
backup, never the source of a user-visible error.
*/
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/mangatrack/internal/library"
)

// Kind names a key space.
type Kind string

const (
	KindList        Kind = "manga_tracker_list"
	KindUsers       Kind = "manga_tracker_users"
	KindCurrentUser Kind = "manga_tracker_current_user"
)

// DefaultUser is the current user of a device that never picked one.
const DefaultUser = "default"

// Key builds the storage key of kind for username.
func Key(kind Kind, username string) string {
	if username == "" {
		return string(kind)
	}
	return string(kind) + "_" + username
}

// Cache is the typed view over a [Store].
type Cache struct {
	store  Store
	logger *slog.Logger

	// registryMu serializes read-modify-write cycles on the user registry.
	registryMu sync.Mutex
}

// New wraps store.
func New(store Store, logger *slog.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// # Generic Access

// Get decodes the value of kind for username into dst and reports whether a
// usable value was found.
func (c *Cache) Get(ctx context.Context, kind Kind, username string, dst any) bool {
	key := Key(kind, username)

	raw, found, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache_load_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.WarnContext(ctx, "cache_payload_corrupt", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

// Put encodes v under kind for username. Failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, kind Kind, username string, v any) {
	key := Key(kind, username)

	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.WarnContext(ctx, "cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.store.Save(ctx, key, raw); err != nil {
		c.logger.WarnContext(ctx, "cache_save_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// # Lists

// List returns the cached list of username, empty when absent or corrupt.
func (c *Cache) List(ctx context.Context, username string) []library.Item {
	var items []library.Item
	if !c.Get(ctx, KindList, username, &items) || items == nil {
		return []library.Item{}
	}
	return items
}

// HasList reports whether a usable list is cached for username.
func (c *Cache) HasList(ctx context.Context, username string) bool {
	var items []library.Item
	return c.Get(ctx, KindList, username, &items)
}

// PutList caches the list of username and registers the username locally.
func (c *Cache) PutList(ctx context.Context, username string, items []library.Item) {
	if items == nil {
		items = []library.Item{}
	}
	c.Put(ctx, KindList, username, items)

	c.registryMu.Lock()
	defer c.registryMu.Unlock()
	c.register(ctx, username)
}

// # User Registry

// Users returns the locally known usernames in registration order.
func (c *Cache) Users(ctx context.Context) []string {
	var users []string
	if !c.Get(ctx, KindUsers, "", &users) || users == nil {
		return []string{}
	}
	return users
}

// AddUser registers username with an empty list. It returns false, changing
// nothing, when the username is already registered.
func (c *Cache) AddUser(ctx context.Context, username string) bool {
	c.registryMu.Lock()
	defer c.registryMu.Unlock()

	if !c.register(ctx, username) {
		return false
	}
	c.Put(ctx, KindList, username, []library.Item{})
	return true
}

// MergeUsers adds every unknown name of usernames to the registry, keeping order.
func (c *Cache) MergeUsers(ctx context.Context, usernames []string) {
	c.registryMu.Lock()
	defer c.registryMu.Unlock()

	users := c.Users(ctx)
	changed := false
	for _, name := range usernames {
		if !slices.Contains(users, name) {
			users = append(users, name)
			changed = true
		}
	}
	if changed {
		c.Put(ctx, KindUsers, "", users)
	}
}

// register appends username to the registry; callers hold registryMu.
func (c *Cache) register(ctx context.Context, username string) bool {
	users := c.Users(ctx)
	if slices.Contains(users, username) {
		return false
	}
	c.Put(ctx, KindUsers, "", append(users, username))
	return true
}

// # Current User

// CurrentUser returns the device's active username, [DefaultUser] when unset.
func (c *Cache) CurrentUser(ctx context.Context) string {
	var username string
	if !c.Get(ctx, KindCurrentUser, "", &username) || username == "" {
		return DefaultUser
	}
	return username
}

// SetCurrentUser points the device at username.
func (c *Cache) SetCurrentUser(ctx context.Context, username string) {
	c.Put(ctx, KindCurrentUser, "", username)
}
