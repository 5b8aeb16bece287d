// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package persist is the resilient persistence facade of the device client.

It fronts two tiers: the remote store (shared, possibly unreachable) and the
local cache (device only, always available). The rules are fixed:

  - Reads try the remote first, refresh the cache on success and fall back to
    the cache on any failure. Reads never fail.
  - Writes go to the cache first, unconditionally, then to the remote. A remote
    failure is reported in [SaveResult] but is not an error.
  - User creation mirrors a remote success locally, reports a duplicate as
    [CreateExists], and falls back to a local-only user when the remote is down.

Usernames are expected to be normalized by the caller.
*/
package persist

import (
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/mangatrack/internal/client/cache"
	"github.com/taibuivan/mangatrack/internal/library"
)

// Remote is the subset of the remote store client the facade needs.
type Remote interface {
	FetchList(ctx context.Context, username string) ([]library.Item, error)
	SaveList(ctx context.Context, username string, items []library.Item) error
	ListUsers(ctx context.Context) ([]string, error)
	CreateUser(ctx context.Context, username string) (string, error)
	FetchStats(ctx context.Context, username string) (library.Stats, error)
}

// Reachability reports the advisory "remote reachable" flag.
type Reachability interface {
	Reachable() bool
}

// SaveResult describes where a saved list ended up.
type SaveResult struct {
	// RemoteSynced is false when only the device copy was written.
	RemoteSynced bool
}

// CreateResult is the outcome of [Facade.CreateUser].
type CreateResult int

const (
	// CreateCreated means the remote accepted the user.
	CreateCreated CreateResult = iota + 1
	// CreateExists means the username was already taken.
	CreateExists
	// CreateLocalOnly means the remote was unavailable and the user exists on this device only.
	CreateLocalOnly
)

func (r CreateResult) String() string {
	switch r {
	case CreateCreated:
		return "created"
	case CreateExists:
		return "exists"
	case CreateLocalOnly:
		return "local_only"
	}
	return "unknown"
}

// Facade implements the two-tier persistence policy.
type Facade struct {
	remote Remote
	local  *cache.Cache
	reach  Reachability
	logger *slog.Logger
}

// New builds a facade over remote and local. reach is consulted for
// unclassified create failures.
func New(remote Remote, local *cache.Cache, reach Reachability, logger *slog.Logger) *Facade {
	return &Facade{remote: remote, local: local, reach: reach, logger: logger}
}

// Online reports the advisory reachability of the remote store.
func (f *Facade) Online() bool {
	return f.reach.Reachable()
}

// # Lists

// GetList returns the list of username from the remote, or from the cache when
// the remote fails. The result is never nil.
func (f *Facade) GetList(ctx context.Context, username string) []library.Item {
	items, err := f.remote.FetchList(ctx, username)

	switch readPolicy(err) {
	case readRefresh:
		if items == nil {
			items = []library.Item{}
		}
		f.local.PutList(context.WithoutCancel(ctx), username, items)
		return items
	default:
		event := "remote_fetch_failed_using_cache"
		if !f.local.HasList(ctx, username) {
			event = "remote_fetch_failed_no_cached_list"
		}
		f.logger.WarnContext(ctx, event,
			slog.String("username", username),
			slog.Any("error", err),
		)
		return f.local.List(ctx, username)
	}
}

// SaveList writes items to the cache, then to the remote. It always succeeds.
// The cache write ignores cancellation of ctx so an interrupted save is still
// kept on this device.
func (f *Facade) SaveList(ctx context.Context, username string, items []library.Item) SaveResult {
	f.local.PutList(context.WithoutCancel(ctx), username, items)

	err := f.remote.SaveList(ctx, username, items)
	result := writePolicy(err)
	if !result.RemoteSynced {
		f.logger.WarnContext(ctx, "remote_save_failed_kept_on_device",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
	return result
}

// # Users

// CreateUser registers username remotely, falling back to this device when the
// remote store is unavailable. Only ambiguous failures are returned as errors.
func (f *Facade) CreateUser(ctx context.Context, username string) (CreateResult, error) {
	stored, err := f.remote.CreateUser(ctx, username)

	switch createPolicy(err, f.reach.Reachable()) {
	case createMirror:
		if stored == "" {
			stored = username
		}
		f.local.AddUser(context.WithoutCancel(ctx), stored)
		return CreateCreated, nil

	case createReportExists:
		return CreateExists, nil

	case createLocalOnly:
		f.logger.WarnContext(ctx, "remote_create_failed_creating_locally",
			slog.String("username", username),
			slog.Any("error", err),
		)
		if !f.local.AddUser(context.WithoutCancel(ctx), username) {
			return CreateExists, nil
		}
		return CreateLocalOnly, nil
	}

	return 0, err
}

// ListUsers returns the remote registry followed by users known only to this
// device. When the remote fails the local registry is returned.
func (f *Facade) ListUsers(ctx context.Context) []string {
	remoteUsers, err := f.remote.ListUsers(ctx)
	if err != nil {
		f.logger.WarnContext(ctx, "remote_list_users_failed_using_cache", slog.Any("error", err))
		return f.local.Users(ctx)
	}

	users := slices.Clone(remoteUsers)
	for _, name := range f.local.Users(ctx) {
		if !slices.Contains(users, name) {
			users = append(users, name)
		}
	}
	f.local.MergeUsers(ctx, remoteUsers)
	return users
}

// Stats returns the remote aggregate, or one computed from the cached list.
func (f *Facade) Stats(ctx context.Context, username string) library.Stats {
	stats, err := f.remote.FetchStats(ctx, username)
	if err == nil {
		return stats
	}
	f.logger.WarnContext(ctx, "remote_stats_failed_using_cache",
		slog.String("username", username),
		slog.Any("error", err),
	)
	return library.ComputeStats(f.local.List(ctx, username))
}
