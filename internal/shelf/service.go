// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shelf

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/internal/platform/validate"
)

// # Service Layer

// Service applies the registry rules on top of a [Store].
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new shelf [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// # User Registry

// ListUsers returns every registered username in creation order.
func (service *Service) ListUsers(ctx context.Context) ([]string, error) {
	return service.store.ListUsers(ctx)
}

/*
CreateUser normalizes and registers a username.

Description: The raw value is trimmed, NFC normalized and lowercased before the
uniqueness check, so "Alice" and " alice " collide.

Parameters:
  - ctx: context.Context
  - raw: string (as typed by the user)

Returns:
  - string: The normalized username that was stored
  - error: Validation (blank, too long, separators) or Conflict (duplicate)
*/
func (service *Service) CreateUser(ctx context.Context, raw string) (string, error) {
	username := library.NormalizeUsername(raw)

	validator := &validate.Validator{}
	validator.
		Custom(FieldUsername, username == "", "Username is required").
		MaxLen(FieldUsername, username, library.MaxUsernameLength).
		Printable(FieldUsername, username)

	if err := validator.Err(); err != nil {
		return "", err
	}

	if err := service.store.CreateUser(ctx, username); err != nil {
		return "", err
	}

	service.logger.Info("user_created", slog.String("username", username))

	return username, nil
}

// # Lists

// GetList returns the stored list, or an empty list for unknown users.
func (service *Service) GetList(ctx context.Context, username string) ([]library.Item, error) {
	return service.store.GetList(ctx, username)
}

/*
SaveList replaces the stored list wholesale.

Parameters:
  - ctx: context.Context
  - username: string (path value, stored verbatim)
  - items: []library.Item (nil stores an empty list)

Returns:
  - error: Persistence failures
*/
func (service *Service) SaveList(ctx context.Context, username string, items []library.Item) error {
	if items == nil {
		items = []library.Item{}
	}

	if err := service.store.SaveList(ctx, username, items); err != nil {
		return err
	}

	service.logger.Debug("list_saved",
		slog.String("username", username),
		slog.Int("items", len(items)),
	)
	return nil
}

// Stats aggregates the stored list of username.
func (service *Service) Stats(ctx context.Context, username string) (library.Stats, error) {
	items, err := service.store.GetList(ctx, username)
	if err != nil {
		return library.Stats{}, err
	}
	return library.ComputeStats(items), nil
}

// Ping reports store readiness.
func (service *Service) Ping(ctx context.Context) error {
	return service.store.Ping(ctx)
}
