// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shelf

import (
	"context"

	"github.com/taibuivan/mangatrack/internal/library"
)

// # Shelf Data Access

// Store defines the persistence contract shared by every storage driver.
//
// Implementations must be safe for concurrent use by HTTP handlers.
type Store interface {

	/*
		ListUsers returns every registered username in creation order.

		Parameters:
		  - ctx: context.Context

		Returns:
		  - []string: Usernames, oldest first
		  - error: Retrieval failures
	*/
	ListUsers(ctx context.Context) ([]string, error)

	/*
		CreateUser registers a username and initializes its list to empty.

		Parameters:
		  - ctx: context.Context
		  - username: string (already normalized)

		Returns:
		  - error: apperr.Conflict if the username exists, or persistence failures
	*/
	CreateUser(ctx context.Context, username string) error

	/*
		GetList loads the list stored under username.

		Parameters:
		  - ctx: context.Context
		  - username: string

		Returns:
		  - []library.Item: The list, empty (never nil) when nothing is stored
		  - error: Retrieval failures
	*/
	GetList(ctx context.Context, username string) ([]library.Item, error)

	/*
		SaveList replaces the list stored under username.

		Parameters:
		  - ctx: context.Context
		  - username: string
		  - items: []library.Item

		Returns:
		  - error: Persistence failures
	*/
	SaveList(ctx context.Context, username string, items []library.Item) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
