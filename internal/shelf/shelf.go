// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package shelf implements the server side of the tracker: the user registry and
one manga list document per user.

The server is a thin document store. Lists are replaced wholesale on every save
and never merged; the device client owns the mutation logic.

# Storage Drivers

  - File: users.json and data.json in a data directory (the historical format).
  - Postgres: tracker.userprofile and tracker.mangalist with a JSONB column.
  - Redis: a registry hash plus one JSON string per list.
*/
package shelf

// # Field Identifiers

const (
	FieldUsername = "username"
)

// # Transport Types

// CreateUserInput is the body of POST /api/users.
type CreateUserInput struct {
	Username string `json:"username"`
}

// CreateUserResult is returned once a username has been registered.
type CreateUserResult struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// SaveListResult acknowledges a list replacement.
type SaveListResult struct {
	Success bool `json:"success"`
}
