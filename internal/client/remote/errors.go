// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed remote call.
type Kind int

const (
	// KindNetwork means no HTTP response was received.
	KindNetwork Kind = iota + 1
	// KindNotFound is a 404.
	KindNotFound
	// KindConflict is a 409, e.g. a duplicate username.
	KindConflict
	// KindValidation is a 400 or 422.
	KindValidation
	// KindServer covers every other non-2xx status and undecodable bodies.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the typed failure of every [Client] call.
type Error struct {
	Kind Kind
	// Status is the HTTP status code, 0 for network failures.
	Status int
	// Message is the server's "error" field when present, else "HTTP status N".
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("remote %s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the [Kind] from err's chain.
func KindOf(err error) (Kind, bool) {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err's chain holds an [*Error] of kind.
func IsKind(err error, kind Kind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	}
	return KindServer
}
