// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package persist

import "github.com/taibuivan/mangatrack/internal/client/remote"

// # Fallback Policy
//
// Each function maps the outcome of the remote attempt to what the facade does
// next. They hold no state so every branch can be tested on its own.

type readAction int

const (
	// readRefresh returns the remote value and refreshes the cache with it.
	readRefresh readAction = iota
	// readFromCache returns whatever the cache holds.
	readFromCache
)

func readPolicy(remoteErr error) readAction {
	if remoteErr == nil {
		return readRefresh
	}
	return readFromCache
}

// writePolicy runs after the unconditional cache write. It never fails.
func writePolicy(remoteErr error) SaveResult {
	return SaveResult{RemoteSynced: remoteErr == nil}
}

type createAction int

const (
	// createMirror copies the remote registration into the local registry.
	createMirror createAction = iota
	// createReportExists answers "already exists" without an error.
	createReportExists
	// createLocalOnly registers the user on this device only.
	createLocalOnly
	// createSurface returns the remote error to the caller.
	createSurface
)

// createPolicy classifies a remote create failure. reachable is the advisory
// flag at the time of the failure and only breaks ties for unclassified errors.
func createPolicy(remoteErr error, reachable bool) createAction {
	if remoteErr == nil {
		return createMirror
	}

	kind, classified := remote.KindOf(remoteErr)
	if !classified {
		if !reachable {
			return createLocalOnly
		}
		return createSurface
	}

	switch kind {
	case remote.KindConflict:
		return createReportExists
	case remote.KindNetwork, remote.KindServer:
		return createLocalOnly
	}
	return createSurface
}
