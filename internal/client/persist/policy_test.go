// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package persist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangatrack/internal/client/remote"
)

/*
TestReadPolicy covers both read branches.
*/
func TestReadPolicy(t *testing.T) {
	assert.Equal(t, readRefresh, readPolicy(nil))
	assert.Equal(t, readFromCache, readPolicy(&remote.Error{Kind: remote.KindNetwork}))
	assert.Equal(t, readFromCache, readPolicy(errors.New("anything")))
}

/*
TestWritePolicy verifies a remote failure is reported but never turned into an error.
*/
func TestWritePolicy(t *testing.T) {
	assert.Equal(t, SaveResult{RemoteSynced: true}, writePolicy(nil))
	assert.Equal(t, SaveResult{RemoteSynced: false}, writePolicy(&remote.Error{Kind: remote.KindServer}))
}

/*
TestCreatePolicy is the full decision table for user creation.
*/
func TestCreatePolicy(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reachable bool
		want      createAction
	}{
		{"success", nil, true, createMirror},
		{"conflict", &remote.Error{Kind: remote.KindConflict}, true, createReportExists},
		{"conflict_while_down", &remote.Error{Kind: remote.KindConflict}, false, createReportExists},
		{"network", &remote.Error{Kind: remote.KindNetwork}, false, createLocalOnly},
		{"server", &remote.Error{Kind: remote.KindServer}, true, createLocalOnly},
		{"validation", &remote.Error{Kind: remote.KindValidation}, true, createSurface},
		{"not_found", &remote.Error{Kind: remote.KindNotFound}, true, createSurface},
		{"unclassified_while_up", errors.New("boom"), true, createSurface},
		{"unclassified_while_down", errors.New("boom"), false, createLocalOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, createPolicy(tt.err, tt.reachable))
		})
	}
}
