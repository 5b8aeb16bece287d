// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangatrack/internal/client/remote"
	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/internal/shelf"
)

// newShelfServer serves the real shelf routes on a file store.
func newShelfServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := shelf.NewFileStore(t.TempDir())
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Mount("/api/users", shelf.NewHandler(shelf.NewService(store, slog.New(slog.DiscardHandler))).Routes())
	router.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

/*
TestClient_RoundTrip exercises every call against the real server routes.
*/
func TestClient_RoundTrip(t *testing.T) {
	server := newShelfServer(t)
	client := remote.New(server.URL, nil)
	ctx := context.Background()

	require.NoError(t, client.Health(ctx))

	created, err := client.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", created)

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, users)

	items := []library.Item{{ID: 5, Title: "Pluto", Status: library.StatusCompleted, UserRating: 8}}
	require.NoError(t, client.SaveList(ctx, "alice", items))

	loaded, err := client.FetchList(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Pluto", loaded[0].Title)

	stats, err := client.FetchStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, "8.0", stats.AvgRating)
}

/*
TestClient_ErrorKinds maps HTTP statuses to failure kinds and messages.
*/
func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    remote.Kind
		wantMessage string
	}{
		{"not_found", http.StatusNotFound, `{"error":"User not found"}`, remote.KindNotFound, "User not found"},
		{"conflict", http.StatusConflict, `{"error":"Username already exists"}`, remote.KindConflict, "Username already exists"},
		{"bad_request", http.StatusBadRequest, `{"error":"Username is required"}`, remote.KindValidation, "Username is required"},
		{"unprocessable", http.StatusUnprocessableEntity, `{}`, remote.KindValidation, "HTTP status 422"},
		{"server_error", http.StatusInternalServerError, `oops`, remote.KindServer, "HTTP status 500"},
		{"bad_gateway", http.StatusBadGateway, ``, remote.KindServer, "HTTP status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			reach := remote.NewReachability()
			_, err := remote.New(server.URL, reach).ListUsers(context.Background())

			var remoteErr *remote.Error
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.wantKind, remoteErr.Kind)
			assert.Equal(t, tt.status, remoteErr.Status)
			assert.Equal(t, tt.wantMessage, remoteErr.Message)
			assert.True(t, reach.Reachable(), "HTTP errors leave the flag untouched")
		})
	}
}

/*
TestClient_Reachability verifies the flag flips down on transport failure and back up on success.
*/
func TestClient_Reachability(t *testing.T) {
	healthy := newShelfServer(t)

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	reach := remote.NewReachability()
	ctx := context.Background()

	_, err := remote.New(deadURL, reach).ListUsers(ctx)
	assert.True(t, remote.IsKind(err, remote.KindNetwork))
	assert.False(t, reach.Reachable())

	_, err = remote.New(healthy.URL, reach).ListUsers(ctx)
	require.NoError(t, err)
	assert.True(t, reach.Reachable())
}

/*
TestClient_CancelledContextKeepsFlag checks that caller cancellation is not read as an outage.
*/
func TestClient_CancelledContextKeepsFlag(t *testing.T) {
	server := newShelfServer(t)
	reach := remote.NewReachability()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := remote.New(server.URL, reach).FetchList(ctx, "alice")
	assert.True(t, remote.IsKind(err, remote.KindNetwork))
	assert.True(t, reach.Reachable())
}

/*
TestClient_UndecodableBody classifies a garbled 2xx body as a server failure.
*/
func TestClient_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := remote.New(server.URL, nil).FetchList(context.Background(), "alice")
	assert.True(t, remote.IsKind(err, remote.KindServer))
}

/*
TestClient_EscapesUsername verifies usernames are path-escaped.
*/
func TestClient_EscapesUsername(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := remote.New(server.URL+"/", nil).FetchList(context.Background(), "mary jane")
	require.NoError(t, err)
	assert.Equal(t, "/api/users/mary%20jane/manga", gotPath)
}
