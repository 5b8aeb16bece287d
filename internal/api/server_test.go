// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangatrack/internal/api"
	"github.com/taibuivan/mangatrack/internal/platform/config"
	"github.com/taibuivan/mangatrack/internal/shelf"
)

func newTestServer(t *testing.T, cfg config.Config, checkStore func(context.Context) error) http.Handler {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	store, err := shelf.NewFileStore(t.TempDir())
	require.NoError(t, err)

	if checkStore == nil {
		checkStore = store.Ping
	}
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{StoreName: "file", CheckStore: checkStore}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, &cfg, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Shelf:     shelf.NewHandler(shelf.NewService(store, logger)),
	})
	return server.Handler()
}

func defaultConfig() config.Config {
	return config.Config{
		ServerPort:     "0",
		StoreDriver:    "file",
		CORSOrigins:    []string{"*"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

/*
TestServer_Health verifies the liveness probe used by device clients.
*/
func TestServer_Health(t *testing.T) {
	handler := newTestServer(t, defaultConfig(), nil)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

/*
TestServer_Readiness covers both the healthy and the degraded store.
*/
func TestServer_Readiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		handler := newTestServer(t, defaultConfig(), nil)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
	})

	t.Run("degraded", func(t *testing.T) {
		handler := newTestServer(t, defaultConfig(), func(context.Context) error { return errors.New("unreachable") })

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	})
}

/*
TestServer_RoutesMounted verifies the shelf routes live under /api/users.
*/
func TestServer_RoutesMounted(t *testing.T) {
	handler := newTestServer(t, defaultConfig(), nil)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"alice"}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.JSONEq(t, `["alice"]`, recorder.Body.String())
}

/*
TestServer_CORS checks the allow-list behavior, including preflight.
*/
func TestServer_CORS(t *testing.T) {
	cfg := defaultConfig()
	cfg.CORSOrigins = []string{"http://localhost:5173"}
	handler := newTestServer(t, cfg, nil)

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{"allowed_origin", "http://localhost:5173", "http://localhost:5173"},
		{"foreign_origin", "http://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			assert.Equal(t, tt.wantAllow, recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

/*
TestServer_RateLimit verifies the per-IP bucket rejects bursts beyond its capacity.
*/
func TestServer_RateLimit(t *testing.T) {
	cfg := defaultConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	handler := newTestServer(t, cfg, nil)

	codes := make([]int, 0, 3)
	for range 3 {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
