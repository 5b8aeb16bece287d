// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the tracker HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the configured store (file, postgres with migrations, or redis).
//  4. Wire HTTP handlers.
//  5. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/mangatrack/internal/api"
	"github.com/taibuivan/mangatrack/internal/platform/config"
	"github.com/taibuivan/mangatrack/internal/platform/constants"
	"github.com/taibuivan/mangatrack/internal/platform/migration"
	pgstore "github.com/taibuivan/mangatrack/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangatrack/internal/platform/redis"
	"github.com/taibuivan/mangatrack/internal/shelf"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for background work; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. Store ──────────────────────────────────────────────────────────
	store, closeStore, err := openStore(rootCtx, cfg, log)
	must(log, err, "open store")
	defer closeStore()

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		StoreName:  cfg.StoreDriver,
		CheckStore: store.Ping,
	}, log)

	// ── 4. Domain Wiring ──────────────────────────────────────────────────
	shelfHandler := shelf.NewHandler(shelf.NewService(store, log))

	server := api.NewServer(rootCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Shelf:     shelfHandler,
	})

	// ── 5. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name and makes it the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// openStore connects the driver selected by STORE_DRIVER.
// The returned close function releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (shelf.Store, func(), error) {
	// Short deadline so misconfiguration is caught quickly rather than hanging.
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case constants.DriverPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return nil, nil, err
		}
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		return shelf.NewPostgresStore(pool), func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}, nil

	case constants.DriverRedis:
		client, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		if err != nil {
			return nil, nil, err
		}
		return shelf.NewRedisStore(client), func() {
			log.Info("closing_redis_client")
			if err := client.Close(); err != nil {
				log.Error("redis_close_error", slog.Any("error", err))
			}
		}, nil

	case constants.DriverFile:
		store, err := shelf.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("file_store_opened", slog.String("data_dir", cfg.DataDir))
		return store, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
