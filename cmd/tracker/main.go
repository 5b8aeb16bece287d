// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tracker is the device client of the manga tracker.
//
// # Startup Sequence
//
//  1. Parse global flags and load the TOML configuration.
//  2. Build the stderr logger at the configured level.
//  3. Open the device cache (SQLite) and the remote store client.
//  4. Open the session and dispatch the subcommand.
//  5. Flush pending edits and close the cache.
//
// Every command works offline; the server copy catches up on the next save.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/mangatrack/internal/catalog"
	"github.com/taibuivan/mangatrack/internal/client/cache"
	"github.com/taibuivan/mangatrack/internal/client/config"
	"github.com/taibuivan/mangatrack/internal/client/debounce"
	"github.com/taibuivan/mangatrack/internal/client/persist"
	"github.com/taibuivan/mangatrack/internal/client/remote"
	"github.com/taibuivan/mangatrack/internal/client/tracker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app bundles the wired client components for one invocation.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	remote  *remote.Client
	local   *cache.Cache
	session *tracker.Session
	catalog *catalog.Client
	stdin   io.Reader
	stdout  io.Writer
}

// usageError marks errors caused by wrong arguments.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("tracker", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to config.toml (default "+config.DefaultPath+")")
	flags.Usage = func() { printUsage(stderr) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		printUsage(stderr)
		return 2
	}

	name, rest := flags.Arg(0), flags.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "tracker: unknown command %q\n\n", name)
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "tracker: %v\n", err)
		return 1
	}

	a, closeApp, err := openApp(ctx, cfg, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "tracker: %v\n", err)
		return 1
	}
	defer closeApp()

	if err := cmd.run(ctx, a, rest); err != nil {
		var usage *usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(stderr, "tracker %s: %v\nusage: tracker %s\n", name, err, cmd.usage)
			return 2
		}
		fmt.Fprintf(stderr, "tracker %s: %v\n", name, err)
		return 1
	}
	return 0
}

// openApp wires the client. The returned close function flushes pending
// edits before releasing the cache.
func openApp(ctx context.Context, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) (*app, func(), error) {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := cache.OpenSQLite(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	local := cache.New(store, logger)

	reach := remote.NewReachability()
	remoteClient := remote.New(cfg.APIURL, reach)
	facade := persist.New(remoteClient, local, reach, logger)
	debouncer := debounce.New(debounce.SystemClock{}, cfg.DebounceDelay())

	a := &app{
		cfg:     cfg,
		logger:  logger,
		remote:  remoteClient,
		local:   local,
		session: tracker.Open(ctx, facade, local, debouncer, logger),
		catalog: catalog.New(cfg.CatalogURL),
		stdin:   stdin,
		stdout:  stdout,
	}

	closeApp := func() {
		// Pending edits are saved even after an interrupt.
		a.session.Close(context.WithoutCancel(ctx))
		if err := local.Close(); err != nil {
			logger.Error("cache_close_failed", slog.Any("error", err))
		}
	}
	return a, closeApp, nil
}
