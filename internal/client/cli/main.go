// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/taibuivan/storefront/internal/client/api"
	"github.com/taibuivan/storefront/internal/client/config"
	"github.com/taibuivan/storefront/internal/client/session"
)

// Surface selects which client is being run.
type Surface int

const (
	SurfaceConsole Surface = iota
	SurfaceShop
)

/*
Execute wires config, storage and the session holder, then runs os.Args.

The console keeps its token in a plain JSON file (it is a browser-hosted
surface). The shop picks its store from STOREFRONT_PLATFORM.

Returns:
  - int: Process exit code
*/
func Execute(name string, surface Surface) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return ExitFailed
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store      session.TokenStore
		closeStore = func() error { return nil }
	)
	if surface == SurfaceConsole {
		if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
			logger.Error("state_dir_unavailable", slog.Any("error", err))
			return ExitFailed
		}
		store = session.NewFileTokenStore(filepath.Join(cfg.StateDir, "console.json"))
	} else {
		store, closeStore, err = session.OpenPlatformStore(cfg.Platform, cfg.StateDir)
		if err != nil {
			logger.Error("token_store_unavailable", slog.Any("error", err))
			return ExitFailed
		}
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("token_store_close_failed", slog.Any("error", err))
		}
	}()

	client := api.New(cfg.APIURL, cfg.Timeout, api.WithLogger(logger))

	app := &App{
		Name:   name,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if surface == SurfaceConsole {
		app.Holder = session.NewAdminHolder(client, store, logger)
	} else {
		app.Holder = session.NewShopperHolder(client, store, logger)
		app.AllowSignup = true
	}

	return app.Run(ctx, os.Args[1:])
}
