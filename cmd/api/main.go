// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command api serves the storefront auth and account endpoints under /api.

Startup order matters: configuration and the token signer come first so a
missing JWT_SECRET aborts before any connection is opened. The credential
store follows (postgres with migrations, or memory), then the optional Redis
counters, then the HTTP server. SIGINT or SIGTERM triggers a graceful stop.
*/
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

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/config"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/platform/migration"
	pgstore "github.com/taibuivan/storefront/internal/platform/postgres"
	redisstore "github.com/taibuivan/storefront/internal/platform/redis"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/users/account"
	"github.com/taibuivan/storefront/internal/users/auth"
	"github.com/taibuivan/storefront/pkg/slice"
)

// startupTimeout bounds every dial and ping made before serving.
const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		newLogger(false).Error("startup_failed", slog.String("stage", "config"), slog.Any("error", err))
		os.Exit(1)
	}

	log := newLogger(cfg.Debug)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// newLogger builds the JSON logger every line of the process goes through.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// dependencies are the opened backends plus how to release them.
type dependencies struct {
	users    auth.UserRepository
	throttle auth.LoginThrottle
	checks   []api.DependencyCheck
	closers  []func()
}

func (deps *dependencies) close() {
	for i := len(deps.closers) - 1; i >= 0; i-- {
		deps.closers[i]()
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("service_initializing",
		slog.String("environment", cfg.Environment),
		slog.String("store_driver", cfg.StoreDriver),
		slog.Bool("throttling", cfg.RedisURL != ""),
	)

	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token_service: %w", err)
	}

	startup, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	deps, err := openDependencies(startup, cfg, log)
	cancelStartup()
	defer deps.close()
	if err != nil {
		return err
	}

	authService, err := newAuthService(cfg, deps, tokens, log)
	if err != nil {
		return fmt.Errorf("auth_service: %w", err)
	}

	liveness, readiness := api.NewHealthHandlers(deps.checks, log)

	serving, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(serving, cfg, log, middleware.Authenticate(tokens, authService), api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(account.NewService(deps.users, log)),
	})

	failed := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case <-serving.Done():
		log.Info("shutdown_requested")
	case err := <-failed:
		return fmt.Errorf("listen: %w", err)
	}

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server_stopped")
	return nil
}

// openDependencies connects the credential store and, when configured, Redis.
// The returned value is always safe to close, even alongside an error.
func openDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*dependencies, error) {
	deps := &dependencies{throttle: auth.NoopThrottle{}}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, pgstore.Settings{
			MaxConns:         cfg.DBMaxConns,
			MinConns:         cfg.DBMinConns,
			StatementTimeout: constants.GlobalRequestTimeout,
		}, log)
		if err != nil {
			return deps, err
		}
		deps.closers = append(deps.closers, pool.Close)

		if err := migration.Up(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return deps, err
		}

		deps.users = auth.NewUserRepository(pool)
		deps.checks = append(deps.checks, api.DependencyCheck{
			Name: "postgres",
			Ping: func(probe context.Context) error { return pgstore.Ping(probe, pool) },
		})

	case config.StoreDriverMemory:
		log.Warn("memory_store_enabled", slog.String("hint", "accounts are lost on restart"))
		deps.users = auth.NewMemoryUserRepository()
	}

	if cfg.RedisURL == "" {
		return deps, nil
	}

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return deps, err
	}
	deps.closers = append(deps.closers, func() {
		if err := client.Close(); err != nil {
			log.Warn("redis_close_failed", slog.Any("error", err))
		}
	})

	deps.throttle = auth.NewLoginThrottle(client, cfg.LoginMaxFailures, cfg.LoginLockout)
	deps.checks = append(deps.checks, api.DependencyCheck{
		Name: "redis",
		Ping: func(probe context.Context) error { return redisstore.Ping(probe, client) },
	})
	return deps, nil
}

// newAuthService applies the admin allow-list and bootstrap credential.
func newAuthService(cfg *config.Config, deps *dependencies, tokens *sec.TokenService, log *slog.Logger) (*auth.Service, error) {
	normalize := func(email string) string { return auth.NormalizeEmail(email, cfg.EmailCaseSensitive) }

	var bootstrap *auth.BootstrapCredential
	if cfg.BootstrapAdminEmail != "" {
		bootstrap = &auth.BootstrapCredential{
			Email:    normalize(cfg.BootstrapAdminEmail),
			Password: cfg.BootstrapAdminPassword,
		}
		log.Warn("bootstrap_admin_login_enabled", slog.String("email", bootstrap.Email))
	}

	return auth.NewService(
		deps.users,
		tokens,
		deps.throttle,
		auth.NewBootstrapPolicy(slice.Map(cfg.AdminEmails, normalize), bootstrap),
		auth.Settings{HashCost: cfg.BcryptCost, EmailCaseSensitive: cfg.EmailCaseSensitive},
		log,
	)
}
