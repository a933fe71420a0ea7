// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postgres opens the pgx pool behind the credential store.

The pool only serves users.account: one indexed lookup per authenticated
request plus the occasional signup or admin write. Repositories receive the
pool by injection and own their SQL.
*/
package postgres

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storefront/internal/platform/constants"
)

const (
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
)

// Settings sizes the pool. Zero values fall back to pgx defaults.
type Settings struct {
	MaxConns int32
	MinConns int32

	// StatementTimeout bounds every query server-side.
	StatementTimeout time.Duration
}

/*
NewPool connects to dsn and pings once before returning.

Parameters:
  - context: bounds the initial connect and ping
  - dsn: postgres:// URL or keyword DSN
  - settings: pool sizing
  - logger: receives the connected event

Returns:
  - *pgxpool.Pool: ready for use; the caller closes it
  - error: on a malformed DSN or an unreachable server
*/
func NewPool(context stdctx.Context, dsn string, settings Settings, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := buildConfig(dsn, settings)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres_pool: %w", err)
	}

	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

// buildConfig parses dsn and applies settings without connecting.
func buildConfig(dsn string, settings Settings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres_dsn: %w", err)
	}

	if settings.MaxConns > 0 {
		poolConfig.MaxConns = settings.MaxConns
	}
	if settings.MinConns > 0 {
		poolConfig.MinConns = min(settings.MinConns, poolConfig.MaxConns)
	}
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Startup parameters travel with the connect packet, so no extra round trip.
	runtime := poolConfig.ConnConfig.RuntimeParams
	if _, set := runtime["application_name"]; !set {
		runtime["application_name"] = constants.AppName
	}
	if settings.StatementTimeout > 0 {
		runtime["statement_timeout"] = strconv.FormatInt(settings.StatementTimeout.Milliseconds(), 10)
	}

	return poolConfig, nil
}

// Ping reports whether the pool can reach the server. Backs GET /api/ready.
func Ping(context stdctx.Context, pool *pgxpool.Pool) error {
	pingContext, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingContext); err != nil {
		return fmt.Errorf("postgres_ping: %w", err)
	}
	return nil
}
