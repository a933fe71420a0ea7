// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects to the store holding expiring counters.

The API keeps only failed-login counters here. Tokens are stateless and never
written to Redis. The connection is optional: without REDIS_URL the server
starts with throttling disabled.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/storefront/internal/platform/constants"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 500 * time.Millisecond
	pingTimeout = 2 * time.Second

	// Counters are one INCR plus EXPIRE per failed login.
	poolSize = 4
)

/*
NewClient dials redisURL and pings once.

Parameters:
  - context: bounds the startup ping
  - redisURL: redis:// or rediss:// URL
  - logger: receives the connected event

Returns:
  - *redis.Client: ready for use; the caller closes it
  - error: on a malformed URL or an unreachable server
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := clientOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// clientOptions parses redisURL and applies the counter-sized pool.
func clientOptions(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis_url: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	return options, nil
}

// Ping reports whether Redis answers. Backs GET /api/ready.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingContext, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingContext).Err(); err != nil {
		return fmt.Errorf("redis_ping: %w", err)
	}
	return nil
}
