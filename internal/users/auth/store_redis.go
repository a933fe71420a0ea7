// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/storefront/internal/platform/constants"
)

// RedisLoginThrottle implements [LoginThrottle] with a Redis counter per email.
//
// The counter expires a lockout window after the first failure. Once it
// reaches maxFailures, further logins for that email are refused until the
// key expires.
type RedisLoginThrottle struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle creates a Redis-backed LoginThrottle.
func NewLoginThrottle(client *redis.Client, maxFailures int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

func (throttle *RedisLoginThrottle) key(email string) string {
	return constants.RedisPrefixLoginFailures + email
}

/*
Blocked returns the remaining lockout for an email.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - time.Duration: Zero when below the failure limit
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) Blocked(context context.Context, email string) (time.Duration, error) {
	key := throttle.key(email)

	failures, err := throttle.client.Get(context, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	if failures < throttle.maxFailures {
		return 0, nil
	}

	remaining, err := throttle.client.TTL(context, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_throttle_ttl_failed: %w", err)
	}

	return lockoutRemaining(remaining, throttle.window), nil
}

// TTL replies for a key that is gone or has no expiry.
const (
	ttlMissingKey = -2 * time.Nanosecond
	ttlNoExpiry   = -1 * time.Nanosecond
)

// lockoutRemaining maps a TTL reply to the lockout left. A key that expired
// between GET and TTL is no lockout. A key without expiry gets one window
// rather than locking forever.
func lockoutRemaining(ttl, window time.Duration) time.Duration {
	switch {
	case ttl == ttlNoExpiry:
		return window
	case ttl <= 0:
		return 0
	}
	return ttl
}

/*
RecordFailure increments the failure counter for an email.

Description: The first failure starts the lockout window.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, email string) error {
	key := throttle.key(email)

	pipeline := throttle.client.TxPipeline()
	pipeline.Incr(context, key)
	pipeline.ExpireNX(context, key, throttle.window)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	return nil
}

// Reset clears the failure counter for an email.
func (throttle *RedisLoginThrottle) Reset(context context.Context, email string) error {
	if err := throttle.client.Del(context, throttle.key(email)).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_delete_failed: %w", err)
	}
	return nil
}
