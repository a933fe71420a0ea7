// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestLockoutRemaining verifies how TTL replies turn into a lockout. A counter
that expired between the two reads must not lock the account again.
*/
func TestLockoutRemaining(t *testing.T) {
	window := 15 * time.Minute

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"key gone", ttlMissingKey, 0},
		{"no expiry", ttlNoExpiry, window},
		{"expiring now", 0, 0},
		{"counting down", 42 * time.Second, 42 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lockoutRemaining(tt.ttl, window))
		})
	}
}
