// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/storefront/internal/platform/sec"
)

func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, sec.CheckPasswordHash("pw123456", hash))
	assert.False(t, sec.CheckPasswordHash("pw1234567", hash))

	// Salted: the same input never produces the same hash twice.
	again, err := sec.HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}

func TestUserRole(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"admin", true},
		{"customer", true},
		{"Admin", false},
		{"moderator", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, ok := sec.ParseRole(tt.raw)
			assert.Equal(t, tt.valid, ok)
		})
	}

	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleCustomer))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleCustomer.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("ghost").AtLeast(sec.RoleCustomer))
}

func TestPrincipal_IsAdmin(t *testing.T) {
	var nilPrincipal *sec.Principal
	assert.False(t, nilPrincipal.IsAdmin())
	assert.False(t, (&sec.Principal{Role: sec.RoleCustomer}).IsAdmin())
	assert.True(t, (&sec.Principal{Role: sec.RoleAdmin}).IsAdmin())
}
