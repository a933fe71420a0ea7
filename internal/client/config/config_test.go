// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/client/config"
)

/*
TestParse_Defaults verifies the client defaults.
*/
func TestParse_Defaults(t *testing.T) {
	t.Setenv("STOREFRONT_STATE_DIR", "/tmp/storefront-state")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "device", cfg.Platform)
	assert.Equal(t, "/tmp/storefront-state", cfg.StateDir)
}

/*
TestParse_Errors verifies invalid client settings are rejected.
*/
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown platform", "STOREFRONT_PLATFORM", "toaster"},
		{"zero timeout", "STOREFRONT_TIMEOUT", "0s"},
		{"malformed timeout", "STOREFRONT_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STOREFRONT_STATE_DIR", t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := config.Parse()
			assert.Error(t, err)
		})
	}
}
