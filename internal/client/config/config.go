// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config loads settings for the console and shop command-line clients.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/storefront/internal/client/session"
)

// Config holds client runtime settings.
type Config struct {
	APIURL   string        `env:"STOREFRONT_API_URL"  envDefault:"http://localhost:3000/api"`
	StateDir string        `env:"STOREFRONT_STATE_DIR"`
	Timeout  time.Duration `env:"STOREFRONT_TIMEOUT"  envDefault:"10s"`
	Platform string        `env:"STOREFRONT_PLATFORM" envDefault:"device"`
	Debug    bool          `env:"STOREFRONT_DEBUG"    envDefault:"false"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}
	return Parse()
}

// Parse maps the current environment into a [Config].
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.Platform != session.PlatformDevice && cfg.Platform != session.PlatformWeb {
		return nil, fmt.Errorf("config: STOREFRONT_PLATFORM must be %q or %q, got %q",
			session.PlatformDevice, session.PlatformWeb, cfg.Platform)
	}

	if cfg.Timeout <= 0 {
		return nil, errors.New("config: STOREFRONT_TIMEOUT must be positive")
	}

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(base, "storefront")
	}

	return cfg, nil
}
