// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads the API server's settings from the environment.

A .env file in the working directory is applied first when present; real
environment variables always win. Parse fails fast on a missing JWT_SECRET,
an unknown STORE_DRIVER, or any cross-field inconsistency, so a misconfigured
server never starts.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported credential store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Storefront API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver selects the credential store backend.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// MigrationPath overrides the migrations compiled into the binary.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis). Optional; enables login throttling.
	RedisURL string `env:"REDIS_URL"`

	// Token signing
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Bootstrap identities
	AdminEmails            []string `env:"ADMIN_EMAILS" envSeparator:","`
	BootstrapAdminEmail    string   `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string   `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	// EmailCaseSensitive disables case folding of login emails.
	EmailCaseSensitive bool `env:"EMAIL_CASE_SENSITIVE" envDefault:"false"`

	// Login throttling (only active with Redis)
	LoginMaxFailures int           `env:"LOGIN_MAX_FAILURES" envDefault:"5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT"      envDefault:"15m"`

	// Per-IP request limits. The auth tier applies to /api/auth only.
	RateLimitRPS       float64 `env:"RATE_LIMIT_RPS"        envDefault:"100"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST"      envDefault:"150"`
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS"   envDefault:"1"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"20"`

	// TrustedProxies lists CIDRs or bare IPs of reverse proxies allowed to set
	// X-Forwarded-For and X-Real-IP. Empty trusts no one.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	trustedNetworks []netip.Prefix

	// Cross-Origin Resource Sharing
	ClientURL    string `env:"CLIENT_URL"`
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment into a [Config] and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 {
		return errors.New("config: DB_MAX_CONNS must be positive and DB_MIN_CONNS non-negative")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET must not be blank")
	}

	if (c.BootstrapAdminEmail == "") != (c.BootstrapAdminPassword == "") {
		return errors.New("config: BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	networks, err := parseNetworks(c.TrustedProxies)
	if err != nil {
		return err
	}
	c.trustedNetworks = networks

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 || c.AuthRateLimitRPS <= 0 || c.AuthRateLimitBurst <= 0 {
		return errors.New("config: rate limits must be positive")
	}

	return nil
}

// parseNetworks accepts "10.0.0.0/8" and "10.1.2.3" forms.
func parseNetworks(entries []string) ([]netip.Prefix, error) {
	networks := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			networks = append(networks, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q", entry)
		}
		addr = addr.Unmap()
		networks = append(networks, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return networks, nil
}

// TrustedProxyNetworks returns the parsed TRUSTED_PROXIES.
func (c *Config) TrustedProxyNetworks() []netip.Prefix {
	return c.trustedNetworks
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the origins accepted by the CORS middleware outside development.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, 4)
	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
