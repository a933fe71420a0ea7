// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/storefront/internal/client/api"
	"github.com/taibuivan/storefront/internal/client/cli"
	"github.com/taibuivan/storefront/internal/client/session"
	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/users/auth"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newServerURL(t *testing.T) string {
	t.Helper()

	tokens, err := sec.NewTokenService("cli-test-secret", "storefront.test", sec.DefaultTokenTTL)
	require.NoError(t, err)

	service, err := auth.NewService(
		auth.NewMemoryUserRepository(),
		tokens,
		nil,
		auth.NewBootstrapPolicy([]string{"boss@example.com"}, nil),
		auth.Settings{HashCost: bcrypt.MinCost},
		quietLogger,
	)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Mount("/api/auth", auth.NewHandler(service).Routes(middleware.Authenticate(tokens, service)))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server.URL + "/api"
}

// harness runs commands the way separate process invocations would: a fresh
// holder per command over a shared store.
type harness struct {
	url   string
	store session.TokenStore
	admin bool
}

func (h *harness) run(t *testing.T, stdin, password string, args ...string) (int, string, string) {
	t.Helper()

	client := api.New(h.url, time.Second, api.WithLogger(quietLogger))

	holder := session.NewShopperHolder(client, h.store, quietLogger)
	if h.admin {
		holder = session.NewAdminHolder(client, h.store, quietLogger)
	}

	var stdout, stderr bytes.Buffer
	app := &cli.App{
		Name:         "shop",
		AllowSignup:  !h.admin,
		Holder:       holder,
		Stdin:        strings.NewReader(stdin),
		Stdout:       &stdout,
		Stderr:       &stderr,
		ReadPassword: func() (string, error) { return password, nil },
	}

	code := app.Run(context.Background(), args)
	return code, stdout.String(), stderr.String()
}

/*
TestApp_ShopFlow walks signup, whoami, logout and login through the CLI.
*/
func TestApp_ShopFlow(t *testing.T) {
	h := &harness{url: newServerURL(t), store: session.NewMemoryTokenStore()}

	// 1. Signup with the name prompted on stdin
	code, stdout, _ := h.run(t, "Ann\n", "secret1", "signup", "-email", "ann@example.com")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "Account created for ann@example.com")

	// 2. Whoami re-validates the stored token
	code, stdout, _ = h.run(t, "", "", "whoami")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "Ann <ann@example.com>")
	assert.Contains(t, stdout, "role: customer")

	// 3. Logout
	code, _, _ = h.run(t, "", "", "logout")
	require.Equal(t, cli.ExitOK, code)

	code, stdout, _ = h.run(t, "", "", "status")
	require.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "anonymous\n", stdout)

	code, _, stderr := h.run(t, "", "", "whoami")
	assert.Equal(t, cli.ExitFailed, code)
	assert.Contains(t, stderr, "not logged in")

	// 4. Login with the email prompted on stdin
	code, stdout, _ = h.run(t, "ann@example.com\n", "secret1", "login")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "Logged in as ann@example.com (customer)")
}

/*
TestApp_Failures verifies server messages and usage errors reach the user.
*/
func TestApp_Failures(t *testing.T) {
	h := &harness{url: newServerURL(t), store: session.NewMemoryTokenStore()}

	code, _, stderr := h.run(t, "", "wrong-pass", "login", "-email", "nobody@example.com")
	assert.Equal(t, cli.ExitFailed, code)
	assert.Contains(t, stderr, "Invalid credentials")

	code, _, stderr = h.run(t, "", "", "login", "-email", "nobody@example.com")
	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, stderr, "password is required")

	code, _, _ = h.run(t, "", "", "frobnicate")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, _ = h.run(t, "", "")
	assert.Equal(t, cli.ExitUsage, code)
}

/*
TestApp_Console verifies the admin surface refuses customers and has no signup.
*/
func TestApp_Console(t *testing.T) {
	url := newServerURL(t)

	shop := &harness{url: url, store: session.NewMemoryTokenStore()}
	code, _, _ := shop.run(t, "", "secret1", "signup", "-name", "Ann", "-email", "ann@example.com")
	require.Equal(t, cli.ExitOK, code)
	code, _, _ = shop.run(t, "", "secret1", "signup", "-name", "Boss", "-email", "boss@example.com")
	require.Equal(t, cli.ExitOK, code)

	console := &harness{url: url, store: session.NewMemoryTokenStore(), admin: true}

	code, _, _ = console.run(t, "", "secret1", "signup", "-name", "X", "-email", "x@example.com")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, stderr := console.run(t, "", "secret1", "login", "-email", "ann@example.com")
	assert.Equal(t, cli.ExitFailed, code)
	assert.Contains(t, stderr, "Access denied. Admin only.")

	code, stdout, _ := console.run(t, "", "secret1", "login", "-email", "boss@example.com")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "(admin)")

	code, stdout, _ = console.run(t, "", "", "status")
	require.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "authenticated\n", stdout)
}
