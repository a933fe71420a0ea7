// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the client-side login state for the admin console and
the shopper app.

A [Holder] is constructed explicitly and passed to whatever needs it. It
moves through a small state machine:

	uninitialized -> hydrating -> authenticated | anonymous

# Trust Model

A persisted token is trusted only as far as "probably logged in". The user
and role shown to callers always come from the last server response. After
hydration the holder re-validates against /auth/me and any 401 from any
endpoint clears the session, provided the rejected request carried the token
the holder still holds.
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/taibuivan/storefront/internal/client/api"
)

// State is the lifecycle phase of a [Holder].
type State int

const (
	StateUninitialized State = iota
	StateHydrating
	StateAuthenticated
	StateAnonymous
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// ErrAdminOnly is returned when a non-admin account signs in to the admin console.
var ErrAdminOnly = &api.Error{
	Status:  http.StatusForbidden,
	Code:    "ADMIN_ONLY",
	Message: "Access denied. Admin only.",
}

// Busy reports which operations are in flight.
type Busy struct {
	LoggingIn  bool
	SigningUp  bool
	LoggingOut bool
}

// Holder is one client surface's session.
type Holder struct {
	client    *api.Client
	store     TokenStore
	key       string
	adminOnly bool
	logger    *slog.Logger

	mutex sync.RWMutex
	state State
	token string
	user  *api.User
	busy  Busy
}

// NewAdminHolder creates the admin console session. Only admin accounts are kept.
func NewAdminHolder(client *api.Client, store TokenStore, logger *slog.Logger) *Holder {
	return newHolder(client, store, KeyAdminToken, true, logger)
}

// NewShopperHolder creates the shopper app session.
func NewShopperHolder(client *api.Client, store TokenStore, logger *slog.Logger) *Holder {
	return newHolder(client, store, KeyShopToken, false, logger)
}

func newHolder(client *api.Client, store TokenStore, key string, adminOnly bool, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.Default()
	}

	holder := &Holder{
		client:    client,
		store:     store,
		key:       key,
		adminOnly: adminOnly,
		logger:    logger.With(slog.String("session", key)),
	}

	client.SetTokenSource(holder.Token)
	client.SetUnauthorizedHandler(holder.expire)

	return holder
}

// # Hydration

/*
Hydrate restores the persisted session.

A stored token moves the holder to authenticated immediately. The user is
then fetched from /auth/me. A 401 there clears the session. Any other
failure keeps the token and leaves the user unknown until the next call.

Returns:
  - error: Only when the backing store cannot be read
*/
func (holder *Holder) Hydrate(ctx context.Context) error {
	holder.setState(StateHydrating)

	token, err := holder.store.Load(ctx, holder.key)
	if err != nil {
		holder.setState(StateAnonymous)
		return fmt.Errorf("session: load token: %w", err)
	}

	if token == "" {
		holder.setState(StateAnonymous)
		return nil
	}

	holder.mutex.Lock()
	holder.state = StateAuthenticated
	holder.token = token
	holder.user = nil
	holder.mutex.Unlock()

	// The lock is released: the client calls back into Token and expire
	user, err := holder.client.Me(ctx)
	switch {
	case api.IsUnauthorized(err):
		holder.clear(ctx)
		return nil
	case err != nil:
		holder.logger.WarnContext(ctx, "session_revalidation_failed", slog.Any("error", err))
		return nil
	}

	if holder.adminOnly && !user.IsAdmin() {
		holder.logger.WarnContext(ctx, "session_not_admin", slog.String("user_id", user.ID))
		holder.clear(ctx)
		return nil
	}

	holder.mutex.Lock()
	if holder.token == token {
		holder.user = user
	}
	holder.mutex.Unlock()

	return nil
}

// # Operations

// Login signs in and persists the token on success.
func (holder *Holder) Login(ctx context.Context, email, password string) (*api.User, error) {
	holder.setBusy(func(busy *Busy) { busy.LoggingIn = true })
	defer holder.setBusy(func(busy *Busy) { busy.LoggingIn = false })

	response, err := holder.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	return holder.accept(ctx, response)
}

// Signup creates an account and persists the token on success.
func (holder *Holder) Signup(ctx context.Context, name, email, password string) (*api.User, error) {
	holder.setBusy(func(busy *Busy) { busy.SigningUp = true })
	defer holder.setBusy(func(busy *Busy) { busy.SigningUp = false })

	response, err := holder.client.Signup(ctx, api.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	return holder.accept(ctx, response)
}

// accept stores a fresh login result.
func (holder *Holder) accept(ctx context.Context, response *api.AuthResponse) (*api.User, error) {
	if response.Token == "" || response.User == nil {
		return nil, fmt.Errorf("%w: auth response without token or user", api.ErrTransport)
	}

	if holder.adminOnly && !response.User.IsAdmin() {
		return nil, ErrAdminOnly
	}

	if err := holder.store.Save(ctx, holder.key, response.Token); err != nil {
		return nil, fmt.Errorf("session: save token: %w", err)
	}

	user := *response.User

	holder.mutex.Lock()
	holder.state = StateAuthenticated
	holder.token = response.Token
	holder.user = &user
	holder.mutex.Unlock()

	holder.logger.InfoContext(ctx, "session_started", slog.String("user_id", user.ID), slog.String("role", user.Role))

	return &user, nil
}

// Logout forgets the session locally. The server is not contacted.
func (holder *Holder) Logout(ctx context.Context) error {
	holder.setBusy(func(busy *Busy) { busy.LoggingOut = true })
	defer holder.setBusy(func(busy *Busy) { busy.LoggingOut = false })

	holder.reset()

	if err := holder.store.Delete(ctx, holder.key); err != nil {
		return fmt.Errorf("session: delete token: %w", err)
	}
	return nil
}

// # Accessors

/*
Token returns the bearer token for outgoing requests.

The in-memory token wins. When it is empty the backing store is read, which
picks up a token written by another process.
*/
func (holder *Holder) Token(ctx context.Context) (string, error) {
	holder.mutex.RLock()
	token := holder.token
	holder.mutex.RUnlock()

	if token != "" {
		return token, nil
	}
	return holder.store.Load(ctx, holder.key)
}

// State returns the current lifecycle phase.
func (holder *Holder) State() State {
	holder.mutex.RLock()
	defer holder.mutex.RUnlock()
	return holder.state
}

// User returns a copy of the signed-in user, or nil when unknown.
func (holder *Holder) User() *api.User {
	holder.mutex.RLock()
	defer holder.mutex.RUnlock()

	if holder.user == nil {
		return nil
	}
	user := *holder.user
	return &user
}

// IsAuthenticated reports whether a session token is held.
func (holder *Holder) IsAuthenticated() bool {
	return holder.State() == StateAuthenticated
}

// Busy returns the in-flight operation flags.
func (holder *Holder) Busy() Busy {
	holder.mutex.RLock()
	defer holder.mutex.RUnlock()
	return holder.busy
}

// # Internals

/*
expire is the client's 401 hook.

Only a rejection of the token the holder currently uses ends the session. A
late 401 for a token that a newer login has already replaced is ignored, in
memory and in the store.
*/
func (holder *Holder) expire(rejected string) {
	ctx := context.Background()

	holder.mutex.Lock()
	held := holder.token
	if held != "" && held != rejected {
		holder.mutex.Unlock()
		holder.logger.Debug("stale_token_rejected")
		return
	}
	if held == rejected {
		holder.state = StateAnonymous
		holder.token = ""
		holder.user = nil
	}
	holder.mutex.Unlock()

	// The token may have come from the store; leave a newer one alone
	stored, err := holder.store.Load(ctx, holder.key)
	if err == nil && stored != rejected {
		return
	}

	holder.logger.Info("session_expired")
	if err := holder.store.Delete(ctx, holder.key); err != nil {
		holder.logger.Warn("session_clear_failed", slog.Any("error", err))
	}
}

// clear drops the session in memory and in the store.
func (holder *Holder) clear(ctx context.Context) {
	holder.reset()

	if err := holder.store.Delete(ctx, holder.key); err != nil && !errors.Is(err, context.Canceled) {
		holder.logger.WarnContext(ctx, "session_clear_failed", slog.Any("error", err))
	}
}

func (holder *Holder) reset() {
	holder.mutex.Lock()
	defer holder.mutex.Unlock()

	holder.state = StateAnonymous
	holder.token = ""
	holder.user = nil
}

func (holder *Holder) setState(state State) {
	holder.mutex.Lock()
	defer holder.mutex.Unlock()
	holder.state = state
}

func (holder *Holder) setBusy(update func(*Busy)) {
	holder.mutex.Lock()
	defer holder.mutex.Unlock()
	update(&holder.busy)
}
