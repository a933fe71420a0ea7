// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys, one per client surface.
const (
	KeyAdminToken = "storefront.admin.token"
	KeyShopToken  = "storefront.shop.token"
)

// Platform names accepted by [OpenPlatformStore].
const (
	PlatformDevice = "device"
	PlatformWeb    = "web"
)

// TokenStore persists the session token between runs.
//
// Load returns "" with a nil error when nothing is stored under key.
type TokenStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}

// OpenPlatformStore picks the backing store for the shopper app.
//
// The web platform gets the plain file store (the local storage analogue).
// Every other platform gets the SQLite secure store. The returned close
// function releases the store.
func OpenPlatformStore(platform, stateDir string) (TokenStore, func() error, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("session: create state dir: %w", err)
	}

	if platform == PlatformWeb {
		store := NewFileTokenStore(filepath.Join(stateDir, "storage.json"))
		return store, func() error { return nil }, nil
	}

	store, err := OpenSQLiteTokenStore(filepath.Join(stateDir, "secure.db"))
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// MemoryTokenStore keeps tokens in process memory. Used in tests and for
// ephemeral sessions.
type MemoryTokenStore struct {
	mutex  sync.Mutex
	values map[string]string
}

// NewMemoryTokenStore creates an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{values: make(map[string]string)}
}

// Load returns the stored token or "".
func (store *MemoryTokenStore) Load(_ context.Context, key string) (string, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return store.values[key], nil
}

// Save stores token under key.
func (store *MemoryTokenStore) Save(_ context.Context, key, token string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.values[key] = token
	return nil
}

// Delete removes key.
func (store *MemoryTokenStore) Delete(_ context.Context, key string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	delete(store.values, key)
	return nil
}
