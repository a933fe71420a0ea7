// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileTokenStore keeps namespaced keys in a single JSON file.
//
// It mirrors browser local storage: readable by anything running as the
// same user, so it is only chosen for the web platform and the admin console.
type FileTokenStore struct {
	path  string
	mutex sync.Mutex
}

// NewFileTokenStore creates a store backed by path. The file is created on first save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load returns the token stored under key, or "".
func (store *FileTokenStore) Load(_ context.Context, key string) (string, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	values, err := store.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Save writes token under key.
func (store *FileTokenStore) Save(_ context.Context, key, token string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	values, err := store.read()
	if err != nil {
		return err
	}
	values[key] = token
	return store.write(values)
}

// Delete removes key. Deleting a missing key is not an error.
func (store *FileTokenStore) Delete(_ context.Context, key string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	values, err := store.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return store.write(values)
}

func (store *FileTokenStore) read() (map[string]string, error) {
	values := make(map[string]string)

	raw, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", store.path, err)
	}

	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", store.path, err)
	}
	return values, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (store *FileTokenStore) write(values map[string]string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode storage: %w", err)
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: create %s: %w", dir, err)
	}

	temp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(raw); err != nil {
		_ = temp.Close()
		return fmt.Errorf("session: write temp file: %w", err)
	}
	if err := temp.Chmod(0o600); err != nil {
		_ = temp.Close()
		return fmt.Errorf("session: chmod temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("session: close temp file: %w", err)
	}

	if err := os.Rename(temp.Name(), store.path); err != nil {
		return fmt.Errorf("session: replace %s: %w", store.path, err)
	}
	return nil
}
