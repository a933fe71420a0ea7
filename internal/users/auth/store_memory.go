// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/dberr"
)

// MemoryUserRepository is a process-local [UserRepository].
//
// It backs STORE_DRIVER=memory and the package tests. State is lost on restart.
type MemoryUserRepository struct {
	mutex   sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryUserRepository creates an empty in-memory store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FindByID returns a copy of the account with the given ID.
func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	user, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound(resourceUser)
	}
	return user.clone(), nil
}

// FindByEmail returns a copy of the account registered under email.
func (repository *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	id, ok := repository.byEmail[email]
	if !ok {
		return nil, apperr.NotFound(resourceUser)
	}
	return repository.byID[id].clone(), nil
}

// List returns accounts newest first.
func (repository *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	all := make([]*User, 0, len(repository.byID))
	for _, user := range repository.byID {
		all = append(all, user)
	}

	slices.SortFunc(all, func(a, b *User) int {
		if cmp := b.CreatedAt.Compare(a.CreatedAt); cmp != 0 {
			return cmp
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	total := len(all)
	if offset >= total {
		return []*User{}, total, nil
	}

	end := min(offset+limit, total)
	page := make([]*User, 0, end-offset)
	for _, user := range all[offset:end] {
		page = append(page, user.clone())
	}

	return page, total, nil
}

// Create stores a new account. The email must not be registered yet.
func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if _, exists := repository.byEmail[user.Email]; exists {
		return dberr.ErrDuplicate
	}
	if _, exists := repository.byID[user.ID]; exists {
		return dberr.ErrDuplicate
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = repository.now()
	}
	user.UpdatedAt = user.CreatedAt

	repository.byID[user.ID] = user.clone()
	repository.byEmail[user.Email] = user.ID
	return nil
}

// Update stores the mutable fields of an existing account.
func (repository *MemoryUserRepository) Update(_ context.Context, user *User) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	stored, ok := repository.byID[user.ID]
	if !ok {
		return apperr.NotFound(resourceUser)
	}

	user.UpdatedAt = repository.now()
	stored.Name = user.Name
	stored.ImageURL = user.ImageURL
	stored.Role = user.Role
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

// Delete removes an account and its email index entry.
func (repository *MemoryUserRepository) Delete(_ context.Context, id string) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	stored, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound(resourceUser)
	}

	delete(repository.byEmail, stored.Email)
	delete(repository.byID, id)
	return nil
}
