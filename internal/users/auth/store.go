// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Credential Store

// UserRepository defines the data access contract for storefront accounts.
//
// Implementations return [apperr.NotFound] for missing rows and
// [dberr.ErrDuplicate] when an email is already registered.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account registered under a normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns one page of accounts, newest first, and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Page of accounts
		  - int: Total number of accounts
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*User, int, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: dberr.ErrDuplicate or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the mutable fields (name, image, role).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete removes the account permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Login Throttling

// LoginThrottle tracks failed logins per email and locks out brute force attempts.
type LoginThrottle interface {

	/*
		Blocked reports how long the email remains locked out.

		Returns:
		  - time.Duration: Zero when logins are allowed
		  - error: Backend failures
	*/
	Blocked(context context.Context, email string) (time.Duration, error)

	// RecordFailure counts a failed attempt for the email.
	RecordFailure(context context.Context, email string) error

	// Reset clears the failure counter after a successful login.
	Reset(context context.Context, email string) error
}

// NoopThrottle never blocks. It is used when Redis is not configured.
type NoopThrottle struct{}

// Blocked always allows the login.
func (NoopThrottle) Blocked(context.Context, string) (time.Duration, error) { return 0, nil }

// RecordFailure does nothing.
func (NoopThrottle) RecordFailure(context.Context, string) error { return nil }

// Reset does nothing.
func (NoopThrottle) Reset(context.Context, string) error { return nil }
