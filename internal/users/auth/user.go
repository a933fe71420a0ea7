// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity layer of the storefront.

It defines the account entity, the credential store contract, and the
signup/login flows that issue bearer tokens.

# Architecture

Entities defined here have no storage dependencies. The password hash never
leaves this package in a response: handlers only ever serialize [PublicUser].
*/
package auth

import (
	"time"

	"github.com/taibuivan/storefront/internal/platform/sec"
)

// # Domain Entities

// User represents a registered storefront account.
type User struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	Name              string       `json:"name"`
	PasswordHash      string       `json:"-"` // Explicitly omitted from JSON for security.
	Role              sec.UserRole `json:"role"`
	ImageURL          string       `json:"image_url,omitempty"`
	PaymentCustomerID string       `json:"payment_customer_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// PublicUser is the read view of a [User] returned to clients.
//
// Field names follow the contract the admin console and the mobile app
// already consume ("_id", "image").
type PublicUser struct {
	ID                string       `json:"_id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Role              sec.UserRole `json:"role"`
	Image             string       `json:"image"`
	PaymentCustomerID string       `json:"payment_customer_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Public returns the client-safe view of the account.
func (user *User) Public() *PublicUser {
	return &PublicUser{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		Image:             user.ImageURL,
		PaymentCustomerID: user.PaymentCustomerID,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// Principal converts the account into the identity attached to requests.
func (user *User) Principal() *sec.Principal {
	return &sec.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
}

// clone returns a detached copy so callers cannot mutate stored state.
func (user *User) clone() *User {
	copied := *user
	return &copied
}

// # Field Identifiers

// Field names for validation in the authentication domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldImageURL = "image_url"
	FieldRole     = "role"
)
