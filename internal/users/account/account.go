// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile self-service and admin user management.

# Architecture

  - Domain: This package depends on the auth package for the User entity and
    its credential store. It owns no storage of its own.
  - Security: Profile routes act on the caller only. Admin routes are mounted
    behind the admin guard and refuse to act on the calling admin's own role
    or account.
*/
package account

import (
	"github.com/taibuivan/storefront/internal/platform/sec"
)

// # Inputs

// UpdateProfileInput carries a partial profile update. Nil fields are unchanged.
type UpdateProfileInput struct {
	Name     *string
	ImageURL *string
}

// ChangeRoleInput identifies the target account and its new role.
type ChangeRoleInput struct {
	ActorID string
	UserID  string
	Role    sec.UserRole
}

// # Field Identifiers

const (
	fieldName     = "name"
	fieldImageURL = "image_url"
	fieldRole     = "role"
	fieldID       = "id"
)

// # Constraints

const (
	maxNameLength     = 100
	maxImageURLLength = 2048
)

const msgSelfModification = "Admins cannot change or delete their own account here"
