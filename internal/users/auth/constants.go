// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// MinPasswordLength is the shortest password accepted at signup.
	MinPasswordLength = 6

	// MaxPasswordBytes is the bcrypt input limit; longer inputs are rejected, not truncated.
	MaxPasswordBytes = 72

	// MaxNameLength bounds display names.
	MaxNameLength = 100

	// MaxEmailLength bounds login emails (RFC 5321 path limit).
	MaxEmailLength = 254
)

// # Bootstrap Identity

const (
	// BootstrapAdminName is the display name given to an account created by the bootstrap login.
	BootstrapAdminName = "Admin"
)

// # Client Messages

const (
	msgSignupSuccess  = "User created successfully"
	msgLoginSuccess   = "Login successful"
	msgBootstrapLogin = "Admin login successful"
	msgUserExists     = "User already exists"
)
