// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/subtle"

	"github.com/taibuivan/storefront/internal/platform/sec"
)

// # Bootstrap Identities

// BootstrapCredential is the email/password pair accepted by the bootstrap login path.
type BootstrapCredential struct {
	Email    string
	Password string
}

// BootstrapPolicy holds the privileged identities injected at startup.
//
// # Security
//
// The credential path lets one configured pair log in without a stored hash
// check and creates or promotes that account to admin. It exists for first
// deployment only. Leave BOOTSTRAP_ADMIN_EMAIL unset in steady state.
type BootstrapPolicy struct {
	adminEmails map[string]struct{}
	credential  *BootstrapCredential
}

// NewBootstrapPolicy builds a policy from already normalized emails.
//
// A nil credential disables the bootstrap login path.
func NewBootstrapPolicy(adminEmails []string, credential *BootstrapCredential) BootstrapPolicy {
	policy := BootstrapPolicy{adminEmails: make(map[string]struct{}, len(adminEmails))}

	for _, email := range adminEmails {
		if email != "" {
			policy.adminEmails[email] = struct{}{}
		}
	}

	if credential != nil && credential.Email != "" && credential.Password != "" {
		copied := *credential
		policy.credential = &copied
	}

	return policy
}

// RoleForSignup returns the role a new account with this email receives.
func (policy BootstrapPolicy) RoleForSignup(email string) sec.UserRole {
	if _, ok := policy.adminEmails[email]; ok {
		return sec.RoleAdmin
	}
	if policy.credential != nil && policy.credential.Email == email {
		return sec.RoleAdmin
	}
	return sec.RoleCustomer
}

// MatchesCredential reports whether the submitted pair is the bootstrap credential.
func (policy BootstrapPolicy) MatchesCredential(email, password string) bool {
	if policy.credential == nil {
		return false
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(policy.credential.Email))
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(policy.credential.Password))
	return emailMatch&passwordMatch == 1
}

// CredentialEnabled reports whether the bootstrap login path is active.
func (policy BootstrapPolicy) CredentialEnabled() bool {
	return policy.credential != nil
}
