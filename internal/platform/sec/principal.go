// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Principal is the authenticated caller attached to a request.
//
// It is built from the stored account, not from the token claims, so a role
// change or account deletion is visible on the very next request.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   UserRole
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
