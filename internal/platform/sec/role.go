// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is stored verbatim in users.account.role.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// ParseRole accepts exactly "customer" or "admin".
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(raw)
	return role, role.Valid()
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	}
	return false
}

// AtLeast orders roles customer < admin. Unknown roles rank below both.
func (r UserRole) AtLeast(required UserRole) bool {
	return r.rank() >= required.rank()
}

func (r UserRole) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleCustomer:
		return 1
	}
	return 0
}
