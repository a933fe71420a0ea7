// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost applies when BCRYPT_COST is zero.
const DefaultHashCost = 10

// HashPassword returns the bcrypt hash stored in users.account.passwordhash.
// Inputs over 72 bytes fail rather than being silently truncated.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash_password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash is false for a mismatch and for a malformed hash alike.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
