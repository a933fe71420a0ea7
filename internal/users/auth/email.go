// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail prepares an email for storage and lookup.
//
// Surrounding whitespace is removed and the value is NFC-normalized. Unless
// caseSensitive is set, the address is also Unicode case-folded so that
// "Ann@X.com" and "ann@x.com" are the same login key.
func NormalizeEmail(email string, caseSensitive bool) string {
	normalized := norm.NFC.String(strings.TrimSpace(email))
	if caseSensitive {
		return normalized
	}
	return cases.Fold().String(normalized)
}
