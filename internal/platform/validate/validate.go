// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate checks decoded request payloads in handlers, before any
// service call. Failures surface as one VALIDATION_ERROR with per-field details.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/storefront/internal/platform/apperr"
)

var (
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	// ErrInvalidJSON rejects a body that is not exactly one JSON value.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator accumulates failures across a chain of rules. One per request.
type Validator struct {
	errs []apperr.FieldError
}

// check records message against field when failed is true.
func (v *Validator) check(failed bool, field, message string) *Validator {
	if failed {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) == "", field, "This field is required")
}

// MaxBytes counts bytes, not characters. Passwords use it for bcrypt's 72-byte cap.
func (v *Validator) MaxBytes(field, value string, limit int) *Validator {
	return v.check(len(value) > limit, field, fmt.Sprintf("Maximum %d bytes", limit))
}

func (v *Validator) MaxLen(field, value string, limit int) *Validator {
	return v.check(utf8.RuneCountInString(value) > limit, field, fmt.Sprintf("Maximum %d characters", limit))
}

func (v *Validator) MinLen(field, value string, limit int) *Validator {
	return v.check(utf8.RuneCountInString(value) < limit, field, fmt.Sprintf("Minimum %d characters", limit))
}

// Email accepts only a bare address. "Ann <ann@example.com>" parses as RFC 5322
// but is rejected, since the stored value doubles as the login key.
func (v *Validator) Email(field, value string) *Validator {
	trimmed := strings.TrimSpace(value)
	address, err := mail.ParseAddress(trimmed)
	return v.check(err != nil || address.Name != "" || address.Address != trimmed, field, "Must be a valid email address")
}

// URL accepts "" or an absolute http(s) URL with a host.
func (v *Validator) URL(field, value string) *Validator {
	if value == "" {
		return v
	}
	parsed, err := url.Parse(value)
	return v.check(err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "",
		field, "Must be an http or https URL")
}

// UUID accepts the 8-4-4-4-12 hex form in either case.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(!uuidPattern.MatchString(strings.ToLower(value)), field, "Must be a valid UUID")
}

/*
Err returns the collected failures as one VALIDATION_ERROR, or nil.

The message names the first failing field so that clients showing only
"message" still tell the user what to fix. Details carries every failure.
*/
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	first := v.errs[0]
	return apperr.ValidationError(first.Field+": "+first.Message, v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// RequiredError builds a single-field validation error outside a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(field+": "+message, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
