// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiError *Error
	return errors.As(err, &apiError) && apiError.Status == http.StatusUnauthorized
}

// MessageOf returns the server message carried by err, or fallback.
//
// Transport failures and unknown errors always yield fallback.
func MessageOf(err error, fallback string) string {
	var apiError *Error
	if errors.As(err, &apiError) && apiError.Message != "" {
		return apiError.Message
	}
	return fallback
}
