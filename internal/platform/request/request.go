// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads inputs out of an incoming request: the JSON body,
chi URL parameters, and the caller placed in the context by the
authentication middleware.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies. Auth payloads are tiny.
const maxBodyBytes = 64 << 10

const msgAuthRequired = "Authentication required"

/*
DecodeJSON decodes a single JSON object from the request body into target.

Unknown fields are ignored so older clients keep working. An empty body,
trailing data, or a body over the size cap are all rejected.

Returns:
  - error: validate.ErrInvalidJSON on any decoding failure
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes+1))

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}

	// Exactly one value: a second Decode must hit EOF.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}

	if decoder.InputOffset() > maxBodyBytes {
		return validate.ErrInvalidJSON
	}

	return nil
}

// Param returns a named chi URL parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredPrincipal returns the authenticated caller or a 401.
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthorized(msgAuthRequired)
	}
	return principal, nil
}

// RequiredUserID returns the authenticated caller's id or a 401.
func RequiredUserID(request *http.Request) (string, error) {
	principal, err := RequiredPrincipal(request)
	if err != nil {
		return "", err
	}
	return principal.UserID, nil
}
