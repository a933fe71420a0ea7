// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/platform/sec"
)

// fakeVerifier maps raw tokens to claims or errors.
type fakeVerifier map[string]error

func (verifier fakeVerifier) Verify(token string) (*sec.AuthClaims, error) {
	if err, ok := verifier[token]; ok && err != nil {
		return nil, err
	}
	if _, ok := verifier[token]; !ok {
		return nil, sec.ErrInvalidToken
	}
	return &sec.AuthClaims{UserID: token}, nil
}

// fakeResolver resolves user ids to principals.
type fakeResolver map[string]*sec.Principal

func (resolver fakeResolver) ResolvePrincipal(_ context.Context, userID string) (*sec.Principal, error) {
	if userID == "broken" {
		return nil, apperr.Internal(errors.New("db down"))
	}
	principal, ok := resolver[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return principal, nil
}

func newAuthChain(admin bool) http.Handler {
	verifier := fakeVerifier{
		"admin-1":    nil,
		"customer-1": nil,
		"ghost":      nil,
		"broken":     nil,
		"old":        fmt.Errorf("%w: token is expired", sec.ErrExpiredToken),
	}
	resolver := fakeResolver{
		"admin-1":    {UserID: "admin-1", Role: sec.RoleAdmin},
		"customer-1": {UserID: "customer-1", Role: sec.RoleCustomer},
	}

	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(principal.UserID))
	})

	var handler http.Handler = final
	if admin {
		handler = middleware.RequireAdmin(handler)
	}
	return middleware.Authenticate(verifier, resolver)(handler)
}

/*
TestAuthenticate verifies every rejection branch and the success path.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		admin       bool
		wantStatus  int
		wantMessage string
	}{
		{"no header", "", false, http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"wrong scheme", "Basic abc", false, http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"empty bearer", "Bearer ", false, http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"unknown token", "Bearer nope", false, http.StatusUnauthorized, "Unauthorized - Invalid or expired token"},
		{"expired token", "Bearer old", false, http.StatusUnauthorized, "Unauthorized - Invalid or expired token"},
		{"deleted user", "Bearer ghost", false, http.StatusUnauthorized, "Unauthorized - User not found"},
		{"storage failure", "Bearer broken", false, http.StatusInternalServerError, "An unexpected error occurred"},
		{"customer on admin route", "Bearer customer-1", true, http.StatusForbidden, "Forbidden - Admin access only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			newAuthChain(tt.admin).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

/*
TestAuthenticate_Success verifies that the resolved principal reaches the handler.
*/
func TestAuthenticate_Success(t *testing.T) {
	for _, tt := range []struct {
		token string
		admin bool
	}{
		{"customer-1", false},
		{"admin-1", false},
		{"admin-1", true},
	} {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "bearer "+tt.token)
		recorder := httptest.NewRecorder()

		newAuthChain(tt.admin).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, tt.token, recorder.Body.String())
	}
}

/*
TestRequireRole_WithoutAuthenticate verifies the guard rejects anonymous requests.
*/
func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleCustomer)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestBearerToken verifies header parsing.
*/
func TestBearerToken(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := middleware.BearerToken(request)
	assert.False(t, ok)

	request.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	token, ok := middleware.BearerToken(request)
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	request.Header.Set("Authorization", "Token abc")
	_, ok = middleware.BearerToken(request)
	assert.False(t, ok)
}
