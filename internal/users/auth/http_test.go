// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/users/auth"
)

func newTestRouter(t *testing.T, options fixtureOptions) (*chi.Mux, *fixture) {
	t.Helper()

	f := newFixture(t, options)
	router := chi.NewRouter()
	router.Mount("/api/auth", auth.NewHandler(f.service).Routes(middleware.Authenticate(f.tokens, f.service)))
	return router, f
}

func doJSON(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestHandler_SignupLoginMe walks the happy path through the HTTP surface.
*/
func TestHandler_SignupLoginMe(t *testing.T) {
	router, _ := newTestRouter(t, fixtureOptions{})

	// 1. Signup
	recorder := doJSON(router, http.MethodPost, "/api/auth/signup",
		`{"email":"ann@example.com","password":"secret1","name":"Ann"}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])
	assert.NotEmpty(t, user["_id"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")

	// 2. Login
	recorder = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ann@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body = decodeBody(t, recorder)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "customer", body["role"])
	token := body["token"].(string)

	// 3. Me
	recorder = doJSON(router, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, recorder.Code)

	body = decodeBody(t, recorder)
	assert.Equal(t, user["_id"], body["_id"])
	assert.Equal(t, "Ann", body["name"])
}

/*
TestHandler_Errors verifies status codes and error bodies on the auth routes.
*/
func TestHandler_Errors(t *testing.T) {
	router, f := newTestRouter(t, fixtureOptions{})
	f.signup(t, "ann@example.com", "secret1", "Ann")

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		token       string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name: "duplicate signup", method: http.MethodPost, path: "/api/auth/signup",
			body:       `{"email":"ann@example.com","password":"secret1","name":"Ann"}`,
			wantStatus: http.StatusBadRequest, wantCode: "CONFLICT", wantMessage: "User already exists",
		},
		{
			name: "short password", method: http.MethodPost, path: "/api/auth/signup",
			body:       `{"email":"bob@example.com","password":"123","name":"Bob"}`,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR",
		},
		{
			name: "invalid email", method: http.MethodPost, path: "/api/auth/signup",
			body:       `{"email":"not-an-email","password":"secret1","name":"Bob"}`,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR",
		},
		{
			name: "malformed json", method: http.MethodPost, path: "/api/auth/login",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR",
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:       `{"email":"ann@example.com","password":"wrong-one"}`,
			wantStatus: http.StatusBadRequest, wantCode: "INVALID_CREDENTIALS", wantMessage: "Invalid credentials",
		},
		{
			name: "me without token", method: http.MethodGet, path: "/api/auth/me",
			wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED", wantMessage: "Unauthorized - No token provided",
		},
		{
			name: "me with garbage token", method: http.MethodGet, path: "/api/auth/me", token: "garbage",
			wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED", wantMessage: "Unauthorized - Invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(router, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			body := decodeBody(t, recorder)
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
		})
	}
}

/*
TestHandler_BootstrapLogin verifies the distinct success message of the bootstrap path.
*/
func TestHandler_BootstrapLogin(t *testing.T) {
	router, _ := newTestRouter(t, fixtureOptions{
		credential: &auth.BootstrapCredential{Email: "root@example.com", Password: "bootstrap-pass"},
	})

	recorder := doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"root@example.com","password":"bootstrap-pass"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "Admin login successful", body["message"])
	assert.Equal(t, "admin", body["role"])
}

/*
TestHandler_SignupTrimsEmail verifies surrounding whitespace in the signup
email is neither validated nor stored.
*/
func TestHandler_SignupTrimsEmail(t *testing.T) {
	longest := strings.Repeat("a", auth.MaxEmailLength-len("@example.com")) + "@example.com"

	tests := []struct {
		name  string
		email string
	}{
		{"padded address", "  ann@example.com  "},
		{"padded address at the length limit", "\t" + longest + " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, fixtureOptions{})
			trimmed := strings.TrimSpace(tt.email)

			payload, err := json.Marshal(map[string]string{"email": tt.email, "password": "secret1", "name": "Ann"})
			require.NoError(t, err)

			recorder := doJSON(router, http.MethodPost, "/api/auth/signup", string(payload), "")
			require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

			user := decodeBody(t, recorder)["user"].(map[string]any)
			assert.Equal(t, trimmed, user["email"])

			payload, err = json.Marshal(map[string]string{"email": trimmed, "password": "secret1"})
			require.NoError(t, err)

			recorder = doJSON(router, http.MethodPost, "/api/auth/login", string(payload), "")
			assert.Equal(t, http.StatusOK, recorder.Code)
		})
	}
}

/*
TestHandler_MeExpiredToken verifies an expired token is refused without leaking
the account.
*/
func TestHandler_MeExpiredToken(t *testing.T) {
	router, f := newTestRouter(t, fixtureOptions{})
	user := f.signup(t, "ann@example.com", "secret1", "Ann").User

	issuedAt := fixedNow.Add(-8 * 24 * time.Hour)
	past, err := sec.NewTokenService(testSecret, "storefront.test", sec.DefaultTokenTTL,
		sec.WithClock(func() time.Time { return issuedAt }))
	require.NoError(t, err)

	token, err := past.Mint(user.ID, user.Role)
	require.NoError(t, err)

	recorder := doJSON(router, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.NotContains(t, recorder.Body.String(), "ann@example.com")
}
