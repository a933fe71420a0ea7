// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/users/account"
	"github.com/taibuivan/storefront/internal/users/auth"
)

type harness struct {
	router   *chi.Mux
	repo     *auth.MemoryUserRepository
	admin    *auth.AuthResult
	customer *auth.AuthResult
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService("account-test-secret", "storefront.test", sec.DefaultTokenTTL)
	require.NoError(t, err)

	repo := auth.NewMemoryUserRepository()
	authService, err := auth.NewService(repo, tokens, nil,
		auth.NewBootstrapPolicy([]string{"boss@example.com"}, nil),
		auth.Settings{HashCost: bcrypt.MinCost}, logger)
	require.NoError(t, err)

	ctx := context.Background()
	admin, err := authService.Signup(ctx, auth.SignupInput{Name: "Boss", Email: "boss@example.com", Password: "secret1"})
	require.NoError(t, err)
	customer, err := authService.Signup(ctx, auth.SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	authenticate := middleware.Authenticate(tokens, authService)
	handler := account.NewHandler(account.NewService(repo, logger))

	router := chi.NewRouter()
	router.Mount("/api/users", handler.ProfileRoutes(authenticate))
	router.Mount("/api/admin/users", handler.AdminRoutes(authenticate))

	return &harness{router: router, repo: repo, admin: admin, customer: customer}
}

func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestProfile verifies reading and partially updating the caller's profile.
*/
func TestProfile(t *testing.T) {
	h := newHarness(t)
	token := h.customer.Token

	// 1. Read
	recorder := h.do(http.MethodGet, "/api/users/profile", "", token)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Ann", decode(t, recorder)["name"])

	// 2. Update only the image
	recorder = h.do(http.MethodPatch, "/api/users/profile", `{"image_url":"https://cdn.example.com/a.png"}`, token)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "https://cdn.example.com/a.png", body["image"])

	// 3. Blank names are rejected
	recorder = h.do(http.MethodPatch, "/api/users/profile", `{"name":"   "}`, token)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// 4. Anonymous callers are rejected
	recorder = h.do(http.MethodGet, "/api/users/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestAdmin_Guard verifies that customers cannot reach admin routes.
*/
func TestAdmin_Guard(t *testing.T) {
	h := newHarness(t)

	recorder := h.do(http.MethodGet, "/api/admin/users", "", h.customer.Token)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "Forbidden - Admin access only", decode(t, recorder)["message"])

	recorder = h.do(http.MethodGet, "/api/admin/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestAdmin_ListAndGet verifies the paginated envelope and single lookups.
*/
func TestAdmin_ListAndGet(t *testing.T) {
	h := newHarness(t)
	token := h.admin.Token

	recorder := h.do(http.MethodGet, "/api/admin/users?page=1&limit=1", "", token)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.EqualValues(t, 2, meta["total_pages"])

	recorder = h.do(http.MethodGet, "/api/admin/users/"+h.customer.User.ID, "", token)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ann@example.com", decode(t, recorder)["email"])

	recorder = h.do(http.MethodGet, "/api/admin/users/not-a-uuid", "", token)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = h.do(http.MethodGet, "/api/admin/users/0190c8a4-0000-7000-8000-000000000000", "", token)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestAdmin_ChangeRole verifies promotion and that the new role applies immediately.
*/
func TestAdmin_ChangeRole(t *testing.T) {
	h := newHarness(t)
	path := "/api/admin/users/" + h.customer.User.ID + "/role"

	// 1. Unknown roles are rejected
	recorder := h.do(http.MethodPatch, path, `{"role":"superuser"}`, h.admin.Token)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// 2. Promote the customer
	recorder = h.do(http.MethodPatch, path, `{"role":"admin"}`, h.admin.Token)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "admin", decode(t, recorder)["role"])

	// 3. The customer's old token now passes the admin guard
	recorder = h.do(http.MethodGet, "/api/admin/users", "", h.customer.Token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 4. Admins cannot change their own role
	recorder = h.do(http.MethodPatch, "/api/admin/users/"+h.admin.User.ID+"/role", `{"role":"customer"}`, h.admin.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

/*
TestAdmin_Delete verifies deletion and that the deleted account's token stops working.
*/
func TestAdmin_Delete(t *testing.T) {
	h := newHarness(t)

	recorder := h.do(http.MethodDelete, "/api/admin/users/"+h.customer.User.ID, "", h.admin.Token)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = h.do(http.MethodGet, "/api/users/profile", "", h.customer.Token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Unauthorized - User not found", decode(t, recorder)["message"])

	recorder = h.do(http.MethodDelete, "/api/admin/users/"+h.customer.User.ID, "", h.admin.Token)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = h.do(http.MethodDelete, "/api/admin/users/"+h.admin.User.ID, "", h.admin.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}
