// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storefront/internal/platform/middleware"
	requestutil "github.com/taibuivan/storefront/internal/platform/request"
	"github.com/taibuivan/storefront/internal/platform/respond"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/platform/validate"
	"github.com/taibuivan/storefront/internal/users/auth"
	"github.com/taibuivan/storefront/pkg/pagination"
	"github.com/taibuivan/storefront/pkg/slice"
)

// Handler implements the HTTP layer for profile and user management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// ProfileRoutes returns the self-service routes, mounted at /api/users.
//
// # Endpoints
//   - GET   /profile : Caller's account.
//   - PATCH /profile : Partial update of name and image.
func (handler *Handler) ProfileRoutes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(authenticate)

	router.Get("/profile", handler.getProfile)
	router.Patch("/profile", handler.updateProfile)

	return router
}

// AdminRoutes returns the user management routes, mounted at /api/admin/users.
//
// Every route requires an authenticated admin.
func (handler *Handler) AdminRoutes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(authenticate, middleware.RequireAdmin)

	router.Get("/", handler.listUsers)
	router.Get("/{id}", handler.getUser)
	router.Patch("/{id}/role", handler.changeRole)
	router.Delete("/{id}", handler.deleteUser)

	return router
}

// # Profile Endpoints

/*
GET /api/users/profile.

Response:
  - 200: PublicUser
  - 401: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

// updateProfileRequest defines the expected JSON payload for profile updates.
type updateProfileRequest struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"image_url"`
}

/*
PATCH /api/users/profile.

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: PublicUser
  - 400: Invalid input data
  - 401: Authentication required
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required(fieldName, *input.Name).MaxLen(fieldName, *input.Name, maxNameLength)
	}
	if input.ImageURL != nil {
		v.MaxLen(fieldImageURL, *input.ImageURL, maxImageURLLength).URL(fieldImageURL, *input.ImageURL)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:     input.Name,
		ImageURL: input.ImageURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

// # Admin Endpoints

/*
GET /api/admin/users?page&limit.

Response:
  - 200: {data: [PublicUser], meta}
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data := slice.Map(users, (*auth.User).Public)
	respond.Paginated(writer, data, pagination.NewMeta(params, total))
}

/*
GET /api/admin/users/{id}.

Response:
  - 200: PublicUser
  - 400: Malformed id
  - 404: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := pathUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/admin/users/{id}/role.

Request:
  - body: changeRoleRequest ("customer" or "admin")

Response:
  - 200: PublicUser
  - 400: Unknown role or malformed id
  - 404: User not found
  - 422: Target is the calling admin
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := pathUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, ok := sec.ParseRole(input.Role)
	if !ok {
		respond.Error(writer, request, validate.RequiredError(fieldRole, "Must be one of: customer, admin"))
		return
	}

	user, err := handler.accountService.ChangeRole(request.Context(), ChangeRoleInput{
		ActorID: principal.UserID,
		UserID:  userID,
		Role:    role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

/*
DELETE /api/admin/users/{id}.

Response:
  - 204: Deleted
  - 404: User not found
  - 422: Target is the calling admin
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := pathUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteUser(request.Context(), principal.UserID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// pathUserID reads and validates the {id} URL parameter.
func pathUserID(request *http.Request) (string, error) {
	userID := requestutil.Param(request, fieldID)

	v := &validate.Validator{}
	v.UUID(fieldID, userID)
	if err := v.Err(); err != nil {
		return "", err
	}

	return userID, nil
}
