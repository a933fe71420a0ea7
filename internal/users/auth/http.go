// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/storefront/internal/platform/request"
	"github.com/taibuivan/storefront/internal/platform/respond"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the /api/auth endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// authenticate is the bearer verification middleware applied to protected routes.
//
// # Endpoints
//   - POST /signup : Creates an account and returns a token.
//   - POST /login  : Verifies credentials and returns a token.
//   - GET  /me     : Returns the authenticated account.
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// # Response Payloads

type signupResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *PublicUser `json:"user"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Role    sec.UserRole `json:"role"`
	User    *PublicUser  `json:"user"`
}

/*
Signup handles the creation of a new account.

POST /api/auth/signup

Request:
  - Body: signupRequest (Email, Password, Name)

Response:
  - 201: signupResponse
  - 400: Validation failure or "User already exists"
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Surrounding whitespace is dropped before storage, so it is not counted
	email := strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxBytes(FieldPassword, input.Password, MaxPasswordBytes).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Signup(request.Context(), SignupInput{
		Name:     input.Name,
		Email:    email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, signupResponse{
		Message: msgSignupSuccess,
		Token:   result.Token,
		User:    result.User.Public(),
	})
}

/*
Login authenticates an account and issues a token.

POST /api/auth/login

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: loginResponse
  - 400: "Invalid credentials"
  - 429: Too many failed attempts for this email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := msgLoginSuccess
	if result.Bootstrap {
		message = msgBootstrapLogin
	}

	respond.OK(writer, loginResponse{
		Message: message,
		Token:   result.Token,
		Role:    result.User.Role,
		User:    result.User.Public(),
	})
}

/*
Me returns the account behind the bearer token.

GET /api/auth/me

Response:
  - 200: PublicUser
  - 401: Missing or invalid token
  - 404: Account no longer exists
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}
