// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/internal/platform/respond"
	"github.com/taibuivan/storefront/internal/platform/sec"
)

// Client-facing messages. Invalid and expired tokens share one message.
const (
	msgNoToken      = "Unauthorized - No token provided"
	msgInvalidToken = "Unauthorized - Invalid or expired token"
	msgUserNotFound = "Unauthorized - User not found"
	msgForbidden    = "Forbidden - Admin access only"
	msgAuthRequired = "Authentication required"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// PrincipalResolver loads the current account for a verified subject id.
//
// Implementations return an [apperr.AppError] with status 404 when the
// account no longer exists.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (*sec.Principal, error)
}

// Authenticate requires and verifies a bearer token on every request.
//
// # Flow
//  1. Require 'Authorization: Bearer <token>'; absence is 401.
//  2. Verify the token via [TokenVerifier]; failure is 401.
//  3. Re-load the account via [PrincipalResolver]; a missing account is 401.
//  4. Inject the [*sec.Principal] and a user-scoped logger into the context.
//
// The role used downstream comes from storage, not from the token claims.
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			// ── 1. Header Extraction ──────────────────────────────────────────
			tokenString, ok := BearerToken(request)
			if !ok {
				logger.WarnContext(ctx, "auth_rejected", slog.String("reason", "missing"))
				respond.Error(writer, request, apperr.Unauthorized(msgNoToken))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, sec.ErrExpiredToken) {
					reason = "expired"
				}
				logger.WarnContext(ctx, "auth_rejected",
					slog.String("reason", reason),
					slog.String("error", err.Error()),
				)
				respond.Error(writer, request, apperr.Unauthorized(msgInvalidToken))
				return
			}

			// ── 3. Account Resolution ─────────────────────────────────────────
			principal, err := resolver.ResolvePrincipal(ctx, claims.UserID)
			if err != nil {
				if apperr.IsNotFound(err) {
					logger.WarnContext(ctx, "auth_rejected",
						slog.String("reason", "user_not_found"),
						slog.String("user_id", claims.UserID),
					)
					respond.Error(writer, request, apperr.Unauthorized(msgUserNotFound))
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			userLogger := logger.With(slog.String("user_id", principal.UserID))
			ctx = ctxutil.WithPrincipal(ctx, principal)
			ctx = ctxutil.WithLogger(ctx, userLogger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered AFTER [Authenticate]; it reads the principal that
// Authenticate stored and never re-verifies the token.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized(msgAuthRequired))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden(msgForbidden))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin is [RequireRole] for [sec.RoleAdmin].
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(sec.RoleAdmin)(next)
}

// BearerToken extracts the token from an 'Authorization: Bearer <token>' header.
func BearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.AuthScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
