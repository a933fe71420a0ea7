// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces ([auth.TokenProvider],
// [middleware.TokenVerifier]).
//
// # Tokens
//
// Tokens are HS256 JWTs signed with a single process-wide secret. They carry
// the subject id and role, expire a fixed duration after issuance and are
// never stored or revoked server-side.
package sec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of a bearer token.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	// ErrMissingSecret is returned at construction when no signing secret is configured.
	ErrMissingSecret = errors.New("sec: token signing secret is empty")

	// ErrInvalidToken covers bad signatures, malformed payloads and unexpected algorithms.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrExpiredToken is returned for a well-formed token past its expiry.
	ErrExpiredToken = errors.New("sec: token expired")
)

// AuthClaims represents the payload embedded inside a bearer token.
//
// The payload is signed, not encrypted; the holder can read it.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Role   string `json:"rol"`
}

// TokenService handles generation and verification of bearer tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService.
//
// It fails with [ErrMissingSecret] when secret is blank, so a misconfigured
// process never signs tokens with an empty key.
func NewTokenService(secret, issuer string, timeToLive time.Duration, options ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}

	if timeToLive <= 0 {
		return nil, fmt.Errorf("sec: token ttl must be positive, got %s", timeToLive)
	}

	service := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    timeToLive,
		now:    time.Now,
	}

	for _, option := range options {
		option(service)
	}

	return service, nil
}

// Mint creates a signed token for the given subject and role.
func (service *TokenService) Mint(userID string, role UserRole) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: userID,
		Role:   string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a token string.
//
// The returned error wraps either [ErrExpiredToken] or [ErrInvalidToken].
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL reports the lifetime applied to minted tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}
