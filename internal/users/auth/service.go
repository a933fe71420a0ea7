// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/dberr"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing bearer tokens.
type TokenProvider interface {
	// Mint creates a signed token carrying the subject id and role.
	Mint(userID string, role sec.UserRole) (string, error)
}

// Settings tunes credential handling.
type Settings struct {
	// HashCost is the bcrypt work factor for new password hashes.
	HashCost int

	// EmailCaseSensitive disables case folding of login emails.
	EmailCaseSensitive bool
}

// Service implements the signup and login use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	throttle       LoginThrottle
	policy         BootstrapPolicy
	settings       Settings
	logger         *slog.Logger

	// dummyHash is compared against when the email is unknown so that both
	// failure branches spend one bcrypt comparison.
	dummyHash string
}

// NewService constructs a new [Service] with necessary dependencies.
//
// A nil throttle disables login lockout.
func NewService(
	userRepo UserRepository,
	tokenProv TokenProvider,
	throttle LoginThrottle,
	policy BootstrapPolicy,
	settings Settings,
	logger *slog.Logger,
) (*Service, error) {
	if settings.HashCost == 0 {
		settings.HashCost = sec.DefaultHashCost
	}
	if throttle == nil {
		throttle = NoopThrottle{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := sec.HashPassword(uuid.New(), settings.HashCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_dummy_hash_failed: %w", err)
	}

	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		throttle:       throttle,
		policy:         policy,
		settings:       settings,
		logger:         logger,
		dummyHash:      dummyHash,
	}, nil
}

// AuthResult is a freshly issued token and the account it belongs to.
type AuthResult struct {
	Token string
	User  *User

	// Bootstrap is set when the login matched the configured bootstrap credential.
	Bootstrap bool
}

// NormalizeEmail applies the service's email normalization policy.
func (service *Service) NormalizeEmail(email string) string {
	return NormalizeEmail(email, service.settings.EmailCaseSensitive)
}

// # Registration Flow

// SignupInput holds the data required to create an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

/*
Signup registers a new account and issues its first token.

Description: Rejects an email already on file, hashes the password, assigns
the role from the bootstrap policy and mints a token for the new account.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *AuthResult: Token and created account
  - error: AlreadyExists (400) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*AuthResult, error) {
	email := service.NormalizeEmail(input.Email)

	// Reject an existing email before spending a hash
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.AlreadyExists(msgUserExists)
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password, service.settings.HashCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         service.policy.RoleForSignup(email),
	}

	// A concurrent signup can still win the unique index
	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, dberr.ErrDuplicate) {
			return nil, apperr.AlreadyExists(msgUserExists)
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	token, err := service.tokenProvider.Mint(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return &AuthResult{Token: token, User: user}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates credentials and issues a bearer token.

Description: Unknown emails and wrong passwords fail identically. Repeated
failures lock the email out when a throttle is configured. The bootstrap
credential, when enabled, creates or promotes its account to admin.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthResult: Token and authenticated account
  - error: InvalidCredentials (400), RateLimited (429) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthResult, error) {
	email := service.NormalizeEmail(input.Email)

	if err := service.checkThrottle(context, email); err != nil {
		return nil, err
	}

	if service.policy.MatchesCredential(email, input.Password) {
		return service.bootstrapLogin(context, email, input.Password)
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}

		// Spend the same bcrypt time as a wrong password
		sec.CheckPasswordHash(input.Password, service.dummyHash)
		service.recordFailure(context, email)
		return nil, apperr.InvalidCredentials()
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, email)
		return nil, apperr.InvalidCredentials()
	}

	if err := service.throttle.Reset(context, email); err != nil {
		service.logger.WarnContext(context, "login_throttle_reset_failed", slog.Any("error", err))
	}

	token, err := service.tokenProvider.Mint(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// bootstrapLogin finds or creates the bootstrap account and makes sure it is an admin.
func (service *Service) bootstrapLogin(context context.Context, email, password string) (*AuthResult, error) {
	user, err := service.userRepository.FindByEmail(context, email)

	switch {
	case err == nil:
		if user.Role != sec.RoleAdmin {
			user.Role = sec.RoleAdmin
			if err := service.userRepository.Update(context, user); err != nil {
				return nil, fmt.Errorf("auth_service_bootstrap_promote_failed: %w", err)
			}
		}

	case apperr.IsNotFound(err):
		hashedPassword, hashErr := sec.HashPassword(password, service.settings.HashCost)
		if hashErr != nil {
			return nil, fmt.Errorf("auth_service_hash_failed: %w", hashErr)
		}

		user = &User{
			ID:           uuid.New(),
			Email:        email,
			Name:         BootstrapAdminName,
			PasswordHash: hashedPassword,
			Role:         sec.RoleAdmin,
		}
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, fmt.Errorf("auth_service_bootstrap_create_failed: %w", err)
		}

	default:
		return nil, fmt.Errorf("auth_service_bootstrap_lookup_failed: %w", err)
	}

	token, err := service.tokenProvider.Mint(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.WarnContext(context, "bootstrap_admin_login",
		slog.String("user_id", user.ID),
		slog.String("hint", "unset BOOTSTRAP_ADMIN_EMAIL once a real admin exists"),
	)

	return &AuthResult{Token: token, User: user, Bootstrap: true}, nil
}

// # Identity Resolution

/*
GetCurrentUser returns the stored account for an authenticated subject.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Current account state
  - error: apperr.NotFound when the account was deleted
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// ResolvePrincipal loads the request identity for a verified token subject.
//
// The role is always read from storage, so a demoted admin loses access on
// the next request even while holding an older token.
func (service *Service) ResolvePrincipal(context context.Context, userID string) (*sec.Principal, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}

// # Throttle Helpers

// checkThrottle rejects locked-out emails. Backend errors let the login through.
func (service *Service) checkThrottle(context context.Context, email string) error {
	remaining, err := service.throttle.Blocked(context, email)
	if err != nil {
		service.logger.WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
		return nil
	}

	if remaining > 0 {
		return apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
	}

	return nil
}

func (service *Service) recordFailure(context context.Context, email string) {
	if err := service.throttle.RecordFailure(context, email); err != nil {
		service.logger.WarnContext(context, "login_throttle_record_failed", slog.Any("error", err))
	}
}

