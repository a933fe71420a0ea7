// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/users/auth"
	"github.com/taibuivan/storefront/pkg/pagination"
)

// Service implements profile and user management use cases.
type Service struct {
	userRepository auth.UserRepository
	logger         *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(userRepo auth.UserRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{userRepository: userRepo, logger: logger}
}

// # Profile

/*
GetProfile retrieves an account by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: Current account state
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.userRepository.FindByID(context, userID)
}

/*
UpdateProfile applies a partial update to the caller's own account.

Description: Only name and image URL are mutable through this path. Email,
role and password are never touched.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated account
  - error: apperr.NotFound or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.ImageURL != nil {
		user.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	return user, nil
}

// # Administration

/*
ListUsers returns one page of accounts, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - int: Total account count
  - error: Storage failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.userRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
ChangeRole assigns a new role to another account.

Parameters:
  - context: context.Context
  - input: ChangeRoleInput

Returns:
  - *auth.User: The updated account
  - error: Unprocessable on self-modification, NotFound, or storage failures
*/
func (service *Service) ChangeRole(context context.Context, input ChangeRoleInput) (*auth.User, error) {
	if input.ActorID == input.UserID {
		return nil, apperr.Unprocessable(msgSelfModification)
	}

	user, err := service.userRepository.FindByID(context, input.UserID)
	if err != nil {
		return nil, err
	}

	if user.Role == input.Role {
		return user, nil
	}

	previous := user.Role
	user.Role = input.Role
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_change_role_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_role_changed",
		slog.String("actor_id", input.ActorID),
		slog.String("target_id", user.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(user.Role)),
	)

	return user, nil
}

/*
DeleteUser permanently removes another account.

Description: Tokens already issued to the account stop working on their next
request because verification re-loads the account.

Parameters:
  - context: context.Context
  - actorID: string
  - userID: string

Returns:
  - error: Unprocessable on self-deletion, NotFound, or storage failures
*/
func (service *Service) DeleteUser(context context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperr.Unprocessable(msgSelfModification)
	}

	if err := service.userRepository.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_deleted",
		slog.String("actor_id", actorID),
		slog.String("target_id", userID),
	)

	return nil
}
