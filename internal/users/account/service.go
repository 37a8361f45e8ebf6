// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and updates.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Profile Reads

/*
GetByID retrieves a profile by id.

Returns:
  - *auth.User: The profile
  - error: NotFound("User with id=<id> not found") or Internal
*/
func (service *Service) GetByID(context context.Context, id int64) (*auth.User, error) {
	user, err := service.repository.FindByID(context, id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, apperr.NotFound(auth.UserNotFoundMessage(id))
		}
		return nil, apperr.Internal(fmt.Errorf("account_service_get_by_id_failed: %w", err))
	}
	return user, nil
}

// GetByUsername retrieves a profile by username.
func (service *Service) GetByUsername(context context.Context, username string) (*auth.User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, apperr.NotFound(auth.UsernameNotFoundMessage(username))
		}
		return nil, apperr.Internal(fmt.Errorf("account_service_get_by_username_failed: %w", err))
	}
	return user, nil
}

// List returns every profile ordered by id.
func (service *Service) List(context context.Context) ([]auth.User, error) {
	users, err := service.repository.List(context)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_list_failed: %w", err))
	}
	return users, nil
}

// # Profile Management

/*
Update replaces the username and names of an existing account.

Description: The existence check and the write are separate statements. A
row deleted in between surfaces as the same NotFound.

Parameters:
  - context: context.Context
  - input: UpdateInput (already validated)

Returns:
  - *auth.User: The stored profile with its new update timestamp
  - error: NotFound, Conflict or Internal
*/
func (service *Service) Update(context context.Context, input UpdateInput) (*auth.User, error) {
	if _, err := service.GetByID(context, input.ID); err != nil {
		return nil, err
	}

	updated, err := service.repository.Update(context, &auth.User{
		ID:        input.ID,
		Username:  input.Username,
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			return nil, apperr.NotFound(auth.UserNotFoundMessage(input.ID))
		case errors.Is(err, auth.ErrDuplicate):
			return nil, apperr.Conflict(auth.UsernameTakenMessage(input.Username))
		}
		return nil, apperr.Internal(fmt.Errorf("account_service_update_failed: %w", err))
	}

	service.logger.InfoContext(context, "user_updated", slog.Int64("user_id", updated.ID))
	return updated, nil
}
