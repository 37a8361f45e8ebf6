// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/platform/metrics"
	"github.com/taibuivan/userhub/internal/platform/sec"
	"github.com/taibuivan/userhub/internal/platform/validate"
)

// # Contracts & Types

// PasswordHasher hashes and checks passwords. [sec.Hasher] implements it.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Compare(plainTextPassword, existingHash string) (bool, error)
}

// TokenIssuer signs access tokens. [sec.TokenService] implements it.
type TokenIssuer interface {
	Issue(subject string, timeToLive time.Duration) (string, error)
}

// ErrNoTokenIssuer is returned when a [Service] built without an issuer is asked to sign.
var ErrNoTokenIssuer = errors.New("auth: no token issuer configured")

// missingIssuer stands in for a nil [TokenIssuer].
type missingIssuer struct{}

func (missingIssuer) Issue(string, time.Duration) (string, error) {
	return "", ErrNoTokenIssuer
}

// Service implements the credential use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login or
// password change logic must be reviewed by the security team.
type Service struct {
	store  UserStore
	hasher PasswordHasher
	issuer TokenIssuer
	logger *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
//
// A nil issuer builds a service that enrolls and changes passwords but fails
// every Login with an Internal error wrapping [ErrNoTokenIssuer].
func NewService(store UserStore, hasher PasswordHasher, issuer TokenIssuer, logger *slog.Logger) *Service {
	if issuer == nil {
		issuer = missingIssuer{}
	}
	return &Service{
		store:  store,
		hasher: hasher,
		issuer: issuer,
		logger: logger,
	}
}

// # Authentication Flow

/*
Login validates user credentials and issues security tokens.

Description: An unknown username and a wrong password produce the same
Unauthorized error.

Parameters:
  - context: context.Context
  - username: string (normalized)
  - password: string

Returns:
  - *Session: Access token, opaque refresh identifier and lifetime
  - error: Unauthorized or Internal
*/
func (service *Service) Login(context context.Context, username, password string) (*Session, error) {
	user, err := service.store.FindByUsername(context, username)
	if err != nil {
		return nil, service.loginLookupError(err, "auth_service_login_lookup_failed")
	}

	storedHash, err := service.store.PasswordHashByUsername(context, user.Username)
	if err != nil {
		return nil, service.loginLookupError(err, "auth_service_login_hash_lookup_failed")
	}

	matched, err := service.hasher.Compare(password, storedHash)
	if err != nil {
		service.logger.WarnContext(context, "login_stored_hash_malformed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
	}
	if !matched {
		metrics.RecordLogin(metrics.LoginRejected)
		return nil, apperr.Unauthorized(MsgUnauthorized)
	}

	accessToken, err := service.issuer.Issue(user.Username, AccessTokenTTL)
	if err != nil {
		metrics.RecordLogin(metrics.LoginFailed)
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	metrics.RecordLogin(metrics.LoginSucceeded)

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: uuid.NewString(),
		ExpiresIn:    int64(AccessTokenTTL / time.Second),
	}, nil
}

// loginLookupError maps a store failure during login. Not found is a
// credential failure, never a 404.
func (service *Service) loginLookupError(err error, operation string) error {
	if errors.Is(err, ErrNotFound) {
		metrics.RecordLogin(metrics.LoginRejected)
		return apperr.Unauthorized(MsgUnauthorized)
	}
	metrics.RecordLogin(metrics.LoginFailed)
	return apperr.Internal(fmt.Errorf("%s: %w", operation, err))
}

// # Registration Flow

// CreateUserInput holds the data required to enroll a new account.
type CreateUserInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Normalize returns a copy with the username trimmed and NFC-normalized.
func (input CreateUserInput) Normalize() CreateUserInput {
	input.Username = validate.Username(input.Username)
	return input
}

// Validate checks the request shape. The first failing rule supplies the message.
func (input CreateUserInput) Validate() error {
	validator := &validate.Validator{}
	validator.MinLen(FieldUsername, input.Username, MinUsernameLength, MsgInvalidUsername)
	validatePassword(validator, FieldPassword, input.Password)
	validator.Required(FieldFirstname, input.Firstname, MsgFirstnameEmpty).
		Required(FieldLastname, input.Lastname, MsgLastnameEmpty)
	return validator.Err()
}

/*
CreateUser hashes the password and persists a new account.

Description: The existence check is advisory. Two concurrent requests for
the same username can both pass it; the unique index then rejects the
second insert, which surfaces as the same Conflict.

Parameters:
  - context: context.Context
  - input: CreateUserInput (already validated)

Returns:
  - *User: Created profile without the password hash
  - error: Conflict or Internal
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*User, error) {
	_, err := service.store.FindByUsername(context, input.Username)
	switch {
	case err == nil:
		return nil, apperr.Conflict(UsernameTakenMessage(input.Username))
	case !errors.Is(err, ErrNotFound):
		return nil, apperr.Internal(fmt.Errorf("auth_service_create_lookup_failed: %w", err))
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	created, err := service.store.Create(context, &User{
		Username:     input.Username,
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.Conflict(UsernameTakenMessage(input.Username))
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_create_failed: %w", err))
	}

	service.logger.InfoContext(context, "user_created", slog.Int64("user_id", created.ID))

	profile := created.Profile()
	return &profile, nil
}

// # Password Change

// ChangePasswordInput is the body of a password change request.
type ChangePasswordInput struct {
	ID          int64  `json:"id"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate checks the id and the new password rules.
func (input ChangePasswordInput) Validate() error {
	validator := &validate.Validator{}
	validator.Positive(FieldID, input.ID, MsgInvalidID)
	validatePassword(validator, FieldNewPassword, input.NewPassword)
	return validator.Err()
}

/*
ChangePassword replaces a password after re-checking the current one.

Description: A wrong old password, or a stored hash that cannot be parsed,
is a BadRequest and nothing is persisted.

Parameters:
  - context: context.Context
  - input: ChangePasswordInput (already validated)

Returns:
  - error: NotFound, BadRequest or Internal
*/
func (service *Service) ChangePassword(context context.Context, input ChangePasswordInput) error {
	storedHash, err := service.store.PasswordHashByID(context, input.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(UserNotFoundMessage(input.ID))
		}
		return apperr.Internal(fmt.Errorf("auth_service_change_password_lookup_failed: %w", err))
	}

	matched, err := service.hasher.Compare(input.OldPassword, storedHash)
	if err != nil {
		service.logger.WarnContext(context, "change_password_stored_hash_malformed",
			slog.Int64("user_id", input.ID),
			slog.Any("error", err),
		)
	}
	if !matched {
		return apperr.BadRequest(MsgInvalidOldPassword)
	}

	hashedPassword, err := service.hasher.Hash(input.NewPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_change_password_hash_failed: %w", err))
	}

	if err := service.store.ChangePassword(context, input.ID, hashedPassword); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(UserNotFoundMessage(input.ID))
		}
		return apperr.Internal(fmt.Errorf("auth_service_change_password_update_failed: %w", err))
	}

	service.logger.InfoContext(context, "password_changed", slog.Int64("user_id", input.ID))
	return nil
}

// # Validation helpers

// LoginInput is the body of a login request.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate applies the same length rules as account creation.
func (input LoginInput) Validate() error {
	validator := &validate.Validator{}
	validator.MinLen(FieldUsername, input.Username, MinUsernameLength, MsgInvalidUsername).
		MinLen(FieldPassword, input.Password, MinPasswordLength, MsgInvalidPassword)
	return validator.Err()
}

// validatePassword enforces the length window bcrypt can hash.
func validatePassword(validator *validate.Validator, field, password string) {
	validator.MaxBytes(field, password, sec.MaxPasswordBytes, MsgInvalidPassword).
		MinLen(field, password, MinPasswordLength, MsgInvalidPassword)
}
