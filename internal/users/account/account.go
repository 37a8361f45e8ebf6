// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles reading and editing user profiles.

Credential changes live in package auth; this package never sees a password.

# Architecture

  - Domain: Depends on the auth package for the User entity and its store.
  - Repository: A narrow view of [auth.UserStore]; the same PostgreSQL and
    cached implementations serve both packages.
*/
package account

import (
	"context"

	"github.com/taibuivan/userhub/internal/platform/validate"
	"github.com/taibuivan/userhub/internal/users/auth"
)

// # Repository Contracts

// Repository is the subset of [auth.UserStore] profile operations need.
type Repository interface {
	FindByID(context context.Context, id int64) (*auth.User, error)
	FindByUsername(context context.Context, username string) (*auth.User, error)
	Update(context context.Context, user *auth.User) (*auth.User, error)
	List(context context.Context) ([]auth.User, error)
}

// # Inputs

// UpdateInput is the body of a profile update request.
type UpdateInput struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Normalize returns a copy with the username trimmed and NFC-normalized.
func (input UpdateInput) Normalize() UpdateInput {
	input.Username = validate.Username(input.Username)
	return input
}

// Validate applies the id rule and the same profile rules as account creation.
func (input UpdateInput) Validate() error {
	validator := &validate.Validator{}
	validator.Positive(auth.FieldID, input.ID, auth.MsgInvalidID).
		MinLen(auth.FieldUsername, input.Username, auth.MinUsernameLength, auth.MsgInvalidUsername).
		Required(auth.FieldFirstname, input.Firstname, auth.MsgFirstnameEmpty).
		Required(auth.FieldLastname, input.Lastname, auth.MsgLastnameEmpty)
	return validator.Err()
}
