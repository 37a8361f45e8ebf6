// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/userhub/internal/platform/dberr"
)

// Storage outcomes every [UserStore] implementation reports through
// errors.Is. Any other error is an opaque store failure.
var (
	ErrNotFound  = dberr.ErrNotFound
	ErrDuplicate = dberr.ErrDuplicate
)

// # User Data Access

// UserStore defines the data access contract for user accounts.
type UserStore interface {

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *User: Hydrated entity (PasswordHash may be empty)
		  - error: ErrNotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity (PasswordHash may be empty)
		  - error: ErrNotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	// PasswordHashByUsername returns the stored hash or ErrNotFound.
	PasswordHashByUsername(context context.Context, username string) (string, error)

	// PasswordHashByID returns the stored hash or ErrNotFound.
	PasswordHashByID(context context.Context, id int64) (string, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and timestamps are assigned by the store)

		Returns:
		  - *User: The stored account
		  - error: ErrDuplicate on a username collision, or persistence failures
	*/
	Create(context context.Context, user *User) (*User, error)

	/*
		Update replaces username, firstname and lastname of user.ID and
		refreshes its update timestamp.

		Returns:
		  - *User: The stored account
		  - error: ErrNotFound, ErrDuplicate, or persistence failures
	*/
	Update(context context.Context, user *User) (*User, error)

	// ChangePassword replaces only the password hash. ErrNotFound if id is absent.
	ChangePassword(context context.Context, id int64, newHash string) error

	// List returns every account ordered by id ascending.
	List(context context.Context) ([]User, error)
}
