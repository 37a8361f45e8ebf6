// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential lifecycle of Userhub accounts.

It owns the user entity, the [UserStore] contract with its PostgreSQL and
Redis-cached implementations, and the use cases that touch a password:
login, account creation and password change.

# Architecture

  - Service: Orchestrates credential checks, hashing and token issuance.
  - UserStore: Persistence contract; "not found" and "duplicate" are
    sentinel errors, never matched by message.
  - Handler: Thin HTTP layer; validates requests before calling [Service].
*/
package auth

import (
	"fmt"
	"time"
)

// # Domain Entities

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"create_ts"`
	UpdatedAt    time.Time `json:"update_ts"`
}

// Profile returns a copy of the user without the password hash.
func (user User) Profile() User {
	user.PasswordHash = ""
	return user
}

// Session is the result of a successful login.
//
// RefreshToken is an opaque random identifier. It is neither stored nor
// accepted anywhere yet.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// # Error messages

// UserNotFoundMessage is the client message for a missing user id.
func UserNotFoundMessage(id int64) string {
	return fmt.Sprintf("User with id=%d not found", id)
}

// UsernameNotFoundMessage is the client message for a missing username.
func UsernameNotFoundMessage(username string) string {
	return fmt.Sprintf("User with username=%s not found", username)
}

// UsernameTakenMessage is the client message for a username conflict.
func UsernameTakenMessage(username string) string {
	return fmt.Sprintf("User with username=%s already exists", username)
}
