// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the fixed lifetime of every access token.
	AccessTokenTTL = 5 * time.Minute

	// MinUsernameLength and MinPasswordLength are counted in characters.
	MinUsernameLength = 5
	MinPasswordLength = 5
)

// # Field Identifiers

// Field names used in request payloads and validation details.
const (
	FieldID          = "id"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldFirstname   = "firstname"
	FieldLastname    = "lastname"
	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"
)

// # Messages

// Client-facing messages. Credential failures share one message so that a
// caller cannot tell an unknown username from a wrong password.
const (
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidUsername    = "invalid username"
	MsgInvalidPassword    = "invalid password"
	MsgFirstnameEmpty     = "firstname is empty"
	MsgLastnameEmpty      = "lastname is empty"
	MsgInvalidID          = "invalid id"
	MsgInvalidOldPassword = "Invalid old password"
)
