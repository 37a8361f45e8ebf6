// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the stores query.
package schema

import "strings"

// UsersTable represents the 'users' table
type UsersTable struct {
	Table        string
	ID           string
	Username     string
	PasswordHash string
	Firstname    string
	Lastname     string
	CreatedAt    string
	UpdatedAt    string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Username:     "username",
	PasswordHash: "password_hash",
	Firstname:    "firstname",
	Lastname:     "lastname",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// ProfileColumns returns every column except the password hash, in scan order.
func (t UsersTable) ProfileColumns() []string {
	return []string{t.ID, t.Username, t.Firstname, t.Lastname, t.CreatedAt, t.UpdatedAt}
}

// SelectList joins columns for a SELECT or RETURNING clause.
func SelectList(columns []string) string {
	return strings.Join(columns, ", ")
}
