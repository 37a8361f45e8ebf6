// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/userhub/internal/platform/database/schema"
	"github.com/taibuivan/userhub/internal/platform/dberr"
	"github.com/taibuivan/userhub/internal/platform/postgres"
)

// # User Repository

var usersTable = schema.Users

// profileColumns is the column list every profile read scans, in [scanProfile] order.
var profileColumns = schema.SelectList(usersTable.ProfileColumns())

var (
	queryFindByUsername = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, profileColumns, usersTable.Table, usersTable.Username)
	queryFindByID       = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, profileColumns, usersTable.Table, usersTable.ID)
	queryHashByUsername = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, usersTable.PasswordHash, usersTable.Table, usersTable.Username)
	queryHashByID       = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, usersTable.PasswordHash, usersTable.Table, usersTable.ID)

	queryCreate = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		usersTable.Table, usersTable.Username, usersTable.PasswordHash, usersTable.Firstname, usersTable.Lastname, profileColumns)

	queryUpdate = fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		usersTable.Table, usersTable.Username, usersTable.Firstname, usersTable.Lastname, usersTable.UpdatedAt, usersTable.ID, profileColumns)

	queryChangePassword = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		usersTable.Table, usersTable.PasswordHash, usersTable.UpdatedAt, usersTable.ID)

	queryList = fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, profileColumns, usersTable.Table, usersTable.ID)
)

// PostgresUserStore implements [UserStore] on the users table.
//
// Profile reads never select password_hash; the hash is only read through
// the PasswordHashBy* methods.
type PostgresUserStore struct {
	db postgres.Querier
}

// NewPostgresUserStore creates a PostgreSQL implementation of [UserStore].
func NewPostgresUserStore(db postgres.Querier) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Firstname,
		&user.Lastname,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves a profile by its unique username.
func (repository *PostgresUserStore) FindByUsername(context context.Context, username string) (*User, error) {
	user, err := scanProfile(repository.db.QueryRow(context, queryFindByUsername, username))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_find_by_username_failed: %w", dberr.Classify(err))
	}
	return user, nil
}

// FindByID retrieves a profile by primary key.
func (repository *PostgresUserStore) FindByID(context context.Context, id int64) (*User, error) {
	user, err := scanProfile(repository.db.QueryRow(context, queryFindByID, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_find_by_id_failed: %w", dberr.Classify(err))
	}
	return user, nil
}

// PasswordHashByUsername reads only the stored hash for username.
func (repository *PostgresUserStore) PasswordHashByUsername(context context.Context, username string) (string, error) {
	var hash string
	if err := repository.db.QueryRow(context, queryHashByUsername, username).Scan(&hash); err != nil {
		return "", fmt.Errorf("postgres_user_store_hash_by_username_failed: %w", dberr.Classify(err))
	}
	return hash, nil
}

// PasswordHashByID reads only the stored hash for id.
func (repository *PostgresUserStore) PasswordHashByID(context context.Context, id int64) (string, error) {
	var hash string
	if err := repository.db.QueryRow(context, queryHashByID, id).Scan(&hash); err != nil {
		return "", fmt.Errorf("postgres_user_store_hash_by_id_failed: %w", dberr.Classify(err))
	}
	return hash, nil
}

/*
Create inserts a new row and returns the stored profile.

Description: id, created_at and updated_at are assigned by the database.
The unique index on username turns a concurrent duplicate into ErrDuplicate.

Parameters:
  - context: context.Context
  - user: *User (Username, Firstname, Lastname, PasswordHash)

Returns:
  - *User: Stored profile
  - error: ErrDuplicate or database errors
*/
func (repository *PostgresUserStore) Create(context context.Context, user *User) (*User, error) {
	created, err := scanProfile(repository.db.QueryRow(context, queryCreate,
		user.Username,
		user.PasswordHash,
		user.Firstname,
		user.Lastname,
	))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_create_failed: %w", dberr.Classify(err))
	}
	return created, nil
}

/*
Update overwrites the mutable profile fields of user.ID.

Returns:
  - *User: Stored profile with a fresh updated_at
  - error: ErrNotFound, ErrDuplicate or database errors
*/
func (repository *PostgresUserStore) Update(context context.Context, user *User) (*User, error) {
	updated, err := scanProfile(repository.db.QueryRow(context, queryUpdate,
		user.ID,
		user.Username,
		user.Firstname,
		user.Lastname,
	))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_update_failed: %w", dberr.Classify(err))
	}
	return updated, nil
}

// ChangePassword replaces the password hash of id.
func (repository *PostgresUserStore) ChangePassword(context context.Context, id int64, newHash string) error {
	tag, err := repository.db.Exec(context, queryChangePassword, id, newHash)
	if err != nil {
		return fmt.Errorf("postgres_user_store_change_password_failed: %w", dberr.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres_user_store_change_password_failed: %w", ErrNotFound)
	}
	return nil
}

// List returns all profiles ordered by id.
func (repository *PostgresUserStore) List(context context.Context) ([]User, error) {
	rows, err := repository.db.Query(context, queryList)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_list_failed: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_store_list_scan_failed: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_store_list_failed: %w", err)
	}

	return users, nil
}
