// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/dberr"
)

const userColumns = `id, username, email, passwordhash, role, banneduntil, createdat, updatedat`

// # User Repository

// PostgresUserRepository implements [UserRepository] on the users.account table.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Timestamps are initialised when the caller left them zero.
Unique violations on username or email surface as CONFLICT.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.BannedUntil,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return dberr.Wrap(err, "Account", "postgres_user_repo_create_failed")
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`
	return repository.findOne(context, query, id, "postgres_user_repo_find_by_id_failed")
}

// FindByEmail retrieves a user record by email, ignoring case.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users.account WHERE lower(email) = lower($1)`
	return repository.findOne(context, query, email, "postgres_user_repo_find_by_email_failed")
}

/*
SetBannedUntil updates the ban column of a single account.

Returns:
  - error: apperr.NotFound if no row was updated
*/
func (repository *PostgresUserRepository) SetBannedUntil(context context.Context, userID string, until time.Time) error {
	const query = `
		UPDATE users.account
		SET banneduntil = $2, updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, until)
	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_user_repo_ban_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, query, arg, action string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.BannedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account", action)
	}
	return user, nil
}
