// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/dberr"
)

// resourceUser is the resource name used in not-found errors.
const resourceUser = "User"

const userColumns = `id, email, name, passwordhash, role, imageurl, paymentcustomerid, createdat, updatedat`

// PostgresUserRepository implements [UserRepository] on the users.account table.
//
// # Error Mapping
//
// pgx.ErrNoRows becomes apperr.NotFound("User") and unique violations on the
// email index become [dberr.ErrDuplicate] via [dberr.Wrap].
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser reads one row selected with [userColumns].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.ImageURL,
		&user.PaymentCustomerID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new account into users.account.

Description: Initializes timestamps when the caller has not set them.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: dberr.ErrDuplicate on an existing email, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.ImageURL,
		user.PaymentCustomerID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", dberr.Wrap(err, resourceUser))
	}

	return nil
}

/*
FindByEmail retrieves an account by its normalized email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users.account WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}

	return user, nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}

	return user, nil
}

/*
List returns one page of accounts ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Page of accounts
  - int: Total account count
  - error: Database errors
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users.account`
	const listQuery = `
		SELECT ` + userColumns + `
		FROM users.account
		ORDER BY createdat DESC, id DESC
		LIMIT $1 OFFSET $2`

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", dberr.Wrap(err, resourceUser))
	}

	rows, err := repository.pool.Query(context, listQuery, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", dberr.Wrap(err, resourceUser))
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_scan_failed: %w", apperr.Internal(scanErr))
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_rows_failed: %w", apperr.Internal(err))
	}

	return users, total, nil
}

/*
Update persists the mutable profile and role fields.

Description: Refreshes updatedat and reports NotFound when no row matched.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET name = $2, imageurl = $3, role = $4, updatedat = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now().UTC()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.ImageURL,
		user.Role,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", dberr.Wrap(err, resourceUser))
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}

	return nil
}

/*
Delete permanently removes an account.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM users.account WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", dberr.Wrap(err, resourceUser))
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}

	return nil
}
