// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package postgres implements account.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/accountd/accountd/internal/account"
)

// poolIface is the subset of pgxpool.Pool the repository needs. It is
// satisfied by both *pgxpool.Pool and pgxmock pools.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements account.Repository using PostgreSQL. The accounts
// table carries a unique index on email, which is what turns a racing
// duplicate create into a clean conflict instead of a torn write.
type Repository struct {
	pool poolIface
}

// NewRepository creates a new Repository.
func NewRepository(pool poolIface) *Repository {
	return &Repository{pool: pool}
}

const accountColumns = `id, name, email, phone, management_of, password_hash, is_admin, created_at, updated_at`

// FindByEmail retrieves an account by exact email match. Matching is
// case-sensitive.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, email)

	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_EMAIL_FAILED").
			With("operation", "get account by email").
			With("email", email).
			Wrap(err)
	}
	return acct, nil
}

// FindByID retrieves an account by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*account.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)

	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_ID_FAILED").
			With("operation", "get account by id").
			With("id", id).
			Wrap(err)
	}
	return acct, nil
}

// Insert stores a new account, assigning a ULID when the caller left the
// ID unset. A duplicate email maps to account.ErrConflict.
func (r *Repository) Insert(ctx context.Context, acct *account.Account) error {
	if acct.ID == "" {
		acct.ID = ulid.Make().String()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (
			id, name, email, phone, management_of,
			password_hash, is_admin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		acct.ID,
		acct.Name,
		acct.Email,
		acct.Phone,
		acct.ManagementOf,
		acct.PasswordHash,
		acct.Admin,
		acct.CreatedAt,
		acct.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("ACCOUNT_EMAIL_TAKEN").
				With("email", acct.Email).
				Wrap(account.ErrConflict)
		}
		return oops.Code("ACCOUNT_INSERT_FAILED").
			With("operation", "insert account").
			With("id", acct.ID).
			Wrap(err)
	}
	return nil
}

// Update rewrites an existing account record in full, in one statement.
func (r *Repository) Update(ctx context.Context, acct *account.Account) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts SET
			name = $2,
			email = $3,
			phone = $4,
			management_of = $5,
			password_hash = $6,
			is_admin = $7,
			updated_at = $8
		WHERE id = $1
	`,
		acct.ID,
		acct.Name,
		acct.Email,
		acct.Phone,
		acct.ManagementOf,
		acct.PasswordHash,
		acct.Admin,
		acct.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("ACCOUNT_EMAIL_TAKEN").
				With("email", acct.Email).
				Wrap(account.ErrConflict)
		}
		return oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "update account").
			With("id", acct.ID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", acct.ID).
			Wrap(account.ErrNotFound)
	}
	return nil
}

// DeleteByID removes a single account.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM accounts WHERE id = $1
	`, id)
	if err != nil {
		return oops.Code("ACCOUNT_DELETE_FAILED").
			With("operation", "delete account").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id).
			Wrap(account.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every account and reports how many went away.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM accounts`)
	if err != nil {
		return 0, oops.Code("ACCOUNT_DELETE_ALL_FAILED").
			With("operation", "delete all accounts").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// ListAll returns every account ordered by ID. Each call runs a fresh
// query; there is no persistent cursor.
func (r *Repository) ListAll(ctx context.Context) ([]*account.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("ACCOUNT_LIST_FAILED").
			With("operation", "list accounts").
			Wrap(err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, oops.Code("ACCOUNT_LIST_FAILED").
				With("operation", "scan account row").
				Wrap(err)
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ACCOUNT_LIST_FAILED").
			With("operation", "iterate accounts").
			Wrap(err)
	}

	return accounts, nil
}

// scanAccount scans a single row into an Account. Callers are responsible
// for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*account.Account, error) {
	var acct account.Account

	err := row.Scan(
		&acct.ID,
		&acct.Name,
		&acct.Email,
		&acct.Phone,
		&acct.ManagementOf,
		&acct.PasswordHash,
		&acct.Admin,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	return &acct, nil
}

// isUniqueViolation reports whether err is the unique email index firing.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Compile-time interface check.
var _ account.Repository = (*Repository)(nil)
