// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package account

import (
	"context"
	"regexp"
	"time"

	"github.com/samber/oops"
)

// emailRegex is a deliberately loose shape check; real validation is the
// transport layer's job, this only rejects obviously broken input.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Account is the persistent user record, keyed by unique ID and unique
// email. Email matching is case-sensitive.
type Account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	ManagementOf string
	PasswordHash string // opaque PHC string, never serialized or logged
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public is the projection of an Account handed to callers outside the
// core. It never carries the password hash.
type Public struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Admin        bool   `json:"isAdmin"`
	ManagementOf string `json:"managementOf"`
}

// Public returns the caller-safe projection of the account.
func (a *Account) Public() Public {
	return Public{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Admin:        a.Admin,
		ManagementOf: a.ManagementOf,
	}
}

// Draft is the input for creating an account. The plaintext password never
// leaves the service; only its hash is persisted.
type Draft struct {
	Name         string
	Email        string
	Phone        string
	ManagementOf string
	Password     string
}

// Validate checks the draft before any store work happens.
func (d Draft) Validate() error {
	if d.Name == "" {
		return oops.Code("ACCOUNT_INVALID_DRAFT").Errorf("name cannot be empty")
	}
	if err := ValidateEmail(d.Email); err != nil {
		return err
	}
	if d.Password == "" {
		return oops.Code("ACCOUNT_INVALID_DRAFT").Errorf("password cannot be empty")
	}
	return nil
}

// Patch is the input for updating an account. Nil fields are left
// unchanged. Password and admin flag are not updatable through this path.
type Patch struct {
	Name         *string
	Email        *string
	Phone        *string
	ManagementOf *string
}

// Removal is the confirmation descriptor returned by the remove operations.
type Removal struct {
	ID    string `json:"id,omitempty"`
	Count int64  `json:"count"`
}

// ValidateEmail checks that an email has a plausible shape.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("ACCOUNT_INVALID_EMAIL").
			With("email", email).
			Errorf("email has an invalid format")
	}
	return nil
}

// Repository manages account persistence. Implementations map their
// storage-level failures onto the package sentinels: pgx.ErrNoRows-style
// absences onto ErrNotFound, unique email violations onto ErrConflict.
type Repository interface {
	// FindByEmail retrieves an account by exact email match.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID retrieves an account by ID.
	FindByID(ctx context.Context, id string) (*Account, error)

	// Insert stores a new account, assigning its ID when unset.
	// A duplicate email fails with ErrConflict even when the caller's
	// existence check raced with a concurrent insert.
	Insert(ctx context.Context, acct *Account) error

	// Update rewrites an existing account record in full.
	Update(ctx context.Context, acct *Account) error

	// DeleteByID removes a single account.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll removes every account and reports how many went away.
	DeleteAll(ctx context.Context) (int64, error)

	// ListAll returns every account. Each call restarts the query; there
	// is no persistent cursor.
	ListAll(ctx context.Context) ([]*Account, error)
}

// Invalidator clears the shared read cache. The service calls it exactly
// once after every successful mutation, never on a failed one. Clearing an
// already-empty cache is a no-op.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// TokenIssuer signs identity assertions for successful logins.
type TokenIssuer interface {
	Issue(accountID string, admin bool) (string, error)
}
