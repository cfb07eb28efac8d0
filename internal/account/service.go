// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package account

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/accountd/accountd/internal/credential"
)

// dummyPasswordHash is verified when a login targets an unknown email so
// that lookup-miss and password-mismatch take comparable time. It is a
// well-formed argon2id string that matches no password.
//
//nolint:gosec // G101: intentionally fake hash for timing consistency, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates the account lifecycle: persistence through the
// Repository, password work through the Hasher, token issuance on login,
// and cache invalidation after every successful mutation.
type Service struct {
	repo   Repository
	hasher credential.Hasher
	tokens TokenIssuer
	cache  Invalidator
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNow sets the clock (primarily for testing).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a Service, validating its dependencies.
func NewService(repo Repository, hasher credential.Hasher, tokens TokenIssuer, cache Invalidator, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("ACCOUNT_CONFIG_INVALID").Errorf("repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("ACCOUNT_CONFIG_INVALID").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("ACCOUNT_CONFIG_INVALID").Errorf("token issuer is required")
	}
	if cache == nil {
		return nil, oops.Code("ACCOUNT_CONFIG_INVALID").Errorf("cache invalidator is required")
	}

	s := &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create registers a new account. Duplicate emails fail with ErrConflict,
// whether caught by the lookup or by the store's unique index when a
// concurrent create slips past it. The returned projection never carries
// the password hash.
func (s *Service) Create(ctx context.Context, draft Draft) (Public, error) {
	if err := draft.Validate(); err != nil {
		return Public{}, s.record("create", err)
	}

	_, err := s.repo.FindByEmail(ctx, draft.Email)
	switch {
	case err == nil:
		return Public{}, s.record("create", conflictErr(draft.Email))
	case !errors.Is(err, ErrNotFound):
		return Public{}, s.record("create", storeErr("find account by email", err))
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return Public{}, s.record("create", err)
	}

	now := s.now()
	acct := &Account{
		Name:         draft.Name,
		Email:        draft.Email,
		Phone:        draft.Phone,
		ManagementOf: draft.ManagementOf,
		PasswordHash: hash,
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, acct); err != nil {
		if errors.Is(err, ErrConflict) {
			return Public{}, s.record("create", conflictErr(draft.Email))
		}
		return Public{}, s.record("create", storeErr("insert account", err))
	}

	if err := s.invalidate(ctx); err != nil {
		return Public{}, s.record("create", err)
	}

	return acct.Public(), s.record("create", nil)
}

// Login verifies credentials and returns a signed session token. Unknown
// email and wrong password produce the same undifferentiated error, and the
// hasher runs either way so response time does not reveal which it was.
// The account record itself is never returned.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	acct, lookupErr := s.repo.FindByEmail(ctx, email)

	targetHash := dummyPasswordHash
	exists := false
	switch {
	case lookupErr == nil:
		targetHash = acct.PasswordHash
		exists = true
	case !errors.Is(lookupErr, ErrNotFound):
		return "", s.record("login", storeErr("find account by email", lookupErr))
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !exists {
			// Dummy-hash verification noise; report the usual credential failure.
			return "", s.record("login", unauthorizedErr())
		}
		// A stored hash that cannot be decoded is data corruption, not a
		// wrong password; surface it distinguishably.
		return "", s.record("login", verifyErr)
	}

	if !exists || !valid {
		return "", s.record("login", unauthorizedErr())
	}

	signed, err := s.tokens.Issue(acct.ID, acct.Admin)
	if err != nil {
		return "", s.record("login", oops.Code("ACCOUNT_TOKEN_FAILED").
			With("operation", "issue session token").
			Wrap(err))
	}

	return signed, s.record("login", nil)
}

// FindAll returns every account projected to the public shape.
func (s *Service) FindAll(ctx context.Context) ([]Public, error) {
	accounts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.record("find_all", storeErr("list accounts", err))
	}

	result := make([]Public, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, a.Public())
	}
	return result, s.record("find_all", nil)
}

// FindOne returns a single account projected to the public shape.
func (s *Service) FindOne(ctx context.Context, id string) (Public, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Public{}, s.record("find_one", notFoundErr(id))
		}
		return Public{}, s.record("find_one", storeErr("find account by id", err))
	}
	return acct.Public(), s.record("find_one", nil)
}

// Update applies the patch to an existing account: read, construct the new
// validated record, write it in one statement. Password and admin flag are
// untouchable through this path. A patched email that collides with another
// account fails with ErrConflict.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, s.record("update", notFoundErr(id))
		}
		return nil, s.record("update", storeErr("find account by id", err))
	}

	updated := *acct
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		if err := ValidateEmail(*patch.Email); err != nil {
			return nil, s.record("update", err)
		}
		updated.Email = *patch.Email
	}
	if patch.Phone != nil {
		updated.Phone = *patch.Phone
	}
	if patch.ManagementOf != nil {
		updated.ManagementOf = *patch.ManagementOf
	}
	if updated.Name == "" {
		return nil, s.record("update", oops.Code("ACCOUNT_INVALID_DRAFT").Errorf("name cannot be empty"))
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, s.record("update", notFoundErr(id))
		case errors.Is(err, ErrConflict):
			return nil, s.record("update", conflictErr(updated.Email))
		}
		return nil, s.record("update", storeErr("update account", err))
	}

	if err := s.invalidate(ctx); err != nil {
		return nil, s.record("update", err)
	}

	return &updated, s.record("update", nil)
}

// RemoveByID deletes a single account and confirms which one went away.
func (s *Service) RemoveByID(ctx context.Context, id string) (Removal, error) {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Removal{}, s.record("remove_by_id", notFoundErr(id))
		}
		return Removal{}, s.record("remove_by_id", storeErr("delete account", err))
	}

	if err := s.invalidate(ctx); err != nil {
		return Removal{}, s.record("remove_by_id", err)
	}

	return Removal{ID: id, Count: 1}, s.record("remove_by_id", nil)
}

// RemoveAll unconditionally deletes every account.
func (s *Service) RemoveAll(ctx context.Context) (Removal, error) {
	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return Removal{}, s.record("remove_all", storeErr("delete all accounts", err))
	}

	if err := s.invalidate(ctx); err != nil {
		return Removal{}, s.record("remove_all", err)
	}

	return Removal{Count: count}, s.record("remove_all", nil)
}

// invalidate clears the shared cache after a durably acknowledged write.
// It runs before the operation returns so no caller can read stale data
// immediately after a successful mutation.
func (s *Service) invalidate(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return oops.Code("ACCOUNT_STORE_FAILED").
			With("operation", "invalidate cache").
			Wrap(err)
	}
	return nil
}

// record observes the operation outcome metric and passes the error through.
func (s *Service) record(operation string, err error) error {
	recordOperation(operation, err)
	return err
}

func conflictErr(email string) error {
	return oops.Code("ACCOUNT_EMAIL_TAKEN").
		With("email", email).
		Wrap(ErrConflict)
}

func notFoundErr(id string) error {
	return oops.Code("ACCOUNT_NOT_FOUND").
		With("id", id).
		Wrap(ErrNotFound)
}

func unauthorizedErr() error {
	return oops.Code("ACCOUNT_INVALID_CREDENTIALS").Wrap(ErrUnauthorized)
}

func storeErr(operation string, err error) error {
	return oops.Code("ACCOUNT_STORE_FAILED").
		With("operation", operation).
		Wrap(err)
}
