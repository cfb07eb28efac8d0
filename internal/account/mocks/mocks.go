// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package mocks provides testify mocks for the account package contracts.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/accountd/accountd/internal/account"
	"github.com/accountd/accountd/internal/credential"
)

// Compile-time interface checks.
var (
	_ account.Repository  = (*MockRepository)(nil)
	_ credential.Hasher   = (*MockHasher)(nil)
	_ account.TokenIssuer = (*MockTokenIssuer)(nil)
	_ account.Invalidator = (*MockInvalidator)(nil)
)

// MockRepository is a mock implementation of account.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository whose expectations are
// asserted when the test finishes.
func NewMockRepository(t *testing.T) *MockRepository {
	m := &MockRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	args := m.Called(ctx, email)
	if acct := args.Get(0); acct != nil {
		return acct.(*account.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*account.Account, error) {
	args := m.Called(ctx, id)
	if acct := args.Get(0); acct != nil {
		return acct.(*account.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, acct *account.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, acct *account.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *MockRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if accounts := args.Get(0); accounts != nil {
		return accounts.([]*account.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockHasher is a mock implementation of credential.Hasher.
type MockHasher struct {
	mock.Mock
}

// NewMockHasher creates a MockHasher whose expectations are asserted when
// the test finishes.
func NewMockHasher(t *testing.T) *MockHasher {
	m := &MockHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(plaintext, encoded string) (bool, error) {
	args := m.Called(plaintext, encoded)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock implementation of account.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer whose expectations are
// asserted when the test finishes.
func NewMockTokenIssuer(t *testing.T) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenIssuer) Issue(accountID string, admin bool) (string, error) {
	args := m.Called(accountID, admin)
	return args.String(0), args.Error(1)
}

// MockInvalidator is a mock implementation of account.Invalidator.
type MockInvalidator struct {
	mock.Mock
}

// NewMockInvalidator creates a MockInvalidator whose expectations are
// asserted when the test finishes.
func NewMockInvalidator(t *testing.T) *MockInvalidator {
	m := &MockInvalidator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockInvalidator) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
