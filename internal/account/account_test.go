// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package account_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountd/accountd/internal/account"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*account.Draft)
		wantErr string
	}{
		{"valid draft", func(d *account.Draft) {}, ""},
		{"empty name", func(d *account.Draft) { d.Name = "" }, "name cannot be empty"},
		{"empty email", func(d *account.Draft) { d.Email = "" }, "email cannot be empty"},
		{"malformed email", func(d *account.Draft) { d.Email = "a@x" }, "invalid format"},
		{"email with spaces", func(d *account.Draft) { d.Email = "a b@x.com" }, "invalid format"},
		{"empty password", func(d *account.Draft) { d.Password = "" }, "password cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := account.Draft{
				Name:     "Ada",
				Email:    "a@x.com",
				Password: "p1",
			}
			tt.mutate(&draft)

			err := draft.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPublicProjection(t *testing.T) {
	acct := &account.Account{
		ID:           "01JY0000000000000000000001",
		Name:         "Ada",
		Email:        "a@x.com",
		Phone:        "555-0100",
		ManagementOf: "north-branch",
		PasswordHash: "$argon2id$very-secret",
		Admin:        true,
	}

	public := acct.Public()
	assert.Equal(t, acct.ID, public.ID)
	assert.Equal(t, acct.Name, public.Name)
	assert.Equal(t, acct.Email, public.Email)
	assert.Equal(t, acct.Phone, public.Phone)
	assert.Equal(t, acct.ManagementOf, public.ManagementOf)
	assert.True(t, public.Admin)

	// The serialized projection must never leak the hash.
	raw, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "very-secret")
	assert.NotContains(t, string(raw), "password")

	// Serialized field names are camelCase.
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Contains(t, keys, "isAdmin")
	assert.Contains(t, keys, "managementOf")
}

func TestValidateEmail_CaseSensitive(t *testing.T) {
	// Matching is case-sensitive: both spellings are valid input, they are
	// simply different keys as far as this core is concerned.
	assert.NoError(t, account.ValidateEmail("Ada@X.com"))
	assert.NoError(t, account.ValidateEmail("ada@x.com"))
}
