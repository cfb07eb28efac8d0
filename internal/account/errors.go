// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package account

import "errors"

// Sentinel errors for the expected failure kinds. Service and repository
// errors wrap these so callers can branch with errors.Is while still
// receiving an oops code and human-readable message.
var (
	// ErrNotFound is returned when an operation targets an account that
	// does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrConflict is returned when a create or update collides with the
	// unique email constraint.
	ErrConflict = errors.New("email already registered")

	// ErrUnauthorized is returned on login failure. The message never
	// reveals whether the email or the password was wrong.
	ErrUnauthorized = errors.New("invalid email or password")
)
