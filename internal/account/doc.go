// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package account holds the account domain: the persistent Account record,
// its public projection, the Repository persistence contract, and the
// Service orchestrating create/login/read/update/delete.
//
// # Domain Types
//
// Account is persisted through Repository implementations; callers outside
// the core only ever see the Public projection, which never carries the
// password hash. Draft and Patch are the create/update inputs.
//
// # Consistency
//
// Every successful mutating operation clears the shared read cache through
// the injected Invalidator, after the store write is acknowledged and
// before the operation returns. A failed write never touches the cache.
package account
