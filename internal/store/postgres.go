// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package store manages the PostgreSQL connection pool and schema migrations.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection defaults. Postgres may still be starting when the service
// comes up, so the initial ping retries with exponential backoff.
const (
	defaultPingAttempts = 5
	defaultPingBackoff  = 500 * time.Millisecond
)

// Connect opens a pgx connection pool for the given database URL and
// verifies connectivity with a retried ping. The returned pool is ready
// for use; callers own its lifecycle and must call Close.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_CONFIG_INVALID").
			With("operation", "parse database URL").
			Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(defaultPingAttempts, retry.NewExponential(defaultPingBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", defaultPingAttempts+1).
			Wrap(err)
	}

	return pool, nil
}
