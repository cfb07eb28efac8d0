// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package cache provides the process-wide read cache shared by account
// read paths, and the clear-all invalidation primitive the service core
// consumes after every successful mutation.
package cache

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the shared read cache.
var (
	// entriesGauge tracks the number of live cache entries.
	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "accountd_cache_entries",
		Help: "Number of entries currently held in the read cache",
	})

	// invalidationsTotal counts clear-all invocations.
	invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accountd_cache_invalidations_total",
		Help: "Total number of cache clear-all invocations",
	})

	// lookupsTotal counts lookups by outcome.
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accountd_cache_lookups_total",
		Help: "Total number of cache lookups by outcome",
	}, []string{"outcome"})
)

// Store is an in-memory key/value cache holding previously served read
// results. It is safe for concurrent use. The service core consumes only
// InvalidateAll; Get and Set belong to the read-path collaborator.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string][]byte),
	}
}

// Get returns the cached value for key, if any.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		lookupsTotal.WithLabelValues("hit").Inc()
	} else {
		lookupsTotal.WithLabelValues("miss").Inc()
	}
	return value, ok
}

// Set stores a value under key, replacing any previous entry.
func (s *Store) Set(key string, value []byte) {
	s.mu.Lock()
	s.entries[key] = value
	entriesGauge.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// InvalidateAll clears every entry. Clearing an already-empty cache is a
// no-op, never an error. The in-memory implementation cannot fail; the
// error return belongs to the capability contract so external cache
// collaborators can report theirs.
func (s *Store) InvalidateAll(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string][]byte)
	entriesGauge.Set(0)
	s.mu.Unlock()

	invalidationsTotal.Inc()
	return nil
}
