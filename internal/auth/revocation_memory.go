// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryRevocationStore keeps revocations in a TTL cache inside the process.
// Suitable for development and tests only.
type MemoryRevocationStore struct {
	mu     sync.Mutex
	cache  *ttlcache.Cache[string, time.Time]
	closed bool
}

// NewMemoryRevocationStore creates the store and starts its expiry loop.
func NewMemoryRevocationStore(retention time.Duration) *MemoryRevocationStore {
	cache := ttlcache.New[string, time.Time](
		ttlcache.WithTTL[string, time.Time](retention),
		// Lookups must not extend an entry's life.
		ttlcache.WithDisableTouchOnHit[string, time.Time](),
	)
	go cache.Start()

	return &MemoryRevocationStore{cache: cache}
}

// Backend implements RevocationStore.
func (s *MemoryRevocationStore) Backend() string {
	return BackendMemory
}

// Revoke implements RevocationStore.
func (s *MemoryRevocationStore) Revoke(_ context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		recordRevocationOp(BackendMemory, "revoke", ErrStoreClosed)
		return ErrStoreClosed
	}

	key := tokenKey(token)
	if !s.present(key) {
		s.cache.Set(key, time.Now(), ttlcache.DefaultTTL)
	}
	recordRevocationOp(BackendMemory, "revoke", nil)
	return nil
}

// IsRevoked implements RevocationStore.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrEmptyToken
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		recordRevocationOp(BackendMemory, "check", ErrStoreClosed)
		return false, ErrStoreClosed
	}

	revoked := s.present(tokenKey(token))
	recordRevocationOp(BackendMemory, "check", nil)
	return revoked, nil
}

// present reports whether key holds an unexpired entry.
func (s *MemoryRevocationStore) present(key string) bool {
	item := s.cache.Get(key)
	return item != nil && !item.IsExpired()
}

// GC implements RevocationStore. The cache also expires entries on its own.
func (s *MemoryRevocationStore) GC(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	before := s.cache.Len()
	s.cache.DeleteExpired()
	removed := before - s.cache.Len()
	if removed < 0 {
		removed = 0
	}

	recordRevocationOp(BackendMemory, "gc", nil)
	revocationRemoved.WithLabelValues(BackendMemory).Add(float64(removed))
	return removed, nil
}

// Close stops the expiry loop and drops all entries.
func (s *MemoryRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.cache.Stop()
	s.cache.DeleteAll()
	return nil
}
