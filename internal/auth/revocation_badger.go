// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const badgerRevocationPrefix = "revoked:"

// revocationEntry is the value stored per revoked token.
type revocationEntry struct {
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BadgerRevocationStore persists revocations in BadgerDB with native TTLs,
// so they survive restarts of a single instance.
type BadgerRevocationStore struct {
	db        *badger.DB
	ownsDB    bool
	prefix    []byte
	retention time.Duration
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
}

// OpenBadgerRevocationStore opens (or creates) a BadgerDB at path.
func OpenBadgerRevocationStore(path string, retention time.Duration) (*BadgerRevocationStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for revocations: %w", err)
	}

	store := NewBadgerRevocationStore(db, retention)
	store.ownsDB = true
	return store, nil
}

// NewBadgerRevocationStore uses an existing DB. The caller keeps ownership of db.
func NewBadgerRevocationStore(db *badger.DB, retention time.Duration) *BadgerRevocationStore {
	if retention <= 0 {
		retention = DefaultRevocationRetention
	}
	return &BadgerRevocationStore{
		db:        db,
		prefix:    []byte(badgerRevocationPrefix),
		retention: retention,
		now:       time.Now,
	}
}

// Backend implements RevocationStore.
func (s *BadgerRevocationStore) Backend() string {
	return BackendBadger
}

func (s *BadgerRevocationStore) makeKey(token string) []byte {
	return append(append([]byte{}, s.prefix...), tokenKey(token)...)
}

func (s *BadgerRevocationStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Revoke implements RevocationStore.
func (s *BadgerRevocationStore) Revoke(_ context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if s.isClosed() {
		recordRevocationOp(BackendBadger, "revoke", ErrStoreClosed)
		return ErrStoreClosed
	}

	key := s.makeKey(token)
	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := s.readEntry(txn, key)
		if err != nil {
			return err
		}
		if existing != nil && s.now().Before(existing.ExpiresAt) {
			return nil
		}

		now := s.now()
		data, err := json.Marshal(revocationEntry{RevokedAt: now, ExpiresAt: now.Add(s.retention)})
		if err != nil {
			return fmt.Errorf("marshal revocation: %w", err)
		}
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(s.retention))
	})

	recordRevocationOp(BackendBadger, "revoke", err)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationStore.
func (s *BadgerRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrEmptyToken
	}
	if s.isClosed() {
		recordRevocationOp(BackendBadger, "check", ErrStoreClosed)
		return false, ErrStoreClosed
	}

	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		entry, err := s.readEntry(txn, s.makeKey(token))
		if err != nil {
			return err
		}
		revoked = entry != nil && s.now().Before(entry.ExpiresAt)
		return nil
	})
	if err != nil {
		recordRevocationOp(BackendBadger, "check", err)
		return false, fmt.Errorf("check revocation: %w", err)
	}
	recordRevocationOp(BackendBadger, "check", nil)
	return revoked, nil
}

// readEntry returns nil when the key does not exist.
func (s *BadgerRevocationStore) readEntry(txn *badger.Txn, key []byte) (*revocationEntry, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry revocationEntry
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	}); err != nil {
		return nil, fmt.Errorf("decode revocation: %w", err)
	}
	return &entry, nil
}

// GC implements RevocationStore. Badger drops expired keys during compaction;
// this pass removes entries whose recorded expiry has passed and reclaims
// value-log space.
func (s *BadgerRevocationStore) GC(_ context.Context) (int, error) {
	if s.isClosed() {
		return 0, ErrStoreClosed
	}

	now := s.now()
	var expired [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var entry revocationEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				continue
			}
			if !now.Before(entry.ExpiresAt) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err == nil && len(expired) > 0 {
		err = s.db.Update(func(txn *badger.Txn) error {
			for _, key := range expired {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
	}

	recordRevocationOp(BackendBadger, "gc", err)
	if err != nil {
		return 0, fmt.Errorf("revocation gc: %w", err)
	}
	revocationRemoved.WithLabelValues(BackendBadger).Add(float64(len(expired)))

	if s.ownsDB {
		// ErrNoRewrite just means there was nothing to reclaim.
		if gcErr := s.db.RunValueLogGC(0.5); gcErr != nil && !errors.Is(gcErr, badger.ErrNoRewrite) {
			return len(expired), fmt.Errorf("value log gc: %w", gcErr)
		}
	}
	return len(expired), nil
}

// Close closes the DB when the store opened it.
func (s *BadgerRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
