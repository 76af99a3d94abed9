// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tomtom215/aesthetica/internal/config"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// DefaultRevocationRetention matches the maximum token lifetime: a revoked
// token never needs to be remembered past its own natural expiry.
const DefaultRevocationRetention = 7 * 24 * time.Hour

// Revocation backend names.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// RevocationStore remembers tokens invalidated before their expiry.
//
// Implementations must be safe for concurrent use and provide read-your-writes:
// once Revoke returns, every later IsRevoked for the same token reports true
// until the retention window elapses. Revoke is idempotent and never extends
// the original retention.
type RevocationStore interface {
	// Revoke records the token for the retention window.
	Revoke(ctx context.Context, token string) error

	// IsRevoked reports whether the token is currently revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// GC removes expired entries and returns how many were removed.
	GC(ctx context.Context) (int, error)

	// Backend names the implementation for logs and metrics.
	Backend() string

	// Close releases resources held by the store.
	Close() error
}

// tokenKey derives the storage key for a token. Raw bearer strings are never persisted.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewRevocationStore builds the store selected by configuration.
// The memory backend is a single-process development fallback: revocations
// are lost on restart and are invisible to other instances.
func NewRevocationStore(cfg *config.RevocationConfig) (RevocationStore, error) {
	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRevocationRetention
	}

	switch cfg.Backend {
	case BackendMemory, "":
		logging.Warn().
			Str("backend", BackendMemory).
			Msg("Using in-process revocation store; logouts are not shared between instances and are lost on restart")
		return NewMemoryRevocationStore(retention), nil

	case BackendBadger:
		store, err := OpenBadgerRevocationStore(cfg.BadgerPath, retention)
		if err != nil {
			return nil, err
		}
		return store, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisRevocationStore(client, RedisStoreOptions{
			KeyPrefix:        cfg.RedisKeyPrefix,
			Retention:        retention,
			FailureThreshold: cfg.BreakerFailureThreshold,
			OpenTimeout:      cfg.BreakerOpenTimeout,
		}), nil

	default:
		return nil, fmt.Errorf("unknown revocation backend %q", cfg.Backend)
	}
}
