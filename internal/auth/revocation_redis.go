// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

// RedisStoreOptions configures RedisRevocationStore.
type RedisStoreOptions struct {
	KeyPrefix string
	Retention time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// RedisRevocationStore shares revocations between instances through Redis.
// Keys expire on their own, so GC has nothing to do.
//
// Calls run through a circuit breaker. While it is open, IsRevoked returns an
// error and the gate refuses the request rather than guessing.
type RedisRevocationStore struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
	breaker   *gobreaker.CircuitBreaker[bool]
}

// NewRedisRevocationStore wraps a connected client.
func NewRedisRevocationStore(client redis.UniversalClient, opts RedisStoreOptions) *RedisRevocationStore {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "aesthetica:revoked:"
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRevocationRetention
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        "revocation-redis",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Revocation store circuit breaker changed state")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})

	return &RedisRevocationStore{
		client:    client,
		prefix:    opts.KeyPrefix,
		retention: opts.Retention,
		breaker:   breaker,
	}
}

// Backend implements RevocationStore.
func (s *RedisRevocationStore) Backend() string {
	return BackendRedis
}

func (s *RedisRevocationStore) key(token string) string {
	return s.prefix + tokenKey(token)
}

// Revoke implements RevocationStore. SET NX keeps the first retention window.
func (s *RedisRevocationStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	_, err := s.breaker.Execute(func() (bool, error) {
		return s.client.SetNX(ctx, s.key(token), time.Now().Unix(), s.retention).Result()
	})
	recordRevocationOp(BackendRedis, "revoke", err)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationStore.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrEmptyToken
	}

	revoked, err := s.breaker.Execute(func() (bool, error) {
		n, err := s.client.Exists(ctx, s.key(token)).Result()
		return n > 0, err
	})
	if err != nil {
		recordRevocationOp(BackendRedis, "check", err)
		return false, fmt.Errorf("check revocation: %w", err)
	}
	recordRevocationOp(BackendRedis, "check", nil)
	return revoked, nil
}

// GC implements RevocationStore.
func (s *RedisRevocationStore) GC(_ context.Context) (int, error) {
	return 0, nil
}

// Ping checks connectivity, bypassing the breaker.
func (s *RedisRevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// BreakerState reports the circuit breaker state for health output.
func (s *RedisRevocationStore) BreakerState() string {
	return s.breaker.State().String()
}

// Close closes the client.
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}
