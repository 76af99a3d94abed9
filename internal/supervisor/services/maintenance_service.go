// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package services

import (
	"context"
	"time"

	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

// RevocationCollector purges expired revocation entries.
// Satisfied by every auth.RevocationStore.
type RevocationCollector interface {
	GC(ctx context.Context) (int, error)
}

// RevocationGCService calls GC on a fixed interval. Failed runs are logged
// and counted; they never stop the loop.
type RevocationGCService struct {
	collector RevocationCollector
	interval  time.Duration
	name      string
}

// DefaultRevocationGCInterval is used when the configured interval is not positive.
const DefaultRevocationGCInterval = 10 * time.Minute

// NewRevocationGCService creates the GC loop.
func NewRevocationGCService(collector RevocationCollector, interval time.Duration) *RevocationGCService {
	if interval <= 0 {
		interval = DefaultRevocationGCInterval
	}
	return &RevocationGCService{
		collector: collector,
		interval:  interval,
		name:      "revocation-gc",
	}
}

// Serve implements suture.Service.
func (s *RevocationGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect(ctx)
		}
	}
}

func (s *RevocationGCService) collect(ctx context.Context) {
	removed, err := s.collector.GC(ctx)
	metrics.RecordRevocationGC(err)
	if err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Revocation GC failed")
		return
	}
	if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("Revocation GC purged expired entries")
	}
}

// String identifies the service in supervisor logs.
func (s *RevocationGCService) String() string {
	return s.name
}

// PoolStatsSource reports connection pool usage. Satisfied by *database.DB.
type PoolStatsSource interface {
	Stats() database.PoolStats
}

// DefaultPoolStatsInterval is the sampling period when none is configured.
const DefaultPoolStatsInterval = 15 * time.Second

// PoolStatsService publishes pool gauges on a fixed interval, so they stay
// current between health checks.
type PoolStatsService struct {
	source   PoolStatsSource
	interval time.Duration
}

// NewPoolStatsService creates the sampler.
func NewPoolStatsService(source PoolStatsSource, interval time.Duration) *PoolStatsService {
	if interval <= 0 {
		interval = DefaultPoolStatsInterval
	}
	return &PoolStatsService{source: source, interval: interval}
}

// Serve implements suture.Service. It samples once immediately.
func (s *PoolStatsService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		st := s.source.Stats()
		metrics.SetDBPoolStats(st.TotalConns, st.IdleConns, st.AcquiredConns, st.MaxConns)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *PoolStatsService) String() string {
	return "db-pool-stats"
}
