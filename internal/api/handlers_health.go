// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/aesthetica/internal/cache"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

// healthProbeTimeout bounds each dependency check.
const healthProbeTimeout = 2 * time.Second

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status            string             `json:"status"`
	Version           string             `json:"version"`
	Environment       string             `json:"environment"`
	DatabaseConnected bool               `json:"database_connected"`
	Pool              database.PoolStats `json:"pool"`
	RevocationBackend string             `json:"revocation_backend"`
	RevocationHealthy bool               `json:"revocation_healthy"`
	Cache             cache.Stats        `json:"cache"`
	Uptime            float64            `json:"uptime_seconds"`
	Timestamp         time.Time          `json:"timestamp"`
}

var errNoDatabase = errors.New("database not configured")

// pinger is implemented by revocation backends with a remote dependency.
type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports process and dependency status. It always answers 200; the
// status field is "healthy" or "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.pingDatabase(r.Context()) == nil
	revocationHealthy := h.pingRevocations(r.Context()) == nil

	status := "healthy"
	if !dbConnected || !revocationHealthy {
		status = "degraded"
	}

	var pool database.PoolStats
	if h.store != nil {
		pool = h.store.Stats()
		metrics.SetDBPoolStats(pool.TotalConns, pool.IdleConns, pool.AcquiredConns, pool.MaxConns)
	}

	backend := ""
	if h.revocations != nil {
		backend = h.revocations.Backend()
	}

	respondData(w, http.StatusOK, HealthStatus{
		Status:            status,
		Version:           h.version,
		Environment:       h.config.Server.Environment,
		DatabaseConnected: dbConnected,
		Pool:              pool,
		RevocationBackend: backend,
		RevocationHealthy: revocationHealthy,
		Cache:             h.cache.Stats(),
		Uptime:            time.Since(h.startTime).Seconds(),
		Timestamp:         time.Now().UTC(),
	})
}

// HealthLive answers 200 while the process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady answers 503 until the database and the revocation store both
// respond. The gate fails closed without the revocation store, so taking
// traffic without it would only produce 500s.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok", "revocation": "ok"}
	ready := true

	if err := h.pingDatabase(r.Context()); err != nil {
		checks["database"] = "unavailable"
		ready = false
	}
	if err := h.pingRevocations(r.Context()); err != nil {
		checks["revocation"] = "unavailable"
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	respondData(w, status, map[string]interface{}{"ready": ready, "checks": checks})
}

func (h *Handler) pingDatabase(ctx context.Context) error {
	if h.store == nil {
		return errNoDatabase
	}
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return h.store.Ping(ctx)
}

func (h *Handler) pingRevocations(ctx context.Context) error {
	p, ok := h.revocations.(pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return p.Ping(ctx)
}
