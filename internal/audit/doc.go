// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package audit records a per-tenant security audit trail.
//
// Handlers report authentication and user management events through a
// Logger. Events are buffered on a channel and written by the Logger's Serve
// loop, which runs as a supervised service so a slow store never delays a
// request. When the buffer is full the event is dropped and counted in
// aesthetica_audit_events_dropped_total.
//
// # Event Types
//
// Authentication:
//   - auth.signup: a clinic and its owner were created
//   - auth.success: login accepted
//   - auth.failure: wrong password, unknown email or disabled account
//   - auth.logout: token revoked on logout
//
// User management:
//   - user.created: an owner added a user
//   - user.modified: role or active flag changed
//
// # Tenancy
//
// Every event carries the tenant it belongs to. Queries always filter on a
// tenant id, so one clinic never sees another's trail. Failed logins for an
// unknown email have tenant id 0 and are only visible in the process log.
//
// # Storage
//
// MemoryStore keeps the newest events in a bounded slice; the oldest tenth is
// discarded when it fills. Retention cleanup runs on CleanupInterval.
//
// # Usage
//
//	store := audit.NewMemoryStore(cfg.Audit.MaxEvents)
//	logger := audit.NewLogger(store, audit.Config{
//	    Enabled:         true,
//	    BufferSize:      1000,
//	    Retention:       90 * 24 * time.Hour,
//	    CleanupInterval: time.Hour,
//	})
//	tree.AddMaintenanceService(logger)
//
//	logger.LogLoginSuccess(r, user.ID, user.TenantID)
package audit
