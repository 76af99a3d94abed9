// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package testinfra starts disposable PostgreSQL and Redis containers for
// integration tests.
//
// Everything here is behind the "integration" build tag, so plain `go test`
// never needs Docker:
//
//	go test -tags integration ./internal/database/... ./internal/auth/...
//
// Usage:
//
//	func TestSignup(t *testing.T) {
//	    pg := testinfra.StartPostgres(t) // skipped without Docker
//	    db, err := database.Open(ctx, config.DatabaseConfig{URL: pg.DSN})
//	    ...
//	}
//
// Tests are skipped when Docker is unavailable or when -short is set. The
// first run downloads the images; later runs use the local cache.
package testinfra
