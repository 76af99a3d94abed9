// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/models"
)

// LookupUserRole implements authz.CredentialStore. It reads the user's
// current tenant, role and active state on every call, so role changes and
// deactivations apply to the next request.
func (db *DB) LookupUserRole(ctx context.Context, userID int64) (_ authz.UserRole, err error) {
	defer observe("lookup_user_role", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		tenantID     int64
		role         string
		active       bool
		tenantStatus string
	)
	err = db.pool.QueryRow(ctx, `
		SELECT u.tenant_id, u.role, u.active, t.status
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE u.id = $1`, userID).Scan(&tenantID, &role, &active, &tenantStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return authz.UserRole{}, authz.ErrUnknownUser
	}
	if err != nil {
		return authz.UserRole{}, fmt.Errorf("lookup user %d: %w", userID, err)
	}

	parsed, err := authz.ParseRole(role)
	if err != nil {
		return authz.UserRole{}, fmt.Errorf("user %d: %w", userID, err)
	}
	return authz.UserRole{
		TenantID: tenantID,
		Role:     parsed,
		Active:   active && tenantStatus == models.TenantStatusActive,
	}, nil
}

var _ authz.CredentialStore = (*DB)(nil)
