// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"time"
)

type contextKey string

const authenticatedKey contextKey = "authenticated"

// Authenticated is what the gate guarantees to every later stage: a verified,
// unrevoked token and the principal it carries.
type Authenticated struct {
	Principal Principal
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// WithAuthenticated returns a context carrying a.
func WithAuthenticated(ctx context.Context, a *Authenticated) context.Context {
	return context.WithValue(ctx, authenticatedKey, a)
}

// AuthenticatedFromContext returns the gate's result, if the request passed it.
func AuthenticatedFromContext(ctx context.Context) (*Authenticated, bool) {
	a, ok := ctx.Value(authenticatedKey).(*Authenticated)
	return a, ok && a != nil
}
