// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	"context"

	"github.com/tomtom215/aesthetica/internal/auth"
)

type contextKey string

const tenantContextKey contextKey = "tenant_context"

// TenantContext is the per-request result of tenant resolution. TenantID and
// Role come from the credential store, never from the token.
type TenantContext struct {
	Principal auth.Principal
	UserID    int64
	TenantID  int64
	Role      Role
}

// WithTenantContext returns a context carrying tc.
func WithTenantContext(ctx context.Context, tc *TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey, tc)
}

// TenantContextFromContext returns the resolver's result for the request.
func TenantContextFromContext(ctx context.Context) (*TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey).(*TenantContext)
	return tc, ok && tc != nil
}

// ResolvedSubject returns the resolved user and its stored tenant. Used as the
// refresh subject so only requests the resolver admitted get a new token.
func ResolvedSubject(ctx context.Context) (auth.Principal, bool) {
	tc, ok := TenantContextFromContext(ctx)
	if !ok {
		return auth.Principal{}, false
	}
	return auth.Principal{UserID: tc.UserID, TenantID: tc.TenantID}, true
}
