// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	"net/http"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// RequireRole is the role gate middleware. The allow-list is fixed when the
// route is built; the role is read from the TenantContext on each request.
func RequireRole(allowed ...Role) func(http.Handler) http.Handler {
	// Copy so callers cannot mutate the route's allow-list later.
	list := append([]Role(nil), allowed...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, ok := TenantContextFromContext(r.Context())
			if !ok {
				roleDecisions.WithLabelValues("unresolved").Inc()
				apierror.Write(w, r, http.StatusUnauthorized, apierror.KindUnauthenticated, "Not authenticated")
				return
			}

			if !Authorize(tc, list) {
				roleDecisions.WithLabelValues("deny").Inc()
				logging.Ctx(r.Context()).Warn().
					Str("role", tc.Role.String()).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Role not permitted for route")
				apierror.Write(w, r, http.StatusForbidden, apierror.KindInsufficientRole, "You do not have permission for this action")
				return
			}

			roleDecisions.WithLabelValues("allow").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// Require gates a route with the roles the policy allows for resource and action.
func (p *Policy) Require(resource string, action Action) func(http.Handler) http.Handler {
	return RequireRole(p.AllowedRoles(resource, action)...)
}

// ActionForMethod maps an HTTP method to a policy action.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionWrite
	}
}
