// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// UserRole is what the credential store knows about a user.
type UserRole struct {
	TenantID int64
	Role     Role

	// Active is false when either the user or its tenant has been disabled.
	Active bool
}

// CredentialStore looks up a user's tenant and role. Implementations return
// ErrUnknownUser (possibly wrapped) when the user does not exist.
type CredentialStore interface {
	LookupUserRole(ctx context.Context, userID int64) (UserRole, error)
}

// Resolver maps the authenticated user to its tenant and role on every
// request. Nothing is cached, so role and tenant changes apply immediately.
type Resolver struct {
	store CredentialStore
}

// NewResolver creates a resolver backed by store.
func NewResolver(store CredentialStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve builds the TenantContext for the authenticated request in ctx.
func (r *Resolver) Resolve(ctx context.Context) (*TenantContext, error) {
	authenticated, ok := auth.AuthenticatedFromContext(ctx)
	if !ok || authenticated.Principal.UserID <= 0 {
		return nil, ErrUnauthenticated
	}
	principal := authenticated.Principal

	start := time.Now()
	ur, err := r.store.LookupUserRole(ctx, principal.UserID)
	resolverLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return nil, fmt.Errorf("user %d: %w", principal.UserID, ErrUnknownUser)
		}
		return nil, fmt.Errorf("%w: %w", ErrResolverFailed, err)
	}
	if !ur.Active {
		return nil, fmt.Errorf("user %d: %w", principal.UserID, ErrUserDisabled)
	}

	if ur.TenantID != principal.TenantID {
		logging.Ctx(ctx).Warn().
			Int64("user_id", principal.UserID).
			Int64("token_tenant_id", principal.TenantID).
			Int64("tenant_id", ur.TenantID).
			Msg("Token tenant differs from stored tenant; using stored tenant")
	}

	return &TenantContext{
		Principal: principal,
		UserID:    principal.UserID,
		TenantID:  ur.TenantID,
		Role:      ur.Role,
	}, nil
}

// Attach is the tenant resolver middleware. It must run after the
// authentication gate.
func (r *Resolver) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tc, err := r.Resolve(req.Context())
		if err != nil {
			status, kind, msg := resolveFailure(err)
			resolverOutcomes.WithLabelValues(string(kind)).Inc()

			event := logging.Ctx(req.Context()).Warn()
			if status >= http.StatusInternalServerError {
				event = logging.Ctx(req.Context()).Error()
			}
			event.Err(err).Str("kind", string(kind)).Str("path", req.URL.Path).Msg("Tenant resolution denied")

			apierror.Write(w, req, status, kind, msg)
			return
		}

		resolverOutcomes.WithLabelValues("resolved").Inc()
		ctx := WithTenantContext(req.Context(), tc)
		ctx = logging.ContextWithIdentity(ctx, tc.UserID, tc.TenantID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func resolveFailure(err error) (int, apierror.Kind, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, apierror.KindUnauthenticated, "Not authenticated"
	case errors.Is(err, ErrUnknownUser):
		return http.StatusNotFound, apierror.KindUnknownUser, "User not found"
	case errors.Is(err, ErrUserDisabled):
		return http.StatusForbidden, apierror.KindAccountDisabled, "User or clinic is inactive"
	default:
		return http.StatusInternalServerError, apierror.KindResolverError, "Unable to verify clinic"
	}
}
