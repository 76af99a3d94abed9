// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// RefreshHeader carries a fresh token when the presented one is close to expiry.
const RefreshHeader = "X-New-Token"

// Denial describes why the gate refused a request.
type Denial struct {
	Status  int
	Kind    apierror.Kind
	Message string
	Err     error
}

// Gate authenticates bearer tokens.
type Gate struct {
	codec         *TokenCodec
	store         RevocationStore
	refreshWindow time.Duration
	now           func() time.Time

	// issue signs refresh tokens; replaced in tests to exercise failures.
	issue func(userID, tenantID int64) (string, error)
}

// NewGate creates a gate. refreshWindow is the remaining validity below which
// RefreshHint offers a new token; zero disables the hint.
func NewGate(codec *TokenCodec, store RevocationStore, refreshWindow time.Duration) *Gate {
	return &Gate{
		codec:         codec,
		store:         store,
		refreshWindow: refreshWindow,
		now:           codec.now,
		issue:         codec.Issue,
	}
}

// Evaluate runs the gate's checks against r: extract, revocation, verify.
// Exactly one of the results is non-nil.
func (g *Gate) Evaluate(r *http.Request) (*Authenticated, *Denial) {
	token := bearerToken(r)
	if token == "" {
		return nil, &Denial{
			Status:  http.StatusUnauthorized,
			Kind:    apierror.KindMissingToken,
			Message: "Access token not provided",
		}
	}

	revoked, err := g.store.IsRevoked(r.Context(), token)
	if err != nil {
		return nil, &Denial{
			Status:  http.StatusInternalServerError,
			Kind:    apierror.KindInternal,
			Message: "Unable to validate token at this time",
			Err:     err,
		}
	}
	if revoked {
		return nil, &Denial{
			Status:  http.StatusUnauthorized,
			Kind:    apierror.KindRevokedToken,
			Message: "Token has been revoked. Please log in again.",
		}
	}

	verified, err := g.codec.Verify(token)
	if err != nil {
		return nil, &Denial{
			Status:  http.StatusForbidden,
			Kind:    apierror.KindAuthFailed,
			Message: verifyFailureMessage(err),
			Err:     err,
		}
	}

	return &Authenticated{
		Principal: verified.Principal,
		Token:     token,
		TokenID:   verified.ID,
		ExpiresAt: verified.ExpiresAt,
	}, nil
}

// Authenticate rejects requests without a valid, unrevoked bearer token and
// attaches the Authenticated result to the request context.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated, denial := g.Evaluate(r)
		if denial != nil {
			gateDecisions.WithLabelValues(denialOutcome(denial)).Inc()
			event := logging.Ctx(r.Context()).Warn()
			if denial.Status >= http.StatusInternalServerError {
				event = logging.Ctx(r.Context()).Error()
			}
			event.Err(denial.Err).
				Str("kind", string(denial.Kind)).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("Authentication denied")
			apierror.Write(w, r, denial.Status, denial.Kind, denial.Message)
			return
		}

		gateDecisions.WithLabelValues("authenticated").Inc()
		next.ServeHTTP(w, r.WithContext(WithAuthenticated(r.Context(), authenticated)))
	})
}

// SubjectFunc names the user and tenant a refreshed token is issued for. It
// reports false when the request carries no admitted identity.
type SubjectFunc func(ctx context.Context) (Principal, bool)

// TokenSubject issues refreshed tokens for the principal of the presented
// token.
func TokenSubject(ctx context.Context) (Principal, bool) {
	a, ok := AuthenticatedFromContext(ctx)
	if !ok {
		return Principal{}, false
	}
	return a.Principal, true
}

// RefreshHint sets X-New-Token when the token has less than the refresh
// window left. The new token is issued for subject, so the middleware belongs
// after whatever admits the request. The original token stays valid. Failures
// are logged and never affect the request.
func (g *Gate) RefreshHint(subject SubjectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.refreshWindow > 0 {
				g.offerRefresh(w, r, subject)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *Gate) offerRefresh(w http.ResponseWriter, r *http.Request, subject SubjectFunc) {
	a, ok := AuthenticatedFromContext(r.Context())
	if !ok || a.ExpiresAt.Sub(g.now()) >= g.refreshWindow {
		return
	}
	principal, ok := subject(r.Context())
	if !ok || principal.UserID <= 0 {
		return
	}

	fresh, err := g.issue(principal.UserID, principal.TenantID)
	if err != nil {
		refreshHints.WithLabelValues("failed").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to issue refresh token")
		return
	}
	refreshHints.WithLabelValues("issued").Inc()
	w.Header().Set(RefreshHeader, fresh)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// BearerToken is exported for handlers that revoke the presented token.
func BearerToken(r *http.Request) string {
	return bearerToken(r)
}

func verifyFailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "Token expired. Please log in again."
	case errors.Is(err, ErrTokenMalformed):
		return "Token malformed or invalid."
	default:
		return "Invalid or expired token."
	}
}

func denialOutcome(d *Denial) string {
	switch d.Kind {
	case apierror.KindMissingToken:
		return "missing_token"
	case apierror.KindRevokedToken:
		return "revoked"
	case apierror.KindInternal:
		return "store_error"
	}
	switch {
	case errors.Is(d.Err, ErrTokenExpired):
		return "expired"
	case errors.Is(d.Err, ErrTokenStale):
		return "stale"
	case errors.Is(d.Err, ErrPayloadInvalid):
		return "payload_invalid"
	default:
		return "malformed"
	}
}
