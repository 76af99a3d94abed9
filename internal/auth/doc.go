// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package auth implements bearer-token authentication for the clinic API.

Three pieces cooperate:

  - TokenCodec signs and verifies HS256 tokens carrying a user and tenant id.
    Verification pins the algorithm, issuer and audience, and rejects tokens
    older than the configured maximum age even when exp is still in the future.
  - RevocationStore remembers logged-out tokens for the retention window.
    Backends: in-process (ttlcache), embedded (BadgerDB) and shared (Redis,
    behind a circuit breaker).
  - Gate is the HTTP middleware that extracts the bearer token, consults the
    revocation store and verifies the token, in that order.

# Gate outcomes

	missing or non-Bearer header   401 MissingToken
	token revoked                  401 RevokedToken
	revocation store unavailable   500 InternalError (fail closed)
	any verification failure       403 AuthFailed

The gate establishes identity only. Tenant and role resolution happen in
package authz, against the current database state.

# Usage

	codec, err := auth.NewTokenCodec(&cfg.Security)
	store, err := auth.NewRevocationStore(&cfg.Revocation)
	gate := auth.NewGate(codec, store, cfg.Security.RefreshWindow)

	r.Group(func(r chi.Router) {
	    r.Use(gate.Authenticate, resolver.Attach)
	    r.Use(gate.RefreshHint(authz.ResolvedSubject))
	    // protected routes
	})
*/
package auth
