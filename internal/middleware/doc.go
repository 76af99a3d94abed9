// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package middleware provides the cross-cutting HTTP middleware used by the
router. Every middleware has the chi signature func(http.Handler) http.Handler.

Global stack, outermost first:

	RequestID        X-Request-ID in and out, request id in the log context
	AccessLog        one structured log line per request
	Recoverer        panics become a 500 JSON error
	SecurityHeaders  nosniff, DENY framing, no-store, HSTS behind TLS
	PrometheusMetrics request counter, latency histogram, in-flight gauge
	MaxBodyBytes     caps request bodies

Per route group:

	RateLimit        httprate limiter keyed by client IP, JSON 429 on reject

Authentication, tenant resolution and role checks live in internal/auth and
internal/authz; they run after this stack.
*/
package middleware
