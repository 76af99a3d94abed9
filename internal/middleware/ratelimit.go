// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

// RateLimit returns an IP-keyed limiter allowing requests per window. name
// labels the rejection metric ("api", "login", "create"). A disabled or
// non-positive limit returns a pass-through middleware.
func RateLimit(name string, requests int, window time.Duration, disabled bool) func(http.Handler) http.Handler {
	if disabled || requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(name)
			logging.Ctx(r.Context()).Warn().
				Str("limiter", name).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("Rate limit exceeded")
			apierror.Write(w, r, http.StatusTooManyRequests, apierror.KindRateLimited, "Too many requests. Please try again later.")
		}),
	)
}
