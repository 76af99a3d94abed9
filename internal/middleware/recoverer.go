// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

// Recoverer turns a handler panic into a 500 JSON error and logs the stack. A
// panic carrying a token verification error becomes 403 AuthFailed instead.
// The panic value is only echoed to the client when exposePanics is set
// (development). http.ErrAbortHandler is re-raised so net/http can abort the
// connection.
func Recoverer(exposePanics bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return recoverer(next, exposePanics)
	}
}

func recoverer(next http.Handler, exposePanics bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
				panic(rec)
			}

			if err, ok := rec.(error); ok && auth.IsTokenError(err) {
				logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Token error escaped handler")
				apierror.Write(w, r, http.StatusForbidden, apierror.KindAuthFailed, "Invalid or expired token.")
				return
			}

			metrics.APIPanicsRecovered.Inc()
			logging.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from handler panic")

			message := "Internal server error"
			if exposePanics {
				message = fmt.Sprintf("panic: %v", rec)
			}
			apierror.Write(w, r, http.StatusInternalServerError, apierror.KindInternal, message)
		}()

		next.ServeHTTP(w, r)
	})
}
