// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/config"
	"github.com/tomtom215/aesthetica/internal/middleware"
)

// corsMaxAge caches preflight results for a day.
const corsMaxAge = 86400

// CORSOptions builds the CORS policy. Origins come from configuration only;
// an empty list allows no cross-origin browser access at all.
func CORSOptions(sec config.SecurityConfig) cors.Options {
	return cors.Options{
		AllowedOrigins:   sec.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{auth.RefreshHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}
}

// rateLimiters holds the per-group limiters built from configuration.
type rateLimiters struct {
	api    func(http.Handler) http.Handler
	login  func(http.Handler) http.Handler
	create func(http.Handler) http.Handler
}

func newRateLimiters(cfg config.RateLimitConfig) rateLimiters {
	return rateLimiters{
		api:    middleware.RateLimit("api", cfg.APIRequests, cfg.APIWindow, cfg.Disabled),
		login:  middleware.RateLimit("login", cfg.LoginRequests, cfg.LoginWindow, cfg.Disabled),
		create: middleware.RateLimit("create", cfg.CreateRequests, cfg.CreateWindow, cfg.Disabled),
	}
}

// notFound and methodNotAllowed keep chi's fallbacks in the API error shape.
func notFound(w http.ResponseWriter, r *http.Request) {
	apierror.Write(w, r, http.StatusNotFound, apierror.KindNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierror.Write(w, r, http.StatusMethodNotAllowed, apierror.KindMethodNotAllowed, "Method not allowed")
}
