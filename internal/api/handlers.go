// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"time"

	"github.com/tomtom215/aesthetica/internal/audit"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/cache"
	"github.com/tomtom215/aesthetica/internal/config"
)

// DefaultDashboardTTL bounds how stale a cached dashboard can be on instances
// that did not see the write.
const DefaultDashboardTTL = 30 * time.Second

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by resource:
//   - handlers_auth.go: signup, login, logout, refresh, me
//   - handlers_users.go: tenant user management
//   - handlers_patients.go, handlers_catalog.go, handlers_appointments.go
//   - handlers_visits.go, handlers_finance.go, handlers_dashboard.go
//   - handlers_audit.go: security audit trail
//   - handlers_health.go: liveness, readiness and status
type Handler struct {
	store       Store
	codec       *auth.TokenCodec
	revocations auth.RevocationStore
	passwords   *auth.PasswordHasher
	cache       *cache.Cache
	audit       *audit.Logger
	config      *config.Config
	version     string
	startTime   time.Time
}

// HandlerDeps groups NewHandler's collaborators.
type HandlerDeps struct {
	Store       Store
	Codec       *auth.TokenCodec
	Revocations auth.RevocationStore
	Passwords   *auth.PasswordHasher
	Cache       *cache.Cache
	Audit       *audit.Logger
	Config      *config.Config
	Version     string
}

// NewHandler creates the API handler. A nil Cache gets a private one with
// DefaultDashboardTTL; a nil Passwords uses the configured bcrypt cost.
func NewHandler(deps HandlerDeps) *Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	passwords := deps.Passwords
	if passwords == nil {
		passwords = auth.NewPasswordHasher(cfg.Security.BcryptCost)
	}

	c := deps.Cache
	if c == nil {
		c = cache.New(DefaultDashboardTTL)
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		store:       deps.Store,
		codec:       deps.Codec,
		revocations: deps.Revocations,
		passwords:   passwords,
		cache:       c,
		audit:       deps.Audit,
		config:      cfg,
		version:     version,
		startTime:   time.Now(),
	}
}

// development reports whether error responses may carry internal detail.
func (h *Handler) development() bool {
	return h.config.Server.Environment == "development"
}
