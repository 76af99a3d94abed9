// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	validEnvironments = map[string]bool{"development": true, "production": true, "test": true}
	validBackends     = map[string]bool{"memory": true, "badger": true, "redis": true}
	validLogLevels    = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats   = map[string]bool{"json": true, "console": true}
)

// Validate checks that required configuration is present and consistent.
// All problems are reported together.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateDatabase(),
		c.validateSecurity(),
		c.validateRevocation(),
		c.validateRateLimits(),
		c.validateLogging(),
		c.validateAudit(),
	)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, production, test")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
		return fmt.Errorf("DATABASE_URL or DB_HOST and DB_NAME are required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(s.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if containsPlaceholder(s.JWTSecret) {
			return fmt.Errorf("JWT_SECRET contains a placeholder value - generate one with: openssl rand -base64 48")
		}
	}
	if s.JWTIssuer == "" || s.JWTAudience == "" {
		return fmt.Errorf("JWT_ISSUER and JWT_AUDIENCE must not be empty")
	}
	if s.TokenTTL <= 0 || s.MaxTokenAge <= 0 {
		return fmt.Errorf("TOKEN_TTL and MAX_TOKEN_AGE must be positive")
	}
	if s.RefreshWindow < 0 || s.RefreshWindow >= s.TokenTTL {
		return fmt.Errorf("REFRESH_WINDOW must be shorter than TOKEN_TTL")
	}
	if s.BcryptCost < 4 || s.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	return c.validateCORS()
}

func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" && c.IsProduction() {
			return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
		}
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS origin %q must start with http:// or https://", origin)
		}
	}
	return nil
}

func (c *Config) validateRevocation() error {
	r := c.Revocation
	if !validBackends[r.Backend] {
		return fmt.Errorf("REVOCATION_BACKEND must be one of: memory, badger, redis")
	}
	if r.Retention < c.Security.TokenTTL {
		return fmt.Errorf("REVOCATION_RETENTION (%s) must cover TOKEN_TTL (%s)", r.Retention, c.Security.TokenTTL)
	}
	if r.GCInterval <= 0 {
		return fmt.Errorf("REVOCATION_GC_INTERVAL must be positive")
	}
	switch r.Backend {
	case "memory":
		if c.IsProduction() && !r.AllowMemoryInProduction {
			return fmt.Errorf("REVOCATION_BACKEND=memory does not share revocations between instances; " +
				"use badger or redis in production or set REVOCATION_ALLOW_MEMORY_IN_PRODUCTION=true")
		}
	case "badger":
		if r.BadgerPath == "" {
			return fmt.Errorf("REVOCATION_BADGER_PATH is required when REVOCATION_BACKEND=badger")
		}
	case "redis":
		if r.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when REVOCATION_BACKEND=redis")
		}
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.RateLimit.Disabled {
		return nil
	}
	rl := c.RateLimit
	if rl.APIRequests < 1 || rl.LoginRequests < 1 || rl.CreateRequests < 1 {
		return fmt.Errorf("rate limit request budgets must be at least 1")
	}
	if rl.APIWindow <= 0 || rl.LoginWindow <= 0 || rl.CreateWindow <= 0 {
		return fmt.Errorf("rate limit windows must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateAudit() error {
	a := c.Audit
	if !a.Enabled {
		return nil
	}
	if a.BufferSize < 1 || a.MaxEvents < 1 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE and AUDIT_MAX_EVENTS must be at least 1")
	}
	if a.Retention <= 0 || a.CleanupInterval <= 0 {
		return fmt.Errorf("AUDIT_RETENTION and AUDIT_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

// placeholderPatterns indicate a secret that was copied from an example file.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
