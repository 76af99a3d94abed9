// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Security   SecurityConfig   `koanf:"security"`
	Revocation RevocationConfig `koanf:"revocation"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Logging    LoggingConfig    `koanf:"logging"`
	Audit      AuditConfig      `koanf:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL settings. URL wins over the discrete fields.
type DatabaseConfig struct {
	URL            string        `koanf:"url"`
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"`
	SSLMode        string        `koanf:"sslmode"`
	MaxConns       int32         `koanf:"max_conns"`
	MinConns       int32         `koanf:"min_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MigrateOnStart bool          `koanf:"migrate_on_start"`
}

// DSN returns the connection string for pgx.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	if d.ConnectTimeout > 0 {
		q.Set("connect_timeout", fmt.Sprintf("%d", int(d.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SecurityConfig holds token and password settings.
type SecurityConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	JWTIssuer     string        `koanf:"jwt_issuer"`
	JWTAudience   string        `koanf:"jwt_audience"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	MaxTokenAge   time.Duration `koanf:"max_token_age"`
	RefreshWindow time.Duration `koanf:"refresh_window"`
	BcryptCost    int           `koanf:"bcrypt_cost"`
	CORSOrigins   []string      `koanf:"cors_origins"`

	// Casbin model and policy files. Empty paths use the embedded policy.
	PolicyModelPath string `koanf:"policy_model_path"`
	PolicyPath      string `koanf:"policy_path"`
}

// RevocationConfig selects and tunes the revoked-token store.
type RevocationConfig struct {
	// Backend is one of memory, badger or redis.
	Backend    string        `koanf:"backend"`
	Retention  time.Duration `koanf:"retention"`
	GCInterval time.Duration `koanf:"gc_interval"`

	// AllowMemoryInProduction acknowledges that a process-local store does not
	// share revocations across instances.
	AllowMemoryInProduction bool `koanf:"allow_memory_in_production"`

	BadgerPath string `koanf:"badger_path"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerOpenTimeout      time.Duration `koanf:"breaker_open_timeout"`
}

// RateLimitConfig holds per-route-group request budgets.
type RateLimitConfig struct {
	Disabled bool `koanf:"disabled"`

	APIRequests int           `koanf:"api_requests"`
	APIWindow   time.Duration `koanf:"api_window"`

	LoginRequests int           `koanf:"login_requests"`
	LoginWindow   time.Duration `koanf:"login_window"`

	CreateRequests int           `koanf:"create_requests"`
	CreateWindow   time.Duration `koanf:"create_window"`
}

// LoggingConfig mirrors logging.Config plus rotation settings.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// AuditConfig controls the in-process security audit trail.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BufferSize      int           `koanf:"buffer_size"`
	MaxEvents       int           `koanf:"max_events"`
	Retention       time.Duration `koanf:"retention"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// Load reads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
