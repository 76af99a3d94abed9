// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef-test"

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3001 {
		t.Errorf("Server.Port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.Server.MaxBodyBytes != 10<<20 {
		t.Errorf("Server.MaxBodyBytes = %d, want 10MiB", cfg.Server.MaxBodyBytes)
	}
	if cfg.Security.JWTIssuer != "clinica-estetica-api" {
		t.Errorf("Security.JWTIssuer = %q", cfg.Security.JWTIssuer)
	}
	if cfg.Security.JWTAudience != "clinica-estetica-client" {
		t.Errorf("Security.JWTAudience = %q", cfg.Security.JWTAudience)
	}
	if cfg.Security.TokenTTL != 7*24*time.Hour {
		t.Errorf("Security.TokenTTL = %v, want 168h", cfg.Security.TokenTTL)
	}
	if cfg.Security.RefreshWindow != 24*time.Hour {
		t.Errorf("Security.RefreshWindow = %v, want 24h", cfg.Security.RefreshWindow)
	}
	if cfg.Revocation.Retention != cfg.Security.TokenTTL {
		t.Errorf("Revocation.Retention = %v, want token TTL", cfg.Revocation.Retention)
	}
	if cfg.RateLimit.LoginRequests != 5 || cfg.RateLimit.LoginWindow != 15*time.Minute {
		t.Errorf("login limit = %d/%v, want 5/15m", cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginWindow)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"JWT_SECRET", "security.jwt_secret"},
		{"DATABASE_URL", "database.url"},
		{"FRONTEND_URL", "security.cors_origins"},
		{"REVOCATION_BACKEND", "revocation.backend"},
		{"REDIS_ADDR", "revocation.redis_addr"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REVOCATION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("RATE_LIMIT_LOGIN_WINDOW", "30m")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Revocation.Backend != "redis" || cfg.Revocation.RedisAddr != "cache:6379" {
		t.Errorf("Revocation = %+v", cfg.Revocation)
	}
	if cfg.RateLimit.LoginWindow != 30*time.Minute {
		t.Errorf("RateLimit.LoginWindow = %v, want 30m", cfg.RateLimit.LoginWindow)
	}
}

func TestLoadWithKoanf_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 4000
security:
  jwt_secret: "` + testSecret + `"
  cors_origins:
    - https://clinic.example.com
database:
  url: postgres://u:p@db:5432/clinic
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Database.DSN() != "postgres://u:p@db:5432/clinic" {
		t.Errorf("Database.DSN() = %q", cfg.Database.DSN())
	}
	if cfg.Security.CORSOrigins[0] != "https://clinic.example.com" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_MissingSecret(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid development", func(*Config) {}, ""},
		{"short secret in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.JWTSecret = "short"
		}, "at least 32 characters"},
		{"placeholder secret in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Revocation.Backend = "redis"
			c.Security.JWTSecret = "CHANGEME-CHANGEME-CHANGEME-CHANGEME"
		}, "placeholder"},
		{"memory backend in production", func(c *Config) {
			c.Server.Environment = "production"
		}, "REVOCATION_BACKEND=memory"},
		{"memory backend acknowledged", func(c *Config) {
			c.Server.Environment = "production"
			c.Revocation.AllowMemoryInProduction = true
		}, ""},
		{"retention shorter than ttl", func(c *Config) {
			c.Revocation.Retention = time.Hour
		}, "must cover TOKEN_TTL"},
		{"unknown backend", func(c *Config) {
			c.Revocation.Backend = "etcd"
		}, "REVOCATION_BACKEND must be one of"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Revocation.Backend = "redis"
			c.Security.CORSOrigins = []string{"*"}
		}, "must not contain '*'"},
		{"refresh window too large", func(c *Config) {
			c.Security.RefreshWindow = 8 * 24 * time.Hour
		}, "REFRESH_WINDOW"},
		{"bad log level", func(c *Config) {
			c.Logging.Level = "loud"
		}, "LOG_LEVEL"},
		{"zero audit buffer", func(c *Config) {
			c.Audit.BufferSize = 0
		}, "AUDIT_BUFFER_SIZE"},
		{"audit disabled skips checks", func(c *Config) {
			c.Audit.Enabled = false
			c.Audit.Retention = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Security.JWTSecret = testSecret
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "clinic",
		Password: "p@ss",
		Name:     "clinica",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	for _, want := range []string{"postgres://clinic:p%40ss@db:5432/clinica", "sslmode=require"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN() = %q, want containing %q", dsn, want)
		}
	}
}
