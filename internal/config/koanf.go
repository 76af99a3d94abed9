// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/aesthetica/config.yaml",
	"/etc/aesthetica/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Name:           "clinica_estetica",
			SSLMode:        "disable",
			MaxConns:       20,
			MinConns:       2,
			ConnectTimeout: 2 * time.Second,
			MigrateOnStart: true,
		},
		Security: SecurityConfig{
			JWTIssuer:     "clinica-estetica-api",
			JWTAudience:   "clinica-estetica-client",
			TokenTTL:      7 * 24 * time.Hour,
			MaxTokenAge:   7 * 24 * time.Hour,
			RefreshWindow: 24 * time.Hour,
			BcryptCost:    10,
			CORSOrigins:   []string{"http://localhost:5173"},
		},
		Revocation: RevocationConfig{
			Backend:                 "memory",
			Retention:               7 * 24 * time.Hour,
			GCInterval:              time.Hour,
			BadgerPath:              "/data/revocations",
			RedisAddr:               "localhost:6379",
			RedisKeyPrefix:          "aesthetica:revoked:",
			BreakerFailureThreshold: 5,
			BreakerOpenTimeout:      30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			APIRequests:    100,
			APIWindow:      15 * time.Minute,
			LoginRequests:  5,
			LoginWindow:    15 * time.Minute,
			CreateRequests: 50,
			CreateWindow:   time.Hour,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Audit: AuditConfig{
			Enabled:         true,
			BufferSize:      1000,
			MaxEvents:       10000,
			Retention:       90 * 24 * time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional YAML file
//  3. Environment Variables: override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// JWT_SECRET -> security.jwt_secret, DB_HOST -> database.host
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// FRONTEND_URL and PORT are kept for compatibility with existing deployments.
var envMappings = map[string]string{
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"node_env":         "server.environment",
	"environment":      "server.environment",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"max_body_bytes":   "server.max_body_bytes",

	"database_url":        "database.url",
	"db_host":             "database.host",
	"db_port":             "database.port",
	"db_user":             "database.user",
	"db_password":         "database.password",
	"db_name":             "database.name",
	"db_sslmode":          "database.sslmode",
	"db_max_conns":        "database.max_conns",
	"db_min_conns":        "database.min_conns",
	"db_connect_timeout":  "database.connect_timeout",
	"db_migrate_on_start": "database.migrate_on_start",

	"jwt_secret":     "security.jwt_secret",
	"jwt_issuer":     "security.jwt_issuer",
	"jwt_audience":   "security.jwt_audience",
	"token_ttl":      "security.token_ttl",
	"max_token_age":  "security.max_token_age",
	"refresh_window": "security.refresh_window",
	"bcrypt_cost":    "security.bcrypt_cost",
	"frontend_url":   "security.cors_origins",
	"cors_origins":   "security.cors_origins",

	"authz_model_path":  "security.policy_model_path",
	"authz_policy_path": "security.policy_path",

	"revocation_backend":                    "revocation.backend",
	"revocation_retention":                  "revocation.retention",
	"revocation_gc_interval":                "revocation.gc_interval",
	"revocation_allow_memory_in_production": "revocation.allow_memory_in_production",
	"revocation_badger_path":                "revocation.badger_path",
	"redis_addr":                            "revocation.redis_addr",
	"redis_password":                        "revocation.redis_password",
	"redis_db":                              "revocation.redis_db",
	"redis_key_prefix":                      "revocation.redis_key_prefix",
	"revocation_breaker_threshold":          "revocation.breaker_failure_threshold",
	"revocation_breaker_timeout":            "revocation.breaker_open_timeout",

	"rate_limit_disabled":        "rate_limit.disabled",
	"rate_limit_api_requests":    "rate_limit.api_requests",
	"rate_limit_api_window":      "rate_limit.api_window",
	"rate_limit_login_requests":  "rate_limit.login_requests",
	"rate_limit_login_window":    "rate_limit.login_window",
	"rate_limit_create_requests": "rate_limit.create_requests",
	"rate_limit_create_window":   "rate_limit.create_window",

	"log_level":       "logging.level",
	"log_format":      "logging.format",
	"log_caller":      "logging.caller",
	"log_file":        "logging.file",
	"log_max_size_mb": "logging.max_size_mb",
	"log_max_backups": "logging.max_backups",
	"log_max_age":     "logging.max_age_days",
	"log_compress":    "logging.compress",

	"audit_enabled":          "audit.enabled",
	"audit_buffer_size":      "audit.buffer_size",
	"audit_max_events":       "audit.max_events",
	"audit_retention":        "audit.retention",
	"audit_cleanup_interval": "audit.cleanup_interval",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" so unrelated environment does not leak into config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
