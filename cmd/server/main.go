// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/aesthetica/internal/api"
	"github.com/tomtom215/aesthetica/internal/audit"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/cache"
	"github.com/tomtom215/aesthetica/internal/config"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/metrics"
	"github.com/tomtom215/aesthetica/internal/supervisor"
	"github.com/tomtom215/aesthetica/internal/supervisor/services"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

const readHeaderTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(loggingConfig(cfg.Logging))

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		_ = logging.Close()
		os.Exit(1)
	}
	_ = logging.Close()
}

func loggingConfig(lc config.LoggingConfig) logging.Config {
	out := logging.DefaultConfig()
	out.Level = lc.Level
	out.Format = lc.Format
	out.Caller = lc.Caller
	out.File = logging.FileConfig{
		Path:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Compress:   lc.Compress,
	}
	if lc.File != "" {
		out.Output = nil
	}
	return out
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("version", version).
		Str("commit", commit).
		Str("environment", cfg.Server.Environment).
		Str("revocation_backend", cfg.Revocation.Backend).
		Msg("Starting Aesthetica")
	metrics.SetBuildInfo(version, commit)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		schema, _ := db.SchemaVersion(ctx)
		logging.Info().Int("schema_version", schema).Msg("Database schema up to date")
	}

	revocations, err := auth.NewRevocationStore(&cfg.Revocation)
	if err != nil {
		return fmt.Errorf("revocation store: %w", err)
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()

	codec, err := auth.NewTokenCodec(&cfg.Security)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	policy, err := authz.NewPolicy(authz.PolicyConfig{
		ModelPath:  cfg.Security.PolicyModelPath,
		PolicyPath: cfg.Security.PolicyPath,
	})
	if err != nil {
		return fmt.Errorf("route policy: %w", err)
	}

	responseCache := cache.New(api.DefaultDashboardTTL)
	auditLog := audit.NewLogger(audit.NewMemoryStore(cfg.Audit.MaxEvents), audit.Config{
		Enabled:         cfg.Audit.Enabled,
		BufferSize:      cfg.Audit.BufferSize,
		Retention:       cfg.Audit.Retention,
		CleanupInterval: cfg.Audit.CleanupInterval,
	})

	handler := api.NewHandler(api.HandlerDeps{
		Store:       db,
		Codec:       codec,
		Revocations: revocations,
		Cache:       responseCache,
		Audit:       auditLog,
		Config:      cfg,
		Version:     version,
	})
	gate := auth.NewGate(codec, revocations, cfg.Security.RefreshWindow)
	router := api.NewRouter(handler, gate, authz.NewResolver(db), policy, cfg)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMaintenanceService(services.NewRevocationGCService(revocations, cfg.Revocation.GCInterval))
	tree.AddMaintenanceService(services.NewPoolStatsService(db, services.DefaultPoolStatsInterval))
	tree.AddMaintenanceService(responseCache)
	tree.AddMaintenanceService(auditLog)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	err = tree.Serve(ctx)

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logging.Info().Msg("Shutdown complete")
	return nil
}
