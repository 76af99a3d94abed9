// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package supervisor runs the long-lived parts of the server under suture v4.

	Root ("aesthetica")
	├── maintenance-layer
	│   ├── RevocationGCService   purges expired revocation entries
	│   ├── PoolStatsService      publishes pgx pool gauges
	│   └── cache.Cache           ttlcache expiry loop
	└── api-layer
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog on the application's slog logger, which writes to
zerolog.

# Usage

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewRevocationGCService(store, cfg.Revocation.GCInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := tree.Serve(ctx)
*/
package supervisor
