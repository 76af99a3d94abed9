// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package services adapts server components to suture.Service.

Each wrapper implements

	Serve(ctx context.Context) error
	String() string

and returns ctx.Err() once the supervisor cancels it. Available services:

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - RevocationGCService: periodic purge of expired revoked tokens
  - PoolStatsService: periodic pgx pool gauges
*/
package services
