// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package logging provides the process-wide zerolog logger for Aesthetica.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Str("reason", "revoked").Msg("Request denied")
//
// # Output
//
// Logs go to stderr unless Config.File.Path is set, in which case they are
// written to a lumberjack-rotated file. The console format is meant for local
// development; production deployments should keep json.
//
// # Request Context
//
// The request-id middleware stores an id with ContextWithRequestID and the
// tenant resolver stores the caller with ContextWithIdentity. Ctx(ctx) picks
// both up, so handlers never add those fields by hand.
//
// Raw bearer tokens and passwords must never be logged.
package logging
