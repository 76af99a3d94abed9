// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// gateDecisions counts authentication gate outcomes.
	// A spike in "revoked" or "malformed" usually means a leaked or forged token.
	gateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_auth_gate_decisions_total",
			Help: "Authentication gate decisions by outcome",
		},
		[]string{"outcome"}, // authenticated, missing_token, revoked, expired, malformed, stale, payload_invalid, store_error
	)

	tokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aesthetica_tokens_issued_total",
			Help: "Total number of bearer tokens signed",
		},
	)

	refreshHints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_token_refresh_hints_total",
			Help: "Refreshed tokens offered through X-New-Token",
		},
		[]string{"outcome"}, // issued, failed
	)

	revocationOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_revocation_operations_total",
			Help: "Revocation store operations",
		},
		[]string{"backend", "operation", "outcome"}, // operation: revoke, check, gc; outcome: success, failure
	)

	revocationRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_revocation_gc_removed_total",
			Help: "Expired revocation entries removed by garbage collection",
		},
		[]string{"backend"},
	)
)

func recordRevocationOp(backend, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	revocationOps.WithLabelValues(backend, operation, outcome).Inc()
}
