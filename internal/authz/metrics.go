// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tenant Resolver

	resolverOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_tenant_resolver_outcomes_total",
			Help: "Tenant resolution outcomes",
		},
		[]string{"outcome"}, // resolved, Unauthenticated, UnknownUser, AccountDisabled, ResolverError
	)

	// resolverLookupDuration tracks credential store latency on the request path.
	resolverLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aesthetica_tenant_resolver_lookup_seconds",
			Help:    "Credential store lookup duration",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)

	// Role Gate

	roleDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_role_gate_decisions_total",
			Help: "Role gate decisions",
		},
		[]string{"decision"}, // allow, deny, unresolved
	)
)
