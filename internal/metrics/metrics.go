// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide metrics. Package-specific metrics (auth gate decisions,
// resolver outcomes, database latency) live next to the code they measure.

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aesthetica_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aesthetica_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"limiter"}, // api, login, create
	)

	APIPanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aesthetica_api_panics_recovered_total",
			Help: "Handler panics turned into 500 responses",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aesthetica_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Database Pool Metrics
	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aesthetica_db_pool_connections",
			Help: "PostgreSQL pool connections by state",
		},
		[]string{"state"}, // total, idle, acquired, max
	)

	// Background job metrics
	RevocationGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_revocation_gc_runs_total",
			Help: "Revocation garbage collection runs by result",
		},
		[]string{"result"}, // success, failure
	)

	RevocationGCLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aesthetica_revocation_gc_last_success_timestamp",
			Help: "Unix timestamp of the last successful revocation GC run",
		},
	)

	// Audit trail metrics
	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_audit_events_total",
			Help: "Audit events written by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aesthetica_audit_events_dropped_total",
			Help: "Audit events dropped because the buffer was full",
		},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aesthetica_build_info",
			Help: "Build information; the value is always 1",
		},
		[]string{"version", "commit"},
	)
)

// RecordAPIRequest records one finished API request. route is the chi route
// pattern, never the raw path, to keep label cardinality bounded.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rejected request.
func RecordRateLimitHit(limiter string) {
	APIRateLimitHits.WithLabelValues(limiter).Inc()
}

// Breaker state values for CircuitBreakerState.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// RecordCircuitBreakerTransition records a state change. from and to are the
// gobreaker state names ("closed", "half-open", "open").
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "open":
		return BreakerOpen
	case "half-open":
		return BreakerHalfOpen
	default:
		return BreakerClosed
	}
}

// SetDBPoolStats publishes a pool snapshot.
func SetDBPoolStats(total, idle, acquired, max int32) {
	DBPoolConnections.WithLabelValues("total").Set(float64(total))
	DBPoolConnections.WithLabelValues("idle").Set(float64(idle))
	DBPoolConnections.WithLabelValues("acquired").Set(float64(acquired))
	DBPoolConnections.WithLabelValues("max").Set(float64(max))
}

// RecordRevocationGC records one garbage collection run.
func RecordRevocationGC(err error) {
	if err != nil {
		RevocationGCRuns.WithLabelValues("failure").Inc()
		return
	}
	RevocationGCRuns.WithLabelValues("success").Inc()
	RevocationGCLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordAuditEvent counts one written audit event.
func RecordAuditEvent(eventType, outcome string) {
	AuditEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordAuditDropped counts an audit event lost to a full buffer.
func RecordAuditDropped() {
	AuditEventsDropped.Inc()
}

// SetBuildInfo publishes the running version.
func SetBuildInfo(version, commit string) {
	BuildInfo.WithLabelValues(version, commit).Set(1)
}
