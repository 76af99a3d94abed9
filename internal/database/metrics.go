// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aesthetica_db_query_duration_seconds",
			Help:    "Database operation latency by operation",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	queryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_db_query_errors_total",
			Help: "Database operation failures, not counting not-found results",
		},
		[]string{"operation"},
	)

	signups = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aesthetica_signups_total",
			Help: "Tenants created through signup",
		},
	)
)

// observe records the latency of one operation and, unless err is nil or a
// not-found, a failure. Use as: defer observe("op", time.Now(), &err).
func observe(operation string, start time.Time, err *error) {
	queryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil && !errors.Is(*err, ErrNotFound) {
		queryErrors.WithLabelValues(operation).Inc()
	}
}
