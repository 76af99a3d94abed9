// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package metrics holds the process-wide Prometheus collectors, exposed at
GET /metrics.

Metric families:

	aesthetica_api_requests_total{method,route,status_code}
	aesthetica_api_request_duration_seconds{method,route}
	aesthetica_api_active_requests
	aesthetica_api_rate_limit_hits_total{limiter}
	aesthetica_api_panics_recovered_total
	aesthetica_circuit_breaker_state{name}
	aesthetica_circuit_breaker_state_transitions_total{name,from_state,to_state}
	aesthetica_db_pool_connections{state}
	aesthetica_revocation_gc_runs_total{result}
	aesthetica_revocation_gc_last_success_timestamp
	aesthetica_build_info{version,commit}

Collectors that belong to one package are registered there instead:
internal/auth (gate decisions, revocation store operations), internal/authz
(resolver outcomes, role decisions) and internal/database (query latency).

Route labels use the chi route pattern ("/api/patients/{id}"), so patient
ids never become label values.
*/
package metrics
