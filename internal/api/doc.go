// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package api provides the HTTP REST API of the clinic management service.

# Routing

Routes are registered on a chi router by Router.Setup. Every request passes
the global chain: request id, real IP, access log, panic recovery, security
headers, CORS, Prometheus metrics, compression and the body size limit.

	/metrics                      Prometheus exposition
	/api/health[/live|/ready]     unauthenticated probes
	/api/auth/signup, /login      public, rate limited
	/api/auth/logout              authentication gate only
	/api/auth/refresh, /me        gate + tenant resolver
	/api/...                      gate + resolver + refresh hint + role gate

Business routes are tenant scoped. The tenant always comes from the resolver,
never from the request, and every store call is filtered by it.

# Role gate

Allowed roles per route come from the authz policy and are fixed when the
router is built:

	patients, appointments, visits, dashboard   staff and above
	procedures, suppliers, products (write)     admin and above
	finance                                     admin and above
	users (read / write)                        admin / owner
	audit (read only)                           admin and above

# Responses

Successful responses use the models.Response envelope ({"data": ...}), with a
pagination block on listings. Errors use the apierror body with a stable
machine-readable kind.

# Audit trail

Signup, login attempts, logout and user changes are reported to the
audit.Logger given in HandlerDeps. GET /api/audit returns the tenant's
events; it answers 503 when no logger is configured.

# Caching

The dashboard is cached per tenant in a ttlcache-backed cache. Any write in
a tenant drops that tenant's entries; the X-Cache header reports HIT or MISS.
*/
package api
