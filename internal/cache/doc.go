// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package cache provides a short-lived, tenant-scoped cache for expensive read
endpoints, currently the dashboard.

Every key lives in a tenant namespace built with TenantKey. Handlers that
change data a cached result depends on (visits, receivables, payables,
appointments, patients) call InvalidateTenant for their own tenant, so a
cached figure is never older than the write that changed it in the same
process. Other instances only converge after the TTL.

Storage is github.com/jellydator/ttlcache/v3. The expiry loop runs as a
supervised service (Serve); Get also treats expired items as misses, so
correctness does not depend on the loop.

	c := cache.New(30 * time.Second)
	key := cache.TenantKey(tenantID, "dashboard")
	if v, ok := c.Get(key); ok {
		return v.(models.Dashboard)
	}
*/
package cache
