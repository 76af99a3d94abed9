// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"

	"github.com/tomtom215/aesthetica/internal/cache"
	"github.com/tomtom215/aesthetica/internal/models"
)

const dashboardCacheKey = "dashboard"

// Dashboard returns the clinic overview. Results are cached per tenant and
// dropped by any write of the same tenant; X-Cache tells which one was served.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	key := cache.TenantKey(tc.TenantID, dashboardCacheKey)
	if cached, hit := h.cache.Get(key); hit {
		if d, isDashboard := cached.(models.Dashboard); isDashboard {
			w.Header().Set("X-Cache", "HIT")
			respondData(w, http.StatusOK, d)
			return
		}
	}

	d, err := h.store.Dashboard(r.Context(), tc.TenantID)
	if err != nil {
		h.respondStoreError(w, r, "Dashboard", err)
		return
	}
	h.cache.Set(key, d)

	w.Header().Set("X-Cache", "MISS")
	respondData(w, http.StatusOK, d)
}

// invalidate drops the tenant's cached results after a write.
func (h *Handler) invalidate(tenantID int64) {
	h.cache.InvalidateTenant(tenantID)
}
