// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"

	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
)

// ListVisits returns performed visits, newest first.
func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	from, to, err := dateRange(r)
	if err != nil {
		badQuery(w, r, err)
		return
	}
	patientID, err := queryInt64(r, "patient_id")
	if err != nil {
		badQuery(w, r, err)
		return
	}

	page, err := h.store.ListVisits(r.Context(), tc.TenantID, models.VisitFilter{
		From:      from,
		To:        to,
		PatientID: patientID,
		Page:      pageRequest(r, models.MaxPageLimit),
	})
	if err != nil {
		h.respondStoreError(w, r, "Visit", err)
		return
	}
	respondPage(w, page)
}

// GetVisit returns a visit with its installment schedule.
func (h *Handler) GetVisit(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	visit, err := h.store.GetVisit(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Visit", err)
		return
	}
	installments, err := h.store.ListInstallments(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Visit", err)
		return
	}
	if installments == nil {
		installments = []models.Installment{}
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"visit":        visit,
		"installments": installments,
	})
}

// CreateVisit records a performed procedure and its payments in one
// transaction: installments, the outstanding-balance receivable and the
// appointment completion all commit or none do.
func (h *Handler) CreateVisit(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.VisitInput
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.store.CreateVisit(r.Context(), tc.TenantID, tc.UserID, in)
	if err != nil {
		h.respondStoreError(w, r, "Patient, procedure or appointment", err)
		return
	}
	h.invalidate(tc.TenantID)

	logging.Ctx(r.Context()).Info().
		Int64("visit_id", result.Visit.ID).
		Float64("total", result.Visit.Total).
		Float64("received", result.Received).
		Float64("outstanding", result.OutstandingBalance).
		Int("installments", len(result.Installments)).
		Msg("Visit recorded")

	respondData(w, http.StatusCreated, result)
}
