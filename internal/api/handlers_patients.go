// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/aesthetica/internal/models"
)

// ListPatients returns active patients, optionally filtered by search over
// name, CPF and phone.
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page, err := h.store.ListPatients(r.Context(), tc.TenantID, search, pageRequest(r, models.MaxPageLimit))
	if err != nil {
		h.respondStoreError(w, r, "Patient", err)
		return
	}
	respondPage(w, page)
}

// GetPatient returns one patient.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	patient, err := h.store.GetPatient(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Patient", err)
		return
	}
	respondData(w, http.StatusOK, patient)
}

// CreatePatient registers a patient.
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.PatientInput
	if !decodeJSON(w, r, &in) {
		return
	}

	patient, err := h.store.CreatePatient(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Patient", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, patient)
}

// UpdatePatient replaces a patient's details.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.PatientInput
	if !decodeJSON(w, r, &in) {
		return
	}

	patient, err := h.store.UpdatePatient(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Patient", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusOK, patient)
}

// DeletePatient deactivates a patient. History stays attached.
func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeactivatePatient(r.Context(), tc.TenantID, id); err != nil {
		h.respondStoreError(w, r, "Patient", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondMessage(w, "Patient deactivated")
}
