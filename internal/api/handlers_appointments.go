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

const appointmentsMaxLimit = 50

var appointmentStatuses = map[string]bool{
	models.AppointmentScheduled: true,
	models.AppointmentConfirmed: true,
	models.AppointmentCompleted: true,
	models.AppointmentCancelled: true,
	models.AppointmentNoShow:    true,
}

// ListAppointments returns appointments ordered by date, filtered by from,
// to, status and patient_id.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
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
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" && !appointmentStatuses[status] {
		validationFailure(w, r, "status", "status must be one of: scheduled confirmed completed cancelled no_show")
		return
	}

	page, err := h.store.ListAppointments(r.Context(), tc.TenantID, models.AppointmentFilter{
		From:      from,
		To:        to,
		Status:    status,
		PatientID: patientID,
		Page:      pageRequest(r, appointmentsMaxLimit),
	})
	if err != nil {
		h.respondStoreError(w, r, "Appointment", err)
		return
	}
	respondPage(w, page)
}

// GetAppointment returns one appointment.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	appointment, err := h.store.GetAppointment(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Appointment", err)
		return
	}
	respondData(w, http.StatusOK, appointment)
}

// CreateAppointment schedules a procedure for a patient. Both must belong to
// the caller's clinic, otherwise the answer is 404.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.AppointmentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.UserID == nil {
		in.UserID = &tc.UserID
	}

	appointment, err := h.store.CreateAppointment(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Patient or procedure", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, appointment)
}

// UpdateAppointment reschedules or changes the status of an appointment.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.AppointmentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	appointment, err := h.store.UpdateAppointment(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Appointment", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusOK, appointment)
}

// DeleteAppointment removes an appointment.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteAppointment(r.Context(), tc.TenantID, id); err != nil {
		h.respondStoreError(w, r, "Appointment", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondMessage(w, "Appointment deleted")
}
