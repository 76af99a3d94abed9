// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
)

var settlementStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusPartial:   true,
	models.StatusPaid:      true,
	models.StatusCancelled: true,
}

// financeFilter reads status, from and to. On failure the response has been written.
func financeFilter(w http.ResponseWriter, r *http.Request) (models.FinanceFilter, bool) {
	from, to, err := dateRange(r)
	if err != nil {
		badQuery(w, r, err)
		return models.FinanceFilter{}, false
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" && !settlementStatuses[status] {
		validationFailure(w, r, "status", "status must be one of: pending partial paid cancelled")
		return models.FinanceFilter{}, false
	}
	return models.FinanceFilter{
		Status: status,
		From:   from,
		To:     to,
		Page:   pageRequest(r, models.MaxPageLimit),
	}, true
}

// ListPaymentMethods returns the clinic's payment methods.
func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	methods, err := h.store.ListPaymentMethods(r.Context(), tc.TenantID)
	if err != nil {
		h.respondStoreError(w, r, "Payment method", err)
		return
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	respondData(w, http.StatusOK, methods)
}

// ListReceivables returns receivables ordered by due date.
func (h *Handler) ListReceivables(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	filter, ok := financeFilter(w, r)
	if !ok {
		return
	}

	page, err := h.store.ListReceivables(r.Context(), tc.TenantID, filter)
	if err != nil {
		h.respondStoreError(w, r, "Receivable", err)
		return
	}
	respondPage(w, page)
}

// GetReceivable returns one receivable.
func (h *Handler) GetReceivable(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	receivable, err := h.store.GetReceivable(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Receivable", err)
		return
	}
	respondData(w, http.StatusOK, receivable)
}

// CreateReceivable records money owed to the clinic outside a visit.
func (h *Handler) CreateReceivable(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.ReceivableInput
	if !decodeJSON(w, r, &in) {
		return
	}

	receivable, err := h.store.CreateReceivable(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Receivable", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, receivable)
}

// ReceiveReceivable adds a payment to a receivable.
func (h *Handler) ReceiveReceivable(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.SettlementInput
	if !decodeJSON(w, r, &in) {
		return
	}

	receivable, err := h.store.ReceiveReceivable(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Receivable", err)
		return
	}
	h.invalidate(tc.TenantID)

	logging.Ctx(r.Context()).Info().
		Int64("receivable_id", receivable.ID).
		Float64("amount", in.Amount).
		Str("status", receivable.Status).
		Msg("Receivable payment recorded")
	respondData(w, http.StatusOK, receivable)
}

// ListPayables returns payables ordered by due date.
func (h *Handler) ListPayables(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	filter, ok := financeFilter(w, r)
	if !ok {
		return
	}

	page, err := h.store.ListPayables(r.Context(), tc.TenantID, filter)
	if err != nil {
		h.respondStoreError(w, r, "Payable", err)
		return
	}
	respondPage(w, page)
}

// GetPayable returns one payable.
func (h *Handler) GetPayable(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payable, err := h.store.GetPayable(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Payable", err)
		return
	}
	respondData(w, http.StatusOK, payable)
}

// CreatePayable records a bill.
func (h *Handler) CreatePayable(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.PayableInput
	if !decodeJSON(w, r, &in) {
		return
	}

	payable, err := h.store.CreatePayable(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Payable", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, payable)
}

// PayPayable adds a payment to a payable.
func (h *Handler) PayPayable(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.SettlementInput
	if !decodeJSON(w, r, &in) {
		return
	}

	payable, err := h.store.PayPayable(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Payable", err)
		return
	}
	h.invalidate(tc.TenantID)

	logging.Ctx(r.Context()).Info().
		Int64("payable_id", payable.ID).
		Float64("amount", in.Amount).
		Str("status", payable.Status).
		Msg("Payable payment recorded")
	respondData(w, http.StatusOK, payable)
}
