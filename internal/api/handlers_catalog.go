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

// catalogMaxLimit caps procedure and product listings.
const catalogMaxLimit = 50

// ListProcedures returns active procedures, filtered by search and category.
func (h *Handler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := h.store.ListProcedures(r.Context(), tc.TenantID,
		strings.TrimSpace(q.Get("search")), strings.TrimSpace(q.Get("category")), pageRequest(r, catalogMaxLimit))
	if err != nil {
		h.respondStoreError(w, r, "Procedure", err)
		return
	}
	respondPage(w, page)
}

// GetProcedure returns one procedure.
func (h *Handler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	procedure, err := h.store.GetProcedure(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Procedure", err)
		return
	}
	respondData(w, http.StatusOK, procedure)
}

// CreateProcedure adds a procedure. Duration defaults to 60 minutes.
func (h *Handler) CreateProcedure(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.ProcedureInput
	if !decodeJSON(w, r, &in) {
		return
	}

	procedure, err := h.store.CreateProcedure(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Procedure", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, procedure)
}

// UpdateProcedure replaces a procedure's details.
func (h *Handler) UpdateProcedure(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.ProcedureInput
	if !decodeJSON(w, r, &in) {
		return
	}

	procedure, err := h.store.UpdateProcedure(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Procedure", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusOK, procedure)
}

// DeleteProcedure deactivates a procedure.
func (h *Handler) DeleteProcedure(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeactivateProcedure(r.Context(), tc.TenantID, id); err != nil {
		h.respondStoreError(w, r, "Procedure", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondMessage(w, "Procedure deactivated")
}

// ListSuppliers returns active suppliers, searched by name or CNPJ.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page, err := h.store.ListSuppliers(r.Context(), tc.TenantID, search, pageRequest(r, models.MaxPageLimit))
	if err != nil {
		h.respondStoreError(w, r, "Supplier", err)
		return
	}
	respondPage(w, page)
}

// GetSupplier returns one supplier.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	supplier, err := h.store.GetSupplier(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Supplier", err)
		return
	}
	respondData(w, http.StatusOK, supplier)
}

// CreateSupplier adds a supplier.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}

	supplier, err := h.store.CreateSupplier(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Supplier", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, supplier)
}

// UpdateSupplier replaces a supplier's details.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}

	supplier, err := h.store.UpdateSupplier(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Supplier", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusOK, supplier)
}

// DeleteSupplier deactivates a supplier.
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeactivateSupplier(r.Context(), tc.TenantID, id); err != nil {
		h.respondStoreError(w, r, "Supplier", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondMessage(w, "Supplier deactivated")
}

// ListProducts returns active products with their supplier name.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := h.store.ListProducts(r.Context(), tc.TenantID,
		strings.TrimSpace(q.Get("search")), strings.TrimSpace(q.Get("category")), pageRequest(r, catalogMaxLimit))
	if err != nil {
		h.respondStoreError(w, r, "Product", err)
		return
	}
	respondPage(w, page)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.store.GetProduct(r.Context(), tc.TenantID, id)
	if err != nil {
		h.respondStoreError(w, r, "Product", err)
		return
	}
	respondData(w, http.StatusOK, product)
}

// CreateProduct adds a product to the stock list.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var in models.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.store.CreateProduct(r.Context(), tc.TenantID, in)
	if err != nil {
		h.respondStoreError(w, r, "Product", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusCreated, product)
}

// UpdateProduct replaces a product's details, stock included.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in models.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), tc.TenantID, id, in)
	if err != nil {
		h.respondStoreError(w, r, "Product", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondData(w, http.StatusOK, product)
}

// DeleteProduct deactivates a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeactivateProduct(r.Context(), tc.TenantID, id); err != nil {
		h.respondStoreError(w, r, "Product", err)
		return
	}
	h.invalidate(tc.TenantID)
	respondMessage(w, "Product deactivated")
}
