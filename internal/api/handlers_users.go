// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
)

// ListUsers returns the clinic's users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	users, err := h.store.ListUsers(r.Context(), tc.TenantID)
	if err != nil {
		h.respondStoreError(w, r, "User", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondData(w, http.StatusOK, users)
}

// CreateUser adds an admin or staff member. Owners are only created by signup.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		validationFailure(w, r, "role", "role must be one of: admin staff")
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to create user", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), tc.TenantID, req.Name, req.Email, hash, role)
	if err != nil {
		h.respondStoreError(w, r, "User", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("created_user_id", user.ID).
		Str("role", user.Role).
		Msg("User created")
	h.invalidate(tc.TenantID)
	h.audit.LogUserCreated(r, tc.TenantID, tc.UserID, user.ID, user.Role)
	respondData(w, http.StatusCreated, user)
}

// UpdateUser changes a user's role or active flag. The change applies on the
// user's next request because the resolver reads the store every time.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role == nil && req.Active == nil {
		validationFailure(w, r, "role", "role or active is required")
		return
	}

	var role *authz.Role
	if req.Role != nil {
		parsed, err := authz.ParseRole(*req.Role)
		if err != nil {
			validationFailure(w, r, "role", "role must be one of: owner admin staff")
			return
		}
		role = &parsed
	}

	// An owner locking themselves out leaves the clinic without an owner.
	if id == tc.UserID && ((role != nil && *role != authz.RoleOwner) || (req.Active != nil && !*req.Active)) {
		respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, "You cannot demote or deactivate yourself", nil)
		return
	}

	user, err := h.store.UpdateUser(r.Context(), tc.TenantID, id, role, req.Active)
	if err != nil {
		h.respondStoreError(w, r, "User", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("target_user_id", user.ID).
		Str("role", user.Role).
		Bool("active", user.Active).
		Msg("User updated")

	changes := make(map[string]string, 2)
	if role != nil {
		changes["role"] = user.Role
	}
	if req.Active != nil {
		changes["active"] = strconv.FormatBool(user.Active)
	}
	h.invalidate(tc.TenantID)
	h.audit.LogUserModified(r, tc.TenantID, tc.UserID, user.ID, changes)
	respondData(w, http.StatusOK, user)
}
