// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/audit"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
)

const invalidCredentialsMessage = "Invalid email or password"

// Signup creates a clinic with its owner and default payment methods, and
// logs the owner in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to create account", err)
		return
	}

	companyEmail := req.Email
	if req.CompanyEmail != nil && *req.CompanyEmail != "" {
		companyEmail = *req.CompanyEmail
	}

	result, err := h.store.Signup(r.Context(), models.NewTenant{
		Name:         req.CompanyName,
		Email:        companyEmail,
		Phone:        req.Phone,
		CNPJ:         req.CNPJ,
		OwnerName:    req.Name,
		OwnerEmail:   req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, r, http.StatusConflict, apierror.KindConflict, "Email is already registered", nil)
			return
		}
		h.respondStoreError(w, r, "Account", err)
		return
	}

	token, err := h.codec.Issue(result.User.ID, result.Tenant.ID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to issue token", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("tenant_id", result.Tenant.ID).
		Int64("user_id", result.User.ID).
		Str("slug", result.Tenant.Slug).
		Msg("Clinic signed up")
	h.audit.LogSignup(r, result.Tenant.ID, result.User.ID)

	tenant := result.Tenant
	respondData(w, http.StatusCreated, models.AuthResponse{Token: token, User: result.User, Tenant: &tenant})
}

// Login exchanges email and password for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, ok := h.authenticateCredentials(w, r, &req)
	if !ok {
		return
	}

	if !record.Active || record.TenantStatus != models.TenantStatusActive {
		logging.Ctx(r.Context()).Warn().
			Int64("user_id", record.ID).
			Int64("tenant_id", record.TenantID).
			Bool("user_active", record.Active).
			Str("tenant_status", record.TenantStatus).
			Msg("Login refused for disabled account")
		h.audit.LogLoginFailure(r, record.TenantID, record.ID, audit.ReasonAccountDisabled)
		respondError(w, r, http.StatusForbidden, apierror.KindAccountDisabled, "User or clinic is inactive", nil)
		return
	}

	h.generateAndSendToken(w, r, record)
}

// authenticateCredentials looks the user up and checks the password. Unknown
// emails and wrong passwords get the same answer.
func (h *Handler) authenticateCredentials(w http.ResponseWriter, r *http.Request, req *models.LoginRequest) (models.LoginRecord, bool) {
	record, err := h.store.FindLoginByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.passwords.VerifyDummy(req.Password)
			h.audit.LogLoginFailure(r, 0, 0, audit.ReasonUnknownEmail)
			respondError(w, r, http.StatusUnauthorized, apierror.KindInvalidCredentials, invalidCredentialsMessage, nil)
			return models.LoginRecord{}, false
		}
		h.respondStoreError(w, r, "User", err)
		return models.LoginRecord{}, false
	}

	if err := h.passwords.Verify(record.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			logging.Ctx(r.Context()).Warn().Int64("user_id", record.ID).Msg("Login with wrong password")
			h.audit.LogLoginFailure(r, record.TenantID, record.ID, audit.ReasonWrongPassword)
			respondError(w, r, http.StatusUnauthorized, apierror.KindInvalidCredentials, invalidCredentialsMessage, nil)
			return models.LoginRecord{}, false
		}
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Unable to verify credentials", err)
		return models.LoginRecord{}, false
	}

	return record, true
}

// generateAndSendToken issues the token and writes the login response.
func (h *Handler) generateAndSendToken(w http.ResponseWriter, r *http.Request, record models.LoginRecord) {
	token, err := h.codec.Issue(record.ID, record.TenantID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to issue token", err)
		return
	}

	if err := h.store.UpdateLastLogin(r.Context(), record.ID); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int64("user_id", record.ID).Msg("Failed to record last login")
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", record.ID).
		Int64("tenant_id", record.TenantID).
		Msg("User logged in")
	h.audit.LogLoginSuccess(r, record.TenantID, record.ID)

	respondData(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  record.User,
		Tenant: &models.Tenant{
			ID:     record.TenantID,
			Name:   record.TenantName,
			Slug:   record.TenantSlug,
			Status: record.TenantStatus,
		},
	})
}

// Logout revokes the presented token. Requires the authentication gate only,
// so a user disabled after login can still end the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	a, ok := auth.AuthenticatedFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, apierror.KindUnauthenticated, "Not authenticated", nil)
		return
	}

	if err := h.revocations.Revoke(r.Context(), a.Token); err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to revoke token", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", a.Principal.UserID).
		Int64("tenant_id", a.Principal.TenantID).
		Str("jti", a.TokenID).
		Msg("Token revoked on logout")
	h.audit.LogLogout(r, a.Principal.TenantID, a.Principal.UserID, a.TokenID)

	respondMessage(w, "Logged out")
}

// Refresh issues a new token for the resolved user. The presented token
// stays valid until it expires or is revoked.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	token, err := h.codec.Issue(tc.UserID, tc.TenantID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to issue token", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"token": token})
}

// Me returns the current user and clinic.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUser(r.Context(), tc.TenantID, tc.UserID)
	if err != nil {
		h.respondStoreError(w, r, "User", err)
		return
	}
	tenant, err := h.store.GetTenant(r.Context(), tc.TenantID)
	if err != nil {
		h.respondStoreError(w, r, "Clinic", err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"tenant": tenant,
	})
}
