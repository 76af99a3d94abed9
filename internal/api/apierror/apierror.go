// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package apierror writes the JSON error body shared by every layer of the
// HTTP stack: the authentication gate, the tenant resolver, the role gate and
// the business handlers.
//
//	{"error": "MissingToken", "message": "Access token not provided"}
package apierror

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// Kind is the stable, machine-readable error category. Clients branch on it;
// the message is for humans and may change.
type Kind string

const (
	KindMissingToken       Kind = "MissingToken"
	KindRevokedToken       Kind = "RevokedToken"
	KindAuthFailed         Kind = "AuthFailed"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindUnknownUser        Kind = "UnknownUser"
	KindResolverError      Kind = "ResolverError"
	KindInsufficientRole   Kind = "InsufficientRole"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindAccountDisabled    Kind = "AccountDisabled"
	KindValidation         Kind = "ValidationError"
	KindBadRequest         Kind = "BadRequest"
	KindNotFound           Kind = "NotFound"
	KindMethodNotAllowed   Kind = "MethodNotAllowed"
	KindConflict           Kind = "Conflict"
	KindRateLimited        Kind = "RateLimited"
	KindPayloadTooLarge    Kind = "PayloadTooLarge"
	KindInternal           Kind = "InternalError"
)

// Body is the error response shape.
type Body struct {
	Error     Kind              `json:"error"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Write sends an error body with the given status.
func Write(w http.ResponseWriter, r *http.Request, status int, kind Kind, message string) {
	WriteDetails(w, r, status, kind, message, nil)
}

// WriteDetails sends an error body carrying per-field details.
func WriteDetails(w http.ResponseWriter, r *http.Request, status int, kind Kind, message string, details map[string]string) {
	body := Body{
		Error:   kind,
		Message: message,
		Details: details,
	}
	if r != nil {
		body.RequestID = logging.RequestIDFromContext(r.Context())
	}
	JSON(w, status, body)
}

// JSON encodes v with the given status. Encoding failures are logged; the
// status line has already been sent at that point.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Int("status", status).Msg("Failed to encode JSON response")
	}
}
