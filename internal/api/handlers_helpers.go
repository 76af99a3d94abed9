// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
	"github.com/tomtom215/aesthetica/internal/validation"
)

// errBadInput marks request problems found before validation, such as an
// unparsable id or query parameter.
var errBadInput = errors.New("bad input")

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondData sends the success envelope.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	apierror.JSON(w, status, models.Response{Data: data})
}

// respondMessage sends the success envelope with a message and no data.
func respondMessage(w http.ResponseWriter, message string) {
	apierror.JSON(w, http.StatusOK, models.Response{Message: message})
}

// respondPage sends one page of a listing.
func respondPage[T any](w http.ResponseWriter, page models.Page[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	p := page.Pagination
	apierror.JSON(w, http.StatusOK, models.Response{Data: items, Pagination: &p})
}

// respondError sends an error body and logs the cause at a level matching the status.
func respondError(w http.ResponseWriter, r *http.Request, status int, kind apierror.Kind, message string, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Str("kind", string(kind)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	apierror.Write(w, r, status, kind, message)
}

// respondStoreError maps database errors onto HTTP responses. what names the
// resource for the not-found message ("Patient"). Token verification errors
// that reach a handler are reported as 403 AuthFailed.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case auth.IsTokenError(err):
		respondError(w, r, http.StatusForbidden, apierror.KindAuthFailed, "Invalid or expired token.", err)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, apierror.KindNotFound, what+" not found", nil)
	case errors.Is(err, database.ErrDuplicate):
		respondError(w, r, http.StatusConflict, apierror.KindConflict, what+" already exists", err)
	case errors.Is(err, database.ErrInvalidReference):
		respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, "A referenced record does not exist", err)
	case errors.Is(err, database.ErrSettlementClosed):
		respondError(w, r, http.StatusConflict, apierror.KindConflict, what+" is cancelled and cannot be settled", err)
	default:
		message := "Internal server error"
		if h.development() {
			message = err.Error()
		}
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, message, err)
	}
}

// decodeJSON reads the request body into v and validates it. On failure the
// response has been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, "Request body is required", nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respondError(w, r, http.StatusRequestEntityTooLarge, apierror.KindPayloadTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit), nil)
		case errors.Is(err, io.EOF):
			respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, "Request body is required", nil)
		default:
			respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, "Invalid JSON body", err)
		}
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apierror.WriteDetails(w, r, http.StatusBadRequest, apierror.KindValidation, verr.Message(), verr.Details())
		return false
	}
	return true
}

// validationFailure writes a single-field validation error.
func validationFailure(w http.ResponseWriter, r *http.Request, field, message string) {
	apierror.WriteDetails(w, r, http.StatusBadRequest, apierror.KindValidation, message, map[string]string{field: message})
}

// tenantContext returns the resolver's result. Routes are only mounted behind
// the resolver, so a missing context is a wiring bug and answers 401.
func tenantContext(w http.ResponseWriter, r *http.Request) (*authz.TenantContext, bool) {
	tc, ok := authz.TenantContextFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, apierror.KindUnauthenticated, "Not authenticated", nil)
		return nil, false
	}
	return tc, true
}

// pathID parses the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, "Invalid id", nil)
		return 0, false
	}
	return id, true
}

// pageRequest reads page and limit, capping limit at maxLimit.
func pageRequest(r *http.Request, maxLimit int) models.PageRequest {
	q := r.URL.Query()
	p := models.ParsePageRequest(q.Get("page"), q.Get("limit"))
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// queryInt64 parses an optional positive integer query parameter.
func queryInt64(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive integer", errBadInput, key)
	}
	return &v, nil
}

// queryTime parses an optional date (2006-01-02) or RFC 3339 timestamp. A
// bare date used as an upper bound covers the whole day.
func queryTime(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", errBadInput, key)
	}
	t := d.Time
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// dateRange reads from and to, rejecting an inverted range.
func dateRange(r *http.Request) (from, to *time.Time, err error) {
	if from, err = queryTime(r, "from", false); err != nil {
		return nil, nil, err
	}
	if to, err = queryTime(r, "to", true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: to must not be before from", errBadInput)
	}
	return from, to, nil
}

// badQuery answers 400 for an errBadInput.
func badQuery(w http.ResponseWriter, r *http.Request, err error) {
	message := strings.TrimPrefix(err.Error(), errBadInput.Error()+": ")
	respondError(w, r, http.StatusBadRequest, apierror.KindBadRequest, message, nil)
}
