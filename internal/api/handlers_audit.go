// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/audit"
)

// maxAuditEvents caps the limit query parameter of ListAuditEvents.
const maxAuditEvents = 200

// ListAuditEvents returns the clinic's audit trail, newest first. Filters:
// type (repeatable), outcome, actor_id, since and limit.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantContext(w, r)
	if !ok {
		return
	}
	if !h.audit.Enabled() {
		respondError(w, r, http.StatusServiceUnavailable, apierror.KindInternal, "Audit trail is disabled", nil)
		return
	}

	q := r.URL.Query()
	filter := audit.QueryFilter{
		TenantID: tc.TenantID,
		Limit:    pageRequest(r, maxAuditEvents).Limit,
	}

	for _, raw := range q["type"] {
		t, known := audit.ParseEventType(strings.TrimSpace(raw))
		if !known {
			validationFailure(w, r, "type", "unknown audit event type: "+sanitizeLogValue(raw))
			return
		}
		filter.Types = append(filter.Types, t)
	}

	switch outcome := audit.Outcome(q.Get("outcome")); outcome {
	case "", audit.OutcomeSuccess, audit.OutcomeFailure:
		filter.Outcome = outcome
	default:
		validationFailure(w, r, "outcome", "outcome must be one of: success failure")
		return
	}

	actorID, err := queryInt64(r, "actor_id")
	if err != nil {
		badQuery(w, r, err)
		return
	}
	if actorID != nil {
		filter.ActorID = *actorID
	}

	if filter.Since, err = queryTime(r, "since", false); err != nil {
		badQuery(w, r, err)
		return
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, apierror.KindInternal, "Failed to read audit trail", err)
		return
	}
	respondData(w, http.StatusOK, events)
}
