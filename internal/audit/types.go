// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package audit

import (
	"context"
	"time"
)

// EventType categorizes audit events.
type EventType string

const (
	EventTypeSignup      EventType = "auth.signup"
	EventTypeAuthSuccess EventType = "auth.success"
	EventTypeAuthFailure EventType = "auth.failure"
	EventTypeLogout      EventType = "auth.logout"

	EventTypeUserCreated  EventType = "user.created"
	EventTypeUserModified EventType = "user.modified"
)

var knownTypes = map[EventType]bool{
	EventTypeSignup:       true,
	EventTypeAuthSuccess:  true,
	EventTypeAuthFailure:  true,
	EventTypeLogout:       true,
	EventTypeUserCreated:  true,
	EventTypeUserModified: true,
}

// ParseEventType accepts one of the EventType constants.
func ParseEventType(s string) (EventType, bool) {
	t := EventType(s)
	return t, knownTypes[t]
}

// Severity indicates the importance of an event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Outcome indicates whether the audited action succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Source identifies where a request came from.
type Source struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Event is one entry of the audit trail.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Outcome   Outcome   `json:"outcome"`

	// TenantID scopes the event. 0 means no tenant could be determined.
	TenantID int64 `json:"tenant_id"`

	// ActorID is the user performing the action, TargetID the user acted on.
	ActorID  int64 `json:"actor_id,omitempty"`
	TargetID int64 `json:"target_id,omitempty"`

	Source      Source            `json:"source"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
}

// QueryFilter selects events of one tenant, newest first.
type QueryFilter struct {
	TenantID int64
	Types    []EventType
	Outcome  Outcome
	ActorID  int64
	Since    *time.Time
	Limit    int
}

// DefaultQueryLimit applies when QueryFilter.Limit is not positive.
const DefaultQueryLimit = 100

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events older than before and returns how many went.
	Delete(ctx context.Context, before time.Time) (int64, error)
}
