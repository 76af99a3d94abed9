// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package audit

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

// saveTimeout bounds a single store write.
const saveTimeout = 5 * time.Second

// Config holds the Logger settings.
type Config struct {
	Enabled         bool
	BufferSize      int
	Retention       time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns the settings used when config leaves them unset.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		BufferSize:      1000,
		Retention:       90 * 24 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

// Logger queues audit events and writes them to a Store from its Serve loop.
// A nil *Logger is valid and records nothing.
type Logger struct {
	config Config
	store  Store
	events chan *Event
}

// NewLogger creates a logger writing to store. Non-positive sizes and
// intervals fall back to DefaultConfig.
func NewLogger(store Store, config Config) *Logger {
	def := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.Retention <= 0 {
		config.Retention = def.Retention
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	return &Logger{
		config: config,
		store:  store,
		events: make(chan *Event, config.BufferSize),
	}
}

// Enabled reports whether events are recorded.
func (l *Logger) Enabled() bool {
	return l != nil && l.config.Enabled
}

// Log queues an event, filling in its id, timestamp and request id. It never
// blocks; a full buffer drops the event.
func (l *Logger) Log(ctx context.Context, event *Event) {
	if !l.Enabled() {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = logging.RequestIDFromContext(ctx)
	}
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	select {
	case l.events <- event:
	default:
		metrics.RecordAuditDropped()
		logging.Warn().Str("event_type", string(event.Type)).Msg("Audit buffer full, dropping event")
	}
}

// Serve writes queued events and enforces retention until ctx is cancelled,
// then drains what is left. It implements suture.Service.
func (l *Logger) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Flush(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-l.events:
			l.write(ctx, event)
		case <-ticker.C:
			l.cleanup(ctx)
		}
	}
}

// String names the service in supervisor logs.
func (l *Logger) String() string {
	return "audit-logger"
}

// Flush writes every queued event before returning.
func (l *Logger) Flush(ctx context.Context) {
	if l == nil {
		return
	}
	for {
		select {
		case event := <-l.events:
			l.write(ctx, event)
		default:
			return
		}
	}
}

// Query returns stored events matching filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

func (l *Logger) write(ctx context.Context, event *Event) {
	metrics.RecordAuditEvent(string(event.Type), string(event.Outcome))

	logging.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("outcome", string(event.Outcome)).
		Int64("tenant_id", event.TenantID).
		Int64("actor_id", event.ActorID).
		Str("request_id", event.RequestID).
		Msg(event.Description)

	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
	}
}

func (l *Logger) cleanup(ctx context.Context) {
	if l.store == nil {
		return
	}
	count, err := l.store.Delete(ctx, time.Now().Add(-l.config.Retention))
	if err != nil {
		logging.Error().Err(err).Msg("Audit retention cleanup failed")
		return
	}
	if count > 0 {
		logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
	}
}

// SourceFromRequest extracts the client address and user agent. RemoteAddr
// already holds the real IP when chi's RealIP middleware runs first.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{IPAddress: ip, UserAgent: r.UserAgent()}
}

// LogSignup records a new clinic and its owner.
func (l *Logger) LogSignup(r *http.Request, tenantID, ownerID int64) {
	l.Log(r.Context(), &Event{
		Type:        EventTypeSignup,
		Outcome:     OutcomeSuccess,
		TenantID:    tenantID,
		ActorID:     ownerID,
		Source:      SourceFromRequest(r),
		Description: "Clinic signed up",
	})
}

// LogLoginSuccess records an accepted login.
func (l *Logger) LogLoginSuccess(r *http.Request, tenantID, userID int64) {
	l.Log(r.Context(), &Event{
		Type:        EventTypeAuthSuccess,
		Outcome:     OutcomeSuccess,
		TenantID:    tenantID,
		ActorID:     userID,
		Source:      SourceFromRequest(r),
		Description: "User logged in",
	})
}

// Login failure reasons.
const (
	ReasonUnknownEmail    = "unknown_email"
	ReasonWrongPassword   = "wrong_password"
	ReasonAccountDisabled = "account_disabled"
)

// LogLoginFailure records a refused login. tenantID and userID are 0 when
// the email matched nobody.
func (l *Logger) LogLoginFailure(r *http.Request, tenantID, userID int64, reason string) {
	l.Log(r.Context(), &Event{
		Type:        EventTypeAuthFailure,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		TenantID:    tenantID,
		ActorID:     userID,
		Source:      SourceFromRequest(r),
		Description: "Login refused",
		Metadata:    map[string]string{"reason": reason},
	})
}

// LogLogout records a token revoked on logout.
func (l *Logger) LogLogout(r *http.Request, tenantID, userID int64, tokenID string) {
	l.Log(r.Context(), &Event{
		Type:        EventTypeLogout,
		Outcome:     OutcomeSuccess,
		TenantID:    tenantID,
		ActorID:     userID,
		Source:      SourceFromRequest(r),
		Description: "Token revoked on logout",
		Metadata:    map[string]string{"jti": tokenID},
	})
}

// LogUserCreated records a user added by actorID.
func (l *Logger) LogUserCreated(r *http.Request, tenantID, actorID, userID int64, role string) {
	l.Log(r.Context(), &Event{
		Type:        EventTypeUserCreated,
		Outcome:     OutcomeSuccess,
		TenantID:    tenantID,
		ActorID:     actorID,
		TargetID:    userID,
		Source:      SourceFromRequest(r),
		Description: "User created",
		Metadata:    map[string]string{"role": role},
	})
}

// LogUserModified records a role or active flag change. changes maps the
// field name to its new value.
func (l *Logger) LogUserModified(r *http.Request, tenantID, actorID, userID int64, changes map[string]string) {
	l.Log(r.Context(), &Event{
		Type:        EventTypeUserModified,
		Severity:    SeverityWarning,
		Outcome:     OutcomeSuccess,
		TenantID:    tenantID,
		ActorID:     actorID,
		TargetID:    userID,
		Source:      SourceFromRequest(r),
		Description: "User modified",
		Metadata:    changes,
	})
}
