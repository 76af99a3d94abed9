// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tomtom215/aesthetica/internal/api/apierror"
)

// failingStore simulates an unreachable revocation backend.
type failingStore struct{}

func (failingStore) Revoke(context.Context, string) error {
	return errors.New("backend down")
}
func (failingStore) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("backend down")
}
func (failingStore) GC(context.Context) (int, error) { return 0, nil }
func (failingStore) Backend() string                 { return "failing" }
func (failingStore) Close() error                    { return nil }

type gateFixture struct {
	clock *testClock
	codec *TokenCodec
	store *MemoryRevocationStore
	gate  *Gate
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)
	store := NewMemoryRevocationStore(DefaultRevocationRetention)
	t.Cleanup(func() { _ = store.Close() })
	return &gateFixture{
		clock: clock,
		codec: codec,
		store: store,
		gate:  NewGate(codec, store, 24*time.Hour),
	}
}

// protected mounts the full gate chain in front of a handler that echoes the principal.
func (f *gateFixture) protected() http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := AuthenticatedFromContext(r.Context())
		if !ok {
			http.Error(w, "no principal", http.StatusTeapot)
			return
		}
		apierror.JSON(w, http.StatusOK, map[string]int64{
			"userId":   a.Principal.UserID,
			"tenantId": a.Principal.TenantID,
		})
	})
	return f.gate.Authenticate(f.gate.RefreshHint(TokenSubject)(final))
}

func doRequest(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierror.Body {
	t.Helper()
	var body apierror.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGate_MissingOrWrongScheme(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"bare token", token},
		{"bearer without token", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(f.protected(), tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if body := decodeError(t, rec); body.Error != apierror.KindMissingToken {
				t.Errorf("error kind = %q, want %q", body.Error, apierror.KindMissingToken)
			}
		})
	}
}

func TestGate_LogoutScenario(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	rec := doRequest(f.protected(), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status before logout = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got["userId"] != 42 || got["tenantId"] != 7 {
		t.Errorf("principal = %v, want userId 42 tenantId 7", got)
	}

	if err := f.store.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	rec = doRequest(f.protected(), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != apierror.KindRevokedToken {
		t.Errorf("error kind = %q, want %q", body.Error, apierror.KindRevokedToken)
	}

	// The codec alone still accepts the token; only the gate refuses it.
	if _, err := f.codec.Verify(token); err != nil {
		t.Errorf("Verify() after revoke error = %v, want nil", err)
	}
}

func TestGate_VerifyFailures(t *testing.T) {
	f := newGateFixture(t)

	expired, err := f.codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	now := f.clock.Now().Add(8 * 24 * time.Hour)
	stale := validClaims(now)
	stale["iat"] = now.Add(-8 * 24 * time.Hour).Unix()
	stale["exp"] = now.Add(24 * time.Hour).Unix()
	staleToken := signCustom(t, jwt.SigningMethodHS256, []byte(testSecret), stale)

	forged := signCustom(t, jwt.SigningMethodHS256, []byte("an_attacker_secret_that_is_long_enough"), validClaims(now))

	f.clock.Advance(8 * 24 * time.Hour)

	tests := []struct {
		name        string
		token       string
		wantMessage string
	}{
		{"expired", expired, "Token expired. Please log in again."},
		{"stale", staleToken, "Invalid or expired token."},
		{"wrong signature", forged, "Token malformed or invalid."},
		{"garbage", "abc.def.ghi", "Token malformed or invalid."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(f.protected(), "Bearer "+tt.token)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
			body := decodeError(t, rec)
			if body.Error != apierror.KindAuthFailed {
				t.Errorf("error kind = %q, want %q", body.Error, apierror.KindAuthFailed)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestGate_StoreErrorFailsClosed(t *testing.T) {
	clock := &testClock{t: time.Now()}
	codec := newTestCodec(t, clock)
	gate := NewGate(codec, failingStore{}, 24*time.Hour)

	token, err := codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	reached := false
	h := gate.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true }))
	rec := doRequest(h, "Bearer "+token)

	if reached {
		t.Error("handler must not run when the revocation store fails")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != apierror.KindInternal {
		t.Errorf("error kind = %q, want %q", body.Error, apierror.KindInternal)
	}
}

func TestGate_RefreshHint(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    time.Duration
		wantHeader bool
	}{
		{"fresh token", time.Hour, false},
		{"three days left", 4 * 24 * time.Hour, false},
		{"twelve hours left", 6*24*time.Hour + 12*time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			token, err := f.codec.Issue(42, 7)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			f.clock.Advance(tt.elapsed)

			rec := doRequest(f.protected(), "Bearer "+token)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			fresh := rec.Header().Get(RefreshHeader)
			if (fresh != "") != tt.wantHeader {
				t.Fatalf("%s present = %v, want %v", RefreshHeader, fresh != "", tt.wantHeader)
			}
			if !tt.wantHeader {
				return
			}

			verified, err := f.codec.Verify(fresh)
			if err != nil {
				t.Fatalf("Verify(refresh token) error = %v", err)
			}
			if verified.UserID != 42 || verified.TenantID != 7 {
				t.Errorf("refresh principal = %+v, want {42, 7}", verified.Principal)
			}
			if !verified.ExpiresAt.Equal(f.clock.Now().Add(7 * 24 * time.Hour)) {
				t.Errorf("refresh ExpiresAt = %v, want a full 7 days", verified.ExpiresAt)
			}

			// The original token keeps working.
			if rec := doRequest(f.protected(), "Bearer "+token); rec.Code != http.StatusOK {
				t.Errorf("original token status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestGate_RefreshHintSubject(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	f.clock.Advance(6*24*time.Hour + 12*time.Hour)

	final := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	stored := func(context.Context) (Principal, bool) { return Principal{UserID: 42, TenantID: 9}, true }
	rec := doRequest(f.gate.Authenticate(f.gate.RefreshHint(stored)(final)), "Bearer "+token)
	verified, err := f.codec.Verify(rec.Header().Get(RefreshHeader))
	if err != nil {
		t.Fatalf("Verify(refresh token) error = %v", err)
	}
	if verified.TenantID != 9 {
		t.Errorf("refresh tenant = %d, want the subject's 9", verified.TenantID)
	}

	none := func(context.Context) (Principal, bool) { return Principal{}, false }
	rec = doRequest(f.gate.Authenticate(f.gate.RefreshHint(none)(final)), "Bearer "+token)
	if rec.Header().Get(RefreshHeader) != "" {
		t.Error("refresh issued without a subject")
	}
}

func TestGate_RefreshFailureDoesNotFailRequest(t *testing.T) {
	f := newGateFixture(t)
	f.gate.issue = func(int64, int64) (string, error) {
		return "", errors.New("signing unavailable")
	}

	token, err := f.codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	f.clock.Advance(6*24*time.Hour + 20*time.Hour)

	rec := doRequest(f.protected(), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(RefreshHeader) != "" {
		t.Error("no refresh header expected when issuing fails")
	}
}

func TestGate_Evaluate(t *testing.T) {
	f := newGateFixture(t)
	token, err := f.codec.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)

	a, denial := f.gate.Evaluate(req)
	if denial != nil {
		t.Fatalf("Evaluate() denial = %+v", denial)
	}
	if a.Token != token || a.TokenID == "" {
		t.Errorf("Authenticated = %+v, want token and id populated", a)
	}
	if BearerToken(req) != token {
		t.Error("BearerToken() must accept a lowercase scheme")
	}
}
