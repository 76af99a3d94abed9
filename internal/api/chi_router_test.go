// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/middleware"
	"github.com/tomtom215/aesthetica/internal/models"
)

func TestRouter_AuthenticationGate(t *testing.T) {
	env := newTestEnv(t)
	valid := env.login(t, 1, 10, authz.RoleStaff)

	revoked := env.login(t, 2, 10, authz.RoleStaff)
	if err := env.revocations.Revoke(context.Background(), revoked); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	orphan, err := env.codec.Issue(99, 10)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantKind   apierror.Kind
	}{
		{"missing token", "", http.StatusUnauthorized, apierror.KindMissingToken},
		{"revoked token", revoked, http.StatusUnauthorized, apierror.KindRevokedToken},
		{"garbage token", "not-a-jwt", http.StatusForbidden, apierror.KindAuthFailed},
		{"unknown user", orphan, http.StatusNotFound, apierror.KindUnknownUser},
		{"valid token", valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/patients", tt.token, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantKind != "" {
				if body := decodeError(t, rec); body.Error != tt.wantKind {
					t.Errorf("kind = %s, want %s", body.Error, tt.wantKind)
				}
			}
		})
	}
}

func TestRouter_DisabledUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, 1, 10, authz.RoleAdmin)
	env.store.setRole(1, 10, authz.RoleAdmin, false)

	rec := env.do(http.MethodGet, "/api/patients", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != apierror.KindAccountDisabled {
		t.Errorf("kind = %s, want AccountDisabled", body.Error)
	}
}

func TestRouter_ResolverStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, 1, 10, authz.RoleOwner)
	env.store.lookupErr = errors.New("connection reset")

	rec := env.do(http.MethodGet, "/api/dashboard", token, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != apierror.KindResolverError {
		t.Errorf("kind = %s, want ResolverError", body.Error)
	}
}

func TestRouter_RoleGate(t *testing.T) {
	env := newTestEnv(t)
	staff := env.login(t, 1, 10, authz.RoleStaff)
	admin := env.login(t, 2, 10, authz.RoleAdmin)
	owner := env.login(t, 3, 10, authz.RoleOwner)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{"staff reads patients", http.MethodGet, "/api/patients", staff, "", http.StatusOK},
		{"staff denied finance", http.MethodGet, "/api/finance/receivables", staff, "", http.StatusForbidden},
		{"admin reads finance", http.MethodGet, "/api/finance/receivables", admin, "", http.StatusOK},
		{"owner inherits finance", http.MethodGet, "/api/finance/receivables", owner, "", http.StatusOK},
		{"staff denied patient delete", http.MethodDelete, "/api/patients/5", staff, "", http.StatusForbidden},
		{"admin denied user update", http.MethodPut, "/api/users/1", admin, `{"role":"admin"}`, http.StatusForbidden},
		{"owner updates user", http.MethodPut, "/api/users/1", owner, `{"role":"admin"}`, http.StatusOK},
		{"staff denied procedure write", http.MethodPost, "/api/procedures", staff, `{"name":"Peel","price":100}`, http.StatusForbidden},
		{"staff denied audit", http.MethodGet, "/api/audit", staff, "", http.StatusForbidden},
		{"admin reads audit", http.MethodGet, "/api/audit", admin, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusForbidden {
				if body := decodeError(t, rec); body.Error != apierror.KindInsufficientRole {
					t.Errorf("kind = %s, want InsufficientRole", body.Error)
				}
			}
		})
	}
}

func TestRouter_RoleChangeAppliesToNextRequest(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login(t, 1, 10, authz.RoleOwner)
	admin := env.login(t, 2, 10, authz.RoleAdmin)

	if rec := env.do(http.MethodGet, "/api/finance/receivables", admin, ""); rec.Code != http.StatusOK {
		t.Fatalf("before demotion: status = %d, want 200", rec.Code)
	}

	rec := env.do(http.MethodPut, "/api/users/2", owner, `{"role":"staff"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("demote: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Same token, new role.
	if rec := env.do(http.MethodGet, "/api/finance/receivables", admin, ""); rec.Code != http.StatusForbidden {
		t.Errorf("after demotion: status = %d, want 403", rec.Code)
	}
}

func TestRouter_OwnerCannotDemoteSelf(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login(t, 1, 10, authz.RoleOwner)

	rec := env.do(http.MethodPut, "/api/users/1", owner, `{"active":false}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRouter_SignupLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	signup := `{"company_name":"Clínica Bela","name":"Ana","email":"ana@bela.test","password":"s3cret!"}`
	rec := env.do(http.MethodPost, "/api/auth/signup", "", signup)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.AuthResponse
	decodeData(t, rec, &created)
	if created.Token == "" || created.Tenant == nil || created.Tenant.Slug != "clinica-bela" {
		t.Fatalf("signup response = %+v", created)
	}
	if created.User.Role != string(authz.RoleOwner) {
		t.Errorf("owner role = %s", created.User.Role)
	}

	if rec := env.do(http.MethodPost, "/api/auth/signup", "", signup); rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup: status = %d, want 409", rec.Code)
	}

	rec = env.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@bela.test","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Error != apierror.KindInvalidCredentials {
		t.Fatalf("wrong password: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPost, "/api/auth/login", "", `{"email":"nobody@bela.test","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Error != apierror.KindInvalidCredentials {
		t.Fatalf("unknown email: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@bela.test","password":"s3cret!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var loggedIn models.AuthResponse
	decodeData(t, rec, &loggedIn)

	rec = env.do(http.MethodGet, "/api/auth/me", loggedIn.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d, body %s", rec.Code, rec.Body.String())
	}

	if rec := env.do(http.MethodPost, "/api/auth/logout", loggedIn.Token, ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", rec.Code)
	}
	rec = env.do(http.MethodGet, "/api/auth/me", loggedIn.Token, "")
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Error != apierror.KindRevokedToken {
		t.Errorf("after logout: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// The signup token is a different token and still works.
	if rec := env.do(http.MethodGet, "/api/auth/me", created.Token, ""); rec.Code != http.StatusOK {
		t.Errorf("signup token after logout: status = %d", rec.Code)
	}
}

func TestRouter_LoginDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/auth/signup", "", `{"company_name":"Clinic","name":"Bo","email":"bo@c.test","password":"s3cret!"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status = %d", rec.Code)
	}

	env.store.mu.Lock()
	record := env.store.logins["bo@c.test"]
	record.TenantStatus = models.TenantStatusSuspended
	env.store.logins["bo@c.test"] = record
	env.store.mu.Unlock()

	rec = env.do(http.MethodPost, "/api/auth/login", "", `{"email":"bo@c.test","password":"s3cret!"}`)
	if rec.Code != http.StatusForbidden || decodeError(t, rec).Error != apierror.KindAccountDisabled {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Refresh(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, 1, 10, authz.RoleStaff)

	rec := env.do(http.MethodPost, "/api/auth/refresh", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	decodeData(t, rec, &out)
	verified, err := env.codec.Verify(out["token"])
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if verified.UserID != 1 || verified.TenantID != 10 {
		t.Errorf("principal = %+v", verified.Principal)
	}
}

// agedToken issues a token for userID that expires in twelve hours, inside
// the refresh window.
func (e *testEnv) agedToken(t *testing.T, userID, tenantID int64) string {
	t.Helper()
	issuedAt := time.Now().Add(-(6*24 + 12) * time.Hour)
	codec, err := auth.NewTokenCodec(&testConfig().Security, auth.WithClock(func() time.Time { return issuedAt }))
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	token, err := codec.Issue(userID, tenantID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestRouter_RefreshHint(t *testing.T) {
	env := newTestEnv(t)

	// Stored tenant 10 wins over the tenant 99 in the token.
	env.store.setRole(1, 10, authz.RoleStaff, true)
	rec := env.do(http.MethodGet, "/api/patients", env.agedToken(t, 1, 99), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("active user: status = %d, body %s", rec.Code, rec.Body.String())
	}
	verified, err := env.codec.Verify(rec.Header().Get(auth.RefreshHeader))
	if err != nil {
		t.Fatalf("refresh token does not verify: %v", err)
	}
	if verified.UserID != 1 || verified.TenantID != 10 {
		t.Errorf("refresh principal = %+v, want {1, 10}", verified.Principal)
	}

	env.store.setRole(2, 10, authz.RoleStaff, false)
	tests := []struct {
		name       string
		userID     int64
		wantStatus int
	}{
		{"disabled user", 2, http.StatusForbidden},
		{"unknown user", 3, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/patients", env.agedToken(t, tt.userID, 10), "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if fresh := rec.Header().Get(auth.RefreshHeader); fresh != "" {
				t.Errorf("%s issued on a denied request", auth.RefreshHeader)
			}
		})
	}
}

func TestRouter_CreatePatientAndVisit(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, 1, 10, authz.RoleStaff)

	rec := env.do(http.MethodPost, "/api/patients", token, `{"name":"Maria"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create patient: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var patient models.Patient
	decodeData(t, rec, &patient)
	if patient.TenantID != 10 {
		t.Errorf("patient tenant = %d, want 10", patient.TenantID)
	}

	rec = env.do(http.MethodPost, "/api/patients", token, `{"email":"not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid patient: status = %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != apierror.KindValidation || body.Details["name"] == "" {
		t.Errorf("validation body = %+v", body)
	}

	visit := `{"patient_id":` + itoa(patient.ID) + `,"procedure_id":3,"total":300,"payments":[{"amount":300,"installments":3}]}`
	rec = env.do(http.MethodPost, "/api/visits", token, visit)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create visit: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result models.VisitResult
	decodeData(t, rec, &result)
	if result.Received != 100 || result.OutstandingBalance != 200 {
		t.Errorf("received = %v, outstanding = %v", result.Received, result.OutstandingBalance)
	}
	if result.Visit.UserID == nil || *result.Visit.UserID != 1 {
		t.Errorf("visit user = %v, want 1", result.Visit.UserID)
	}

	rec = env.do(http.MethodPost, "/api/visits", token, `{"patient_id":9999,"procedure_id":3,"total":10}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown patient: status = %d, want 404", rec.Code)
	}
}

func TestRouter_TenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	a := env.login(t, 1, 10, authz.RoleOwner)
	b := env.login(t, 2, 20, authz.RoleOwner)

	rec := env.do(http.MethodPost, "/api/patients", a, `{"name":"Only A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", rec.Code)
	}
	var patient models.Patient
	decodeData(t, rec, &patient)

	if rec := env.do(http.MethodGet, "/api/patients/"+itoa(patient.ID), b, ""); rec.Code != http.StatusNotFound {
		t.Errorf("other tenant read: status = %d, want 404", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/api/patients/"+itoa(patient.ID), a, ""); rec.Code != http.StatusOK {
		t.Errorf("own tenant read: status = %d, want 200", rec.Code)
	}
}

func TestRouter_DashboardCache(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, 1, 10, authz.RoleStaff)

	first := env.do(http.MethodGet, "/api/dashboard", token, "")
	if first.Code != http.StatusOK || first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first: status = %d, X-Cache = %q", first.Code, first.Header().Get("X-Cache"))
	}
	second := env.do(http.MethodGet, "/api/dashboard", token, "")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second: X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}

	rec := env.do(http.MethodPost, "/api/patients", token, `{"name":"New"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", rec.Code)
	}
	var patient models.Patient
	decodeData(t, rec, &patient)

	third := env.do(http.MethodGet, "/api/dashboard", token, "")
	if third.Header().Get("X-Cache") != "MISS" {
		t.Errorf("after write: X-Cache = %q, want MISS", third.Header().Get("X-Cache"))
	}
	var d models.Dashboard
	decodeData(t, third, &d)
	if d.ActivePatients != 1 {
		t.Errorf("active patients = %d, want 1", d.ActivePatients)
	}
	if env.store.dashboardCalls != 2 {
		t.Errorf("dashboard computed %d times, want 2", env.store.dashboardCalls)
	}

	if rec := env.do(http.MethodGet, "/api/dashboard", token, ""); rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("before update: X-Cache = %q, want HIT", rec.Header().Get("X-Cache"))
	}
	if rec := env.do(http.MethodPut, "/api/patients/"+itoa(patient.ID), token, `{"name":"Renamed"}`); rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(http.MethodGet, "/api/dashboard", token, ""); rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("after update: X-Cache = %q, want MISS", rec.Header().Get("X-Cache"))
	}
	if env.store.dashboardCalls != 3 {
		t.Errorf("dashboard computed %d times, want 3", env.store.dashboardCalls)
	}
}

func TestRouter_UserWritesInvalidateDashboard(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login(t, 1, 10, authz.RoleOwner)
	env.login(t, 2, 10, authz.RoleStaff)

	if rec := env.do(http.MethodGet, "/api/dashboard", owner, ""); rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first: X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if rec := env.do(http.MethodPut, "/api/users/2", owner, `{"active":false}`); rec.Code != http.StatusOK {
		t.Fatalf("update user: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(http.MethodGet, "/api/dashboard", owner, ""); rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("after user update: X-Cache = %q, want MISS", rec.Header().Get("X-Cache"))
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/nope", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown /api route without token: status = %d, want 401", rec.Code)
	}

	rec = env.do(http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Error != apierror.KindNotFound {
		t.Errorf("unknown route: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/auth/login", "", "")
	if rec.Code != http.StatusMethodNotAllowed || decodeError(t, rec).Error != apierror.KindMethodNotAllowed {
		t.Errorf("wrong method: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GlobalHeaders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/health/live", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestRouter_CORS(t *testing.T) {
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://app.example.test"}
	handler := NewHandler(HandlerDeps{Store: newFakeStore(), Config: cfg})
	codec, err := auth.NewTokenCodec(&cfg.Security)
	if err != nil {
		t.Fatal(err)
	}
	policy, err := authz.NewPolicy(authz.PolicyConfig{})
	if err != nil {
		t.Fatal(err)
	}
	revocations := auth.NewMemoryRevocationStore(0)
	defer revocations.Close()
	router := NewRouter(handler, auth.NewGate(codec, revocations, 0), authz.NewResolver(newFakeStore()), policy, cfg).Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/patients", nil)
	req.Header.Set("Origin", "https://app.example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.test" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/patients", nil)
	req.Header.Set("Origin", "https://evil.example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
