// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/aesthetica/internal/api/apierror"
	"github.com/tomtom215/aesthetica/internal/audit"
	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/cache"
	"github.com/tomtom215/aesthetica/internal/config"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/models"
)

// fakeStore is an in-memory Store. Methods a test does not override fall
// through to the nil embedded interface and panic, which the recoverer turns
// into a 500.
type fakeStore struct {
	Store

	mu             sync.Mutex
	roles          map[int64]authz.UserRole
	logins         map[string]models.LoginRecord
	patients       map[int64]models.Patient
	nextID         int64
	dashboardCalls int
	visits         []models.VisitInput
	pingErr        error
	lookupErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roles:    make(map[int64]authz.UserRole),
		logins:   make(map[string]models.LoginRecord),
		patients: make(map[int64]models.Patient),
		nextID:   100,
	}
}

func (f *fakeStore) setRole(userID, tenantID int64, role authz.Role, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = authz.UserRole{TenantID: tenantID, Role: role, Active: active}
}

func (f *fakeStore) LookupUserRole(_ context.Context, userID int64) (authz.UserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return authz.UserRole{}, f.lookupErr
	}
	ur, ok := f.roles[userID]
	if !ok {
		return authz.UserRole{}, authz.ErrUnknownUser
	}
	return ur, nil
}

func (f *fakeStore) Signup(_ context.Context, in models.NewTenant) (models.SignupResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.logins[in.OwnerEmail]; exists {
		return models.SignupResult{}, database.ErrDuplicate
	}
	f.nextID++
	tenant := models.Tenant{ID: f.nextID, Name: in.Name, Slug: database.Slugify(in.Name), Email: in.Email, Status: models.TenantStatusActive}
	f.nextID++
	user := models.User{ID: f.nextID, TenantID: tenant.ID, Name: in.OwnerName, Email: in.OwnerEmail,
		PasswordHash: in.PasswordHash, Role: string(authz.RoleOwner), Active: true}
	f.logins[in.OwnerEmail] = models.LoginRecord{User: user, TenantName: tenant.Name, TenantSlug: tenant.Slug, TenantStatus: tenant.Status}
	f.roles[user.ID] = authz.UserRole{TenantID: tenant.ID, Role: authz.RoleOwner, Active: true}
	return models.SignupResult{Tenant: tenant, User: user}, nil
}

func (f *fakeStore) FindLoginByEmail(_ context.Context, email string) (models.LoginRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.logins[email]
	if !ok {
		return models.LoginRecord{}, database.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) UpdateLastLogin(context.Context, int64) error { return nil }

func (f *fakeStore) GetUser(_ context.Context, tenantID, userID int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.logins {
		if rec.ID == userID && rec.TenantID == tenantID {
			return rec.User, nil
		}
	}
	return models.User{}, database.ErrNotFound
}

func (f *fakeStore) GetTenant(_ context.Context, tenantID int64) (models.Tenant, error) {
	return models.Tenant{ID: tenantID, Name: "Clinic", Status: models.TenantStatusActive}, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, tenantID, userID int64, role *authz.Role, active *bool) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ur, ok := f.roles[userID]
	if !ok || ur.TenantID != tenantID {
		return models.User{}, database.ErrNotFound
	}
	if role != nil {
		ur.Role = *role
	}
	if active != nil {
		ur.Active = *active
	}
	f.roles[userID] = ur
	return models.User{ID: userID, TenantID: tenantID, Role: string(ur.Role), Active: ur.Active}, nil
}

func (f *fakeStore) ListPatients(_ context.Context, tenantID int64, _ string, page models.PageRequest) (models.Page[models.Patient], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.Patient
	for _, p := range f.patients {
		if p.TenantID == tenantID {
			items = append(items, p)
		}
	}
	return models.Page[models.Patient]{Items: items, Pagination: models.NewPagination(page, int64(len(items)))}, nil
}

func (f *fakeStore) GetPatient(_ context.Context, tenantID, id int64) (models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok || p.TenantID != tenantID {
		return models.Patient{}, database.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) CreatePatient(_ context.Context, tenantID int64, in models.PatientInput) (models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := models.Patient{ID: f.nextID, TenantID: tenantID, Name: in.Name, Email: in.Email, Active: true}
	f.patients[p.ID] = p
	return p, nil
}

func (f *fakeStore) UpdatePatient(_ context.Context, tenantID, id int64, in models.PatientInput) (models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok || p.TenantID != tenantID {
		return models.Patient{}, database.ErrNotFound
	}
	p.Name, p.Email = in.Name, in.Email
	f.patients[id] = p
	return p, nil
}

func (f *fakeStore) ListReceivables(_ context.Context, _ int64, filter models.FinanceFilter) (models.Page[models.Receivable], error) {
	return models.Page[models.Receivable]{Pagination: models.NewPagination(filter.Page, 0)}, nil
}

func (f *fakeStore) CreateVisit(_ context.Context, tenantID, userID int64, in models.VisitInput) (models.VisitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.patients[in.PatientID]; !ok || p.TenantID != tenantID {
		return models.VisitResult{}, database.ErrNotFound
	}
	f.visits = append(f.visits, in)
	received := 0.0
	for _, line := range in.Payments {
		received += models.ReceivedNow(line)
	}
	received = models.RoundCents(received)
	f.nextID++
	return models.VisitResult{
		Visit:              models.Visit{ID: f.nextID, TenantID: tenantID, PatientID: in.PatientID, ProcedureID: in.ProcedureID, UserID: &userID, Total: in.Total},
		Received:           received,
		OutstandingBalance: models.RoundCents(in.Total - received),
	}, nil
}

func (f *fakeStore) Dashboard(_ context.Context, tenantID int64) (models.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboardCalls++
	active := 0
	for _, p := range f.patients {
		if p.TenantID == tenantID && p.Active {
			active++
		}
	}
	return models.Dashboard{ActivePatients: int64(active), GeneratedAt: time.Now().UTC()}, nil
}

func (f *fakeStore) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeStore) Stats() database.PoolStats {
	return database.PoolStats{TotalConns: 2, IdleConns: 1, AcquiredConns: 1, MaxConns: 10}
}

// testEnv is a fully wired router over a fakeStore.
type testEnv struct {
	store       *fakeStore
	codec       *auth.TokenCodec
	revocations *auth.MemoryRevocationStore
	cache       *cache.Cache
	audit       *audit.Logger
	router      http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test", MaxBodyBytes: 1 << 20},
		Security: config.SecurityConfig{
			JWTSecret:     "test-secret-that-is-long-enough-for-hs256",
			JWTIssuer:     "aesthetica",
			JWTAudience:   "aesthetica-api",
			TokenTTL:      7 * 24 * time.Hour,
			MaxTokenAge:   30 * 24 * time.Hour,
			RefreshWindow: 24 * time.Hour,
			BcryptCost:    bcrypt.MinCost,
		},
		RateLimit: config.RateLimitConfig{Disabled: true},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	codec, err := auth.NewTokenCodec(&cfg.Security)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	policy, err := authz.NewPolicy(authz.PolicyConfig{})
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}

	store := newFakeStore()
	revocations := auth.NewMemoryRevocationStore(cfg.Security.TokenTTL)
	t.Cleanup(func() { _ = revocations.Close() })
	c := cache.New(time.Minute)
	auditLog := audit.NewLogger(audit.NewMemoryStore(100), audit.DefaultConfig())

	handler := NewHandler(HandlerDeps{
		Store:       store,
		Codec:       codec,
		Revocations: revocations,
		Cache:       c,
		Audit:       auditLog,
		Config:      cfg,
		Version:     "test",
	})
	gate := auth.NewGate(codec, revocations, cfg.Security.RefreshWindow)
	router := NewRouter(handler, gate, authz.NewResolver(store), policy, cfg)

	return &testEnv{store: store, codec: codec, revocations: revocations, cache: c, audit: auditLog, router: router.Setup()}
}

// login registers a user with a role and returns a bearer token for it.
func (e *testEnv) login(t *testing.T, userID, tenantID int64, role authz.Role) string {
	t.Helper()
	e.store.setRole(userID, tenantID, role, true)
	token, err := e.codec.Issue(userID, tenantID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
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

// decodeData unmarshals the data field of the success envelope into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", envelope.Data, err)
	}
}
