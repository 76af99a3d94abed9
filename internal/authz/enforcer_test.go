// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func setupPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(PolicyConfig{})
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}
	return p
}

func TestPolicy_AllowedRoles(t *testing.T) {
	p := setupPolicy(t)

	all := []Role{RoleOwner, RoleAdmin, RoleStaff}
	adminUp := []Role{RoleOwner, RoleAdmin}
	ownerOnly := []Role{RoleOwner}

	tests := []struct {
		resource string
		action   Action
		want     []Role
	}{
		{"patients", ActionRead, all},
		{"patients", ActionWrite, all},
		{"patients", ActionDelete, adminUp},
		{"procedures", ActionRead, all},
		{"procedures", ActionWrite, adminUp},
		{"suppliers", ActionDelete, adminUp},
		{"products", ActionWrite, adminUp},
		{"appointments", ActionDelete, all},
		{"visits", ActionWrite, all},
		{"visits", ActionDelete, nil},
		{"finance", ActionRead, adminUp},
		{"finance", ActionWrite, adminUp},
		{"dashboard", ActionRead, all},
		{"dashboard", ActionWrite, nil},
		{"users", ActionRead, adminUp},
		{"users", ActionWrite, ownerOnly},
		{"audit", ActionRead, adminUp},
		{"audit", ActionWrite, nil},
		{"unknown", ActionRead, nil},
	}

	for _, tt := range tests {
		t.Run(tt.resource+"/"+string(tt.action), func(t *testing.T) {
			got := p.AllowedRoles(tt.resource, tt.action)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllowedRoles(%s, %s) = %v, want %v", tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

func TestPolicy_UnknownRoleDenied(t *testing.T) {
	p := setupPolicy(t)

	ok, err := p.Allows(Role("usuario"), "patients", ActionRead)
	if err != nil {
		t.Fatalf("Allows() error = %v", err)
	}
	if ok {
		t.Error("a role outside the hierarchy must not inherit permissions")
	}
}

func TestPolicy_FromFiles(t *testing.T) {
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.csv")
	content := "p, staff, patients, read\ng, admin, staff\n"
	if err := os.WriteFile(policyPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	p, err := NewPolicy(PolicyConfig{PolicyPath: policyPath})
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}

	got := p.AllowedRoles("patients", ActionRead)
	want := []Role{RoleAdmin, RoleStaff}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedRoles() = %v, want %v (owner is not linked in this policy)", got, want)
	}
	if len(p.Rules()) != 1 {
		t.Errorf("Rules() = %v, want 1 rule", p.Rules())
	}
}

func TestLoadEmbeddedPolicy_Malformed(t *testing.T) {
	p := setupPolicy(t)
	if err := loadEmbeddedPolicy(p.enforcer, "p, staff, patients\n"); err == nil {
		t.Error("expected error for a p line with too few fields")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"owner", RoleOwner, false},
		{" Admin ", RoleAdmin, false},
		{"STAFF", RoleStaff, false},
		{"superuser", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	staff := &TenantContext{UserID: 1, TenantID: 7, Role: RoleStaff}

	tests := []struct {
		name    string
		tc      *TenantContext
		allowed []Role
		want    bool
	}{
		{"member", staff, []Role{RoleAdmin, RoleStaff}, true},
		{"not member", staff, []Role{RoleOwner, RoleAdmin}, false},
		{"empty list", staff, nil, false},
		{"empty list for owner", &TenantContext{Role: RoleOwner}, []Role{}, false},
		{"nil context", nil, []Role{RoleStaff}, false},
		{"unknown role", &TenantContext{Role: "usuario"}, AllRoles, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.tc, tt.allowed); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}
