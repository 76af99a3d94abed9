// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	"fmt"
	"strings"
)

// Role is a user's access level within its tenant.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// AllRoles lists the known roles from most to least privileged.
var AllRoles = []Role{RoleOwner, RoleAdmin, RoleStaff}

// ParseRole normalizes s and rejects unknown roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Authorize is the role gate predicate: true iff tc's role is in allowed.
// A nil context or an empty allow-list always denies.
func Authorize(tc *TenantContext, allowed []Role) bool {
	if tc == nil {
		return false
	}
	for _, r := range allowed {
		if tc.Role == r {
			return true
		}
	}
	return false
}
