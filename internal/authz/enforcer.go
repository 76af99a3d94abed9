// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/tomtom215/aesthetica/internal/logging"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Action is a policy verb.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// PolicyConfig selects the casbin model and policy. Empty paths use the
// embedded defaults.
type PolicyConfig struct {
	ModelPath  string
	PolicyPath string
}

// Policy answers which roles may perform an action on a resource. Role
// inheritance (owner > admin > staff) lives in the policy's g rules.
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy loads the route policy.
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	var (
		m   model.Model
		err error
	)
	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" && fileExists(cfg.PolicyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses policy CSV lines into the enforcer.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Allows reports whether role may perform action on resource.
func (p *Policy) Allows(role Role, resource string, action Action) (bool, error) {
	allowed, err := p.enforcer.Enforce(string(role), resource, string(action))
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// AllowedRoles expands the policy into the allow-list for one route. An
// enforcement error yields an empty list, which denies everyone.
func (p *Policy) AllowedRoles(resource string, action Action) []Role {
	var allowed []Role
	for _, role := range AllRoles {
		ok, err := p.Allows(role, resource, action)
		if err != nil {
			logging.Error().Err(err).
				Str("resource", resource).
				Str("action", string(action)).
				Msg("Policy evaluation failed; route denies all roles")
			return nil
		}
		if ok {
			allowed = append(allowed, role)
		}
	}
	return allowed
}

// Rules returns the direct permission rules, for diagnostics.
func (p *Policy) Rules() [][]string {
	//nolint:errcheck // GetPolicy only fails on a nil model
	rules, _ := p.enforcer.GetPolicy()
	return rules
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
