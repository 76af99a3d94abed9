// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package authz resolves the tenant and role of an authenticated request and
// gates routes by role.
//
// # Request flow
//
//	Request -> auth.Gate -> Resolver.Attach -> RequireRole -> Handler
//	             |               |                  |
//	         identity      tenant + role       allow-list
//	                     (credential store)
//
// The resolver reads the user's tenant and role from the CredentialStore on
// every request. Changing a user's role or disabling it takes effect on the
// next request, without waiting for the token to expire.
//
// # Route policy
//
// Allow-lists come from a Casbin policy with role inheritance:
//
//	g, owner, admin
//	g, admin, staff
//	p, staff, patients, read
//	p, admin, patients, delete
//
// Policy.Require expands the policy into a fixed []Role once, when the router
// is built. The role gate itself is the pure predicate Authorize.
package authz
