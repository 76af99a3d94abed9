// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package authz

import "errors"

var (
	// ErrUnauthenticated means the request reached the resolver without
	// passing the authentication gate.
	ErrUnauthenticated = errors.New("request is not authenticated")

	// ErrUnknownUser is returned by a CredentialStore when the user id has no row.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUserDisabled is returned when the user or its tenant is inactive.
	ErrUserDisabled = errors.New("user disabled")

	// ErrResolverFailed wraps credential store failures.
	ErrResolverFailed = errors.New("tenant resolution failed")

	// ErrInvalidRole is returned by ParseRole.
	ErrInvalidRole = errors.New("invalid role")
)
