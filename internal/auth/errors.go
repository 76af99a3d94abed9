// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Token issuance and verification errors. Verify always returns an error
// matching exactly one of the verification sentinels under errors.Is.
var (
	// ErrInvalidPrincipal is returned by Issue when the user or tenant id is missing.
	ErrInvalidPrincipal = errors.New("invalid principal: user id and tenant id are required")

	// ErrTokenExpired means the encoded exp is in the past.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed covers structural problems, bad signatures, a pinned
	// algorithm mismatch and issuer/audience mismatches.
	ErrTokenMalformed = errors.New("token malformed or invalid")

	// ErrTokenStale means the token is older than the maximum age even though exp is valid.
	ErrTokenStale = errors.New("token issued too long ago")

	// ErrPayloadInvalid means required claims are absent or have the wrong type.
	ErrPayloadInvalid = errors.New("token payload invalid")
)

// Revocation store errors.
var (
	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("revocation store is closed")

	// ErrEmptyToken is returned when revoking or checking an empty token.
	ErrEmptyToken = errors.New("empty token")
)

// tokenErrors are the verification sentinels plus the jwt library errors that
// can escape a handler that parses tokens itself.
var tokenErrors = []error{
	ErrTokenExpired,
	ErrTokenMalformed,
	ErrTokenStale,
	ErrPayloadInvalid,
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrSignatureInvalid,
	jwt.ErrTokenExpired,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidClaims,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenInvalidSubject,
	jwt.ErrTokenInvalidId,
}

// IsTokenError reports whether err is a token verification failure. Such
// errors map to 403 AuthFailed wherever they surface.
func IsTokenError(err error) bool {
	for _, target := range tokenErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
