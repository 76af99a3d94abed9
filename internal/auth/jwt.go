// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tomtom215/aesthetica/internal/config"
)

// Claim names carried in the token payload.
const (
	claimUserID   = "userId"
	claimTenantID = "tenantId"
)

// Principal is the identity embedded in a token.
type Principal struct {
	UserID   int64
	TenantID int64
	IssuedAt time.Time
}

// VerifiedToken is a Principal together with the registered claims the gate needs.
type VerifiedToken struct {
	Principal
	ID        string
	ExpiresAt time.Time
}

// tokenClaims is the payload written by Issue.
type tokenClaims struct {
	UserID   int64 `json:"userId"`
	TenantID int64 `json:"tenantId"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 bearer tokens.
// Only HS256 is accepted; tokens announcing any other algorithm are rejected
// before the key is consulted.
type TokenCodec struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	maxAge   time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces time.Now. Used by tests to move across the expiry boundary.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec from the security configuration.
func NewTokenCodec(cfg *config.SecurityConfig, opts ...CodecOption) (*TokenCodec, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if cfg.JWTIssuer == "" || cfg.JWTAudience == "" {
		return nil, fmt.Errorf("JWT issuer and audience are required")
	}
	if cfg.TokenTTL <= 0 || cfg.MaxTokenAge <= 0 {
		return nil, fmt.Errorf("token TTL and max age must be positive")
	}

	c := &TokenCodec{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL,
		maxAge:   cfg.MaxTokenAge,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// TTL returns the validity window of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given user and tenant.
func (c *TokenCodec) Issue(userID, tenantID int64) (string, error) {
	if userID <= 0 || tenantID <= 0 {
		return "", ErrInvalidPrincipal
	}

	now := c.now()
	claims := tokenClaims{
		UserID:   userID,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	tokensIssued.Inc()
	return signed, nil
}

// Verify checks, in order: the pinned algorithm and signature, expiry, issuer,
// audience, the userId/tenantId claims and finally the token's age.
func (c *TokenCodec) Verify(tokenString string) (*VerifiedToken, error) {
	claims := jwt.MapClaims{}
	if _, err := c.parser.ParseWithClaims(tokenString, claims, c.keyFunc); err != nil {
		return nil, classifyParseError(err)
	}

	principal, err := principalFromClaims(claims)
	if err != nil {
		return nil, err
	}

	// Redundant with exp while maxAge equals the TTL; kept so a shorter
	// server-side window can be configured without reissuing tokens.
	if c.now().Sub(principal.IssuedAt) > c.maxAge {
		return nil, ErrTokenStale
	}

	verified := &VerifiedToken{Principal: principal}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		verified.ExpiresAt = exp.Time
	}
	if jti, ok := claims["jti"].(string); ok {
		verified.ID = jti
	}
	return verified, nil
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.secret, nil
}

// classifyParseError maps jwt library errors onto the codec's sentinels.
// Expiry wins when several claim checks fail at once.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", ErrPayloadInvalid, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}

func principalFromClaims(claims jwt.MapClaims) (Principal, error) {
	userID, ok := positiveID(claims[claimUserID])
	if !ok {
		return Principal{}, fmt.Errorf("%w: %s missing or not a positive integer", ErrPayloadInvalid, claimUserID)
	}
	tenantID, ok := positiveID(claims[claimTenantID])
	if !ok {
		return Principal{}, fmt.Errorf("%w: %s missing or not a positive integer", ErrPayloadInvalid, claimTenantID)
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return Principal{}, fmt.Errorf("%w: iat missing", ErrPayloadInvalid)
	}

	return Principal{UserID: userID, TenantID: tenantID, IssuedAt: iat.Time}, nil
}

// positiveID accepts JSON numbers that hold a positive integer.
func positiveID(v interface{}) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f < 1 || f != math.Trunc(f) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}
