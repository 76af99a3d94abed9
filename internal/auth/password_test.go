// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, want a bcrypt hash", hash)
	}

	if err := h.Verify(hash, "s3cret!"); err != nil {
		t.Errorf("Verify(correct) = %v", err)
	}
	if err := h.Verify(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify(wrong) = %v, want ErrPasswordMismatch", err)
	}
	if err := h.Verify("not-a-hash", "s3cret!"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify(corrupt hash) = %v, want a hash error", err)
	}

	// Must not panic and must be repeatable.
	h.VerifyDummy("anything")
	h.VerifyDummy("anything")
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	tests := []struct {
		cost, want int
	}{
		{0, bcrypt.DefaultCost},
		{2, bcrypt.DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{12, 12},
		{99, bcrypt.DefaultCost},
	}
	for _, tt := range tests {
		if got := NewPasswordHasher(tt.cost).cost; got != tt.want {
			t.Errorf("NewPasswordHasher(%d).cost = %d, want %d", tt.cost, got, tt.want)
		}
	}
}
