// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package models

import "time"

// Tenant status and plan values.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantPlanFree        = "free"
)

// DefaultPaymentMethods are created for every new tenant.
var DefaultPaymentMethods = []PaymentMethodSeed{
	{Name: "Cash", Kind: "cash"},
	{Name: "Credit Card", Kind: "credit_card"},
	{Name: "Debit Card", Kind: "debit_card"},
	{Name: "PIX", Kind: "pix"},
}

// PaymentMethodSeed is a payment method created at signup.
type PaymentMethodSeed struct {
	Name string
	Kind string
}

// Tenant is a clinic: the unit of data isolation.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a login belonging to exactly one tenant.
type User struct {
	ID           int64      `json:"id"`
	TenantID     int64      `json:"tenant_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LoginRecord is a user joined with its tenant, as needed by login.
type LoginRecord struct {
	User
	TenantName   string
	TenantSlug   string
	TenantStatus string
}

// SignupRequest registers a new clinic and its owner.
type SignupRequest struct {
	CompanyName  string  `json:"company_name" validate:"required,max=255"`
	Name         string  `json:"name" validate:"required,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=6,max=72"`
	CompanyEmail *string `json:"company_email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	CNPJ         *string `json:"cnpj,omitempty" validate:"omitempty,cnpj"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NewTenant is what the signup transaction inserts.
type NewTenant struct {
	Name         string
	Email        string
	Phone        *string
	CNPJ         *string
	OwnerName    string
	OwnerEmail   string
	PasswordHash string
}

// SignupResult is the outcome of the signup transaction.
type SignupResult struct {
	Tenant Tenant `json:"tenant"`
	User   User   `json:"user"`
}

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	Token  string  `json:"token"`
	User   User    `json:"user"`
	Tenant *Tenant `json:"tenant,omitempty"`
}

// CreateUserRequest adds a staff or admin user to the caller's tenant.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

// UpdateUserRequest changes a user's role or active flag.
type UpdateUserRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=owner admin staff"`
	Active *bool   `json:"active,omitempty"`
}
