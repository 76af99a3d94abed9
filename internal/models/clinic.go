// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package models

import "time"

// Appointment status values.
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

// DefaultProcedureDuration applies when a procedure has no duration.
const DefaultProcedureDuration = 60

// Patient is a clinic client.
type Patient struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CPF       *string   `json:"cpf,omitempty"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	BirthDate *Date     `json:"birth_date,omitempty"`
	Gender    *string   `json:"gender,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientInput is the create/update body for patients.
type PatientInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	CPF       *string `json:"cpf,omitempty" validate:"omitempty,cpf"`
	CNPJ      *string `json:"cnpj,omitempty" validate:"omitempty,cnpj"`
	BirthDate *Date   `json:"birth_date,omitempty"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,max=20"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Procedure is a service the clinic offers.
type Procedure struct {
	ID              int64     `json:"id"`
	TenantID        int64     `json:"tenant_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProcedureInput is the create/update body for procedures.
type ProcedureInput struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Description     *string `json:"description,omitempty"`
	Category        *string `json:"category,omitempty" validate:"omitempty,max=100"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0,lte=1440"`
	Price           float64 `json:"price" validate:"gte=0"`
}

// Supplier provides products to the clinic.
type Supplier struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	LegalName *string   `json:"legal_name,omitempty"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierInput is the create/update body for suppliers.
type SupplierInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	LegalName *string `json:"legal_name,omitempty" validate:"omitempty,max=255"`
	CNPJ      *string `json:"cnpj,omitempty" validate:"omitempty,cnpj"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Product is an inventory item.
type Product struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	SupplierID   *int64    `json:"supplier_id,omitempty"`
	SupplierName *string   `json:"supplier_name,omitempty"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Barcode      *string   `json:"barcode,omitempty"`
	Unit         string    `json:"unit"`
	Stock        float64   `json:"stock"`
	MinStock     float64   `json:"min_stock"`
	CostPrice    *float64  `json:"cost_price,omitempty"`
	SalePrice    *float64  `json:"sale_price,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductInput is the create/update body for products.
type ProductInput struct {
	SupplierID  *int64   `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Barcode     *string  `json:"barcode,omitempty" validate:"omitempty,max=50"`
	Unit        string   `json:"unit" validate:"required,max=20"`
	Stock       float64  `json:"stock" validate:"gte=0"`
	MinStock    float64  `json:"min_stock" validate:"gte=0"`
	CostPrice   *float64 `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SalePrice   *float64 `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
}

// Appointment is a scheduled procedure for a patient.
type Appointment struct {
	ID              int64     `json:"id"`
	TenantID        int64     `json:"tenant_id"`
	PatientID       int64     `json:"patient_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	ProcedureID     int64     `json:"procedure_id"`
	ProcedureName   string    `json:"procedure_name,omitempty"`
	UserID          *int64    `json:"user_id,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AppointmentInput is the create/update body for appointments.
type AppointmentInput struct {
	PatientID       int64     `json:"patient_id" validate:"required,gt=0"`
	ProcedureID     int64     `json:"procedure_id" validate:"required,gt=0"`
	UserID          *int64    `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0,lte=1440"`
	Status          string    `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
	Notes           *string   `json:"notes,omitempty"`
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	From      *time.Time
	To        *time.Time
	Status    string
	PatientID *int64
	Page      PageRequest
}
