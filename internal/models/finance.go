// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package models

import (
	"math"
	"time"
)

// Settlement status values shared by receivables, payables and installments.
const (
	StatusPending   = "pending"
	StatusPartial   = "partial"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// OutstandingDueDays is how long after a visit its outstanding balance is due.
const OutstandingDueDays = 30

// PaymentMethod is how money moves (cash, card, PIX).
type PaymentMethod struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Visit is a performed procedure and its billing total.
type Visit struct {
	ID            int64     `json:"id"`
	TenantID      int64     `json:"tenant_id"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	PatientID     int64     `json:"patient_id"`
	PatientName   string    `json:"patient_name,omitempty"`
	ProcedureID   int64     `json:"procedure_id"`
	ProcedureName string    `json:"procedure_name,omitempty"`
	UserID        *int64    `json:"user_id,omitempty"`
	PerformedAt   time.Time `json:"performed_at"`
	Total         float64   `json:"total"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentLine is one payment taken at visit time.
type PaymentLine struct {
	PaymentMethodID *int64  `json:"payment_method_id,omitempty" validate:"omitempty,gt=0"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	Installments    int     `json:"installments" validate:"gte=0,lte=48"`
}

// VisitFilter narrows visit listings.
type VisitFilter struct {
	From      *time.Time
	To        *time.Time
	PatientID *int64
	Page      PageRequest
}

// VisitInput registers a visit with its payments.
type VisitInput struct {
	AppointmentID *int64        `json:"appointment_id,omitempty" validate:"omitempty,gt=0"`
	PatientID     int64         `json:"patient_id" validate:"required,gt=0"`
	ProcedureID   int64         `json:"procedure_id" validate:"required,gt=0"`
	PerformedAt   *time.Time    `json:"performed_at,omitempty"`
	Total         float64       `json:"total" validate:"gte=0"`
	Notes         *string       `json:"notes,omitempty"`
	Payments      []PaymentLine `json:"payments" validate:"omitempty,dive"`
}

// VisitResult reports what was recorded for a new visit.
type VisitResult struct {
	Visit              Visit         `json:"visit"`
	Received           float64       `json:"received"`
	OutstandingBalance float64       `json:"outstanding_balance"`
	Installments       []Installment `json:"installments,omitempty"`
	Receivables        []Receivable  `json:"receivables,omitempty"`
}

// Installment is one scheduled part of a split payment.
type Installment struct {
	ID              int64      `json:"id"`
	TenantID        int64      `json:"tenant_id"`
	VisitID         int64      `json:"visit_id"`
	ReceivableID    *int64     `json:"receivable_id,omitempty"`
	PaymentMethodID *int64     `json:"payment_method_id,omitempty"`
	Number          int        `json:"number"`
	Total           int        `json:"total"`
	Amount          float64    `json:"amount"`
	DueDate         Date       `json:"due_date"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	Status          string     `json:"status"`
}

// Receivable is money owed to the clinic.
type Receivable struct {
	ID              int64      `json:"id"`
	TenantID        int64      `json:"tenant_id"`
	VisitID         *int64     `json:"visit_id,omitempty"`
	PatientID       *int64     `json:"patient_id,omitempty"`
	PatientName     *string    `json:"patient_name,omitempty"`
	PaymentMethodID *int64     `json:"payment_method_id,omitempty"`
	Description     string     `json:"description"`
	Amount          float64    `json:"amount"`
	AmountPaid      float64    `json:"amount_paid"`
	DueDate         Date       `json:"due_date"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ReceivableInput creates a manual receivable.
type ReceivableInput struct {
	PatientID       *int64  `json:"patient_id,omitempty" validate:"omitempty,gt=0"`
	PaymentMethodID *int64  `json:"payment_method_id,omitempty" validate:"omitempty,gt=0"`
	Description     string  `json:"description" validate:"required,max=255"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	DueDate         Date    `json:"due_date"`
	Notes           *string `json:"notes,omitempty"`
}

// Payable is money the clinic owes.
type Payable struct {
	ID              int64      `json:"id"`
	TenantID        int64      `json:"tenant_id"`
	SupplierID      *int64     `json:"supplier_id,omitempty"`
	SupplierName    *string    `json:"supplier_name,omitempty"`
	PaymentMethodID *int64     `json:"payment_method_id,omitempty"`
	Description     string     `json:"description"`
	Category        *string    `json:"category,omitempty"`
	Amount          float64    `json:"amount"`
	AmountPaid      float64    `json:"amount_paid"`
	DueDate         Date       `json:"due_date"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PayableInput creates a payable.
type PayableInput struct {
	SupplierID      *int64  `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	PaymentMethodID *int64  `json:"payment_method_id,omitempty" validate:"omitempty,gt=0"`
	Description     string  `json:"description" validate:"required,max=255"`
	Category        *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	DueDate         Date    `json:"due_date"`
	Notes           *string `json:"notes,omitempty"`
}

// SettlementInput records a (partial) payment of a receivable or payable.
type SettlementInput struct {
	Amount          float64 `json:"amount" validate:"gt=0"`
	PaymentMethodID *int64  `json:"payment_method_id,omitempty" validate:"omitempty,gt=0"`
}

// FinanceFilter narrows receivable and payable listings.
type FinanceFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Page   PageRequest
}

// SettlementStatus is the status after amountPaid of amount has been settled.
func SettlementStatus(amount, amountPaid float64) string {
	switch {
	case amountPaid <= 0:
		return StatusPending
	case RoundCents(amountPaid) >= RoundCents(amount):
		return StatusPaid
	default:
		return StatusPartial
	}
}

// RoundCents rounds to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// PlannedInstallment is one computed part of a split payment.
type PlannedInstallment struct {
	Number  int
	Total   int
	Amount  float64
	DueDate Date
	Status  string
}

// PlanInstallments splits amount into n monthly parts starting at first.
// The first part is paid immediately, the rest are pending. The last part
// absorbs the rounding remainder so the parts add up to amount.
func PlanInstallments(amount float64, n int, first Date) []PlannedInstallment {
	if n < 1 {
		n = 1
	}
	part := RoundCents(amount / float64(n))
	plan := make([]PlannedInstallment, n)
	allocated := 0.0
	for i := 0; i < n; i++ {
		value := part
		if i == n-1 {
			value = RoundCents(amount - allocated)
		}
		allocated += value
		status := StatusPending
		if i == 0 {
			status = StatusPaid
		}
		plan[i] = PlannedInstallment{
			Number:  i + 1,
			Total:   n,
			Amount:  value,
			DueDate: first.AddMonths(i),
			Status:  status,
		}
	}
	return plan
}

// ReceivedNow is how much of a payment line counts as received at visit time:
// the full amount, or only the first part when it is split.
func ReceivedNow(line PaymentLine) float64 {
	if line.Installments > 1 {
		return PlanInstallments(line.Amount, line.Installments, Date{})[0].Amount
	}
	return line.Amount
}
