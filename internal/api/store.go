// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"context"

	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/models"
)

// AccountStore is the tenant and user side of the database.
type AccountStore interface {
	Signup(ctx context.Context, in models.NewTenant) (models.SignupResult, error)
	FindLoginByEmail(ctx context.Context, email string) (models.LoginRecord, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	GetTenant(ctx context.Context, tenantID int64) (models.Tenant, error)
	GetUser(ctx context.Context, tenantID, userID int64) (models.User, error)
	ListUsers(ctx context.Context, tenantID int64) ([]models.User, error)
	CreateUser(ctx context.Context, tenantID int64, name, email, passwordHash string, role authz.Role) (models.User, error)
	UpdateUser(ctx context.Context, tenantID, userID int64, role *authz.Role, active *bool) (models.User, error)
}

// ClinicStore covers patients, the catalog and the schedule.
type ClinicStore interface {
	ListPatients(ctx context.Context, tenantID int64, search string, page models.PageRequest) (models.Page[models.Patient], error)
	GetPatient(ctx context.Context, tenantID, id int64) (models.Patient, error)
	CreatePatient(ctx context.Context, tenantID int64, in models.PatientInput) (models.Patient, error)
	UpdatePatient(ctx context.Context, tenantID, id int64, in models.PatientInput) (models.Patient, error)
	DeactivatePatient(ctx context.Context, tenantID, id int64) error

	ListProcedures(ctx context.Context, tenantID int64, search, category string, page models.PageRequest) (models.Page[models.Procedure], error)
	GetProcedure(ctx context.Context, tenantID, id int64) (models.Procedure, error)
	CreateProcedure(ctx context.Context, tenantID int64, in models.ProcedureInput) (models.Procedure, error)
	UpdateProcedure(ctx context.Context, tenantID, id int64, in models.ProcedureInput) (models.Procedure, error)
	DeactivateProcedure(ctx context.Context, tenantID, id int64) error

	ListSuppliers(ctx context.Context, tenantID int64, search string, page models.PageRequest) (models.Page[models.Supplier], error)
	GetSupplier(ctx context.Context, tenantID, id int64) (models.Supplier, error)
	CreateSupplier(ctx context.Context, tenantID int64, in models.SupplierInput) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, tenantID, id int64, in models.SupplierInput) (models.Supplier, error)
	DeactivateSupplier(ctx context.Context, tenantID, id int64) error

	ListProducts(ctx context.Context, tenantID int64, search, category string, page models.PageRequest) (models.Page[models.Product], error)
	GetProduct(ctx context.Context, tenantID, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, tenantID int64, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, tenantID, id int64, in models.ProductInput) (models.Product, error)
	DeactivateProduct(ctx context.Context, tenantID, id int64) error

	ListAppointments(ctx context.Context, tenantID int64, f models.AppointmentFilter) (models.Page[models.Appointment], error)
	GetAppointment(ctx context.Context, tenantID, id int64) (models.Appointment, error)
	CreateAppointment(ctx context.Context, tenantID int64, in models.AppointmentInput) (models.Appointment, error)
	UpdateAppointment(ctx context.Context, tenantID, id int64, in models.AppointmentInput) (models.Appointment, error)
	DeleteAppointment(ctx context.Context, tenantID, id int64) error
}

// FinanceStore covers visits, installments, receivables, payables and the dashboard.
type FinanceStore interface {
	ListVisits(ctx context.Context, tenantID int64, f models.VisitFilter) (models.Page[models.Visit], error)
	GetVisit(ctx context.Context, tenantID, id int64) (models.Visit, error)
	CreateVisit(ctx context.Context, tenantID, userID int64, in models.VisitInput) (models.VisitResult, error)
	ListInstallments(ctx context.Context, tenantID, visitID int64) ([]models.Installment, error)

	ListPaymentMethods(ctx context.Context, tenantID int64) ([]models.PaymentMethod, error)
	ListReceivables(ctx context.Context, tenantID int64, f models.FinanceFilter) (models.Page[models.Receivable], error)
	GetReceivable(ctx context.Context, tenantID, id int64) (models.Receivable, error)
	CreateReceivable(ctx context.Context, tenantID int64, in models.ReceivableInput) (models.Receivable, error)
	ReceiveReceivable(ctx context.Context, tenantID, id int64, in models.SettlementInput) (models.Receivable, error)
	ListPayables(ctx context.Context, tenantID int64, f models.FinanceFilter) (models.Page[models.Payable], error)
	GetPayable(ctx context.Context, tenantID, id int64) (models.Payable, error)
	CreatePayable(ctx context.Context, tenantID int64, in models.PayableInput) (models.Payable, error)
	PayPayable(ctx context.Context, tenantID, id int64, in models.SettlementInput) (models.Payable, error)

	Dashboard(ctx context.Context, tenantID int64) (models.Dashboard, error)
}

// HealthStore is what the health endpoints probe.
type HealthStore interface {
	Ping(ctx context.Context) error
	Stats() database.PoolStats
}

// Store is everything the handlers need from persistence. *database.DB
// implements it; tests substitute fakes.
type Store interface {
	AccountStore
	ClinicStore
	FinanceStore
	HealthStore
}

var _ Store = (*database.DB)(nil)
