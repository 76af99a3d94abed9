// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package models

import "time"

// Dashboard is the tenant overview shown after login.
type Dashboard struct {
	ActivePatients       int64                 `json:"active_patients"`
	ActiveProcedures     int64                 `json:"active_procedures"`
	AppointmentsToday    int64                 `json:"appointments_today"`
	VisitsThisMonth      int64                 `json:"visits_this_month"`
	RevenueThisMonth     float64               `json:"revenue_this_month"`
	PendingReceivables   float64               `json:"pending_receivables"`
	PendingPayables      float64               `json:"pending_payables"`
	DailyRevenue         []DailyRevenue        `json:"daily_revenue"`
	TopProcedures        []ProcedureRanking    `json:"top_procedures"`
	UpcomingAppointments []UpcomingAppointment `json:"upcoming_appointments"`
	LowStockProducts     int64                 `json:"low_stock_products"`
	GeneratedAt          time.Time             `json:"generated_at"`
}

// DailyRevenue is the visit total of one day.
type DailyRevenue struct {
	Day     Date    `json:"day"`
	Revenue float64 `json:"revenue"`
	Visits  int64   `json:"visits"`
}

// ProcedureRanking is a procedure and how often it was performed.
type ProcedureRanking struct {
	ProcedureID int64   `json:"procedure_id"`
	Name        string  `json:"name"`
	Count       int64   `json:"count"`
	Revenue     float64 `json:"revenue"`
}

// UpcomingAppointment is a compact appointment row for the dashboard.
type UpcomingAppointment struct {
	ID            int64     `json:"id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	PatientName   string    `json:"patient_name"`
	ProcedureName string    `json:"procedure_name"`
	Status        string    `json:"status"`
}
