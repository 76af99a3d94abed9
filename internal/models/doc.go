// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package models holds the domain types shared by the database layer and the
HTTP handlers: tenants and users, clinic entities (patients, procedures,
suppliers, products, appointments), the financial records created by visits,
and the JSON envelopes.

Every tenant-owned row carries TenantID. Request bodies are the *Input types;
they carry validate tags checked by internal/validation before any query runs.

Money is float64 with two decimals (NUMERIC(12,2) in PostgreSQL). The helpers
PlanInstallments, ReceivedNow and SettlementStatus hold the billing arithmetic
so the database layer and its tests agree on it:

	plan := models.PlanInstallments(300, 3, models.NewDate(time.Now()))
	// 100 paid today, 100 pending next month, 100 pending the month after
*/
package models
