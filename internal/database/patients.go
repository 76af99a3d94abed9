// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/aesthetica/internal/database/query"
	"github.com/tomtom215/aesthetica/internal/models"
)

const patientColumns = `id, tenant_id, name, email, phone, cpf, cnpj, birth_date, gender, address, notes, active, created_at, updated_at`

func scanPatient(row pgx.Row) (models.Patient, error) {
	var p models.Patient
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Email, &p.Phone, &p.CPF, &p.CNPJ,
		&p.BirthDate, &p.Gender, &p.Address, &p.Notes, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// dateArg converts an optional date to a DATE parameter.
func dateArg(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}

// ListPatients returns active patients ordered by name. search matches name,
// CPF or phone.
func (db *DB) ListPatients(ctx context.Context, tenantID int64, search string, page models.PageRequest) (models.Page[models.Patient], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("tenant_id", tenantID).
		AddEquals("active", true).
		AddSearch(search, "name", "cpf", "phone")
	return listing[models.Patient]{
		op:      "list_patients",
		columns: patientColumns,
		from:    "patients",
		orderBy: "name, id",
		scan:    scanPatient,
	}.run(ctx, db.pool, wb, page)
}

// GetPatient returns one patient of the tenant, active or not.
func (db *DB) GetPatient(ctx context.Context, tenantID, id int64) (_ models.Patient, err error) {
	defer observe("get_patient", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanPatient(db.pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return models.Patient{}, translate("get patient", err)
	}
	return p, nil
}

// CreatePatient inserts a patient into the tenant.
func (db *DB) CreatePatient(ctx context.Context, tenantID int64, in models.PatientInput) (_ models.Patient, err error) {
	defer observe("create_patient", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanPatient(db.pool.QueryRow(ctx, `
		INSERT INTO patients (tenant_id, name, email, phone, cpf, cnpj, birth_date, gender, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+patientColumns,
		tenantID, in.Name, in.Email, in.Phone, in.CPF, in.CNPJ, dateArg(in.BirthDate),
		in.Gender, in.Address, in.Notes))
	if err != nil {
		return models.Patient{}, translate("create patient", err)
	}
	return p, nil
}

// UpdatePatient replaces the editable fields of a patient.
func (db *DB) UpdatePatient(ctx context.Context, tenantID, id int64, in models.PatientInput) (_ models.Patient, err error) {
	defer observe("update_patient", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanPatient(db.pool.QueryRow(ctx, `
		UPDATE patients
		SET name = $3, email = $4, phone = $5, cpf = $6, cnpj = $7, birth_date = $8,
		    gender = $9, address = $10, notes = $11, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+patientColumns,
		tenantID, id, in.Name, in.Email, in.Phone, in.CPF, in.CNPJ, dateArg(in.BirthDate),
		in.Gender, in.Address, in.Notes))
	if err != nil {
		return models.Patient{}, translate("update patient", err)
	}
	return p, nil
}

// DeactivatePatient soft-deletes a patient; history stays intact.
func (db *DB) DeactivatePatient(ctx context.Context, tenantID, id int64) (err error) {
	defer observe("deactivate_patient", time.Now(), &err)
	return db.deactivate(ctx, "patients", tenantID, id)
}

// deactivate sets active = false on a tenant-owned row. table is always a
// package constant.
func (db *DB) deactivate(ctx context.Context, table string, tenantID, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tag, err := db.pool.Exec(ctx,
		`UPDATE `+table+` SET active = false, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	if err != nil {
		return translate("deactivate "+table, err)
	}
	return notFoundUnless("deactivate "+table, tag)
}
