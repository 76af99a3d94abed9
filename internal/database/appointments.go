// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/aesthetica/internal/database/query"
	"github.com/tomtom215/aesthetica/internal/models"
)

const appointmentColumns = `a.id, a.tenant_id, a.patient_id, pat.name, a.procedure_id, proc.name, a.user_id,
	a.scheduled_at, a.duration_minutes, a.status, a.notes, a.created_at, a.updated_at`

const appointmentFrom = `appointments a
	JOIN patients pat ON pat.tenant_id = a.tenant_id AND pat.id = a.patient_id
	JOIN procedures proc ON proc.tenant_id = a.tenant_id AND proc.id = a.procedure_id`

func scanAppointment(row pgx.Row) (models.Appointment, error) {
	var a models.Appointment
	var duration int32
	err := row.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.PatientName, &a.ProcedureID, &a.ProcedureName,
		&a.UserID, &a.ScheduledAt, &duration, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	a.DurationMinutes = int(duration)
	return a, err
}

// ListAppointments returns the tenant's appointments in date order.
func (db *DB) ListAppointments(ctx context.Context, tenantID int64, f models.AppointmentFilter) (models.Page[models.Appointment], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("a.tenant_id", tenantID).
		AddDateRange("a.scheduled_at", f.From, f.To).
		AddOptionalEquals("a.status", &f.Status).
		AddOptionalEquals("a.patient_id", f.PatientID)
	return listing[models.Appointment]{
		op:      "list_appointments",
		columns: appointmentColumns,
		from:    appointmentFrom,
		orderBy: "a.scheduled_at, a.id",
		scan:    scanAppointment,
	}.run(ctx, db.pool, wb, f.Page)
}

// GetAppointment returns one appointment of the tenant.
func (db *DB) GetAppointment(ctx context.Context, tenantID, id int64) (_ models.Appointment, err error) {
	defer observe("get_appointment", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.getAppointment(ctx, db.pool, tenantID, id)
}

func (db *DB) getAppointment(ctx context.Context, q querier, tenantID, id int64) (models.Appointment, error) {
	a, err := scanAppointment(q.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM `+appointmentFrom+` WHERE a.tenant_id = $1 AND a.id = $2`,
		tenantID, id))
	if err != nil {
		return models.Appointment{}, translate("get appointment", err)
	}
	return a, nil
}

// procedureDuration returns the duration of a tenant's procedure, or
// ErrNotFound when the procedure is not the tenant's.
func procedureDuration(ctx context.Context, q querier, tenantID, procedureID int64) (int, error) {
	var minutes int32
	err := q.QueryRow(ctx,
		`SELECT duration_minutes FROM procedures WHERE tenant_id = $1 AND id = $2`,
		tenantID, procedureID).Scan(&minutes)
	if err != nil {
		return 0, translate(fmt.Sprintf("procedure %d", procedureID), err)
	}
	return int(minutes), nil
}

// patientExists returns ErrNotFound when the patient is not the tenant's.
func patientExists(ctx context.Context, q querier, tenantID, patientID int64) error {
	var id int64
	err := q.QueryRow(ctx,
		`SELECT id FROM patients WHERE tenant_id = $1 AND id = $2`, tenantID, patientID).Scan(&id)
	return translate(fmt.Sprintf("patient %d", patientID), err)
}

// CreateAppointment schedules a procedure for a patient. Patient and
// procedure must belong to the tenant; a zero duration takes the procedure's.
func (db *DB) CreateAppointment(ctx context.Context, tenantID int64, in models.AppointmentInput) (_ models.Appointment, err error) {
	defer observe("create_appointment", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var created models.Appointment
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		duration, err := db.resolveAppointmentRefs(ctx, tx, tenantID, in)
		if err != nil {
			return err
		}
		status := in.Status
		if status == "" {
			status = models.AppointmentScheduled
		}

		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO appointments (tenant_id, patient_id, procedure_id, user_id, scheduled_at,
			                          duration_minutes, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			tenantID, in.PatientID, in.ProcedureID, in.UserID, in.ScheduledAt, duration, status, in.Notes).Scan(&id)
		if err != nil {
			return translate("create appointment", err)
		}
		created, err = db.getAppointment(ctx, tx, tenantID, id)
		return err
	})
	return created, err
}

// UpdateAppointment replaces the editable fields of an appointment.
func (db *DB) UpdateAppointment(ctx context.Context, tenantID, id int64, in models.AppointmentInput) (_ models.Appointment, err error) {
	defer observe("update_appointment", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var updated models.Appointment
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		duration, err := db.resolveAppointmentRefs(ctx, tx, tenantID, in)
		if err != nil {
			return err
		}
		status := in.Status
		if status == "" {
			status = models.AppointmentScheduled
		}

		tag, err := tx.Exec(ctx, `
			UPDATE appointments
			SET patient_id = $3, procedure_id = $4, user_id = $5, scheduled_at = $6,
			    duration_minutes = $7, status = $8, notes = $9, updated_at = now()
			WHERE tenant_id = $1 AND id = $2`,
			tenantID, id, in.PatientID, in.ProcedureID, in.UserID, in.ScheduledAt, duration, status, in.Notes)
		if err != nil {
			return translate("update appointment", err)
		}
		if err := notFoundUnless("update appointment", tag); err != nil {
			return err
		}
		updated, err = db.getAppointment(ctx, tx, tenantID, id)
		return err
	})
	return updated, err
}

func (db *DB) resolveAppointmentRefs(ctx context.Context, q querier, tenantID int64, in models.AppointmentInput) (int, error) {
	if err := patientExists(ctx, q, tenantID, in.PatientID); err != nil {
		return 0, err
	}
	duration, err := procedureDuration(ctx, q, tenantID, in.ProcedureID)
	if err != nil {
		return 0, err
	}
	if in.DurationMinutes > 0 {
		duration = in.DurationMinutes
	}
	return durationOrDefault(duration), nil
}

// DeleteAppointment removes an appointment. Appointments referenced by a
// visit cannot be deleted (ErrInvalidReference).
func (db *DB) DeleteAppointment(ctx context.Context, tenantID, id int64) (err error) {
	defer observe("delete_appointment", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tag, err := db.pool.Exec(ctx, `DELETE FROM appointments WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return translate("delete appointment", err)
	}
	return notFoundUnless("delete appointment", tag)
}
