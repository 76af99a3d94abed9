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
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
)

const visitColumns = `v.id, v.tenant_id, v.appointment_id, v.patient_id, pat.name, v.procedure_id, proc.name,
	v.user_id, v.performed_at, v.total, v.notes, v.created_at`

const visitFrom = `visits v
	JOIN patients pat ON pat.tenant_id = v.tenant_id AND pat.id = v.patient_id
	JOIN procedures proc ON proc.tenant_id = v.tenant_id AND proc.id = v.procedure_id`

func scanVisit(row pgx.Row) (models.Visit, error) {
	var v models.Visit
	err := row.Scan(&v.ID, &v.TenantID, &v.AppointmentID, &v.PatientID, &v.PatientName, &v.ProcedureID,
		&v.ProcedureName, &v.UserID, &v.PerformedAt, &v.Total, &v.Notes, &v.CreatedAt)
	return v, err
}

// ListVisits returns the tenant's visits, newest first.
func (db *DB) ListVisits(ctx context.Context, tenantID int64, f models.VisitFilter) (models.Page[models.Visit], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("v.tenant_id", tenantID).
		AddDateRange("v.performed_at", f.From, f.To).
		AddOptionalEquals("v.patient_id", f.PatientID)
	return listing[models.Visit]{
		op:      "list_visits",
		columns: visitColumns,
		from:    visitFrom,
		orderBy: "v.performed_at DESC, v.id DESC",
		scan:    scanVisit,
	}.run(ctx, db.pool, wb, f.Page)
}

// GetVisit returns one visit of the tenant.
func (db *DB) GetVisit(ctx context.Context, tenantID, id int64) (_ models.Visit, err error) {
	defer observe("get_visit", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return getVisit(ctx, db.pool, tenantID, id)
}

func getVisit(ctx context.Context, q querier, tenantID, id int64) (models.Visit, error) {
	v, err := scanVisit(q.QueryRow(ctx,
		`SELECT `+visitColumns+` FROM `+visitFrom+` WHERE v.tenant_id = $1 AND v.id = $2`, tenantID, id))
	if err != nil {
		return models.Visit{}, translate("get visit", err)
	}
	return v, nil
}

// CreateVisit records a performed procedure and its payments in one
// transaction:
//   - split payment lines become installment rows, of which only the first
//     counts as received;
//   - whatever was not received becomes a receivable due in 30 days;
//   - the linked appointment, if any, is marked completed.
func (db *DB) CreateVisit(ctx context.Context, tenantID, userID int64, in models.VisitInput) (_ models.VisitResult, err error) {
	defer observe("create_visit", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	now := db.now()
	performedAt := now
	if in.PerformedAt != nil && !in.PerformedAt.IsZero() {
		performedAt = *in.PerformedAt
	}
	today := models.NewDate(now)

	var result models.VisitResult
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		if err := patientExists(ctx, tx, tenantID, in.PatientID); err != nil {
			return err
		}
		if _, err := procedureDuration(ctx, tx, tenantID, in.ProcedureID); err != nil {
			return err
		}

		var visitID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO visits (tenant_id, appointment_id, patient_id, procedure_id, user_id,
			                    performed_at, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			tenantID, in.AppointmentID, in.PatientID, in.ProcedureID, userID, performedAt,
			models.RoundCents(in.Total), in.Notes).Scan(&visitID)
		if err != nil {
			return translate("create visit", err)
		}

		received := 0.0
		for _, line := range in.Payments {
			received += models.ReceivedNow(line)
			if line.Installments <= 1 {
				continue
			}
			for _, part := range models.PlanInstallments(line.Amount, line.Installments, today) {
				inst, err := insertInstallment(ctx, tx, tenantID, visitID, line.PaymentMethodID, part, now)
				if err != nil {
					return err
				}
				result.Installments = append(result.Installments, inst)
			}
		}
		result.Received = models.RoundCents(received)

		outstanding := models.RoundCents(in.Total - received)
		if outstanding > 0 {
			rec, err := insertReceivable(ctx, tx, tenantID, models.ReceivableInput{
				PatientID:   &in.PatientID,
				Description: fmt.Sprintf("Outstanding balance - Visit #%d", visitID),
				Amount:      outstanding,
				DueDate:     models.NewDate(now.AddDate(0, 0, models.OutstandingDueDays)),
			}, &visitID)
			if err != nil {
				return err
			}
			result.Receivables = append(result.Receivables, rec)
			result.OutstandingBalance = outstanding

			if _, err := tx.Exec(ctx, `
				UPDATE installments SET receivable_id = $3
				WHERE tenant_id = $1 AND visit_id = $2 AND status = $4`,
				tenantID, visitID, rec.ID, models.StatusPending); err != nil {
				return translate("link installments", err)
			}
			for i := range result.Installments {
				if result.Installments[i].Status == models.StatusPending {
					result.Installments[i].ReceivableID = &rec.ID
				}
			}
		}

		if in.AppointmentID != nil {
			tag, err := tx.Exec(ctx, `
				UPDATE appointments SET status = $3, updated_at = now()
				WHERE tenant_id = $1 AND id = $2`,
				tenantID, *in.AppointmentID, models.AppointmentCompleted)
			if err != nil {
				return translate("complete appointment", err)
			}
			if err := notFoundUnless(fmt.Sprintf("appointment %d", *in.AppointmentID), tag); err != nil {
				return err
			}
		}

		result.Visit, err = getVisit(ctx, tx, tenantID, visitID)
		return err
	})
	if err != nil {
		return models.VisitResult{}, err
	}

	logging.Ctx(ctx).Info().
		Int64("visit_id", result.Visit.ID).
		Float64("total", result.Visit.Total).
		Float64("outstanding", result.OutstandingBalance).
		Msg("Visit recorded")
	return result, nil
}

func insertInstallment(ctx context.Context, tx pgx.Tx, tenantID, visitID int64, methodID *int64, part models.PlannedInstallment, now time.Time) (models.Installment, error) {
	inst := models.Installment{
		TenantID:        tenantID,
		VisitID:         visitID,
		PaymentMethodID: methodID,
		Number:          part.Number,
		Total:           part.Total,
		Amount:          part.Amount,
		DueDate:         part.DueDate,
		Status:          part.Status,
	}
	if part.Status == models.StatusPaid {
		paidAt := now
		inst.PaidAt = &paidAt
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO installments (tenant_id, visit_id, payment_method_id, number, total, amount,
		                          due_date, paid_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		tenantID, visitID, methodID, part.Number, part.Total, part.Amount,
		part.DueDate.Time, inst.PaidAt, part.Status).Scan(&inst.ID)
	if err != nil {
		return models.Installment{}, translate("create installment", err)
	}
	return inst, nil
}

// ListInstallments returns the installments of one visit.
func (db *DB) ListInstallments(ctx context.Context, tenantID, visitID int64) (_ []models.Installment, err error) {
	defer observe("list_installments", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx, `
		SELECT id, tenant_id, visit_id, receivable_id, payment_method_id, number, total, amount,
		       due_date, paid_at, status
		FROM installments
		WHERE tenant_id = $1 AND visit_id = $2
		ORDER BY payment_method_id NULLS FIRST, number`, tenantID, visitID)
	if err != nil {
		return nil, translate("list installments", err)
	}
	installments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Installment, error) {
		var i models.Installment
		var number, total int32
		err := row.Scan(&i.ID, &i.TenantID, &i.VisitID, &i.ReceivableID, &i.PaymentMethodID, &number,
			&total, &i.Amount, &i.DueDate, &i.PaidAt, &i.Status)
		i.Number, i.Total = int(number), int(total)
		return i, err
	})
	if err != nil {
		return nil, translate("list installments", err)
	}
	return installments, nil
}
