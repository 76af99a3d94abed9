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

// ListPaymentMethods returns the tenant's active payment methods.
func (db *DB) ListPaymentMethods(ctx context.Context, tenantID int64) (_ []models.PaymentMethod, err error) {
	defer observe("list_payment_methods", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx, `
		SELECT id, tenant_id, name, kind, active, created_at
		FROM payment_methods
		WHERE tenant_id = $1 AND active
		ORDER BY name`, tenantID)
	if err != nil {
		return nil, translate("list payment methods", err)
	}
	methods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PaymentMethod, error) {
		var m models.PaymentMethod
		err := row.Scan(&m.ID, &m.TenantID, &m.Name, &m.Kind, &m.Active, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, translate("list payment methods", err)
	}
	return methods, nil
}

const receivableColumns = `r.id, r.tenant_id, r.visit_id, r.patient_id, pat.name, r.payment_method_id,
	r.description, r.amount, r.amount_paid, r.due_date, r.paid_at, r.status, r.notes, r.created_at`

const receivableFrom = `receivables r
	LEFT JOIN patients pat ON pat.tenant_id = r.tenant_id AND pat.id = r.patient_id`

func scanReceivable(row pgx.Row) (models.Receivable, error) {
	var r models.Receivable
	err := row.Scan(&r.ID, &r.TenantID, &r.VisitID, &r.PatientID, &r.PatientName, &r.PaymentMethodID,
		&r.Description, &r.Amount, &r.AmountPaid, &r.DueDate, &r.PaidAt, &r.Status, &r.Notes, &r.CreatedAt)
	return r, err
}

// ListReceivables returns receivables ordered by due date.
func (db *DB) ListReceivables(ctx context.Context, tenantID int64, f models.FinanceFilter) (models.Page[models.Receivable], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("r.tenant_id", tenantID).
		AddOptionalEquals("r.status", &f.Status).
		AddDateRange("r.due_date", f.From, f.To)
	return listing[models.Receivable]{
		op:      "list_receivables",
		columns: receivableColumns,
		from:    receivableFrom,
		orderBy: "r.due_date, r.id",
		scan:    scanReceivable,
	}.run(ctx, db.pool, wb, f.Page)
}

// CreateReceivable records money owed to the clinic.
func (db *DB) CreateReceivable(ctx context.Context, tenantID int64, in models.ReceivableInput) (_ models.Receivable, err error) {
	defer observe("create_receivable", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return insertReceivable(ctx, db.pool, tenantID, in, nil)
}

func insertReceivable(ctx context.Context, q querier, tenantID int64, in models.ReceivableInput, visitID *int64) (models.Receivable, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO receivables (tenant_id, visit_id, patient_id, payment_method_id, description,
		                         amount, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		tenantID, visitID, in.PatientID, in.PaymentMethodID, in.Description,
		models.RoundCents(in.Amount), dueDateArg(in.DueDate), models.StatusPending, in.Notes).Scan(&id)
	if err != nil {
		return models.Receivable{}, translate("create receivable", err)
	}
	return getReceivable(ctx, q, tenantID, id)
}

func getReceivable(ctx context.Context, q querier, tenantID, id int64) (models.Receivable, error) {
	r, err := scanReceivable(q.QueryRow(ctx,
		`SELECT `+receivableColumns+` FROM `+receivableFrom+` WHERE r.tenant_id = $1 AND r.id = $2`,
		tenantID, id))
	if err != nil {
		return models.Receivable{}, translate("get receivable", err)
	}
	return r, nil
}

// GetReceivable returns one receivable of the tenant.
func (db *DB) GetReceivable(ctx context.Context, tenantID, id int64) (_ models.Receivable, err error) {
	defer observe("get_receivable", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return getReceivable(ctx, db.pool, tenantID, id)
}

// ReceiveReceivable adds a payment to a receivable.
func (db *DB) ReceiveReceivable(ctx context.Context, tenantID, id int64, in models.SettlementInput) (_ models.Receivable, err error) {
	defer observe("receive_receivable", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var updated models.Receivable
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		if err := settle(ctx, tx, "receivables", tenantID, id, in); err != nil {
			return err
		}
		updated, err = getReceivable(ctx, tx, tenantID, id)
		return err
	})
	return updated, err
}

const payableColumns = `p.id, p.tenant_id, p.supplier_id, s.name, p.payment_method_id, p.description,
	p.category, p.amount, p.amount_paid, p.due_date, p.paid_at, p.status, p.notes, p.created_at`

const payableFrom = `payables p
	LEFT JOIN suppliers s ON s.tenant_id = p.tenant_id AND s.id = p.supplier_id`

func scanPayable(row pgx.Row) (models.Payable, error) {
	var p models.Payable
	err := row.Scan(&p.ID, &p.TenantID, &p.SupplierID, &p.SupplierName, &p.PaymentMethodID,
		&p.Description, &p.Category, &p.Amount, &p.AmountPaid, &p.DueDate, &p.PaidAt, &p.Status,
		&p.Notes, &p.CreatedAt)
	return p, err
}

// ListPayables returns payables ordered by due date.
func (db *DB) ListPayables(ctx context.Context, tenantID int64, f models.FinanceFilter) (models.Page[models.Payable], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("p.tenant_id", tenantID).
		AddOptionalEquals("p.status", &f.Status).
		AddDateRange("p.due_date", f.From, f.To)
	return listing[models.Payable]{
		op:      "list_payables",
		columns: payableColumns,
		from:    payableFrom,
		orderBy: "p.due_date, p.id",
		scan:    scanPayable,
	}.run(ctx, db.pool, wb, f.Page)
}

func getPayable(ctx context.Context, q querier, tenantID, id int64) (models.Payable, error) {
	p, err := scanPayable(q.QueryRow(ctx,
		`SELECT `+payableColumns+` FROM `+payableFrom+` WHERE p.tenant_id = $1 AND p.id = $2`,
		tenantID, id))
	if err != nil {
		return models.Payable{}, translate("get payable", err)
	}
	return p, nil
}

// GetPayable returns one payable of the tenant.
func (db *DB) GetPayable(ctx context.Context, tenantID, id int64) (_ models.Payable, err error) {
	defer observe("get_payable", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return getPayable(ctx, db.pool, tenantID, id)
}

// CreatePayable records money the clinic owes.
func (db *DB) CreatePayable(ctx context.Context, tenantID int64, in models.PayableInput) (_ models.Payable, err error) {
	defer observe("create_payable", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err = db.pool.QueryRow(ctx, `
		INSERT INTO payables (tenant_id, supplier_id, payment_method_id, description, category,
		                      amount, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		tenantID, in.SupplierID, in.PaymentMethodID, in.Description, in.Category,
		models.RoundCents(in.Amount), dueDateArg(in.DueDate), models.StatusPending, in.Notes).Scan(&id)
	if err != nil {
		return models.Payable{}, translate("create payable", err)
	}
	return getPayable(ctx, db.pool, tenantID, id)
}

// PayPayable adds a payment to a payable.
func (db *DB) PayPayable(ctx context.Context, tenantID, id int64, in models.SettlementInput) (_ models.Payable, err error) {
	defer observe("pay_payable", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var updated models.Payable
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		if err := settle(ctx, tx, "payables", tenantID, id, in); err != nil {
			return err
		}
		updated, err = getPayable(ctx, tx, tenantID, id)
		return err
	})
	return updated, err
}

// settle accumulates a payment into amount_paid under a row lock and
// recomputes the status. table is "receivables" or "payables".
func settle(ctx context.Context, tx pgx.Tx, table string, tenantID, id int64, in models.SettlementInput) error {
	var amount, paid float64
	var status string
	err := tx.QueryRow(ctx,
		`SELECT amount, amount_paid, status FROM `+table+` WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, id).Scan(&amount, &paid, &status)
	if err != nil {
		return translate("lock "+table, err)
	}
	if status == models.StatusCancelled {
		return fmt.Errorf("settle %s %d: %w", table, id, ErrSettlementClosed)
	}

	paid = models.RoundCents(paid + in.Amount)
	next := models.SettlementStatus(amount, paid)
	_, err = tx.Exec(ctx, `
		UPDATE `+table+`
		SET amount_paid = $3, status = $4, paid_at = now(),
		    payment_method_id = COALESCE($5, payment_method_id)
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, paid, next, in.PaymentMethodID)
	if err != nil {
		return translate("settle "+table, err)
	}
	return nil
}

// dueDateArg defaults a missing due date to today.
func dueDateArg(d models.Date) time.Time {
	if d.IsZero() {
		return models.NewDate(time.Now()).Time
	}
	return d.Time
}
