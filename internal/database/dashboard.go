// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/aesthetica/internal/models"
)

// dashboardWindow is the look-back of the revenue chart and procedure ranking.
const dashboardWindow = 30 * 24 * time.Hour

// Dashboard builds the tenant overview. All figures use the database clock
// for "today" and the current month.
func (db *DB) Dashboard(ctx context.Context, tenantID int64) (_ models.Dashboard, err error) {
	defer observe("dashboard", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	d := models.Dashboard{GeneratedAt: db.now().UTC()}

	// One round trip for the scalar figures.
	err = db.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients WHERE tenant_id = $1 AND active),
			(SELECT COUNT(*) FROM procedures WHERE tenant_id = $1 AND active),
			(SELECT COUNT(*) FROM appointments
			  WHERE tenant_id = $1 AND scheduled_at::date = CURRENT_DATE AND status <> 'cancelled'),
			(SELECT COUNT(*) FROM visits
			  WHERE tenant_id = $1 AND performed_at >= date_trunc('month', now())),
			(SELECT COALESCE(SUM(total), 0)::float8 FROM visits
			  WHERE tenant_id = $1 AND performed_at >= date_trunc('month', now())),
			(SELECT COALESCE(SUM(amount - amount_paid), 0)::float8 FROM receivables
			  WHERE tenant_id = $1 AND status IN ('pending', 'partial')),
			(SELECT COALESCE(SUM(amount - amount_paid), 0)::float8 FROM payables
			  WHERE tenant_id = $1 AND status IN ('pending', 'partial')),
			(SELECT COUNT(*) FROM products WHERE tenant_id = $1 AND active AND stock <= min_stock)`,
		tenantID).Scan(&d.ActivePatients, &d.ActiveProcedures, &d.AppointmentsToday, &d.VisitsThisMonth,
		&d.RevenueThisMonth, &d.PendingReceivables, &d.PendingPayables, &d.LowStockProducts)
	if err != nil {
		return models.Dashboard{}, translate("dashboard totals", err)
	}

	since := db.now().Add(-dashboardWindow)

	rows, err := db.pool.Query(ctx, `
		SELECT performed_at::date, COALESCE(SUM(total), 0)::float8, COUNT(*)
		FROM visits
		WHERE tenant_id = $1 AND performed_at >= $2
		GROUP BY performed_at::date
		ORDER BY 1`, tenantID, since)
	if err != nil {
		return models.Dashboard{}, translate("dashboard daily revenue", err)
	}
	d.DailyRevenue, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.DailyRevenue, error) {
		var r models.DailyRevenue
		err := row.Scan(&r.Day, &r.Revenue, &r.Visits)
		return r, err
	})
	if err != nil {
		return models.Dashboard{}, translate("dashboard daily revenue", err)
	}

	rows, err = db.pool.Query(ctx, `
		SELECT p.id, p.name, COUNT(*), COALESCE(SUM(v.total), 0)::float8
		FROM visits v
		JOIN procedures p ON p.tenant_id = v.tenant_id AND p.id = v.procedure_id
		WHERE v.tenant_id = $1 AND v.performed_at >= $2
		GROUP BY p.id, p.name
		ORDER BY 3 DESC, p.name
		LIMIT 5`, tenantID, since)
	if err != nil {
		return models.Dashboard{}, translate("dashboard top procedures", err)
	}
	d.TopProcedures, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProcedureRanking, error) {
		var r models.ProcedureRanking
		err := row.Scan(&r.ProcedureID, &r.Name, &r.Count, &r.Revenue)
		return r, err
	})
	if err != nil {
		return models.Dashboard{}, translate("dashboard top procedures", err)
	}

	rows, err = db.pool.Query(ctx, `
		SELECT a.id, a.scheduled_at, pat.name, proc.name, a.status
		FROM appointments a
		JOIN patients pat ON pat.tenant_id = a.tenant_id AND pat.id = a.patient_id
		JOIN procedures proc ON proc.tenant_id = a.tenant_id AND proc.id = a.procedure_id
		WHERE a.tenant_id = $1 AND a.scheduled_at >= now() AND a.status = 'scheduled'
		ORDER BY a.scheduled_at
		LIMIT 10`, tenantID)
	if err != nil {
		return models.Dashboard{}, translate("dashboard upcoming", err)
	}
	d.UpcomingAppointments, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UpcomingAppointment, error) {
		var u models.UpcomingAppointment
		err := row.Scan(&u.ID, &u.ScheduledAt, &u.PatientName, &u.ProcedureName, &u.Status)
		return u, err
	})
	if err != nil {
		return models.Dashboard{}, translate("dashboard upcoming", err)
	}

	return d, nil
}
