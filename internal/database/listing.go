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

// listing describes one paginated query: "SELECT <columns> FROM <from>
// WHERE <where> ORDER BY <orderBy> LIMIT .. OFFSET ..".
type listing[T any] struct {
	op      string
	columns string
	from    string
	orderBy string
	scan    func(pgx.Row) (T, error)
}

// run counts the matching rows, then fetches the requested page. The where
// builder must already be scoped to the tenant.
func (l listing[T]) run(ctx context.Context, q querier, wb *query.WhereBuilder, page models.PageRequest) (_ models.Page[T], err error) {
	defer observe(l.op, time.Now(), &err)

	page = page.Normalize()
	where, args := wb.Build()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+l.from+` WHERE `+where, args...).Scan(&total); err != nil {
		return models.Page[T]{}, translate(l.op, err)
	}

	limit := wb.Bind(page.Limit)
	offset := wb.Bind(page.Offset())
	rows, err := q.Query(ctx,
		`SELECT `+l.columns+` FROM `+l.from+` WHERE `+where+
			` ORDER BY `+l.orderBy+` LIMIT `+limit+` OFFSET `+offset,
		wb.Args()...)
	if err != nil {
		return models.Page[T]{}, translate(l.op, err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return l.scan(row)
	})
	if err != nil {
		return models.Page[T]{}, translate(l.op, err)
	}
	if items == nil {
		items = []T{}
	}
	return models.Page[T]{Items: items, Pagination: models.NewPagination(page, total)}, nil
}
