// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package query builds parameterized WHERE clauses for PostgreSQL.
//
// Placeholders are numbered in the order values are bound, so the builder
// can be extended with LIMIT/OFFSET after Build:
//
//	wb := query.ForTenant("tenant_id", tenantID)
//	wb.AddSearch(search, "name", "cnpj")
//	where, _ := wb.BuildWithPrefix()
//	sql := "SELECT ... FROM suppliers " + where +
//	    " ORDER BY name LIMIT " + wb.Bind(limit) + " OFFSET " + wb.Bind(offset)
//	rows, err := pool.Query(ctx, sql, wb.Args()...)
//
// Search terms are escaped with EscapeLike before being wrapped in %...%.
package query
