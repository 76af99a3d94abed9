// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package query builds parameterized PostgreSQL WHERE clauses.
package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs WHERE clauses with numbered ($1, $2, ...)
// placeholders. Values are never interpolated into the SQL text.
//
// Example usage:
//
//	wb := query.ForTenant("p.tenant_id", tenantID)
//	wb.AddSearch(term, "p.name", "p.cpf")
//	wb.AddEquals("p.active", true)
//	where, args := wb.Build()
//	// p.tenant_id = $1 AND (p.name ILIKE $2 OR p.cpf ILIKE $2) AND p.active = $3
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// ForTenant creates a builder whose first clause scopes rows to one tenant.
// Every tenant-owned query starts here.
func ForTenant(column string, tenantID int64) *WhereBuilder {
	return NewWhereBuilder().AddEquals(column, tenantID)
}

// Bind appends arg and returns its placeholder. Use it for values outside
// the WHERE clause, such as LIMIT and OFFSET.
func (wb *WhereBuilder) Bind(arg interface{}) string {
	wb.args = append(wb.args, arg)
	return fmt.Sprintf("$%d", len(wb.args))
}

// AddClause adds a raw condition. Each "?" in clause is replaced, in order,
// by the placeholder for the corresponding arg.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	var b strings.Builder
	next := 0
	for _, r := range clause {
		if r == '?' && next < len(args) {
			b.WriteString(wb.Bind(args[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}
	wb.clauses = append(wb.clauses, b.String())
	return wb
}

// AddEquals adds "column = $n".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, column+" = "+wb.Bind(value))
	return wb
}

// AddOptionalEquals adds "column = $n" unless value is nil.
func (wb *WhereBuilder) AddOptionalEquals(column string, value interface{}) *WhereBuilder {
	switch v := value.(type) {
	case nil:
		return wb
	case *int64:
		if v == nil {
			return wb
		}
		return wb.AddEquals(column, *v)
	case *string:
		if v == nil || *v == "" {
			return wb
		}
		return wb.AddEquals(column, *v)
	}
	return wb.AddEquals(column, value)
}

// AddSearch adds a case-insensitive substring match across columns, binding
// the term once. An empty term or no columns is skipped.
func (wb *WhereBuilder) AddSearch(term string, columns ...string) *WhereBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return wb
	}
	placeholder := wb.Bind("%" + EscapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + placeholder
	}
	wb.clauses = append(wb.clauses, "("+strings.Join(parts, " OR ")+")")
	return wb
}

// AddDateRange adds inclusive bounds on column. Nil bounds are skipped.
func (wb *WhereBuilder) AddDateRange(column string, from, to *time.Time) *WhereBuilder {
	if from != nil {
		wb.clauses = append(wb.clauses, column+" >= "+wb.Bind(*from))
	}
	if to != nil {
		wb.clauses = append(wb.clauses, column+" <= "+wb.Bind(*to))
	}
	return wb
}

// AddIn adds "column = ANY($n)" for a non-empty list.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) > 0 {
		wb.clauses = append(wb.clauses, column+" = ANY("+wb.Bind(values)+")")
	}
	return wb
}

// Build returns the clauses joined with AND, or "TRUE" when empty, plus the
// arguments bound so far.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "TRUE", wb.args
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

// Args returns the arguments bound so far.
func (wb *WhereBuilder) Args() []interface{} {
	return wb.args
}

// Count returns the number of clauses.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clause was added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
