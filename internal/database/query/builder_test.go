// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package query

import (
	"reflect"
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	where, args := wb.Build()
	if where != "TRUE" {
		t.Errorf("Expected 'TRUE' for empty builder, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestForTenant(t *testing.T) {
	where, args := ForTenant("tenant_id", 7).Build()
	if where != "tenant_id = $1" {
		t.Errorf("Expected tenant clause, got %q", where)
	}
	if !reflect.DeepEqual(args, []interface{}{int64(7)}) {
		t.Errorf("Expected [7], got %v", args)
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	wb := ForTenant("a.tenant_id", 7).
		AddSearch("ana", "p.name", "p.cpf", "p.phone").
		AddDateRange("a.scheduled_at", &from, &to).
		AddIn("a.status", []string{"scheduled", "confirmed"})

	where, args := wb.Build()
	expected := "a.tenant_id = $1 AND (p.name ILIKE $2 OR p.cpf ILIKE $2 OR p.phone ILIKE $2)" +
		" AND a.scheduled_at >= $3 AND a.scheduled_at <= $4 AND a.status = ANY($5)"
	if where != expected {
		t.Errorf("Build() =\n%q\nwant\n%q", where, expected)
	}
	if len(args) != 5 {
		t.Fatalf("Expected 5 args, got %d", len(args))
	}
	if args[1] != "%ana%" {
		t.Errorf("Expected search arg '%%ana%%', got %v", args[1])
	}
	if wb.Count() != 5 {
		t.Errorf("Expected 5 clauses, got %d", wb.Count())
	}
}

func TestWhereBuilder_AddClause(t *testing.T) {
	wb := ForTenant("tenant_id", 1)
	wb.AddClause("(due_date < ? OR status = ?)", "2026-02-01", "overdue")

	where, args := wb.Build()
	if where != "tenant_id = $1 AND (due_date < $2 OR status = $3)" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 3 {
		t.Errorf("Expected 3 args, got %d", len(args))
	}
}

func TestWhereBuilder_BindAfterBuild(t *testing.T) {
	wb := ForTenant("tenant_id", 1)
	wb.AddSearch("x", "name")
	where, _ := wb.BuildWithPrefix()

	limit := wb.Bind(10)
	offset := wb.Bind(20)
	if limit != "$3" || offset != "$4" {
		t.Errorf("Bind() = %s, %s; want $3, $4", limit, offset)
	}
	if where != "WHERE tenant_id = $1 AND (name ILIKE $2)" {
		t.Errorf("unexpected prefix clause %q", where)
	}
	if len(wb.Args()) != 4 {
		t.Errorf("Expected 4 args, got %d", len(wb.Args()))
	}
}

func TestWhereBuilder_SkipsEmptyFilters(t *testing.T) {
	var nilID *int64
	empty := ""
	id := int64(5)

	wb := ForTenant("tenant_id", 1).
		AddSearch("   ", "name").
		AddDateRange("created_at", nil, nil).
		AddIn("status", nil).
		AddOptionalEquals("patient_id", nilID).
		AddOptionalEquals("category", &empty).
		AddOptionalEquals("procedure_id", &id)

	where, args := wb.Build()
	if where != "tenant_id = $1 AND procedure_id = $2" {
		t.Errorf("unexpected clause %q", where)
	}
	if args[1] != int64(5) {
		t.Errorf("Expected dereferenced id, got %v", args[1])
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
		"%_%":     `\%\_\%`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
