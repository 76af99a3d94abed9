// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Clínica Bela Pele", "clinica-bela-pele"},
		{"  Estética & Saúde  ", "estetica-saude"},
		{"São João 2", "sao-joao-2"},
		{"ALREADY-slugged", "already-slugged"},
		{"---", "clinic"},
		{"", "clinic"},
		{"Ótica Ação!!", "otica-acao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.name); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrInvalidReference},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("op", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("translate() = %v, want %v", got, tt.want)
			}
			if !strings.HasPrefix(got.Error(), "op: ") {
				t.Errorf("translate() = %q, want op prefix", got.Error())
			}
		})
	}

	if translate("op", nil) != nil {
		t.Error("translate(nil) should be nil")
	}

	other := &pgconn.PgError{Code: "42P01"}
	got := translate("op", other)
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) || pgErr.Code != "42P01" {
		t.Errorf("translate() lost the driver error: %v", got)
	}
	if IsNotFound(got) || IsDuplicate(got) {
		t.Errorf("translate() = %v should not match a sentinel", got)
	}
}

func TestNotFoundUnless(t *testing.T) {
	if err := notFoundUnless("update", pgconn.NewCommandTag("UPDATE 0")); !IsNotFound(err) {
		t.Errorf("UPDATE 0: got %v, want ErrNotFound", err)
	}
	if err := notFoundUnless("update", pgconn.NewCommandTag("UPDATE 1")); err != nil {
		t.Errorf("UPDATE 1: got %v, want nil", err)
	}
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file    string
		version int
		name    string
		wantErr bool
	}{
		{"0001_initial_schema.sql", 1, "initial_schema", false},
		{"0012_add_index.sql", 12, "add_index", false},
		{"initial.sql", 0, "", true},
		{"abc_initial.sql", 0, "", true},
		{"0000_zero.sql", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			m, err := parseMigrationName(tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMigrationName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if m.Version != tt.version || m.Name != tt.name {
				t.Errorf("parseMigrationName() = %d %q, want %d %q", m.Version, m.Name, tt.version, tt.name)
			}
		})
	}
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("no embedded migrations")
	}
	if migrations[0].Version != 1 {
		t.Errorf("first migration version = %d, want 1", migrations[0].Version)
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			t.Errorf("migrations out of order at %d", i)
		}
	}

	schema := migrations[0].SQL
	for _, table := range []string{
		"tenants", "users", "patients", "procedures", "suppliers", "products",
		"appointments", "visits", "payment_methods", "receivables", "payables", "installments",
	} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("initial schema does not create %s", table)
		}
	}
}
