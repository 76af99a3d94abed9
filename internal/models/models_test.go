// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Due  Date  `json:"due"`
		Born *Date `json:"born,omitempty"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"due":"2026-03-15","born":"1990-04-21T10:00:00Z"}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.Due.String() != "2026-03-15" {
		t.Errorf("due = %s", p.Due)
	}
	if p.Born == nil || p.Born.String() != "1990-04-21" {
		t.Errorf("born = %v", p.Born)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"due":"2026-03-15","born":"1990-04-21"}` {
		t.Errorf("Marshal() = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"due":"15/03/2026"}`), &p); err == nil {
		t.Error("Unmarshal() should reject a non ISO date")
	}
	if err := json.Unmarshal([]byte(`{"due":""}`), &p); err != nil || !p.Due.IsZero() {
		t.Errorf("empty date: %v, %v", p.Due, err)
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2026, 5, 9, 17, 30, 0, 0, time.UTC)); err != nil || d.String() != "2026-05-09" {
		t.Errorf("Scan(time) = %s, %v", d, err)
	}
	if err := d.Scan("2026-01-02"); err != nil || d.String() != "2026-01-02" {
		t.Errorf("Scan(string) = %s, %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan(nil) = %s, %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestPlanInstallments(t *testing.T) {
	first, _ := ParseDate("2026-01-31")

	tests := []struct {
		name    string
		amount  float64
		n       int
		amounts []float64
	}{
		{"even split", 300, 3, []float64{100, 100, 100}},
		{"remainder on last", 100, 3, []float64{33.33, 33.33, 33.34}},
		{"single", 80, 1, []float64{80}},
		{"zero means one", 80, 0, []float64{80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanInstallments(tt.amount, tt.n, first)
			if len(plan) != len(tt.amounts) {
				t.Fatalf("got %d parts, want %d", len(plan), len(tt.amounts))
			}
			sum := 0.0
			for i, part := range plan {
				if part.Amount != tt.amounts[i] {
					t.Errorf("part %d amount = %v, want %v", i+1, part.Amount, tt.amounts[i])
				}
				if part.Number != i+1 || part.Total != len(tt.amounts) {
					t.Errorf("part %d numbering = %d/%d", i+1, part.Number, part.Total)
				}
				wantStatus := StatusPending
				if i == 0 {
					wantStatus = StatusPaid
				}
				if part.Status != wantStatus {
					t.Errorf("part %d status = %s, want %s", i+1, part.Status, wantStatus)
				}
				sum += part.Amount
			}
			if RoundCents(sum) != tt.amount {
				t.Errorf("parts add up to %v, want %v", sum, tt.amount)
			}
		})
	}

	plan := PlanInstallments(300, 3, NewDate(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	want := []string{"2026-01-15", "2026-02-15", "2026-03-15"}
	for i, part := range plan {
		if part.DueDate.String() != want[i] {
			t.Errorf("part %d due = %s, want %s", i+1, part.DueDate, want[i])
		}
	}
}

func TestReceivedNow(t *testing.T) {
	tests := []struct {
		line PaymentLine
		want float64
	}{
		{PaymentLine{Amount: 300, Installments: 3}, 100},
		{PaymentLine{Amount: 300, Installments: 1}, 300},
		{PaymentLine{Amount: 300}, 300},
		{PaymentLine{Amount: 100, Installments: 3}, 33.33},
	}
	for _, tt := range tests {
		if got := ReceivedNow(tt.line); got != tt.want {
			t.Errorf("ReceivedNow(%+v) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSettlementStatus(t *testing.T) {
	tests := []struct {
		amount, paid float64
		want         string
	}{
		{200, 0, StatusPending},
		{200, 50, StatusPartial},
		{200, 200, StatusPaid},
		{200, 250, StatusPaid},
		{0.3, 0.1 + 0.2, StatusPaid},
	}
	for _, tt := range tests {
		if got := SettlementStatus(tt.amount, tt.paid); got != tt.want {
			t.Errorf("SettlementStatus(%v, %v) = %s, want %s", tt.amount, tt.paid, got, tt.want)
		}
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		total       int64
		wantPage    int
		wantLimit   int
		wantPages   int64
		wantOffset  int
	}{
		{"defaults", "", "", 0, 1, DefaultPageLimit, 0, 0},
		{"exact pages", "2", "5", 10, 2, 5, 2, 5},
		{"partial last page", "3", "4", 9, 3, 4, 3, 8},
		{"garbage", "x", "-3", 25, 1, DefaultPageLimit, 3, 0},
		{"clamped limit", "1", "1000", 250, 1, MaxPageLimit, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ParsePageRequest(tt.page, tt.limit)
			p := NewPagination(req, tt.total)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.TotalPages != tt.wantPages {
				t.Errorf("NewPagination() = %+v", p)
			}
			if req.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", req.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Email: "a@b.c", PasswordHash: "secret-hash"})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); strings.Contains(got, "secret-hash") || strings.Contains(got, "password") {
		t.Errorf("Marshal(User) leaked the hash: %s", got)
	}
}
