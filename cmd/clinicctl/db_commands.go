// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/tomtom215/aesthetica/internal/database"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			before, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			if err := db.Migrate(ctx); err != nil {
				return err
			}
			after, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			if after == before {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema already at version %d\n", after)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated schema from version %d to %d\n", before, after)
			return nil
		},
	}
}

// dbReport is what check-db prints.
type dbReport struct {
	ServerVersion string               `json:"server_version"`
	SchemaVersion int                  `json:"schema_version"`
	Latency       string               `json:"ping_latency"`
	Pool          database.PoolStats   `json:"pool"`
	Migrations    []database.Migration `json:"migrations"`
	Tables        map[string]int64     `json:"tables"`
}

func (c *cli) newCheckDBCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check-db",
		Short: "Check connectivity and print schema and table counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			start := time.Now()
			if err := db.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			report := dbReport{Latency: time.Since(start).Round(time.Microsecond).String(), Pool: db.Stats()}

			if report.ServerVersion, err = db.ServerVersion(ctx); err != nil {
				return err
			}
			if report.SchemaVersion, err = db.SchemaVersion(ctx); err != nil {
				return err
			}
			if report.Migrations, err = db.MigrationHistory(ctx); err != nil {
				return err
			}
			if report.Tables, err = db.TableCounts(ctx); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(out io.Writer, r dbReport) error {
	summary := [][]any{
		{"PostgreSQL", r.ServerVersion},
		{"Ping", r.Latency},
		{"Schema version", r.SchemaVersion},
		{"Pool", fmt.Sprintf("%d/%d connections (%d idle)", r.Pool.AcquiredConns, r.Pool.MaxConns, r.Pool.IdleConns)},
	}
	for _, m := range r.Migrations {
		summary = append(summary, []any{
			fmt.Sprintf("Migration %04d", m.Version),
			fmt.Sprintf("%s (%s)", m.Name, m.AppliedAt.Format(time.RFC3339)),
		})
	}
	if err := renderTable(out, []string{"Key", "Value"}, summary); err != nil {
		return err
	}

	tables := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	counts := make([][]any, 0, len(tables))
	for _, name := range tables {
		counts = append(counts, []any{name, r.Tables[name]})
	}

	fmt.Fprintln(out)
	return renderTable(out, []string{"Table", "Rows"}, counts)
}

// renderTable prints a borderless, left aligned table.
func renderTable(out io.Writer, headers []string, rows [][]any) error {
	symbols := tw.NewSymbolCustom("clinicctl").
		WithRow(" ").
		WithColumn(" ").
		WithTopLeft("").
		WithTopMid(" ").
		WithTopRight(" ").
		WithMidLeft(" ").
		WithCenter(" ").
		WithMidRight(" ").
		WithBottomLeft(" ").
		WithBottomMid(" ").
		WithBottomRight(" ")

	rd := tw.Rendition{Symbols: symbols}
	rd.Settings.Lines.ShowHeaderLine = tw.Off

	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewBlueprint(rd)),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
	)

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	table.Header(header...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
