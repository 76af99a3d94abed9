// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/aesthetica/internal/config"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// cli carries state shared by subcommands.
type cli struct {
	verbose bool
	cfg     *config.Config

	loadConfig func() (*config.Config, error)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(config.Load)
}

// newRootCmdWith builds the command tree around a configuration loader.
func newRootCmdWith(load func() (*config.Config, error)) *cobra.Command {
	c := &cli{loadConfig: load}

	root := &cobra.Command{
		Use:           "clinicctl",
		Short:         "Operate an Aesthetica deployment",
		Long:          "clinicctl migrates and checks the database, seeds clinics and revokes tokens.\nConfiguration comes from config.yaml and the environment, as for the server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Timestamp: true, Output: cmd.ErrOrStderr()})

			cfg, err := c.loadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.newMigrateCmd(),
		c.newCheckDBCmd(),
		c.newSeedAdminCmd(),
		c.newRevokeCmd(),
	)
	return root
}

// openDB connects with the configured pool settings.
func (c *cli) openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(ctx, c.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
