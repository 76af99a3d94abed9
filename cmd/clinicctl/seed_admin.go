// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/models"
	"github.com/tomtom215/aesthetica/internal/validation"
)

// signupFlags are the seed-admin inputs.
type signupFlags struct {
	company  string
	name     string
	email    string
	password string
}

// request validates the flags with the same rules as the signup endpoint.
func (f signupFlags) request() (models.SignupRequest, error) {
	req := models.SignupRequest{
		CompanyName: strings.TrimSpace(f.company),
		Name:        strings.TrimSpace(f.name),
		Email:       strings.TrimSpace(f.email),
		Password:    f.password,
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		details := verr.Details()
		fields := make([]string, 0, len(details))
		for field, msg := range details {
			fields = append(fields, field+": "+msg)
		}
		sort.Strings(fields)
		return req, fmt.Errorf("%s (%s)", verr.Message(), strings.Join(fields, "; "))
	}
	return req, nil
}

func (c *cli) newSeedAdminCmd() *cobra.Command {
	var flags signupFlags

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create a clinic with its owner and default payment methods",
		Example: "  clinicctl seed-admin --company \"Clínica Bela\" --name \"Ana Souza\" \\\n" +
			"    --email ana@bela.example --password 's3cret!'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			hash, err := auth.NewPasswordHasher(c.cfg.Security.BcryptCost).Hash(req.Password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := db.Signup(ctx, models.NewTenant{
				Name:         req.CompanyName,
				Email:        req.Email,
				OwnerName:    req.Name,
				OwnerEmail:   req.Email,
				PasswordHash: hash,
			})
			if errors.Is(err, database.ErrDuplicate) {
				return fmt.Errorf("email %s is already registered", req.Email)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created clinic %q (id %d, slug %s)\n", result.Tenant.Name, result.Tenant.ID, result.Tenant.Slug)
			fmt.Fprintf(cmd.OutOrStdout(), "Owner %s (user id %d)\n", result.User.Email, result.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.company, "company", "", "clinic name")
	cmd.Flags().StringVar(&flags.name, "name", "", "owner name")
	cmd.Flags().StringVar(&flags.email, "email", "", "owner email, also the clinic email")
	cmd.Flags().StringVar(&flags.password, "password", "", "owner password (6 to 72 characters)")
	for _, name := range []string{"company", "name", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
