// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/logging"
)

// errProcessLocalStore is returned when revoking against the memory backend,
// which no server process would ever see.
var errProcessLocalStore = errors.New("the memory revocation backend is process-local; configure badger or redis to revoke from the CLI")

func (c *cli) newRevokeCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a bearer token in the shared revocation store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
			if token == "" {
				return errors.New("--token is empty")
			}
			if b := c.cfg.Revocation.Backend; b == auth.BackendMemory || b == "" {
				return errProcessLocalStore
			}

			// Unverifiable tokens are revoked anyway; the gate rejects them regardless.
			if codec, err := auth.NewTokenCodec(&c.cfg.Security); err == nil {
				if verified, verr := codec.Verify(token); verr == nil {
					logging.Info().
						Int64("user_id", verified.UserID).
						Int64("tenant_id", verified.TenantID).
						Str("jti", verified.ID).
						Msg("Revoking token")
				} else {
					logging.Warn().Err(verr).Msg("Token does not verify; revoking anyway")
				}
			}

			store, err := auth.NewRevocationStore(&c.cfg.Revocation)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Revoke(cmd.Context(), token); err != nil {
				return fmt.Errorf("revoke: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token revoked in %s store\n", store.Backend())
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token to revoke")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
