// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/accountd/accountd/internal/account"
	accountpg "github.com/accountd/accountd/internal/account/postgres"
	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/credential"
	"github.com/accountd/accountd/internal/store"
	"github.com/accountd/accountd/internal/token"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the accountd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accountd",
		Short: "accountd - user account service",
		Long: `accountd manages user accounts: registration, credential
verification with session token issuance, lookups, updates, and removal.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewAdminCmd())

	return cmd
}

// loadConfig loads the configuration for a subcommand, honoring the
// global --config flag and the command's own flags as overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}

// buildService wires a fully configured account service against a live
// database pool. The caller owns the returned pool and must Close it.
func buildService(ctx context.Context, cfg *config.Config) (*account.Service, *pgxpool.Pool, error) {
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, oops.With("operation", "connect to database").Wrap(err)
	}

	issuer, err := token.NewIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL)
	if err != nil {
		pool.Close()
		return nil, nil, oops.With("operation", "create token issuer").Wrap(err)
	}

	svc, err := account.NewService(
		accountpg.NewRepository(pool),
		credential.NewArgon2idHasher(),
		issuer,
		cache.NewStore(),
	)
	if err != nil {
		pool.Close()
		return nil, nil, oops.With("operation", "create account service").Wrap(err)
	}

	return svc, pool, nil
}
