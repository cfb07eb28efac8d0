// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/accountd/accountd/internal/logging"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the account service daemon",
		Long: `Connect to the database, apply pending migrations, and host the
metrics and health endpoints until interrupted.`,
		RunE: runServe,
	}

	cmd.Flags().String("metrics-addr", "", "metrics listen address (overrides config)")
	cmd.Flags().String("log-format", "", "log format: json or text (overrides config)")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.SetDefault("accountd", version, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("applying migrations")
	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	obs := observability.NewServer(cfg.MetricsAddr, func(ctx context.Context) bool {
		return pool.Ping(ctx) == nil
	})
	errCh, err := obs.Start()
	if err != nil {
		return oops.With("operation", "start observability server").Wrap(err)
	}

	slog.Info("accountd started", "metrics_addr", obs.Addr())

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr, ok := <-errCh:
		if ok && serveErr != nil {
			return oops.With("operation", "observability server").Wrap(serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obs.Stop(shutdownCtx); err != nil {
		return err
	}

	slog.Info("accountd stopped")
	return nil
}
