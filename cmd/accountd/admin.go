// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/accountd/accountd/internal/account"
)

const adminTimeout = 30 * time.Second

// NewAdminCmd creates the admin subcommand group for direct account
// maintenance against the database.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Account maintenance operations",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminRemoveCmd())
	cmd.AddCommand(newAdminRemoveAllCmd())

	return cmd
}

// withService loads config, builds the account service, and runs fn with
// a bounded context.
func withService(cmd *cobra.Command, fn func(context.Context, *account.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), adminTimeout)
	defer cancel()

	svc, pool, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, svc)
}

func newAdminCreateCmd() *cobra.Command {
	var draft account.Draft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, svc *account.Service) error {
				created, err := svc.Create(ctx, draft)
				if err != nil {
					return err
				}
				cmd.Printf("Created account %s (%s)\n", created.ID, created.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "account holder name")
	cmd.Flags().StringVar(&draft.Email, "email", "", "account email address")
	cmd.Flags().StringVar(&draft.Phone, "phone", "", "contact phone number")
	cmd.Flags().StringVar(&draft.ManagementOf, "management-of", "", "managed entity reference")
	cmd.Flags().StringVar(&draft.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("name")     //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is registered above

	return cmd
}

func newAdminListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, svc *account.Service) error {
				accounts, err := svc.FindAll(ctx)
				if err != nil {
					return err
				}
				cmd.Print(formatAccountTable(accounts))
				return nil
			})
		},
	}
}

func newAdminRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an account by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *account.Service) error {
				removal, err := svc.RemoveByID(ctx, args[0])
				if err != nil {
					return err
				}
				cmd.Printf("Removed account %s\n", removal.ID)
				return nil
			})
		},
	}
}

func newAdminRemoveAllCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "remove-all",
		Short: "Remove every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return oops.Code("CONFIRMATION_REQUIRED").
					Errorf("remove-all deletes every account; re-run with --yes to confirm")
			}
			return withService(cmd, func(ctx context.Context, svc *account.Service) error {
				removal, err := svc.RemoveAll(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("Removed %d accounts\n", removal.Count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm removal of all accounts")

	return cmd
}

// formatAccountTable renders accounts as an aligned text table.
func formatAccountTable(accounts []account.Public) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADMIN")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", a.ID, a.Name, a.Email, a.Admin)
	}
	_ = w.Flush() //nolint:errcheck // strings.Builder writes cannot fail

	return sb.String()
}
