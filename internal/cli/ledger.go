package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sactel/admin-console/internal/core/domain"
)

func newTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transacciones"},
		Short:   "Ledger movements",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List movements with income and expense totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireSession(app); err != nil {
				return err
			}
			txs, err := app.Client.ListTransactions(cmd.Context()).Unwrap()
			if err != nil {
				return fmt.Errorf("list transactions: %w", err)
			}
			return outputOf(cmd).transactions(txs)
		},
	})
	return cmd
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Console accounts (admin only)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireRole(app, domain.RoleAdmin); err != nil {
				return err
			}
			users, err := app.Client.ListUsers(cmd.Context()).Unwrap()
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			return outputOf(cmd).users(users)
		},
	})
	return cmd
}

func newActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"bitacora"},
		Short:   "Recent back-office activity (admin only)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireRole(app, domain.RoleAdmin); err != nil {
				return err
			}
			entries, err := app.Client.ListActivity(cmd.Context(), limit).Unwrap()
			if err != nil {
				return fmt.Errorf("list activity: %w", err)
			}
			return outputOf(cmd).activity(entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries")
	return cmd
}
