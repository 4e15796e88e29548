package cli

import (
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show occupancy, rooms, invoices and recent movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireSession(app); err != nil {
				return err
			}
			out := outputOf(cmd)
			d := app.LoadDashboard(cmd.Context())

			// Each panel renders on its own; one failed load does not hide the rest.
			out.section("Summary")
			if stats, err := d.Stats.Unwrap(); err != nil {
				out.failure("stats: %s", err)
			} else if err := out.stats(stats); err != nil {
				return err
			}

			out.section("Rooms")
			if rooms, err := d.Rooms.Unwrap(); err != nil {
				out.failure("rooms: %s", err)
			} else if err := out.rooms(rooms); err != nil {
				return err
			}

			out.section("Invoices")
			if invoices, err := d.Invoices.Unwrap(); err != nil {
				out.failure("invoices: %s", err)
			} else if err := out.invoices(head(invoices, 5)); err != nil {
				return err
			}

			out.section("Recent movements")
			if txs, err := d.Transactions.Unwrap(); err != nil {
				out.failure("transactions: %s", err)
			} else if err := out.transactions(head(txs, 5)); err != nil {
				return err
			}
			return nil
		},
	}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
