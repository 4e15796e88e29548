package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sactel/admin-console/internal/core/domain"
)

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rooms",
		Aliases: []string{"habitaciones"},
		Short:   "List and update rooms",
	}
	cmd.AddCommand(newRoomsListCmd())
	cmd.AddCommand(newRoomsSetCmd())
	return cmd
}

func newRoomsListCmd() *cobra.Command {
	var estado string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireSession(app); err != nil {
				return err
			}
			rooms, err := app.Client.ListRooms(cmd.Context()).Unwrap()
			if err != nil {
				return fmt.Errorf("list rooms: %w", err)
			}
			if estado != "" {
				filtered := rooms[:0]
				for _, r := range rooms {
					if string(r.Estado) == estado {
						filtered = append(filtered, r)
					}
				}
				rooms = filtered
			}
			return outputOf(cmd).rooms(rooms)
		},
	}

	cmd.Flags().StringVar(&estado, "estado", "", "Only rooms in this status (disponible|ocupada|limpieza|mantenimiento)")
	return cmd
}

func newRoomsSetCmd() *cobra.Command {
	var (
		estado string
		tipo   string
		precio float64
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Change the status, type or price of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireRole(app, domain.RoleAdmin, domain.RoleAccountant); err != nil {
				return err
			}

			var patch domain.RoomPatch
			flags := cmd.Flags()
			if flags.Changed("estado") {
				st := domain.RoomStatus(estado)
				if !st.Valid() {
					return fmt.Errorf("unknown room status %q", estado)
				}
				patch.Estado = &st
			}
			if flags.Changed("tipo") {
				patch.Tipo = &tipo
			}
			if flags.Changed("precio") {
				if precio < 0 {
					return fmt.Errorf("--precio must not be negative")
				}
				patch.Precio = &precio
			}
			if patch.Estado == nil && patch.Tipo == nil && patch.Precio == nil {
				return fmt.Errorf("nothing to change: pass --estado, --tipo or --precio")
			}

			room, err := app.Client.PatchRoom(cmd.Context(), args[0], patch).Unwrap()
			if err != nil {
				return fmt.Errorf("update room %s: %w", args[0], err)
			}
			out := outputOf(cmd)
			out.success("Room %s updated", room.Numero)
			return out.rooms([]domain.Room{room})
		},
	}

	cmd.Flags().StringVar(&estado, "estado", "", "New status")
	cmd.Flags().StringVar(&tipo, "tipo", "", "New room type")
	cmd.Flags().Float64Var(&precio, "precio", 0, "New nightly price")
	return cmd
}
