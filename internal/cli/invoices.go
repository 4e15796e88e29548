package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sactel/admin-console/internal/core/domain"
)

func newInvoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"facturas"},
		Short:   "List and issue invoices",
	}
	cmd.AddCommand(newInvoicesListCmd())
	cmd.AddCommand(newInvoicesCreateCmd())
	return cmd
}

func newInvoicesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireSession(app); err != nil {
				return err
			}
			invoices, err := app.Client.ListInvoices(cmd.Context()).Unwrap()
			if err != nil {
				return fmt.Errorf("list invoices: %w", err)
			}
			return outputOf(cmd).invoices(invoices)
		},
	}
}

func newInvoicesCreateCmd() *cobra.Command {
	var (
		file string
		key  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an invoice from a YAML draft",
		Long: `Issue an invoice from a YAML draft. Use "-" to read the draft from stdin.

  cliente: Turismo Azteca SC
  rfc: TAZ990909QW2
  habitacionId: hab-105
  conceptos:
    - descripcion: Hospedaje
      cantidad: 2
      precioUnitario: 1200

Retrying with the same --idempotency-key returns the invoice created by the
first attempt instead of a duplicate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireRole(app, domain.RoleAdmin, domain.RoleAccountant); err != nil {
				return err
			}

			draft, err := loadDraft(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if key == "" {
				key = uuid.NewString()
			}

			inv, err := app.Client.CreateInvoice(cmd.Context(), draft, key).Unwrap()
			if err != nil {
				return fmt.Errorf("create invoice: %w", err)
			}
			out := outputOf(cmd)
			out.success("Invoice %s issued to %s for %s (idempotency key %s)", inv.Numero, inv.Cliente, money(inv.Total), key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML draft file, or - for stdin")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key (random when empty)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadDraft(stdin io.Reader, file string) (domain.InvoiceDraft, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return domain.InvoiceDraft{}, fmt.Errorf("open draft: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parseDraft(r)
}

// parseDraft decodes a YAML invoice draft and checks the fields the backend
// would reject anyway.
func parseDraft(r io.Reader) (domain.InvoiceDraft, error) {
	var draft domain.InvoiceDraft
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&draft); err != nil {
		if errors.Is(err, io.EOF) {
			return draft, errors.New("draft is empty")
		}
		return draft, fmt.Errorf("parse draft: %w", err)
	}

	if draft.Cliente == "" {
		return draft, errors.New("draft: cliente is required")
	}
	if len(draft.Conceptos) == 0 {
		return draft, errors.New("draft: at least one concepto is required")
	}
	for i, line := range draft.Conceptos {
		if line.Descripcion == "" || line.Cantidad <= 0 || line.PrecioUnitario < 0 {
			return draft, fmt.Errorf("draft: concepto %d needs descripcion, cantidad > 0 and precioUnitario >= 0", i+1)
		}
	}
	if draft.Estado != "" && draft.Estado != domain.InvoicePending && draft.Estado != domain.InvoicePaid {
		return draft, fmt.Errorf("draft: estado must be %s or %s", domain.InvoicePending, domain.InvoicePaid)
	}
	return draft, nil
}
