package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sactel/admin-console/internal/core/domain"
)

const dateLayout = "2006-01-02"

// output routes pterm printers to the command's writer.
type output struct {
	w io.Writer
}

func outputOf(cmd *cobra.Command) output {
	return output{w: cmd.OutOrStdout()}
}

func (o output) success(format string, a ...any) { pterm.Success.WithWriter(o.w).Printfln(format, a...) }
func (o output) info(format string, a ...any)    { pterm.Info.WithWriter(o.w).Printfln(format, a...) }
func (o output) warning(format string, a ...any) { pterm.Warning.WithWriter(o.w).Printfln(format, a...) }
func (o output) failure(format string, a ...any) { pterm.Error.WithWriter(o.w).Printfln(format, a...) }

func (o output) section(title string) {
	pterm.DefaultSection.WithWriter(o.w).Println(title)
}

func (o output) table(data [][]string, header bool) error {
	t := pterm.DefaultTable.WithWriter(o.w).WithData(data)
	if header {
		t = t.WithHasHeader()
	}
	return t.Render()
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func (o output) stats(s domain.DashboardStats) error {
	return o.table([][]string{
		{"Occupancy", fmt.Sprintf("%.1f%%", s.Ocupacion)},
		{"Available rooms", strconv.Itoa(s.HabitacionesDisponibles)},
		{"Income today", money(s.IngresosDia)},
		{"Pending invoices", strconv.Itoa(s.FacturasPendientes)},
	}, false)
}

func (o output) rooms(rooms []domain.Room) error {
	if len(rooms) == 0 {
		o.info("No rooms")
		return nil
	}
	data := [][]string{{"ID", "Number", "Type", "Floor", "Price", "Status"}}
	for _, r := range rooms {
		data = append(data, []string{r.ID, r.Numero, r.Tipo, strconv.Itoa(r.Piso), money(r.Precio), string(r.Estado)})
	}
	return o.table(data, true)
}

func (o output) invoices(invoices []domain.Invoice) error {
	if len(invoices) == 0 {
		o.info("No invoices")
		return nil
	}
	data := [][]string{{"Number", "Client", "Date", "Total", "Status"}}
	for _, inv := range invoices {
		data = append(data, []string{inv.Numero, inv.Cliente, date(inv.Fecha), money(inv.Total), string(inv.Estado)})
	}
	return o.table(data, true)
}

func (o output) transactions(txs []domain.Transaction) error {
	if len(txs) == 0 {
		o.info("No transactions")
		return nil
	}
	var income, expense float64
	data := [][]string{{"Date", "Kind", "Concept", "Amount", "Reference"}}
	for _, tx := range txs {
		switch tx.Tipo {
		case domain.TransactionIncome:
			income += tx.Monto
		case domain.TransactionExpense:
			expense += tx.Monto
		}
		data = append(data, []string{date(tx.Fecha), string(tx.Tipo), tx.Concepto, money(tx.Monto), tx.Referencia})
	}
	if err := o.table(data, true); err != nil {
		return err
	}
	pterm.Fprintln(o.w, fmt.Sprintf("Income %s  Expenses %s  Balance %s",
		money(domain.RoundCents(income)), money(domain.RoundCents(expense)), money(domain.RoundCents(income-expense))))
	return nil
}

func (o output) users(users []domain.User) error {
	if len(users) == 0 {
		o.info("No users")
		return nil
	}
	data := [][]string{{"Email", "Name", "Role", "Active"}}
	for _, u := range users {
		data = append(data, []string{u.Email, u.Nombre, string(u.Role), strconv.FormatBool(u.Activo)})
	}
	return o.table(data, true)
}

func (o output) activity(entries []domain.Activity) error {
	if len(entries) == 0 {
		o.info("No activity")
		return nil
	}
	data := [][]string{{"When", "Kind", "Entity", "Actor", "Summary"}}
	for _, a := range entries {
		data = append(data, []string{a.At.Local().Format(time.DateTime), string(a.Kind), a.EntityID, a.Actor, a.Summary})
	}
	return o.table(data, true)
}
