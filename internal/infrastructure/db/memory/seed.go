package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

// Dataset is a consistent set of demo billing records.
type Dataset struct {
	Rooms        []domain.Room
	Invoices     []domain.Invoice
	Transactions []domain.Transaction
}

// DemoUsers are the accounts registered on a fresh dev backend. They match
// the builtin fallback credentials.
func DemoUsers() []ports.RegisterInput {
	return []ports.RegisterInput{
		{Email: "admin@empresa.com", Password: "admin123", Nombre: "Administrador", Role: string(domain.RoleAdmin)},
		{Email: "contador@empresa.com", Password: "contador123", Nombre: "Contador General", Role: string(domain.RoleAccountant)},
		{Email: "asistente@empresa.com", Password: "asistente123", Nombre: "Asistente Contable", Role: string(domain.RoleAssistant)},
		{Email: "visor@empresa.com", Password: "visor123", Nombre: "Usuario Visor", Role: string(domain.RoleViewer)},
	}
}

// RegisterDemoUsers creates the DemoUsers accounts through the auth service,
// skipping the ones that already exist.
func RegisterDemoUsers(ctx context.Context, auth ports.AuthService) error {
	for _, in := range DemoUsers() {
		if _, err := auth.Register(ctx, in); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("register %s: %w", in.Email, err)
		}
	}
	return nil
}

// Demo builds the demo dataset relative to now.
func Demo(now time.Time) Dataset {
	now = now.UTC()
	var ds Dataset

	layout := []struct {
		tipo   string
		precio float64
	}{
		{"sencilla", 850}, {"sencilla", 850}, {"doble", 1200}, {"doble", 1200}, {"suite", 2500},
	}
	states := []domain.RoomStatus{
		domain.RoomOccupied, domain.RoomAvailable, domain.RoomOccupied, domain.RoomCleaning, domain.RoomAvailable,
		domain.RoomAvailable, domain.RoomOccupied, domain.RoomMaintenance, domain.RoomAvailable, domain.RoomOccupied,
	}
	for i, st := range states {
		floor := i/len(layout) + 1
		l := layout[i%len(layout)]
		ds.Rooms = append(ds.Rooms, domain.Room{
			ID:     fmt.Sprintf("hab-%d%02d", floor, i%len(layout)+1),
			Numero: fmt.Sprintf("%d%02d", floor, i%len(layout)+1),
			Tipo:   l.tipo,
			Piso:   floor,
			Precio: l.precio,
			Estado: st,
		})
	}

	invoices := []struct {
		cliente string
		rfc     string
		room    int
		nights  float64
		estado  domain.InvoiceStatus
		daysAgo int
	}{
		{"Hotelera del Norte SA de CV", "HNO010101AB1", 0, 2, domain.InvoicePaid, 0},
		{"Juan Pérez López", "PELJ800101XX1", 2, 3, domain.InvoicePending, 1},
		{"Turismo Azteca SC", "TAZ990909QW2", 4, 1, domain.InvoicePaid, 2},
		{"María González", "GOMM850505AA3", 6, 4, domain.InvoicePending, 3},
		{"Eventos del Bajío SA", "EBA120312RT5", 9, 2, domain.InvoiceCancelled, 5},
	}
	for i, row := range invoices {
		room := ds.Rooms[row.room]
		inv := domain.Invoice{
			ID:           fmt.Sprintf("fac-%04d", i+1),
			Numero:       fmt.Sprintf("F-%04d", i+1),
			Cliente:      row.cliente,
			RFC:          row.rfc,
			HabitacionID: room.ID,
			Fecha:        now.AddDate(0, 0, -row.daysAgo),
			Conceptos: []domain.InvoiceLine{
				{Descripcion: "Hospedaje habitación " + room.Numero, Cantidad: row.nights, PrecioUnitario: room.Precio},
			},
			Estado: row.estado,
		}
		inv.Recalculate()
		ds.Invoices = append(ds.Invoices, inv)

		if inv.Estado == domain.InvoicePaid {
			ds.Transactions = append(ds.Transactions, domain.Transaction{
				ID:         fmt.Sprintf("mov-%04d", len(ds.Transactions)+1),
				Fecha:      inv.Fecha,
				Tipo:       domain.TransactionIncome,
				Concepto:   fmt.Sprintf("Factura %s - %s", inv.Numero, inv.Cliente),
				Monto:      inv.Total,
				Referencia: inv.Numero,
				FacturaID:  inv.ID,
			})
		}
	}

	expenses := []struct {
		concepto string
		monto    float64
		daysAgo  int
	}{
		{"Suministros de limpieza", 1850.40, 0},
		{"Mantenimiento aire acondicionado", 3200, 1},
		{"Pago de luz CFE", 5400.75, 4},
	}
	for _, e := range expenses {
		ds.Transactions = append(ds.Transactions, domain.Transaction{
			ID:       fmt.Sprintf("mov-%04d", len(ds.Transactions)+1),
			Fecha:    now.AddDate(0, 0, -e.daysAgo),
			Tipo:     domain.TransactionExpense,
			Concepto: e.concepto,
			Monto:    e.monto,
		})
	}
	return ds
}
