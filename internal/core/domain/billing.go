package domain

import (
	"math"
	"time"
)

// RoomStatus is the housekeeping state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "disponible"
	RoomOccupied    RoomStatus = "ocupada"
	RoomCleaning    RoomStatus = "limpieza"
	RoomMaintenance RoomStatus = "mantenimiento"
)

// roomTransitions defines the allowed room state machine.
var roomTransitions = map[RoomStatus][]RoomStatus{
	RoomAvailable:   {RoomOccupied, RoomMaintenance},
	RoomOccupied:    {RoomCleaning, RoomMaintenance},
	RoomCleaning:    {RoomAvailable, RoomMaintenance},
	RoomMaintenance: {RoomAvailable},
}

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	_, ok := roomTransitions[s]
	return ok
}

// CanTransitionTo reports whether a room may move from s to next. Staying in
// the same state is always allowed.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range roomTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Room is a rentable unit ("habitación").
type Room struct {
	ID     string     `json:"id" bson:"_id"`
	Numero string     `json:"numero" bson:"numero"`
	Tipo   string     `json:"tipo" bson:"tipo"`
	Piso   int        `json:"piso" bson:"piso"`
	Precio float64    `json:"precio" bson:"precio"`
	Estado RoomStatus `json:"estado" bson:"estado"`
}

// RoomPatch is a partial room update; nil fields are left untouched.
type RoomPatch struct {
	Tipo   *string     `json:"tipo,omitempty"`
	Precio *float64    `json:"precio,omitempty"`
	Estado *RoomStatus `json:"estado,omitempty"`
}

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pendiente"
	InvoicePaid      InvoiceStatus = "pagada"
	InvoiceCancelled InvoiceStatus = "cancelada"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

// VATRate is the IVA applied to every invoice subtotal.
const VATRate = 0.16

// InvoiceLine is one concept billed on an invoice.
type InvoiceLine struct {
	Descripcion    string  `json:"descripcion" bson:"descripcion" yaml:"descripcion"`
	Cantidad       float64 `json:"cantidad" bson:"cantidad" yaml:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario" bson:"precio_unitario" yaml:"precioUnitario"`
	Importe        float64 `json:"importe" bson:"importe" yaml:"-"`
}

// Invoice is a "factura".
type Invoice struct {
	ID             string        `json:"id" bson:"_id"`
	Numero         string        `json:"numero" bson:"numero"`
	Cliente        string        `json:"cliente" bson:"cliente"`
	RFC            string        `json:"rfc,omitempty" bson:"rfc,omitempty"`
	HabitacionID   string        `json:"habitacionId,omitempty" bson:"habitacion_id,omitempty"`
	Fecha          time.Time     `json:"fecha" bson:"fecha"`
	Conceptos      []InvoiceLine `json:"conceptos" bson:"conceptos"`
	Subtotal       float64       `json:"subtotal" bson:"subtotal"`
	IVA            float64       `json:"iva" bson:"iva"`
	Total          float64       `json:"total" bson:"total"`
	Estado         InvoiceStatus `json:"estado" bson:"estado"`
	IdempotencyKey string        `json:"-" bson:"idempotency_key,omitempty"`
}

// Recalculate derives line amounts and totals from quantities and unit prices.
func (inv *Invoice) Recalculate() {
	var subtotal float64
	for i := range inv.Conceptos {
		line := &inv.Conceptos[i]
		line.Importe = RoundCents(line.Cantidad * line.PrecioUnitario)
		subtotal += line.Importe
	}
	inv.Subtotal = RoundCents(subtotal)
	inv.IVA = RoundCents(inv.Subtotal * VATRate)
	inv.Total = RoundCents(inv.Subtotal + inv.IVA)
}

// InvoiceDraft is the client-supplied part of a new invoice.
type InvoiceDraft struct {
	Cliente      string        `json:"cliente" yaml:"cliente"`
	RFC          string        `json:"rfc,omitempty" yaml:"rfc,omitempty"`
	HabitacionID string        `json:"habitacionId,omitempty" yaml:"habitacionId,omitempty"`
	Conceptos    []InvoiceLine `json:"conceptos" yaml:"conceptos"`
	Estado       InvoiceStatus `json:"estado,omitempty" yaml:"estado,omitempty"`
}

// TransactionKind separates income from expenses.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "ingreso"
	TransactionExpense TransactionKind = "egreso"
)

// Transaction is a ledger movement ("transacción").
type Transaction struct {
	ID         string          `json:"id" bson:"_id"`
	Fecha      time.Time       `json:"fecha" bson:"fecha"`
	Tipo       TransactionKind `json:"tipo" bson:"tipo"`
	Concepto   string          `json:"concepto" bson:"concepto"`
	Monto      float64         `json:"monto" bson:"monto"`
	Referencia string          `json:"referencia,omitempty" bson:"referencia,omitempty"`
	FacturaID  string          `json:"facturaId,omitempty" bson:"factura_id,omitempty"`
}

// DashboardStats is the summary shown on the console home page.
type DashboardStats struct {
	Ocupacion               float64 `json:"ocupacion"`
	HabitacionesDisponibles int     `json:"habitacionesDisponibles"`
	IngresosDia             float64 `json:"ingresosDia"`
	FacturasPendientes      int     `json:"facturasPendientes"`
}

// RoundCents rounds an amount to two decimals, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
