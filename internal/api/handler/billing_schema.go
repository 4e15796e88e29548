package handler

import (
	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type invoiceLineRequest struct {
	Descripcion    string  `json:"descripcion"    validate:"required"`
	Cantidad       float64 `json:"cantidad"       validate:"gt=0"`
	PrecioUnitario float64 `json:"precioUnitario" validate:"gte=0"`
}

type createInvoiceRequest struct {
	Cliente      string               `json:"cliente"      validate:"required"`
	RFC          string               `json:"rfc"`
	HabitacionID string               `json:"habitacionId"`
	Conceptos    []invoiceLineRequest `json:"conceptos"    validate:"required,min=1,dive"`
	Estado       string               `json:"estado"       validate:"omitempty,oneof=pendiente pagada"`
}

type patchRoomRequest struct {
	Tipo   *string  `json:"tipo"   validate:"omitempty,min=1"`
	Precio *float64 `json:"precio" validate:"omitempty,gte=0"`
	Estado *string  `json:"estado" validate:"omitempty,oneof=disponible ocupada limpieza mantenimiento"`
}

// --- Request → Service input ---

func toCreateInvoiceInput(req createInvoiceRequest, idempotencyKey string) ports.CreateInvoiceInput {
	lines := make([]domain.InvoiceLine, len(req.Conceptos))
	for i, l := range req.Conceptos {
		lines[i] = domain.InvoiceLine{
			Descripcion:    l.Descripcion,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
		}
	}
	return ports.CreateInvoiceInput{
		Draft: domain.InvoiceDraft{
			Cliente:      req.Cliente,
			RFC:          req.RFC,
			HabitacionID: req.HabitacionID,
			Conceptos:    lines,
			Estado:       domain.InvoiceStatus(req.Estado),
		},
		IdempotencyKey: idempotencyKey,
	}
}

func toRoomPatch(req patchRoomRequest) domain.RoomPatch {
	patch := domain.RoomPatch{Tipo: req.Tipo, Precio: req.Precio}
	if req.Estado != nil {
		estado := domain.RoomStatus(*req.Estado)
		patch.Estado = &estado
	}
	return patch
}
