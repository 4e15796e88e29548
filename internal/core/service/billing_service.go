package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

type BillingService struct {
	rooms    ports.RoomRepository
	invoices ports.InvoiceRepository
	txs      ports.TransactionRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewBillingService(
	rooms ports.RoomRepository,
	invoices ports.InvoiceRepository,
	txs ports.TransactionRepository,
	logger zerolog.Logger,
) *BillingService {
	return &BillingService{
		rooms:    rooms,
		invoices: invoices,
		txs:      txs,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DashboardStats summarises occupancy, today's income and unpaid invoices.
func (s *BillingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard rooms: %w", err)
	}
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	income, err := s.txs.SumIncome(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("dashboard income: %w", err)
	}

	stats := &domain.DashboardStats{IngresosDia: domain.RoundCents(income)}
	occupied := 0
	for _, r := range rooms {
		switch r.Estado {
		case domain.RoomOccupied:
			occupied++
		case domain.RoomAvailable:
			stats.HabitacionesDisponibles++
		}
	}
	if len(rooms) > 0 {
		stats.Ocupacion = domain.RoundCents(float64(occupied) * 100 / float64(len(rooms)))
	}
	for _, inv := range invoices {
		if inv.Estado == domain.InvoicePending {
			stats.FacturasPendientes++
		}
	}
	return stats, nil
}

func (s *BillingService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

// PatchRoom applies a partial update. Status changes must follow the room
// state machine.
func (s *BillingService) PatchRoom(ctx context.Context, id string, patch domain.RoomPatch) (*domain.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Tipo != nil {
		tipo := strings.TrimSpace(*patch.Tipo)
		if tipo == "" {
			return nil, fmt.Errorf("%w: tipo must not be empty", domain.ErrInvalidRoom)
		}
		room.Tipo = tipo
	}
	if patch.Precio != nil {
		if *patch.Precio < 0 {
			return nil, fmt.Errorf("%w: precio must not be negative", domain.ErrInvalidRoom)
		}
		room.Precio = domain.RoundCents(*patch.Precio)
	}
	if patch.Estado != nil {
		next := *patch.Estado
		if !next.Valid() {
			return nil, fmt.Errorf("%w: unknown estado %q", domain.ErrInvalidRoom, next)
		}
		if !room.Estado.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: cannot move from %s to %s", domain.ErrInvalidRoom, room.Estado, next)
		}
		room.Estado = next
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		s.logger.Error().Err(err).Str("room_id", id).Msg("failed to update room")
		return nil, err
	}
	s.logger.Info().Str("room_id", id).Str("estado", string(room.Estado)).Msg("room updated")
	return room, nil
}

func (s *BillingService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoices.List(ctx)
}

// CreateInvoice issues a new invoice. If an idempotency key is provided and
// already seen, the previously created invoice is returned without side
// effects. Paid invoices book a matching income transaction.
//
// The lookup and the insert are not atomic: the repository rejects a second
// insert for the same key with domain.ErrInvoiceExists, and the loser of
// that race replays the winner's invoice.
func (s *BillingService) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*ports.InvoiceResult, error) {
	if replay, ok := s.replay(ctx, input.IdempotencyKey); ok {
		return replay, nil
	}

	draft := input.Draft
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	numero, err := s.invoices.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate invoice number: %w", err)
	}

	inv := &domain.Invoice{
		ID:             uuid.NewString(),
		Numero:         numero,
		Cliente:        draft.Cliente,
		RFC:            draft.RFC,
		HabitacionID:   draft.HabitacionID,
		Fecha:          s.now(),
		Conceptos:      draft.Conceptos,
		Estado:         draft.Estado,
		IdempotencyKey: input.IdempotencyKey,
	}
	inv.Recalculate()

	if err := s.invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrInvoiceExists) {
			if replay, ok := s.replay(ctx, input.IdempotencyKey); ok {
				return replay, nil
			}
		}
		s.logger.Error().Err(err).Msg("failed to create invoice")
		return nil, err
	}
	s.logger.Info().Str("numero", inv.Numero).Float64("total", inv.Total).Msg("invoice created")

	if inv.Estado == domain.InvoicePaid {
		tx := &domain.Transaction{
			ID:         uuid.NewString(),
			Fecha:      inv.Fecha,
			Tipo:       domain.TransactionIncome,
			Concepto:   fmt.Sprintf("Factura %s - %s", inv.Numero, inv.Cliente),
			Monto:      inv.Total,
			Referencia: inv.Numero,
			FacturaID:  inv.ID,
		}
		if err := s.txs.Insert(ctx, tx); err != nil {
			s.logger.Warn().Err(err).Str("numero", inv.Numero).Msg("failed to book income transaction")
		}
	}

	return &ports.InvoiceResult{Invoice: inv}, nil
}

// replay returns the invoice already created under key, if any.
func (s *BillingService) replay(ctx context.Context, key string) (*ports.InvoiceResult, bool) {
	if key == "" {
		return nil, false
	}
	existing, err := s.invoices.FindByIdempotencyKey(ctx, key)
	if err != nil || existing == nil {
		return nil, false
	}
	s.logger.Info().Str("idempotency_key", key).Str("numero", existing.Numero).Msg("idempotent replay")
	return &ports.InvoiceResult{Invoice: existing, AlreadyExisted: true}, true
}

func (s *BillingService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.txs.List(ctx)
}

func validateDraft(d *domain.InvoiceDraft) error {
	d.Cliente = strings.TrimSpace(d.Cliente)
	if d.Cliente == "" {
		return fmt.Errorf("%w: cliente is required", domain.ErrInvalidInvoice)
	}
	if len(d.Conceptos) == 0 {
		return fmt.Errorf("%w: at least one concepto is required", domain.ErrInvalidInvoice)
	}
	for i, c := range d.Conceptos {
		if strings.TrimSpace(c.Descripcion) == "" {
			return fmt.Errorf("%w: concepto %d has no descripcion", domain.ErrInvalidInvoice, i+1)
		}
		if c.Cantidad <= 0 || c.PrecioUnitario < 0 {
			return fmt.Errorf("%w: concepto %d has invalid cantidad or precio", domain.ErrInvalidInvoice, i+1)
		}
	}
	if d.Estado == "" {
		d.Estado = domain.InvoicePending
	}
	if d.Estado != domain.InvoicePending && d.Estado != domain.InvoicePaid {
		return fmt.Errorf("%w: new invoices must be pendiente or pagada", domain.ErrInvalidInvoice)
	}
	return nil
}
