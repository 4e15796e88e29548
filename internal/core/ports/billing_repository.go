package ports

import (
	"context"
	"time"

	"github.com/sactel/admin-console/internal/core/domain"
)

// RoomRepository persists rooms.
type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	FindByID(ctx context.Context, id string) (*domain.Room, error)
	// Update replaces the stored room with the same ID.
	Update(ctx context.Context, room *domain.Room) error
}

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	List(ctx context.Context) ([]domain.Invoice, error)
	Create(ctx context.Context, inv *domain.Invoice) error
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Invoice, error)
	// NextNumber returns the next sequential folio, e.g. "F-0007".
	NextNumber(ctx context.Context) (string, error)
}

// TransactionRepository persists ledger movements.
type TransactionRepository interface {
	List(ctx context.Context) ([]domain.Transaction, error)
	Insert(ctx context.Context, tx *domain.Transaction) error
	// SumIncome adds up income movements dated within [from, to).
	SumIncome(ctx context.Context, from, to time.Time) (float64, error)
}
