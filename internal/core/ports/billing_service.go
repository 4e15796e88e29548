package ports

import (
	"context"

	"github.com/sactel/admin-console/internal/core/domain"
)

// CreateInvoiceInput carries a draft plus the optional idempotency key.
type CreateInvoiceInput struct {
	Draft          domain.InvoiceDraft
	IdempotencyKey string
}

// InvoiceResult is returned after creating an invoice.
type InvoiceResult struct {
	Invoice *domain.Invoice
	// AlreadyExisted is true when the Idempotency-Key matched an earlier invoice.
	AlreadyExisted bool
}

// BillingService defines the data service use cases.
type BillingService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	PatchRoom(ctx context.Context, id string, patch domain.RoomPatch) (*domain.Room, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*InvoiceResult, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}
