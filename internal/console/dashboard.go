package console

import (
	"context"
	"sync"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/pkg/result"
)

// Dashboard holds the four independent loads of the home page. A failed
// load does not affect the others.
type Dashboard struct {
	Stats        result.Result[domain.DashboardStats]
	Rooms        result.Result[[]domain.Room]
	Invoices     result.Result[[]domain.Invoice]
	Transactions result.Result[[]domain.Transaction]
}

// LoadDashboard issues the dashboard calls concurrently and waits for all of
// them.
func (a *App) LoadDashboard(ctx context.Context) Dashboard {
	var (
		d  Dashboard
		wg sync.WaitGroup
	)
	wg.Add(4)
	go func() { defer wg.Done(); d.Stats = a.Client.DashboardStats(ctx) }()
	go func() { defer wg.Done(); d.Rooms = a.Client.ListRooms(ctx) }()
	go func() { defer wg.Done(); d.Invoices = a.Client.ListInvoices(ctx) }()
	go func() { defer wg.Done(); d.Transactions = a.Client.ListTransactions(ctx) }()
	wg.Wait()
	return d
}
