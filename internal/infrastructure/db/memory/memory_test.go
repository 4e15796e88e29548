package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sactel/admin-console/internal/core/domain"
)

func TestInvoiceRepository_NumberingContinuesAfterSeed(t *testing.T) {
	ds := Demo(time.Now())
	repo := NewInvoiceRepository(ds.Invoices...)

	got, err := repo.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "F-0006" {
		t.Fatalf("expected F-0006, got %s", got)
	}
}

func TestInvoiceRepository_IdempotencyLookup(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()

	if _, err := repo.FindByIdempotencyKey(ctx, ""); err != domain.ErrInvoiceNotFound {
		t.Fatalf("empty key must never match, got %v", err)
	}
	_ = repo.Create(ctx, &domain.Invoice{ID: "a", IdempotencyKey: "k"})
	inv, err := repo.FindByIdempotencyKey(ctx, "k")
	if err != nil || inv.ID != "a" {
		t.Fatalf("expected invoice a, got %+v %v", inv, err)
	}
}

func TestInvoiceRepository_DuplicateIdempotencyKey(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Invoice{ID: "a", IdempotencyKey: "k"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.Invoice{ID: "b", IdempotencyKey: "k"}); err != domain.ErrInvoiceExists {
		t.Fatalf("expected ErrInvoiceExists, got %v", err)
	}
	for _, id := range []string{"c", "d"} {
		if err := repo.Create(ctx, &domain.Invoice{ID: id}); err != nil {
			t.Fatalf("invoices without a key never conflict: %v", err)
		}
	}
	all, _ := repo.List(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(all))
	}
}

func TestTransactionRepository_SumIncomeWindow(t *testing.T) {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := NewTransactionRepository(
		domain.Transaction{Tipo: domain.TransactionIncome, Monto: 100.10, Fecha: day},
		domain.Transaction{Tipo: domain.TransactionIncome, Monto: 50.20, Fecha: day.Add(23 * time.Hour)},
		domain.Transaction{Tipo: domain.TransactionIncome, Monto: 999, Fecha: day.AddDate(0, 0, 1)},
		domain.Transaction{Tipo: domain.TransactionExpense, Monto: 30, Fecha: day.Add(time.Hour)},
	)

	sum, err := repo.SumIncome(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SumIncome: %v", err)
	}
	if sum != 150.30 {
		t.Fatalf("expected 150.30, got %v", sum)
	}
}

func TestRoomRepository_UpdateUnknown(t *testing.T) {
	repo := NewRoomRepository()
	if err := repo.Update(context.Background(), &domain.Room{ID: "x"}); err != domain.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	if _, err := repo.Create(ctx, &domain.User{ID: "1", Email: "a@b.c"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{ID: "2", Email: "a@b.c"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	u, err := repo.FindByID(ctx, "1")
	if err != nil || u.Email != "a@b.c" {
		t.Fatalf("FindByID: %+v %v", u, err)
	}
}

func TestDemo_IsConsistent(t *testing.T) {
	ds := Demo(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	ids := map[string]bool{}
	for _, r := range ds.Rooms {
		if ids[r.ID] {
			t.Fatalf("duplicate room id %s", r.ID)
		}
		ids[r.ID] = true
		if !r.Estado.Valid() {
			t.Fatalf("invalid room state %s", r.Estado)
		}
	}

	paid := 0
	for _, inv := range ds.Invoices {
		if inv.Total != domain.RoundCents(inv.Subtotal+inv.IVA) {
			t.Fatalf("inconsistent totals on %s", inv.Numero)
		}
		if !ids[inv.HabitacionID] {
			t.Fatalf("invoice %s references unknown room", inv.Numero)
		}
		if inv.Estado == domain.InvoicePaid {
			paid++
		}
	}

	income := 0
	for _, tx := range ds.Transactions {
		if tx.Tipo == domain.TransactionIncome {
			income++
		}
	}
	if income != paid {
		t.Fatalf("every paid invoice needs one income movement: %d vs %d", income, paid)
	}

	for _, u := range DemoUsers() {
		if _, err := domain.ParseRole(u.Role); err != nil {
			t.Fatalf("demo user %s: %v", u.Email, err)
		}
	}
}

func TestActivityRepository_RecentNewestFirst(t *testing.T) {
	repo := NewActivityRepository()
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	_ = repo.Insert(ctx, &domain.Activity{ID: "old", At: t0})
	_ = repo.Insert(ctx, &domain.Activity{ID: "new", At: t0.Add(time.Hour)})
	_ = repo.Insert(ctx, &domain.Activity{ID: "tie", At: t0})

	got, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"new", "tie", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}

	got, _ = repo.Recent(ctx, 1)
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("expected only the newest entry, got %+v", got)
	}
}
