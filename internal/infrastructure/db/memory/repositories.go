// Package memory provides in-process repositories for the dev backend and
// for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

var (
	_ ports.UserRepository        = (*UserRepository)(nil)
	_ ports.RoomRepository        = (*RoomRepository)(nil)
	_ ports.InvoiceRepository     = (*InvoiceRepository)(nil)
	_ ports.TransactionRepository = (*TransactionRepository)(nil)
	_ ports.ActivityRepository    = (*ActivityRepository)(nil)
)

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = *user
	created := *user
	return &created, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// List returns users ordered by email.
func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Update replaces a stored user. Used to edit profiles in tests and seeds.
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

// ── Rooms ─────────────────────────────────────────────────────────────────────

type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]domain.Room
}

func NewRoomRepository(seed ...domain.Room) *RoomRepository {
	r := &RoomRepository{rooms: make(map[string]domain.Room, len(seed))}
	for _, room := range seed {
		r.rooms[room.ID] = room
	}
	return r
}

// List returns rooms ordered by number.
func (r *RoomRepository) List(_ context.Context) ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (r *RoomRepository) FindByID(_ context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &room, nil
}

func (r *RoomRepository) Update(_ context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; !ok {
		return domain.ErrRoomNotFound
	}
	r.rooms[room.ID] = *room
	return nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices []domain.Invoice
	seq      int
}

func NewInvoiceRepository(seed ...domain.Invoice) *InvoiceRepository {
	r := &InvoiceRepository{invoices: append([]domain.Invoice(nil), seed...)}
	r.seq = len(seed)
	return r
}

// List returns invoices newest first.
func (r *InvoiceRepository) List(_ context.Context) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Invoice, len(r.invoices))
	copy(out, r.invoices)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

// Create rejects a second invoice carrying an idempotency key already stored.
func (r *InvoiceRepository) Create(_ context.Context, inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.IdempotencyKey != "" {
		for _, existing := range r.invoices {
			if existing.IdempotencyKey == inv.IdempotencyKey {
				return domain.ErrInvoiceExists
			}
		}
	}
	r.invoices = append(r.invoices, *inv)
	return nil
}

func (r *InvoiceRepository) FindByIdempotencyKey(_ context.Context, key string) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.invoices {
		if key != "" && inv.IdempotencyKey == key {
			return &inv, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *InvoiceRepository) NextNumber(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("F-%04d", r.seq), nil
}

// ── Transactions ──────────────────────────────────────────────────────────────

type TransactionRepository struct {
	mu  sync.RWMutex
	txs []domain.Transaction
}

func NewTransactionRepository(seed ...domain.Transaction) *TransactionRepository {
	return &TransactionRepository{txs: append([]domain.Transaction(nil), seed...)}
}

// List returns movements newest first.
func (r *TransactionRepository) List(_ context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Transaction, len(r.txs))
	copy(out, r.txs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *TransactionRepository) Insert(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *TransactionRepository) SumIncome(_ context.Context, from, to time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	for _, tx := range r.txs {
		if tx.Tipo == domain.TransactionIncome && !tx.Fecha.Before(from) && tx.Fecha.Before(to) {
			sum += tx.Monto
		}
	}
	return domain.RoundCents(sum), nil
}

// ── Activity ──────────────────────────────────────────────────────────────────

type ActivityRepository struct {
	mu      sync.RWMutex
	entries []domain.Activity
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Insert(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

// Recent returns up to limit entries, newest first. Ties go to the entry
// inserted last.
func (r *ActivityRepository) Recent(_ context.Context, limit int) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Activity, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
