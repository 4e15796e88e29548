package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sactel/admin-console/internal/core/domain"
)

const (
	collectionRooms        = "habitaciones"
	collectionInvoices     = "facturas"
	collectionTransactions = "transacciones"
	collectionCounters     = "counters"

	invoiceCounterID = "facturas"
)

// ── Rooms ─────────────────────────────────────────────────────────────────────

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection(collectionRooms)}
}

func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "numero", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms := []domain.Room{}
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var room domain.Room
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": room.ID}, room)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// Seed inserts rooms when the collection is empty.
func (r *RoomRepository) Seed(ctx context.Context, rooms []domain.Room) error {
	docs := make([]interface{}, len(rooms))
	for i := range rooms {
		docs[i] = rooms[i]
	}
	return seedIfEmpty(ctx, r.col, docs)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type InvoiceRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{
		col:      db.Collection(collectionInvoices),
		counters: db.Collection(collectionCounters),
	}
}

func (r *InvoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	invoices := []domain.Invoice{}
	if err := cur.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return invoices, nil
}

// Create inserts a new invoice document. Losing a race on the idempotency
// key index yields domain.ErrInvoiceExists.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, inv); err != nil {
		if inv.IdempotencyKey != "" && mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert invoice %s: %w", inv.Numero, domain.ErrInvoiceExists)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// FindByIdempotencyKey retrieves an existing invoice that was created with the given key.
func (r *InvoiceRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var inv domain.Invoice
	err := r.col.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// NextNumber atomically increments the invoice counter.
func (r *InvoiceRepository) NextNumber(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": invoiceCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("F-%04d", doc.Seq), nil
}

// Seed inserts invoices when the collection is empty and aligns the counter.
func (r *InvoiceRepository) Seed(ctx context.Context, invoices []domain.Invoice) error {
	docs := make([]interface{}, len(invoices))
	for i := range invoices {
		docs[i] = invoices[i]
	}
	if err := seedIfEmpty(ctx, r.col, docs); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err := r.counters.UpdateOne(ctx,
		bson.M{"_id": invoiceCounterID},
		bson.M{"$max": bson.M{"seq": int64(len(invoices))}},
		options.Update().SetUpsert(true),
	)
	return err
}

// EnsureIndexes creates necessary indexes on the invoices collection.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "numero", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "fecha", Value: -1}}},
		{
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$type": "string"}}),
		},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("%s indexes: %w", collectionInvoices, err)
	}
	return nil
}

// ── Transactions ──────────────────────────────────────────────────────────────

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txs := []domain.Transaction{}
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, tx)
	return err
}

// SumIncome aggregates income movements dated within [from, to).
func (r *TransactionRepository) SumIncome(ctx context.Context, from, to time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"tipo":  string(domain.TransactionIncome),
			"fecha": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$monto"}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum income: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode income: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return domain.RoundCents(rows[0].Total), nil
}

// Seed inserts movements when the collection is empty.
func (r *TransactionRepository) Seed(ctx context.Context, txs []domain.Transaction) error {
	docs := make([]interface{}, len(txs))
	for i := range txs {
		docs[i] = txs[i]
	}
	return seedIfEmpty(ctx, r.col, docs)
}

// EnsureIndexes creates necessary indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tipo", Value: 1}, {Key: "fecha", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("%s indexes: %w", collectionTransactions, err)
	}
	return nil
}

func seedIfEmpty(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.EstimatedDocumentCount(ctx)
	if err != nil {
		return fmt.Errorf("count %s: %w", col.Name(), err)
	}
	if n > 0 {
		return nil
	}
	if _, err := col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed %s: %w", col.Name(), err)
	}
	return nil
}
