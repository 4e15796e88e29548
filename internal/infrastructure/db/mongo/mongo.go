// Package mongo stores the dev backend's users, rooms, invoices, ledger and
// activity log in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectBudget    = 10 * time.Second
	disconnectBudget = 5 * time.Second
	// defaultTimeout bounds each repository operation.
	defaultTimeout = 10 * time.Second
	appName        = "sactel-backend"
)

// Config selects the server and database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store is an open connection bound to one database.
type Store struct {
	client *mongo.Client
	DB     *mongo.Database
}

// Indexer is implemented by every repository that owns indexes.
type Indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// Open connects and pings. A zero Timeout means 10s.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	budget := cfg.Timeout
	if budget <= 0 {
		budget = connectBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).SetAppName(appName)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return &Store{client: client, DB: client.Database(cfg.Database)}, nil
}

// EnsureIndexes runs every indexer and reports all failures together.
func (s *Store) EnsureIndexes(ctx context.Context, indexers ...Indexer) error {
	var errs []error
	for _, ix := range indexers {
		if err := ix.EnsureIndexes(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close disconnects, waiting at most 5s for in-flight operations.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectBudget)
	defer cancel()
	return s.client.Disconnect(ctx)
}
