// Command backend serves the auth and data APIs the console talks to.
//
//	@title						sactel dev backend
//	@version					1.0
//	@description				Auth service (login, token validation, users) and data service (dashboard, rooms, invoices, ledger) for the sactel accounting console.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/sactel/admin-console/internal/api"
	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/internal/core/service"
	"github.com/sactel/admin-console/internal/infrastructure/db/memory"
	"github.com/sactel/admin-console/internal/infrastructure/db/mongo"
	"github.com/sactel/admin-console/internal/infrastructure/db/redis"
	"github.com/sactel/admin-console/internal/infrastructure/queue"
	"github.com/sactel/admin-console/internal/pkg/config"
	"github.com/sactel/admin-console/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadBackend(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Service: "backend"})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("backend stopped")
		os.Exit(1)
	}
	log.Info().Msg("server exited cleanly")
}

// repositories is the storage selected by STORAGE.
type repositories struct {
	users        ports.UserRepository
	rooms        ports.RoomRepository
	invoices     ports.InvoiceRepository
	transactions ports.TransactionRepository
	activity     ports.ActivityRepository
	db           *mongodriver.Database
}

func run(ctx context.Context, cfg *config.BackendConfig, log zerolog.Logger) error {
	repos, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	auth := service.NewAuthService(repos.users, cfg.JWTSecret, cfg.TokenTTL)
	if cfg.SeedDemoData {
		if err := memory.RegisterDemoUsers(ctx, auth); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	billing := service.NewBillingService(repos.rooms, repos.invoices, repos.transactions, logger.Component(log, "billing"))

	activity := service.NewActivityService(repos.activity, logger.Component(log, "activity"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activity, logger.Component(log, "activity"))
	dispatcher.Start(workerCtx)

	deps := api.Deps{
		Config:   cfg,
		Log:      log,
		Auth:     auth,
		Billing:  billing,
		Activity: activity,
		Recorder: dispatcher,
		Mongo:    repos.db,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		deps.Redis = rdb
		deps.Limiter = redis.NewLoginLimiter(rdb, cfg.LoginRateLimit, 0)
		log.Info().Str("addr", cfg.Redis.Addr).Int("per_minute", cfg.LoginRateLimit).Msg("login rate limiting enabled")
	}

	e := api.NewRouter(deps)

	srvErrCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("backend listening")
		srvErrCh <- e.Start(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-srvErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	dispatcher.Close()
	return nil
}

func openStorage(ctx context.Context, cfg *config.BackendConfig, log zerolog.Logger) (repositories, func(), error) {
	ds := memory.Demo(time.Now())

	if cfg.Storage != "mongo" {
		if !cfg.SeedDemoData {
			ds = memory.Dataset{}
		}
		return repositories{
			users:        memory.NewUserRepository(),
			rooms:        memory.NewRoomRepository(ds.Rooms...),
			invoices:     memory.NewInvoiceRepository(ds.Invoices...),
			transactions: memory.NewTransactionRepository(ds.Transactions...),
			activity:     memory.NewActivityRepository(),
		}, func() {}, nil
	}

	st, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return repositories{}, nil, err
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}

	users := mongo.NewUserRepository(st.DB)
	rooms := mongo.NewRoomRepository(st.DB)
	invoices := mongo.NewInvoiceRepository(st.DB)
	txs := mongo.NewTransactionRepository(st.DB)
	activity := mongo.NewActivityRepository(st.DB)

	if err := st.EnsureIndexes(ctx, users, invoices, txs, activity); err != nil {
		closeFn()
		return repositories{}, nil, err
	}

	if cfg.SeedDemoData {
		seeds := []error{
			rooms.Seed(ctx, ds.Rooms),
			invoices.Seed(ctx, ds.Invoices),
			txs.Seed(ctx, ds.Transactions),
		}
		if err := errors.Join(seeds...); err != nil {
			closeFn()
			return repositories{}, nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	return repositories{
		users:        users,
		rooms:        rooms,
		invoices:     invoices,
		transactions: txs,
		activity:     activity,
		db:           st.DB,
	}, closeFn, nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis")
	}
}
