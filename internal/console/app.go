// Package console assembles the per-process context of the admin console:
// configuration, logger, API client and the session of the signed-in user.
package console

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/internal/core/service"
	"github.com/sactel/admin-console/internal/infrastructure/apiclient"
	"github.com/sactel/admin-console/internal/infrastructure/credentials"
	"github.com/sactel/admin-console/internal/infrastructure/db/redis"
	"github.com/sactel/admin-console/internal/infrastructure/store"
	"github.com/sactel/admin-console/internal/pkg/config"
	"github.com/sactel/admin-console/internal/pkg/metrics"
	"github.com/sactel/admin-console/pkg/logger"
)

// App is the explicit context object handed to every console command.
type App struct {
	Config  *config.ConsoleConfig
	Log     zerolog.Logger
	Client  *apiclient.Client
	Session *service.SessionService

	redis *goredis.Client
	unsub func()
}

// Option customises New.
type Option func(*options)

type options struct {
	kv    store.KV
	table ports.CredentialTable
}

// WithKV overrides the session store backend selected by the config.
func WithKV(kv store.KV) Option {
	return func(o *options) { o.kv = kv }
}

// WithCredentialTable overrides the fallback credential table.
func WithCredentialTable(t ports.CredentialTable) Option {
	return func(o *options) { o.table = t }
}

// New wires the console from cfg. The session is left in the loading state;
// call Start to restore it.
func New(ctx context.Context, cfg *config.ConsoleConfig, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Log: log}

	kv := o.kv
	if kv == nil {
		var err error
		if kv, err = a.openKV(ctx); err != nil {
			return nil, err
		}
	}

	sessionOpts, err := fallbackOptions(cfg, o.table, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	clientOpts := []apiclient.ClientOption{
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithLogger(logger.Component(log, "apiclient")),
	}
	authClient := apiclient.New(cfg.DataURL, cfg.AuthURL, clientOpts...)

	a.Session = service.NewSessionService(
		apiclient.NewAuthGateway(authClient),
		store.NewSessionStore(kv),
		logger.Component(log, "session"),
		sessionOpts...,
	)
	a.Client = apiclient.New(cfg.DataURL, cfg.AuthURL,
		append(clientOpts, apiclient.WithTokenSource(a.Session.TokenSource()))...)

	a.unsub = a.Session.Subscribe(func(s domain.Snapshot) {
		metrics.SessionTransitionsTotal.WithLabelValues(s.State.String(), string(s.Source)).Inc()
	})

	return a, nil
}

// Start restores the stored session and returns the resulting snapshot.
func (a *App) Start(ctx context.Context) domain.Snapshot {
	return a.Session.Bootstrap(ctx)
}

// Close releases the Redis connection, if one was opened.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("failed to close redis connection")
		}
		a.redis = nil
	}
}

func (a *App) openKV(ctx context.Context) (store.KV, error) {
	cfg := a.Config
	switch cfg.SessionStore {
	case "memory":
		return store.NewMemoryKV(), nil
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		a.redis = client
		return redis.NewSessionKV(client, cfg.Profile), nil
	default:
		path := cfg.SessionPath
		if path == "" {
			var err error
			if path, err = store.DefaultPath(cfg.Profile); err != nil {
				return nil, fmt.Errorf("session store: %w", err)
			}
		}
		kv, err := store.NewFileKV(path)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		return kv, nil
	}
}

// fallbackOptions resolves the credential table. Production builds never
// consult it.
func fallbackOptions(cfg *config.ConsoleConfig, table ports.CredentialTable, log zerolog.Logger) ([]service.SessionOption, error) {
	mode, err := service.ParseFallbackMode(cfg.Fallback)
	if err != nil {
		return nil, err
	}
	if cfg.IsProduction() || mode == service.FallbackOff {
		return nil, nil
	}

	if table == nil {
		if cfg.FallbackFile != "" {
			t, err := credentials.LoadFile(cfg.FallbackFile)
			if err != nil {
				return nil, fmt.Errorf("fallback credentials: %w", err)
			}
			table = t
		} else {
			table = credentials.Builtin()
		}
	}

	log.Debug().Str("mode", string(mode)).Msg("local credential fallback enabled")
	return []service.SessionOption{service.WithFallback(table, mode)}, nil
}
