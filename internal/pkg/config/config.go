package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

// BackendConfig drives the dev backend that serves the auth and data APIs.
type BackendConfig struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	AuthBasePath     string `env:"AUTH_BASE_PATH,     default=/sactel"`
	DataBasePath     string `env:"DATA_BASE_PATH,     default=/acconunt/data"`
	DataAuthRequired bool   `env:"DATA_AUTH_REQUIRED, default=false"`

	Storage         string        `env:"STORAGE,          default=memory"`
	SeedDemoData    bool          `env:"SEED_DEMO_DATA,   default=true"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT, default=5"`
	ActivityWorkers int           `env:"ACTIVITY_WORKERS, default=4"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo MongoConfig
	Redis RedisConfig
}

// ConsoleConfig drives the console CLI.
type ConsoleConfig struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=warn"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	DataURL        string        `env:"CONSOLE_DATA_URL,        default=http://localhost:8080/acconunt/data"`
	AuthURL        string        `env:"CONSOLE_AUTH_URL,        default=http://localhost:8080/sactel"`
	RequestTimeout time.Duration `env:"CONSOLE_REQUEST_TIMEOUT, default=10s"`

	SessionStore string `env:"CONSOLE_SESSION_STORE, default=file"`
	SessionPath  string `env:"CONSOLE_SESSION_PATH"`
	Profile      string `env:"CONSOLE_PROFILE,       default=default"`

	Fallback     string `env:"CONSOLE_FALLBACK, default=unavailable"`
	FallbackFile string `env:"CONSOLE_FALLBACK_FILE"`

	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=sactel"`
}

// RedisConfig is optional: an empty address disables the Redis features.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether the backend runs with ENV=production.
func (c *BackendConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// IsProduction reports whether the console runs with ENV=production.
func (c *ConsoleConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// Validate rejects settings the backend cannot run with.
func (c *BackendConfig) Validate() error {
	if c.JWTSecret == "" && c.IsProduction() {
		return errors.New("JWT_SECRET is required in production")
	}
	switch c.Storage {
	case "memory", "mongo":
	default:
		return fmt.Errorf("unknown STORAGE %q (want memory or mongo)", c.Storage)
	}
	if !strings.HasPrefix(c.AuthBasePath, "/") || !strings.HasPrefix(c.DataBasePath, "/") {
		return errors.New("AUTH_BASE_PATH and DATA_BASE_PATH must start with /")
	}
	return nil
}

// Validate rejects settings the console cannot run with.
func (c *ConsoleConfig) Validate() error {
	switch c.SessionStore {
	case "file", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("CONSOLE_SESSION_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown CONSOLE_SESSION_STORE %q (want file, redis or memory)", c.SessionStore)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("CONSOLE_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// LoadBackend reads the backend configuration from the environment.
func LoadBackend(ctx context.Context) (*BackendConfig, error) {
	return loadBackend(ctx, envconfig.OsLookuper())
}

// LoadConsole reads the console configuration from the environment.
func LoadConsole(ctx context.Context) (*ConsoleConfig, error) {
	return loadConsole(ctx, envconfig.OsLookuper())
}

func loadBackend(ctx context.Context, l envconfig.Lookuper) (*BackendConfig, error) {
	var cfg BackendConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load backend configuration: %w", err)
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "dev-secret-change-me"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func loadConsole(ctx context.Context, l envconfig.Lookuper) (*ConsoleConfig, error) {
	var cfg ConsoleConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load console configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
