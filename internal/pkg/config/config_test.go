package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadBackend_Defaults(t *testing.T) {
	cfg, err := loadBackend(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.AuthBasePath != "/sactel" || cfg.DataBasePath != "/acconunt/data" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.Storage != "memory" || !cfg.SeedDemoData {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("development must get a dev secret")
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be opt-in")
	}
	if cfg.ActivityWorkers != 4 || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadBackend_ProductionRequiresSecret(t *testing.T) {
	_, err := loadBackend(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}

	cfg, err := loadBackend(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV": "production", "JWT_SECRET": "s", "STORAGE": "mongo", "TOKEN_TTL": "1h",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProduction() || cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadBackend_RejectsUnknownStorage(t *testing.T) {
	if _, err := loadBackend(context.Background(), envconfig.MapLookuper(map[string]string{"STORAGE": "sqlite"})); err == nil {
		t.Fatalf("expected error for unknown storage")
	}
}

func TestLoadConsole_Defaults(t *testing.T) {
	cfg, err := loadConsole(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataURL != "http://localhost:8080/acconunt/data" || cfg.AuthURL != "http://localhost:8080/sactel" {
		t.Fatalf("unexpected urls: %+v", cfg)
	}
	if cfg.RequestTimeout != 10*time.Second || cfg.SessionStore != "file" || cfg.Fallback != "unavailable" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.IsProduction() {
		t.Fatalf("default env is development")
	}
}

func TestLoadConsole_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"redis without addr": {"CONSOLE_SESSION_STORE": "redis"},
		"unknown store":      {"CONSOLE_SESSION_STORE": "sqlite"},
		"zero timeout":       {"CONSOLE_REQUEST_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		if _, err := loadConsole(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	cfg, err := loadConsole(context.Background(), envconfig.MapLookuper(map[string]string{
		"CONSOLE_SESSION_STORE": "redis", "REDIS_ADDR": "localhost:6379", "CONSOLE_PROFILE": "staging",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Profile != "staging" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}
