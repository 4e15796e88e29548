package console

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sactel/admin-console/internal/api"
	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/service"
	"github.com/sactel/admin-console/internal/infrastructure/db/memory"
	"github.com/sactel/admin-console/internal/infrastructure/store"
	"github.com/sactel/admin-console/internal/pkg/config"
)

// startBackend serves the dev backend with demo data. Data reads require a
// token so the tests prove the session's bearer reaches the data service.
func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.BackendConfig{
		Env:              "test",
		JWTSecret:        "console-test",
		TokenTTL:         time.Hour,
		AuthBasePath:     "/sactel",
		DataBasePath:     "/acconunt/data",
		DataAuthRequired: true,
		Storage:          "memory",
	}
	ds := memory.Demo(time.Now())
	auth := service.NewAuthService(memory.NewUserRepository(), cfg.JWTSecret, cfg.TokenTTL)
	require.NoError(t, memory.RegisterDemoUsers(context.Background(), auth))
	billing := service.NewBillingService(
		memory.NewRoomRepository(ds.Rooms...),
		memory.NewInvoiceRepository(ds.Invoices...),
		memory.NewTransactionRepository(ds.Transactions...),
		zerolog.Nop(),
	)
	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Log:      zerolog.Nop(),
		Auth:     auth,
		Billing:  billing,
		Registry: prometheus.NewRegistry(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func consoleConfig(baseURL string) *config.ConsoleConfig {
	return &config.ConsoleConfig{
		Env:            "development",
		DataURL:        baseURL + "/acconunt/data",
		AuthURL:        baseURL + "/sactel",
		RequestTimeout: 2 * time.Second,
		SessionStore:   "memory",
		Profile:        "default",
		Fallback:       "unavailable",
	}
}

func newApp(t *testing.T, cfg *config.ConsoleConfig, opts ...Option) *App {
	t.Helper()
	app, err := New(context.Background(), cfg, zerolog.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	return url
}

func TestApp_LoginThenDashboard(t *testing.T) {
	srv := startBackend(t)
	app := newApp(t, consoleConfig(srv.URL))
	ctx := context.Background()

	assert.Equal(t, domain.SessionAbsent, app.Start(ctx).State)
	require.True(t, app.Session.Login(ctx, "admin@empresa.com", "admin123"))

	snap := app.Session.Current()
	assert.Equal(t, domain.SourceRemote, snap.Source)
	assert.Equal(t, domain.RoleAdmin, snap.Identity.Role)
	assert.NotEmpty(t, app.Session.Token())

	d := app.LoadDashboard(ctx)
	stats, ok := d.Stats.Value()
	require.True(t, ok, d.Stats.Err())
	assert.Equal(t, 4, stats.HabitacionesDisponibles)
	rooms, ok := d.Rooms.Value()
	require.True(t, ok, d.Rooms.Err())
	assert.Len(t, rooms, 10)
	assert.True(t, d.Invoices.Success(), d.Invoices.Err())
	assert.True(t, d.Transactions.Success(), d.Transactions.Err())
}

func TestApp_DashboardWithoutSessionFailsPerLoad(t *testing.T) {
	srv := startBackend(t)
	app := newApp(t, consoleConfig(srv.URL))

	d := app.LoadDashboard(context.Background())

	for _, f := range []interface{ Success() bool }{d.Stats, d.Rooms, d.Invoices, d.Transactions} {
		assert.False(t, f.Success())
	}
	assert.Equal(t, 401, d.Stats.Failure().Status)
}

func TestApp_RestartRevalidatesStoredSession(t *testing.T) {
	srv := startBackend(t)
	kv := store.NewMemoryKV()
	ctx := context.Background()

	first := newApp(t, consoleConfig(srv.URL), WithKV(kv))
	first.Start(ctx)
	require.True(t, first.Session.Login(ctx, "contador@empresa.com", "contador123"))
	token := first.Session.Token()

	second := newApp(t, consoleConfig(srv.URL), WithKV(kv))
	snap := second.Start(ctx)

	require.Equal(t, domain.SessionPresent, snap.State)
	assert.Equal(t, domain.SourceRemote, snap.Source)
	assert.Equal(t, "contador@empresa.com", snap.Identity.Email)
	assert.Equal(t, token, second.Session.Token())
}

func TestApp_WrongPasswordIsFinal(t *testing.T) {
	srv := startBackend(t)
	app := newApp(t, consoleConfig(srv.URL))
	ctx := context.Background()
	app.Start(ctx)

	assert.False(t, app.Session.Login(ctx, "admin@empresa.com", "nope"))
	assert.False(t, app.Session.Login(ctx, "admin@empresa.com", "Admin123"))
	assert.Equal(t, domain.SessionAbsent, app.Session.Current().State)
}

func TestApp_FallbackWhenBackendDown(t *testing.T) {
	app := newApp(t, consoleConfig(deadURL(t)))
	ctx := context.Background()
	app.Start(ctx)

	require.True(t, app.Session.Login(ctx, "admin@empresa.com", "admin123"))

	snap := app.Session.Current()
	assert.Equal(t, domain.SourceFallback, snap.Source)
	assert.Equal(t, "Administrador", snap.Identity.Nombre)
	assert.Empty(t, app.Session.Token())
	assert.True(t, app.Session.HasRole(domain.RoleAdmin))
}

func TestApp_ProductionNeverFallsBack(t *testing.T) {
	cfg := consoleConfig(deadURL(t))
	cfg.Env = "production"
	app := newApp(t, cfg)
	ctx := context.Background()
	app.Start(ctx)

	assert.False(t, app.Session.Login(ctx, "admin@empresa.com", "admin123"))
	assert.Equal(t, domain.SessionAbsent, app.Session.Current().State)
}

func TestApp_InvalidFallbackMode(t *testing.T) {
	cfg := consoleConfig("http://127.0.0.1:1")
	cfg.Fallback = "sometimes"

	_, err := New(context.Background(), cfg, zerolog.Nop())

	assert.Error(t, err)
}

func TestApp_FileStorePersistsAcrossInstances(t *testing.T) {
	cfg := consoleConfig(deadURL(t))
	cfg.SessionStore = "file"
	cfg.SessionPath = filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := newApp(t, cfg)
	first.Start(ctx)
	require.True(t, first.Session.Login(ctx, "visor@empresa.com", "visor123"))

	second := newApp(t, cfg)
	snap := second.Start(ctx)

	require.Equal(t, domain.SessionPresent, snap.State)
	assert.Equal(t, domain.SourceCache, snap.Source)
	assert.Equal(t, domain.RoleViewer, snap.Identity.Role)

	second.Session.Logout(ctx)
	third := newApp(t, cfg)
	assert.Equal(t, domain.SessionAbsent, third.Start(ctx).State)
}

func TestApp_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := consoleConfig(deadURL(t))
	cfg.SessionStore = "redis"
	cfg.Redis.Addr = mr.Addr()
	cfg.Profile = "ci"
	ctx := context.Background()

	app := newApp(t, cfg)
	app.Start(ctx)
	require.True(t, app.Session.Login(ctx, "asistente@empresa.com", "asistente123"))

	assert.True(t, mr.Exists("session:ci:auth_user"))
	assert.False(t, mr.Exists("session:ci:auth_token"))
}
