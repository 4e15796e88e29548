package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/pkg/result"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubGateway struct {
	mu            sync.Mutex
	login         result.Result[domain.LoginGrant]
	validate      result.Result[domain.Identity]
	loginCalls    int
	validateCalls int
	lastToken     string
}

func (g *stubGateway) Login(_ context.Context, _, _ string) result.Result[domain.LoginGrant] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loginCalls++
	return g.login
}

func (g *stubGateway) Validate(_ context.Context, token string) result.Result[domain.Identity] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.validateCalls++
	g.lastToken = token
	return g.validate
}

type stubSessionStore struct {
	mu      sync.Mutex
	rec     *domain.SessionRecord
	loadErr error
	saves   int
	clears  int
}

func (s *stubSessionStore) Load(_ context.Context) (*domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.rec == nil {
		return nil, domain.ErrNoSession
	}
	clone := *s.rec
	return &clone, nil
}

func (s *stubSessionStore) Save(_ context.Context, rec domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.rec = &rec
	return nil
}

func (s *stubSessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.rec = nil
	s.loadErr = nil
	return nil
}

func (s *stubSessionStore) stored() *domain.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil
	}
	clone := *s.rec
	return &clone
}

type stubTable map[string]struct {
	password string
	identity domain.Identity
}

func (t stubTable) Lookup(email, password string) (domain.Identity, bool) {
	e, ok := t[email]
	if !ok || e.password != password {
		return domain.Identity{}, false
	}
	return e.identity, true
}

var (
	adminIdentity  = domain.Identity{ID: "1", Email: "admin@empresa.com", Nombre: "Administrador", Role: domain.RoleAdmin}
	viewerIdentity = domain.Identity{ID: "4", Email: "visor@empresa.com", Nombre: "Visor", Role: domain.RoleViewer}

	unreachable = result.FailWith[domain.LoginGrant](result.KindTransport, 0, "", errors.New("dial tcp: connection refused"))
	rejected    = result.FailWith[domain.LoginGrant](result.KindRejected, http.StatusOK, "Credenciales inválidas", nil)
)

func demoTable() stubTable {
	return stubTable{
		"admin@empresa.com": {password: "admin123", identity: adminIdentity},
		"visor@empresa.com": {password: "visor123", identity: viewerIdentity},
	}
}

func newTestSession(gw *stubGateway, store *stubSessionStore, opts ...SessionOption) *SessionService {
	return NewSessionService(gw, store, zerolog.Nop(), opts...)
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func TestSession_StartsLoading(t *testing.T) {
	s := newTestSession(&stubGateway{}, &stubSessionStore{})
	if got := s.Current().State; got != domain.SessionLoading {
		t.Fatalf("expected loading before bootstrap, got %s", got)
	}
	if s.HasRole(domain.RoleAdmin) {
		t.Fatalf("no role may be granted while loading")
	}
}

func TestSession_Bootstrap_NoRecord(t *testing.T) {
	gw := &stubGateway{}
	s := newTestSession(gw, &stubSessionStore{})

	snap := s.Bootstrap(context.Background())
	if snap.State != domain.SessionAbsent || snap.Identity != nil {
		t.Fatalf("expected absent, got %+v", snap)
	}
	if gw.validateCalls != 0 {
		t.Fatalf("no validation without a record")
	}
}

func TestSession_Bootstrap_RecordWithoutTokenRestoredAsIs(t *testing.T) {
	gw := &stubGateway{}
	store := &stubSessionStore{rec: &domain.SessionRecord{Identity: viewerIdentity}}
	s := newTestSession(gw, store)

	snap := s.Bootstrap(context.Background())
	if !snap.Authenticated() || *snap.Identity != viewerIdentity || snap.Source != domain.SourceCache {
		t.Fatalf("expected cached viewer, got %+v", snap)
	}
	if gw.validateCalls != 0 {
		t.Fatalf("no remote call expected without a token")
	}
}

func TestSession_Bootstrap_RemoteIdentityWins(t *testing.T) {
	stale := domain.Identity{ID: "7", Email: "luis@empresa.com", Nombre: "Luis", Role: domain.RoleAccountant}
	fresh := stale
	fresh.Nombre = "Luis Pérez"

	gw := &stubGateway{validate: result.Ok(fresh)}
	store := &stubSessionStore{rec: &domain.SessionRecord{Identity: stale, Token: "tok-7"}}
	s := newTestSession(gw, store)

	snap := s.Bootstrap(context.Background())
	if snap.Identity == nil || snap.Identity.Nombre != "Luis Pérez" || snap.Source != domain.SourceRemote {
		t.Fatalf("expected refreshed identity, got %+v", snap)
	}
	if gw.lastToken != "tok-7" {
		t.Fatalf("validate must use stored token, got %q", gw.lastToken)
	}
	rec := store.stored()
	if rec == nil || rec.Identity.Nombre != "Luis Pérez" || rec.Token != "tok-7" {
		t.Fatalf("stored record not refreshed: %+v", rec)
	}
	if s.Token() != "tok-7" {
		t.Fatalf("token must be kept, got %q", s.Token())
	}
}

func TestSession_Bootstrap_ValidationFailureKeepsCache(t *testing.T) {
	for name, failure := range map[string]result.Result[domain.Identity]{
		"unreachable":  result.FailWith[domain.Identity](result.KindTransport, 0, "refused", nil),
		"unauthorized": result.Fail[domain.Identity](result.StatusFailure(http.StatusUnauthorized, "")),
		"bad role":     result.Ok(domain.Identity{Email: "x@y.z", Role: "root"}),
	} {
		t.Run(name, func(t *testing.T) {
			gw := &stubGateway{validate: failure}
			store := &stubSessionStore{rec: &domain.SessionRecord{Identity: adminIdentity, Token: "tok-1"}}
			s := newTestSession(gw, store)

			snap := s.Bootstrap(context.Background())
			if !snap.Authenticated() || *snap.Identity != adminIdentity || snap.Source != domain.SourceCache {
				t.Fatalf("expected cached admin, got %+v", snap)
			}
			if store.saves != 0 || store.clears != 0 {
				t.Fatalf("storage must be untouched, saves=%d clears=%d", store.saves, store.clears)
			}
			if s.Token() != "tok-1" {
				t.Fatalf("token must be kept")
			}
		})
	}
}

func TestSession_Bootstrap_CorruptRecordCleared(t *testing.T) {
	store := &stubSessionStore{loadErr: domain.ErrCorruptSession}
	s := newTestSession(&stubGateway{}, store)

	if snap := s.Bootstrap(context.Background()); snap.State != domain.SessionAbsent {
		t.Fatalf("expected absent, got %+v", snap)
	}
	if store.clears != 1 {
		t.Fatalf("corrupt record must be cleared")
	}
}

func TestSession_Bootstrap_InvalidStoredRoleCleared(t *testing.T) {
	store := &stubSessionStore{rec: &domain.SessionRecord{Identity: domain.Identity{Email: "a@b.c", Role: "superuser"}, Token: "t"}}
	gw := &stubGateway{}
	s := newTestSession(gw, store)

	if snap := s.Bootstrap(context.Background()); snap.State != domain.SessionAbsent {
		t.Fatalf("expected absent, got %+v", snap)
	}
	if store.stored() != nil || gw.validateCalls != 0 {
		t.Fatalf("invalid record must be cleared without remote validation")
	}
}

func TestSession_Bootstrap_StoreErrorLeavesRecord(t *testing.T) {
	store := &stubSessionStore{loadErr: errors.New("permission denied")}
	s := newTestSession(&stubGateway{}, store)

	if snap := s.Bootstrap(context.Background()); snap.State != domain.SessionAbsent {
		t.Fatalf("expected absent, got %+v", snap)
	}
	if store.clears != 0 {
		t.Fatalf("unreadable store must not be cleared")
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestSession_Login_RemoteSuccess(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	store := &stubSessionStore{}
	s := newTestSession(gw, store, WithFallback(demoTable(), FallbackUnavailable))
	s.Bootstrap(context.Background())

	if !s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("expected login to succeed")
	}
	snap := s.Current()
	if snap.Source != domain.SourceRemote || *snap.Identity != adminIdentity {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !s.HasRole(domain.RoleAdmin, domain.RoleAccountant) || s.HasRole(domain.RoleAssistant) {
		t.Fatalf("role checks wrong for admin")
	}
	rec := store.stored()
	if rec == nil || rec.Token != "jwt-1" || rec.Identity != adminIdentity {
		t.Fatalf("unexpected stored record %+v", rec)
	}

	tok, err := s.TokenSource().Token()
	if err != nil || tok.AccessToken != "jwt-1" {
		t.Fatalf("token source: %v %+v", err, tok)
	}
}

func TestSession_Login_FallbackWhenUnreachable(t *testing.T) {
	gw := &stubGateway{login: unreachable}
	store := &stubSessionStore{rec: &domain.SessionRecord{Identity: adminIdentity, Token: "stale"}}
	s := newTestSession(gw, store, WithFallback(demoTable(), FallbackUnavailable))

	if !s.Login(context.Background(), "visor@empresa.com", "visor123") {
		t.Fatalf("expected fallback login to succeed")
	}
	snap := s.Current()
	if snap.Source != domain.SourceFallback || *snap.Identity != viewerIdentity {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !s.HasRole(domain.RoleViewer) || s.HasRole(domain.RoleAdmin) {
		t.Fatalf("role checks wrong for viewer")
	}
	rec := store.stored()
	if rec == nil || rec.Token != "" || rec.Identity != viewerIdentity {
		t.Fatalf("fallback must store identity and drop stale token, got %+v", rec)
	}
	if _, err := s.TokenSource().Token(); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestSession_Login_FallbackOnServerError(t *testing.T) {
	gw := &stubGateway{login: result.Fail[domain.LoginGrant](result.StatusFailure(http.StatusServiceUnavailable, ""))}
	s := newTestSession(gw, &stubSessionStore{}, WithFallback(demoTable(), FallbackUnavailable))

	if !s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("5xx must allow fallback")
	}
}

func TestSession_Login_InvalidRemoteRoleFallsBack(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: domain.Identity{Email: "admin@empresa.com", Role: "root"}, Token: "x"})}
	store := &stubSessionStore{}
	s := newTestSession(gw, store, WithFallback(demoTable(), FallbackUnavailable))

	if !s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("expected fallback after invalid remote identity")
	}
	if rec := store.stored(); rec == nil || rec.Identity.Role != domain.RoleAdmin || rec.Token != "" {
		t.Fatalf("invalid remote identity must never be stored, got %+v", rec)
	}
}

func TestSession_Login_RejectionIsFinalByDefault(t *testing.T) {
	gw := &stubGateway{login: rejected}
	store := &stubSessionStore{}
	s := newTestSession(gw, store, WithFallback(demoTable(), FallbackUnavailable))
	s.Bootstrap(context.Background())

	if s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("explicit rejection must not fall back in unavailable mode")
	}
	if s.Current().State != domain.SessionAbsent || store.saves != 0 {
		t.Fatalf("failed login must not change state or storage")
	}

	unauthorized := &stubGateway{login: result.Fail[domain.LoginGrant](result.StatusFailure(http.StatusUnauthorized, ""))}
	s = newTestSession(unauthorized, store, WithFallback(demoTable(), FallbackUnavailable))
	if s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("401 must not fall back in unavailable mode")
	}
}

func TestSession_Login_AlwaysModeFallsBackOnRejection(t *testing.T) {
	gw := &stubGateway{login: rejected}
	s := newTestSession(gw, &stubSessionStore{}, WithFallback(demoTable(), FallbackAlways))

	if !s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("always mode must consult the table")
	}
	if s.Current().Source != domain.SourceFallback {
		t.Fatalf("expected fallback source")
	}
}

func TestSession_Login_OffModeAndNilTable(t *testing.T) {
	for name, opts := range map[string][]SessionOption{
		"off":       {WithFallback(demoTable(), FallbackOff)},
		"nil table": {WithFallback(nil, FallbackAlways)},
		"no option": nil,
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestSession(&stubGateway{login: unreachable}, &stubSessionStore{}, opts...)
			if s.Login(context.Background(), "admin@empresa.com", "admin123") {
				t.Fatalf("fallback must be disabled")
			}
		})
	}
}

func TestSession_Login_BothFailLeavesPreviousSession(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	store := &stubSessionStore{}
	s := newTestSession(gw, store, WithFallback(demoTable(), FallbackUnavailable))
	if !s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("setup login failed")
	}
	savesBefore := store.saves

	gw.login = unreachable
	if s.Login(context.Background(), "nobody@empresa.com", "wrong") {
		t.Fatalf("expected failure")
	}
	snap := s.Current()
	if *snap.Identity != adminIdentity || s.Token() != "jwt-1" {
		t.Fatalf("previous session must survive a failed login, got %+v", snap)
	}
	if store.saves != savesBefore || store.stored().Token != "jwt-1" {
		t.Fatalf("storage must be untouched")
	}
}

// ---------------------------------------------------------------------------
// Logout, roles, subscriptions
// ---------------------------------------------------------------------------

func TestSession_Logout_Idempotent(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	store := &stubSessionStore{}
	s := newTestSession(gw, store)
	s.Login(context.Background(), "admin@empresa.com", "admin123")

	s.Logout(context.Background())
	s.Logout(context.Background())

	if snap := s.Current(); snap.State != domain.SessionAbsent || snap.Identity != nil {
		t.Fatalf("expected absent after logout, got %+v", snap)
	}
	if store.stored() != nil || s.Token() != "" {
		t.Fatalf("logout must clear storage and token")
	}
	if s.HasRole(domain.RoleAdmin) {
		t.Fatalf("no role after logout")
	}
}

func TestSession_HasRole_EmptySet(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	s := newTestSession(gw, &stubSessionStore{})
	s.Login(context.Background(), "admin@empresa.com", "admin123")

	if s.HasRole() {
		t.Fatalf("empty role set must deny")
	}
}

func TestSession_CurrentReturnsCopy(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	s := newTestSession(gw, &stubSessionStore{})
	s.Login(context.Background(), "admin@empresa.com", "admin123")

	snap := s.Current()
	snap.Identity.Role = domain.RoleViewer
	if !s.HasRole(domain.RoleAdmin) {
		t.Fatalf("mutating a snapshot must not affect the session")
	}
}

func TestSession_Subscribe(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	s := newTestSession(gw, &stubSessionStore{})

	var seen []domain.SessionState
	unsubscribe := s.Subscribe(func(snap domain.Snapshot) { seen = append(seen, snap.State) })

	s.Bootstrap(context.Background())
	s.Login(context.Background(), "admin@empresa.com", "admin123")
	unsubscribe()
	s.Logout(context.Background())

	want := []domain.SessionState{domain.SessionAbsent, domain.SessionPresent}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("unexpected notifications %v", seen)
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	gw := &stubGateway{login: result.Ok(domain.LoginGrant{Identity: adminIdentity, Token: "jwt-1"})}
	s := newTestSession(gw, &stubSessionStore{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Login(context.Background(), "admin@empresa.com", "admin123")
		}()
		go func() {
			defer wg.Done()
			s.Logout(context.Background())
			_ = s.HasRole(domain.RoleAdmin)
			_ = s.Current()
		}()
	}
	wg.Wait()

	snap := s.Current()
	if snap.State == domain.SessionPresent && snap.Identity == nil {
		t.Fatalf("present state without identity")
	}
	if snap.State == domain.SessionLoading {
		t.Fatalf("state must be resolved after operations")
	}
}

func TestParseFallbackMode(t *testing.T) {
	cases := map[string]FallbackMode{
		"":            FallbackUnavailable,
		"OFF":         FallbackOff,
		" always ":    FallbackAlways,
		"unavailable": FallbackUnavailable,
	}
	for in, want := range cases {
		got, err := ParseFallbackMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseFallbackMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFallbackMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

// ---------------------------------------------------------------------------
// End-to-end scenarios
// ---------------------------------------------------------------------------

func TestScenario_AdminFallbackWhenRemoteUnreachable(t *testing.T) {
	store := &stubSessionStore{}
	s := newTestSession(&stubGateway{login: unreachable}, store, WithFallback(demoTable(), FallbackUnavailable))
	s.Bootstrap(context.Background())

	if !s.Login(context.Background(), "admin@empresa.com", "admin123") {
		t.Fatalf("expected login to succeed")
	}
	if !s.HasRole(domain.RoleAdmin) {
		t.Fatalf("expected admin role")
	}
	if s.HasRole(domain.RoleAccountant) {
		t.Fatalf("admin must not match contador")
	}
	if rec := store.stored(); rec == nil || rec.Token != "" {
		t.Fatalf("no token may be persisted after fallback, got %+v", rec)
	}
}

func TestScenario_NoMatchAnywhere(t *testing.T) {
	store := &stubSessionStore{}
	s := newTestSession(&stubGateway{login: unreachable}, store, WithFallback(demoTable(), FallbackUnavailable))
	s.Bootstrap(context.Background())

	if s.Login(context.Background(), "nope@x.com", "wrong") {
		t.Fatalf("expected login to fail")
	}
	if s.HasRole(domain.RoleAdmin) {
		t.Fatalf("no role after failed login")
	}
	if store.saves != 0 || store.stored() != nil {
		t.Fatalf("failed login must not write a record")
	}
}

func TestScenario_ValidationRefreshesName(t *testing.T) {
	stored := domain.Identity{ID: "9", Email: "ana@empresa.com", Nombre: "Old Name", Role: domain.RoleAssistant}
	remote := stored
	remote.Nombre = "New Name"

	s := newTestSession(
		&stubGateway{validate: result.Ok(remote)},
		&stubSessionStore{rec: &domain.SessionRecord{Identity: stored, Token: "abc"}},
	)
	snap := s.Bootstrap(context.Background())
	if snap.Identity == nil || snap.Identity.Nombre != "New Name" {
		t.Fatalf("expected remote identity, got %+v", snap.Identity)
	}
}
