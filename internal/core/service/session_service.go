package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/pkg/result"
)

// SessionService owns the current identity of one console instance: it
// restores it at startup, establishes it on login and drops it on logout.
//
// Every method resolves to a definite state. Remote failures are logged and
// turned into fallbacks, never returned to the caller.
type SessionService struct {
	gateway ports.AuthGateway
	store   ports.SessionStore
	table   ports.CredentialTable
	mode    FallbackMode
	log     zerolog.Logger

	mu    sync.RWMutex
	snap  domain.Snapshot
	token string

	subMu   sync.Mutex
	subs    map[int]func(domain.Snapshot)
	nextSub int
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithFallback enables the static credential table under the given mode.
// A nil table disables fallback regardless of mode.
func WithFallback(table ports.CredentialTable, mode FallbackMode) SessionOption {
	return func(s *SessionService) {
		s.table = table
		s.mode = mode
	}
}

// NewSessionService returns a service in the loading state. Call Bootstrap
// before relying on Current.
func NewSessionService(gateway ports.AuthGateway, store ports.SessionStore, log zerolog.Logger, opts ...SessionOption) *SessionService {
	s := &SessionService{
		gateway: gateway,
		store:   store,
		mode:    FallbackOff,
		log:     log,
		snap:    domain.Snapshot{State: domain.SessionLoading},
		subs:    make(map[int]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap restores the stored session, if any.
//
// A stored record with a token is revalidated remotely: the remote identity
// wins when the auth service answers, otherwise the cached identity is kept
// and the token left untouched. Records without a token came from a fallback
// login and are restored as-is. Undecodable records are cleared.
func (s *SessionService) Bootstrap(ctx context.Context) domain.Snapshot {
	rec, err := s.store.Load(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSession):
			s.log.Debug().Msg("no stored session")
		case errors.Is(err, domain.ErrCorruptSession):
			s.log.Warn().Err(err).Msg("stored session unreadable, clearing")
			s.clearStore(ctx)
		default:
			s.log.Error().Err(err).Msg("session store unavailable")
		}
		return s.setAbsent()
	}

	if err := rec.Identity.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("stored identity invalid, clearing")
		s.clearStore(ctx)
		return s.setAbsent()
	}

	if rec.Token == "" {
		return s.setPresent(rec.Identity, "", domain.SourceCache)
	}

	res := s.gateway.Validate(ctx, rec.Token)
	identity, ok := res.Value()
	if ok {
		if err := identity.Validate(); err != nil {
			ok = false
			res = result.FailWith[domain.Identity](result.KindDecode, 0, "remote identity rejected", err)
		}
	}
	if !ok {
		f := res.Failure()
		s.log.Warn().
			Str("kind", string(f.Kind)).
			Int("status", f.Status).
			Str("error", f.Error()).
			Msg("token validation failed, keeping cached identity")
		return s.setPresent(rec.Identity, rec.Token, domain.SourceCache)
	}

	updated := domain.SessionRecord{Identity: identity, Token: rec.Token}
	if err := s.store.Save(ctx, updated); err != nil {
		s.log.Error().Err(err).Msg("failed to persist refreshed identity")
	}
	return s.setPresent(identity, rec.Token, domain.SourceRemote)
}

// Login authenticates against the remote service first and, when the
// fallback mode allows it, against the static credential table. It reports
// whether an identity was established. A failed login leaves both the
// in-memory state and the stored record untouched.
func (s *SessionService) Login(ctx context.Context, email, password string) bool {
	res := s.gateway.Login(ctx, email, password)

	failure := res.Failure()
	if grant, ok := res.Value(); ok {
		if err := grant.Identity.Validate(); err != nil {
			failure = result.NewFailure(result.KindDecode, 0, "remote identity rejected", err)
		} else {
			s.establish(ctx, domain.SessionRecord{Identity: grant.Identity, Token: grant.Token}, domain.SourceRemote)
			return true
		}
	}

	s.log.Warn().
		Str("kind", string(failure.Kind)).
		Int("status", failure.Status).
		Str("error", failure.Error()).
		Msg("remote login failed")

	if s.table == nil || !s.mode.allows(failure) {
		return false
	}

	identity, ok := s.table.Lookup(email, password)
	if !ok {
		s.log.Info().Msg("fallback credentials did not match")
		return false
	}
	if err := identity.Validate(); err != nil {
		s.log.Error().Err(err).Msg("fallback entry has an invalid identity")
		return false
	}

	s.establish(ctx, domain.SessionRecord{Identity: identity}, domain.SourceFallback)
	return true
}

// Logout drops the identity and the stored record. Safe to call repeatedly.
func (s *SessionService) Logout(ctx context.Context) {
	s.clearStore(ctx)
	s.setAbsent()
}

// HasRole reports whether a current identity exists and its role is one of
// roles. It is false when nobody is logged in and for an empty role set.
func (s *SessionService) HasRole(roles ...domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.State != domain.SessionPresent || s.snap.Identity == nil {
		return false
	}
	return s.snap.Identity.HasRole(roles...)
}

// Current returns a copy of the session snapshot.
func (s *SessionService) Current() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

// Token returns the bearer token of the current session, "" if none.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenSource exposes the session token to HTTP clients. It yields
// domain.ErrNoToken while no remote-issued token is held.
func (s *SessionService) TokenSource() oauth2.TokenSource {
	return sessionTokenSource{s: s}
}

// Subscribe registers fn to receive every snapshot change. fn runs on the
// goroutine that caused the change. The returned func unsubscribes.
func (s *SessionService) Subscribe(fn func(domain.Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *SessionService) establish(ctx context.Context, rec domain.SessionRecord, source domain.SessionSource) {
	if err := s.store.Save(ctx, rec); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
	}
	s.setPresent(rec.Identity, rec.Token, source)
}

func (s *SessionService) clearStore(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored session")
	}
}

func (s *SessionService) setPresent(identity domain.Identity, token string, source domain.SessionSource) domain.Snapshot {
	snap := domain.Snapshot{State: domain.SessionPresent, Identity: &identity, Source: source}
	s.log.Info().
		Str("state", snap.State.String()).
		Str("source", string(source)).
		Str("email", identity.Email).
		Str("role", string(identity.Role)).
		Msg("session established")
	return s.set(snap, token)
}

func (s *SessionService) setAbsent() domain.Snapshot {
	s.log.Debug().Msg("session absent")
	return s.set(domain.Snapshot{State: domain.SessionAbsent}, "")
}

func (s *SessionService) set(snap domain.Snapshot, token string) domain.Snapshot {
	s.mu.Lock()
	s.snap = snap
	s.token = token
	out := copySnapshot(snap)
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(copySnapshot(out))
	}
	return out
}

func copySnapshot(snap domain.Snapshot) domain.Snapshot {
	if snap.Identity != nil {
		id := *snap.Identity
		snap.Identity = &id
	}
	return snap
}

type sessionTokenSource struct {
	s *SessionService
}

func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	tok := ts.s.Token()
	if tok == "" {
		return nil, domain.ErrNoToken
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}
