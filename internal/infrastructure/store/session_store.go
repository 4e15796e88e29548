package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

// SessionStore implements ports.SessionStore over a KV.
type SessionStore struct {
	kv KV
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

func (s *SessionStore) Load(ctx context.Context) (*domain.SessionRecord, error) {
	raw, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load %s: %w", KeyUser, err)
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal([]byte(raw), &rec.Identity); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}

	token, err := s.kv.Get(ctx, KeyToken)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", KeyToken, err)
	default:
		rec.Token = token
	}
	return &rec, nil
}

// Save writes both keys in one KV update. A record without a token removes
// any stored token in the same update, so a failed save leaves the previous
// record intact instead of pairing the new identity with the old token.
func (s *SessionStore) Save(ctx context.Context, rec domain.SessionRecord) error {
	raw, err := json.Marshal(rec.Identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	set := map[string]string{KeyUser: string(raw)}
	var del []string
	if rec.Token == "" {
		del = append(del, KeyToken)
	} else {
		set[KeyToken] = rec.Token
	}
	if err := s.kv.Replace(ctx, set, del...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUser, KeyToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
