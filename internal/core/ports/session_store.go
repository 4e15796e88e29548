package ports

import (
	"context"

	"github.com/sactel/admin-console/internal/core/domain"
)

// SessionStore persists the single Session Record of a console profile.
type SessionStore interface {
	// Load returns domain.ErrNoSession when nothing is stored and
	// domain.ErrCorruptSession when the stored identity cannot be decoded.
	Load(ctx context.Context) (*domain.SessionRecord, error)
	// Save overwrites the record. An empty token removes any stored token.
	Save(ctx context.Context, rec domain.SessionRecord) error
	// Clear removes identity and token together. Clearing an empty store is
	// not an error.
	Clear(ctx context.Context) error
}
