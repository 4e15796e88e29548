package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Process validates and persists a single activity entry.
func (s *activityService) Process(ctx context.Context, in ports.ActivityInput) error {
	if !in.Kind.Valid() {
		return fmt.Errorf("process activity: %w: unknown kind %q", domain.ErrInvalidActivity, in.Kind)
	}
	if in.EntityID == "" {
		return fmt.Errorf("process activity: %w: entity id is required", domain.ErrInvalidActivity)
	}

	at := in.At
	if at.IsZero() {
		at = s.now()
	}
	entry := &domain.Activity{
		ID:       uuid.NewString(),
		Kind:     in.Kind,
		EntityID: in.EntityID,
		Actor:    in.Actor,
		Summary:  in.Summary,
		At:       at.UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("process activity: insert: %w", err)
	}

	s.log.Info().
		Str("kind", string(in.Kind)).
		Str("entity", in.EntityID).
		Str("actor", in.Actor).
		Msg("activity recorded")
	return nil
}

// Recent lists the newest entries. limit <= 0 selects the default page size.
func (s *activityService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return entries, nil
}
