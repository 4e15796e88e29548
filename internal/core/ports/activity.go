package ports

import (
	"context"
	"time"

	"github.com/sactel/admin-console/internal/core/domain"
)

// ActivityRepository persists the activity log.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.Activity) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)
}

// ActivityInput is the DTO passed from the transport layer to ActivityService.
type ActivityInput struct {
	Kind     domain.ActivityKind
	EntityID string
	Actor    string
	Summary  string
	At       time.Time
}

// ActivityService records and lists back-office activity.
type ActivityService interface {
	Process(ctx context.Context, in ActivityInput) error
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)
}

// ActivityRecorder accepts activity for asynchronous processing.
type ActivityRecorder interface {
	Enqueue(in ActivityInput)
}
