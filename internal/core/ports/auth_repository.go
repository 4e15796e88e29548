package ports

import (
	"context"

	"github.com/sactel/admin-console/internal/core/domain"
)

// UserRepository defines persistence for auth service accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
