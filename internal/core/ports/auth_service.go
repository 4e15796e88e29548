package ports

import (
	"context"

	"github.com/sactel/admin-console/internal/core/domain"
)

// AuthService is the server side of login and token validation.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Validate(ctx context.Context, token string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Nombre   string
	Role     string
}
