package ports

import (
	"context"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/pkg/result"
)

// AuthGateway is the console's view of the remote authentication service.
// Implementations never panic and never return Go errors: every outcome is
// folded into the Result.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) result.Result[domain.LoginGrant]
	Validate(ctx context.Context, token string) result.Result[domain.Identity]
}
