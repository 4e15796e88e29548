package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sactel/admin-console/internal/core/domain"
)

// TokenValidator resolves a bearer token to the account it was issued for.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.User, error)
}

// Auth validates the bearer token and injects the account into context.
// Handlers read it back with c.Get("role"), "user_id", "email" and "nombre".
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := validator.Validate(c.Request().Context(), parts[1])
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrInvalidToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case errors.Is(err, domain.ErrInactiveUser):
				return echo.NewHTTPError(http.StatusForbidden, "user is inactive")
			default:
				return err
			}

			c.Set("user_id", user.ID)
			c.Set("email", user.Email)
			c.Set("nombre", user.Nombre)
			c.Set("role", string(user.Role))

			return next(c)
		}
	}
}
