package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sactel/admin-console/internal/core/domain"
)

// ctxIdentity extracts the principal injected by the Auth middleware. A
// missing or unknown role means the middleware did not run for this route.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	role, _ := c.Get("role").(string)
	if !domain.Role(role).Valid() {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	id := domain.Identity{Role: domain.Role(role)}
	id.ID, _ = c.Get("user_id").(string)
	id.Email, _ = c.Get("email").(string)
	id.Nombre, _ = c.Get("nombre").(string)
	return id, nil
}
