package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sactel/admin-console/internal/core/domain"
)

// RBAC lets the request through when the role set by Auth is one of roles.
// An empty role list admits nobody.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	roles = slices.Clone(roles)
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := map[string]string{"error": "forbidden: requires " + strings.Join(names, " or ")}
	if len(roles) == 0 {
		denied["error"] = "forbidden"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" || !slices.Contains(roles, domain.Role(role)) {
				return c.JSON(http.StatusForbidden, denied)
			}
			return next(c)
		}
	}
}
