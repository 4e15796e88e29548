package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sactel/admin-console/internal/core/domain"
)

func runRBAC(t *testing.T, role any, allowed ...domain.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if role != nil {
		c.Set("role", role)
	}

	reached := false
	err := RBAC(allowed...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, reached
}

func TestRBAC(t *testing.T) {
	writers := []domain.Role{domain.RoleAdmin, domain.RoleAccountant}
	cases := []struct {
		name    string
		role    any
		allowed []domain.Role
		want    int
	}{
		{"admin writes", "admin", writers, http.StatusOK},
		{"contador writes", "contador", writers, http.StatusOK},
		{"visor cannot write", "visor", writers, http.StatusForbidden},
		{"asistente cannot write", "asistente", writers, http.StatusForbidden},
		{"empty role", "", writers, http.StatusForbidden},
		{"no role set", nil, writers, http.StatusForbidden},
		{"role of wrong type", domain.RoleAdmin, writers, http.StatusForbidden},
		{"empty allow list", "admin", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached := runRBAC(t, tc.role, tc.allowed...)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if reached != (tc.want == http.StatusOK) {
				t.Fatalf("next handler reached=%v for status %d", reached, rec.Code)
			}
		})
	}
}

func TestRBAC_ForbiddenNamesRequiredRoles(t *testing.T) {
	rec, _ := runRBAC(t, "asistente", domain.RoleAdmin, domain.RoleAccountant)

	if !strings.Contains(rec.Body.String(), "requires admin or contador") {
		t.Fatalf("expected required roles in body, got %s", rec.Body.String())
	}
}
