package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

// ActivityHandler serves the activity log.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List handles GET /actividad.
//
// @Summary      Recent back-office activity
// @Tags         data
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default 50, max 200)"
// @Success      200    {array}   domain.Activity
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /actividad [get]
func (h *ActivityHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	entries, err := h.service.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.Activity{}
	}
	return c.JSON(http.StatusOK, entries)
}

type nopRecorder struct{}

func (nopRecorder) Enqueue(ports.ActivityInput) {}

func recorderOrNop(r ports.ActivityRecorder) ports.ActivityRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// actor is the email of the authenticated caller, or "" on public routes.
func actor(c echo.Context) string {
	if who, err := ctxIdentity(c); err == nil {
		return who.Email
	}
	return ""
}
