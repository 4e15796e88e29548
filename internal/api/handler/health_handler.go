package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessBudget = 3 * time.Second

// pinger checks one backing service. A nil pinger means the service is not
// configured.
type pinger func(ctx context.Context) error

// HealthHandler serves the probes. MongoDB and Redis are both optional: the
// in-memory backend runs without them.
type HealthHandler struct {
	deps map[string]pinger
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	h := &HealthHandler{deps: map[string]pinger{"mongodb": nil, "redis": nil}}
	if db != nil {
		h.deps["mongodb"] = func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}
	}
	if rdb != nil {
		h.deps["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return h
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness answers 200 while the process is up.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness pings every configured dependency; any failure is a 503.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessBudget)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.deps))}
	for name, ping := range h.deps {
		switch {
		case ping == nil:
			resp.Dependencies[name] = dependencyStatus{Status: "disabled"}
		default:
			if err := ping(ctx); err != nil {
				resp.Dependencies[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				resp.Status = "degraded"
				continue
			}
			resp.Dependencies[name] = dependencyStatus{Status: "ok"}
		}
	}

	if resp.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
