package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/pkg/metrics"
)

const maxLoginBody = 64 << 10

// LoginLimiter counts login attempts per subject.
type LoginLimiter interface {
	Allow(ctx context.Context, subject string) (bool, error)
	Reset(ctx context.Context, subject string) error
}

// LoginRateLimit throttles POST /login per email, falling back to the client
// IP when the body carries none. Limiter errors let the request through. A
// successful login clears the subject's counter.
func LoginRateLimit(limiter LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			subject := c.RealIP()

			if req.Body != nil {
				raw, err := io.ReadAll(io.LimitReader(req.Body, maxLoginBody))
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
				}
				req.Body = io.NopCloser(bytes.NewReader(raw))

				var body struct {
					Email string `json:"email"`
				}
				if json.Unmarshal(raw, &body) == nil && strings.TrimSpace(body.Email) != "" {
					subject = body.Email
				}
			}

			ok, err := limiter.Allow(req.Context(), subject)
			if err != nil {
				log.Warn().Err(err).Msg("login limiter unavailable, allowing request")
			}
			if !ok {
				metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"success": false,
					"error":   "too many login attempts, try again later",
				})
			}

			if err := next(c); err != nil {
				return err
			}

			if c.Response().Status == http.StatusOK {
				if err := limiter.Reset(req.Context(), subject); err != nil {
					log.Warn().Err(err).Msg("failed to reset login attempts")
				}
			}
			return nil
		}
	}
}
