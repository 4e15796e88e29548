package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
)

// errorResponse is the {"error": "..."} envelope shared by both services.
type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus maps sentinel errors to HTTP codes, first match wins. An empty
// message returns err.Error() so validation errors keep the offending field.
var domainStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrRoomNotFound, http.StatusNotFound, "room not found"},
	{domain.ErrInvoiceNotFound, http.StatusNotFound, "invoice not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrInvalidRoom, http.StatusUnprocessableEntity, ""},
	{domain.ErrInvalidInvoice, http.StatusUnprocessableEntity, ""},
	{domain.ErrInvalidRole, http.StatusBadRequest, ""},
	{domain.ErrInvalidIdentity, http.StatusBadRequest, ""},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
	{domain.ErrInactiveUser, http.StatusForbidden, "user is inactive"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrInvoiceExists, http.StatusConflict, ""},
}

// NewHTTPErrorHandler renders every error returned by a handler. Unknown
// errors are logged with the request id and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg, known := statusFor(err)
		if !known {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func statusFor(err error) (int, string, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message), true
	}
	for _, m := range domainStatus {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.msg == "" {
			return m.code, err.Error(), true
		}
		return m.code, m.msg, true
	}
	return http.StatusInternalServerError, "internal server error", false
}
