package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/internal/pkg/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
	activity    ports.ActivityRecorder
}

// NewAuthHandler builds the handler. activity may be nil.
func NewAuthHandler(authService ports.AuthService, activity ports.ActivityRecorder) *AuthHandler {
	return &AuthHandler{authService: authService, activity: recorderOrNop(activity)}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nombre   string `json:"nombre" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin contador asistente visor"`
}

// authResponse is the envelope of /login and /validate. Failures carry
// success=false and an error message instead of user and token.
type authResponse struct {
	Success bool             `json:"success"`
	User    *domain.Identity `json:"user,omitempty"`
	Token   string           `json:"token,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func authFailure(c echo.Context, status int, msg string) error {
	return c.JSON(status, authResponse{Success: false, Error: msg})
}

// Login authenticates an account and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Failure      403   {object}  authResponse
// @Failure      429   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return authFailure(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return authFailure(c, http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return authFailure(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrInactiveUser):
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return authFailure(c, http.StatusForbidden, "user is inactive")
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	identity := user.Identity()
	return c.JSON(http.StatusOK, authResponse{Success: true, User: &identity, Token: token})
}

// Validate echoes the account behind the bearer token with its current data.
//
// @Summary      Validate token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, User: &identity})
}

// Register creates a new account.
//
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Nombre:   req.Nombre,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	h.activity.Enqueue(ports.ActivityInput{
		Kind:     domain.ActivityUserRegistered,
		EntityID: user.ID,
		Actor:    actor(c),
		Summary:  user.Email + " (" + string(user.Role) + ")",
	})
	return c.JSON(http.StatusCreated, user)
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}
