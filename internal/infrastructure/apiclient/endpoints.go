package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/pkg/result"
)

// LoginUser is the user object of a login response. Password is present in
// some deployments and is discarded by Identity.
type LoginUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// Identity drops the password.
func (u LoginUser) Identity() domain.Identity {
	return domain.Identity{ID: u.ID, Email: u.Email, Nombre: u.Nombre, Role: domain.Role(u.Role)}
}

// LoginResponse is the body of POST /login.
type LoginResponse struct {
	Success bool       `json:"success"`
	User    *LoginUser `json:"user,omitempty"`
	Token   string     `json:"token,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// ValidateResponse is the body of GET /validate. The auth service may answer
// with either {"success": true, "user": {...}} or a bare identity object.
type ValidateResponse struct {
	Success bool
	User    domain.Identity
	Error   string
}

func (v *ValidateResponse) UnmarshalJSON(b []byte) error {
	var env struct {
		Success *bool            `json:"success"`
		User    *domain.Identity `json:"user"`
		Error   string           `json:"error"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.Success != nil || env.User != nil {
		v.Success = env.Success == nil || *env.Success
		if env.User != nil {
			v.User = *env.User
		}
		v.Error = env.Error
		return nil
	}

	var id domain.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	v.Success = true
	v.User = id
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials to the auth service.
func (c *Client) Login(ctx context.Context, email, password string) result.Result[LoginResponse] {
	return Do[LoginResponse](ctx, c, "/login",
		WithService(ServiceAuth),
		WithMethod(http.MethodPost),
		WithBody(loginRequest{Email: email, Password: password}),
		Anonymous(),
	)
}

// Validate asks the auth service who token belongs to.
func (c *Client) Validate(ctx context.Context, token string) result.Result[ValidateResponse] {
	return Do[ValidateResponse](ctx, c, "/validate",
		WithService(ServiceAuth),
		WithBearer(token),
	)
}

// ListUsers returns the accounts known to the auth service.
func (c *Client) ListUsers(ctx context.Context) result.Result[[]domain.User] {
	return Do[[]domain.User](ctx, c, "/users", WithService(ServiceAuth))
}

func (c *Client) DashboardStats(ctx context.Context) result.Result[domain.DashboardStats] {
	return Do[domain.DashboardStats](ctx, c, "/dashboard/stats")
}

func (c *Client) ListRooms(ctx context.Context) result.Result[[]domain.Room] {
	return Do[[]domain.Room](ctx, c, "/habitaciones")
}

func (c *Client) ListInvoices(ctx context.Context) result.Result[[]domain.Invoice] {
	return Do[[]domain.Invoice](ctx, c, "/facturas")
}

func (c *Client) ListTransactions(ctx context.Context) result.Result[[]domain.Transaction] {
	return Do[[]domain.Transaction](ctx, c, "/transacciones")
}

// ListActivity returns the newest activity log entries. limit <= 0 lets the
// server pick its default page size.
func (c *Client) ListActivity(ctx context.Context, limit int) result.Result[[]domain.Activity] {
	path := "/actividad"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return Do[[]domain.Activity](ctx, c, path)
}

// CreateInvoice posts a new invoice. A non-empty idempotencyKey makes retries
// safe.
func (c *Client) CreateInvoice(ctx context.Context, draft domain.InvoiceDraft, idempotencyKey string) result.Result[domain.Invoice] {
	opts := []RequestOption{WithMethod(http.MethodPost), WithBody(draft)}
	if idempotencyKey != "" {
		opts = append(opts, WithHeader("Idempotency-Key", idempotencyKey))
	}
	return Do[domain.Invoice](ctx, c, "/facturas", opts...)
}

// PatchRoom applies a partial update to room id.
func (c *Client) PatchRoom(ctx context.Context, id string, patch domain.RoomPatch) result.Result[domain.Room] {
	return Do[domain.Room](ctx, c, "/habitaciones/"+url.PathEscape(id),
		WithMethod(http.MethodPatch),
		WithBody(patch),
	)
}
