package apiclient

import (
	"context"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/pkg/result"
)

// AuthGateway adapts Client to ports.AuthGateway.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{client: c}
}

// Login turns a login response into a grant. success:false or a missing user
// is an explicit rejection; a user with an unknown role is an invalid payload.
func (g *AuthGateway) Login(ctx context.Context, email, password string) result.Result[domain.LoginGrant] {
	res := g.client.Login(ctx, email, password)
	resp, ok := res.Value()
	if !ok {
		return result.Fail[domain.LoginGrant](res.Failure())
	}

	if !resp.Success || resp.User == nil {
		msg := resp.Error
		if msg == "" {
			msg = "login rejected"
		}
		return result.FailWith[domain.LoginGrant](result.KindRejected, 0, msg, nil)
	}

	identity := resp.User.Identity()
	if err := identity.Validate(); err != nil {
		return result.FailWith[domain.LoginGrant](result.KindDecode, 0, "invalid identity in login response", err)
	}
	return result.Ok(domain.LoginGrant{Identity: identity, Token: resp.Token})
}

func (g *AuthGateway) Validate(ctx context.Context, token string) result.Result[domain.Identity] {
	res := g.client.Validate(ctx, token)
	resp, ok := res.Value()
	if !ok {
		return result.Fail[domain.Identity](res.Failure())
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "token rejected"
		}
		return result.FailWith[domain.Identity](result.KindRejected, 0, msg, nil)
	}
	if err := resp.User.Validate(); err != nil {
		return result.FailWith[domain.Identity](result.KindDecode, 0, "invalid identity in validate response", err)
	}
	return result.Ok(resp.User)
}
