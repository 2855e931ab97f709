package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/common"
)

// Messages used when the auth service fails without a readable error body.
const (
	LoginFailedMessage        = "Login failed"
	RegistrationFailedMessage = "Registration failed"
	RefreshFailedMessage      = "Token refresh failed"
)

// AuthClient talks to /api/auth on the auth service. It holds no state;
// tokens are passed in by the caller.
type AuthClient struct {
	t *transport
}

func NewAuthClient(baseURL string, opts ...Option) *AuthClient {
	return &AuthClient{t: newTransport("auth", baseURL, opts...)}
}

func (c *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", req, LoginFailedMessage)
}

func (c *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", req, RegistrationFailedMessage)
}

func (c *AuthClient) RegisterFull(ctx context.Context, req models.RegisterFullRequest) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register/full", req, RegistrationFailedMessage)
}

func (c *AuthClient) authenticate(ctx context.Context, path string, body any, fallback string) (*models.AuthResult, error) {
	var res models.AuthResult
	err := c.t.do(ctx, request{method: http.MethodPost, path: path, body: body, fallback: fallback}, &res)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" || res.RefreshToken == "" || res.User.ID == 0 {
		return nil, &common.Error{Kind: common.ErrUnknownHTTP, Status: http.StatusOK, Message: fallback}
	}
	return &res, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResult, error) {
	var res models.RefreshResult
	err := c.t.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/auth/refresh",
		body:     map[string]string{"refreshToken": refreshToken},
		fallback: RefreshFailedMessage,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, &common.Error{Kind: common.ErrUnknownHTTP, Status: http.StatusOK, Message: RefreshFailedMessage}
	}
	return &res, nil
}

// Validate returns nil when the server accepts accessToken.
func (c *AuthClient) Validate(ctx context.Context, accessToken string) error {
	return c.t.do(ctx, request{method: http.MethodPost, path: "/api/auth/validate", token: accessToken, authRequired: true}, nil)
}

func (c *AuthClient) Logout(ctx context.Context, accessToken string) error {
	return c.t.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout", token: accessToken, authRequired: true}, nil)
}
