package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/getfit/internal/client/models"
)

// UsersClient reads and updates profiles under /api/users on the auth
// service.
type UsersClient struct {
	t      *transport
	tokens TokenSource
}

func NewUsersClient(baseURL string, tokens TokenSource, opts ...Option) *UsersClient {
	return &UsersClient{t: newTransport("users", baseURL, opts...), tokens: tokens}
}

func (c *UsersClient) call(ctx context.Context, method, path string, body, out any) error {
	tok, err := bearer(ctx, c.tokens)
	if err != nil {
		return err
	}
	return c.t.do(ctx, request{method: method, path: path, body: body, token: tok, authRequired: true}, out)
}

func (c *UsersClient) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	var res models.UserResponse
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// UpdateProfile sends only the non-nil fields of patch and returns the
// profile as stored by the server.
func (c *UsersClient) UpdateProfile(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	var res models.UserResponse
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), patch, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *UsersClient) FitnessSummary(ctx context.Context, userID int64) (*models.FitnessSummary, error) {
	var res models.FitnessSummary
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/fitness-summary", userID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
