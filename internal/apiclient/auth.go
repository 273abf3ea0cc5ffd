package apiclient

import (
	"context"

	"expense-backoffice/internal/models"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, in LoginInput) (*models.AuthTokens, error) {
	var out models.AuthTokens
	if err := c.post(ctx, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	var out models.AuthTokens
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.post(ctx, "/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*models.AuthUser, error) {
	var out models.AuthUser
	if err := c.post(ctx, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.AuthUser, error) {
	var out models.AuthUser
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
