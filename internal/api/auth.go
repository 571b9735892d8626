package api

import (
	"context"

	"betyaClient/internal/types/user"
)

func (c *Client) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.post(ctx, "/auth/logowanie", "/auth/logowanie", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.post(ctx, "/register/rejestracja", "/register/rejestracja", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
