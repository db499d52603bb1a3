package api

import (
	"context"
	"fmt"
)

func (c *Client) Login(ctx context.Context, email string, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/api/auth/login", map[string]any{
		"email": email,
		"sifre": password,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, email string, password string, fullName string) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/api/auth/register", map[string]any{
		"email":   email,
		"sifre":   password,
		"adSoyad": fullName,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return &resp, nil
}
