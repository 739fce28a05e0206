// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges credentials for a token pair. A 401 from this endpoint is
// ErrInvalidCredentials, never a refresh trigger.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var tokens LoginResponse
	err := c.do(ctx, http.MethodPost, pathLogin, nil, map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &tokens, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout notifies the backend that the refresh token should be revoked.
// Best-effort: the caller ignores the error beyond logging.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	var body any
	if refreshToken != "" {
		body = map[string]string{"refresh_token": refreshToken}
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, body, nil)
}

// ChangePassword updates the authenticated user's own password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, map[string]string{
		"current_password": current,
		"new_password":     updated,
	}, nil)
}

// RegisterClient creates a business owner user and its client profile in a
// single backend call.
func (c *Client) RegisterClient(ctx context.Context, req RegisterClientRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register-client", nil, req, nil)
}
