// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/obook-go/internal/model"
)

// Users lists all users visible to the caller.
func (c *Client) Users(ctx context.Context) ([]UserSummary, error) {
	var users []UserSummary
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// User fetches a single user by id.
func (c *Client) User(ctx context.Context, id string) (*UserSummary, error) {
	var user UserSummary
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*UserSummary, error) {
	var user UserSummary
	if err := c.do(ctx, http.MethodPost, "/users", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserModules replaces a user's module override list. A nil slice is
// sent as an explicit JSON null, which clears the override and restores
// role-default visibility.
func (c *Client) UpdateUserModules(ctx context.Context, id string, modules []model.ModuleKey) (*UserSummary, error) {
	var user UserSummary
	body := map[string]any{"modules": modules}
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/modules", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserRole updates a user's role and, optionally, modules.
func (c *Client) UpdateUserRole(ctx context.Context, id string, req UpdateUserRoleRequest) (*UserSummary, error) {
	var user UserSummary
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/role", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserPassword sets a user's password (admin reset).
func (c *Client) UpdateUserPassword(ctx context.Context, id, password string) (*UserSummary, error) {
	var user UserSummary
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/password", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
