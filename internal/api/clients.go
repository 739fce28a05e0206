// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Clients lists all business profiles.
func (c *Client) Clients(ctx context.Context) ([]ClientSummary, error) {
	var clients []ClientSummary
	if err := c.do(ctx, http.MethodGet, "/clients", nil, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ClientByID fetches a business profile.
func (c *Client) ClientByID(ctx context.Context, id string) (*ClientDetail, error) {
	var detail ClientDetail
	if err := c.do(ctx, http.MethodGet, "/clients/"+id, nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ClientByUserID fetches the business profile owned by a user. Used by the
// settings page when the principal has the client role.
func (c *Client) ClientByUserID(ctx context.Context, userID string) (*ClientDetail, error) {
	var detail ClientDetail
	if err := c.do(ctx, http.MethodGet, "/clients/user/"+userID, nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateClient patches a business profile with the given fields.
func (c *Client) UpdateClient(ctx context.Context, id string, fields map[string]any) (*ClientSummary, error) {
	var summary ClientSummary
	if err := c.do(ctx, http.MethodPatch, "/clients/"+id, nil, fields, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ClientStatistics fetches the aggregate business counts for the admin
// overview card.
func (c *Client) ClientStatistics(ctx context.Context) (*ClientStatistics, error) {
	var stats ClientStatistics
	if err := c.do(ctx, http.MethodGet, "/clients/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ApproveClient approves a pending business.
func (c *Client) ApproveClient(ctx context.Context, id string) (*ClientSummary, error) {
	return c.clientAction(ctx, id, "approve", "")
}

// ActivateClient re-activates a suspended business.
func (c *Client) ActivateClient(ctx context.Context, id string) (*ClientSummary, error) {
	return c.clientAction(ctx, id, "activate", "")
}

// RejectClient rejects a pending business with a reason.
func (c *Client) RejectClient(ctx context.Context, id, reason string) (*ClientSummary, error) {
	return c.clientAction(ctx, id, "reject", reason)
}

// SuspendClient suspends an active business with a reason.
func (c *Client) SuspendClient(ctx context.Context, id, reason string) (*ClientSummary, error) {
	return c.clientAction(ctx, id, "suspend", reason)
}

func (c *Client) clientAction(ctx context.Context, id, action, reason string) (*ClientSummary, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	var summary ClientSummary
	if err := c.do(ctx, http.MethodPost, "/clients/"+id+"/"+action, nil, body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GamingCenters lists gaming venues, optionally scoped to one client.
func (c *Client) GamingCenters(ctx context.Context, clientID string) ([]GamingCenter, error) {
	var query url.Values
	if clientID != "" {
		query = url.Values{"clientId": []string{clientID}}
	}
	var centers []GamingCenter
	if err := c.do(ctx, http.MethodGet, "/gaming", query, nil, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}
