// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Locations lists locations, optionally scoped to one client. Handlers pass
// the principal's ClientID here when the caller is a business owner.
func (c *Client) Locations(ctx context.Context, clientID string) ([]Location, error) {
	var query url.Values
	if clientID != "" {
		query = url.Values{"clientId": []string{clientID}}
	}
	var locations []Location
	if err := c.do(ctx, http.MethodGet, "/locations", query, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateLocation creates a location.
func (c *Client) CreateLocation(ctx context.Context, req LocationRequest) (*Location, error) {
	var location Location
	if err := c.do(ctx, http.MethodPost, "/locations", nil, req, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// UpdateLocation updates a location.
func (c *Client) UpdateLocation(ctx context.Context, id string, req LocationRequest) (*Location, error) {
	var location Location
	if err := c.do(ctx, http.MethodPatch, "/locations/"+id, nil, req, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation deletes a location.
func (c *Client) DeleteLocation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/locations/"+id, nil, nil, nil)
}

// Facilities lists the facilities at a location.
func (c *Client) Facilities(ctx context.Context, locationID string) ([]Facility, error) {
	var facilities []Facility
	if err := c.do(ctx, http.MethodGet, "/locations/"+locationID+"/facilities", nil, nil, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

// CreateFacility creates a facility at a location.
func (c *Client) CreateFacility(ctx context.Context, locationID string, req FacilityRequest) (*Facility, error) {
	var facility Facility
	if err := c.do(ctx, http.MethodPost, "/locations/"+locationID+"/facilities", nil, req, &facility); err != nil {
		return nil, err
	}
	return &facility, nil
}

// UpdateFacility updates a facility at a location.
func (c *Client) UpdateFacility(ctx context.Context, locationID, facilityID string, req FacilityRequest) (*Facility, error) {
	var facility Facility
	if err := c.do(ctx, http.MethodPatch, "/locations/"+locationID+"/facilities/"+facilityID, nil, req, &facility); err != nil {
		return nil, err
	}
	return &facility, nil
}

// DeleteFacility deletes a facility at a location.
func (c *Client) DeleteFacility(ctx context.Context, locationID, facilityID string) error {
	return c.do(ctx, http.MethodDelete, "/locations/"+locationID+"/facilities/"+facilityID, nil, nil, nil)
}
