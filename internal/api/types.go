// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "github.com/olegiv/obook-go/internal/model"

// LoginResponse is the token pair returned by POST /auth/login.
type LoginResponse struct {
	AccessToken            string `json:"access_token"`
	RefreshToken           string `json:"refresh_token,omitempty"`
	RequiresPasswordChange bool   `json:"requires_password_change,omitempty"`
}

// Profile is the authenticated user as returned by GET /auth/profile.
type Profile struct {
	ID                     string            `json:"id"`
	Email                  string            `json:"email"`
	Name                   string            `json:"name"`
	Role                   string            `json:"role"`
	ClientID               string            `json:"client_id,omitempty"`
	Modules                []model.ModuleKey `json:"modules,omitempty"`
	RequiresPasswordChange bool              `json:"requires_password_change,omitempty"`
}

// Principal converts the wire profile into the canonical session record,
// normalizing the role string at the boundary.
func (p Profile) Principal() *model.Principal {
	return &model.Principal{
		ID:                     p.ID,
		Email:                  p.Email,
		Name:                   p.Name,
		Role:                   model.ParseRole(p.Role),
		ClientID:               p.ClientID,
		Modules:                model.NewOverrides(p.Modules),
		RequiresPasswordChange: p.RequiresPasswordChange,
	}
}

// UserSummary is a user row in the admin users list.
type UserSummary struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Role     string            `json:"role"`
	ClientID string            `json:"client_id,omitempty"`
	Modules  []model.ModuleKey `json:"modules,omitempty"`
}

// CreateUserRequest is the payload for POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRoleRequest is the payload for PATCH /users/{id}/role.
// Either field may be omitted; Modules uses a pointer so an explicit null
// (clear the override list) is distinguishable from "leave unchanged".
type UpdateUserRoleRequest struct {
	Role    string             `json:"role,omitempty"`
	Modules *[]model.ModuleKey `json:"modules,omitempty"`
}

// Booking is a facility booking as listed by GET /bookings.
type Booking struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	LocationID string `json:"location_id"`
	FacilityID string `json:"facility_id,omitempty"`
	Status     string `json:"status"` // pending, confirmed, cancelled
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// Location is a bookable venue belonging to a client.
type Location struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Country     string   `json:"country,omitempty"`
	PostalCode  string   `json:"postal_code,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// LocationRequest is the payload for creating or updating a location.
type LocationRequest struct {
	ClientID    string   `json:"client_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Country     string   `json:"country,omitempty"`
	PostalCode  string   `json:"postal_code,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Facility is a bookable unit inside a location (a station, court or
// table). Facilities are location-scoped on the backend.
type Facility struct {
	ID         string         `json:"id"`
	LocationID string         `json:"location_id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Status     string         `json:"status"` // active, inactive, maintenance
	Capacity   *int           `json:"capacity,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
	UpdatedAt  string         `json:"updated_at,omitempty"`
}

// FacilityRequest is the payload for creating or updating a facility.
type FacilityRequest struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Status   string         `json:"status"`
	Capacity *int           `json:"capacity,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GamingCenter is a gaming venue row for the gaming module pages.
type GamingCenter struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	AdminID     string   `json:"admin_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Status      string   `json:"status"`
	LogoURL     string   `json:"logo_url,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	Country     string   `json:"country,omitempty"`
}

// ClientSummary is a business row in the admin clients list.
type ClientSummary struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	CompanyName     string `json:"company_name"`
	ContactName     string `json:"contact_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	Status          string `json:"status"` // pending, approved, rejected, suspended, active
	LogoURL         string `json:"logo_url,omitempty"`
	LocationsCount  int    `json:"locations_count,omitempty"`
	FacilitiesCount int    `json:"facilities_count,omitempty"`
}

// ClientDetail is the full business record shown on the client detail page.
type ClientDetail struct {
	ClientSummary
	Address                   string   `json:"address,omitempty"`
	State                     string   `json:"state,omitempty"`
	PostalCode                string   `json:"postal_code,omitempty"`
	TaxID                     string   `json:"tax_id,omitempty"`
	CompanyRegistrationNumber string   `json:"company_registration_number,omitempty"`
	Description               string   `json:"description,omitempty"`
	CoverImageURL             string   `json:"cover_image_url,omitempty"`
	CommissionRate            *float64 `json:"commission_rate,omitempty"`
	User                      *struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user,omitempty"`
}

// ClientStatistics is the aggregate card on the admin overview.
type ClientStatistics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Active    int `json:"active"`
	Rejected  int `json:"rejected"`
	Suspended int `json:"suspended"`
}

// RegisterClientRequest creates a business owner account and its client
// profile in one call (POST /auth/register-client).
type RegisterClientRequest struct {
	User struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
	Client struct {
		CompanyName string `json:"company_name"`
		ContactName string `json:"contact_name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Address     string `json:"address,omitempty"`
		City        string `json:"city"`
		State       string `json:"state,omitempty"`
		Country     string `json:"country"`
		PostalCode  string `json:"postal_code,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"client"`
}

// UploadResult is the response from the backend image upload endpoint.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
