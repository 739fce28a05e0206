// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/render"
)

// LocationsHandler manages venues and the facilities inside them.
type LocationsHandler struct {
	backend  *api.Client
	renderer *render.Renderer
}

// NewLocationsHandler creates a new LocationsHandler.
func NewLocationsHandler(backend *api.Client, renderer *render.Renderer) *LocationsHandler {
	return &LocationsHandler{backend: backend, renderer: renderer}
}

// locationsURL is the list redirect target.
const locationsURL = RouteDashboard + RouteLocations

// List renders the locations list with the inline creation form.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	locations, err := h.backend.Locations(r.Context(), clientScope(principal))
	if err != nil {
		backendError(w, r, h.renderer, redirectDashboard, err)
		return
	}

	data := render.TemplateData{
		Title:     "Locations",
		Principal: principal,
		Data: map[string]any{
			"Locations": locations,
		},
	}
	if err := h.renderer.Render(w, r, "admin/locations", data); err != nil {
		logAndInternalError(w, "rendering locations", "error", err)
	}
}

// Create handles the new location form submission.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, locationsURL) {
		return
	}

	req, ok := h.locationRequest(w, r)
	if !ok {
		return
	}

	loc, err := h.backend.CreateLocation(r.Context(), req)
	if err != nil {
		backendError(w, r, h.renderer, locationsURL, err)
		return
	}

	slog.Info("location created", "location_id", loc.ID, "name", loc.Name)
	flashSuccess(w, r, h.renderer, locationsURL, "Location created")
}

// Update handles the edit form submission for one location.
func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, locationsURL) {
		return
	}

	id := chi.URLParam(r, "id")
	req, ok := h.locationRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.backend.UpdateLocation(r.Context(), id, req); err != nil {
		backendError(w, r, h.renderer, locationsURL, err)
		return
	}

	flashSuccess(w, r, h.renderer, locationsURL, "Location updated")
}

// Delete removes a location.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.backend.DeleteLocation(r.Context(), id); err != nil {
		backendError(w, r, h.renderer, locationsURL, err)
		return
	}

	slog.Info("location deleted", "location_id", id)
	flashSuccess(w, r, h.renderer, locationsURL, "Location deleted")
}

// locationRequest builds the backend payload from the submitted form.
// Business owners are pinned to their own client; the redirect on
// validation failure has already happened when ok is false.
func (h *LocationsHandler) locationRequest(w http.ResponseWriter, r *http.Request) (api.LocationRequest, bool) {
	principal := middleware.GetPrincipal(r)

	req := api.LocationRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		Address:     strings.TrimSpace(r.FormValue("address")),
		City:        strings.TrimSpace(r.FormValue("city")),
		State:       strings.TrimSpace(r.FormValue("state")),
		Country:     strings.TrimSpace(r.FormValue("country")),
		PostalCode:  strings.TrimSpace(r.FormValue("postal_code")),
	}

	if principal != nil && principal.Role.IsClient() {
		req.ClientID = principal.ClientID
	} else {
		req.ClientID = strings.TrimSpace(r.FormValue("client_id"))
	}

	if req.Name == "" {
		flashError(w, r, h.renderer, locationsURL, "Location name is required")
		return req, false
	}

	if lat := r.FormValue("latitude"); lat != "" {
		v, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			flashError(w, r, h.renderer, locationsURL, "Latitude must be a number")
			return req, false
		}
		req.Latitude = &v
	}
	if lng := r.FormValue("longitude"); lng != "" {
		v, err := strconv.ParseFloat(lng, 64)
		if err != nil {
			flashError(w, r, h.renderer, locationsURL, "Longitude must be a number")
			return req, false
		}
		req.Longitude = &v
	}

	return req, true
}
