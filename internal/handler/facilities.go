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
	"github.com/olegiv/obook-go/internal/uikit"
)

// facilityTypes is the closed set of bookable facility kinds the backend
// accepts, also used to populate the type selector.
var facilityTypes = []string{"gaming", "snooker", "table-tennis", "cricket", "futsal-turf", "padel"}

// facilityStatuses are the lifecycle states a facility can be in.
var facilityStatuses = []string{"active", "inactive", "maintenance"}

// FacilitiesHandler manages the facilities inside a location and the
// business owner's cross-location facilities view.
type FacilitiesHandler struct {
	backend  *api.Client
	renderer *render.Renderer
}

// NewFacilitiesHandler creates a new FacilitiesHandler.
func NewFacilitiesHandler(backend *api.Client, renderer *render.Renderer) *FacilitiesHandler {
	return &FacilitiesHandler{backend: backend, renderer: renderer}
}

func facilitiesURL(locationID string) string {
	return RouteDashboard + RouteLocations + "/" + locationID + RouteFacilities
}

// ListForLocation renders the facilities of one location with the inline
// creation form.
func (h *FacilitiesHandler) ListForLocation(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	locationID := chi.URLParam(r, "id")

	facilities, err := h.backend.Facilities(r.Context(), locationID)
	if err != nil {
		backendError(w, r, h.renderer, locationsURL, err)
		return
	}

	data := render.TemplateData{
		Title:     "Facilities",
		Principal: principal,
		Data: map[string]any{
			"LocationID": locationID,
			"Facilities": facilities,
			"Types":      facilityTypes,
			"Statuses":   facilityStatuses,
			"Breadcrumbs": []uikit.Breadcrumb{
				{Label: "Locations", URL: locationsURL},
				{Label: "Facilities", Active: true},
			},
		},
	}
	if err := h.renderer.Render(w, r, "admin/facilities", data); err != nil {
		logAndInternalError(w, "rendering facilities", "error", err)
	}
}

// Overview renders every facility across the business owner's locations.
func (h *FacilitiesHandler) Overview(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	locations, err := h.backend.Locations(r.Context(), clientScope(principal))
	if err != nil {
		backendError(w, r, h.renderer, redirectDashboard, err)
		return
	}

	locationNames := make(map[string]string, len(locations))
	var facilities []api.Facility
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
		list, err := h.backend.Facilities(r.Context(), loc.ID)
		if err != nil {
			slog.Warn("facilities unavailable", "location_id", loc.ID, "error", err)
			continue
		}
		facilities = append(facilities, list...)
	}

	data := render.TemplateData{
		Title:     "Facilities",
		Principal: principal,
		Data: map[string]any{
			"Facilities":    facilities,
			"LocationNames": locationNames,
		},
	}
	if err := h.renderer.Render(w, r, "admin/facilities_overview", data); err != nil {
		logAndInternalError(w, "rendering facilities overview", "error", err)
	}
}

// Create handles the new facility form submission.
func (h *FacilitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "id")
	listURL := facilitiesURL(locationID)

	if !parseFormOrRedirect(w, r, h.renderer, listURL) {
		return
	}

	req, ok := h.facilityRequest(w, r, listURL)
	if !ok {
		return
	}

	facility, err := h.backend.CreateFacility(r.Context(), locationID, req)
	if err != nil {
		backendError(w, r, h.renderer, listURL, err)
		return
	}

	slog.Info("facility created", "facility_id", facility.ID, "location_id", locationID, "type", facility.Type)
	flashSuccess(w, r, h.renderer, listURL, "Facility created")
}

// Update handles the edit form submission for one facility.
func (h *FacilitiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "id")
	facilityID := chi.URLParam(r, "facilityId")
	listURL := facilitiesURL(locationID)

	if !parseFormOrRedirect(w, r, h.renderer, listURL) {
		return
	}

	req, ok := h.facilityRequest(w, r, listURL)
	if !ok {
		return
	}

	if _, err := h.backend.UpdateFacility(r.Context(), locationID, facilityID, req); err != nil {
		backendError(w, r, h.renderer, listURL, err)
		return
	}

	flashSuccess(w, r, h.renderer, listURL, "Facility updated")
}

// Delete removes a facility from its location.
func (h *FacilitiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "id")
	facilityID := chi.URLParam(r, "facilityId")
	listURL := facilitiesURL(locationID)

	if err := h.backend.DeleteFacility(r.Context(), locationID, facilityID); err != nil {
		backendError(w, r, h.renderer, listURL, err)
		return
	}

	slog.Info("facility deleted", "facility_id", facilityID, "location_id", locationID)
	flashSuccess(w, r, h.renderer, listURL, "Facility deleted")
}

// facilityRequest builds the backend payload from the submitted form.
func (h *FacilitiesHandler) facilityRequest(w http.ResponseWriter, r *http.Request, listURL string) (api.FacilityRequest, bool) {
	req := api.FacilityRequest{
		Name:   strings.TrimSpace(r.FormValue("name")),
		Type:   r.FormValue("type"),
		Status: r.FormValue("status"),
	}
	if req.Status == "" {
		req.Status = "active"
	}

	if req.Name == "" {
		flashError(w, r, h.renderer, listURL, "Facility name is required")
		return req, false
	}
	if !contains(facilityTypes, req.Type) {
		flashError(w, r, h.renderer, listURL, "Unknown facility type")
		return req, false
	}
	if !contains(facilityStatuses, req.Status) {
		flashError(w, r, h.renderer, listURL, "Unknown facility status")
		return req, false
	}

	if capacity := r.FormValue("capacity"); capacity != "" {
		v, err := strconv.Atoi(capacity)
		if err != nil || v < 1 {
			flashError(w, r, h.renderer, listURL, "Capacity must be a positive number")
			return req, false
		}
		req.Capacity = &v
	}

	return req, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
