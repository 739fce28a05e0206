// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/render"
	"github.com/olegiv/obook-go/internal/uikit"
)

// BookingsHandler renders the bookings table.
type BookingsHandler struct {
	backend  *api.Client
	renderer *render.Renderer
}

// NewBookingsHandler creates a new BookingsHandler.
func NewBookingsHandler(backend *api.Client, renderer *render.Renderer) *BookingsHandler {
	return &BookingsHandler{backend: backend, renderer: renderer}
}

// List renders the bookings list with status filtering and pagination.
// The backend returns the full visible set; filtering and paging happen
// here so the table controls work without backend query support.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	bookings, err := h.backend.Bookings(r.Context())
	if err != nil {
		backendError(w, r, h.renderer, redirectDashboard, err)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		filtered := bookings[:0]
		for _, b := range bookings {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}

	perPage := uikit.ParsePerPageParam(r, defaultPerPage, maxPerPage)
	page, _ := uikit.NormalizePagination(uikit.ParsePageParam(r), len(bookings), perPage)
	pagination := uikit.BuildAdminPagination(page, len(bookings), perPage, RouteDashboard+RouteBookings, r.URL.Query())

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(bookings) {
		end = len(bookings)
	}

	data := render.TemplateData{
		Title:     "Bookings",
		Principal: principal,
		Data: map[string]any{
			"Bookings":   bookings[start:end],
			"Status":     status,
			"Pagination": pagination,
		},
	}
	if err := h.renderer.Render(w, r, "admin/bookings", data); err != nil {
		logAndInternalError(w, "rendering bookings", "error", err)
	}
}
