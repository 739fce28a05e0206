// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/cache"
	"github.com/olegiv/obook-go/internal/dashboard"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/render"
)

// recentBookingsLimit caps the recent bookings widget.
const recentBookingsLimit = 10

// statsCacheTTL bounds staleness of the aggregate cards on the overview.
const statsCacheTTL = time.Minute

// DashboardHandler renders the console overview and the sport module pages.
type DashboardHandler struct {
	backend  *api.Client
	renderer *render.Renderer
	cache    cache.Cache
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(backend *api.Client, renderer *render.Renderer, c cache.Cache) *DashboardHandler {
	return &DashboardHandler{backend: backend, renderer: renderer, cache: c}
}

// Overview renders the dashboard with the principal's widget set. Widget
// data is fetched best-effort: one failing widget leaves a gap, not a 500.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	widgets := dashboard.Compose(principal)

	pageData := map[string]any{}
	for _, widget := range widgets {
		switch widget.ID {
		case "overview-stats":
			if stats := h.clientStatistics(r.Context()); stats != nil {
				pageData["Stats"] = stats
			}
		case "recent-bookings":
			if bookings, err := h.backend.Bookings(r.Context()); err == nil {
				if len(bookings) > recentBookingsLimit {
					bookings = bookings[:recentBookingsLimit]
				}
				pageData["RecentBookings"] = bookings
			} else {
				slog.Warn("recent bookings widget unavailable", "error", err)
			}
		case "analytics-charts":
			if bookings, err := h.backend.Bookings(r.Context()); err == nil {
				pageData["BookingsByStatus"] = countByStatus(bookings)
			} else {
				slog.Warn("analytics widget unavailable", "error", err)
			}
		case "gaming-performance":
			centers, err := h.backend.GamingCenters(r.Context(), clientScope(principal))
			if err == nil {
				pageData["GamingCenters"] = centers
			} else {
				slog.Warn("gaming widget unavailable", "error", err)
			}
		}
	}

	data := render.TemplateData{
		Title:     "Dashboard",
		Principal: principal,
		Widgets:   widgets,
		Data:      pageData,
	}
	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

// Analytics renders the full analytics page.
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	bookings, err := h.backend.Bookings(r.Context())
	if err != nil {
		backendError(w, r, h.renderer, redirectDashboard, err)
		return
	}

	data := render.TemplateData{
		Title:     "Analytics",
		Principal: principal,
		Data: map[string]any{
			"TotalBookings":    len(bookings),
			"BookingsByStatus": countByStatus(bookings),
		},
	}
	if err := h.renderer.Render(w, r, "admin/analytics", data); err != nil {
		logAndInternalError(w, "rendering analytics", "error", err)
	}
}

// Sport returns a handler for one sport module page listing that sport's
// facilities across the visible locations.
func (h *DashboardHandler) Sport(module model.ModuleKey, title, facilityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
			all, err := h.backend.Facilities(r.Context(), loc.ID)
			if err != nil {
				slog.Warn("facilities unavailable", "location_id", loc.ID, "error", err)
				continue
			}
			for _, f := range all {
				if f.Type == facilityType {
					facilities = append(facilities, f)
				}
			}
		}

		data := render.TemplateData{
			Title:     title,
			Principal: principal,
			Data: map[string]any{
				"Module":        module,
				"FacilityType":  facilityType,
				"Facilities":    facilities,
				"LocationNames": locationNames,
			},
		}
		if err := h.renderer.Render(w, r, "admin/sport", data); err != nil {
			logAndInternalError(w, "rendering sport page", "error", err, "module", string(module))
		}
	}
}

// clientStatistics returns the aggregate business counts, cached briefly
// so the overview does not hammer the backend.
func (h *DashboardHandler) clientStatistics(ctx context.Context) *api.ClientStatistics {
	const key = "stats:clients"

	if h.cache != nil {
		if raw, err := h.cache.Get(ctx, key); err == nil {
			var stats api.ClientStatistics
			if json.Unmarshal(raw, &stats) == nil {
				return &stats
			}
		}
	}

	stats, err := h.backend.ClientStatistics(ctx)
	if err != nil {
		slog.Warn("client statistics unavailable", "error", err)
		return nil
	}

	if h.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			_ = h.cache.Set(ctx, key, raw, statsCacheTTL)
		}
	}
	return stats
}

// clientScope returns the client ID filter for the principal: business
// owners see their own venues, platform staff see everything.
func clientScope(p *model.Principal) string {
	if p != nil && p.Role.IsClient() {
		return p.ClientID
	}
	return ""
}

// countByStatus aggregates bookings for the status chart.
func countByStatus(bookings []api.Booking) map[string]int {
	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.Status]++
	}
	return counts
}
