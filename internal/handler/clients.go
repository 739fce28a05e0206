// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/render"
	"github.com/olegiv/obook-go/internal/uikit"
)

// ClientsHandler manages business accounts: listing, lifecycle actions and
// the registration flow that creates an owner user plus a client profile.
type ClientsHandler struct {
	backend  *api.Client
	renderer *render.Renderer
}

// NewClientsHandler creates a new ClientsHandler.
func NewClientsHandler(backend *api.Client, renderer *render.Renderer) *ClientsHandler {
	return &ClientsHandler{backend: backend, renderer: renderer}
}

// clientsURL is the list redirect target.
const clientsURL = RouteDashboard + RouteClients

func clientURL(id string) string {
	return clientsURL + "/" + id
}

// List renders the businesses table with optional status filtering.
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	clients, err := h.backend.Clients(r.Context())
	if err != nil {
		backendError(w, r, h.renderer, redirectDashboard, err)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		filtered := clients[:0]
		for _, c := range clients {
			if c.Status == status {
				filtered = append(filtered, c)
			}
		}
		clients = filtered
	}

	data := render.TemplateData{
		Title:     "Businesses",
		Principal: principal,
		Data: map[string]any{
			"Clients": clients,
			"Status":  status,
		},
	}
	if err := h.renderer.Render(w, r, "admin/clients", data); err != nil {
		logAndInternalError(w, "rendering clients", "error", err)
	}
}

// Detail renders one business with its locations and gaming centers.
func (h *ClientsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	id := chi.URLParam(r, "id")

	client, err := h.backend.ClientByID(r.Context(), id)
	if err != nil {
		backendError(w, r, h.renderer, clientsURL, err)
		return
	}

	// Secondary panels are best-effort.
	locations, err := h.backend.Locations(r.Context(), id)
	if err != nil {
		slog.Warn("client locations unavailable", "client_id", id, "error", err)
	}
	centers, err := h.backend.GamingCenters(r.Context(), id)
	if err != nil {
		slog.Warn("client gaming centers unavailable", "client_id", id, "error", err)
	}

	data := render.TemplateData{
		Title:     client.CompanyName,
		Principal: principal,
		Data: map[string]any{
			"Client":        client,
			"Locations":     locations,
			"GamingCenters": centers,
			"Breadcrumbs": []uikit.Breadcrumb{
				{Label: "Businesses", URL: clientsURL},
				{Label: client.CompanyName, Active: true},
			},
		},
	}
	if err := h.renderer.Render(w, r, "admin/client_detail", data); err != nil {
		logAndInternalError(w, "rendering client detail", "error", err)
	}
}

// Approve transitions a pending business to approved.
func (h *ClientsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "approved", func(id, _ string) (*api.ClientSummary, error) {
		return h.backend.ApproveClient(r.Context(), id)
	})
}

// Activate transitions an approved business to active.
func (h *ClientsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "activated", func(id, _ string) (*api.ClientSummary, error) {
		return h.backend.ActivateClient(r.Context(), id)
	})
}

// Reject declines a pending business with a reason.
func (h *ClientsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "rejected", func(id, reason string) (*api.ClientSummary, error) {
		return h.backend.RejectClient(r.Context(), id, reason)
	})
}

// Suspend disables an active business with a reason.
func (h *ClientsHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "suspended", func(id, reason string) (*api.ClientSummary, error) {
		return h.backend.SuspendClient(r.Context(), id, reason)
	})
}

// lifecycle runs one status transition and redirects back to the detail
// page. The reason field is read from the form when present.
func (h *ClientsHandler) lifecycle(w http.ResponseWriter, r *http.Request, verb string, action func(id, reason string) (*api.ClientSummary, error)) {
	id := chi.URLParam(r, "id")
	detailURL := clientURL(id)

	if !parseFormOrRedirect(w, r, h.renderer, detailURL) {
		return
	}
	reason := strings.TrimSpace(r.FormValue("reason"))

	client, err := action(id, reason)
	if err != nil {
		backendError(w, r, h.renderer, detailURL, err)
		return
	}

	slog.Info("client status changed", "client_id", client.ID, "status", client.Status, "reason", reason)
	flashSuccess(w, r, h.renderer, detailURL, "Business "+verb)
}

// SetupForm renders the business registration page.
func (h *ClientsHandler) SetupForm(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title:     "Business Setup",
		Principal: middleware.GetPrincipal(r),
	}
	if err := h.renderer.Render(w, r, "admin/setup", data); err != nil {
		logAndInternalError(w, "rendering setup page", "error", err)
	}
}

// setupURL is the registration form redirect target.
const setupURL = RouteDashboard + RouteSetup

// Setup registers a business owner account and its client profile.
func (h *ClientsHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, setupURL) {
		return
	}

	var req api.RegisterClientRequest
	req.User.Name = strings.TrimSpace(r.FormValue("owner_name"))
	req.User.Email = strings.TrimSpace(r.FormValue("owner_email"))
	req.User.Password = r.FormValue("owner_password")
	req.Client.CompanyName = strings.TrimSpace(r.FormValue("company_name"))
	req.Client.ContactName = strings.TrimSpace(r.FormValue("contact_name"))
	req.Client.Email = strings.TrimSpace(r.FormValue("email"))
	req.Client.Phone = strings.TrimSpace(r.FormValue("phone"))
	req.Client.Address = strings.TrimSpace(r.FormValue("address"))
	req.Client.City = strings.TrimSpace(r.FormValue("city"))
	req.Client.State = strings.TrimSpace(r.FormValue("state"))
	req.Client.Country = strings.TrimSpace(r.FormValue("country"))
	req.Client.PostalCode = strings.TrimSpace(r.FormValue("postal_code"))
	req.Client.Description = strings.TrimSpace(r.FormValue("description"))

	if req.User.Name == "" || req.User.Email == "" || req.User.Password == "" {
		flashError(w, r, h.renderer, setupURL, "Owner name, email and password are required")
		return
	}
	if len(req.User.Password) < 8 {
		flashError(w, r, h.renderer, setupURL, "Owner password must be at least 8 characters")
		return
	}
	if req.Client.CompanyName == "" {
		flashError(w, r, h.renderer, setupURL, "Company name is required")
		return
	}

	if err := h.backend.RegisterClient(r.Context(), req); err != nil {
		backendError(w, r, h.renderer, setupURL, err)
		return
	}

	slog.Info("client registered", "company", req.Client.CompanyName, "owner_email", req.User.Email)
	flashSuccess(w, r, h.renderer, clientsURL, "Business registered and pending approval")
}
