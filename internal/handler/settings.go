// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/logging"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/policy"
	"github.com/olegiv/obook-go/internal/render"
)

// settingsURL is the redirect target for settings form submissions.
const settingsURL = RouteDashboard + RouteSettings

// maxLogoSize caps business logo uploads.
const maxLogoSize = 5 << 20 // 5 MiB

// SettingsHandler renders the settings page: the principal's profile, the
// modules resolved for them, the business profile for owners, and (for
// platform staff) the audit trail.
type SettingsHandler struct {
	backend  *api.Client
	renderer *render.Renderer
	trail    *logging.AuditTrail
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(backend *api.Client, renderer *render.Renderer, trail *logging.AuditTrail) *SettingsHandler {
	return &SettingsHandler{backend: backend, renderer: renderer, trail: trail}
}

// Show renders the settings page.
func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	pageData := map[string]any{
		"ResolvedModules": policy.ResolvedModules(principal),
		"OverridesSet":    principal != nil && principal.Modules.IsSet(),
	}

	if h.trail != nil && principal != nil && !principal.Role.IsClient() {
		pageData["AuditEntries"] = h.trail.Recent()
	}

	if h.backend != nil && principal != nil && principal.Role.IsClient() {
		business, err := h.backend.ClientByUserID(r.Context(), principal.ID)
		if err != nil {
			slog.Warn("loading business profile for settings", "user", principal.ID, "error", err)
		} else {
			pageData["Business"] = business
		}
	}

	data := render.TemplateData{
		Title:     "Settings",
		Principal: principal,
		Data:      pageData,
	}
	if err := h.renderer.Render(w, r, "admin/settings", data); err != nil {
		logAndInternalError(w, "rendering settings", "error", err)
	}
}

// UploadLogo accepts a business logo image, stores it through the backend
// and saves the returned URL on the owner's client profile.
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	if principal == nil || !principal.Role.IsClient() {
		http.Redirect(w, r, settingsURL, http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		flashError(w, r, h.renderer, settingsURL, "Logo upload is too large or malformed")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		flashError(w, r, h.renderer, settingsURL, "Choose a logo image to upload")
		return
	}
	defer file.Close()

	business, err := h.backend.ClientByUserID(r.Context(), principal.ID)
	if err != nil {
		backendError(w, r, h.renderer, settingsURL, err)
		return
	}

	result, err := h.backend.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		backendError(w, r, h.renderer, settingsURL, err)
		return
	}

	if _, err := h.backend.UpdateClient(r.Context(), business.ID, map[string]any{"logo_url": result.URL}); err != nil {
		backendError(w, r, h.renderer, settingsURL, err)
		return
	}

	flashSuccess(w, r, h.renderer, settingsURL, "Logo updated")
}
