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
	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/render"
	"github.com/olegiv/obook-go/internal/uikit"
)

// UsersHandler manages platform users: creation, role changes and the
// per-user module override list.
type UsersHandler struct {
	backend  *api.Client
	renderer *render.Renderer
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(backend *api.Client, renderer *render.Renderer) *UsersHandler {
	return &UsersHandler{backend: backend, renderer: renderer}
}

// usersURL is the list redirect target.
const usersURL = RouteDashboard + RouteUsers

func userURL(id string) string {
	return usersURL + "/" + id
}

// List renders the users table with the inline creation form.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	users, err := h.backend.Users(r.Context())
	if err != nil {
		backendError(w, r, h.renderer, redirectDashboard, err)
		return
	}

	perPage := uikit.ParsePerPageParam(r, defaultPerPage, maxPerPage)
	page, _ := uikit.NormalizePagination(uikit.ParsePageParam(r), len(users), perPage)
	pagination := uikit.BuildAdminPagination(page, len(users), perPage, usersURL, r.URL.Query())

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(users) {
		end = len(users)
	}

	data := render.TemplateData{
		Title:     "Users",
		Principal: principal,
		Data: map[string]any{
			"Users":      users[start:end],
			"Roles":      h.assignableRoles(principal),
			"Pagination": pagination,
		},
	}
	if err := h.renderer.Render(w, r, "admin/users", data); err != nil {
		logAndInternalError(w, "rendering users", "error", err)
	}
}

// Create handles the new user form submission.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, usersURL) {
		return
	}

	principal := middleware.GetPrincipal(r)
	req := api.CreateUserRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		flashError(w, r, h.renderer, usersURL, "Name, email and password are required")
		return
	}
	if len(req.Password) < 8 {
		flashError(w, r, h.renderer, usersURL, "Password must be at least 8 characters")
		return
	}
	if req.Role != "" && !h.roleAssignable(principal, model.ParseRole(req.Role)) {
		flashError(w, r, h.renderer, usersURL, "You cannot assign that role")
		return
	}

	user, err := h.backend.CreateUser(r.Context(), req)
	if err != nil {
		backendError(w, r, h.renderer, usersURL, err)
		return
	}

	slog.Info("user created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	flashSuccess(w, r, h.renderer, usersURL, "User created")
}

// EditForm renders the role and module override editor for one user.
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	id := chi.URLParam(r, "id")

	user, err := h.backend.User(r.Context(), id)
	if err != nil {
		backendError(w, r, h.renderer, usersURL, err)
		return
	}

	overrides := model.NewOverrides(user.Modules)
	enabled := make(map[model.ModuleKey]bool)
	for _, key := range user.Modules {
		enabled[key] = true
	}

	data := render.TemplateData{
		Title:     "Edit User",
		Principal: principal,
		Data: map[string]any{
			"User":        user,
			"Roles":       h.assignableRoles(principal),
			"AllModules":  model.AllModules(),
			"UseDefaults": !overrides.IsSet(),
			"Enabled":     enabled,
			"Breadcrumbs": []uikit.Breadcrumb{
				{Label: "Users", URL: usersURL},
				{Label: user.Name, Active: true},
			},
		},
	}
	if err := h.renderer.Render(w, r, "admin/user_edit", data); err != nil {
		logAndInternalError(w, "rendering user editor", "error", err)
	}
}

// Update applies role and module override changes. Checking "use role
// defaults" clears the override list with an explicit null; otherwise the
// checked modules replace it wholesale. A role change goes through the role
// endpoint; module-only edits go through the modules endpoint.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := userURL(id)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	principal := middleware.GetPrincipal(r)

	role := r.FormValue("role")
	roleChanged := role != "" && role != r.FormValue("current_role")
	if roleChanged && !h.roleAssignable(principal, model.ParseRole(role)) {
		flashError(w, r, h.renderer, editURL, "You cannot assign that role")
		return
	}

	var modules []model.ModuleKey
	if r.FormValue("use_defaults") == "" {
		modules = make([]model.ModuleKey, 0, len(r.Form["modules"]))
		for _, raw := range r.Form["modules"] {
			key := model.ModuleKey(raw)
			if !model.KnownModule(key) {
				flashError(w, r, h.renderer, editURL, "Unknown module key")
				return
			}
			modules = append(modules, key)
		}
	}

	var user *api.UserSummary
	var err error
	if roleChanged {
		user, err = h.backend.UpdateUserRole(r.Context(), id, api.UpdateUserRoleRequest{
			Role:    role,
			Modules: &modules,
		})
	} else {
		user, err = h.backend.UpdateUserModules(r.Context(), id, modules)
	}
	if err != nil {
		backendError(w, r, h.renderer, editURL, err)
		return
	}

	slog.Info("user access updated",
		"user_id", user.ID,
		"role", user.Role,
		"override_count", len(modules),
		"use_defaults", r.FormValue("use_defaults") != "",
	)
	flashSuccess(w, r, h.renderer, editURL, "User updated")
}

// ResetPassword sets a new password for one user.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := userURL(id)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	password := r.FormValue("password")
	if len(password) < 8 {
		flashError(w, r, h.renderer, editURL, "Password must be at least 8 characters")
		return
	}

	if _, err := h.backend.UpdateUserPassword(r.Context(), id, password); err != nil {
		backendError(w, r, h.renderer, editURL, err)
		return
	}

	slog.Info("user password reset", "user_id", id)
	flashSuccess(w, r, h.renderer, editURL, "Password reset")
}

// assignableRoles lists the roles the acting principal may hand out.
// Only super_admin can mint admins; nobody mints super_admin from here.
func (h *UsersHandler) assignableRoles(p *model.Principal) []model.Role {
	roles := []model.Role{model.RoleUser, model.RoleClient}
	if p != nil && p.Role.IsSuperAdmin() {
		roles = append(roles, model.RoleAdmin)
	}
	return roles
}

func (h *UsersHandler) roleAssignable(p *model.Principal, role model.Role) bool {
	for _, allowed := range h.assignableRoles(p) {
		if role == allowed {
			return true
		}
	}
	return false
}
