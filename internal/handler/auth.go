// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/render"
	"github.com/olegiv/obook-go/internal/session"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	sessions        *session.Store
	backend         *api.Client
	renderer        *render.Renderer
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Store, backend *api.Client, renderer *render.Renderer, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		sessions:        sessions,
		backend:         backend,
		renderer:        renderer,
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Already-authenticated users go
// straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetPrincipal(r) != nil {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}

	data := render.TemplateData{
		Title: "Sign In",
		Data: map[string]any{
			"Next": safeNext(r.URL.Query().Get("next")),
		},
	}
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "rendering login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	retryURL := redirectLogin
	if next != "" {
		retryURL = redirectLogin + "?next=" + url.QueryEscape(next)
	}

	if email == "" || password == "" {
		flashError(w, r, h.renderer, retryURL, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "email", email, "remote_addr", r.RemoteAddr)
			flashError(w, r, h.renderer, retryURL,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	principal, err := h.sessions.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrInvalidCredentials):
			slog.Warn("login failed", "email", email, "remote_addr", r.RemoteAddr)
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
					flashError(w, r, h.renderer, retryURL,
						fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
					return
				}
				remaining := h.loginProtection.RemainingAttempts(email)
				if remaining > 0 && remaining <= 3 {
					flashError(w, r, h.renderer, retryURL,
						fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
					return
				}
			}
			flashError(w, r, h.renderer, retryURL, "Invalid email or password")
		case errors.Is(err, session.ErrLoginSuperseded):
			http.Redirect(w, r, retryURL, http.StatusSeeOther)
		default:
			backendError(w, r, h.renderer, retryURL, err)
		}
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	slog.Info("user logged in", "user_id", principal.ID, "email", principal.Email, "role", principal.Role)

	if principal.RequiresPasswordChange {
		http.Redirect(w, r, RouteChangePassword, http.StatusSeeOther)
		return
	}

	h.renderer.SetFlash(r, fmt.Sprintf("Welcome back, %s", principal.Name), "success")
	if next != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
}

// Logout ends the session locally and best-effort on the backend.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if p := middleware.GetPrincipal(r); p != nil {
		slog.Info("user logged out", "user_id", p.ID)
	}
	h.sessions.Logout(r.Context())
	flashSuccess(w, r, h.renderer, redirectLogin, "You have been signed out")
}

// ChangePasswordForm renders the password change page. Principals without
// the backend flag can still reach it from settings.
func (h *AuthHandler) ChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	data := render.TemplateData{
		Title:     "Change Password",
		Principal: principal,
		Data: map[string]any{
			"Forced": principal != nil && principal.RequiresPasswordChange,
		},
	}
	if err := h.renderer.Render(w, r, "auth/change_password", data); err != nil {
		logAndInternalError(w, "rendering change password page", "error", err)
	}
}

// ChangePassword submits the new password to the backend. On success the
// session ends so the user signs in with the new credential.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteChangePassword) {
		return
	}

	current := r.FormValue("current_password")
	updated := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if current == "" || updated == "" {
		flashError(w, r, h.renderer, RouteChangePassword, "All fields are required")
		return
	}
	if updated != confirm {
		flashError(w, r, h.renderer, RouteChangePassword, "New passwords do not match")
		return
	}
	if len(updated) < 8 {
		flashError(w, r, h.renderer, RouteChangePassword, "New password must be at least 8 characters")
		return
	}

	if err := h.backend.ChangePassword(r.Context(), current, updated); err != nil {
		backendError(w, r, h.renderer, RouteChangePassword, err)
		return
	}

	if p := middleware.GetPrincipal(r); p != nil {
		slog.Info("password changed", "user_id", p.ID)
	}
	h.sessions.Logout(r.Context())
	flashSuccess(w, r, h.renderer, redirectLogin, "Password updated. Please sign in again.")
}

// safeNext returns the next parameter only when it is a local path, so the
// login flow can never redirect off-site.
func safeNext(next string) string {
	if next == "" {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if strings.ContainsAny(next, "\\\r\n") {
		return ""
	}
	return next
}

// formatDuration renders a lockout duration for flash messages.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	mins := int(d.Round(time.Minute).Minutes())
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}
