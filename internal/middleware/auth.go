// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/policy"
	"github.com/olegiv/obook-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyPrincipal   ContextKey = "principal"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoadPrincipal resolves the session's principal once per request and
// places it in the context. Every consumer downstream (guard, navigation,
// widgets, handlers) reads this one instance, so a request can never see
// two different authorization states.
func LoadPrincipal(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := store.Resolve(r.Context())
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal retrieves the current principal from the request context.
// Returns nil if the request is unauthenticated.
func GetPrincipal(r *http.Request) *model.Principal {
	principal, ok := r.Context().Value(ContextKeyPrincipal).(*model.Principal)
	if !ok {
		return nil
	}
	return principal
}

// Auth requires an authenticated session and redirects to the login page
// otherwise, carrying the requested path in the next parameter so the
// login handler can return the user where they were headed.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r) == nil {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ForbiddenRenderer renders the access-denied page for an authenticated
// user whose role fails a route's restriction.
type ForbiddenRenderer func(w http.ResponseWriter, r *http.Request, p *model.Principal, required []model.Role)

// forbiddenRenderer is set once at startup by SetForbiddenRenderer; the
// fallback writes a plain page so the guard works before wiring too.
var forbiddenRenderer ForbiddenRenderer = defaultForbidden

// SetForbiddenRenderer installs the template-backed access-denied page.
// Called during application initialization.
func SetForbiddenRenderer(fn ForbiddenRenderer) {
	if fn != nil {
		forbiddenRenderer = fn
	}
}

// RequireRoles guards a route with a role restriction. Unauthenticated
// requests are redirected to login; an authenticated user with the wrong
// role gets a visible 403 page naming their role and the required ones —
// deliberately not a silent redirect, so "logged in, wrong role" is
// distinguishable from "not logged in". super_admin always passes.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r)
			if principal == nil {
				target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			if !policy.RoleAllowed(principal, roles) {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", principal.ID,
					"user_role", principal.Role,
					"required_roles", rolesString(roles),
					"remote_addr", r.RemoteAddr,
				)
				forbiddenRenderer(w, r, principal, roles)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireModule guards a route with a module restriction using the same
// predicate the sidebar filter applies, so a hidden entry is also an
// unreachable route. Denials get the 403 page rather than a redirect.
func RequireModule(key model.ModuleKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r)
			if principal == nil {
				target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			if !policy.ModuleAllowed(principal, key) {
				slog.Warn("module access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", principal.ID,
					"user_role", principal.Role,
					"module", string(key),
					"remote_addr", r.RemoteAddr,
				)
				forbiddenRenderer(w, r, principal, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePasswordChange redirects principals flagged by the backend to the
// change-password page before they can use the dashboard.
func RequirePasswordChange(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r)
		if principal != nil && principal.RequiresPasswordChange {
			http.Redirect(w, r, "/change-password", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rolesString joins roles for logs and the fallback 403 body.
func rolesString(roles []model.Role) string {
	parts := make([]string, len(roles))
	for i, role := range roles {
		parts[i] = role.String()
	}
	return strings.Join(parts, ", ")
}

func defaultForbidden(w http.ResponseWriter, _ *http.Request, p *model.Principal, required []model.Role) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	if len(required) == 0 {
		_, _ = fmt.Fprintf(w,
			"<h1>Access denied</h1><p>This page is not enabled for your account.</p>")
		return
	}
	_, _ = fmt.Fprintf(w,
		"<h1>Access denied</h1><p>Your role is %s. This page requires one of: %s.</p>",
		html.EscapeString(p.Role.String()),
		html.EscapeString(rolesString(required)),
	)
}

// RequestPath stores the request path in the context for the logging
// handler's use.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
