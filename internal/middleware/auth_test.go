// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/obook-go/internal/model"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withPrincipal(r *http.Request, p *model.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyPrincipal, p))
}

func TestAuthRedirectsWithNextParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard/bookings?page=2", nil)
	rr := httptest.NewRecorder()

	Auth(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	location := rr.Header().Get("Location")
	if location != "/login?next=%2Fdashboard%2Fbookings%3Fpage%3D2" {
		t.Errorf("Location = %q, want escaped original path", location)
	}
}

func TestAuthPassesAuthenticated(t *testing.T) {
	req := withPrincipal(httptest.NewRequest("GET", "/dashboard", nil), &model.Principal{ID: "u1", Role: model.RoleUser})
	rr := httptest.NewRecorder()

	Auth(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       model.Role
		required   []model.Role
		wantStatus int
	}{
		{"admin passes admin route", model.RoleAdmin, []model.Role{model.RoleAdmin}, http.StatusOK},
		{"client passes admin-or-client route", model.RoleClient, []model.Role{model.RoleAdmin, model.RoleClient}, http.StatusOK},
		{"user forbidden on admin-or-client route", model.RoleUser, []model.Role{model.RoleAdmin, model.RoleClient}, http.StatusForbidden},
		{"super_admin bypasses any restriction", model.RoleSuperAdmin, []model.Role{model.RoleClient}, http.StatusOK},
		{"unknown role forbidden", model.Role("editor"), []model.Role{model.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withPrincipal(httptest.NewRequest("GET", "/dashboard/users", nil), &model.Principal{ID: "u1", Role: tt.role})
			rr := httptest.NewRecorder()

			RequireRoles(tt.required...)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRolesForbiddenNamesRoles(t *testing.T) {
	// The 403 page must state the actual role and the required set so an
	// authenticated user can tell this apart from "not logged in".
	req := withPrincipal(httptest.NewRequest("GET", "/dashboard/users", nil), &model.Principal{ID: "u1", Role: model.RoleUser})
	rr := httptest.NewRecorder()

	RequireRoles(model.RoleAdmin, model.RoleClient)(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"user", "admin", "client"} {
		if !strings.Contains(body, want) {
			t.Errorf("403 body missing %q: %s", want, body)
		}
	}
}

func TestRequireRolesRedirectsUnauthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard/users", nil)
	rr := httptest.NewRecorder()

	RequireRoles(model.RoleAdmin)(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303 redirect to login", rr.Code)
	}
	if got := rr.Header().Get("Location"); !strings.HasPrefix(got, "/login?next=") {
		t.Errorf("Location = %q", got)
	}
}

func TestRequireRolesNoVerdictCaching(t *testing.T) {
	// The same middleware instance must re-derive the verdict from the
	// request's principal every time.
	guard := RequireRoles(model.RoleAdmin)(okHandler())

	admin := withPrincipal(httptest.NewRequest("GET", "/x", nil), &model.Principal{Role: model.RoleAdmin})
	rr := httptest.NewRecorder()
	guard.ServeHTTP(rr, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin status = %d", rr.Code)
	}

	user := withPrincipal(httptest.NewRequest("GET", "/x", nil), &model.Principal{Role: model.RoleUser})
	rr = httptest.NewRecorder()
	guard.ServeHTTP(rr, user)
	if rr.Code != http.StatusForbidden {
		t.Errorf("user status after admin request = %d, want 403", rr.Code)
	}
}

func TestRequirePasswordChange(t *testing.T) {
	flagged := withPrincipal(httptest.NewRequest("GET", "/dashboard", nil),
		&model.Principal{Role: model.RoleUser, RequiresPasswordChange: true})
	rr := httptest.NewRecorder()
	RequirePasswordChange(okHandler()).ServeHTTP(rr, flagged)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/change-password" {
		t.Errorf("flagged principal: status %d location %q", rr.Code, rr.Header().Get("Location"))
	}

	clear := withPrincipal(httptest.NewRequest("GET", "/dashboard", nil), &model.Principal{Role: model.RoleUser})
	rr = httptest.NewRecorder()
	RequirePasswordChange(okHandler()).ServeHTTP(rr, clear)
	if rr.Code != http.StatusOK {
		t.Errorf("unflagged principal: status %d", rr.Code)
	}
}

func TestRequireModule(t *testing.T) {
	guard := RequireModule(model.ModuleUsers)(okHandler())

	tests := []struct {
		name      string
		principal *model.Principal
		want      int
	}{
		{"unset overrides pass", &model.Principal{Role: model.RoleAdmin}, http.StatusOK},
		{"override includes module", &model.Principal{
			Role:    model.RoleAdmin,
			Modules: model.NewOverrides([]model.ModuleKey{model.ModuleUsers}),
		}, http.StatusOK},
		{"override excludes module", &model.Principal{
			Role:    model.RoleAdmin,
			Modules: model.NewOverrides([]model.ModuleKey{model.ModuleBookings}),
		}, http.StatusForbidden},
		{"super_admin bypasses override", &model.Principal{
			Role:    model.RoleSuperAdmin,
			Modules: model.NewOverrides([]model.ModuleKey{model.ModuleBookings}),
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withPrincipal(httptest.NewRequest("GET", "/dashboard/users", nil), tt.principal)
			rr := httptest.NewRecorder()
			guard.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequireModuleRedirectsUnauthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard/users", nil)
	rr := httptest.NewRecorder()
	RequireModule(model.ModuleUsers)(okHandler()).ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Location"), "/login?next=") {
		t.Errorf("Location = %q", rr.Header().Get("Location"))
	}
}
