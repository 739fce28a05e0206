// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/obook-go/internal/api"
)

// authBackend builds the auth endpoints of the fake backend.
func authBackend(failLogin, requiresChange bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		if failLogin {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(api.LoginResponse{
			AccessToken:            "access-1",
			RefreshToken:           "refresh-1",
			RequiresPasswordChange: requiresChange,
		})
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Profile{
			ID:                     "u1",
			Email:                  "a@b.c",
			Name:                   "Ada",
			Role:                   "admin",
			RequiresPasswordChange: requiresChange,
		})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func postForm(t *testing.T, ctx context.Context, target string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req.WithContext(ctx)
}

func loginTestHandler(t *testing.T, failLogin, requiresChange bool) (*AuthHandler, context.Context) {
	t.Helper()
	sessions, sm := newTestSessions(t, authBackend(failLogin, requiresChange))
	renderer := newTestRenderer(t, sm)
	h := NewAuthHandler(sessions, nil, renderer, nil)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return h, ctx
}

func TestLoginRedirectsToDashboard(t *testing.T) {
	h, ctx := loginTestHandler(t, false, false)

	rr := httptest.NewRecorder()
	h.Login(rr, postForm(t, ctx, "/login", url.Values{"email": {"a@b.c"}, "password": {"secret"}}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != redirectDashboard {
		t.Errorf("Location = %q, want %q", loc, redirectDashboard)
	}
}

func TestLoginHonorsNextParam(t *testing.T) {
	h, ctx := loginTestHandler(t, false, false)

	rr := httptest.NewRecorder()
	h.Login(rr, postForm(t, ctx, "/login", url.Values{
		"email":    {"a@b.c"},
		"password": {"secret"},
		"next":     {"/dashboard/users?page=2"},
	}))

	if loc := rr.Header().Get("Location"); loc != "/dashboard/users?page=2" {
		t.Errorf("Location = %q, want next target", loc)
	}
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	h, ctx := loginTestHandler(t, false, false)

	for _, next := range []string{"https://evil.example", "//evil.example", "/\\evil"} {
		rr := httptest.NewRecorder()
		h.Login(rr, postForm(t, ctx, "/login", url.Values{
			"email":    {"a@b.c"},
			"password": {"secret"},
			"next":     {next},
		}))
		if loc := rr.Header().Get("Location"); loc != redirectDashboard {
			t.Errorf("next=%q redirected to %q, want dashboard", next, loc)
		}
	}
}

func TestLoginInvalidCredentialsRedirectsBack(t *testing.T) {
	h, ctx := loginTestHandler(t, true, false)

	rr := httptest.NewRecorder()
	h.Login(rr, postForm(t, ctx, "/login", url.Values{"email": {"a@b.c"}, "password": {"wrong"}}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != redirectLogin {
		t.Errorf("Location = %q, want %q", loc, redirectLogin)
	}
}

func TestLoginForcesPasswordChange(t *testing.T) {
	h, ctx := loginTestHandler(t, false, true)

	rr := httptest.NewRecorder()
	h.Login(rr, postForm(t, ctx, "/login", url.Values{"email": {"a@b.c"}, "password": {"secret"}}))

	if loc := rr.Header().Get("Location"); loc != RouteChangePassword {
		t.Errorf("Location = %q, want %q", loc, RouteChangePassword)
	}
}

func TestLoginFormRedirectsAuthenticated(t *testing.T) {
	h, ctx := loginTestHandler(t, false, false)

	req := httptest.NewRequest("GET", "/login", nil).WithContext(ctx)
	req = withPrincipal(req, adminPrincipal())
	rr := httptest.NewRecorder()
	h.LoginForm(rr, req)

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != redirectDashboard {
		t.Errorf("status %d location %q, want dashboard redirect", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLogoutRedirectsToLogin(t *testing.T) {
	h, ctx := loginTestHandler(t, false, false)

	rr := httptest.NewRecorder()
	h.Login(rr, postForm(t, ctx, "/login", url.Values{"email": {"a@b.c"}, "password": {"secret"}}))

	rr = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil).WithContext(ctx)
	h.Logout(rr, withPrincipal(req, adminPrincipal()))

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != redirectLogin {
		t.Errorf("status %d location %q, want login redirect", rr.Code, rr.Header().Get("Location"))
	}
}

func TestChangePasswordValidation(t *testing.T) {
	h, ctx := loginTestHandler(t, false, false)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing fields", url.Values{"current_password": {"old"}}},
		{"mismatch", url.Values{
			"current_password": {"old-secret"},
			"new_password":     {"new-secret-1"},
			"confirm_password": {"new-secret-2"},
		}},
		{"too short", url.Values{
			"current_password": {"old-secret"},
			"new_password":     {"short"},
			"confirm_password": {"short"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ChangePassword(rr, postForm(t, ctx, RouteChangePassword, tt.form))
			if loc := rr.Header().Get("Location"); loc != RouteChangePassword {
				t.Errorf("Location = %q, want validation redirect back", loc)
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/dashboard", "/dashboard"},
		{"/dashboard/users?page=2", "/dashboard/users?page=2"},
		{"https://evil.example", ""},
		{"//evil.example", ""},
		{"/ok\\evil", ""},
		{"relative/path", ""},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
