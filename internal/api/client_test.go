// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// memTokens is an in-memory TokenStore for tests.
type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (m *memTokens) AccessToken(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) SetTokens(_ context.Context, access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
}

func (m *memTokens) ClearTokens(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
}

func TestRefreshRetrySucceeds(t *testing.T) {
	var refreshCalls, bookingCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls++
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refresh_token"] != "refresh-1" {
				t.Errorf("refresh called with token %q", body["refresh_token"])
			}
			_ = json.NewEncoder(w).Encode(LoginResponse{AccessToken: "access-2", RefreshToken: "refresh-2"})
		case "/bookings":
			bookingCalls++
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode([]Booking{{ID: "b1", Status: "confirmed"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := &memTokens{access: "stale", refresh: "refresh-1"}
	client := New(srv.URL, tokens)

	bookings, err := client.Bookings(context.Background())
	if err != nil {
		t.Fatalf("Bookings() error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != "b1" {
		t.Errorf("Bookings() = %v", bookings)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh called %d times, want exactly 1", refreshCalls)
	}
	if bookingCalls != 2 {
		t.Errorf("bookings called %d times, want original + one retry", bookingCalls)
	}
	if tokens.AccessToken(context.Background()) != "access-2" {
		t.Error("refreshed access token was not persisted")
	}
	if tokens.RefreshToken(context.Background()) != "refresh-2" {
		t.Error("rotated refresh token was not persisted")
	}
}

func TestRefreshFailureClearsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	tokens := &memTokens{access: "stale", refresh: "dead"}
	client := New(srv.URL, tokens)

	_, err := client.Bookings(context.Background())
	if !errors.Is(err, ErrCredentialExpired) {
		t.Fatalf("Bookings() error = %v, want ErrCredentialExpired", err)
	}
	if tokens.AccessToken(context.Background()) != "" || tokens.RefreshToken(context.Background()) != "" {
		t.Error("tokens not cleared after failed refresh")
	}
}

func TestMissingRefreshTokenIsCredentialExpired(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls++
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &memTokens{access: "stale"}
	client := New(srv.URL, tokens)

	_, err := client.Profile(context.Background())
	if !errors.Is(err, ErrCredentialExpired) {
		t.Fatalf("Profile() error = %v, want ErrCredentialExpired", err)
	}
	if refreshCalls != 0 {
		t.Errorf("refresh endpoint called %d times without a refresh token", refreshCalls)
	}
}

func TestLogin401NeverTriggersRefresh(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls++
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/login":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
		}
	}))
	defer srv.Close()

	client := New(srv.URL, &memTokens{refresh: "still-valid"})

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if refreshCalls != 0 {
		t.Error("login 401 must not trigger a refresh attempt")
	}
}

func TestBackendErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "location has active bookings"})
	}))
	defer srv.Close()

	client := New(srv.URL, &memTokens{access: "ok"})

	err := client.DeleteLocation(context.Background(), "loc1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *api.Error", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "location has active bookings" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestProfilePrincipalNormalizesRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Profile{ID: "u1", Email: "a@b.c", Name: "A", Role: "Admin"})
	}))
	defer srv.Close()

	client := New(srv.URL, &memTokens{access: "ok"})
	profile, err := client.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if got := profile.Principal().Role; got != "admin" {
		t.Errorf("Principal().Role = %q, want normalized \"admin\"", got)
	}
}
