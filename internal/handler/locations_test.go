// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/model"
)

func locationsTestHandler(t *testing.T, mux *http.ServeMux) (*LocationsHandler, *scs.SessionManager) {
	t.Helper()
	sm := scs.New()
	return NewLocationsHandler(newTestBackend(t, mux), newTestRenderer(t, sm)), sm
}

func TestLocationCreatePinsClientToOwner(t *testing.T) {
	var got api.LocationRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /locations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(api.Location{ID: "l1", Name: got.Name})
	})
	h, sm := locationsTestHandler(t, mux)

	// Business owners cannot create venues under another client even if the
	// form says so.
	owner := &model.Principal{ID: "u3", Role: model.RoleClient, ClientID: "c42"}
	form := url.Values{
		"name":      {"North Arena"},
		"client_id": {"c-other"},
		"latitude":  {"31.52"},
		"longitude": {"74.35"},
	}
	req := postForm(t, sessionContext(t, sm), "/dashboard/locations", form)
	rr := httptest.NewRecorder()
	h.Create(rr, withPrincipal(req, owner))

	if got.ClientID != "c42" {
		t.Errorf("client_id = %q, want pinned c42", got.ClientID)
	}
	if got.Latitude == nil || *got.Latitude != 31.52 {
		t.Errorf("latitude = %v, want 31.52", got.Latitude)
	}
}

func TestLocationCreateAdminPicksClient(t *testing.T) {
	var got api.LocationRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /locations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(api.Location{ID: "l1", Name: got.Name})
	})
	h, sm := locationsTestHandler(t, mux)

	form := url.Values{"name": {"North Arena"}, "client_id": {"c7"}}
	req := postForm(t, sessionContext(t, sm), "/dashboard/locations", form)
	rr := httptest.NewRecorder()
	h.Create(rr, withPrincipal(req, adminPrincipal()))

	if got.ClientID != "c7" {
		t.Errorf("client_id = %q, want c7 from form", got.ClientID)
	}
}

func TestLocationCreateValidation(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})
	h, sm := locationsTestHandler(t, mux)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing name", url.Values{"city": {"Lahore"}}},
		{"bad latitude", url.Values{"name": {"North"}, "latitude": {"north-ish"}}},
		{"bad longitude", url.Values{"name": {"North"}, "longitude": {"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := postForm(t, sessionContext(t, sm), "/dashboard/locations", tt.form)
			rr := httptest.NewRecorder()
			h.Create(rr, withPrincipal(req, adminPrincipal()))
			if called {
				t.Fatal("backend was called despite invalid input")
			}
			if loc := rr.Header().Get("Location"); loc != locationsURL {
				t.Errorf("Location = %q, want %q", loc, locationsURL)
			}
		})
	}
}

func TestLocationDelete(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /locations/l1", func(w http.ResponseWriter, _ *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	h, sm := locationsTestHandler(t, mux)

	req := httptest.NewRequest("POST", "/dashboard/locations/l1/delete", nil).
		WithContext(sessionContext(t, sm))
	req = withURLParam(withPrincipal(req, adminPrincipal()), "id", "l1")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if !deleted {
		t.Error("backend delete was never called")
	}
}

func TestLocationsListScopesToClient(t *testing.T) {
	var gotClientID string
	mux := http.NewServeMux()
	mux.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		gotClientID = r.URL.Query().Get("clientId")
		_ = json.NewEncoder(w).Encode([]api.Location{})
	})
	h, sm := locationsTestHandler(t, mux)

	owner := &model.Principal{ID: "u3", Role: model.RoleClient, ClientID: "c42"}
	req := httptest.NewRequest("GET", "/dashboard/locations", nil).WithContext(sessionContext(t, sm))
	rr := httptest.NewRecorder()
	h.List(rr, withPrincipal(req, owner))

	if gotClientID != "c42" {
		t.Errorf("clientId = %q, want c42", gotClientID)
	}
}
