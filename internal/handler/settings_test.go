// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/logging"
	"github.com/olegiv/obook-go/internal/model"
)

func settingsTestHandler(t *testing.T) (*SettingsHandler, *scs.SessionManager, *logging.AuditTrail) {
	t.Helper()
	sm := scs.New()
	trail := logging.NewAuditTrail(10)
	return NewSettingsHandler(nil, newTestRenderer(t, sm), trail), sm, trail
}

func TestSettingsRendersForAdmin(t *testing.T) {
	h, sm, trail := settingsTestHandler(t)

	// Seed one audit entry through the handler path.
	logger := slog.New(logging.NewAuditHandler(slog.NewTextHandler(httptest.NewRecorder().Body, nil), trail))
	logger.WarnContext(context.Background(), "login failed", "email", "x@y.z")

	req := httptest.NewRequest("GET", "/dashboard/settings", nil).WithContext(sessionContext(t, sm))
	rr := httptest.NewRecorder()
	h.Show(rr, withPrincipal(req, adminPrincipal()))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(trail.Recent()) != 1 {
		t.Errorf("trail has %d entries, want 1", len(trail.Recent()))
	}
}

func TestSettingsRendersForClient(t *testing.T) {
	h, sm, _ := settingsTestHandler(t)

	client := &model.Principal{ID: "u3", Role: model.RoleClient, ClientID: "c42"}
	req := httptest.NewRequest("GET", "/dashboard/settings", nil).WithContext(sessionContext(t, sm))
	rr := httptest.NewRecorder()
	h.Show(rr, withPrincipal(req, client))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func logoUploadForm(t *testing.T) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("logo", "logo.png")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadLogoUpdatesBusiness(t *testing.T) {
	var patched map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients/user/u3", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ClientDetail{ClientSummary: api.ClientSummary{ID: "c1", CompanyName: "Arcadia"}})
	})
	mux.HandleFunc("POST /auth/upload", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("upload request missing file part: %v", err)
		}
		_ = json.NewEncoder(w).Encode(api.UploadResult{URL: "/uploads/logo.png"})
	})
	mux.HandleFunc("PATCH /clients/c1", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
			t.Errorf("decoding patch body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(api.ClientSummary{ID: "c1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sm := scs.New()
	backend := api.New(srv.URL, &stubTokens{access: "tok"})
	h := NewSettingsHandler(backend, newTestRenderer(t, sm), nil)

	body, contentType := logoUploadForm(t)
	req := httptest.NewRequest("POST", "/dashboard/settings/logo", body).WithContext(sessionContext(t, sm))
	req.Header.Set("Content-Type", contentType)
	client := &model.Principal{ID: "u3", Role: model.RoleClient, ClientID: "c42"}
	rr := httptest.NewRecorder()
	h.UploadLogo(rr, withPrincipal(req, client))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != settingsURL {
		t.Errorf("Location = %q, want %q", loc, settingsURL)
	}
	if got := patched["logo_url"]; got != "/uploads/logo.png" {
		t.Errorf("patched logo_url = %v, want /uploads/logo.png", got)
	}
}

func TestUploadLogoRejectsNonClient(t *testing.T) {
	sm := scs.New()
	h := NewSettingsHandler(nil, newTestRenderer(t, sm), nil)

	body, contentType := logoUploadForm(t)
	req := httptest.NewRequest("POST", "/dashboard/settings/logo", body).WithContext(sessionContext(t, sm))
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.UploadLogo(rr, withPrincipal(req, adminPrincipal()))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != settingsURL {
		t.Errorf("Location = %q, want %q", loc, settingsURL)
	}
}

func TestUploadLogoRequiresFile(t *testing.T) {
	sm := scs.New()
	h := NewSettingsHandler(nil, newTestRenderer(t, sm), nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.Close(); err != nil {
		t.Fatalf("closing form: %v", err)
	}

	req := httptest.NewRequest("POST", "/dashboard/settings/logo", &buf).WithContext(sessionContext(t, sm))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	client := &model.Principal{ID: "u3", Role: model.RoleClient, ClientID: "c42"}
	rr := httptest.NewRecorder()
	h.UploadLogo(rr, withPrincipal(req, client))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != settingsURL {
		t.Errorf("Location = %q, want %q", loc, settingsURL)
	}
}
