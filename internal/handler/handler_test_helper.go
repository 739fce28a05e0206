package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/cache"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/render"
	"github.com/olegiv/obook-go/internal/session"
)

// pageNames lists every template the handlers render, so one helper can
// stub them all.
var pageNames = []string{
	"admin/dashboard", "admin/analytics", "admin/sport", "admin/bookings",
	"admin/locations", "admin/facilities", "admin/facilities_overview",
	"admin/clients", "admin/client_detail", "admin/setup",
	"admin/users", "admin/user_edit", "admin/settings",
	"auth/login", "auth/change_password",
}

// newTestRenderer builds a renderer over stub templates that echo the page
// title so tests can assert on which page rendered.
func newTestRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}page:{{.Title}}|{{template "content" .}}{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "sidebar"}}{{range .Nav}}[{{.Label}}]{{end}}{{end}}`),
		},
	}
	for _, name := range pageNames {
		fsys[name+".html"] = &fstest.MapFile{
			Data: []byte(`{{define "content"}}ok{{end}}`),
		}
	}

	r, err := render.New(render.Config{TemplatesFS: fsys, SessionManager: sm})
	if err != nil {
		t.Fatalf("building test renderer: %v", err)
	}
	return r
}

// stubTokens is an in-memory api.TokenStore for handler tests.
type stubTokens struct {
	access, refresh string
}

func (s *stubTokens) AccessToken(context.Context) string  { return s.access }
func (s *stubTokens) RefreshToken(context.Context) string { return s.refresh }
func (s *stubTokens) SetTokens(_ context.Context, access, refresh string) {
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
}
func (s *stubTokens) ClearTokens(context.Context) {
	s.access, s.refresh = "", ""
}

// newTestBackend serves the given mux and returns a client against it.
func newTestBackend(t *testing.T, mux *http.ServeMux) *api.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, &stubTokens{access: "tok"})
}

// newTestSessions builds a session store over an in-memory session manager
// and the given backend URL mux.
func newTestSessions(t *testing.T, mux *http.ServeMux) (*session.Store, *scs.SessionManager) {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sm := scs.New()
	tokens := session.NewTokens(sm)
	backend := api.New(srv.URL, tokens)
	profiles := cache.NewMemory(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = profiles.Close() })

	return session.NewStore(sm, backend, tokens, profiles), sm
}

// withPrincipal injects an authenticated principal the way LoadPrincipal
// does in production.
func withPrincipal(r *http.Request, p *model.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyPrincipal, p))
}

func adminPrincipal() *model.Principal {
	return &model.Principal{ID: "u-admin", Email: "admin@example.com", Name: "Ada", Role: model.RoleAdmin}
}
