// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/obook-go/internal/api"
	"github.com/olegiv/obook-go/internal/cache"
	"github.com/olegiv/obook-go/internal/config"
	"github.com/olegiv/obook-go/internal/handler"
	"github.com/olegiv/obook-go/internal/logging"
	"github.com/olegiv/obook-go/internal/middleware"
	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/render"
	"github.com/olegiv/obook-go/internal/session"
	"github.com/olegiv/obook-go/internal/version"
	"github.com/olegiv/obook-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oBook - Facility Booking Console\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBOOK_API_BASE_URL     Booking backend base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBOOK_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBOOK_SESSION_DB_PATH  SQLite session store path (default: ./data/obook.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBOOK_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBOOK_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBOOK_REDIS_URL        Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("obook %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger: readable text in development, JSON in production, with
	// warnings and errors mirrored into the in-memory audit trail.
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var baseHandler slog.Handler
	if cfg.IsDevelopment() {
		baseHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		baseHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	auditTrail := logging.NewAuditTrail(cfg.AuditTrailSize)
	slog.SetDefault(slog.New(logging.NewAuditHandler(baseHandler, auditTrail)))

	// Session store database
	dbDir := filepath.Dir(cfg.SessionDBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("opening session store", "path", cfg.SessionDBPath)
	db, err := openSessionDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing session store", "error", err)
		}
	}(db)

	sessionManager := session.NewManager(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache: Redis when configured, in-process memory otherwise
	ctx := context.Background()
	cacheStore, err := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxEntries: cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "redis", cfg.UseRedisCache())

	// Periodic maintenance: expired cache entries are swept on a schedule
	// so the memory cache does not hold dead entries between requests.
	scheduler := cron.New()
	if sweeper, ok := cacheStore.(cache.Sweeper); ok {
		if _, err := scheduler.AddFunc("@every 1m", sweeper.Sweep); err != nil {
			return fmt.Errorf("scheduling cache sweep: %w", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Backend API client and the session-backed auth state
	tokens := session.NewTokens(sessionManager)
	backend := api.New(cfg.APIBaseURL, tokens)
	sessions := session.NewStore(sessionManager, backend, tokens, cacheStore)
	slog.Info("backend client initialized", "base_url", cfg.APIBaseURL)

	// Renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Access-denied pages go through the template so they match the console.
	middleware.SetForbiddenRenderer(func(w http.ResponseWriter, r *http.Request, p *model.Principal, required []model.Role) {
		w.WriteHeader(http.StatusForbidden)
		data := render.TemplateData{
			Title:     "Access Denied",
			Principal: p,
			Data:      map[string]any{"Required": required},
		}
		if err := renderer.Render(w, r, "admin/forbidden", data); err != nil {
			slog.Error("rendering forbidden page", "error", err)
		}
	})

	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{})
	csrfProtect := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))

	// Handlers
	authHandler := handler.NewAuthHandler(sessions, backend, renderer, loginProtection)
	dashboardHandler := handler.NewDashboardHandler(backend, renderer, cacheStore)
	bookingsHandler := handler.NewBookingsHandler(backend, renderer)
	locationsHandler := handler.NewLocationsHandler(backend, renderer)
	facilitiesHandler := handler.NewFacilitiesHandler(backend, renderer)
	clientsHandler := handler.NewClientsHandler(backend, renderer)
	usersHandler := handler.NewUsersHandler(backend, renderer)
	settingsHandler := handler.NewSettingsHandler(backend, renderer, auditTrail)
	healthHandler := handler.NewHealthHandler(db, versionInfo)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.StripTrailingSlash)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.RequestPath)
	r.Use(middleware.LoadPrincipal(sessions))

	// Health probes (no session state required)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Embedded static assets
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}
	r.Handle("/static/dist/*", http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))

	// Auth routes (public, with CSRF and login rate limiting)
	r.Group(func(r chi.Router) {
		r.Use(csrfProtect)
		r.With(loginProtection.RateLimit).Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.RateLimit).Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Get(handler.RouteChangePassword, authHandler.ChangePasswordForm)
			r.Post(handler.RouteChangePassword, authHandler.ChangePassword)
		})
	})

	// Console routes. Every guard mirrors the sidebar manifest: an entry
	// hidden from a principal is also an unreachable route.
	r.Route(handler.RouteDashboard, func(r chi.Router) {
		r.Use(csrfProtect)
		r.Use(middleware.Auth)
		r.Use(middleware.RequirePasswordChange)

		r.With(middleware.RequireModule(model.ModuleDashboardOverview)).
			Get(handler.RouteRoot, dashboardHandler.Overview)

		// Platform administration
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin))
			r.Get(handler.RouteSetup, clientsHandler.SetupForm)
			r.Post(handler.RouteSetup, clientsHandler.Setup)
			r.Get(handler.RouteClients, clientsHandler.List)
			r.Get(handler.RouteClientsID, clientsHandler.Detail)
			r.Post(handler.RouteClientsID+"/approve", clientsHandler.Approve)
			r.Post(handler.RouteClientsID+"/activate", clientsHandler.Activate)
			r.Post(handler.RouteClientsID+"/reject", clientsHandler.Reject)
			r.Post(handler.RouteClientsID+"/suspend", clientsHandler.Suspend)
		})

		// Sport module pages
		sportPages := []struct {
			route  string
			module model.ModuleKey
			title  string
			kind   string
		}{
			{"/gaming", model.ModuleGaming, "Gaming", "gaming"},
			{"/snooker", model.ModuleSnooker, "Snooker", "snooker"},
			{"/table-tennis", model.ModuleTableTennis, "Table Tennis", "table-tennis"},
			{"/cricket", model.ModuleCricket, "Cricket", "cricket"},
			{"/futsal-turf", model.ModuleFutsalTurf, "Futsal Turf", "futsal-turf"},
			{"/padel", model.ModulePadel, "Padel", "padel"},
		}
		for _, page := range sportPages {
			r.With(
				middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin, model.RoleClient),
				middleware.RequireModule(page.module),
			).Get(page.route, dashboardHandler.Sport(page.module, page.title, page.kind))
		}

		// Locations and their facilities
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin, model.RoleClient))
			r.Use(middleware.RequireModule(model.ModuleLocations))
			r.Get(handler.RouteLocations, locationsHandler.List)
			r.Post(handler.RouteLocations, locationsHandler.Create)
			r.Post(handler.RouteLocationsID, locationsHandler.Update)
			r.Post(handler.RouteLocationsID+"/delete", locationsHandler.Delete)
			r.Get(handler.RouteLocationsID+handler.RouteFacilities, facilitiesHandler.ListForLocation)
			r.Post(handler.RouteLocationsID+handler.RouteFacilities, facilitiesHandler.Create)
			r.Post(handler.RouteLocationsID+handler.RouteFacilities+"/{facilityId}", facilitiesHandler.Update)
			r.Post(handler.RouteLocationsID+handler.RouteFacilities+"/{facilityId}/delete", facilitiesHandler.Delete)
		})

		// Cross-location facilities overview (business owners only)
		r.With(middleware.RequireRoles(model.RoleClient)).
			Get(handler.RouteFacilities, facilitiesHandler.Overview)

		// User management
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin, model.RoleClient))
			r.Use(middleware.RequireModule(model.ModuleUsers))
			r.Get(handler.RouteUsers, usersHandler.List)
			r.Post(handler.RouteUsers, usersHandler.Create)
			r.Get(handler.RouteUsersID, usersHandler.EditForm)
			r.Post(handler.RouteUsersID, usersHandler.Update)
			r.Post(handler.RouteUsersID+"/password", usersHandler.ResetPassword)
		})

		r.With(
			middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin, model.RoleClient),
			middleware.RequireModule(model.ModuleBookings),
		).Get(handler.RouteBookings, bookingsHandler.List)

		r.With(
			middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin, model.RoleClient),
			middleware.RequireModule(model.ModuleAnalytics),
		).Get(handler.RouteAnalytics, dashboardHandler.Analytics)

		r.Route(handler.RouteSettings, func(r chi.Router) {
			r.Use(middleware.RequireModule(model.ModuleSettings))
			r.Get("/", settingsHandler.Show)
			r.With(middleware.RequireRoles(model.RoleClient)).
				Post("/logo", settingsHandler.UploadLogo)
		})
	})

	// Everything else goes to the login page or the dashboard.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if middleware.GetPrincipal(req) != nil {
			http.Redirect(w, req, handler.RouteDashboard, http.StatusSeeOther)
			return
		}
		http.Redirect(w, req, handler.RouteLogin, http.StatusSeeOther)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openSessionDB opens the SQLite session database and ensures the schema
// the scs sqlite3store expects.
func openSessionDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
