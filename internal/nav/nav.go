// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package nav holds the static sidebar manifest and the filter that
// derives the visible entries for a principal. The manifest is declarative
// data; every visibility rule lives in the policy package so the sidebar
// can never disagree with the route guard or the dashboard.
package nav

import (
	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/policy"
)

// Entry is one sidebar item. Roles and Module are optional restrictions;
// an entry carrying both must pass both.
type Entry struct {
	Label  string
	Target string
	Icon   string
	Roles  []model.Role    // nil = open to all roles
	Module model.ModuleKey // "" = no module gate
}

// manifest is the sidebar in rendered order. Defined once at build time,
// never mutated.
var manifest = []Entry{
	{Label: "Dashboard", Target: "/dashboard", Icon: "layout-dashboard", Module: model.ModuleDashboardOverview},
	{Label: "Business Setup", Target: "/dashboard/setup", Icon: "briefcase", Roles: []model.Role{model.RoleAdmin}},
	{Label: "Businesses", Target: "/dashboard/clients", Icon: "briefcase", Roles: []model.Role{model.RoleAdmin}},
	{Label: "Gaming", Target: "/dashboard/gaming", Icon: "gamepad-2", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleGaming},
	{Label: "Snooker", Target: "/dashboard/snooker", Icon: "circle-dot", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleSnooker},
	{Label: "Table Tennis", Target: "/dashboard/table-tennis", Icon: "table-2", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleTableTennis},
	{Label: "Cricket", Target: "/dashboard/cricket", Icon: "activity", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleCricket},
	{Label: "Futsal Turf", Target: "/dashboard/futsal-turf", Icon: "footprints", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleFutsalTurf},
	{Label: "Padel", Target: "/dashboard/padel", Icon: "crosshair", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModulePadel},
	{Label: "Locations", Target: "/dashboard/locations", Icon: "map-pin", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleLocations},
	// Facilities has no module key yet; it stays visible to all client
	// users until the backend exposes a facilities module key.
	{Label: "Facilities", Target: "/dashboard/facilities", Icon: "circle-dot", Roles: []model.Role{model.RoleClient}},
	{Label: "Users", Target: "/dashboard/users", Icon: "users", Roles: []model.Role{model.RoleSuperAdmin, model.RoleAdmin, model.RoleClient}, Module: model.ModuleUsers},
	{Label: "Bookings", Target: "/dashboard/bookings", Icon: "calendar", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleBookings},
	{Label: "Analytics", Target: "/dashboard/analytics", Icon: "bar-chart-3", Roles: []model.Role{model.RoleAdmin, model.RoleClient}, Module: model.ModuleAnalytics},
	{Label: "Settings", Target: "/dashboard/settings", Icon: "settings", Roles: []model.Role{model.RoleAdmin, model.RoleClient, model.RoleUser}, Module: model.ModuleSettings},
}

// clientAllowedLabels is the operational scope for business owners: an
// additional restriction layered on top of the general role/module rules,
// not a replacement for them.
var clientAllowedLabels = map[string]bool{
	"Bookings":   true,
	"Locations":  true,
	"Facilities": true,
	"Settings":   true,
}

// Manifest returns a copy of the full sidebar manifest in order.
func Manifest() []Entry {
	out := make([]Entry, len(manifest))
	copy(out, manifest)
	return out
}

// Visible returns the sidebar entries the principal may see, in manifest
// order. An empty result is valid and renders an empty sidebar.
func Visible(p *model.Principal) []Entry {
	entries := make([]Entry, 0, len(manifest))
	for _, entry := range manifest {
		if !visible(p, entry) {
			continue
		}
		if p != nil && p.Role.IsClient() && !clientAllowedLabels[entry.Label] {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// visible applies the shared role AND module rule for one entry.
func visible(p *model.Principal, entry Entry) bool {
	if !policy.RoleAllowed(p, entry.Roles) {
		return false
	}
	return policy.ModuleAllowed(p, entry.Module)
}
