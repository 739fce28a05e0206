// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package nav

import (
	"reflect"
	"testing"

	"github.com/olegiv/obook-go/internal/model"
)

func labels(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label
	}
	return out
}

func principal(role model.Role, modules ...model.ModuleKey) *model.Principal {
	return &model.Principal{ID: "u1", Role: role, Modules: model.NewOverrides(modules)}
}

func TestVisibleUserRole(t *testing.T) {
	// Role-restricted entries not listing "user" are excluded; the rest
	// fall back to role-default module visibility (overrides unset).
	got := labels(Visible(principal(model.RoleUser)))
	want := []string{"Dashboard", "Settings"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("user nav = %v, want %v", got, want)
	}
}

func TestVisibleAdminNoOverrides(t *testing.T) {
	got := labels(Visible(principal(model.RoleAdmin)))
	want := []string{
		"Dashboard", "Business Setup", "Businesses", "Gaming", "Snooker",
		"Table Tennis", "Cricket", "Futsal Turf", "Padel", "Locations",
		"Users", "Bookings", "Analytics", "Settings",
	}
	// Everything except the client-only Facilities entry, in manifest order.
	if !reflect.DeepEqual(got, want) {
		t.Errorf("admin nav = %v, want %v", got, want)
	}
}

func TestVisibleAdminWithOverrides(t *testing.T) {
	// A non-empty override list replaces role defaults: only entries whose
	// module key is listed (or which carry no key) survive the module rule.
	got := labels(Visible(principal(model.RoleAdmin, model.ModuleGaming, model.ModuleBookings)))
	want := []string{"Business Setup", "Businesses", "Gaming", "Bookings"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("admin nav with overrides = %v, want %v", got, want)
	}
}

func TestVisibleSuperAdminSeesEverything(t *testing.T) {
	all := labels(Manifest())
	// Facilities is role-restricted to client; super_admin bypasses role
	// restrictions too, so the full manifest is visible.
	tests := map[string]*model.Principal{
		"no overrides":       principal(model.RoleSuperAdmin),
		"empty overrides":    {ID: "u1", Role: model.RoleSuperAdmin, Modules: model.NewOverrides([]model.ModuleKey{})},
		"minimal overrides":  principal(model.RoleSuperAdmin, model.ModuleSnooker),
		"irrelevant modules": principal(model.RoleSuperAdmin, "nonexistent-key"),
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			got := labels(Visible(p))
			if !reflect.DeepEqual(got, all) {
				t.Errorf("super_admin nav = %v, want full manifest", got)
			}
		})
	}
}

func TestVisibleClientAllowList(t *testing.T) {
	// Business owners are additionally limited to their operational scope,
	// on top of the role and module rules.
	got := labels(Visible(principal(model.RoleClient)))
	want := []string{"Locations", "Facilities", "Bookings", "Settings"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("client nav = %v, want %v", got, want)
	}
}

func TestVisibleClientWithBookingsOverride(t *testing.T) {
	// Allow-list and module override combine: module-gated entries need
	// their key in the override list, entries without a key pass the
	// module rule unconditionally.
	got := labels(Visible(principal(model.RoleClient, model.ModuleBookings)))
	want := []string{"Facilities", "Bookings"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("client nav with bookings override = %v, want %v", got, want)
	}
}

func TestVisibleEmptyResultIsValid(t *testing.T) {
	// A user whose override list matches nothing they may see renders an
	// empty sidebar, not an error.
	got := Visible(principal(model.RoleUser, model.ModuleGaming))
	if len(got) != 0 {
		t.Errorf("nav = %v, want empty", labels(got))
	}
}

func TestVisibleNilPrincipal(t *testing.T) {
	// No principal means no module access, so nothing is shown. This state
	// only occurs on public pages that render no sidebar anyway.
	if got := Visible(nil); len(got) != 0 {
		t.Errorf("anonymous nav = %v, want empty", labels(got))
	}
}

func TestManifestReturnsCopy(t *testing.T) {
	m := Manifest()
	m[0].Label = "mutated"
	if Manifest()[0].Label != "Dashboard" {
		t.Error("Manifest() must return a copy")
	}
}
