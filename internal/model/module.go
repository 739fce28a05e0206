// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ModuleKey identifies a dashboard section. The set is closed and known at
// build time; keys arriving from the backend outside this set are kept as-is
// and simply never match a manifest entry.
type ModuleKey string

// Dashboard module keys.
const (
	ModuleDashboardOverview ModuleKey = "dashboard-overview"
	ModuleGaming            ModuleKey = "gaming"
	ModuleSnooker           ModuleKey = "snooker"
	ModuleTableTennis       ModuleKey = "table-tennis"
	ModuleCricket           ModuleKey = "cricket"
	ModuleFutsalTurf        ModuleKey = "futsal-turf"
	ModulePadel             ModuleKey = "padel"
	ModuleLocations         ModuleKey = "locations"
	ModuleUsers             ModuleKey = "users"
	ModuleBookings          ModuleKey = "bookings"
	ModuleAnalytics         ModuleKey = "analytics"
	ModuleSettings          ModuleKey = "settings"
)

// AllModules lists every module key in display order. Used by the users
// admin form to render the module override checkboxes.
func AllModules() []ModuleKey {
	return []ModuleKey{
		ModuleDashboardOverview,
		ModuleGaming,
		ModuleSnooker,
		ModuleTableTennis,
		ModuleCricket,
		ModuleFutsalTurf,
		ModulePadel,
		ModuleLocations,
		ModuleUsers,
		ModuleBookings,
		ModuleAnalytics,
		ModuleSettings,
	}
}

// KnownModule reports whether key is part of the closed module set.
func KnownModule(key ModuleKey) bool {
	for _, m := range AllModules() {
		if m == key {
			return true
		}
	}
	return false
}

// Overrides is the per-user module override list. It is a sum type over two
// cases: unset (use role-based defaults) and overridden (the list fully
// replaces role defaults, it is not additive).
//
// An explicitly empty list and an absent list are the same case by
// construction: NewOverrides drops empty entries and collapses an empty
// result to the unset state, so the two can never diverge downstream.
type Overrides struct {
	modules []ModuleKey
	set     bool
}

// NewOverrides builds an Overrides value from a backend module list.
// Blank entries are dropped; a nil or effectively-empty list yields the
// unset state.
func NewOverrides(modules []ModuleKey) Overrides {
	filtered := make([]ModuleKey, 0, len(modules))
	for _, m := range modules {
		if m != "" {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return Overrides{}
	}
	return Overrides{modules: filtered, set: true}
}

// IsSet reports whether an override list is present and non-empty.
func (o Overrides) IsSet() bool {
	return o.set
}

// Modules returns the override list in backend order, or nil when unset.
// The returned slice is a copy.
func (o Overrides) Modules() []ModuleKey {
	if !o.set {
		return nil
	}
	out := make([]ModuleKey, len(o.modules))
	copy(out, o.modules)
	return out
}

// Contains reports whether the override list includes the given key.
// Always false when unset.
func (o Overrides) Contains(key ModuleKey) bool {
	for _, m := range o.modules {
		if m == key {
			return true
		}
	}
	return false
}
