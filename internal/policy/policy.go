// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package policy implements the access decisions that gate routes, sidebar
// navigation and dashboard widgets. Everything here is a pure function of
// the principal and the requested restriction: no I/O, no stored state, no
// errors. That keeps authorization instantly computable on every request so
// the three consumers can never drift apart.
//
// Two independent predicates are composed with AND at each consumption
// site: a role check and a module check. super_admin short-circuits both.
// Role privilege is deliberately not modeled as a hierarchy object; the
// bypass is an explicit branch and everything else is set membership.
package policy

import "github.com/olegiv/obook-go/internal/model"

// RoleAllowed reports whether the principal passes a role restriction.
// A nil or empty restriction means the item is open to every role.
// super_admin passes unconditionally.
func RoleAllowed(p *model.Principal, required []model.Role) bool {
	if len(required) == 0 {
		return true
	}
	if p == nil {
		return false
	}
	if p.Role.IsSuperAdmin() {
		return true
	}
	for _, r := range required {
		if p.Role == r {
			return true
		}
	}
	return false
}

// ModuleAllowed reports whether the principal passes a module restriction.
// A zero key means the item carries no module gate. super_admin passes
// unconditionally. A principal without an override list passes here too:
// role-default module resolution belongs to the navigation filter and the
// dashboard composer, not to this predicate.
func ModuleAllowed(p *model.Principal, required model.ModuleKey) bool {
	if required == "" {
		return true
	}
	if p == nil {
		return false
	}
	if p.Role.IsSuperAdmin() {
		return true
	}
	if !p.Modules.IsSet() {
		return true
	}
	return p.Modules.Contains(required)
}

// EffectiveModules returns the principal's override list and true, or
// nil and false when the list is unset (meaning "use role defaults").
// Blank entries were already dropped when the Overrides value was built,
// so the empty-list and absent-list cases are indistinguishable here.
func EffectiveModules(p *model.Principal) ([]model.ModuleKey, bool) {
	if p == nil || !p.Modules.IsSet() {
		return nil, false
	}
	return p.Modules.Modules(), true
}

// DefaultModulesForRole is the fixed role-to-modules policy applied when no
// override list is present. The membership is a policy constant, not
// derived from the manifest.
func DefaultModulesForRole(role model.Role) []model.ModuleKey {
	switch role {
	case model.RoleSuperAdmin, model.RoleAdmin:
		return []model.ModuleKey{
			model.ModuleDashboardOverview,
			model.ModuleAnalytics,
			model.ModuleBookings,
			model.ModuleGaming,
		}
	case model.RoleClient:
		return []model.ModuleKey{
			model.ModuleDashboardOverview,
			model.ModuleBookings,
			model.ModuleGaming,
		}
	default:
		// Regular users and unrecognized roles get the overview only.
		return []model.ModuleKey{model.ModuleDashboardOverview}
	}
}

// ResolvedModules materializes the module set a principal can see: the
// override list when present, the role defaults otherwise. super_admin is
// not special-cased here; callers that grant it a bypass do so before
// consulting the set.
func ResolvedModules(p *model.Principal) map[model.ModuleKey]bool {
	if p == nil {
		return map[model.ModuleKey]bool{}
	}
	modules, ok := EffectiveModules(p)
	if !ok {
		modules = DefaultModulesForRole(p.Role)
	}
	set := make(map[model.ModuleKey]bool, len(modules))
	for _, m := range modules {
		set[m] = true
	}
	return set
}
