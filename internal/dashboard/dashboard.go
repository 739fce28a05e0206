// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dashboard selects which overview widgets a principal gets. Like
// the sidebar, the widget list is declarative data filtered through the
// policy package; the composer adds nothing of its own beyond materializing
// role defaults when no override list is present.
package dashboard

import (
	"github.com/olegiv/obook-go/internal/model"
	"github.com/olegiv/obook-go/internal/policy"
)

// Widget is one dashboard block. Template names the partial that renders
// it; Module is the key that must be in the principal's resolved set.
type Widget struct {
	ID       string
	Title    string
	Template string
	Module   model.ModuleKey
}

// widgets is the dashboard in rendered order.
var widgets = []Widget{
	{ID: "overview-stats", Title: "Overview", Template: "widget_overview", Module: model.ModuleDashboardOverview},
	{ID: "analytics-charts", Title: "Analytics", Template: "widget_analytics", Module: model.ModuleAnalytics},
	{ID: "recent-bookings", Title: "Recent Bookings", Template: "widget_bookings", Module: model.ModuleBookings},
	{ID: "gaming-performance", Title: "Gaming Performance", Template: "widget_gaming", Module: model.ModuleGaming},
}

// Compose returns the widgets the principal may see, in order. The module
// set is the override list when set, the role defaults otherwise;
// super_admin gets every widget regardless.
func Compose(p *model.Principal) []Widget {
	if p == nil {
		return nil
	}
	if p.Role.IsSuperAdmin() {
		out := make([]Widget, len(widgets))
		copy(out, widgets)
		return out
	}
	resolved := policy.ResolvedModules(p)
	out := make([]Widget, 0, len(widgets))
	for _, w := range widgets {
		if resolved[w.Module] {
			out = append(out, w)
		}
	}
	return out
}
