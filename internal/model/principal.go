// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Principal is the authenticated user as seen by every consumer of the
// session: route guard, navigation filter, dashboard composer and the CRUD
// handlers. It is built from a fresh profile fetch and only ever replaced
// wholesale, never mutated field by field.
type Principal struct {
	ID                     string
	Email                  string
	Name                   string
	Role                   Role
	ClientID               string // empty unless the user belongs to a client domain
	Modules                Overrides
	RequiresPasswordChange bool
}
