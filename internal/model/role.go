// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the console: roles,
// dashboard module keys, the authenticated principal, and the DTOs
// exchanged with the booking backend.
package model

import "strings"

// Role is the coarse-grained permission tier assigned to a user by the
// backend. Exactly one role per user.
type Role string

// Known roles, ordered by privilege for display purposes.
const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleClient     Role = "client"
	RoleUser       Role = "user"
)

// ParseRole normalizes a backend role string to its canonical lowercase
// form. The backend is not trusted to be consistent about case, so the
// comparison is case-insensitive at this boundary. Unrecognized values are
// preserved (lowercased) rather than rejected: an unknown role simply gets
// no privileges anywhere downstream.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// IsSuperAdmin reports whether the role is the unconditional-bypass tier.
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// IsClient reports whether the role is a business (tenant) owner.
func (r Role) IsClient() bool {
	return r == RoleClient
}

// String returns the canonical role string.
func (r Role) String() string {
	return string(r)
}
