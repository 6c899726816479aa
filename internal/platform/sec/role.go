// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Moderation access: comment removal and user bans
	RoleAdmin UserRole = "admin"

	// Default role for standard registered readers
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleMember:
		return 10
	default:
		return 0
	}
}
