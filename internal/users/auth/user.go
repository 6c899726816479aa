// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements reader accounts: registration, sign-in and bans.

# Architecture

Clients never send a plain password. They submit the SHA-256 hex digest of
it, and the backend stores a bcrypt hash of that digest. Sign-in returns a
signed access token carrying the account role; moderators are recognised
by role, and the role is assigned once at registration.

A ban is stored twice: the authoritative banned_until column in PostgreSQL
and a Redis key whose TTL equals the remaining ban duration, so the comment
path can check it without a database round-trip.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/sec"
)

// # Domain Entities

// User represents a registered reader account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	BannedUntil  *time.Time   `json:"banned_until,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the account holds moderation rights.
func (user *User) IsAdmin() bool {
	return user.Role == sec.RoleAdmin
}

// BannedAt reports whether the account is banned at the given instant.
func (user *User) BannedAt(now time.Time) bool {
	return user.BannedUntil != nil && user.BannedUntil.After(now)
}

// # Field Identifiers

const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPasswordHash = "password_hash"
	FieldUserID       = "user_id"
	FieldBanDuration  = "ban_duration"
)
