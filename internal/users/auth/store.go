// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for reader accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the username or email is taken
	*/
	Create(context context.Context, user *User) error

	/*
		SetBannedUntil records the end of a ban for the account.

		Returns:
		  - error: apperr.NotFound when the account does not exist
	*/
	SetBannedUntil(context context.Context, userID string, until time.Time) error
}

// # Volatile Data Access

// BanCache mirrors active bans in a store with native key expiry.
type BanCache interface {

	/*
		Set records a ban that expires on its own at until.
	*/
	Set(context context.Context, userID string, until time.Time) error

	/*
		Get returns the ban end for userID.

		Returns:
		  - time.Time: end of the ban
		  - bool: false when no active ban is cached
		  - error: cache failures
	*/
	Get(context context.Context, userID string) (time.Time, bool, error)
}
