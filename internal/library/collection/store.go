// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import "context"

// Repository defines the data access contract for collection entries.
type Repository interface {

	/*
		List returns the reader's entries, newest first.
	*/
	List(context context.Context, userID string) ([]Entry, error)

	/*
		Add stores the entry unless it already exists.

		Returns:
		  - bool: true when a new row was written
		  - error: persistence failures
	*/
	Add(context context.Context, entry *Entry) (bool, error)

	/*
		Remove deletes the entry.

		Returns:
		  - error: apperr.NotFound when the manga is not in the collection
	*/
	Remove(context context.Context, userID, mangaID string) error
}
