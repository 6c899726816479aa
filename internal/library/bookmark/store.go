// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import "context"

// Repository defines the data access contract for bookmarks.
type Repository interface {

	/*
		List returns the reader's bookmarks, most recently updated first.
	*/
	List(context context.Context, userID string) ([]Bookmark, error)

	/*
		Upsert stores the bookmark keyed by (user, chapter).

		Description: An existing bookmark for the chapter is moved to the new
		page index; ID and CreatedAt of the stored row are written back.

		Returns:
		  - bool: true when a new row was created
		  - error: persistence failures
	*/
	Upsert(context context.Context, bookmark *Bookmark) (bool, error)

	/*
		Remove deletes the reader's bookmark in the chapter.

		Returns:
		  - error: apperr.NotFound when there is none
	*/
	Remove(context context.Context, userID, chapterID string) error
}
