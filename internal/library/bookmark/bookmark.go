// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bookmark stores the reader's saved page positions.

A reader holds at most one bookmark per chapter. Saving a bookmark on a
chapter that already has one moves it to the new page instead of adding
a second row.
*/
package bookmark

import "time"

// # Domain Entities

// Bookmark is the saved page position of a reader in one chapter.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MangaID   string    `json:"manga_id"`
	ChapterID string    `json:"chapter_id"`
	PageIndex int       `json:"page_index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldUserID    = "user_id"
	FieldMangaID   = "manga_id"
	FieldChapterID = "chapter_id"
	FieldPageIndex = "page_index"
)
