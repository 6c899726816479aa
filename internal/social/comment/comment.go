// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements page-scoped reader comments.

A comment is attached to one page of one chapter. Bodies are plain text:
markup is stripped before storage and the length is capped. Every created
or deleted comment is also pushed to readers watching the chapter through
a WebSocket feed.

# Authorization

  - Posting requires a signed-in, non-banned reader whose id matches the
    user_id of the payload.
  - Only the author deletes through the public API. Moderators use the
    admin surface, which calls [Service.Moderate].
*/
package comment

import "time"

// # Domain Entities

// Comment is a single reader comment on a chapter page.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	MangaID   string    `json:"manga_id"`
	ChapterID string    `json:"chapter_id"`
	PageIndex int       `json:"page_index"`
	Body      string    `json:"comment_text"`
	CreatedAt time.Time `json:"created_at"`
}

// PageFilter selects the comments of one chapter page.
type PageFilter struct {
	MangaID   string
	ChapterID string
	PageIndex int
}

// # Live Events

// EventType names a change pushed on the live feed.
type EventType string

const (
	EventCreated EventType = "comment_created"
	EventDeleted EventType = "comment_deleted"
)

// Event is one message of the live feed of a chapter.
type Event struct {
	Type      EventType `json:"type"`
	ChapterID string    `json:"chapter_id"`
	CommentID string    `json:"comment_id"`
	Comment   *Comment  `json:"comment,omitempty"`
	At        time.Time `json:"at"`
}

// # Field Identifiers

const (
	FieldUserID      = "user_id"
	FieldMangaID     = "manga_id"
	FieldChapterID   = "chapter_id"
	FieldPageIndex   = "page_index"
	FieldCommentText = "comment_text"
)
