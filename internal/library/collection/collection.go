// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collection manages the reader's saved manga.

A collection entry is the pair (user, manga). Adding the same manga twice
is a no-op, so a client retrying after a lost response never duplicates
an entry.
*/
package collection

import "time"

// # Domain Entities

// Entry is a single manga saved by a reader.
type Entry struct {
	UserID    string    `json:"user_id"`
	MangaID   string    `json:"manga_id"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldMangaID = "manga_id"
)
