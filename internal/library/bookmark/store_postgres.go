// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the library.bookmark table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns every bookmark of the reader.
func (repository *PostgresRepository) List(context context.Context, userID string) ([]Bookmark, error) {
	const query = `
		SELECT id, userid, mangaid, chapterid, pageindex, createdat, updatedat
		FROM library.bookmark
		WHERE userid = $1
		ORDER BY updatedat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "postgres_bookmark_list_failed")
	}

	bookmarks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Bookmark, error) {
		var bookmark Bookmark
		err := row.Scan(
			&bookmark.ID,
			&bookmark.UserID,
			&bookmark.MangaID,
			&bookmark.ChapterID,
			&bookmark.PageIndex,
			&bookmark.CreatedAt,
			&bookmark.UpdatedAt,
		)
		return bookmark, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "postgres_bookmark_scan_failed")
	}
	return bookmarks, nil
}

/*
Upsert writes the bookmark with ON CONFLICT on the (userid, chapterid)
unique key.

Description: xmax = 0 holds only for a freshly inserted tuple, which tells
an insert apart from an update in the same statement.
*/
func (repository *PostgresRepository) Upsert(context context.Context, bookmark *Bookmark) (bool, error) {
	const query = `
		INSERT INTO library.bookmark (id, userid, mangaid, chapterid, pageindex, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (userid, chapterid) DO UPDATE
		SET pageindex = EXCLUDED.pageindex,
		    mangaid   = EXCLUDED.mangaid,
		    updatedat = NOW()
		RETURNING id, createdat, updatedat, (xmax = 0)`

	var created bool
	err := repository.pool.QueryRow(context, query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.MangaID,
		bookmark.ChapterID,
		bookmark.PageIndex,
	).Scan(&bookmark.ID, &bookmark.CreatedAt, &bookmark.UpdatedAt, &created)
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "postgres_bookmark_upsert_failed")
	}
	return created, nil
}

// Remove deletes the reader's bookmark in the chapter.
func (repository *PostgresRepository) Remove(context context.Context, userID, chapterID string) error {
	const query = `DELETE FROM library.bookmark WHERE userid = $1 AND chapterid = $2`

	tag, err := repository.pool.Exec(context, query, userID, chapterID)
	if err != nil {
		return dberr.Wrap(err, "Bookmark", "postgres_bookmark_remove_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Bookmark")
	}
	return nil
}
