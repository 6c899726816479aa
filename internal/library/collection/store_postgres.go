// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the library.collection table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns every entry of the reader, newest first.
func (repository *PostgresRepository) List(context context.Context, userID string) ([]Entry, error) {
	const query = `
		SELECT userid, mangaid, createdat
		FROM library.collection
		WHERE userid = $1
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Collection", "postgres_collection_list_failed")
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var entry Entry
		err := row.Scan(&entry.UserID, &entry.MangaID, &entry.CreatedAt)
		return entry, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Collection", "postgres_collection_scan_failed")
	}
	return entries, nil
}

/*
Add inserts the entry, relying on the (userid, mangaid) primary key for
idempotency.
*/
func (repository *PostgresRepository) Add(context context.Context, entry *Entry) (bool, error) {
	const query = `
		INSERT INTO library.collection (userid, mangaid, createdat)
		VALUES ($1, $2, NOW())
		ON CONFLICT (userid, mangaid) DO NOTHING
		RETURNING createdat`

	err := repository.pool.QueryRow(context, query, entry.UserID, entry.MangaID).Scan(&entry.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, dberr.Wrap(err, "Collection", "postgres_collection_add_failed")
	}

	// Already present: report the original timestamp.
	const existing = `SELECT createdat FROM library.collection WHERE userid = $1 AND mangaid = $2`
	if err := repository.pool.QueryRow(context, existing, entry.UserID, entry.MangaID).Scan(&entry.CreatedAt); err != nil {
		return false, dberr.Wrap(err, "Collection", "postgres_collection_add_lookup_failed")
	}
	return false, nil
}

// Remove deletes the entry, returning NOT_FOUND if nothing matched.
func (repository *PostgresRepository) Remove(context context.Context, userID, mangaID string) error {
	const query = `DELETE FROM library.collection WHERE userid = $1 AND mangaid = $2`

	tag, err := repository.pool.Exec(context, query, userID, mangaID)
	if err != nil {
		return dberr.Wrap(err, "Collection", "postgres_collection_remove_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Collection entry")
	}
	return nil
}
