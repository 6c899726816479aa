// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/dberr"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

const selectComment = `
	SELECT c.id, c.userid, a.username, c.mangaid, c.chapterid, c.pageindex, c.body, c.createdat
	FROM social.comment c
	JOIN users.account a ON a.id = c.userid`

// PostgresRepository implements [Repository] on the social.comment table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts the comment. A missing author surfaces as NOT_FOUND.
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO social.comment (id, userid, mangaid, chapterid, pageindex, body, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.UserID,
		comment.MangaID,
		comment.ChapterID,
		comment.PageIndex,
		comment.Body,
		comment.CreatedAt,
	)
	return dberr.Wrap(err, "Comment", "postgres_comment_create_failed")
}

// FindByID returns a single comment.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	row := repository.pool.QueryRow(context, selectComment+` WHERE c.id = $1`, id)

	comment, err := scanComment(row)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "postgres_comment_find_failed")
	}
	return &comment, nil
}

// ListByPage returns the comments of one chapter page.
func (repository *PostgresRepository) ListByPage(context context.Context, filter PageFilter) ([]Comment, error) {
	const where = `
		WHERE c.mangaid = $1 AND c.chapterid = $2 AND c.pageindex = $3
		ORDER BY c.createdat ASC, c.id ASC`

	rows, err := repository.pool.Query(context, selectComment+where, filter.MangaID, filter.ChapterID, filter.PageIndex)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "postgres_comment_list_failed")
	}
	return collectComments(rows)
}

// ListRecent returns one page of all comments, newest first.
func (repository *PostgresRepository) ListRecent(context context.Context, params pagination.Params) ([]Comment, int, error) {
	var total int
	if err := repository.pool.QueryRow(context, `SELECT COUNT(*) FROM social.comment`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Comment", "postgres_comment_count_failed")
	}

	const page = ` ORDER BY c.createdat DESC, c.id DESC LIMIT $1 OFFSET $2`
	rows, err := repository.pool.Query(context, selectComment+page, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Comment", "postgres_comment_recent_failed")
	}

	comments, err := collectComments(rows)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Delete removes a comment, returning NOT_FOUND if nothing matched.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM social.comment WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "Comment", "postgres_comment_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func scanComment(row pgx.Row) (Comment, error) {
	var comment Comment
	err := row.Scan(
		&comment.ID,
		&comment.UserID,
		&comment.Username,
		&comment.MangaID,
		&comment.ChapterID,
		&comment.PageIndex,
		&comment.Body,
		&comment.CreatedAt,
	)
	return comment, err
}

func collectComments(rows pgx.Rows) ([]Comment, error) {
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Comment, error) {
		return scanComment(row)
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "postgres_comment_scan_failed")
	}
	return comments, nil
}
