// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"

	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

// Repository defines the data access contract for comments.
type Repository interface {

	/*
		Create persists a new comment.
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns a single comment with its author's username.

		Returns:
		  - error: apperr.NotFound when the comment does not exist
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		ListByPage returns the comments of one chapter page, oldest first.
	*/
	ListByPage(context context.Context, filter PageFilter) ([]Comment, error)

	/*
		ListRecent returns every comment, newest first, for moderation.

		Returns:
		  - []Comment: one page of comments
		  - int: total number of comments
		  - error: database failures
	*/
	ListRecent(context context.Context, params pagination.Params) ([]Comment, int, error)

	/*
		Delete removes a comment.

		Returns:
		  - error: apperr.NotFound when the comment does not exist
	*/
	Delete(context context.Context, id string) error
}
