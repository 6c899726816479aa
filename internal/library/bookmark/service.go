// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
	"github.com/taibuivan/yomira-reader/pkg/uuidv7"
)

// Service implements bookmark use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, logger: logger}
}

// SaveInput is the client payload of a bookmark save.
type SaveInput struct {
	// UserID is echoed by the client and must equal the caller.
	UserID    string
	MangaID   string
	ChapterID string
	PageIndex int
}

// List returns the reader's bookmarks. An empty list is an empty slice.
func (service *Service) List(context context.Context, userID string) ([]Bookmark, error) {
	bookmarks, err := service.repository.List(context, userID)
	if err != nil {
		return nil, err
	}
	if bookmarks == nil {
		bookmarks = []Bookmark{}
	}
	return bookmarks, nil
}

/*
Save creates the caller's bookmark in a chapter or moves the existing one.

Returns:
  - *Bookmark: the stored bookmark
  - bool: true when a new bookmark was created
  - error: FORBIDDEN when user_id names another reader, VALIDATION_ERROR
*/
func (service *Service) Save(context context.Context, callerID string, input SaveInput) (*Bookmark, bool, error) {
	if input.UserID != "" && input.UserID != callerID {
		return nil, false, apperr.Forbidden("Cannot bookmark on behalf of another user")
	}

	bookmark := &Bookmark{
		ID:        uuidv7.New(),
		UserID:    callerID,
		MangaID:   strings.ToLower(strings.TrimSpace(input.MangaID)),
		ChapterID: strings.ToLower(strings.TrimSpace(input.ChapterID)),
		PageIndex: input.PageIndex,
	}

	validator := &validate.Validator{}
	validator.UUID(FieldMangaID, bookmark.MangaID).
		UUID(FieldChapterID, bookmark.ChapterID).
		Custom(FieldPageIndex, bookmark.PageIndex < 0, "Page index cannot be negative")
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	created, err := service.repository.Upsert(context, bookmark)
	if err != nil {
		return nil, false, err
	}

	service.logger.InfoContext(context, "bookmark_saved",
		slog.String("user_id", callerID),
		slog.String("chapter_id", bookmark.ChapterID),
		slog.Int("page_index", bookmark.PageIndex),
		slog.Bool("created", created),
	)
	return bookmark, created, nil
}

// Remove deletes the reader's bookmark in the chapter.
func (service *Service) Remove(context context.Context, userID, chapterID string) error {
	return service.repository.Remove(context, userID, strings.ToLower(chapterID))
}
