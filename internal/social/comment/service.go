// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
	"github.com/taibuivan/yomira-reader/pkg/uuidv7"
)

// BanChecker reports whether an account may currently post.
type BanChecker interface {
	// EnsureNotBanned returns a BANNED error while a ban is active.
	EnsureNotBanned(context context.Context, userID string) error
}

// ServiceConfig carries the optional collaborators of [Service].
type ServiceConfig struct {
	Publisher Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

// Service implements comment use cases.
type Service struct {
	repository Repository
	bans       BanChecker
	publisher  Publisher
	sanitizer  *Sanitizer
	logger     *slog.Logger
	now        func() time.Time
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// NewService constructs a new [Service].
func NewService(repository Repository, bans BanChecker, config ServiceConfig) *Service {
	service := &Service{
		repository: repository,
		bans:       bans,
		publisher:  config.Publisher,
		sanitizer:  NewSanitizer(),
		logger:     config.Logger,
		now:        config.Now,
	}
	if service.publisher == nil {
		service.publisher = nopPublisher{}
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// # Reading

// ListPage returns the comments of one chapter page, oldest first.
func (service *Service) ListPage(context context.Context, filter PageFilter) ([]Comment, error) {
	filter.MangaID = strings.ToLower(strings.TrimSpace(filter.MangaID))
	filter.ChapterID = strings.ToLower(strings.TrimSpace(filter.ChapterID))

	validator := &validate.Validator{}
	validator.UUID(FieldMangaID, filter.MangaID).
		UUID(FieldChapterID, filter.ChapterID).
		Custom(FieldPageIndex, filter.PageIndex < 0, "Page index cannot be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comments, err := service.repository.ListByPage(context, filter)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// ListRecent returns all comments, newest first, for moderators.
func (service *Service) ListRecent(context context.Context, params pagination.Params) ([]Comment, int, error) {
	comments, total, err := service.repository.ListRecent(context, params)
	if err != nil {
		return nil, 0, err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, total, nil
}

// # Writing

// PostInput is the client payload of a new comment.
type PostInput struct {
	// UserID is echoed by the client and must equal the caller.
	UserID    string
	MangaID   string
	ChapterID string
	PageIndex int
	Body      string
}

// Author identifies the signed-in caller.
type Author struct {
	UserID   string
	Username string
}

/*
Post stores a new comment on behalf of the caller and announces it.

Returns:
  - *Comment: the stored comment with its server-assigned id
  - error: FORBIDDEN when user_id names another reader, BANNED for banned
    accounts, VALIDATION_ERROR for bad fields
*/
func (service *Service) Post(context context.Context, author Author, input PostInput) (*Comment, error) {
	if input.UserID != author.UserID {
		return nil, apperr.Forbidden("Cannot comment on behalf of another user")
	}

	comment := &Comment{
		ID:        uuidv7.New(),
		UserID:    author.UserID,
		Username:  author.Username,
		MangaID:   strings.ToLower(strings.TrimSpace(input.MangaID)),
		ChapterID: strings.ToLower(strings.TrimSpace(input.ChapterID)),
		PageIndex: input.PageIndex,
		Body:      service.sanitizer.Sanitize(input.Body),
		CreatedAt: service.now().UTC(),
	}

	validator := &validate.Validator{}
	validator.UUID(FieldMangaID, comment.MangaID).
		UUID(FieldChapterID, comment.ChapterID).
		Custom(FieldPageIndex, comment.PageIndex < 0, "Page index cannot be negative").
		Required(FieldCommentText, comment.Body).
		MaxLen(FieldCommentText, comment.Body, constants.CommentMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.bans.EnsureNotBanned(context, author.UserID); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("user_id", comment.UserID),
		slog.String("chapter_id", comment.ChapterID),
		slog.Int("page_index", comment.PageIndex),
	)

	service.publisher.Publish(Event{
		Type:      EventCreated,
		ChapterID: comment.ChapterID,
		CommentID: comment.ID,
		Comment:   comment,
		At:        comment.CreatedAt,
	})
	return comment, nil
}

/*
Delete removes the caller's own comment.

Returns:
  - error: NOT_FOUND, or FORBIDDEN when the caller is not the author
*/
func (service *Service) Delete(context context.Context, callerID, commentID string) error {
	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != callerID {
		return apperr.Forbidden("Only the author can delete this comment")
	}
	return service.remove(context, comment, "author")
}

// Moderate removes any comment. Callers must have checked the moderator role.
func (service *Service) Moderate(context context.Context, commentID string) error {
	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return err
	}
	return service.remove(context, comment, "moderator")
}

func (service *Service) remove(context context.Context, comment *Comment, by string) error {
	if err := service.repository.Delete(context, comment.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.String("comment_id", comment.ID),
		slog.String("chapter_id", comment.ChapterID),
		slog.String("by", by),
	)

	service.publisher.Publish(Event{
		Type:      EventDeleted,
		ChapterID: comment.ChapterID,
		CommentID: comment.ID,
		At:        service.now().UTC(),
	})
	return nil
}
