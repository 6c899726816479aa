// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements the moderation surface: reviewing and removing
comments and banning readers.

Every route requires the admin role. The package owns no storage; it composes
the comment and account services behind small interfaces.
*/
package admin

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

// # Contracts

// CommentModerator lists and removes comments regardless of author.
type CommentModerator interface {
	ListRecent(context context.Context, params pagination.Params) ([]comment.Comment, int, error)
	Moderate(context context.Context, commentID string) error
}

// Banner blocks an account for a duration.
type Banner interface {
	Ban(context context.Context, userID string, duration time.Duration) (time.Time, error)
}

// Service implements moderation use cases.
type Service struct {
	comments CommentModerator
	banner   Banner
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(comments CommentModerator, banner Banner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{comments: comments, banner: banner, logger: logger}
}

// Ban records the outcome of a ban.
type Ban struct {
	UserID      string    `json:"user_id"`
	BannedUntil time.Time `json:"banned_until"`
}

// ListComments returns every comment, newest first, with author usernames.
func (service *Service) ListComments(context context.Context, params pagination.Params) ([]comment.Comment, int, error) {
	return service.comments.ListRecent(context, params)
}

// DeleteComment removes any comment.
func (service *Service) DeleteComment(context context.Context, moderatorID, commentID string) error {
	if err := service.comments.Moderate(context, commentID); err != nil {
		return err
	}
	service.logger.InfoContext(context, "admin_comment_removed",
		slog.String("moderator_id", moderatorID),
		slog.String("comment_id", commentID),
	)
	return nil
}

/*
BanUser bans a reader for a whole number of hours.

Returns:
  - *Ban: the ban end
  - error: VALIDATION_ERROR when hours is outside 1..8760, NOT_FOUND for an
    unknown user
*/
func (service *Service) BanUser(context context.Context, moderatorID, userID string, hours int) (*Ban, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, userID).
		Range(FieldBanDuration, hours, 1, constants.BanMaxHours).
		Custom(FieldUserID, userID != "" && userID == moderatorID, "Moderators cannot ban themselves")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	until, err := service.banner.Ban(context, userID, time.Duration(hours)*time.Hour)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "admin_user_banned",
		slog.String("moderator_id", moderatorID),
		slog.String("user_id", userID),
		slog.Int("hours", hours),
	)
	return &Ban{UserID: userID, BannedUntil: until}, nil
}

// # Field Identifiers

const (
	FieldUserID      = "user_id"
	FieldBanDuration = "ban_duration"
)
