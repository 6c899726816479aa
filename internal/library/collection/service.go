// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yomira-reader/internal/platform/validate"
)

// Service implements collection use cases.
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

// List returns the reader's collection. An empty collection is an empty slice.
func (service *Service) List(context context.Context, userID string) ([]Entry, error) {
	entries, err := service.repository.List(context, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

/*
Add saves a manga to the reader's collection.

Returns:
  - *Entry: the stored entry
  - bool: false when the manga was already saved
  - error: VALIDATION_ERROR for a malformed manga id, or storage errors
*/
func (service *Service) Add(context context.Context, userID, mangaID string) (*Entry, bool, error) {
	mangaID = strings.ToLower(strings.TrimSpace(mangaID))

	validator := &validate.Validator{}
	validator.Required(FieldMangaID, mangaID)
	if !validator.HasErrors() {
		validator.UUID(FieldMangaID, mangaID)
	}
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	entry := &Entry{UserID: userID, MangaID: mangaID}
	added, err := service.repository.Add(context, entry)
	if err != nil {
		return nil, false, err
	}

	if added {
		service.logger.InfoContext(context, "collection_entry_added",
			slog.String("user_id", userID),
			slog.String("manga_id", mangaID),
		)
	}
	return entry, added, nil
}

// Remove deletes a manga from the reader's collection.
func (service *Service) Remove(context context.Context, userID, mangaID string) error {
	return service.repository.Remove(context, userID, strings.ToLower(mangaID))
}
