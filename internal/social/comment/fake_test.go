// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"sort"
	"sync"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

const (
	mangaID   = "a96676e5-8ae2-425e-b549-7f15dd34a6d8"
	chapterID = "0e3a5bd4-2c4f-4a36-a4e9-5f2b1b4f1c11"
)

type memoryRepository struct {
	mu   sync.Mutex
	rows []comment.Comment
}

func (repo *memoryRepository) Create(_ context.Context, entry *comment.Comment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rows = append(repo.rows, *entry)
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.ID == id {
			clone := row
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Comment")
}

func (repo *memoryRepository) ListByPage(_ context.Context, filter comment.PageFilter) ([]comment.Comment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []comment.Comment
	for _, row := range repo.rows {
		if row.MangaID == filter.MangaID && row.ChapterID == filter.ChapterID && row.PageIndex == filter.PageIndex {
			out = append(out, row)
		}
	}
	return out, nil
}

func (repo *memoryRepository) ListRecent(_ context.Context, params pagination.Params) ([]comment.Comment, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	sorted := append([]comment.Comment(nil), repo.rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	end := min(params.Offset+params.Limit, len(sorted))
	if params.Offset >= end {
		return nil, len(sorted), nil
	}
	return sorted[params.Offset:end], len(sorted), nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, row := range repo.rows {
		if row.ID == id {
			repo.rows = append(repo.rows[:i], repo.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Comment")
}

func (repo *memoryRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.rows)
}

type stubBans struct {
	banned map[string]error
}

func (bans stubBans) EnsureNotBanned(_ context.Context, userID string) error {
	return bans.banned[userID]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []comment.Event
}

func (publisher *recordingPublisher) Publish(event comment.Event) {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.events = append(publisher.events, event)
}
