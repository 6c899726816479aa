// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/taibuivan/yomira-reader/internal/catalog"
)

// fakeSource is an in-memory catalog that counts every call.
type fakeSource struct {
	mu sync.Mutex

	manga    map[string]catalog.Manga
	covers   map[string]catalog.Cover
	people   map[string]catalog.Person
	chapters map[string]catalog.Chapter
	atHome   map[string]catalog.AtHome

	failCovers  map[string]bool
	failPeople  map[string]bool
	listResult  []catalog.Manga
	lastListArg struct {
		query         catalog.MangaQuery
		limit, offset int
	}

	coverCalls  map[string]int
	personCalls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		manga:       map[string]catalog.Manga{},
		covers:      map[string]catalog.Cover{},
		people:      map[string]catalog.Person{},
		chapters:    map[string]catalog.Chapter{},
		atHome:      map[string]catalog.AtHome{},
		failCovers:  map[string]bool{},
		failPeople:  map[string]bool{},
		coverCalls:  map[string]int{},
		personCalls: map[string]int{},
	}
}

func (source *fakeSource) ListManga(_ context.Context, query catalog.MangaQuery, limit, offset int) (catalog.Page[catalog.Manga], error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.lastListArg.query = query
	source.lastListArg.limit = limit
	source.lastListArg.offset = offset
	return catalog.Page[catalog.Manga]{Items: source.listResult, Limit: limit, Offset: offset, Total: len(source.listResult)}, nil
}

func (source *fakeSource) GetManga(_ context.Context, mangaID string) (catalog.Manga, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	manga, ok := source.manga[mangaID]
	if !ok {
		return catalog.Manga{}, &catalog.StatusError{Endpoint: "manga_get", StatusCode: 404}
	}
	return manga, nil
}

func (source *fakeSource) GetCover(_ context.Context, coverID string) (catalog.Cover, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.coverCalls[coverID]++
	if source.failCovers[coverID] {
		return catalog.Cover{}, &catalog.StatusError{Endpoint: "cover_get", StatusCode: 500}
	}
	cover, ok := source.covers[coverID]
	if !ok {
		return catalog.Cover{}, &catalog.StatusError{Endpoint: "cover_get", StatusCode: 404}
	}
	return cover, nil
}

func (source *fakeSource) CoverURL(cover catalog.Cover) (string, error) {
	if cover.MangaID == "" {
		return "", catalog.ErrNoRelationship
	}
	return fmt.Sprintf("https://uploads.test/covers/%s/%s.256.jpg", cover.MangaID, cover.FileName), nil
}

func (source *fakeSource) GetAuthor(_ context.Context, personID string) (catalog.Person, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.personCalls[personID]++
	if source.failPeople[personID] {
		return catalog.Person{}, &catalog.StatusError{Endpoint: "author_get", StatusCode: 503}
	}
	return source.people[personID], nil
}

func (source *fakeSource) ListChapters(context.Context, string, int, int) (catalog.Page[catalog.Chapter], error) {
	return catalog.Page[catalog.Chapter]{}, nil
}

func (source *fakeSource) GetChapter(_ context.Context, chapterID string) (catalog.Chapter, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	chapter, ok := source.chapters[chapterID]
	if !ok {
		return catalog.Chapter{}, &catalog.StatusError{Endpoint: "chapter_get", StatusCode: 404}
	}
	return chapter, nil
}

func (source *fakeSource) AtHomeServer(_ context.Context, chapterID string) (catalog.AtHome, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	atHome, ok := source.atHome[chapterID]
	if !ok {
		return catalog.AtHome{}, &catalog.StatusError{Endpoint: "at_home", StatusCode: 404}
	}
	return atHome, nil
}

func (source *fakeSource) coverCallCount(coverID string) int {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.coverCalls[coverID]
}

func (source *fakeSource) totalCoverCalls() int {
	source.mu.Lock()
	defer source.mu.Unlock()
	total := 0
	for _, n := range source.coverCalls {
		total += n
	}
	return total
}

// pagedCollection serves total items in pages and records requested offsets.
type pagedCollection struct {
	mu      sync.Mutex
	total   int
	offsets []int
	failAt  int
	emptyAt int

	// shortAt serves only shortLen items for the page at that offset.
	shortAt  int
	shortLen int
}

func (collection *pagedCollection) fetch(_ context.Context, limit, offset int) (catalog.Page[int], error) {
	collection.mu.Lock()
	collection.offsets = append(collection.offsets, offset)
	collection.mu.Unlock()

	if collection.failAt >= 0 && offset == collection.failAt {
		return catalog.Page[int]{}, fmt.Errorf("boom at %d", offset)
	}
	if collection.emptyAt >= 0 && offset >= collection.emptyAt {
		return catalog.Page[int]{Items: []int{}, Limit: limit, Offset: offset, Total: collection.total}, nil
	}

	if collection.shortAt >= 0 && offset == collection.shortAt {
		limit = collection.shortLen
	}

	items := make([]int, 0, limit)
	for i := offset; i < offset+limit && i < collection.total; i++ {
		items = append(items, i)
	}
	return catalog.Page[int]{Items: items, Limit: limit, Offset: offset, Total: collection.total}, nil
}

func (collection *pagedCollection) requested() []int {
	collection.mu.Lock()
	defer collection.mu.Unlock()
	return append([]int(nil), collection.offsets...)
}

func newCollection(total int) *pagedCollection {
	return &pagedCollection{total: total, failAt: -1, emptyAt: -1, shortAt: -1}
}
