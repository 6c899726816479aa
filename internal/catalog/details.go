// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

// # Manga details

// Details is the manga screen view.
type Details struct {
	Manga
	AuthorName string `json:"author_name"`
	ArtistName string `json:"artist_name"`
	CoverURL   string `json:"cover_url"`
}

/*
MangaDetails loads a manga with its people and cover.

The author and artist are looked up once when they are the same person, and
every secondary lookup runs concurrently. Secondary failures degrade to
"Unknown" or the placeholder cover; only the manga lookup itself can fail.
*/
func (service *Service) MangaDetails(ctx context.Context, mangaID string) (Details, error) {
	manga, err := service.source.GetManga(ctx, mangaID)
	if err != nil {
		return Details{}, err
	}

	details := Details{
		Manga:      manga,
		AuthorName: constants.UnknownPerson,
		ArtistName: constants.UnknownPerson,
		CoverURL:   constants.PlaceholderCoverURL,
	}

	var group errgroup.Group
	group.SetLimit(service.fanOut)

	names := make(map[string]string, 2)
	var namesMu sync.Mutex

	for _, personID := range uniqueNonEmpty(manga.AuthorID, manga.ArtistID) {
		group.Go(func() error {
			person, err := service.source.GetAuthor(ctx, personID)
			if err != nil || person.Name == "" {
				service.logger.WarnContext(ctx, "person_lookup_failed",
					slog.String("manga_id", mangaID),
					slog.String("person_id", personID),
					slog.Any("error", err),
				)
				return nil
			}
			namesMu.Lock()
			names[personID] = person.Name
			namesMu.Unlock()
			return nil
		})
	}

	group.Go(func() error {
		details.CoverURL = service.CoverURL(ctx, manga)
		return nil
	})
	_ = group.Wait()

	if name, ok := names[manga.AuthorID]; ok {
		details.AuthorName = name
	}
	if name, ok := names[manga.ArtistID]; ok {
		details.ArtistName = name
	}
	return details, nil
}

func uniqueNonEmpty(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		duplicate := false
		for _, seen := range out {
			if seen == id {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, id)
		}
	}
	return out
}

// # Bookmarks

// BookmarkRef identifies a saved reading position.
type BookmarkRef struct {
	ChapterID string `json:"chapter_id"`
	PageIndex int    `json:"page_index"`
}

// BookmarkView is a bookmark enriched for display.
type BookmarkView struct {
	ChapterID    string `json:"chapter_id"`
	PageIndex    int    `json:"page_index"`
	MangaID      string `json:"manga_id"`
	MangaTitle   string `json:"manga_title"`
	ChapterTitle string `json:"chapter_title"`
	CoverURL     string `json:"cover_url"`
}

/*
DescribeBookmarks resolves the chapter, manga and cover of each bookmark.

Bookmarks are described concurrently and in input order. A bookmark whose
chapter cannot be resolved is omitted; a failed manga lookup degrades to the
"Untitled" title and the placeholder cover.
*/
func (service *Service) DescribeBookmarks(ctx context.Context, bookmarks []BookmarkRef) []BookmarkView {
	views := make([]*BookmarkView, len(bookmarks))

	var group errgroup.Group
	group.SetLimit(service.fanOut)

	for i, bookmark := range bookmarks {
		group.Go(func() error {
			views[i] = service.describeBookmark(ctx, bookmark)
			return nil
		})
	}
	_ = group.Wait()

	described := make([]BookmarkView, 0, len(bookmarks))
	for _, view := range views {
		if view != nil {
			described = append(described, *view)
		}
	}
	return described
}

func (service *Service) describeBookmark(ctx context.Context, bookmark BookmarkRef) *BookmarkView {
	chapter, err := service.source.GetChapter(ctx, bookmark.ChapterID)
	if err != nil || chapter.MangaID == "" {
		service.logger.WarnContext(ctx, "bookmark_chapter_unresolved",
			slog.String("chapter_id", bookmark.ChapterID),
			slog.Any("error", err),
		)
		return nil
	}

	view := &BookmarkView{
		ChapterID:    bookmark.ChapterID,
		PageIndex:    bookmark.PageIndex,
		MangaID:      chapter.MangaID,
		ChapterTitle: chapter.Title,
		MangaTitle:   constants.UntitledPlaceholder,
		CoverURL:     constants.PlaceholderCoverURL,
	}

	manga, err := service.source.GetManga(ctx, chapter.MangaID)
	if err != nil {
		service.logger.WarnContext(ctx, "bookmark_manga_unresolved",
			slog.String("manga_id", chapter.MangaID),
			slog.Any("error", err),
		)
		return view
	}

	view.MangaTitle = manga.Title
	view.CoverURL = service.CoverURL(ctx, manga)
	return view
}
