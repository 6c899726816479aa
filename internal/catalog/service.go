// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"golang.org/x/text/cases"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/pkg/slice"
)

// Genres is the fixed genre palette offered by the search screen.
var Genres = []string{
	"Romance", "Drama", "Fantasy", "Action", "Comedy", "Adventure",
	"Horror", "Mystery", "Survival", "Slice of Life", "Magic", "Thriller",
}

// Source is the remote catalog as seen by [Service]. [*Client] implements it.
type Source interface {
	CoverSource
	ListManga(ctx context.Context, query MangaQuery, limit, offset int) (Page[Manga], error)
	GetManga(ctx context.Context, mangaID string) (Manga, error)
	GetAuthor(ctx context.Context, personID string) (Person, error)
	ListChapters(ctx context.Context, mangaID string, limit, offset int) (Page[Chapter], error)
	GetChapter(ctx context.Context, chapterID string) (Chapter, error)
	AtHomeServer(ctx context.Context, chapterID string) (AtHome, error)
}

// ServiceConfig configures a [Service]. Zero values select defaults.
type ServiceConfig struct {
	PageSize        int
	PageConcurrency int
	FanOut          int
	Cache           CoverCache
	Metrics         Recorder
	Logger          *slog.Logger

	// RandIntN picks the random browse offset; defaults to math/rand/v2.
	RandIntN func(n int) int
}

// Service aggregates catalog resources into reader views.
type Service struct {
	source          Source
	covers          *CoverResolver
	pageSize        int
	pageConcurrency int
	fanOut          int
	metrics         Recorder
	logger          *slog.Logger
	randIntN        func(n int) int
}

// NewService creates a catalog service on top of source.
func NewService(source Source, cfg ServiceConfig) *Service {
	service := &Service{
		source:          source,
		pageSize:        cfg.PageSize,
		pageConcurrency: cfg.PageConcurrency,
		fanOut:          cfg.FanOut,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		randIntN:        cfg.RandIntN,
	}
	if service.pageSize <= 0 {
		service.pageSize = constants.CatalogPageSize
	}
	if service.fanOut <= 0 {
		service.fanOut = constants.CatalogFanOut
	}
	if service.metrics == nil {
		service.metrics = nopRecorder{}
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	if service.randIntN == nil {
		service.randIntN = rand.IntN
	}

	service.covers = NewCoverResolver(source, ResolverConfig{
		Cache:   cfg.Cache,
		FanOut:  service.fanOut,
		Metrics: service.metrics,
		Logger:  service.logger,
	})
	return service
}

// # Listings

// Listing is a manga with its resolved cover.
type Listing struct {
	Manga
	CoverURL string `json:"cover_url"`
}

// SearchQuery selects a listing. An empty Title yields the random browse feed.
type SearchQuery struct {
	Title  string
	Genres []string
}

/*
Search returns listings for the search screen.

With a title it performs a title search (limit 30); without one it browses a
random window of the catalog (limit 60, or 100 when genres are selected).
Genre filtering is applied locally, then covers are resolved.
*/
func (service *Service) Search(ctx context.Context, query SearchQuery) ([]Listing, error) {
	var (
		items []Manga
		err   error
	)

	switch {
	case query.Title != "":
		items, err = service.SearchByTitle(ctx, query.Title)
	case len(query.Genres) > 0:
		items, err = service.Browse(ctx, constants.CatalogGenreBrowseLimit)
	default:
		items, err = service.Browse(ctx, constants.CatalogBrowseLimit)
	}
	if err != nil {
		return nil, err
	}

	items = FilterByGenres(items, query.Genres)
	return service.withCovers(ctx, items), nil
}

// SearchByTitle returns up to 30 items matching title.
func (service *Service) SearchByTitle(ctx context.Context, title string) ([]Manga, error) {
	page, err := service.source.ListManga(ctx, MangaQuery{Title: title}, constants.CatalogSearchLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", title, err)
	}
	return page.Items, nil
}

// Browse returns limit items starting at a random offset below 1000.
func (service *Service) Browse(ctx context.Context, limit int) ([]Manga, error) {
	offset := service.randIntN(constants.CatalogBrowseMaxOffset)
	page, err := service.source.ListManga(ctx, MangaQuery{}, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("catalog: browse at offset %d: %w", offset, err)
	}
	return page.Items, nil
}

// FilterByGenres keeps items carrying at least one of genres, compared with
// Unicode case folding. An empty genre list keeps every item.
func FilterByGenres(items []Manga, genres []string) []Manga {
	if len(genres) == 0 {
		return items
	}

	fold := cases.Fold()
	wanted := make(map[string]struct{}, len(genres))
	for _, genre := range genres {
		wanted[fold.String(genre)] = struct{}{}
	}

	filtered := slice.Filter(items, func(item Manga) bool {
		for _, tag := range item.Tags {
			if _, ok := wanted[fold.String(tag)]; ok {
				return true
			}
		}
		return false
	})
	if filtered == nil {
		return []Manga{}
	}
	return filtered
}

func (service *Service) withCovers(ctx context.Context, items []Manga) []Listing {
	covers := service.ResolveCoverURLs(ctx, items)
	return slice.Map(items, func(item Manga) Listing {
		return Listing{Manga: item, CoverURL: covers[item.ID]}
	})
}

// # Covers

// ResolveCoverURLs maps each item id to its cover URL or the placeholder.
func (service *Service) ResolveCoverURLs(ctx context.Context, items []Manga) map[string]string {
	return service.covers.Resolve(ctx, items)
}

// CoverURL resolves the cover of a single item, degrading to the placeholder.
func (service *Service) CoverURL(ctx context.Context, item Manga) string {
	return service.covers.Resolve(ctx, []Manga{item})[item.ID]
}

// # Manga and chapters

// GetManga returns a single item.
func (service *Service) GetManga(ctx context.Context, mangaID string) (Manga, error) {
	return service.source.GetManga(ctx, mangaID)
}

// ListChapters returns every chapter of a manga by exhausting the paged endpoint.
func (service *Service) ListChapters(ctx context.Context, mangaID string) ([]Chapter, error) {
	fetch := func(ctx context.Context, limit, offset int) (Page[Chapter], error) {
		return service.source.ListChapters(ctx, mangaID, limit, offset)
	}

	return FetchAllPages(ctx, fetch,
		WithPageSize(service.pageSize),
		WithPageConcurrency(service.pageConcurrency),
		WithPageRecorder(service.metrics),
	)
}

/*
ChapterPageURLs returns the ordered image URLs of a chapter.

Returns:
  - []string: baseUrl/data/hash/file per page, or baseUrl/data-saver/hash/file
    when dataSaver is set
  - error: a catalog error or a descriptor without an image server; no retry
*/
func (service *Service) ChapterPageURLs(ctx context.Context, chapterID string, dataSaver bool) ([]string, error) {
	atHome, err := service.source.AtHomeServer(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if atHome.BaseURL == "" || atHome.Hash == "" {
		return nil, fmt.Errorf("catalog: chapter %s has no image server", chapterID)
	}

	segment, files := "data", atHome.Data
	if dataSaver {
		segment, files = "data-saver", atHome.DataSaver
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		urls = append(urls, fmt.Sprintf("%s/%s/%s/%s", atHome.BaseURL, segment, atHome.Hash, file))
	}
	return urls, nil
}
