// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/catalog"
	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

func fixedOffset(offset int) func(int) int {
	return func(n int) int {
		if offset >= n {
			panic("offset out of range")
		}
		return offset
	}
}

/*
TestService_Search selects the request shape from the query.
*/
func TestService_Search(t *testing.T) {
	tests := []struct {
		name   string
		query  catalog.SearchQuery
		limit  int
		offset int
		title  string
		ids    []string
	}{
		{"title_search", catalog.SearchQuery{Title: "berserk"}, 30, 0, "berserk", []string{"a", "b", "c"}},
		{"random_browse", catalog.SearchQuery{}, 60, 417, "", []string{"a", "b", "c"}},
		{"genre_browse", catalog.SearchQuery{Genres: []string{"horror"}}, 100, 417, "", []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.listResult = []catalog.Manga{
				{ID: "a", Tags: []string{"Romance"}},
				{ID: "b", Tags: []string{"Horror", "Mystery"}},
				{ID: "c"},
			}
			service := catalog.NewService(source, catalog.ServiceConfig{RandIntN: fixedOffset(417)})

			listings, err := service.Search(context.Background(), tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(listings))
			for _, listing := range listings {
				ids = append(ids, listing.ID)
				assert.Equal(t, constants.PlaceholderCoverURL, listing.CoverURL)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.limit, source.lastListArg.limit)
			assert.Equal(t, tt.offset, source.lastListArg.offset)
			assert.Equal(t, tt.title, source.lastListArg.query.Title)
		})
	}
}

/*
TestFilterByGenres keeps items carrying at least one selected genre.
*/
func TestFilterByGenres(t *testing.T) {
	items := []catalog.Manga{
		{ID: "1", Tags: []string{"Action", "Comedy"}},
		{ID: "2", Tags: []string{"Slice of Life"}},
		{ID: "3", Tags: nil},
	}

	tests := []struct {
		name   string
		genres []string
		ids    []string
	}{
		{"none_selected", nil, []string{"1", "2", "3"}},
		{"single", []string{"Comedy"}, []string{"1"}},
		{"any_of", []string{"Comedy", "Slice of Life"}, []string{"1", "2"}},
		{"case_folded", []string{"slice of life"}, []string{"2"}},
		{"no_match", []string{"Horror"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := catalog.FilterByGenres(items, tt.genres)
			ids := make([]string, 0, len(filtered))
			for _, item := range filtered {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

/*
TestService_MangaDetails_Degrades uses placeholders for failed secondary lookups.
*/
func TestService_MangaDetails_Degrades(t *testing.T) {
	source := newFakeSource()
	source.manga["m1"] = catalog.Manga{ID: "m1", Title: "Vagabond", CoverID: "c1", AuthorID: "p1", ArtistID: "p2"}
	source.people["p2"] = catalog.Person{ID: "p2", Name: "Inoue Takehiko"}
	source.failPeople["p1"] = true
	source.failCovers["c1"] = true

	service := catalog.NewService(source, catalog.ServiceConfig{})
	details, err := service.MangaDetails(context.Background(), "m1")

	require.NoError(t, err)
	assert.Equal(t, constants.UnknownPerson, details.AuthorName)
	assert.Equal(t, "Inoue Takehiko", details.ArtistName)
	assert.Equal(t, constants.PlaceholderCoverURL, details.CoverURL)
	assert.Equal(t, 1, source.personCalls["p1"])
	assert.Equal(t, 1, source.personCalls["p2"])

	_, err = service.MangaDetails(context.Background(), "missing")
	assert.True(t, catalog.IsNotFound(err))
}

/*
TestService_DescribeBookmarks omits unresolved chapters and keeps input order.
*/
func TestService_DescribeBookmarks(t *testing.T) {
	source := newFakeSource()
	source.chapters["ch1"] = catalog.Chapter{ID: "ch1", MangaID: "m1", Title: "Romance Dawn"}
	source.chapters["ch2"] = catalog.Chapter{ID: "ch2", MangaID: "gone", Title: "Untitled"}
	source.manga["m1"] = catalog.Manga{ID: "m1", Title: "One Piece", CoverID: "c1"}
	source.covers["c1"] = catalog.Cover{ID: "c1", MangaID: "m1", FileName: "op.png"}

	service := catalog.NewService(source, catalog.ServiceConfig{})
	views := service.DescribeBookmarks(context.Background(), []catalog.BookmarkRef{
		{ChapterID: "ch1", PageIndex: 4},
		{ChapterID: "unknown", PageIndex: 0},
		{ChapterID: "ch2", PageIndex: 9},
	})

	require.Len(t, views, 2)
	assert.Equal(t, catalog.BookmarkView{
		ChapterID:    "ch1",
		PageIndex:    4,
		MangaID:      "m1",
		MangaTitle:   "One Piece",
		ChapterTitle: "Romance Dawn",
		CoverURL:     "https://uploads.test/covers/m1/op.png.256.jpg",
	}, views[0])
	assert.Equal(t, "ch2", views[1].ChapterID)
	assert.Equal(t, constants.UntitledPlaceholder, views[1].MangaTitle)
	assert.Equal(t, constants.PlaceholderCoverURL, views[1].CoverURL)
}

/*
TestNavigator clamps moves to the page range.
*/
func TestNavigator(t *testing.T) {
	navigator := catalog.NewNavigator([]string{"p0", "p1", "p2"}, 0)

	assert.False(t, navigator.HasPrev())
	assert.Equal(t, "p0", navigator.Prev())
	assert.Equal(t, "p1", navigator.Next())
	assert.Equal(t, "p2", navigator.Next())
	assert.False(t, navigator.HasNext())
	assert.Equal(t, "p2", navigator.Next())
	assert.Equal(t, 2, navigator.Index())

	resumed := catalog.NewNavigator([]string{"p0", "p1"}, 7)
	assert.Equal(t, "p1", resumed.Current())

	empty := catalog.NewNavigator(nil, 3)
	assert.Equal(t, "", empty.Current())
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())
	assert.Equal(t, "", empty.Next())
}
