// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/catalog"
)

// newCatalogServer fakes the subset of the MangaDex API used by the client.
func newCatalogServer(t *testing.T, chapterTotal int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var chapterRequests atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("GET /manga", func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		assert.Equal(t, "30", query.Get("limit"))
		assert.Equal(t, "0", query.Get("offset"))
		assert.Equal(t, "one piece", query.Get("title"))

		writeJSON(writer, map[string]any{
			"result": "ok",
			"data": []map[string]any{
				{
					"id":   "m1",
					"type": "manga",
					"attributes": map[string]any{
						"title":  map[string]string{"en": "One Piece", "ja": "ワンピース"},
						"status": "ongoing",
						"tags": []map[string]any{
							{"attributes": map[string]any{"name": map[string]string{"en": "Action"}}},
							{"attributes": map[string]any{"name": map[string]string{"en": "Adventure"}}},
						},
					},
					"relationships": []map[string]string{
						{"id": "c1", "type": "cover_art"},
						{"id": "p1", "type": "author"},
						{"id": "p1", "type": "artist"},
					},
				},
				{
					"id":            "m2",
					"type":          "manga",
					"attributes":    map[string]any{"title": map[string]string{"ja": "ワンピース外伝"}},
					"relationships": []map[string]string{},
				},
			},
			"limit": 30, "offset": 0, "total": 2,
		})
	})
	mux.HandleFunc("GET /cover/{id}", func(writer http.ResponseWriter, request *http.Request) {
		id := request.PathValue("id")
		relationships := []map[string]string{{"id": "m1", "type": "manga"}}
		if id == "orphan" {
			relationships = nil
		}
		writeJSON(writer, map[string]any{"data": map[string]any{
			"id": id, "type": "cover_art",
			"attributes":    map[string]string{"fileName": id + ".jpg"},
			"relationships": relationships,
		}})
	})
	mux.HandleFunc("GET /author/{id}", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, map[string]any{"data": map[string]any{
			"id": request.PathValue("id"), "type": "author",
			"attributes": map[string]string{"name": "Oda Eiichiro"},
		}})
	})
	mux.HandleFunc("GET /chapter", func(writer http.ResponseWriter, request *http.Request) {
		chapterRequests.Add(1)
		query := request.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))
		offset, _ := strconv.Atoi(query.Get("offset"))
		assert.Equal(t, "m1", query.Get("manga"))

		data := []map[string]any{}
		for i := offset; i < offset+limit && i < chapterTotal; i++ {
			number := strconv.Itoa(i + 1)
			data = append(data, map[string]any{
				"id": fmt.Sprintf("ch%d", i), "type": "chapter",
				"attributes": map[string]any{"chapter": number, "title": nil, "translatedLanguage": "en", "pages": 20},
			})
		}
		writeJSON(writer, map[string]any{"data": data, "limit": limit, "offset": offset, "total": chapterTotal})
	})
	mux.HandleFunc("GET /chapter/{id}", func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, map[string]any{"data": map[string]any{
			"id": request.PathValue("id"), "type": "chapter",
			"attributes":    map[string]any{"chapter": "1", "title": "Romance Dawn"},
			"relationships": []map[string]string{{"id": "m1", "type": "manga"}},
		}})
	})
	mux.HandleFunc("GET /at-home/server/{id}", func(writer http.ResponseWriter, request *http.Request) {
		if request.PathValue("id") == "missing" {
			http.Error(writer, `{"result":"error"}`, http.StatusNotFound)
			return
		}
		writeJSON(writer, map[string]any{
			"baseUrl": "https://node.test",
			"chapter": map[string]any{
				"hash":      "abc",
				"data":      []string{"1.png", "2.png", "3.png"},
				"dataSaver": []string{"1.jpg", "2.jpg", "3.jpg"},
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &chapterRequests
}

func writeJSON(writer http.ResponseWriter, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(payload)
}

func newTestClient(server *httptest.Server) *catalog.Client {
	return catalog.NewClient(server.URL,
		catalog.WithHTTPClient(server.Client()),
		catalog.WithUploadsURL("https://uploads.test/"),
		catalog.WithRateLimit(0, 0),
	)
}

/*
TestClient_ListManga decodes titles, tags and relationships.
*/
func TestClient_ListManga(t *testing.T) {
	server, _ := newCatalogServer(t, 0)
	client := newTestClient(server)

	page, err := client.ListManga(context.Background(), catalog.MangaQuery{Title: "one piece"}, 30, 0)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)

	first := page.Items[0]
	assert.Equal(t, "One Piece", first.Title)
	assert.Equal(t, []string{"Action", "Adventure"}, first.Tags)
	assert.Equal(t, "c1", first.CoverID)
	assert.Equal(t, "p1", first.AuthorID)
	assert.Equal(t, "p1", first.ArtistID)

	second := page.Items[1]
	assert.Equal(t, "ワンピース外伝", second.Title, "falls back to the Japanese title")
	assert.Empty(t, second.CoverID)
	assert.NotNil(t, second.Tags)
}

/*
TestClient_CoverURL builds the thumbnail URL from the cover's manga relationship.
*/
func TestClient_CoverURL(t *testing.T) {
	server, _ := newCatalogServer(t, 0)
	client := newTestClient(server)

	cover, err := client.GetCover(context.Background(), "c1")
	require.NoError(t, err)
	url, err := client.CoverURL(cover)
	require.NoError(t, err)
	assert.Equal(t, "https://uploads.test/covers/m1/c1.jpg.256.jpg", url)

	orphan, err := client.GetCover(context.Background(), "orphan")
	require.NoError(t, err)
	_, err = client.CoverURL(orphan)
	assert.ErrorIs(t, err, catalog.ErrNoRelationship)
}

/*
TestClient_StatusError surfaces non-2xx responses as typed errors.
*/
func TestClient_StatusError(t *testing.T) {
	server, _ := newCatalogServer(t, 0)
	client := newTestClient(server)

	_, err := client.AtHomeServer(context.Background(), "missing")
	require.Error(t, err)

	var statusError *catalog.StatusError
	require.True(t, errors.As(err, &statusError))
	assert.Equal(t, http.StatusNotFound, statusError.StatusCode)
	assert.Equal(t, "at_home", statusError.Endpoint)
	assert.True(t, catalog.IsNotFound(err))
}

/*
TestClient_WithTimeout applies the timeout without touching the caller's client.
*/
func TestClient_WithTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		<-request.Context().Done()
	}))
	defer slow.Close()

	shared := slow.Client()
	shared.Timeout = time.Minute

	client := catalog.NewClient(slow.URL,
		catalog.WithHTTPClient(shared),
		catalog.WithTimeout(50*time.Millisecond),
		catalog.WithRateLimit(0, 0),
	)

	_, err := client.GetCover(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, time.Minute, shared.Timeout)
}

/*
TestService_ListChapters_OverHTTP exhausts the chapter feed in three requests.
*/
func TestService_ListChapters_OverHTTP(t *testing.T) {
	server, requests := newCatalogServer(t, 250)
	service := catalog.NewService(newTestClient(server), catalog.ServiceConfig{})

	chapters, err := service.ListChapters(context.Background(), "m1")
	require.NoError(t, err)

	assert.Len(t, chapters, 250)
	assert.Equal(t, int64(3), requests.Load())
	assert.Equal(t, "1", chapters[0].Number)
	assert.Equal(t, "250", chapters[249].Number)
	assert.Equal(t, "Untitled", chapters[0].Title)
	assert.Equal(t, "m1", chapters[0].MangaID)
}

/*
TestService_ChapterPageURLs assembles ordered image URLs.
*/
func TestService_ChapterPageURLs(t *testing.T) {
	server, _ := newCatalogServer(t, 0)
	service := catalog.NewService(newTestClient(server), catalog.ServiceConfig{})

	pages, err := service.ChapterPageURLs(context.Background(), "ch1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://node.test/data/abc/1.png",
		"https://node.test/data/abc/2.png",
		"https://node.test/data/abc/3.png",
	}, pages)

	saver, err := service.ChapterPageURLs(context.Background(), "ch1", true)
	require.NoError(t, err)
	assert.Equal(t, "https://node.test/data-saver/abc/1.jpg", saver[0])

	_, err = service.ChapterPageURLs(context.Background(), "missing", false)
	assert.Error(t, err)
}

/*
TestService_MangaDetails_OverHTTP looks the shared author/artist up once.
*/
func TestService_MangaDetails_OverHTTP(t *testing.T) {
	var authorRequests atomic.Int64
	server, _ := newCatalogServer(t, 0)

	counting := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/manga/m1":
			writeJSON(writer, map[string]any{"data": map[string]any{
				"id": "m1", "type": "manga",
				"attributes": map[string]any{"title": map[string]string{"en": "One Piece"}},
				"relationships": []map[string]string{
					{"id": "c1", "type": "cover_art"},
					{"id": "p1", "type": "author"},
					{"id": "p1", "type": "artist"},
				},
			}})
		case "/author/p1":
			authorRequests.Add(1)
			fallthrough
		default:
			response, err := server.Client().Get(server.URL + request.URL.Path)
			if err != nil {
				http.Error(writer, err.Error(), http.StatusBadGateway)
				return
			}
			defer response.Body.Close()
			var body any
			_ = json.NewDecoder(response.Body).Decode(&body)
			writeJSON(writer, body)
		}
	}))
	t.Cleanup(counting.Close)

	client := catalog.NewClient(counting.URL, catalog.WithUploadsURL("https://uploads.test"), catalog.WithRateLimit(0, 0))
	service := catalog.NewService(client, catalog.ServiceConfig{})

	details, err := service.MangaDetails(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, "One Piece", details.Title)
	assert.Equal(t, "Oda Eiichiro", details.AuthorName)
	assert.Equal(t, "Oda Eiichiro", details.ArtistName)
	assert.Equal(t, "https://uploads.test/covers/m1/c1.jpg.256.jpg", details.CoverURL)
	assert.Equal(t, int64(1), authorRequests.Load())
}
