// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/yomira-reader/internal/platform/request"
	"github.com/taibuivan/yomira-reader/internal/platform/respond"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes the catalog [Service] to the mobile app.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, read-only catalog proxy routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/genres", handler.listGenres)
	router.Get("/manga", handler.searchManga)
	router.Get("/manga/{mangaID}", handler.getManga)
	router.Get("/manga/{mangaID}/chapters", handler.listChapters)
	router.Get("/chapters/{chapterID}/pages", handler.chapterPages)

	return router
}

/*
GET /api/v1/catalog/genres.

Response:
  - 200: []string: The genre palette of the search screen
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Genres)
}

/*
GET /api/v1/catalog/manga.

Description: Title search, or a random browse window when no title is given.
Items are filtered locally by genre and returned with resolved covers.

Request:
  - title: string
  - genre: []string (repeatable or comma separated, English tag names)

Response:
  - 200: []Listing
  - 502: The catalog is unavailable
*/
func (handler *Handler) searchManga(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()

	query := SearchQuery{
		Title:  strings.TrimSpace(queryParams.Get("title")),
		Genres: splitGenres(queryParams["genre"]),
	}

	v := &validate.Validator{}
	v.MaxLen("title", query.Title, 200)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listings, err := handler.service.Search(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, apperr.Upstream(err))
		return
	}

	respond.OK(writer, listings)
}

/*
GET /api/v1/catalog/manga/{mangaID}.

Response:
  - 200: Details: Manga with author, artist and cover
  - 404: Unknown manga
*/
func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.Param(request, "mangaID")

	details, err := handler.service.MangaDetails(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, upstreamError(err, "Manga"))
		return
	}

	respond.OK(writer, details)
}

/*
GET /api/v1/catalog/manga/{mangaID}/chapters.

Description: Every chapter of the manga. The listing is a read path: a
catalog failure is logged and answered with an empty list.

Response:
  - 200: []Chapter
*/
func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	mangaID := requestutil.Param(request, "mangaID")

	chapters, err := handler.service.ListChapters(ctx, mangaID)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "chapter_list_degraded",
			slog.String("manga_id", mangaID),
			slog.Any("error", err),
		)
		chapters = []Chapter{}
	}

	respond.OK(writer, chapters)
}

/*
GET /api/v1/catalog/chapters/{chapterID}/pages.

Request:
  - data_saver: bool (compressed images)

Response:
  - 200: []string: Ordered page image URLs
  - 404: Unknown chapter
  - 502: The image server could not be resolved
*/
func (handler *Handler) chapterPages(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.Param(request, "chapterID")
	dataSaver, _ := strconv.ParseBool(request.URL.Query().Get("data_saver"))

	pages, err := handler.service.ChapterPageURLs(request.Context(), chapterID, dataSaver)
	if err != nil {
		respond.Error(writer, request, upstreamError(err, "Chapter"))
		return
	}

	respond.OK(writer, pages)
}

func splitGenres(raw []string) []string {
	var genres []string
	for _, value := range raw {
		for _, genre := range strings.Split(value, ",") {
			if genre = strings.TrimSpace(genre); genre != "" {
				genres = append(genres, genre)
			}
		}
	}
	return genres
}

func upstreamError(err error, resource string) error {
	if IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return apperr.Upstream(err)
}
