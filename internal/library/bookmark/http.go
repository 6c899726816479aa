// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-reader/internal/platform/request"
	"github.com/taibuivan/yomira-reader/internal/platform/respond"
)

// Handler implements bookmark HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the caller's bookmarks. Every route requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.save)
	router.Delete("/{chapterID}", handler.remove)

	return router
}

type saveRequest struct {
	UserID    string `json:"user_id"`
	MangaID   string `json:"manga_id"`
	ChapterID string `json:"chapter_id"`
	PageIndex int    `json:"page_index"`
}

// GET /api/v1/bookmarks
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarks, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, bookmarks)
}

/*
POST /api/v1/bookmarks

Request:
  - Body: saveRequest

Response:
  - 201: Bookmark: created
  - 200: Bookmark: existing bookmark moved to the new page
  - 403: FORBIDDEN: user_id does not match the token
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input saveRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, created, err := handler.service.Save(request.Context(), userID, SaveInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, bookmark)
		return
	}
	respond.OK(writer, bookmark)
}

// DELETE /api/v1/bookmarks/{chapterID}
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Remove(request.Context(), userID, requestutil.Param(request, "chapterID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
