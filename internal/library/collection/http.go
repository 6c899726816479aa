// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-reader/internal/platform/request"
	"github.com/taibuivan/yomira-reader/internal/platform/respond"
)

// Handler implements collection HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the caller's collection. Every route requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.add)
	router.Delete("/{mangaID}", handler.remove)

	return router
}

type addRequest struct {
	MangaID string `json:"manga_id"`
}

// GET /api/v1/collections
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

/*
POST /api/v1/collections

Request:
  - Body: addRequest

Response:
  - 201: Entry: newly saved
  - 200: Entry: already in the collection
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, added, err := handler.service.Add(request.Context(), userID, input.MangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if added {
		respond.Created(writer, entry)
		return
	}
	respond.OK(writer, entry)
}

// DELETE /api/v1/collections/{mangaID}
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Remove(request.Context(), userID, requestutil.Param(request, "mangaID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
