// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/taibuivan/yomira-reader/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-reader/internal/platform/request"
	"github.com/taibuivan/yomira-reader/internal/platform/respond"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
)

// Handler implements comment HTTP endpoints and the live feed.
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler constructs a new [Handler].
//
// checkOrigin vets the Origin of WebSocket upgrades; nil keeps the gorilla
// default (same host, or no Origin header as sent by native clients).
func NewHandler(service *Service, hub *Hub, checkOrigin func(*http.Request) bool) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Routes returns a [chi.Router] for /comments.
//
// # Endpoints
//   - GET    /             : Comments of one chapter page (public).
//   - POST   /             : Post a comment.
//   - DELETE /{commentID}  : Delete the caller's own comment.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.post)
		r.Delete("/{commentID}", handler.delete)
	})

	return router
}

type postRequest struct {
	UserID      string `json:"user_id"`
	MangaID     string `json:"manga_id"`
	ChapterID   string `json:"chapter_id"`
	PageIndex   int    `json:"page_index"`
	CommentText string `json:"comment_text"`
}

/*
GET /api/v1/comments?manga_id=&chapter_id=&page_index=

Response:
  - 200: []Comment: oldest first
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	validator := &validate.Validator{}
	validator.Required(FieldMangaID, query.Get(FieldMangaID)).
		Required(FieldChapterID, query.Get(FieldChapterID)).
		Required(FieldPageIndex, query.Get(FieldPageIndex))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pageIndex, err := requestutil.IntQuery(request, FieldPageIndex, 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.ListPage(request.Context(), PageFilter{
		MangaID:   query.Get(FieldMangaID),
		ChapterID: query.Get(FieldChapterID),
		PageIndex: pageIndex,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

/*
POST /api/v1/comments

Request:
  - Body: postRequest

Response:
  - 201: Comment: stored, with the server-assigned id
  - 403: FORBIDDEN (user_id mismatch) or BANNED
*/
func (handler *Handler) post(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Post(request.Context(),
		Author{UserID: claims.UserID, Username: claims.Username},
		PostInput{
			UserID:    input.UserID,
			MangaID:   input.MangaID,
			ChapterID: input.ChapterID,
			PageIndex: input.PageIndex,
			Body:      input.CommentText,
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

// DELETE /api/v1/comments/{commentID}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, requestutil.Param(request, "commentID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
Live serves GET /api/v1/chapters/{chapterID}/comments/live.

Description: Upgrades to a WebSocket and streams [Event] values for the
chapter until the reader disconnects. Must not be mounted behind a request
timeout.
*/
func (handler *Handler) Live(writer http.ResponseWriter, request *http.Request) {
	chapterID := strings.ToLower(requestutil.Param(request, "chapterID"))

	validator := &validate.Validator{}
	if err := validator.UUID(FieldChapterID, chapterID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	conn, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		ctxutil.GetLogger(request.Context()).Debug("comment_live_upgrade_failed", "error", err)
		return
	}

	handler.hub.serve(chapterID, conn)
}
