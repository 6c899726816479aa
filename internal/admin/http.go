// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-reader/internal/platform/request"
	"github.com/taibuivan/yomira-reader/internal/platform/respond"
	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

// Handler implements moderation HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /admin. Every route requires the admin role.
//
// # Endpoints
//   - GET    /comments             : All comments, newest first.
//   - DELETE /comments/{commentID} : Remove any comment.
//   - POST   /ban-user             : Ban a reader for 1..8760 hours.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/comments", handler.listComments)
	router.Delete("/comments/{commentID}", handler.deleteComment)
	router.Post("/ban-user", handler.banUser)

	return router
}

type banRequest struct {
	UserID      string `json:"user_id"`
	BanDuration int    `json:"ban_duration"`
}

// GET /api/v1/admin/comments?limit=&offset=
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(params, total))
}

// DELETE /api/v1/admin/comments/{commentID}
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	moderatorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), moderatorID, requestutil.Param(request, "commentID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/admin/ban-user

Request:
  - Body: banRequest (ban_duration in hours)

Response:
  - 200: Ban
  - 400: VALIDATION_ERROR: duration outside 1..8760
  - 404: NOT_FOUND: unknown user
*/
func (handler *Handler) banUser(writer http.ResponseWriter, request *http.Request) {
	moderatorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input banRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ban, err := handler.service.BanUser(request.Context(), moderatorID, input.UserID, input.BanDuration)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ban)
}
