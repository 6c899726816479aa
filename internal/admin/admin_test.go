// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/admin"
	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

type stubComments struct {
	comments  []comment.Comment
	moderated []string
}

func (stub *stubComments) ListRecent(_ context.Context, params pagination.Params) ([]comment.Comment, int, error) {
	return stub.comments, len(stub.comments), nil
}

func (stub *stubComments) Moderate(_ context.Context, commentID string) error {
	for _, c := range stub.comments {
		if c.ID == commentID {
			stub.moderated = append(stub.moderated, commentID)
			return nil
		}
	}
	return apperr.NotFound("Comment")
}

type stubBanner struct {
	durations map[string]time.Duration
}

func (stub *stubBanner) Ban(_ context.Context, userID string, duration time.Duration) (time.Time, error) {
	if userID == "ghost" {
		return time.Time{}, apperr.NotFound("Account")
	}
	stub.durations[userID] = duration
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(duration), nil
}

func newRoutes() (http.Handler, *stubComments, *stubBanner) {
	comments := &stubComments{comments: []comment.Comment{
		{ID: "c2", Username: "reader", MangaID: "m1", Body: "newest"},
		{ID: "c1", Username: "other", MangaID: "m2", Body: "oldest"},
	}}
	banner := &stubBanner{durations: map[string]time.Duration{}}
	return admin.NewHandler(admin.NewService(comments, banner, nil)).Routes(), comments, banner
}

func as(request *http.Request, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{UserID: "mod", Username: "admin", Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

/*
TestHandler_RequiresAdmin rejects anonymous callers and members.
*/
func TestHandler_RequiresAdmin(t *testing.T) {
	routes, _, _ := newRoutes()

	anonymous := httptest.NewRecorder()
	routes.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/comments", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	member := httptest.NewRecorder()
	routes.ServeHTTP(member, as(httptest.NewRequest(http.MethodGet, "/comments", nil), sec.RoleMember))
	assert.Equal(t, http.StatusForbidden, member.Code)
}

/*
TestHandler_Comments lists with pagination metadata and deletes any comment.
*/
func TestHandler_Comments(t *testing.T) {
	routes, comments, _ := newRoutes()

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/comments?limit=10", nil), sec.RoleAdmin))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []comment.Comment `json:"data"`
		Meta pagination.Meta   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "c2", envelope.Data[0].ID)
	assert.Equal(t, 2, envelope.Meta.Total)
	assert.Equal(t, 10, envelope.Meta.Limit)

	deleted := httptest.NewRecorder()
	routes.ServeHTTP(deleted, as(httptest.NewRequest(http.MethodDelete, "/comments/c1", nil), sec.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, deleted.Code)
	assert.Equal(t, []string{"c1"}, comments.moderated)

	missing := httptest.NewRecorder()
	routes.ServeHTTP(missing, as(httptest.NewRequest(http.MethodDelete, "/comments/nope", nil), sec.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

/*
TestHandler_BanUser validates the duration in hours.
*/
func TestHandler_BanUser(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"one_hour", `{"user_id":"u1","ban_duration":1}`, http.StatusOK},
		{"one_year", `{"user_id":"u1","ban_duration":8760}`, http.StatusOK},
		{"zero", `{"user_id":"u1","ban_duration":0}`, http.StatusBadRequest},
		{"too_long", `{"user_id":"u1","ban_duration":8761}`, http.StatusBadRequest},
		{"missing_user", `{"ban_duration":5}`, http.StatusBadRequest},
		{"self", `{"user_id":"mod","ban_duration":5}`, http.StatusBadRequest},
		{"unknown_user", `{"user_id":"ghost","ban_duration":5}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, _, banner := newRoutes()
			recorder := httptest.NewRecorder()
			routes.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodPost, "/ban-user", strings.NewReader(tt.body)), sec.RoleAdmin))
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())

			if tt.status == http.StatusOK {
				assert.NotZero(t, banner.durations["u1"])
			}
		})
	}
}
