// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
)

func signedIn(request *http.Request, userID string) *http.Request {
	claims := &sec.AuthClaims{UserID: userID, Username: "reader", Role: "member"}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

/*
TestHandler_Routes exercises listing, posting and deleting over HTTP.
*/
func TestHandler_Routes(t *testing.T) {
	service := newService(&memoryRepository{}, nil)
	routes := comment.NewHandler(service, comment.NewHub(nil), nil).Routes()

	serve := func(request *http.Request) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		routes.ServeHTTP(recorder, request)
		return recorder
	}

	body := `{"user_id":"u1","manga_id":"` + mangaID + `","chapter_id":"` + chapterID + `","page_index":1,"comment_text":"<b>hi</b>"}`

	anonymous := serve(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	created := serve(signedIn(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "u1"))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	assert.Contains(t, created.Body.String(), `"comment_text":"hi"`)

	listed := serve(httptest.NewRequest(http.MethodGet, "/?manga_id="+mangaID+"&chapter_id="+chapterID+"&page_index=1", nil))
	require.Equal(t, http.StatusOK, listed.Code)
	assert.Contains(t, listed.Body.String(), `"username":"reader"`)

	missing := serve(httptest.NewRequest(http.MethodGet, "/?manga_id="+mangaID, nil))
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	mismatch := serve(signedIn(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "u2"))
	assert.Equal(t, http.StatusForbidden, mismatch.Code)
}

/*
TestHandler_Live pushes created and deleted events to a connected reader.
*/
func TestHandler_Live(t *testing.T) {
	hub := comment.NewHub(nil)
	service := newService(&memoryRepository{}, hub)
	handler := comment.NewHandler(service, hub, nil)

	router := chi.NewRouter()
	router.Get("/chapters/{chapterID}/comments/live", handler.Live)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chapters/" + chapterID + "/comments/live"
	conn, response, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer response.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(chapterID) == 1 }, time.Second, 10*time.Millisecond)

	created, err := service.Post(context.Background(), reader, validInput("live!"))
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event comment.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, comment.EventCreated, event.Type)
	require.NotNil(t, event.Comment)
	assert.Equal(t, "live!", event.Comment.Body)

	require.NoError(t, service.Delete(context.Background(), reader.UserID, created.ID))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, comment.EventDeleted, event.Type)
	assert.Equal(t, created.ID, event.CommentID)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers(chapterID) == 0 }, time.Second, 10*time.Millisecond)
}

/*
TestHandler_LiveRejectsBadChapter refuses to upgrade for malformed ids.
*/
func TestHandler_LiveRejectsBadChapter(t *testing.T) {
	handler := comment.NewHandler(newService(&memoryRepository{}, nil), comment.NewHub(nil), nil)
	router := chi.NewRouter()
	router.Get("/chapters/{chapterID}/comments/live", handler.Live)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/chapters/nope/comments/live", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
