// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
)

// LiveURL returns the WebSocket feed of a chapter's comments.
func (backend *Backend) LiveURL(chapterID string) string {
	liveURL := backend.baseURL + "/chapters/" + url.PathEscape(chapterID) + "/comments/live"
	switch {
	case strings.HasPrefix(liveURL, "https://"):
		return "wss://" + strings.TrimPrefix(liveURL, "https://")
	case strings.HasPrefix(liveURL, "http://"):
		return "ws://" + strings.TrimPrefix(liveURL, "http://")
	}
	return liveURL
}

/*
Follow subscribes the thread to the live feed at liveURL.

It returns once the connection is established. Events are applied in the
background until the thread's scope closes or the connection drops.
*/
func (thread *CommentThread) Follow(liveURL string, header http.Header) error {
	ctx := thread.scope.Context()
	if thread.scope.Closed() {
		return ErrClosed
	}

	conn, response, err := websocket.DefaultDialer.DialContext(ctx, liveURL, header)
	if response != nil && response.Body != nil {
		response.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("reader: follow %s: %w", thread.filter.ChapterID, err)
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })

	go func() {
		defer stop()
		defer conn.Close()

		for {
			var event comment.Event
			if err := conn.ReadJSON(&event); err != nil {
				if ctx.Err() == nil {
					thread.logger.WarnContext(ctx, "comment_feed_dropped",
						slog.String("chapter_id", thread.filter.ChapterID),
						slog.Any("error", err),
					)
				}
				return
			}
			thread.Apply(event)
		}
	}()
	return nil
}

// LiveHeader carries the bearer token of token for the feed handshake.
func LiveHeader(token string) http.Header {
	header := http.Header{}
	if token != "" {
		header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	return header
}
