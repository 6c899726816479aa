// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yomira-reader/internal/admin"
	"github.com/taibuivan/yomira-reader/internal/library/bookmark"
	"github.com/taibuivan/yomira-reader/internal/library/collection"
	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
	"github.com/taibuivan/yomira-reader/pkg/pagination"
)

// # Errors

// APIError is a non-2xx answer of the backend, decoded from its error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []apperr.FieldError
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("reader: backend returned status %d", e.Status)
	}
	return fmt.Sprintf("reader: backend returned %d %s: %s", e.Status, e.Code, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport failures.
func StatusOf(err error) int {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError.Status
	}
	return 0
}

// # Client

// Backend is a typed client of the reader REST API.
//
// # Concurrency
//
// Backend is safe for concurrent use. The bearer token is read from the token
// source on every request, so signing in or out takes effect immediately.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
	logger     *slog.Logger
}

// BackendOption configures a [Backend].
type BackendOption func(*Backend)

// WithBackendHTTPClient replaces the underlying HTTP client.
func WithBackendHTTPClient(httpClient *http.Client) BackendOption {
	return func(b *Backend) { b.httpClient = httpClient }
}

// WithBackendTimeout sets the per-request timeout.
func WithBackendTimeout(timeout time.Duration) BackendOption {
	return func(b *Backend) {
		// Copy so a shared client, such as http.DefaultClient, keeps its own timeout.
		httpClient := *b.httpClient
		httpClient.Timeout = timeout
		b.httpClient = &httpClient
	}
}

// WithTokenSource sets the function returning the current access token.
func WithTokenSource(token func() string) BackendOption {
	return func(b *Backend) { b.token = token }
}

// WithBackendLogger sets the client logger.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) { b.logger = logger }
}

// NewBackend creates a client of the API rooted at baseURL (e.g. "https://host/api/v1").
func NewBackend(baseURL string, options ...BackendOption) *Backend {
	backend := &Backend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: constants.BackendTimeout},
		token:      func() string { return "" },
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(backend)
	}
	return backend
}

// # Authentication

// Register creates an account. passwordDigest is the SHA-256 hex of the password.
func (backend *Backend) Register(ctx context.Context, username, email, passwordDigest string) (auth.AuthSession, error) {
	var session auth.AuthSession
	err := backend.do(ctx, call{
		endpoint: "auth_register",
		method:   http.MethodPost,
		path:     "/auth/register",
		body: map[string]string{
			"username":      username,
			"email":         email,
			"password_hash": passwordDigest,
		},
		target: &session,
	})
	return session, err
}

// SignIn exchanges credentials for an access token.
func (backend *Backend) SignIn(ctx context.Context, email, passwordDigest string) (auth.AuthSession, error) {
	var session auth.AuthSession
	err := backend.do(ctx, call{
		endpoint: "auth_signin",
		method:   http.MethodPost,
		path:     "/auth/signin",
		body:     map[string]string{"email": email, "password_hash": passwordDigest},
		target:   &session,
	})
	return session, err
}

// Me returns the profile behind the current token.
func (backend *Backend) Me(ctx context.Context) (auth.User, error) {
	var user auth.User
	err := backend.do(ctx, call{endpoint: "auth_me", method: http.MethodGet, path: "/auth/me", target: &user})
	return user, err
}

// # Comments

// CommentDraft is the payload of a new comment.
type CommentDraft struct {
	UserID    string `json:"user_id"`
	MangaID   string `json:"manga_id"`
	ChapterID string `json:"chapter_id"`
	PageIndex int    `json:"page_index"`
	Body      string `json:"comment_text"`
}

// Comments lists the comments of one page, oldest first.
func (backend *Backend) Comments(ctx context.Context, filter comment.PageFilter) ([]comment.Comment, error) {
	query := url.Values{}
	query.Set("manga_id", filter.MangaID)
	query.Set("chapter_id", filter.ChapterID)
	query.Set("page_index", strconv.Itoa(filter.PageIndex))

	var comments []comment.Comment
	err := backend.do(ctx, call{
		endpoint: "comment_list",
		method:   http.MethodGet,
		path:     "/comments",
		query:    query,
		target:   &comments,
	})
	return comments, err
}

// PostComment publishes a comment and returns the stored record.
func (backend *Backend) PostComment(ctx context.Context, draft CommentDraft) (comment.Comment, error) {
	var posted comment.Comment
	err := backend.do(ctx, call{
		endpoint: "comment_post",
		method:   http.MethodPost,
		path:     "/comments",
		body:     draft,
		target:   &posted,
	})
	return posted, err
}

// DeleteComment removes one of the caller's comments.
func (backend *Backend) DeleteComment(ctx context.Context, commentID string) error {
	return backend.do(ctx, call{
		endpoint: "comment_delete",
		method:   http.MethodDelete,
		path:     "/comments/" + url.PathEscape(commentID),
	})
}

// # Bookmarks

// BookmarkDraft is the payload of a saved reading position.
type BookmarkDraft struct {
	UserID    string `json:"user_id"`
	MangaID   string `json:"manga_id"`
	ChapterID string `json:"chapter_id"`
	PageIndex int    `json:"page_index"`
}

// Bookmarks lists the caller's bookmarks, most recently updated first.
func (backend *Backend) Bookmarks(ctx context.Context) ([]bookmark.Bookmark, error) {
	var bookmarks []bookmark.Bookmark
	err := backend.do(ctx, call{endpoint: "bookmark_list", method: http.MethodGet, path: "/bookmarks", target: &bookmarks})
	return bookmarks, err
}

// SaveBookmark creates or moves the bookmark of a chapter.
func (backend *Backend) SaveBookmark(ctx context.Context, draft BookmarkDraft) (bookmark.Bookmark, error) {
	var saved bookmark.Bookmark
	err := backend.do(ctx, call{
		endpoint: "bookmark_save",
		method:   http.MethodPost,
		path:     "/bookmarks",
		body:     draft,
		target:   &saved,
	})
	return saved, err
}

// DeleteBookmark removes the bookmark of a chapter.
func (backend *Backend) DeleteBookmark(ctx context.Context, chapterID string) error {
	return backend.do(ctx, call{
		endpoint: "bookmark_delete",
		method:   http.MethodDelete,
		path:     "/bookmarks/" + url.PathEscape(chapterID),
	})
}

// # Collection

// Collection lists the caller's saved manga.
func (backend *Backend) Collection(ctx context.Context) ([]collection.Entry, error) {
	var entries []collection.Entry
	err := backend.do(ctx, call{endpoint: "collection_list", method: http.MethodGet, path: "/collections", target: &entries})
	return entries, err
}

// AddToCollection saves a manga. Adding a manga twice is not an error.
func (backend *Backend) AddToCollection(ctx context.Context, mangaID string) (collection.Entry, error) {
	var entry collection.Entry
	err := backend.do(ctx, call{
		endpoint: "collection_add",
		method:   http.MethodPost,
		path:     "/collections",
		body:     map[string]string{"manga_id": mangaID},
		target:   &entry,
	})
	return entry, err
}

// RemoveFromCollection drops a manga from the caller's collection.
func (backend *Backend) RemoveFromCollection(ctx context.Context, mangaID string) error {
	return backend.do(ctx, call{
		endpoint: "collection_remove",
		method:   http.MethodDelete,
		path:     "/collections/" + url.PathEscape(mangaID),
	})
}

// # Moderation

// RecentComments lists comments newest first. Admin only.
func (backend *Backend) RecentComments(ctx context.Context, params pagination.Params) ([]comment.Comment, pagination.Meta, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("offset", strconv.Itoa(params.Offset))

	var (
		comments []comment.Comment
		meta     pagination.Meta
	)
	err := backend.do(ctx, call{
		endpoint: "admin_comments",
		method:   http.MethodGet,
		path:     "/admin/comments",
		query:    query,
		target:   &comments,
		meta:     &meta,
	})
	return comments, meta, err
}

// ModerateComment removes any comment. Admin only.
func (backend *Backend) ModerateComment(ctx context.Context, commentID string) error {
	return backend.do(ctx, call{
		endpoint: "admin_comment_delete",
		method:   http.MethodDelete,
		path:     "/admin/comments/" + url.PathEscape(commentID),
	})
}

// BanUser suspends a user for the given number of hours. Admin only.
func (backend *Backend) BanUser(ctx context.Context, userID string, hours int) (admin.Ban, error) {
	var ban admin.Ban
	err := backend.do(ctx, call{
		endpoint: "admin_ban_user",
		method:   http.MethodPost,
		path:     "/admin/ban-user",
		body:     map[string]any{"user_id": userID, "ban_duration": hours},
		target:   &ban,
	})
	return ban, err
}

// # Transport

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	target   any
	meta     *pagination.Meta
}

type dataEnvelope struct {
	Data json.RawMessage  `json:"data"`
	Meta *pagination.Meta `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

func (backend *Backend) do(ctx context.Context, c call) error {
	requestURL := backend.baseURL + c.path
	if len(c.query) > 0 {
		requestURL += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("reader: encode %s: %w", c.endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, c.method, requestURL, body)
	if err != nil {
		return fmt.Errorf("reader: build %s request: %w", c.endpoint, err)
	}
	request.Header.Set("Accept", "application/json")
	if c.body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := backend.token(); token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	response, err := backend.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("reader: %s: %w", c.endpoint, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiError := &APIError{Status: response.StatusCode}
		var envelope errorEnvelope
		if json.NewDecoder(io.LimitReader(response.Body, 64<<10)).Decode(&envelope) == nil {
			apiError.Code = envelope.Code
			apiError.Message = envelope.Error
			apiError.Details = envelope.Details
		}
		backend.logger.WarnContext(ctx, "backend_request_rejected",
			slog.String("endpoint", c.endpoint),
			slog.Int("status", response.StatusCode),
			slog.String("code", apiError.Code),
		)
		return apiError
	}

	if c.target == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4<<10))
		return nil
	}

	var envelope dataEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("reader: decode %s: %w", c.endpoint, err)
	}
	if err := json.Unmarshal(envelope.Data, c.target); err != nil {
		return fmt.Errorf("reader: decode %s data: %w", c.endpoint, err)
	}
	if c.meta != nil && envelope.Meta != nil {
		*c.meta = *envelope.Meta
	}
	return nil
}
