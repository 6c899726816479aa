// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

// # Client

// Client is a typed client of the remote manga catalog.
//
// # Concurrency
//
// Client is safe for concurrent use; all outbound calls share one rate limiter.
type Client struct {
	baseURL    string
	uploadsURL string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    Recorder
	logger     *slog.Logger
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		// Copy so a shared client, such as http.DefaultClient, keeps its own timeout.
		httpClient := *c.httpClient
		httpClient.Timeout = timeout
		c.httpClient = &httpClient
	}
}

// WithRateLimit sets the outbound request budget. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUploadsURL sets the host serving cover images.
func WithUploadsURL(uploadsURL string) ClientOption {
	return func(c *Client) { c.uploadsURL = strings.TrimRight(uploadsURL, "/") }
}

// WithMetrics attaches an instrumentation recorder.
func WithMetrics(recorder Recorder) ClientOption {
	return func(c *Client) { c.metrics = recorder }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		uploadsURL: "https://uploads.mangadex.org",
		httpClient: &http.Client{Timeout: constants.CatalogTimeout},
		limiter:    rate.NewLimiter(rate.Limit(constants.CatalogRPS), constants.CatalogBurst),
		metrics:    nopRecorder{},
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// # Manga

// MangaQuery narrows a manga listing.
type MangaQuery struct {
	Title string
}

// ListManga returns one page of the manga collection.
func (client *Client) ListManga(ctx context.Context, query MangaQuery, limit, offset int) (Page[Manga], error) {
	values := pageValues(limit, offset)
	if query.Title != "" {
		values.Set("title", query.Title)
	}

	var envelope listEnvelope
	if err := client.getJSON(ctx, "manga_list", "/manga", values, &envelope); err != nil {
		return Page[Manga]{}, err
	}
	return decodePage(envelope, decodeManga)
}

// GetManga returns a single manga by id.
func (client *Client) GetManga(ctx context.Context, mangaID string) (Manga, error) {
	var envelope entityEnvelope
	if err := client.getJSON(ctx, "manga_get", "/manga/"+url.PathEscape(mangaID), nil, &envelope); err != nil {
		return Manga{}, err
	}

	manga, err := decodeManga(envelope.Data)
	if err != nil {
		return Manga{}, fmt.Errorf("catalog: decode manga %s: %w", mangaID, err)
	}
	return manga, nil
}

// # Covers and people

// GetCover returns the cover_art resource.
func (client *Client) GetCover(ctx context.Context, coverID string) (Cover, error) {
	var envelope entityEnvelope
	if err := client.getJSON(ctx, "cover_get", "/cover/"+url.PathEscape(coverID), nil, &envelope); err != nil {
		return Cover{}, err
	}

	cover, err := decodeCover(envelope.Data)
	if err != nil {
		return Cover{}, fmt.Errorf("catalog: decode cover %s: %w", coverID, err)
	}
	return cover, nil
}

// CoverURL builds the thumbnail URL of a cover.
func (client *Client) CoverURL(cover Cover) (string, error) {
	if cover.MangaID == "" {
		return "", fmt.Errorf("catalog: cover %s has no manga: %w", cover.ID, ErrNoRelationship)
	}
	if cover.FileName == "" {
		return "", fmt.Errorf("catalog: cover %s has no file name", cover.ID)
	}
	return fmt.Sprintf("%s/covers/%s/%s.256.jpg", client.uploadsURL, cover.MangaID, cover.FileName), nil
}

// GetAuthor returns an author or artist. Both kinds live under /author.
func (client *Client) GetAuthor(ctx context.Context, personID string) (Person, error) {
	var envelope entityEnvelope
	if err := client.getJSON(ctx, "author_get", "/author/"+url.PathEscape(personID), nil, &envelope); err != nil {
		return Person{}, err
	}

	person, err := decodePerson(envelope.Data)
	if err != nil {
		return Person{}, fmt.Errorf("catalog: decode author %s: %w", personID, err)
	}
	return person, nil
}

// # Chapters

// ListChapters returns one page of a manga's chapters.
func (client *Client) ListChapters(ctx context.Context, mangaID string, limit, offset int) (Page[Chapter], error) {
	values := pageValues(limit, offset)
	values.Set("manga", mangaID)

	var envelope listEnvelope
	if err := client.getJSON(ctx, "chapter_list", "/chapter", values, &envelope); err != nil {
		return Page[Chapter]{}, err
	}

	page, err := decodePage(envelope, decodeChapter)
	if err != nil {
		return Page[Chapter]{}, err
	}
	for i := range page.Items {
		if page.Items[i].MangaID == "" {
			page.Items[i].MangaID = mangaID
		}
	}
	return page, nil
}

// GetChapter returns a single chapter by id.
func (client *Client) GetChapter(ctx context.Context, chapterID string) (Chapter, error) {
	var envelope entityEnvelope
	if err := client.getJSON(ctx, "chapter_get", "/chapter/"+url.PathEscape(chapterID), nil, &envelope); err != nil {
		return Chapter{}, err
	}

	chapter, err := decodeChapter(envelope.Data)
	if err != nil {
		return Chapter{}, fmt.Errorf("catalog: decode chapter %s: %w", chapterID, err)
	}
	return chapter, nil
}

// AtHomeServer returns the image delivery descriptor of a chapter.
func (client *Client) AtHomeServer(ctx context.Context, chapterID string) (AtHome, error) {
	var envelope atHomeEnvelope
	if err := client.getJSON(ctx, "at_home", "/at-home/server/"+url.PathEscape(chapterID), nil, &envelope); err != nil {
		return AtHome{}, err
	}

	return AtHome{
		BaseURL:   strings.TrimRight(envelope.BaseURL, "/"),
		Hash:      envelope.Chapter.Hash,
		Data:      envelope.Chapter.Data,
		DataSaver: envelope.Chapter.DataSaver,
	}, nil
}

// # Transport

func (client *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, target any) error {
	if err := client.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog: %s: %w", endpoint, err)
	}

	requestURL := client.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("catalog: build %s request: %w", endpoint, err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)

	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		client.metrics.RecordRequest(endpoint, 0, time.Since(startTime))
		return fmt.Errorf("catalog: %s: %w", endpoint, err)
	}
	defer response.Body.Close()

	client.metrics.RecordRequest(endpoint, response.StatusCode, time.Since(startTime))

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4<<10))
		client.logger.WarnContext(ctx, "catalog_request_rejected",
			slog.String("endpoint", endpoint),
			slog.Int("status", response.StatusCode),
		)
		return &StatusError{Endpoint: endpoint, StatusCode: response.StatusCode}
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", endpoint, err)
	}
	return nil
}

func pageValues(limit, offset int) url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	return values
}

func decodePage[T any](envelope listEnvelope, decode func(resource) (T, error)) (Page[T], error) {
	page := Page[T]{
		Items:  make([]T, 0, len(envelope.Data)),
		Limit:  envelope.Limit,
		Offset: envelope.Offset,
		Total:  envelope.Total,
	}
	for _, res := range envelope.Data {
		item, err := decode(res)
		if err != nil {
			return Page[T]{}, fmt.Errorf("catalog: decode %s %s: %w", res.Type, res.ID, err)
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}
