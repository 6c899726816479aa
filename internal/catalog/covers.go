// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/pkg/slice"
)

// CoverSource fetches cover resources and turns them into image URLs.
type CoverSource interface {
	GetCover(ctx context.Context, coverID string) (Cover, error)
	CoverURL(cover Cover) (string, error)
}

// CoverCache memoises resolved cover URLs by cover id.
type CoverCache interface {
	Get(ctx context.Context, coverID string) (string, bool)
	Set(ctx context.Context, coverID, coverURL string)
}

// # Memory cache

// MemoryCoverCache is a session-scoped cache. Entries are never invalidated.
type MemoryCoverCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCoverCache creates an empty cache.
func NewMemoryCoverCache() *MemoryCoverCache {
	return &MemoryCoverCache{entries: make(map[string]string)}
}

// Get implements [CoverCache].
func (cache *MemoryCoverCache) Get(_ context.Context, coverID string) (string, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	coverURL, ok := cache.entries[coverID]
	return coverURL, ok
}

// Set implements [CoverCache].
func (cache *MemoryCoverCache) Set(_ context.Context, coverID, coverURL string) {
	cache.mu.Lock()
	cache.entries[coverID] = coverURL
	cache.mu.Unlock()
}

// Len returns the number of cached covers.
func (cache *MemoryCoverCache) Len() int {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return len(cache.entries)
}

// # Resolver

// ResolverConfig configures a [CoverResolver]. Zero values select defaults.
type ResolverConfig struct {
	Cache   CoverCache
	FanOut  int
	Metrics Recorder
	Logger  *slog.Logger
}

// CoverResolver resolves cover ids to image URLs.
//
// # Concurrency
//
// Concurrent lookups of the same cover id share one remote request.
type CoverResolver struct {
	source  CoverSource
	cache   CoverCache
	flights singleflight.Group
	fanOut  int
	metrics Recorder
	logger  *slog.Logger
}

// NewCoverResolver creates a resolver backed by source.
func NewCoverResolver(source CoverSource, cfg ResolverConfig) *CoverResolver {
	resolver := &CoverResolver{
		source:  source,
		cache:   cfg.Cache,
		fanOut:  cfg.FanOut,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
	if resolver.cache == nil {
		resolver.cache = NewMemoryCoverCache()
	}
	if resolver.fanOut <= 0 {
		resolver.fanOut = constants.CatalogFanOut
	}
	if resolver.metrics == nil {
		resolver.metrics = nopRecorder{}
	}
	if resolver.logger == nil {
		resolver.logger = slog.Default()
	}
	return resolver
}

/*
Resolve maps every item to its cover URL.

Items without a cover map to the placeholder without a network call. Each
distinct cover id is looked up once, concurrently, and a failed lookup only
degrades the items referencing that cover to the placeholder.

Returns:
  - map[string]string: exactly one entry per input item id
*/
func (resolver *CoverResolver) Resolve(ctx context.Context, items []Manga) map[string]string {
	result := make(map[string]string, len(items))

	coverIDs := slice.UniqueBy(items, func(item Manga) string { return item.CoverID })
	urls := make([]string, len(coverIDs))

	var group errgroup.Group
	group.SetLimit(resolver.fanOut)

	for i, coverID := range coverIDs {
		group.Go(func() error {
			coverURL, err := resolver.ResolveOne(ctx, coverID)
			if err != nil {
				resolver.logger.WarnContext(ctx, "cover_resolution_failed",
					slog.String("cover_id", coverID),
					slog.Any("error", err),
				)
				coverURL = constants.PlaceholderCoverURL
			}
			urls[i] = coverURL
			return nil
		})
	}
	_ = group.Wait()

	resolved := make(map[string]string, len(coverIDs))
	for i, coverID := range coverIDs {
		resolved[coverID] = urls[i]
	}

	for _, item := range items {
		if item.CoverID == "" {
			resolver.metrics.RecordCoverLookup(CoverPlaceholder)
			result[item.ID] = constants.PlaceholderCoverURL
			continue
		}
		result[item.ID] = resolved[item.CoverID]
	}
	return result
}

// ResolveOne resolves a single cover id, consulting the cache first.
//
// Failures are never cached, so a later call retries the lookup.
func (resolver *CoverResolver) ResolveOne(ctx context.Context, coverID string) (string, error) {
	if coverURL, ok := resolver.cache.Get(ctx, coverID); ok {
		resolver.metrics.RecordCoverLookup(CoverHit)
		return coverURL, nil
	}

	value, err, _ := resolver.flights.Do(coverID, func() (any, error) {
		resolver.metrics.RecordCoverLookup(CoverMiss)

		cover, err := resolver.source.GetCover(ctx, coverID)
		if err != nil {
			return "", err
		}
		coverURL, err := resolver.source.CoverURL(cover)
		if err != nil {
			return "", err
		}

		resolver.cache.Set(ctx, coverID, coverURL)
		return coverURL, nil
	})
	if err != nil {
		resolver.metrics.RecordCoverLookup(CoverFailed)
		return "", fmt.Errorf("catalog: resolve cover %s: %w", coverID, err)
	}
	return value.(string), nil
}
