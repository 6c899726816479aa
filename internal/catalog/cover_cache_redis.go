// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

// RedisCoverCache shares resolved cover URLs between backend instances.
//
// Redis failures degrade to cache misses; they never fail a resolution.
type RedisCoverCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCoverCache creates a cache whose entries expire after ttl (0 keeps them forever).
func NewRedisCoverCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *RedisCoverCache {
	return &RedisCoverCache{client: client, ttl: ttl, logger: logger}
}

// Get implements [CoverCache].
func (cache *RedisCoverCache) Get(ctx context.Context, coverID string) (string, bool) {
	coverURL, err := cache.client.Get(ctx, constants.RedisPrefixCover+coverID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(ctx, "cover_cache_read_failed", slog.String("cover_id", coverID), slog.Any("error", err))
		}
		return "", false
	}
	return coverURL, true
}

// Set implements [CoverCache].
func (cache *RedisCoverCache) Set(ctx context.Context, coverID, coverURL string) {
	if err := cache.client.Set(ctx, constants.RedisPrefixCover+coverID, coverURL, cache.ttl).Err(); err != nil {
		cache.logger.WarnContext(ctx, "cover_cache_write_failed", slog.String("cover_id", coverID), slog.Any("error", err))
	}
}
