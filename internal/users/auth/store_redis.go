// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

// RedisBanCache implements [BanCache] with one expiring key per banned user.
//
// The key holds the RFC 3339 end of the ban and expires at that instant, so
// an absent key means "not banned as far as the cache knows".
type RedisBanCache struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewBanCache creates a Redis-backed BanCache.
func NewBanCache(client redis.Cmdable) *RedisBanCache {
	return &RedisBanCache{client: client, now: time.Now}
}

// Set stores the ban with a TTL equal to its remaining duration.
func (cache *RedisBanCache) Set(context context.Context, userID string, until time.Time) error {
	ttl := until.Sub(cache.now())
	if ttl <= 0 {
		return nil
	}

	key := constants.RedisPrefixBan + userID
	if err := cache.client.Set(context, key, until.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("redis_ban_set_failed: %w", err)
	}
	return nil
}

// Get returns the cached ban end, if any.
func (cache *RedisBanCache) Get(context context.Context, userID string) (time.Time, bool, error) {
	raw, err := cache.client.Get(context, constants.RedisPrefixBan+userID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis_ban_get_failed: %w", err)
	}

	until, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis_ban_decode_failed: %w", err)
	}
	return until, until.After(cache.now()), nil
}
