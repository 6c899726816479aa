// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

// PageFunc fetches one page of a remote collection.
type PageFunc[T any] func(ctx context.Context, limit, offset int) (Page[T], error)

type pageConfig struct {
	size        int
	concurrency int
	recorder    Recorder
}

// PageOption configures [FetchAllPages].
type PageOption func(*pageConfig)

// WithPageSize sets the requested page size. Non-positive values keep the default.
func WithPageSize(size int) PageOption {
	return func(cfg *pageConfig) {
		if size > 0 {
			cfg.size = size
		}
	}
}

// WithPageConcurrency fetches the pages following the first one with up to n
// requests in flight. The first page is always fetched alone to learn the total.
func WithPageConcurrency(n int) PageOption {
	return func(cfg *pageConfig) {
		if n > 1 {
			cfg.concurrency = n
		}
	}
}

// WithPageRecorder reports the number of page requests to recorder.
func WithPageRecorder(recorder Recorder) PageOption {
	return func(cfg *pageConfig) { cfg.recorder = recorder }
}

/*
FetchAllPages exhausts a paged collection.

Pages are requested at offsets 0, len(acc), ... while fewer than total items
have been accumulated and the previous page was non-empty. The result never
holds more than total items.

Returns:
  - []T: every item in collection order
  - error: the first page failure; the accumulated items are discarded and an
    empty, non-nil slice is returned alongside it
*/
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T], options ...PageOption) ([]T, error) {
	cfg := pageConfig{size: constants.CatalogPageSize, concurrency: 1, recorder: nopRecorder{}}
	for _, option := range options {
		option(&cfg)
	}

	var requests atomic.Int64
	defer func() { cfg.recorder.RecordPagesFetched(int(requests.Load())) }()

	first, err := fetch(ctx, cfg.size, 0)
	requests.Add(1)
	if err != nil {
		return []T{}, fmt.Errorf("catalog: fetch page at offset 0: %w", err)
	}

	var accumulated []T
	if cfg.concurrency > 1 {
		accumulated, err = fetchRemainingConcurrently(ctx, fetch, first, cfg, &requests)
	} else {
		accumulated, err = fetchRemainingSequentially(ctx, fetch, first, cfg, &requests)
	}
	if err != nil {
		return []T{}, err
	}
	return accumulated, nil
}

func fetchRemainingSequentially[T any](ctx context.Context, fetch PageFunc[T], first Page[T], cfg pageConfig, requests *atomic.Int64) ([]T, error) {
	accumulated := append(make([]T, 0, len(first.Items)), first.Items...)
	return continueSequentially(ctx, fetch, accumulated, first.Total, len(first.Items), cfg, requests)
}

// continueSequentially requests pages from len(accumulated) until total items
// are held or a page comes back empty.
func continueSequentially[T any](ctx context.Context, fetch PageFunc[T], accumulated []T, total, lastSize int, cfg pageConfig, requests *atomic.Int64) ([]T, error) {
	for len(accumulated) < total && lastSize > 0 {
		offset := len(accumulated)
		page, err := fetch(ctx, cfg.size, offset)
		requests.Add(1)
		if err != nil {
			return nil, fmt.Errorf("catalog: fetch page at offset %d: %w", offset, err)
		}

		accumulated = append(accumulated, page.Items...)
		total = page.Total
		lastSize = len(page.Items)
	}

	return trim(accumulated, total), nil
}

func fetchRemainingConcurrently[T any](ctx context.Context, fetch PageFunc[T], first Page[T], cfg pageConfig, requests *atomic.Int64) ([]T, error) {
	total := first.Total
	step := len(first.Items)
	if step == 0 || step >= total {
		return trim(append([]T{}, first.Items...), total), nil
	}

	offsets := make([]int, 0, total/step)
	for offset := step; offset < total; offset += step {
		offsets = append(offsets, offset)
	}

	pages := make([][]T, len(offsets))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.concurrency)

	for i, offset := range offsets {
		group.Go(func() error {
			page, err := fetch(groupCtx, step, offset)
			requests.Add(1)
			if err != nil {
				return fmt.Errorf("catalog: fetch page at offset %d: %w", offset, err)
			}
			pages[i] = page.Items
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	accumulated := append(make([]T, 0, step*(len(offsets)+1)), first.Items...)
	for _, items := range pages {
		// An empty page ends the collection at that offset.
		if len(items) == 0 {
			break
		}
		accumulated = append(accumulated, items...)

		// A short page shifts every later offset; the pages already fetched
		// past it no longer line up, so resume one page at a time.
		if len(items) < step {
			return continueSequentially(ctx, fetch, accumulated, total, len(items), cfg, requests)
		}
	}
	return trim(accumulated, total), nil
}

func trim[T any](items []T, total int) []T {
	if total < 0 {
		total = 0
	}
	if len(items) > total {
		return items[:total]
	}
	return items
}
