// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list endpoints.
//
// # Overview
//
// Lists are addressed by limit and offset, the same way the remote manga
// catalog pages its collections, so proxy and local lists share one shape.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 30
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
)

// Params holds the parsed limit and offset from a request's query string.
type Params struct {
	Limit  int
	Offset int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(params Params, total int) Meta {
	return Meta{Limit: params.Limit, Offset: params.Offset, Total: total}
}

// HasMore reports whether items remain past this page.
func (m Meta) HasMore() bool {
	return m.Offset+m.Limit < m.Total
}

// FromRequest parses "limit" and "offset" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or excessive limits fall back to [DefaultLimit]; negative offsets become 0.
func FromRequest(r *http.Request) Params {
	limit := parseIntParam(r, "limit", DefaultLimit)
	offset := parseIntParam(r, "offset", 0)

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return n
}
