// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Inbound per-IP buckets and the outbound catalog budget.
  - Catalog: Page sizes, placeholders and lookup limits of the manga catalog.
  - Security: JWT issuer and token lifetime.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "yomira-reader-api"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Catalog proxy routes aggregate several upstream pages, hence the headroom.
	DefaultWriteTimeout = 45 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 40 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Catalog

const (
	// CatalogPageSize is the default page size used when exhausting a collection.
	CatalogPageSize = 100

	// CatalogSearchLimit is the number of items requested by a title search.
	CatalogSearchLimit = 30

	// CatalogBrowseLimit is the number of items requested by the random browse feed.
	CatalogBrowseLimit = 60

	// CatalogGenreBrowseLimit is the browse window filtered locally by genre.
	CatalogGenreBrowseLimit = 100

	// CatalogBrowseMaxOffset bounds the random offset of the browse feed.
	CatalogBrowseMaxOffset = 1000

	// CatalogFanOut bounds concurrent secondary lookups (covers, people).
	CatalogFanOut = 8

	// CatalogRPS and CatalogBurst are the outbound budget towards the catalog.
	CatalogRPS   = 5.0
	CatalogBurst = 5

	// CatalogTimeout bounds a single catalog request.
	CatalogTimeout = 15 * time.Second

	// CoverCacheTTL bounds how long a resolved cover URL is shared through Redis.
	CoverCacheTTL = 24 * time.Hour

	// PlaceholderCoverURL is shown whenever a cover cannot be resolved.
	PlaceholderCoverURL = "https://via.placeholder.com/100x150/FFFFFF/000000"

	// UntitledPlaceholder replaces missing manga and chapter titles.
	UntitledPlaceholder = "Untitled"

	// UnknownPerson replaces unresolved author and artist names.
	UnknownPerson = "Unknown"
)

// # Backend Client

const (
	// BackendTimeout is the default per-request deadline of the backend client.
	BackendTimeout = 10 * time.Second
)

// # Social

const (
	// CommentMaxLength is the maximum number of runes accepted in a comment body.
	CommentMaxLength = 2000

	// BanMaxHours bounds the ban duration accepted by the moderation API (one year).
	BanMaxHours = 8760
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "reader.yomira.app"

	// AccessTokenTTL is the lifetime of an access token issued at sign-in.
	AccessTokenTTL = 7 * 24 * time.Hour

	// DefaultEmailDomain is the suffix a registering email must carry.
	DefaultEmailDomain = "@gmail.com"

	// PasswordMinLength is the client-side minimum password length.
	PasswordMinLength = 8
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError = "error"
	FieldCode  = "code"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixCover = "catalog:cover:"
	RedisPrefixBan   = "auth:ban:"
)
