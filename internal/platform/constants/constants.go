// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Beta Reading: Invitation quotas and token parameters.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lyra-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the expected 'iss' claim in author JWTs.
	AuthIssuer = "lyra.triibes.dev"
)

// # Beta Reading

const (
	// MaxActiveInvitations caps pending+accepted, non-expired invitations per project.
	MaxActiveInvitations = 15

	// CirclePrefix seeds the default circle name for a creation batch.
	CirclePrefix = "Draft Review - "

	// MaxInvitationMessageLen bounds the author's free-text invitation message.
	MaxInvitationMessageLen = 2000

	// MaxMarkerTextLen bounds reader-authored marker text.
	MaxMarkerTextLen = 5000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaCore = "core"
	SchemaBeta = "beta"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixReaderContacts caches the per-author reader contact rollup.
	RedisPrefixReaderContacts = "beta:contacts:"
)

// # Cache TTLs

const (
	// ReaderContactsTTL is how long a cached contact rollup stays valid.
	// The rollup is advisory and eventually consistent, so a short TTL is enough.
	ReaderContactsTTL = 5 * time.Minute
)
