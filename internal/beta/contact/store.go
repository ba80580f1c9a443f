// Copyright (c) 2026 Triibes. All rights reserved.

package contact

import (
	"context"
	"time"
)

// # Contact Data Access

// Repository computes the contact rollup from the authoritative tables.
type Repository interface {
	/*
		AggregateByAuthor recomputes the rollup for one author: one row per
		reader email, with invitation and marker counts, distinct project
		titles, and the most recent activity instant.

		Returns:
		  - []*Contact: Contacts ordered by most recent activity
		  - error: Storage failures
	*/
	AggregateByAuthor(context context.Context, authorID string) ([]*Contact, error)
}

// Cache is the short-lived store the rollup is served from.
type Cache interface {
	/*
		Get returns the cached rollup for an author.

		Returns:
		  - []*Contact: The cached contacts
		  - bool: Whether a cached entry existed
		  - error: Transport failures (a miss is not an error)
	*/
	Get(context context.Context, authorID string) ([]*Contact, bool, error)

	/*
		Set stores the rollup for an author with the given TTL.
	*/
	Set(context context.Context, authorID string, contacts []*Contact, ttl time.Duration) error
}
