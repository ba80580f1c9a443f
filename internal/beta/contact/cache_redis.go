// Copyright (c) 2026 Triibes. All rights reserved.

package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TriibesDev/lyra-backend/internal/platform/constants"
)

// # Redis Cache

// cache implements [Cache] on Redis with JSON-encoded entries.
type cache struct {
	client *redis.Client
}

// NewCache constructs a Redis backed contact cache.
func NewCache(client *redis.Client) Cache {
	return &cache{client: client}
}

func cacheKey(authorID string) string {
	return constants.RedisPrefixReaderContacts + authorID
}

/*
Get returns the cached rollup for an author. A missing key is a miss, not an
error.
*/
func (cache *cache) Get(context context.Context, authorID string) ([]*Contact, bool, error) {
	payload, err := cache.client.Get(context, cacheKey(authorID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: failed to read contact cache: %w", err)
	}

	var contacts []*Contact
	if err := json.Unmarshal(payload, &contacts); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return contacts, true, nil
}

/*
Set stores the rollup for an author under the contact prefix with a TTL.
*/
func (cache *cache) Set(context context.Context, authorID string, contacts []*Contact, ttl time.Duration) error {
	payload, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("redis: failed to encode contact cache: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(authorID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to write contact cache: %w", err)
	}
	return nil
}
