// Copyright (c) 2026 Triibes. All rights reserved.

package contact

import (
	"context"
	"log/slog"

	"github.com/TriibesDev/lyra-backend/internal/platform/constants"
)

// # Service Layer

// Service serves the contact rollup through a read-aside cache.
type Service struct {
	contacts Repository
	cache    Cache
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(contacts Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		contacts: contacts,
		cache:    cache,
		logger:   logger,
	}
}

/*
List returns the author's reader contacts.

Description: Cache-aside with a short TTL. The rollup is advisory, so cache
transport failures degrade to a direct recompute instead of failing the
request, and a stale entry within the TTL window is acceptable.

Parameters:
  - context: context.Context
  - authorID: string (UUID)

Returns:
  - []*Contact: Contacts ordered by most recent activity
  - error: Storage failures from the authoritative recompute
*/
func (service *Service) List(context context.Context, authorID string) ([]*Contact, error) {
	cached, hit, err := service.cache.Get(context, authorID)
	if err != nil {
		service.logger.Warn("contact_cache_read_failed",
			slog.String("error", err.Error()),
		)
	}
	if hit {
		return cached, nil
	}

	contacts, err := service.contacts.AggregateByAuthor(context, authorID)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, authorID, contacts, constants.ReaderContactsTTL); err != nil {
		service.logger.Warn("contact_cache_write_failed",
			slog.String("error", err.Error()),
		)
	}

	return contacts, nil
}
