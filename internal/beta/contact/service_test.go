// Copyright (c) 2026 Triibes. All rights reserved.

package contact_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriibesDev/lyra-backend/internal/beta/contact"
)

// # Test Doubles

type fakeAggregator struct {
	contacts []*contact.Contact
	calls    int
	err      error
}

func (repo *fakeAggregator) AggregateByAuthor(_ context.Context, _ string) ([]*contact.Contact, error) {
	repo.calls++
	return repo.contacts, repo.err
}

type fakeCache struct {
	entries  map[string][]*contact.Contact
	getErr   error
	setErr   error
	lastTTL  time.Duration
	setCalls int
}

func (cache *fakeCache) Get(_ context.Context, authorID string) ([]*contact.Contact, bool, error) {
	if cache.getErr != nil {
		return nil, false, cache.getErr
	}
	contacts, ok := cache.entries[authorID]
	return contacts, ok, nil
}

func (cache *fakeCache) Set(_ context.Context, authorID string, contacts []*contact.Contact, ttl time.Duration) error {
	cache.setCalls++
	cache.lastTTL = ttl
	if cache.setErr != nil {
		return cache.setErr
	}
	cache.entries[authorID] = contacts
	return nil
}

func newFixture(contacts []*contact.Contact) (*contact.Service, *fakeAggregator, *fakeCache) {
	aggregator := &fakeAggregator{contacts: contacts}
	cache := &fakeCache{entries: map[string][]*contact.Contact{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return contact.NewService(aggregator, cache, logger), aggregator, cache
}

func sampleContacts() []*contact.Contact {
	return []*contact.Contact{
		{
			ReaderEmail:     "alice@example.com",
			ReaderName:      "Alice Reader",
			InvitationCount: 3,
			MarkerCount:     12,
			ProjectTitles:   []string{"The Hollow Crown", "Winter Draft"},
		},
	}
}

/*
TestService_List_CacheAside verifies the read path: a cold read recomputes and
populates the cache, a warm read never touches the database.
*/
func TestService_List_CacheAside(t *testing.T) {
	service, aggregator, cache := newFixture(sampleContacts())

	first, err := service.List(context.Background(), "author-1")
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, aggregator.calls)
	assert.Equal(t, 1, cache.setCalls)
	assert.Equal(t, 5*time.Minute, cache.lastTTL)

	second, err := service.List(context.Background(), "author-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, aggregator.calls, "warm read must be served from cache")
}

/*
TestService_List_CacheFailuresDegrade confirms the rollup survives a broken
cache: reads fall through to the database and write failures are swallowed.
*/
func TestService_List_CacheFailuresDegrade(t *testing.T) {
	service, aggregator, cache := newFixture(sampleContacts())
	cache.getErr = errors.New("redis: connection refused")
	cache.setErr = errors.New("redis: connection refused")

	contacts, err := service.List(context.Background(), "author-1")
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, 1, aggregator.calls)
}

/*
TestService_List_RecomputeError propagates authoritative store failures.
*/
func TestService_List_RecomputeError(t *testing.T) {
	service, aggregator, _ := newFixture(nil)
	aggregator.err = errors.New("pg: connection lost")

	_, err := service.List(context.Background(), "author-1")
	require.Error(t, err)
}
