// Copyright (c) 2026 Triibes. All rights reserved.

package marker_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriibesDev/lyra-backend/internal/beta/invitation"
	"github.com/TriibesDev/lyra-backend/internal/beta/marker"
	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/clock"
)

// # Test Doubles

type fakeMarkerRepo struct {
	markers []*marker.Marker
	readers map[string]string // invitation id -> reader name
	owners  map[string]string // invitation id -> author id
}

func (repo *fakeMarkerRepo) Create(_ context.Context, m *marker.Marker) error {
	for _, existing := range repo.markers {
		if existing.InvitationID == m.InvitationID && existing.MarkerID == m.MarkerID {
			return apperr.Conflict("Marker already exists")
		}
	}
	repo.markers = append(repo.markers, m)
	return nil
}

func (repo *fakeMarkerRepo) ListByInvitation(_ context.Context, invitationID, authorID string) ([]*marker.Marker, error) {
	if repo.owners[invitationID] != authorID {
		return nil, nil
	}
	var result []*marker.Marker
	for _, m := range repo.markers {
		if m.InvitationID == invitationID {
			m.ReaderName = repo.readers[invitationID]
			result = append(result, m)
		}
	}
	return result, nil
}

func (repo *fakeMarkerRepo) UpdateText(_ context.Context, markerID, invitationID, text string, now time.Time) error {
	for _, m := range repo.markers {
		if m.MarkerID == markerID && m.InvitationID == invitationID {
			m.Text = text
			m.UpdatedAt = now
			return nil
		}
	}
	return apperr.NotFound("Marker")
}

func (repo *fakeMarkerRepo) Delete(_ context.Context, markerID, invitationID string) error {
	for index, m := range repo.markers {
		if m.MarkerID == markerID && m.InvitationID == invitationID {
			repo.markers = append(repo.markers[:index], repo.markers[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Marker")
}

func (repo *fakeMarkerRepo) FindForAuthor(_ context.Context, id, authorID string) (*marker.Marker, error) {
	for _, m := range repo.markers {
		if m.ID == id && repo.owners[m.InvitationID] == authorID {
			m.ReaderName = repo.readers[m.InvitationID]
			return m, nil
		}
	}
	return nil, apperr.NotFound("Marker")
}

func (repo *fakeMarkerRepo) MarkImported(_ context.Context, id string, at time.Time) error {
	for _, m := range repo.markers {
		if m.ID == id {
			m.Imported = true
			stamped := at
			m.ImportedAt = &stamped
			return nil
		}
	}
	return apperr.NotFound("Marker")
}

type fakeInvitationRepo struct {
	byToken map[string]*invitation.Invitation
	touched map[string]time.Time
}

func (repo *fakeInvitationRepo) find(id string) *invitation.Invitation {
	for _, inv := range repo.byToken {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}

func (repo *fakeInvitationRepo) FindByToken(_ context.Context, token string) (*invitation.Invitation, error) {
	inv, ok := repo.byToken[token]
	if !ok {
		return nil, apperr.NotFound("Invitation")
	}
	return inv, nil
}

func (repo *fakeInvitationRepo) FindByID(_ context.Context, id string) (*invitation.Invitation, error) {
	if inv := repo.find(id); inv != nil {
		return inv, nil
	}
	return nil, apperr.NotFound("Invitation")
}

func (repo *fakeInvitationRepo) TouchActivity(_ context.Context, id string, at time.Time) error {
	repo.touched[id] = at
	return nil
}

func (repo *fakeInvitationRepo) CreateBatch(context.Context, []*invitation.Invitation, int, time.Time) error {
	return nil
}

func (repo *fakeInvitationRepo) ListByAuthor(context.Context, string, string, int, int) ([]*invitation.Invitation, int, error) {
	return nil, 0, nil
}

func (repo *fakeInvitationRepo) Accept(context.Context, string, time.Time) error { return nil }

func (repo *fakeInvitationRepo) MarkExpired(context.Context, string) error { return nil }

func (repo *fakeInvitationRepo) Revoke(context.Context, string, string) error { return nil }

func (repo *fakeInvitationRepo) UpdateCircle(context.Context, string, string, invitation.ChapterSet, invitation.CircleUpdate) (int64, error) {
	return 0, nil
}

// # Fixture

const testToken = "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"

type serviceFixture struct {
	service     *marker.Service
	markers     *fakeMarkerRepo
	invitations *fakeInvitationRepo
	clock       *clock.Fixed
	invitation  *invitation.Invitation
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	inv := &invitation.Invitation{
		ID:         "inv-1",
		ProjectID:  "proj-1",
		AuthorID:   "author-1",
		Token:      testToken,
		Chapters:   invitation.NewChapterSet([]string{"ch-2", "ch-4"}),
		ReaderName: "Alice Reader",
		Status:     invitation.StatusAccepted,
		ExpiresAt:  time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC),
	}

	markers := &fakeMarkerRepo{
		readers: map[string]string{"inv-1": "Alice Reader"},
		owners:  map[string]string{"inv-1": "author-1"},
	}
	invitations := &fakeInvitationRepo{
		byToken: map[string]*invitation.Invitation{testToken: inv},
		touched: map[string]time.Time{},
	}
	clk := clock.NewFixed(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceFixture{
		service:     marker.NewService(markers, invitations, clk, logger),
		markers:     markers,
		invitations: invitations,
		clock:       clk,
		invitation:  inv,
	}
}

func validInput() marker.CreateInput {
	return marker.CreateInput{
		MarkerID:        "device-m1",
		ChapterID:       "ch-2",
		SceneID:         "scene-1",
		Type:            "suggestion",
		Text:            "This line of dialogue feels out of character.",
		HighlightedText: "\"I never cared,\" she said.",
		PositionData:    []byte(`{"start":120,"end":148}`),
	}
}

// # Creation

/*
TestService_Create_Success checks the happy path including the
last-activity touch.
*/
func TestService_Create_Success(t *testing.T) {
	fixture := newServiceFixture(t)

	created, err := fixture.service.Create(context.Background(), testToken, validInput())
	require.NoError(t, err)

	assert.Equal(t, "inv-1", created.InvitationID)
	assert.Equal(t, "proj-1", created.ProjectID)
	assert.Equal(t, marker.TypeSuggestion, created.Type)
	assert.False(t, created.Imported)
	assert.NotEmpty(t, created.ID)

	// Reader activity on the invitation is recorded.
	assert.Equal(t, fixture.clock.Now(), fixture.invitations.touched["inv-1"])

	// The marker is retrievable by the author afterwards.
	listed, err := fixture.service.ListForInvitation(context.Background(), "author-1", "inv-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Alice Reader", listed[0].ReaderName)
}

/*
TestService_Create_StatusGate verifies revoked and expired invitations refuse
feedback while an accepted one with a future deadline succeeds. The gate reads
the stored status only.
*/
func TestService_Create_StatusGate(t *testing.T) {
	tests := []struct {
		name       string
		status     invitation.Status
		wantStatus int
	}{
		{"accepted_succeeds", invitation.StatusAccepted, 0},
		{"pending_succeeds", invitation.StatusPending, 0},
		{"revoked_forbidden", invitation.StatusRevoked, 403},
		{"expired_forbidden", invitation.StatusExpired, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(t)
			fixture.invitation.Status = tt.status

			_, err := fixture.service.Create(context.Background(), testToken, validInput())
			if tt.wantStatus == 0 {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, apperr.As(err).HTTPStatus)
			}
		})
	}
}

/*
TestService_Create_Validation covers the attribute rules, including the
chapter anchor falling inside the accessible set.
*/
func TestService_Create_Validation(t *testing.T) {
	fixture := newServiceFixture(t)

	tests := []struct {
		name   string
		mutate func(*marker.CreateInput)
	}{
		{"missing_marker_id", func(in *marker.CreateInput) { in.MarkerID = "" }},
		{"missing_chapter", func(in *marker.CreateInput) { in.ChapterID = "" }},
		{"missing_text", func(in *marker.CreateInput) { in.Text = "" }},
		{"unknown_type", func(in *marker.CreateInput) { in.Type = "rant" }},
		{"chapter_outside_grant", func(in *marker.CreateInput) { in.ChapterID = "ch-1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := fixture.service.Create(context.Background(), testToken, input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestService_Create_UnknownToken expects NotFound for unknown and malformed
tokens alike.
*/
func TestService_Create_UnknownToken(t *testing.T) {
	fixture := newServiceFixture(t)

	for _, token := range []string{strings.Repeat("d", 64), "short", ""} {
		_, err := fixture.service.Create(context.Background(), token, validInput())
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	}
}

// # Editing

/*
TestService_UpdateAndDelete exercises the loose (marker id, token) ownership:
the pair either joins to the token's invitation or reads as missing.
*/
func TestService_UpdateAndDelete(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Create(context.Background(), testToken, validInput())
	require.NoError(t, err)

	t.Run("update_own_marker", func(t *testing.T) {
		err := fixture.service.UpdateText(context.Background(), testToken, "device-m1", "Reworded after a second read.")
		require.NoError(t, err)
		assert.Equal(t, "Reworded after a second read.", fixture.markers.markers[0].Text)
	})

	t.Run("update_unknown_marker", func(t *testing.T) {
		err := fixture.service.UpdateText(context.Background(), testToken, "device-m9", "nope")
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("delete_own_marker", func(t *testing.T) {
		require.NoError(t, fixture.service.Delete(context.Background(), testToken, "device-m1"))
		assert.Empty(t, fixture.markers.markers)

		err := fixture.service.Delete(context.Background(), testToken, "device-m1")
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}

// # Import

/*
TestService_Import checks the annotation shape and idempotency: a second
import succeeds and only the timestamp moves.
*/
func TestService_Import(t *testing.T) {
	fixture := newServiceFixture(t)

	created, err := fixture.service.Create(context.Background(), testToken, validInput())
	require.NoError(t, err)

	annotation, err := fixture.service.Import(context.Background(), "author-1", created.ID)
	require.NoError(t, err)

	assert.Equal(t, marker.TypeSuggestion, annotation.Type)
	assert.Equal(t, "[Alice Reader]\nThis line of dialogue feels out of character.", annotation.Text)
	assert.Equal(t, "ch-2", annotation.ChapterID)
	assert.Equal(t, "scene-1", annotation.SceneID)
	assert.Equal(t, fixture.clock.Now(), annotation.ImportedAt)
	assert.True(t, fixture.markers.markers[0].Imported)
	firstImport := *fixture.markers.markers[0].ImportedAt

	fixture.clock.Advance(time.Hour)

	again, err := fixture.service.Import(context.Background(), "author-1", created.ID)
	require.NoError(t, err)
	assert.True(t, fixture.markers.markers[0].Imported)
	assert.True(t, again.ImportedAt.After(firstImport))
}

/*
TestService_Import_NotOwned confirms another author's marker reads as missing.
*/
func TestService_Import_NotOwned(t *testing.T) {
	fixture := newServiceFixture(t)

	created, err := fixture.service.Create(context.Background(), testToken, validInput())
	require.NoError(t, err)

	_, err = fixture.service.Import(context.Background(), "intruder", created.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}
