// Copyright (c) 2026 Triibes. All rights reserved.

package access_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriibesDev/lyra-backend/internal/beta/access"
	"github.com/TriibesDev/lyra-backend/internal/beta/invitation"
	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/clock"
	"github.com/TriibesDev/lyra-backend/internal/project"
)

// # Test Doubles

type fakeSessionRepo struct {
	sessions map[string]*access.Session
}

func (repo *fakeSessionRepo) FindOrCreate(_ context.Context, sessionID, invitationID string, now time.Time) (*access.Session, error) {
	if session, ok := repo.sessions[invitationID]; ok {
		return session, nil
	}
	session := &access.Session{
		ID:           sessionID,
		InvitationID: invitationID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	repo.sessions[invitationID] = session
	return session, nil
}

func (repo *fakeSessionRepo) FindByInvitation(_ context.Context, invitationID string) (*access.Session, error) {
	session, ok := repo.sessions[invitationID]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (repo *fakeSessionRepo) UpdateProgress(_ context.Context, invitationID, lastChapterID string, completionPct float64, now time.Time) error {
	session, ok := repo.sessions[invitationID]
	if !ok {
		return apperr.NotFound("Session")
	}
	if lastChapterID != "" {
		session.LastChapterID = lastChapterID
	}
	session.CompletionPct = completionPct
	session.UpdatedAt = now
	return nil
}

func (repo *fakeSessionRepo) UpdateNotes(_ context.Context, invitationID, notes string, now time.Time) error {
	session, ok := repo.sessions[invitationID]
	if !ok {
		return apperr.NotFound("Session")
	}
	session.Notes = notes
	session.UpdatedAt = now
	return nil
}

type fakeInvitationRepo struct {
	byToken map[string]*invitation.Invitation
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

func (repo *fakeInvitationRepo) Accept(_ context.Context, id string, at time.Time) error {
	if inv := repo.find(id); inv != nil && inv.Status == invitation.StatusPending {
		inv.Status = invitation.StatusAccepted
		inv.AcceptedAt = &at
	}
	return nil
}

func (repo *fakeInvitationRepo) MarkExpired(_ context.Context, id string) error {
	if inv := repo.find(id); inv != nil {
		inv.Status = invitation.StatusExpired
	}
	return nil
}

func (repo *fakeInvitationRepo) TouchActivity(_ context.Context, id string, at time.Time) error {
	if inv := repo.find(id); inv != nil {
		inv.LastActivityAt = at
	}
	return nil
}

func (repo *fakeInvitationRepo) CreateBatch(context.Context, []*invitation.Invitation, int, time.Time) error {
	return nil
}

func (repo *fakeInvitationRepo) ListByAuthor(context.Context, string, string, int, int) ([]*invitation.Invitation, int, error) {
	return nil, 0, nil
}

func (repo *fakeInvitationRepo) Revoke(context.Context, string, string) error {
	return nil
}

func (repo *fakeInvitationRepo) UpdateCircle(context.Context, string, string, invitation.ChapterSet, invitation.CircleUpdate) (int64, error) {
	return 0, nil
}

type fakeProjectRepo struct {
	documents map[string]*project.Document
}

func (repo *fakeProjectRepo) FindOwned(context.Context, string, string) (*project.Project, error) {
	return nil, apperr.NotFound("Project")
}

func (repo *fakeProjectRepo) FindDocument(_ context.Context, projectID string) (*project.Document, error) {
	document, ok := repo.documents[projectID]
	if !ok {
		return nil, apperr.NotFound("Project")
	}
	return document, nil
}

// # Fixture

const testToken = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

type serviceFixture struct {
	service     *access.Service
	sessions    *fakeSessionRepo
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
		Chapters:   invitation.NewChapterSet([]string{"ch-b", "ch-d"}),
		Message:    "Please focus on pacing.",
		ReaderName: "Alice Reader",
		Status:     invitation.StatusPending,
		ExpiresAt:  time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC),
	}

	sessions := &fakeSessionRepo{sessions: map[string]*access.Session{}}
	invitations := &fakeInvitationRepo{byToken: map[string]*invitation.Invitation{testToken: inv}}
	projects := &fakeProjectRepo{
		documents: map[string]*project.Document{
			"proj-1": {
				Title: "The Hollow Crown",
				Chapters: []project.Chapter{
					{ID: "ch-a", Title: "One", Scenes: []project.Scene{{ID: "sc-1", Content: "hidden"}}},
					{ID: "ch-b", Title: "Two", Scenes: []project.Scene{{ID: "sc-2", Content: "visible"}}},
					{ID: "ch-c", Title: "Three"},
					{ID: "ch-d", Title: "Four"},
				},
			},
		},
	}
	clk := clock.NewFixed(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceFixture{
		service:     access.NewService(sessions, invitations, projects, clk, logger),
		sessions:    sessions,
		invitations: invitations,
		clock:       clk,
		invitation:  inv,
	}
}

// # Resolution

/*
TestService_Resolve_FirstAccess checks the happy path: acceptance, lazy
session creation, and original chapter numbering in the filtered view.
*/
func TestService_Resolve_FirstAccess(t *testing.T) {
	fixture := newServiceFixture(t)

	view, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, "The Hollow Crown", view.ProjectTitle)
	assert.Equal(t, "Alice Reader", view.ReaderName)
	assert.Equal(t, "Please focus on pacing.", view.Message)
	assert.Equal(t, "accepted", view.Status)

	// Grant covers the second and fourth chapters: numbering keeps the gaps.
	require.Len(t, view.Chapters, 2)
	assert.Equal(t, 2, view.Chapters[0].Number)
	assert.Equal(t, "ch-b", view.Chapters[0].ID)
	assert.Equal(t, 4, view.Chapters[1].Number)
	assert.Equal(t, "ch-d", view.Chapters[1].ID)

	// Excluded chapter content never leaks into the payload.
	for _, chapter := range view.Chapters {
		for _, scene := range chapter.Scenes {
			assert.NotEqual(t, "hidden", scene.Content)
		}
	}

	// First access accepts the invitation and stamps the instant.
	assert.Equal(t, invitation.StatusAccepted, fixture.invitation.Status)
	require.NotNil(t, fixture.invitation.AcceptedAt)
	assert.Equal(t, fixture.clock.Now(), *fixture.invitation.AcceptedAt)

	// The session was created lazily and rides along in the view.
	require.NotNil(t, view.Session)
	assert.Equal(t, "inv-1", view.Session.InvitationID)

	assert.Equal(t, fixture.clock.Now(), fixture.invitation.LastActivityAt)
}

/*
TestService_Resolve_SecondAccessKeepsAcceptedAt confirms acceptance happens
exactly once; later visits reuse the session and the original timestamp.
*/
func TestService_Resolve_SecondAccessKeepsAcceptedAt(t *testing.T) {
	fixture := newServiceFixture(t)

	first, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)
	acceptedAt := *fixture.invitation.AcceptedAt

	fixture.clock.Advance(2 * time.Hour)

	second, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, acceptedAt, *fixture.invitation.AcceptedAt)
	assert.Equal(t, first.Session.ID, second.Session.ID)
}

/*
TestService_Resolve_UnknownToken expects NotFound for both unknown and
malformed tokens, with no distinction between them.
*/
func TestService_Resolve_UnknownToken(t *testing.T) {
	fixture := newServiceFixture(t)

	for _, token := range []string{
		strings.Repeat("b", 64), // well-formed but unknown
		"not-a-token",
		"",
		strings.Repeat("A", 64), // uppercase hex is not minted
	} {
		_, err := fixture.service.Resolve(context.Background(), token)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	}
}

/*
TestService_Resolve_Revoked expects Forbidden once the author revokes.
*/
func TestService_Resolve_Revoked(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.invitation.Status = invitation.StatusRevoked

	_, err := fixture.service.Resolve(context.Background(), testToken)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)
}

/*
TestService_Resolve_LazyExpiry verifies that an access attempt past the
deadline both fails with 410 and flips the stored status to expired.
*/
func TestService_Resolve_LazyExpiry(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)

	fixture.clock.Advance(45 * 24 * time.Hour)

	_, err = fixture.service.Resolve(context.Background(), testToken)
	require.Error(t, err)
	assert.Equal(t, 410, apperr.As(err).HTTPStatus)
	assert.Equal(t, invitation.StatusExpired, fixture.invitation.Status)

	// Once expired, the status alone blocks access regardless of the clock.
	_, err = fixture.service.Resolve(context.Background(), testToken)
	require.Error(t, err)
	assert.Equal(t, 410, apperr.As(err).HTTPStatus)
}

// # Session Writes

/*
TestService_UpdateProgress covers clamping and the accessible-set guard.
*/
func TestService_UpdateProgress(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)

	t.Run("saves_position", func(t *testing.T) {
		session, err := fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
			LastChapterID: "ch-d",
			CompletionPct: 62.5,
		})
		require.NoError(t, err)
		assert.Equal(t, "ch-d", session.LastChapterID)
		assert.Equal(t, 62.5, session.CompletionPct)
	})

	t.Run("clamps_percentage", func(t *testing.T) {
		session, err := fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
			LastChapterID: "ch-b",
			CompletionPct: 100.4,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(100), session.CompletionPct)

		session, err = fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
			LastChapterID: "ch-b",
			CompletionPct: -5,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(0), session.CompletionPct)
	})

	t.Run("empty_chapter_keeps_position", func(t *testing.T) {
		session, err := fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
			LastChapterID: "ch-b",
			CompletionPct: 40,
		})
		require.NoError(t, err)
		require.Equal(t, "ch-b", session.LastChapterID)

		session, err = fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
			CompletionPct: 55,
		})
		require.NoError(t, err)
		assert.Equal(t, "ch-b", session.LastChapterID)
		assert.Equal(t, 55.0, session.CompletionPct)
	})

	t.Run("rejects_chapter_outside_grant", func(t *testing.T) {
		_, err := fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
			LastChapterID: "ch-a",
			CompletionPct: 10,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("unknown_token", func(t *testing.T) {
		_, err := fixture.service.UpdateProgress(context.Background(), strings.Repeat("c", 64), access.ProgressInput{})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}

/*
TestService_UpdateProgress_AfterExpiry confirms session writes skip the status
gate so a final save is not lost at the deadline.
*/
func TestService_UpdateProgress_AfterExpiry(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)

	fixture.clock.Advance(45 * 24 * time.Hour)
	fixture.invitation.Status = invitation.StatusExpired

	session, err := fixture.service.UpdateProgress(context.Background(), testToken, access.ProgressInput{
		LastChapterID: "ch-d",
		CompletionPct: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), session.CompletionPct)
}

/*
TestService_UpdateNotes checks the notes round trip.
*/
func TestService_UpdateNotes(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Resolve(context.Background(), testToken)
	require.NoError(t, err)

	session, err := fixture.service.UpdateNotes(context.Background(), testToken, "Chapter four drags in the middle.")
	require.NoError(t, err)
	assert.Equal(t, "Chapter four drags in the middle.", session.Notes)

	fetched, err := fixture.service.Session(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, session.Notes, fetched.Notes)
}
