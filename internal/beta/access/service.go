// Copyright (c) 2026 Triibes. All rights reserved.

package access

import (
	"context"
	"log/slog"

	"github.com/TriibesDev/lyra-backend/internal/beta/invitation"
	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/clock"
	"github.com/TriibesDev/lyra-backend/internal/platform/validate"
	"github.com/TriibesDev/lyra-backend/internal/project"
	"github.com/TriibesDev/lyra-backend/pkg/uuidv7"
)

// # Service Layer

// Service resolves access tokens and manages reader sessions.
type Service struct {
	sessions    Repository
	invitations invitation.Repository
	projects    project.Repository
	clock       clock.Clock
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(sessions Repository, invitations invitation.Repository, projects project.Repository, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		sessions:    sessions,
		invitations: invitations,
		projects:    projects,
		clock:       clk,
		logger:      logger,
	}
}

/*
Resolve exchanges an access token for the reader's filtered manuscript view.

Description: The full gate runs on every call: unknown tokens are NotFound,
revoked invitations are Forbidden, and expiry is re-evaluated against the
clock so a token that lapsed since the last visit flips to expired here. The
first successful resolution accepts a pending invitation and lazily creates
the reader's session. Resolution also refreshes the invitation's last-activity
timestamp.

Parameters:
  - context: context.Context
  - token: string (64-char hex capability token)

Returns:
  - *ReaderView: Filtered chapters, invitation framing, and session
  - error: NotFound, Forbidden (revoked), Expired, or storage failures
*/
func (service *Service) Resolve(context context.Context, token string) (*ReaderView, error) {
	validator := &validate.Validator{}
	validator.AccessToken("token", token)
	if err := validator.Err(); err != nil {
		// Malformed tokens read the same as unknown ones.
		return nil, apperr.NotFound("Invitation")
	}

	inv, err := service.invitations.FindByToken(context, token)
	if err != nil {
		return nil, err
	}

	now := service.clock.Now()

	switch {
	case inv.Status == invitation.StatusRevoked:
		return nil, apperr.Forbidden("Access to this draft has been revoked")
	case inv.Status == invitation.StatusExpired:
		return nil, apperr.Expired("This invitation has expired")
	case now.After(inv.ExpiresAt):
		// Lazy expiry: the status flips the moment an access attempt lands
		// past the deadline.
		if markErr := service.invitations.MarkExpired(context, inv.ID); markErr != nil {
			service.logger.Error("mark_expired_failed",
				slog.String("invitation_id", inv.ID),
				slog.String("error", markErr.Error()),
			)
		}
		return nil, apperr.Expired("This invitation has expired")
	}

	if inv.Status == invitation.StatusPending {
		if err := service.invitations.Accept(context, inv.ID, now); err != nil {
			return nil, err
		}
		inv.Status = invitation.StatusAccepted
		service.logger.Info("invitation_accepted",
			slog.String("invitation_id", inv.ID),
		)
	}

	session, err := service.sessions.FindOrCreate(context, uuidv7.New(), inv.ID, now)
	if err != nil {
		return nil, err
	}

	document, err := service.projects.FindDocument(context, inv.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := service.invitations.TouchActivity(context, inv.ID, now); err != nil {
		service.logger.Warn("touch_activity_failed",
			slog.String("invitation_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	return &ReaderView{
		ProjectTitle: document.Title,
		ReaderName:   inv.ReaderName,
		Message:      inv.Message,
		Status:       string(inv.Status),
		ExpiresAt:    inv.ExpiresAt,
		Chapters:     filterChapters(document, inv.Chapters),
		Session:      session,
	}, nil
}

/*
filterChapters projects the manuscript down to the accessible subset.

Chapter numbers are the 1-based positions in the full manuscript, so gaps in
the grant stay visible as gaps in the numbering.
*/
func filterChapters(document *project.Document, accessible invitation.ChapterSet) []ReaderChapter {
	chapters := make([]ReaderChapter, 0, accessible.Len())

	for index, chapter := range document.Chapters {
		if !accessible.Contains(chapter.ID) {
			continue
		}

		scenes := make([]ReaderScene, 0, len(chapter.Scenes))
		for _, scene := range chapter.Scenes {
			scenes = append(scenes, ReaderScene{
				ID:      scene.ID,
				Title:   scene.Title,
				Content: scene.Content,
			})
		}

		chapters = append(chapters, ReaderChapter{
			Number:  index + 1,
			ID:      chapter.ID,
			Title:   chapter.Title,
			Summary: chapter.Summary,
			Scenes:  scenes,
		})
	}

	return chapters
}

// resolveInvitation maps a token to its invitation for session writes.
//
// Writes deliberately skip the status gate: the reader's client may flush a
// final progress update moments after expiry, and losing it serves nobody.
// An unknown or malformed token is still NotFound.
func (service *Service) resolveInvitation(context context.Context, token string) (*invitation.Invitation, error) {
	validator := &validate.Validator{}
	validator.AccessToken("token", token)
	if err := validator.Err(); err != nil {
		return nil, apperr.NotFound("Invitation")
	}
	return service.invitations.FindByToken(context, token)
}

/*
Session returns the reader's session for a token.

Returns:
  - *Session: The session
  - error: apperr.NotFound if the token is unknown or no session exists yet
*/
func (service *Service) Session(context context.Context, token string) (*Session, error) {
	inv, err := service.resolveInvitation(context, token)
	if err != nil {
		return nil, err
	}
	return service.sessions.FindByInvitation(context, inv.ID)
}

// ProgressInput carries a reader's position update.
type ProgressInput struct {
	LastChapterID string
	CompletionPct float64
}

/*
UpdateProgress records the reader's last chapter and completion percentage.

Description: The percentage is clamped to [0, 100] rather than rejected; a
client computing 100.4 from word counts should not lose the save. A chapter
outside the invitation's accessible set is a validation error.

Returns:
  - *Session: The session after the update
  - error: NotFound, ValidationError, or storage failures
*/
func (service *Service) UpdateProgress(context context.Context, token string, input ProgressInput) (*Session, error) {
	inv, err := service.resolveInvitation(context, token)
	if err != nil {
		return nil, err
	}

	if input.LastChapterID != "" && !inv.Chapters.Contains(input.LastChapterID) {
		validator := &validate.Validator{}
		validator.Custom("last_chapter_id", true, "Chapter is not part of this invitation")
		return nil, validator.Err()
	}

	pct := input.CompletionPct
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	now := service.clock.Now()
	if err := service.sessions.UpdateProgress(context, inv.ID, input.LastChapterID, pct, now); err != nil {
		return nil, err
	}

	if err := service.invitations.TouchActivity(context, inv.ID, now); err != nil {
		service.logger.Warn("touch_activity_failed",
			slog.String("invitation_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	return service.sessions.FindByInvitation(context, inv.ID)
}

/*
UpdateNotes replaces the reader's free-form session notes.

Returns:
  - *Session: The session after the update
  - error: NotFound, ValidationError, or storage failures
*/
func (service *Service) UpdateNotes(context context.Context, token, notes string) (*Session, error) {
	inv, err := service.resolveInvitation(context, token)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.MaxLen("notes", notes, 20000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.clock.Now()
	if err := service.sessions.UpdateNotes(context, inv.ID, notes, now); err != nil {
		return nil, err
	}

	if err := service.invitations.TouchActivity(context, inv.ID, now); err != nil {
		service.logger.Warn("touch_activity_failed",
			slog.String("invitation_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	return service.sessions.FindByInvitation(context, inv.ID)
}
