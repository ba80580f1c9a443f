// Copyright (c) 2026 Triibes. All rights reserved.

package marker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/TriibesDev/lyra-backend/internal/beta/invitation"
	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/clock"
	"github.com/TriibesDev/lyra-backend/internal/platform/constants"
	"github.com/TriibesDev/lyra-backend/internal/platform/validate"
	"github.com/TriibesDev/lyra-backend/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates marker creation, editing, and author-side import.
type Service struct {
	markers     Repository
	invitations invitation.Repository
	clock       clock.Clock
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(markers Repository, invitations invitation.Repository, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		markers:     markers,
		invitations: invitations,
		clock:       clk,
		logger:      logger,
	}
}

// resolveToken maps an access token to its invitation. Malformed and unknown
// tokens both read as NotFound.
func (service *Service) resolveToken(context context.Context, token string) (*invitation.Invitation, error) {
	validator := &validate.Validator{}
	validator.AccessToken("token", token)
	if err := validator.Err(); err != nil {
		return nil, apperr.NotFound("Invitation")
	}
	return service.invitations.FindByToken(context, token)
}

// CreateInput carries a reader's new marker.
type CreateInput struct {
	MarkerID        string
	ChapterID       string
	SceneID         string
	Type            string
	Text            string
	HighlightedText string
	PositionData    json.RawMessage
}

/*
Create persists a reader's marker against the token's invitation.

Description: The gate is a status check only: revoked and expired invitations
are Forbidden, but a live status with a lapsed deadline still passes (expiry
flips on the read path, not here). The anchor chapter must fall inside the
invitation's accessible set at creation time. Creation touches the
invitation's last-activity timestamp.

Parameters:
  - context: context.Context
  - token: string (64-char hex)
  - input: CreateInput

Returns:
  - *Marker: The persisted marker
  - error: NotFound, Forbidden, ValidationError, Conflict (duplicate client
    marker id), or storage failures
*/
func (service *Service) Create(context context.Context, token string, input CreateInput) (*Marker, error) {
	inv, err := service.resolveToken(context, token)
	if err != nil {
		return nil, err
	}

	if inv.Status == invitation.StatusRevoked || inv.Status == invitation.StatusExpired {
		return nil, apperr.Forbidden("This invitation no longer accepts feedback")
	}

	validator := &validate.Validator{}
	validator.Required("marker_id", input.MarkerID)
	validator.Required("chapter_id", input.ChapterID)
	validator.Required("text", input.Text)
	validator.MaxLen("text", input.Text, constants.MaxMarkerTextLen)
	validator.OneOf("type", input.Type, Types()...)
	validator.Custom("chapter_id", input.ChapterID != "" && !inv.Chapters.Contains(input.ChapterID),
		"Chapter is not part of this invitation")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.clock.Now()
	marker := &Marker{
		ID:              uuidv7.New(),
		InvitationID:    inv.ID,
		ProjectID:       inv.ProjectID,
		MarkerID:        input.MarkerID,
		ChapterID:       input.ChapterID,
		SceneID:         input.SceneID,
		Type:            Type(input.Type),
		Text:            input.Text,
		HighlightedText: input.HighlightedText,
		PositionData:    input.PositionData,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := service.markers.Create(context, marker); err != nil {
		return nil, err
	}

	if err := service.invitations.TouchActivity(context, inv.ID, now); err != nil {
		service.logger.Warn("touch_activity_failed",
			slog.String("invitation_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("marker_created",
		slog.String("invitation_id", inv.ID),
		slog.String("marker_type", input.Type),
	)

	return marker, nil
}

/*
UpdateText replaces a marker's text.

Description: Ownership is the (client marker id, token) join resolving to one
invitation. A marker id belonging to a different invitation is NotFound.

Returns:
  - error: NotFound, ValidationError, or storage failures
*/
func (service *Service) UpdateText(context context.Context, token, markerID, text string) error {
	inv, err := service.resolveToken(context, token)
	if err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required("text", text)
	validator.MaxLen("text", text, constants.MaxMarkerTextLen)
	if err := validator.Err(); err != nil {
		return err
	}

	now := service.clock.Now()
	if err := service.markers.UpdateText(context, markerID, inv.ID, text, now); err != nil {
		return err
	}

	if err := service.invitations.TouchActivity(context, inv.ID, now); err != nil {
		service.logger.Warn("touch_activity_failed",
			slog.String("invitation_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

/*
Delete removes a marker, addressed by (client marker id, token).

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, token, markerID string) error {
	inv, err := service.resolveToken(context, token)
	if err != nil {
		return err
	}
	return service.markers.Delete(context, markerID, inv.ID)
}

/*
ListForInvitation returns an invitation's markers to its author.

Returns:
  - []*Marker: Markers oldest first, with reader names
  - error: apperr.NotFound if the invitation is missing or not owned
*/
func (service *Service) ListForInvitation(context context.Context, authorID, invitationID string) ([]*Marker, error) {
	// Distinguish an empty invitation from a foreign or missing one.
	inv, err := service.invitations.FindByID(context, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.AuthorID != authorID {
		return nil, apperr.NotFound("Invitation")
	}

	return service.markers.ListByInvitation(context, invitationID, authorID)
}

/*
Import pulls a marker into the author's manuscript.

Description: Sets the imported flag and timestamp, then returns the
manuscript-shaped annotation for the author's client to merge; the merge
itself happens outside this service. Import is idempotent: re-importing just
moves the timestamp. The annotation text is prefixed with the reader's
bracketed name so attribution survives the merge.

Parameters:
  - context: context.Context
  - authorID: string (UUID)
  - id: string (marker row UUID)

Returns:
  - *Annotation: The annotation to merge
  - error: apperr.NotFound if the marker is missing or its project is not
    owned by the author
*/
func (service *Service) Import(context context.Context, authorID, id string) (*Annotation, error) {
	marker, err := service.markers.FindForAuthor(context, id, authorID)
	if err != nil {
		return nil, err
	}

	now := service.clock.Now()
	if err := service.markers.MarkImported(context, marker.ID, now); err != nil {
		return nil, err
	}

	service.logger.Info("marker_imported",
		slog.String("marker_id", marker.ID),
		slog.String("project_id", marker.ProjectID),
	)

	return &Annotation{
		Type:            marker.Type,
		Text:            "[" + marker.ReaderName + "]\n" + marker.Text,
		ChapterID:       marker.ChapterID,
		SceneID:         marker.SceneID,
		HighlightedText: marker.HighlightedText,
		PositionData:    marker.PositionData,
		ImportedAt:      now,
	}, nil
}
