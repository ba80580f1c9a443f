// Copyright (c) 2026 Triibes. All rights reserved.

package invitation

import (
	"context"
	"log/slog"
	"time"

	"github.com/TriibesDev/lyra-backend/internal/mailer"
	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/clock"
	"github.com/TriibesDev/lyra-backend/internal/platform/constants"
	"github.com/TriibesDev/lyra-backend/internal/platform/sec"
	"github.com/TriibesDev/lyra-backend/internal/platform/validate"
	"github.com/TriibesDev/lyra-backend/internal/project"
	"github.com/TriibesDev/lyra-backend/pkg/uuidv7"
)

const (
	FieldReaders   = "readers"
	FieldChapters  = "chapter_ids"
	FieldExpiresAt = "expires_at"
	FieldMessage   = "message"
)

// # Service Layer

// Service orchestrates the business logic for invitation lifecycle management.
type Service struct {
	invitations Repository
	projects    project.Repository
	gateway     mailer.Gateway
	clock       clock.Clock
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(invitations Repository, projects project.Repository, gateway mailer.Gateway, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		invitations: invitations,
		projects:    projects,
		gateway:     gateway,
		clock:       clk,
		logger:      logger,
	}
}

// Reader identifies one recipient in a creation batch.
type Reader struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateInput is the author's request to invite a batch of readers.
type CreateInput struct {
	ChapterIDs []string
	Message    string
	Readers    []Reader
	ExpiresAt  time.Time
	CircleName string
}

// CreateResult is the outcome of a creation batch: the persisted invitations
// plus the per-reader email delivery failures (non-fatal by design).
type CreateResult struct {
	Invitations []*Invitation `json:"invitations"`
	EmailErrors []EmailError  `json:"email_errors,omitempty"`
}

/*
Create invites a batch of readers to a chapter subset of the author's project.

Description: Validates input, verifies project ownership, mints one capability
token per reader, persists all rows atomically under the 15-active cap, then
attempts email delivery per reader. Delivery failures are collected into the
result's EmailErrors side-channel; invitation rows are never rolled back for a
failed email — the reader's invitation exists and can be delivered later via
resend.

Parameters:
  - context: context.Context
  - author: *sec.AuthClaims (acting author; username doubles as the email's author name)
  - projectID: string (UUID)
  - input: CreateInput

Returns:
  - *CreateResult: Created invitations plus email error side-channel
  - error: NotFound (project not owned), QuotaExceeded, ValidationError, or storage failures
*/
func (service *Service) Create(context context.Context, author *sec.AuthClaims, projectID string, input CreateInput) (*CreateResult, error) {
	now := service.clock.Now()

	chapters := NewChapterSet(input.ChapterIDs)

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Custom(FieldChapters, chapters.IsEmpty(), "At least one chapter is required")
	validator.Custom(FieldReaders, len(input.Readers) == 0, "At least one reader is required")
	validator.Custom(FieldReaders, len(input.Readers) > constants.MaxActiveInvitations,
		"Cannot invite more readers than the active invitation limit")
	validator.Future(FieldExpiresAt, input.ExpiresAt, now)
	validator.MaxLen(FieldMessage, input.Message, constants.MaxInvitationMessageLen)

	for _, reader := range input.Readers {
		validator.Required("readers.name", reader.Name)
		validator.Email("readers.email", reader.Email)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Ownership precondition: absent and not-owned are both NotFound.
	proj, err := service.projects.FindOwned(context, projectID, author.UserID)
	if err != nil {
		return nil, err
	}

	// Chapter names for the invitation email come from the current document.
	document, err := service.projects.FindDocument(context, projectID)
	if err != nil {
		return nil, err
	}
	chapterNames := document.ChapterTitles(chapters.IDs())

	// Invitations created together share one circle.
	circleName := input.CircleName
	if circleName == "" {
		circleName = constants.CirclePrefix + now.Format("January 2, 2006")
	}

	invitations := make([]*Invitation, 0, len(input.Readers))
	for _, reader := range input.Readers {
		token, err := sec.NewAccessToken()
		if err != nil {
			return nil, apperr.Internal(err)
		}

		invitations = append(invitations, &Invitation{
			ID:             uuidv7.New(),
			ProjectID:      projectID,
			AuthorID:       author.UserID,
			Token:          token,
			Chapters:       chapters,
			Message:        input.Message,
			ReaderName:     reader.Name,
			ReaderEmail:    reader.Email,
			Status:         StatusPending,
			CircleName:     circleName,
			CreatedAt:      now,
			ExpiresAt:      input.ExpiresAt,
			LastActivityAt: now,
		})
	}

	// Atomic under the per-project cap: all rows or none.
	if err := service.invitations.CreateBatch(context, invitations, constants.MaxActiveInvitations, now); err != nil {
		return nil, err
	}

	// Delivery is fire-and-forget per recipient with isolated failure.
	var emailErrors []EmailError
	for _, inv := range invitations {
		sendErr := service.gateway.SendReaderInvitation(context, mailer.ReaderInvitation{
			ReaderEmail:       inv.ReaderEmail,
			ReaderName:        inv.ReaderName,
			ProjectTitle:      proj.Title,
			AuthorName:        author.Username,
			AccessToken:       inv.Token,
			ExpiresAt:         inv.ExpiresAt,
			InvitationMessage: inv.Message,
			ChapterNames:      chapterNames,
		})
		if sendErr != nil {
			service.logger.Warn("invitation_email_failed",
				slog.String("invitation_id", inv.ID),
				slog.String("error", sendErr.Error()),
			)
			emailErrors = append(emailErrors, EmailError{
				ReaderEmail: inv.ReaderEmail,
				Reason:      "Delivery failed; use resend to retry",
			})
		}
	}

	service.logger.Info("invitations_created",
		slog.String("project_id", projectID),
		slog.Int("count", len(invitations)),
		slog.Int("email_errors", len(emailErrors)),
	)

	return &CreateResult{Invitations: invitations, EmailErrors: emailErrors}, nil
}

/*
List returns the author's invitations joined with live marker counts.

Parameters:
  - context: context.Context
  - authorID: string (UUID)
  - projectID: string (UUID, or empty for all projects)
  - limit, offset: int

Returns:
  - []*Invitation: Matching invitations, newest first
  - int: Total matching rows
  - error: Storage failures
*/
func (service *Service) List(context context.Context, authorID, projectID string, limit, offset int) ([]*Invitation, int, error) {
	return service.invitations.ListByAuthor(context, authorID, projectID, limit, offset)
}

/*
Revoke terminates an invitation unconditionally.

Description: Revocation applies even to invitations that are already accepted
or expired; the author's intent to cut access always wins.

Returns:
  - error: apperr.NotFound if the invitation is missing or not owned
*/
func (service *Service) Revoke(context context.Context, authorID, invitationID string) error {
	if err := service.invitations.Revoke(context, invitationID, authorID); err != nil {
		return err
	}

	service.logger.Info("invitation_revoked",
		slog.String("invitation_id", invitationID),
	)

	return nil
}

/*
Resend re-delivers an invitation email using the original capability token.

Description: The token is never regenerated and the expiry is never extended —
resend is purely a delivery retry. Expired and revoked invitations cannot be
resent.

Returns:
  - error: NotFound (missing/not owned), Expired, Forbidden (revoked),
    ServiceUnavailable (delivery failed), or storage failures
*/
func (service *Service) Resend(context context.Context, author *sec.AuthClaims, invitationID string) error {
	inv, err := service.invitations.FindByID(context, invitationID)
	if err != nil {
		return err
	}
	if inv.AuthorID != author.UserID {
		return apperr.NotFound("Invitation")
	}

	now := service.clock.Now()
	if now.After(inv.ExpiresAt) {
		return apperr.Expired("Invitation has expired")
	}
	if inv.Status == StatusRevoked {
		return apperr.Forbidden("Invitation has been revoked")
	}

	proj, err := service.projects.FindOwned(context, inv.ProjectID, author.UserID)
	if err != nil {
		return err
	}
	document, err := service.projects.FindDocument(context, inv.ProjectID)
	if err != nil {
		return err
	}

	// Chapter names reflect the manuscript as it stands now, not as it was
	// at creation. The accessible set itself is still the original snapshot.
	sendErr := service.gateway.SendReaderInvitation(context, mailer.ReaderInvitation{
		ReaderEmail:       inv.ReaderEmail,
		ReaderName:        inv.ReaderName,
		ProjectTitle:      proj.Title,
		AuthorName:        author.Username,
		AccessToken:       inv.Token,
		ExpiresAt:         inv.ExpiresAt,
		InvitationMessage: inv.Message,
		ChapterNames:      document.ChapterTitles(inv.Chapters.IDs()),
	})
	if sendErr != nil {
		service.logger.Error("invitation_resend_failed",
			slog.String("invitation_id", inv.ID),
			slog.String("error", sendErr.Error()),
		)
		return apperr.ServiceUnavailable("Could not deliver the invitation email")
	}

	service.logger.Info("invitation_resent",
		slog.String("invitation_id", inv.ID),
	)

	return nil
}

/*
RenameCircle renames every invitation in a circle.

Description: The circle is addressed by (author, project, exact chapter-set
value). The chapter set is canonicalized before matching, so callers may
submit ids in any order.

Returns:
  - error: NotFound if no invitation matches the composite key
*/
func (service *Service) RenameCircle(context context.Context, authorID, projectID string, chapterIDs []string, newName string) error {
	validator := &validate.Validator{}
	validator.Required("new_name", newName)
	validator.MaxLen("new_name", newName, 200)
	if err := validator.Err(); err != nil {
		return err
	}

	updated, err := service.invitations.UpdateCircle(context, authorID, projectID,
		NewChapterSet(chapterIDs), CircleUpdate{NewName: &newName})
	if err != nil {
		return err
	}
	if updated == 0 {
		return apperr.NotFound("Circle")
	}

	service.logger.Info("circle_renamed",
		slog.String("project_id", projectID),
		slog.Int64("invitations", updated),
	)

	return nil
}

/*
ArchiveCircle sets or clears the archived flag on every invitation in a circle.

Returns:
  - error: NotFound if no invitation matches the composite key
*/
func (service *Service) ArchiveCircle(context context.Context, authorID, projectID string, chapterIDs []string, archived bool) error {
	updated, err := service.invitations.UpdateCircle(context, authorID, projectID,
		NewChapterSet(chapterIDs), CircleUpdate{Archived: &archived})
	if err != nil {
		return err
	}
	if updated == 0 {
		return apperr.NotFound("Circle")
	}

	service.logger.Info("circle_archived_flag_set",
		slog.String("project_id", projectID),
		slog.Bool("archived", archived),
		slog.Int64("invitations", updated),
	)

	return nil
}
