// Copyright (c) 2026 Triibes. All rights reserved.

package access

import (
	"context"
	"time"
)

// # Session Data Access

// Repository defines the data access contract for reader sessions.
type Repository interface {
	/*
		FindOrCreate returns the session for an invitation, creating an empty
		one if none exists yet. At most one session per invitation is ever
		created, also under concurrent first access.

		Parameters:
		  - context: context.Context
		  - sessionID: string (UUID used only if a new row is inserted)
		  - invitationID: string (UUID)
		  - now: time.Time

		Returns:
		  - *Session: The existing or newly created session
		  - error: Storage failures
	*/
	FindOrCreate(context context.Context, sessionID, invitationID string, now time.Time) (*Session, error)

	/*
		FindByInvitation returns the session for an invitation.

		Returns:
		  - *Session: The session
		  - error: apperr.NotFound if no session exists yet
	*/
	FindByInvitation(context context.Context, invitationID string) (*Session, error)

	/*
		UpdateProgress sets the reader's last chapter and completion percentage.

		Returns:
		  - error: apperr.NotFound if no session exists for the invitation
	*/
	UpdateProgress(context context.Context, invitationID, lastChapterID string, completionPct float64, now time.Time) error

	/*
		UpdateNotes replaces the reader's free-form session notes.

		Returns:
		  - error: apperr.NotFound if no session exists for the invitation
	*/
	UpdateNotes(context context.Context, invitationID, notes string, now time.Time) error
}
