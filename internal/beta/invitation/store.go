// Copyright (c) 2026 Triibes. All rights reserved.

package invitation

import (
	"context"
	"time"
)

// CircleUpdate carries the batch mutation applied to a circle.
// Nil fields are left untouched.
type CircleUpdate struct {
	NewName  *string
	Archived *bool
}

// # Invitation Data Access

// Repository defines the data access contract for invitations.
type Repository interface {

	/*
		CreateBatch atomically inserts a creation batch, enforcing the
		active-invitation cap for the project.

		The count-then-insert runs inside one transaction serialized per
		project (advisory lock), so the cap holds under concurrent creation.
		On a cap violation nothing is inserted.

		Parameters:
		  - context: context.Context
		  - invitations: []*Invitation (all for the same project)
		  - maxActive: int (cap on pending+accepted, non-expired rows)
		  - now: time.Time (expiry reference for the active count)

		Returns:
		  - error: apperr.QuotaExceeded on cap violation, storage failures otherwise
	*/
	CreateBatch(context context.Context, invitations []*Invitation, maxActive int, now time.Time) error

	/*
		ListByAuthor returns the author's invitations, newest first, joined
		with a live marker count.

		Parameters:
		  - context: context.Context
		  - authorID: string (UUID)
		  - projectID: string (UUID, or empty for all of the author's projects)
		  - limit, offset: int

		Returns:
		  - []*Invitation: Hydrated invitations with MarkerCount
		  - int: Total matching rows
		  - error: Storage failures
	*/
	ListByAuthor(context context.Context, authorID, projectID string, limit, offset int) ([]*Invitation, int, error)

	/*
		FindByID returns the invitation with the given id.

		Returns:
		  - *Invitation: Hydrated invitation
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Invitation, error)

	/*
		FindByToken resolves a capability token to its invitation.

		Returns:
		  - *Invitation: Hydrated invitation
		  - error: apperr.NotFound if no row carries the token
	*/
	FindByToken(context context.Context, token string) (*Invitation, error)

	/*
		Accept flips a pending invitation to accepted and stamps acceptedat.

		The UPDATE is guarded on status='pending', making the first-access
		transition idempotent under concurrent resolves.
	*/
	Accept(context context.Context, id string, at time.Time) error

	/*
		MarkExpired sets status='expired'. Called when an access attempt
		lands past the expiry instant.
	*/
	MarkExpired(context context.Context, id string) error

	/*
		Revoke sets status='revoked' unconditionally, even if already
		accepted or expired.

		Returns:
		  - error: apperr.NotFound if the row is missing or not owned by authorID
	*/
	Revoke(context context.Context, id, authorID string) error

	/*
		TouchActivity bumps lastactivityat. Any reader action routes through
		this so the author-facing activity signal stays fresh.
	*/
	TouchActivity(context context.Context, id string, at time.Time) error

	/*
		UpdateCircle batch-updates every invitation matching
		(authorID, projectID, exact canonical chapter set).

		Returns:
		  - int64: Number of rows updated (zero means the circle does not exist)
		  - error: Storage failures
	*/
	UpdateCircle(context context.Context, authorID, projectID string, chapters ChapterSet, update CircleUpdate) (int64, error)
}
