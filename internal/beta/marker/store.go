// Copyright (c) 2026 Triibes. All rights reserved.

package marker

import (
	"context"
	"time"
)

// # Marker Data Access

// Repository defines the data access contract for markers.
type Repository interface {
	/*
		Create persists a new marker row.

		Returns:
		  - error: apperr.Conflict on a duplicate (invitation, marker id) pair,
		    or storage failures
	*/
	Create(context context.Context, marker *Marker) error

	/*
		ListByInvitation returns an invitation's markers, oldest first, with
		the reader's name joined in. Ownership is enforced in the query: the
		invitation must belong to the author.

		Returns:
		  - []*Marker: The invitation's markers
		  - error: Storage failures
	*/
	ListByInvitation(context context.Context, invitationID, authorID string) ([]*Marker, error)

	/*
		UpdateText replaces a marker's text, addressed by the client marker id
		within one invitation.

		Returns:
		  - error: apperr.NotFound if no row matches the pair
	*/
	UpdateText(context context.Context, markerID, invitationID, text string, now time.Time) error

	/*
		Delete removes a marker, addressed by the client marker id within one
		invitation.

		Returns:
		  - error: apperr.NotFound if no row matches the pair
	*/
	Delete(context context.Context, markerID, invitationID string) error

	/*
		FindForAuthor loads one marker by row id with its reader name, only if
		the marker's project belongs to the author.

		Returns:
		  - *Marker: The marker with ReaderName populated
		  - error: apperr.NotFound if missing or not owned
	*/
	FindForAuthor(context context.Context, id, authorID string) (*Marker, error)

	/*
		MarkImported sets the imported flag and timestamp. Re-importing an
		already imported marker just moves the timestamp.

		Returns:
		  - error: apperr.NotFound if the marker is missing
	*/
	MarkImported(context context.Context, id string, at time.Time) error
}
