// Copyright (c) 2026 Triibes. All rights reserved.

package project

import "context"

// # Project Data Access

// Repository defines the read-only data access contract for projects.
type Repository interface {

	/*
		FindOwned returns the project only if it exists AND belongs to ownerID.

		Absent and not-owned are deliberately indistinguishable: both return
		apperr.NotFound so cross-tenant probing cannot confirm existence.

		Parameters:
		  - context: context.Context
		  - projectID: string (UUID)
		  - ownerID: string (UUID)

		Returns:
		  - *Project: Hydrated project metadata (no document body)
		  - error: apperr.NotFound or storage failures
	*/
	FindOwned(context context.Context, projectID, ownerID string) (*Project, error)

	/*
		FindDocument loads and decodes the full manuscript document.

		Parameters:
		  - context: context.Context
		  - projectID: string (UUID)

		Returns:
		  - *Document: Decoded manuscript body
		  - error: apperr.NotFound if the project is missing
	*/
	FindDocument(context context.Context, projectID string) (*Document, error)
}
