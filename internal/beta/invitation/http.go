// Copyright (c) 2026 Triibes. All rights reserved.

package invitation

import (
	"net/http"
	"time"

	"github.com/TriibesDev/lyra-backend/internal/platform/middleware"
	requestutil "github.com/TriibesDev/lyra-backend/internal/platform/request"
	"github.com/TriibesDev/lyra-backend/internal/platform/respond"
	"github.com/TriibesDev/lyra-backend/internal/platform/validate"
	"github.com/TriibesDev/lyra-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

const (
	FieldItems = "items"
	FieldTotal = "total"
)

// # Handler Implementation

// Handler implements the author-side HTTP layer for invitation management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new invitation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches invitation and circle endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)

		author.Post("/projects/{projectID}/invitations", handler.CreateInvitations)
		author.Get("/invitations", handler.ListInvitations)
		author.Post("/invitations/{id}/resend", handler.ResendInvitation)
		author.Delete("/invitations/{id}", handler.RevokeInvitation)

		author.Patch("/projects/{projectID}/circles", handler.UpdateCircle)
	})
}

// # Invitation Creation

// createInvitationsRequest defines the inbound JSON schema for a reader batch.
type createInvitationsRequest struct {
	ChapterIDs []string  `json:"chapter_ids"`
	Message    string    `json:"message"`
	Readers    []Reader  `json:"readers"`
	ExpiresAt  time.Time `json:"expires_at"`
	CircleName string    `json:"circle_name"`
}

/*
POST /api/v1/projects/{projectID}/invitations.

Description: Invites a batch of readers to a chapter subset of the author's
project. The response carries the created invitations and a side-channel of
per-reader email delivery failures.

Request:
  - projectID: string (UUID)
  - body: createInvitationsRequest

Response:
  - 201: CreateResult: Created invitations plus email_errors
  - 400: 400: ErrInvalidJSON/Validation: Invalid payload
  - 401: 401: ErrUnauthorized: Authentication required
  - 404: 404: ErrNotFound: Project not found
  - 409: 409: QuotaExceeded: Active invitation cap reached
*/
func (handler *Handler) CreateInvitations(writer http.ResponseWriter, request *http.Request) {
	projectID := requestutil.ID(request, "projectID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createInvitationsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Create(request.Context(), claims, projectID, CreateInput{
		ChapterIDs: input.ChapterIDs,
		Message:    input.Message,
		Readers:    input.Readers,
		ExpiresAt:  input.ExpiresAt,
		CircleName: input.CircleName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

// # Invitation Listing

/*
GET /api/v1/invitations.

Description: Returns the author's invitations with live marker counts,
optionally filtered to a single project.

Request:
  - project_id: string (UUID, or "all"/absent for every project)
  - limit: int
  - page: int

Response:
  - 200: []Invitation: Paginated list, newest first
  - 401: 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListInvitations(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := request.URL.Query().Get("project_id")
	if projectID == "all" {
		projectID = ""
	}
	if projectID != "" {
		v := &validate.Validator{}
		v.UUID("project_id", projectID)
		if err := v.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	paginationParams := pagination.FromRequest(request)

	invitations, total, err := handler.service.List(request.Context(), claims.UserID, projectID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldItems: invitations,
		FieldTotal: total,
	})
}

// # Invitation Lifecycle

/*
POST /api/v1/invitations/{id}/resend.

Description: Re-delivers the invitation email with the original access link.
The token and expiry are unchanged.

Request:
  - id: string (UUID)

Response:
  - 204: No content
  - 403: 403: ErrForbidden: Invitation was revoked
  - 404: 404: ErrNotFound: Invitation not found
  - 410: 410: Expired: Invitation has expired
  - 503: 503: ServiceUnavailable: Email delivery failed
*/
func (handler *Handler) ResendInvitation(writer http.ResponseWriter, request *http.Request) {
	invitationID := requestutil.ID(request, "id")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Resend(request.Context(), claims, invitationID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/invitations/{id}.

Description: Revokes an invitation, immediately cutting the reader's access.
Revocation succeeds regardless of the invitation's current status.

Request:
  - id: string (UUID)

Response:
  - 204: No content
  - 401: 401: ErrUnauthorized: Authentication required
  - 404: 404: ErrNotFound: Invitation not found
*/
func (handler *Handler) RevokeInvitation(writer http.ResponseWriter, request *http.Request) {
	invitationID := requestutil.ID(request, "id")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Revoke(request.Context(), userID, invitationID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Circle Management

// updateCircleRequest addresses a circle by its exact chapter set and applies
// a rename, an archived-flag change, or both.
type updateCircleRequest struct {
	ChapterIDs []string `json:"chapter_ids"`
	NewName    *string  `json:"new_name,omitempty"`
	Archived   *bool    `json:"archived,omitempty"`
}

/*
PATCH /api/v1/projects/{projectID}/circles.

Description: Renames or archives the circle identified by the given chapter
set. Chapter ids may be submitted in any order.

Request:
  - projectID: string (UUID)
  - body: updateCircleRequest

Response:
  - 204: No content
  - 400: 400: ErrInvalidJSON/Validation: No operation supplied
  - 404: 404: ErrNotFound: No invitation matches the circle key
*/
func (handler *Handler) UpdateCircle(writer http.ResponseWriter, request *http.Request) {
	projectID := requestutil.ID(request, "projectID")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateCircleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Custom("chapter_ids", len(input.ChapterIDs) == 0, "Chapter set is required to identify the circle")
	v.Custom("new_name", input.NewName == nil && input.Archived == nil, "At least one of new_name or archived is required")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.NewName != nil {
		if err := handler.service.RenameCircle(request.Context(), userID, projectID, input.ChapterIDs, *input.NewName); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	if input.Archived != nil {
		if err := handler.service.ArchiveCircle(request.Context(), userID, projectID, input.ChapterIDs, *input.Archived); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.NoContent(writer)
}
