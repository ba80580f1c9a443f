// Copyright (c) 2026 Triibes. All rights reserved.

package marker

import (
	"encoding/json"
	"net/http"

	"github.com/TriibesDev/lyra-backend/internal/platform/middleware"
	requestutil "github.com/TriibesDev/lyra-backend/internal/platform/request"
	"github.com/TriibesDev/lyra-backend/internal/platform/respond"
	"github.com/go-chi/chi/v5"
)

const (
	FieldItems = "items"
	FieldTotal = "total"
)

// # Handler Implementation

// Handler implements the HTTP layer for markers, spanning the anonymous
// reader surface (/beta/{token}/markers) and the authenticated author
// surface (/invitations/{id}/markers, /markers/{id}/import).
type Handler struct {
	service *Service
}

// NewHandler constructs a new marker [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches marker endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Reader endpoints (token is the credential)
	api.Post("/beta/{token}/markers", handler.CreateMarker)
	api.Patch("/beta/{token}/markers/{markerID}", handler.UpdateMarker)
	api.Delete("/beta/{token}/markers/{markerID}", handler.DeleteMarker)

	// Author endpoints
	api.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)
		author.Get("/invitations/{id}/markers", handler.ListMarkers)
		author.Post("/markers/{id}/import", handler.ImportMarker)
	})
}

// # Reader Feedback

// createMarkerRequest defines the inbound JSON schema for new markers.
type createMarkerRequest struct {
	MarkerID        string          `json:"marker_id"`
	ChapterID       string          `json:"chapter_id"`
	SceneID         string          `json:"scene_id"`
	Type            string          `json:"type"`
	Text            string          `json:"text"`
	HighlightedText string          `json:"highlighted_text"`
	PositionData    json.RawMessage `json:"position_data"`
}

/*
POST /api/v1/beta/{token}/markers.

Description: Creates an anchored feedback marker against the token's
invitation.

Request:
  - token: string (64-char hex)
  - body: createMarkerRequest

Response:
  - 201: Marker: The persisted marker
  - 400: 400: ErrInvalidJSON/Validation: Invalid payload or chapter outside grant
  - 403: 403: ErrForbidden: Invitation revoked or expired
  - 404: 404: ErrNotFound: Unknown token
  - 409: 409: Conflict: Duplicate marker id for this invitation
*/
func (handler *Handler) CreateMarker(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	var input createMarkerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	marker, err := handler.service.Create(request.Context(), token, CreateInput{
		MarkerID:        input.MarkerID,
		ChapterID:       input.ChapterID,
		SceneID:         input.SceneID,
		Type:            input.Type,
		Text:            input.Text,
		HighlightedText: input.HighlightedText,
		PositionData:    input.PositionData,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, marker)
}

// updateMarkerRequest defines the inbound JSON schema for marker edits.
type updateMarkerRequest struct {
	Text string `json:"text"`
}

/*
PATCH /api/v1/beta/{token}/markers/{markerID}.

Description: Replaces the text of the reader's marker. The marker is
addressed by its client-generated id within the token's invitation.

Request:
  - token: string (64-char hex)
  - markerID: string (client-generated)
  - body: updateMarkerRequest

Response:
  - 204: No content
  - 400: 400: ErrInvalidJSON/Validation: Invalid payload
  - 404: 404: ErrNotFound: Unknown token or marker not in this invitation
*/
func (handler *Handler) UpdateMarker(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")
	markerID := requestutil.Param(request, "markerID")

	var input updateMarkerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateText(request.Context(), token, markerID, input.Text); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/beta/{token}/markers/{markerID}.

Description: Removes the reader's marker.

Request:
  - token: string (64-char hex)
  - markerID: string (client-generated)

Response:
  - 204: No content
  - 404: 404: ErrNotFound: Unknown token or marker not in this invitation
*/
func (handler *Handler) DeleteMarker(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")
	markerID := requestutil.Param(request, "markerID")

	if err := handler.service.Delete(request.Context(), token, markerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Author Review

/*
GET /api/v1/invitations/{id}/markers.

Description: Returns every marker a reader left on one invitation, oldest
first, with the reader's name attached.

Request:
  - id: string (invitation UUID)

Response:
  - 200: []Marker: The invitation's markers
  - 401: 401: ErrUnauthorized: Authentication required
  - 404: 404: ErrNotFound: Invitation not found
*/
func (handler *Handler) ListMarkers(writer http.ResponseWriter, request *http.Request) {
	invitationID := requestutil.ID(request, "id")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	markers, err := handler.service.ListForInvitation(request.Context(), userID, invitationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldItems: markers,
		FieldTotal: len(markers),
	})
}

/*
POST /api/v1/markers/{id}/import.

Description: Marks a marker as imported and returns the manuscript-shaped
annotation for the author's client to merge. Idempotent; re-import refreshes
the timestamp.

Request:
  - id: string (marker row UUID)

Response:
  - 200: Annotation: The annotation to merge
  - 401: 401: ErrUnauthorized: Authentication required
  - 404: 404: ErrNotFound: Marker not found or project not owned
*/
func (handler *Handler) ImportMarker(writer http.ResponseWriter, request *http.Request) {
	markerID := requestutil.ID(request, "id")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	annotation, err := handler.service.Import(request.Context(), userID, markerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, annotation)
}
