// Copyright (c) 2026 Triibes. All rights reserved.

package access

import (
	"net/http"

	requestutil "github.com/TriibesDev/lyra-backend/internal/platform/request"
	"github.com/TriibesDev/lyra-backend/internal/platform/respond"
	"github.com/go-chi/chi/v5"
)

// # Handler Implementation

// Handler implements the reader-side HTTP layer.
//
// None of these endpoints require authentication; the access token in the
// path is the credential.
type Handler struct {
	service *Service
}

// NewHandler constructs a new access [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches reader endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/beta/{token}", handler.ResolveToken)
	api.Get("/beta/{token}/session", handler.GetSession)
	api.Put("/beta/{token}/progress", handler.UpdateProgress)
	api.Put("/beta/{token}/notes", handler.UpdateNotes)
}

// # Token Resolution

/*
GET /api/v1/beta/{token}.

Description: Resolves an access token into the reader's view: the accessible
chapters of the manuscript, the invitation's framing, and the reader's
session. First access accepts the invitation.

Request:
  - token: string (64-char hex)

Response:
  - 200: ReaderView: Filtered manuscript and session
  - 403: 403: ErrForbidden: Invitation was revoked
  - 404: 404: ErrNotFound: Unknown token
  - 410: 410: Expired: Invitation has expired
*/
func (handler *Handler) ResolveToken(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	view, err := handler.service.Resolve(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// # Session Tracking

/*
GET /api/v1/beta/{token}/session.

Description: Returns the reader's session (progress and notes) without the
manuscript payload.

Request:
  - token: string (64-char hex)

Response:
  - 200: Session: The reader's session
  - 404: 404: ErrNotFound: Unknown token or no session yet
*/
func (handler *Handler) GetSession(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	session, err := handler.service.Session(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// updateProgressRequest defines the inbound JSON schema for progress saves.
type updateProgressRequest struct {
	LastChapterID string  `json:"last_chapter_id"`
	CompletionPct float64 `json:"completion_pct"`
}

/*
PUT /api/v1/beta/{token}/progress.

Description: Records the reader's position. The completion percentage is
clamped to [0, 100].

Request:
  - token: string (64-char hex)
  - body: updateProgressRequest

Response:
  - 200: Session: The session after the update
  - 400: 400: ErrInvalidJSON/Validation: Chapter outside the accessible set
  - 404: 404: ErrNotFound: Unknown token or no session yet
*/
func (handler *Handler) UpdateProgress(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	var input updateProgressRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.UpdateProgress(request.Context(), token, ProgressInput{
		LastChapterID: input.LastChapterID,
		CompletionPct: input.CompletionPct,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// updateNotesRequest defines the inbound JSON schema for notes saves.
type updateNotesRequest struct {
	Notes string `json:"notes"`
}

/*
PUT /api/v1/beta/{token}/notes.

Description: Replaces the reader's free-form session notes.

Request:
  - token: string (64-char hex)
  - body: updateNotesRequest

Response:
  - 200: Session: The session after the update
  - 404: 404: ErrNotFound: Unknown token or no session yet
*/
func (handler *Handler) UpdateNotes(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	var input updateNotesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.UpdateNotes(request.Context(), token, input.Notes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}
