// Copyright (c) 2026 Triibes. All rights reserved.

package contact

import (
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

// Handler implements the HTTP layer for the reader contact rollup.
type Handler struct {
	service *Service
}

// NewHandler constructs a new contact [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the contact endpoint to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)
		author.Get("/reader-contacts", handler.ListContacts)
	})
}

/*
GET /api/v1/reader-contacts.

Description: Returns the author's beta readers aggregated across every
project, with invitation and feedback counts. The rollup is eventually
consistent; recent activity may lag by a few minutes.

Response:
  - 200: []Contact: Contacts ordered by most recent activity
  - 401: 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListContacts(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	contacts, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldItems: contacts,
		FieldTotal: len(contacts),
	})
}
