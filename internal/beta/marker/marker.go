// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package marker owns reader-authored annotations on shared manuscripts.

A marker is anchored to a chapter and scene by opaque editor identifiers and
carries a client-generated marker id. Ownership for edits and deletes is
proven solely by the (marker id, access token) pair resolving to the same
invitation; there is no per-session binding, so any holder of the token may
edit any of the invitation's markers.

Authors review markers per invitation and may import one back into their
manuscript; import marks the row and hands the caller a manuscript-shaped
annotation to merge client-side.
*/
package marker

import (
	"encoding/json"
	"time"
)

// Type tags the kind of feedback a marker carries.
type Type string

const (
	TypeNote       Type = "note"
	TypeQuestion   Type = "question"
	TypeSuggestion Type = "suggestion"
	TypeHighlight  Type = "highlight"
	TypeRevision   Type = "revision"
)

// Types lists every valid marker type, for validation.
func Types() []string {
	return []string{
		string(TypeNote), string(TypeQuestion), string(TypeSuggestion),
		string(TypeHighlight), string(TypeRevision),
	}
}

// Marker is one piece of anchored reader feedback.
//
// MarkerID is generated by the reader's device and is only unique within its
// invitation; ID is the server-side row identity.
type Marker struct {
	ID              string          `json:"id"`
	InvitationID    string          `json:"invitation_id"`
	ProjectID       string          `json:"project_id"`
	MarkerID        string          `json:"marker_id"`
	ChapterID       string          `json:"chapter_id"`
	SceneID         string          `json:"scene_id"`
	Type            Type            `json:"type"`
	Text            string          `json:"text"`
	HighlightedText string          `json:"highlighted_text,omitempty"`
	PositionData    json.RawMessage `json:"position_data,omitempty"`
	Imported        bool            `json:"imported"`
	ImportedAt      *time.Time      `json:"imported_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// ReaderName is joined in for author-side listings; it is not a column
	// of the marker row.
	ReaderName string `json:"reader_name,omitempty"`
}

// Annotation is the manuscript-shaped object handed to the author's client on
// import. The text body is prefixed with the reader's name so attribution
// survives the merge into the author's own annotation format.
type Annotation struct {
	Type            Type            `json:"type"`
	Text            string          `json:"text"`
	ChapterID       string          `json:"chapter_id"`
	SceneID         string          `json:"scene_id"`
	HighlightedText string          `json:"highlighted_text,omitempty"`
	PositionData    json.RawMessage `json:"position_data,omitempty"`
	ImportedAt      time.Time       `json:"imported_at"`
}
