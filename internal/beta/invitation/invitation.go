// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package invitation owns the lifecycle of beta-reader invitations.

An invitation grants one reader token-gated, time-limited access to a fixed
subset of a manuscript's chapters. Invitations created together with the same
chapter scope form a named "circle"; circles are not stored entities, they are
the set of invitations sharing (project, chapter set, circle name).

Status machine:

	pending --(first access)--> accepted
	pending|accepted --(time, on access attempt)--> expired   (terminal)
	pending|accepted|expired --(owner action)--> revoked      (terminal)

Expired and revoked both permanently block reader access.
*/
package invitation

import (
	"encoding/json"
	"slices"
	"time"
)

// # Status

// Status is the lifecycle state of an invitation.
type Status string

const (
	// StatusPending means the reader has never opened the invitation link.
	StatusPending Status = "pending"
	// StatusAccepted is set once, on the reader's first successful access.
	StatusAccepted Status = "accepted"
	// StatusExpired is terminal; set automatically on an access attempt past expiry.
	StatusExpired Status = "expired"
	// StatusRevoked is terminal; set unconditionally by the owning author.
	StatusRevoked Status = "revoked"
)

// Terminal reports whether the status permanently blocks reader access.
func (s Status) Terminal() bool {
	return s == StatusExpired || s == StatusRevoked
}

// # Chapter Set

// ChapterSet is the immutable, canonical set of chapter ids an invitation grants.
//
// # Canonical form
//
// Ids are deduplicated and sorted at construction. Circle operations match
// invitations by chapter-set value equality, so the stored form must be
// independent of the order the author happened to pick chapters in.
// Reader-facing chapter ordering comes from the manuscript document, never
// from this set.
type ChapterSet struct {
	ids []string
}

// NewChapterSet builds the canonical set from raw chapter ids.
// Empty and duplicate entries are dropped.
func NewChapterSet(chapterIDs []string) ChapterSet {
	cleaned := make([]string, 0, len(chapterIDs))
	seen := make(map[string]struct{}, len(chapterIDs))

	for _, id := range chapterIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	slices.Sort(cleaned)
	return ChapterSet{ids: cleaned}
}

// IDs returns a copy of the canonical (sorted) chapter ids.
func (s ChapterSet) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of chapters in the set.
func (s ChapterSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether the set grants no chapters.
func (s ChapterSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// Contains reports whether the set grants the given chapter id.
func (s ChapterSet) Contains(chapterID string) bool {
	_, found := slices.BinarySearch(s.ids, chapterID)
	return found
}

// Equal reports value equality between two sets.
func (s ChapterSet) Equal(other ChapterSet) bool {
	return slices.Equal(s.ids, other.ids)
}

// MarshalJSON encodes the set as a plain JSON array of ids.
func (s ChapterSet) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

// UnmarshalJSON decodes a JSON array of ids into canonical form.
func (s *ChapterSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewChapterSet(raw)
	return nil
}

// # Invitation

// Invitation is one reader's capability to access a chapter subset.
type Invitation struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	AuthorID  string `json:"-"`

	// Token is the reader's only credential. It is returned to the owning
	// author (for copy-link UIs) but never appears in logs.
	Token string `json:"token"`

	// Chapters is a fixed snapshot taken at creation. Restructuring the
	// manuscript does not update it; the author re-invites to change scope.
	Chapters ChapterSet `json:"chapters_accessible"`

	Message string `json:"message,omitempty"`

	// ReaderName is author-facing only and non-authoritative.
	ReaderName  string `json:"reader_name"`
	ReaderEmail string `json:"reader_email"`

	Status Status `json:"status"`

	CircleName string `json:"circle_name"`
	Archived   bool   `json:"archived"`

	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at"`

	// MarkerCount is a live count joined in by list queries; it is not a
	// stored column.
	MarkerCount int `json:"marker_count"`
}

// # Email Side-Channel

// EmailError reports a per-reader delivery failure from invitation creation.
//
// Delivery failures never roll back invitation rows; the reader's invitation
// exists and is discoverable via resend.
type EmailError struct {
	ReaderEmail string `json:"reader_email"`
	Reason      string `json:"reason"`
}
