// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package contact serves the per-author reader contact rollup.

A contact is a derived aggregate over one (author, reader email) pair: how
many invitations the reader has received, how much feedback they have left,
and which projects they have read. It exists for acknowledgement UIs only and
is never authoritative; the rollup is recomputed from the invitation and
marker tables and cached briefly in Redis, so it trails writes by up to the
cache TTL.
*/
package contact

import "time"

// Contact is the aggregated view of one beta reader across an author's
// projects.
type Contact struct {
	ReaderEmail     string     `json:"reader_email"`
	ReaderName      string     `json:"reader_name"`
	InvitationCount int        `json:"invitation_count"`
	MarkerCount     int        `json:"marker_count"`
	ProjectTitles   []string   `json:"project_titles"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
}
