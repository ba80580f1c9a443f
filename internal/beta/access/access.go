// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package access implements the reader-facing side of beta reading: resolving a
capability token into a filtered manuscript view and tracking the reader's
session.

Readers are anonymous. The 64-character access token in the URL is the sole
credential; possession of a live token grants exactly the chapter subset its
invitation names, nothing else. Every resolution re-checks expiry and
revocation, so an author's revoke cuts access on the reader's next request.
*/
package access

import "time"

// Session is a reader's per-invitation progress record.
//
// One session exists per invitation at most; it is created lazily on the
// first successful token resolution.
type Session struct {
	ID            string    `json:"id"`
	InvitationID  string    `json:"invitation_id"`
	LastChapterID string    `json:"last_chapter_id,omitempty"`
	CompletionPct float64   `json:"completion_pct"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReaderChapter is one chapter as projected for a reader.
//
// Number is the chapter's 1-based position in the full manuscript, so a
// reader granted chapters two and four sees "Chapter 2" and "Chapter 4",
// never a renumbered contiguous sequence.
type ReaderChapter struct {
	Number  int           `json:"number"`
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Summary string        `json:"summary,omitempty"`
	Scenes  []ReaderScene `json:"scenes"`
}

// ReaderScene is one scene inside a [ReaderChapter].
type ReaderScene struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ReaderView is everything a reader receives on token resolution: the
// filtered manuscript, the invitation's framing, and the reader's session.
type ReaderView struct {
	ProjectTitle string          `json:"project_title"`
	ReaderName   string          `json:"reader_name"`
	Message      string          `json:"message,omitempty"`
	Status       string          `json:"status"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Chapters     []ReaderChapter `json:"chapters"`
	Session      *Session        `json:"session"`
}
