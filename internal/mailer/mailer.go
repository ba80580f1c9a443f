// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package mailer is the outbound notification gateway for the beta-reading workflow.

It renders and delivers reader invitation emails. Each send succeeds or fails
atomically per recipient; the invitation service catches failures per reader
and reports them in a side-channel instead of rolling back invitation rows.

There is no retry queue. A failed delivery is recovered by an explicit
author-triggered resend, which reuses the original capability token.
*/
package mailer

import (
	"context"
	"time"
)

// ReaderInvitation is the payload for a single invitation (or resend) email.
type ReaderInvitation struct {
	ReaderEmail  string
	ReaderName   string
	ProjectTitle string
	AuthorName   string

	// AccessToken is embedded into the reader URL. It is the reader's only
	// credential, so the rendered link must never be logged.
	AccessToken string

	ExpiresAt         time.Time
	InvitationMessage string
	ChapterNames      []string
}

// Gateway delivers reader-facing notifications.
//
// # Contract
//
// SendReaderInvitation must succeed or fail atomically per call: either the
// message was handed to the outbound relay, or an error is returned and
// nothing was sent.
type Gateway interface {
	SendReaderInvitation(ctx context.Context, invitation ReaderInvitation) error
}
