// Copyright (c) 2026 Triibes. All rights reserved.

package access

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/database/schema"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed session store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// scanSession hydrates one row into a [Session].
func scanSession(row pgx.Row) (*Session, error) {
	var session Session
	var lastChapterID *string

	err := row.Scan(&session.ID, &session.InvitationID, &lastChapterID,
		&session.CompletionPct, &session.Notes, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastChapterID != nil {
		session.LastChapterID = *lastChapterID
	}
	return &session, nil
}

/*
FindOrCreate returns the invitation's session, inserting an empty one if none
exists.

Description: The unique constraint on invitationid plus ON CONFLICT makes the
lazy creation race-free; two concurrent first accesses both land on the same
row.
*/
func (repository *repository) FindOrCreate(context context.Context, sessionID, invitationID string, now time.Time) (*Session, error) {
	t := schema.BetaSession

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, 0, '', $3, $3)
		ON CONFLICT (%s) DO UPDATE SET %s = %s.%s
		RETURNING %s, %s, %s, %s, %s, %s, %s`,
		t.Table, t.ID, t.InvitationID, t.Completion, t.Notes, t.CreatedAt, t.UpdatedAt,
		t.InvitationID, t.InvitationID, t.Table, t.InvitationID,
		t.ID, t.InvitationID, t.LastChapterID, t.Completion, t.Notes, t.CreatedAt, t.UpdatedAt)

	session, err := scanSession(repository.pool.QueryRow(context, query, sessionID, invitationID, now))
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find or create session: %w", err)
	}
	return session, nil
}

/*
FindByInvitation returns the session attached to an invitation.
*/
func (repository *repository) FindByInvitation(context context.Context, invitationID string) (*Session, error) {
	t := schema.BetaSession

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s WHERE %s = $1`,
		t.ID, t.InvitationID, t.LastChapterID, t.Completion, t.Notes, t.CreatedAt, t.UpdatedAt,
		t.Table, t.InvitationID)

	session, err := scanSession(repository.pool.QueryRow(context, query, invitationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres: failed to find session: %w", err)
	}
	return session, nil
}

/*
UpdateProgress sets the reader's position and completion percentage.
*/
func (repository *repository) UpdateProgress(context context.Context, invitationID, lastChapterID string, completionPct float64, now time.Time) error {
	t := schema.BetaSession

	// An empty chapter ID keeps the previously stored position.
	query := fmt.Sprintf(`
		UPDATE %s SET %s = COALESCE(NULLIF($2, ''), %s), %s = $3, %s = $4
		WHERE %s = $1`,
		t.Table, t.LastChapterID, t.LastChapterID, t.Completion, t.UpdatedAt, t.InvitationID)

	tag, err := repository.pool.Exec(context, query, invitationID, lastChapterID, completionPct, now)
	if err != nil {
		return fmt.Errorf("postgres: failed to update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Session")
	}
	return nil
}

/*
UpdateNotes replaces the reader's session notes.
*/
func (repository *repository) UpdateNotes(context context.Context, invitationID, notes string, now time.Time) error {
	t := schema.BetaSession

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3
		WHERE %s = $1`,
		t.Table, t.Notes, t.UpdatedAt, t.InvitationID)

	tag, err := repository.pool.Exec(context, query, invitationID, notes, now)
	if err != nil {
		return fmt.Errorf("postgres: failed to update notes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Session")
	}
	return nil
}
