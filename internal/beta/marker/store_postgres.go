// Copyright (c) 2026 Triibes. All rights reserved.

package marker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TriibesDev/lyra-backend/internal/platform/apperr"
	"github.com/TriibesDev/lyra-backend/internal/platform/database/schema"
	"github.com/TriibesDev/lyra-backend/internal/platform/dberr"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed marker store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// markerColumns is the aliased SELECT column list for marker rows.
func markerColumns(alias string) string {
	cols := schema.BetaMarker.Columns()
	aliased := make([]string, len(cols))
	for i, c := range cols {
		aliased[i] = alias + "." + c
	}
	return strings.Join(aliased, ", ")
}

// scanMarker hydrates one row into a [Marker].
func scanMarker(row pgx.Row, extra ...any) (*Marker, error) {
	var m Marker
	var markerType string
	var positionData []byte

	targets := []any{
		&m.ID, &m.InvitationID, &m.ProjectID, &m.MarkerID, &m.ChapterID, &m.SceneID,
		&markerType, &m.Text, &m.HighlightedText, &positionData,
		&m.Imported, &m.ImportedAt, &m.CreatedAt, &m.UpdatedAt,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	m.Type = Type(markerType)
	m.PositionData = positionData
	return &m, nil
}

/*
Create persists a new marker row.
*/
func (repository *repository) Create(context context.Context, marker *Marker) error {
	t := schema.BetaMarker

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.Table, strings.Join(t.Columns(), ", "))

	_, err := repository.pool.Exec(context, query,
		marker.ID, marker.InvitationID, marker.ProjectID, marker.MarkerID,
		marker.ChapterID, marker.SceneID, string(marker.Type), marker.Text,
		marker.HighlightedText, []byte(marker.PositionData),
		marker.Imported, marker.ImportedAt, marker.CreatedAt, marker.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err)
	}
	return nil
}

/*
ListByInvitation returns an invitation's markers with the reader name joined.

Description: Ownership rides in the JOIN: an invitation belonging to another
author yields zero rows, indistinguishable from an empty invitation. The
service layer turns that into NotFound after its own lookup.
*/
func (repository *repository) ListByInvitation(context context.Context, invitationID, authorID string) ([]*Marker, error) {
	m := schema.BetaMarker
	i := schema.BetaInvitation

	query := fmt.Sprintf(`
		SELECT %s, i.%s
		FROM %s m
		JOIN %s i ON i.%s = m.%s
		WHERE m.%s = $1 AND i.%s = $2
		ORDER BY m.%s ASC`,
		markerColumns("m"), i.ReaderName,
		m.Table,
		i.Table, i.ID, m.InvitationID,
		m.InvitationID, i.AuthorID,
		m.CreatedAt)

	rows, err := repository.pool.Query(context, query, invitationID, authorID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list markers: %w", err)
	}
	defer rows.Close()

	var markers []*Marker
	for rows.Next() {
		var readerName string
		marker, err := scanMarker(rows, &readerName)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan marker: %w", err)
		}
		marker.ReaderName = readerName
		markers = append(markers, marker)
	}
	return markers, rows.Err()
}

/*
UpdateText replaces the text of the marker matching (client marker id,
invitation).
*/
func (repository *repository) UpdateText(context context.Context, markerID, invitationID, text string, now time.Time) error {
	t := schema.BetaMarker

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4
		WHERE %s = $1 AND %s = $2`,
		t.Table, t.Text, t.UpdatedAt, t.MarkerID, t.InvitationID)

	tag, err := repository.pool.Exec(context, query, markerID, invitationID, text, now)
	if err != nil {
		return fmt.Errorf("postgres: failed to update marker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Marker")
	}
	return nil
}

/*
Delete removes the marker matching (client marker id, invitation).
*/
func (repository *repository) Delete(context context.Context, markerID, invitationID string) error {
	t := schema.BetaMarker

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.MarkerID, t.InvitationID)

	tag, err := repository.pool.Exec(context, query, markerID, invitationID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete marker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Marker")
	}
	return nil
}

/*
FindForAuthor loads one marker by row id, owner-checked through the
invitation join.
*/
func (repository *repository) FindForAuthor(context context.Context, id, authorID string) (*Marker, error) {
	m := schema.BetaMarker
	i := schema.BetaInvitation

	query := fmt.Sprintf(`
		SELECT %s, i.%s
		FROM %s m
		JOIN %s i ON i.%s = m.%s
		WHERE m.%s = $1 AND i.%s = $2`,
		markerColumns("m"), i.ReaderName,
		m.Table,
		i.Table, i.ID, m.InvitationID,
		m.ID, i.AuthorID)

	var readerName string
	marker, err := scanMarker(repository.pool.QueryRow(context, query, id, authorID), &readerName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Marker")
		}
		return nil, fmt.Errorf("postgres: failed to find marker: %w", err)
	}
	marker.ReaderName = readerName
	return marker, nil
}

/*
MarkImported flags the marker as imported and stamps the moment.
*/
func (repository *repository) MarkImported(context context.Context, id string, at time.Time) error {
	t := schema.BetaMarker

	query := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = $2, %s = $2
		WHERE %s = $1`,
		t.Table, t.Imported, t.ImportedAt, t.UpdatedAt, t.ID)

	tag, err := repository.pool.Exec(context, query, id, at)
	if err != nil {
		return fmt.Errorf("postgres: failed to mark marker imported: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Marker")
	}
	return nil
}
