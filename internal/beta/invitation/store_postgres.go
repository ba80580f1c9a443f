// Copyright (c) 2026 Triibes. All rights reserved.

package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

// NewRepository constructs a PostgreSQL backed invitation store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// invitationColumns is the SELECT column list shared by single-row lookups.
func invitationColumns(alias string) string {
	t := schema.BetaInvitation
	cols := []string{
		t.ID, t.ProjectID, t.AuthorID, t.Token, t.Chapters, t.Message,
		t.ReaderName, t.ReaderEmail, t.Status, t.CircleName, t.Archived,
		t.CreatedAt, t.ExpiresAt, t.AcceptedAt, t.LastActivityAt,
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// scanInvitation hydrates one row into an [Invitation].
func scanInvitation(row pgx.Row, extra ...any) (*Invitation, error) {
	var inv Invitation
	var rawChapters []byte
	var status string

	targets := []any{
		&inv.ID, &inv.ProjectID, &inv.AuthorID, &inv.Token, &rawChapters, &inv.Message,
		&inv.ReaderName, &inv.ReaderEmail, &status, &inv.CircleName, &inv.Archived,
		&inv.CreatedAt, &inv.ExpiresAt, &inv.AcceptedAt, &inv.LastActivityAt,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawChapters, &inv.Chapters); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode chapter set: %w", err)
	}
	inv.Status = Status(status)

	return &inv, nil
}

/*
CreateBatch inserts all invitations of one creation call atomically.

Description: The read-count-then-insert pattern is serialized per project with
a transaction-scoped advisory lock, closing the classic check-then-act gap.
Two concurrent batches for the same project queue behind the lock; the second
sees the first's rows in its count.
*/
func (repository *repository) CreateBatch(context context.Context, invitations []*Invitation, maxActive int, now time.Time) error {

	// Pre-condition verification
	if len(invitations) == 0 {
		return nil
	}
	projectID := invitations[0].ProjectID

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin invitation batch: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	// Serialize concurrent creation for this project. The lock is released
	// automatically at commit/rollback.
	if _, err := tx.Exec(context, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, projectID); err != nil {
		return fmt.Errorf("postgres: failed to acquire project lock: %w", err)
	}

	// Active = pending or accepted, not yet past expiry.
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE %s = $1 AND %s IN ($2, $3) AND %s > $4
	`,
		schema.BetaInvitation.Table,
		schema.BetaInvitation.ProjectID,
		schema.BetaInvitation.Status,
		schema.BetaInvitation.ExpiresAt,
	)

	var activeCount int
	err = tx.QueryRow(context, countQuery, projectID, string(StatusPending), string(StatusAccepted), now).Scan(&activeCount)
	if err != nil {
		return fmt.Errorf("postgres: failed to count active invitations: %w", err)
	}

	if activeCount+len(invitations) > maxActive {
		return apperr.QuotaExceeded(fmt.Sprintf(
			"Project already has %d active invitations; adding %d would exceed the limit of %d",
			activeCount, len(invitations), maxActive,
		))
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s,
			%s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		schema.BetaInvitation.Table,
		schema.BetaInvitation.ID, schema.BetaInvitation.ProjectID, schema.BetaInvitation.AuthorID,
		schema.BetaInvitation.Token, schema.BetaInvitation.Chapters,
		schema.BetaInvitation.Message, schema.BetaInvitation.ReaderName, schema.BetaInvitation.ReaderEmail,
		schema.BetaInvitation.Status, schema.BetaInvitation.CircleName,
		schema.BetaInvitation.Archived, schema.BetaInvitation.CreatedAt,
		schema.BetaInvitation.ExpiresAt, schema.BetaInvitation.LastActivityAt,
	)

	for _, inv := range invitations {
		chapters, err := json.Marshal(inv.Chapters)
		if err != nil {
			return fmt.Errorf("postgres: failed to encode chapter set: %w", err)
		}

		_, err = tx.Exec(context, insertQuery,
			inv.ID, inv.ProjectID, inv.AuthorID,
			inv.Token, chapters,
			inv.Message, inv.ReaderName, inv.ReaderEmail,
			string(inv.Status), inv.CircleName,
			inv.Archived, inv.CreatedAt,
			inv.ExpiresAt, inv.LastActivityAt,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to insert invitation: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit invitation batch: %w", err)
	}

	return nil
}

/*
ListByAuthor retrieves the author's invitations with a live marker count.

Description: The marker count is a correlated subquery against beta.marker;
the total row count rides along as a window function to avoid a second query.
*/
func (repository *repository) ListByAuthor(context context.Context, authorID, projectID string, limit, offset int) ([]*Invitation, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM %s m WHERE m.%s = i.%s) AS marker_count,
			COUNT(*) OVER() AS total_count
		FROM %s i
		WHERE i.%s = $1
	`,
		invitationColumns("i"),
		schema.BetaMarker.Table, schema.BetaMarker.InvitationID, schema.BetaInvitation.ID,
		schema.BetaInvitation.Table,
		schema.BetaInvitation.AuthorID,
	))
	args = append(args, authorID)
	argID++

	// Project filter injection ("" means all of the author's projects)
	if projectID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND i.%s = $%d", schema.BetaInvitation.ProjectID, argID))
		args = append(args, projectID)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY i.%s DESC", schema.BetaInvitation.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	var totalCount int

	for rows.Next() {
		var markerCount int
		inv, err := scanInvitation(rows, &markerCount, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan invitation: %w", err)
		}
		inv.MarkerCount = markerCount
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: invitation rows failed: %w", err)
	}

	return invitations, totalCount, nil
}

/*
FindByID returns the invitation with the given id.
*/
func (repository *repository) FindByID(context context.Context, id string) (*Invitation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s i WHERE i.%s = $1`,
		invitationColumns("i"), schema.BetaInvitation.Table, schema.BetaInvitation.ID)

	inv, err := scanInvitation(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Invitation")
		}
		return nil, fmt.Errorf("postgres: failed to find invitation by id: %w", err)
	}

	return inv, nil
}

/*
FindByToken resolves a capability token to its invitation.
*/
func (repository *repository) FindByToken(context context.Context, token string) (*Invitation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s i WHERE i.%s = $1`,
		invitationColumns("i"), schema.BetaInvitation.Table, schema.BetaInvitation.Token)

	inv, err := scanInvitation(repository.pool.QueryRow(context, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Invitation")
		}
		return nil, fmt.Errorf("postgres: failed to find invitation by token: %w", err)
	}

	return inv, nil
}

/*
Accept performs the pending→accepted transition.

Description: Guarded on status='pending'. A concurrent resolve that loses the
race updates zero rows, which is fine: acceptedat is set exactly once.
*/
func (repository *repository) Accept(context context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2
		WHERE %s = $3 AND %s = $4
	`,
		schema.BetaInvitation.Table,
		schema.BetaInvitation.Status, schema.BetaInvitation.AcceptedAt,
		schema.BetaInvitation.ID, schema.BetaInvitation.Status,
	)

	_, err := repository.pool.Exec(context, query, string(StatusAccepted), at, id, string(StatusPending))
	if err != nil {
		return fmt.Errorf("postgres: failed to accept invitation: %w", err)
	}

	return nil
}

/*
MarkExpired sets the terminal expired status.

Description: Guarded on the two live statuses so an already revoked
invitation keeps its revocation record.
*/
func (repository *repository) MarkExpired(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s IN ($3, $4)`,
		schema.BetaInvitation.Table,
		schema.BetaInvitation.Status,
		schema.BetaInvitation.ID, schema.BetaInvitation.Status,
	)

	_, err := repository.pool.Exec(context, query, string(StatusExpired), id, string(StatusPending), string(StatusAccepted))
	if err != nil {
		return fmt.Errorf("postgres: failed to expire invitation: %w", err)
	}

	return nil
}

/*
Revoke sets the terminal revoked status, unconditionally on current status.
*/
func (repository *repository) Revoke(context context.Context, id, authorID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3`,
		schema.BetaInvitation.Table,
		schema.BetaInvitation.Status,
		schema.BetaInvitation.ID, schema.BetaInvitation.AuthorID,
	)

	result, err := repository.pool.Exec(context, query, string(StatusRevoked), id, authorID)
	if err != nil {
		return fmt.Errorf("postgres: failed to revoke invitation: %w", err)
	}

	// Missing and not-owned rows are indistinguishable on purpose.
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Invitation")
	}

	return nil
}

/*
TouchActivity bumps the last-activity timestamp.
*/
func (repository *repository) TouchActivity(context context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.BetaInvitation.Table, schema.BetaInvitation.LastActivityAt, schema.BetaInvitation.ID)

	_, err := repository.pool.Exec(context, query, at, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to touch invitation activity: %w", err)
	}

	return nil
}

/*
UpdateCircle batch-updates all invitations matching the circle's composite key.

Description: The chapter set is stored in canonical (sorted, deduplicated)
form, so a jsonb equality comparison against the canonical form of the
caller's set matches regardless of the order the chapters were submitted in.
*/
func (repository *repository) UpdateCircle(context context.Context, authorID, projectID string, chapters ChapterSet, update CircleUpdate) (int64, error) {

	var setClauses []string
	var args []any
	argID := 1

	if update.NewName != nil {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.BetaInvitation.CircleName, argID))
		args = append(args, *update.NewName)
		argID++
	}
	if update.Archived != nil {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.BetaInvitation.Archived, argID))
		args = append(args, *update.Archived)
		argID++
	}
	if len(setClauses) == 0 {
		return 0, nil
	}

	canonical, err := json.Marshal(chapters)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to encode chapter set: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s
		WHERE %s = $%d AND %s = $%d AND %s = $%d::jsonb
	`,
		schema.BetaInvitation.Table,
		strings.Join(setClauses, ", "),
		schema.BetaInvitation.AuthorID, argID,
		schema.BetaInvitation.ProjectID, argID+1,
		schema.BetaInvitation.Chapters, argID+2,
	)
	args = append(args, authorID, projectID, canonical)

	result, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to update circle: %w", err)
	}

	return result.RowsAffected(), nil
}
