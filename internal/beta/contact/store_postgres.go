// Copyright (c) 2026 Triibes. All rights reserved.

package contact

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TriibesDev/lyra-backend/internal/platform/database/schema"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed contact aggregator.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

/*
AggregateByAuthor recomputes the contact rollup in one grouped query.

Description: Invitations fan out across markers in the join, so both counts
deduplicate on their own row identity. The display name is whichever the
author used on the most recent invitation to that email.
*/
func (repository *repository) AggregateByAuthor(context context.Context, authorID string) ([]*Contact, error) {
	i := schema.BetaInvitation
	m := schema.BetaMarker
	p := schema.CoreProject

	query := fmt.Sprintf(`
		SELECT
			i.%s,
			(array_agg(i.%s ORDER BY i.%s DESC))[1],
			COUNT(DISTINCT i.%s),
			COUNT(DISTINCT m.%s),
			array_agg(DISTINCT p.%s),
			MAX(i.%s)
		FROM %s i
		JOIN %s p ON p.%s = i.%s
		LEFT JOIN %s m ON m.%s = i.%s
		WHERE i.%s = $1
		GROUP BY i.%s
		ORDER BY MAX(i.%s) DESC`,
		i.ReaderEmail,
		i.ReaderName, i.CreatedAt,
		i.ID,
		m.ID,
		p.Title,
		i.LastActivityAt,
		i.Table,
		p.Table, p.ID, i.ProjectID,
		m.Table, m.InvitationID, i.ID,
		i.AuthorID,
		i.ReaderEmail,
		i.LastActivityAt)

	rows, err := repository.pool.Query(context, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to aggregate contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		var contact Contact
		err := rows.Scan(&contact.ReaderEmail, &contact.ReaderName,
			&contact.InvitationCount, &contact.MarkerCount,
			&contact.ProjectTitles, &contact.LastActivityAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}
	return contacts, rows.Err()
}
