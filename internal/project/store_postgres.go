// Copyright (c) 2026 Triibes. All rights reserved.

package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

// NewRepository constructs a PostgreSQL backed project store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

/*
FindOwned returns the project if owned by the given author.

Description: Ownership is part of the WHERE clause, so a project owned by a
different author scans as pgx.ErrNoRows and maps to the same NotFound as a
genuinely missing id.
*/
func (repository *repository) FindOwned(context context.Context, projectID, ownerID string) (*Project, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.CoreProject.ID, schema.CoreProject.OwnerID, schema.CoreProject.Title,
		schema.CoreProject.CreatedAt, schema.CoreProject.UpdatedAt,
		schema.CoreProject.Table,
		schema.CoreProject.ID, schema.CoreProject.OwnerID,
	)

	var project Project
	err := repository.pool.QueryRow(context, query, projectID, ownerID).Scan(
		&project.ID,
		&project.OwnerID,
		&project.Title,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Project")
		}
		return nil, fmt.Errorf("postgres: failed to find project: %w", err)
	}

	return &project, nil
}

/*
FindDocument loads the manuscript JSON document for a project.
*/
func (repository *repository) FindDocument(context context.Context, projectID string) (*Document, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CoreProject.Document, schema.CoreProject.Table, schema.CoreProject.ID)

	var raw []byte
	err := repository.pool.QueryRow(context, query, projectID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Project")
		}
		return nil, fmt.Errorf("postgres: failed to load project document: %w", err)
	}

	var document Document
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode project document: %w", err)
	}

	return &document, nil
}
