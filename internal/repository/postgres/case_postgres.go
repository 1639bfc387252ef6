package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"caseledger/internal/model"
	"caseledger/internal/repository"
)

// CasePostgres is a PostgreSQL implementation of repository.CaseRepository.
type CasePostgres struct {
	db *sql.DB
}

// NewCasePostgres creates a new CasePostgres repository.
func NewCasePostgres(db *sql.DB) *CasePostgres {
	return &CasePostgres{db: db}
}

var _ repository.CaseRepository = (*CasePostgres)(nil)

// Create inserts a new case row and returns the stored record.
func (r *CasePostgres) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	tagsJSON, err := marshalTags(c.Tags)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO cases (id, title, jurisdiction, tags_json, created_at, updated_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, jurisdiction, tags_json, created_at, updated_at, archived_at
	`
	return scanCase(r.db.QueryRowContext(ctx, q,
		c.ID, c.Title, c.Jurisdiction, tagsJSON, c.CreatedAt, c.UpdatedAt, c.ArchivedAt,
	))
}

// Update rewrites the mutable fields of an existing case.
func (r *CasePostgres) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	tagsJSON, err := marshalTags(c.Tags)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE cases
		SET title = $2, jurisdiction = $3, tags_json = $4, updated_at = $5, archived_at = $6
		WHERE id = $1
		RETURNING id, title, jurisdiction, tags_json, created_at, updated_at, archived_at
	`
	return scanCase(r.db.QueryRowContext(ctx, q,
		c.ID, c.Title, c.Jurisdiction, tagsJSON, c.UpdatedAt, c.ArchivedAt,
	))
}

// FindByID fetches a single case by its ID.
func (r *CasePostgres) FindByID(ctx context.Context, id string) (*model.Case, error) {
	const q = `
		SELECT id, title, jurisdiction, tags_json, created_at, updated_at, archived_at
		FROM cases
		WHERE id = $1
	`
	return scanCase(r.db.QueryRowContext(ctx, q, id))
}

// Exists reports whether a case row exists.
func (r *CasePostgres) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

func scanCase(row *sql.Row) (*model.Case, error) {
	var (
		c        model.Case
		tagsJSON string
		archived sql.NullInt64
	)
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Jurisdiction,
		&tagsJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
		&archived,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags of %s: %w", c.ID, err)
	}
	if archived.Valid {
		v := archived.Int64
		c.ArchivedAt = &v
	}
	return &c, nil
}
