package postgres

import (
	"context"
	"database/sql"

	"caseledger/internal/model"
	"caseledger/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, case_id, filename, mime, sha256, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, case_id, filename, mime, sha256, imported_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.CaseID,
		doc.Filename,
		doc.Mime,
		doc.SHA256,
		doc.ImportedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.CaseID,
		&out.Filename,
		&out.Mime,
		&out.SHA256,
		&out.ImportedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, case_id, filename, mime, sha256, imported_at
		FROM documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.CaseID,
		&d.Filename,
		&d.Mime,
		&d.SHA256,
		&d.ImportedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByCase returns all documents of a case, oldest import first.
func (r *DocumentPostgres) ListByCase(ctx context.Context, caseID string) ([]model.Document, error) {
	const q = `
		SELECT id, case_id, filename, mime, sha256, imported_at
		FROM documents
		WHERE case_id = $1
		ORDER BY imported_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.CaseID,
			&d.Filename,
			&d.Mime,
			&d.SHA256,
			&d.ImportedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
