package repository

import (
	"context"

	"caseledger/internal/model"
)

// DocumentRepository defines data access for document metadata rows.
// No business logic here, strictly persistence operations. Raw bytes live in
// the blob store; rows reference them by digest.
type DocumentRepository interface {
	// Create inserts a new document row. The caller provides all fields,
	// including ID and ImportedAt. Returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByCase returns all documents of a case ordered by import
	// timestamp ascending (id breaks ties for a stable order).
	ListByCase(ctx context.Context, caseID string) ([]model.Document, error)
}
