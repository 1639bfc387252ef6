package repository

import (
	"context"

	"caseledger/internal/model"
)

// CaseRepository defines data access for the case registry rows.
type CaseRepository interface {
	// Create inserts a new case row and returns the stored record.
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// Update rewrites the mutable fields (title, jurisdiction, tags,
	// updated_at, archived_at) of an existing case.
	Update(ctx context.Context, c *model.Case) (*model.Case, error)

	// FindByID returns a case by its ID.
	FindByID(ctx context.Context, id string) (*model.Case, error)

	// Exists reports whether a case with the given ID is registered.
	Exists(ctx context.Context, id string) (bool, error)
}
