package repository

import (
	"context"

	"caseledger/internal/model"
)

// JournalRepository defines persistence for the append-only journal.
//
// The interface deliberately exposes no update or delete: immutability of
// appended entries is enforced at this boundary, not by the storage engine.
type JournalRepository interface {
	// Append persists a new entry strictly after all prior entries of the
	// same case and returns it with the storage-assigned Seq. The write is
	// a single insert and therefore atomic: a crash leaves either the old
	// tail or the fully written entry, never a partial record.
	Append(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error)

	// LastByCase returns the most recently appended entry for a case, or
	// nil if the case has no entries yet.
	LastByCase(ctx context.Context, caseID string) (*model.JournalEntry, error)

	// ListByCase returns all entries of a case in append order ascending.
	// Append order is authoritative; timestamps are never used for ordering.
	ListByCase(ctx context.Context, caseID string) ([]model.JournalEntry, error)
}
