package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"caseledger/internal/model"
	"caseledger/internal/repository"
)

// JournalPostgres is a PostgreSQL implementation of repository.JournalRepository.
//
// The seq column is an identity column, so append order is assigned by the
// database and a single INSERT is the whole write: entries become visible
// fully written or not at all.
type JournalPostgres struct {
	db *sql.DB
}

// NewJournalPostgres creates a new JournalPostgres repository.
func NewJournalPostgres(db *sql.DB) *JournalPostgres {
	return &JournalPostgres{db: db}
}

var _ repository.JournalRepository = (*JournalPostgres)(nil)

// Append inserts a new journal entry and returns it with the assigned seq.
func (r *JournalPostgres) Append(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	payloadJSON, err := json.Marshal(entry.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	const q = `
		INSERT INTO journal_entries (id, case_id, ts, actor, action_type, payload_json, payload_hash, prev_hash, entry_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq
	`
	out := *entry
	if err := r.db.QueryRowContext(ctx, q,
		entry.ID,
		entry.CaseID,
		entry.TS,
		entry.Actor,
		string(entry.ActionType),
		string(payloadJSON),
		entry.PayloadHash,
		entry.PrevHash,
		entry.EntryHash,
	).Scan(&out.Seq); err != nil {
		return nil, err
	}
	return &out, nil
}

// LastByCase returns the tail entry of a case's journal, nil when empty.
func (r *JournalPostgres) LastByCase(ctx context.Context, caseID string) (*model.JournalEntry, error) {
	const q = `
		SELECT seq, id, case_id, ts, actor, action_type, payload_json, payload_hash, prev_hash, entry_hash
		FROM journal_entries
		WHERE case_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`
	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, caseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

// ListByCase returns all entries of a case in append order ascending.
func (r *JournalPostgres) ListByCase(ctx context.Context, caseID string) ([]model.JournalEntry, error) {
	const q = `
		SELECT seq, id, case_id, ts, actor, action_type, payload_json, payload_hash, prev_hash, entry_hash
		FROM journal_entries
		WHERE case_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, q, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.JournalEntry, error) {
	var (
		e           model.JournalEntry
		actionType  string
		payloadJSON string
	)
	if err := row.Scan(
		&e.Seq,
		&e.ID,
		&e.CaseID,
		&e.TS,
		&e.Actor,
		&actionType,
		&payloadJSON,
		&e.PayloadHash,
		&e.PrevHash,
		&e.EntryHash,
	); err != nil {
		return nil, err
	}
	e.ActionType = model.ActionType(actionType)
	if err := json.Unmarshal([]byte(payloadJSON), &e.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload of %s: %w", e.ID, err)
	}
	return &e, nil
}
