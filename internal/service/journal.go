package service

import (
	"context"
	"fmt"
	"time"

	"caseledger/internal/integrity"
	"caseledger/internal/model"
	"caseledger/internal/repository"
)

// ChainReport is the result of verifying a case's whole journal.
type ChainReport struct {
	OK            bool   `json:"ok"`
	Entries       int    `json:"entries"`
	FirstBadEntry string `json:"first_bad_entry,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// JournalService is the append-only journal boundary. There is no update or
// delete here and none exists in the repository beneath it either.
type JournalService interface {
	// Append records one action against a case. It computes the payload
	// hash over the canonical payload serialization, links the entry to
	// the case's current tail, and persists it. Appends for the same case
	// are mutually exclusive; timestamps never decrease within a case.
	Append(ctx context.Context, caseID, actor string, action model.ActionType, payload map[string]any) (*model.JournalEntry, error)

	// ListByCase returns a case's entries in append order ascending.
	// A registered case with no entries yields an empty slice, not an error.
	ListByCase(ctx context.Context, caseID string) ([]model.JournalEntry, error)

	// Verify recomputes the payload hash of an entry and compares it to the
	// stored one. False signals payload corruption or tampering.
	Verify(entry *model.JournalEntry) bool

	// VerifyChain walks a case's journal and checks every payload hash,
	// entry hash, and predecessor link.
	VerifyChain(ctx context.Context, caseID string) (*ChainReport, error)
}

type journalService struct {
	repo  repository.JournalRepository
	cases repository.CaseRepository
	locks *caseLocks
	now   func() time.Time
}

// NewJournalService constructs a JournalService over the given repositories.
func NewJournalService(repo repository.JournalRepository, cases repository.CaseRepository) JournalService {
	return &journalService{
		repo:  repo,
		cases: cases,
		locks: newCaseLocks(),
		now:   time.Now,
	}
}

func (s *journalService) Append(ctx context.Context, caseID, actor string, action model.ActionType, payload map[string]any) (*model.JournalEntry, error) {
	if !action.Valid() {
		return nil, ErrActionRequired
	}
	if payload == nil {
		payload = map[string]any{}
	}

	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return nil, ErrInvalidCase
	}

	// Per-case critical section: read the tail, build the entry against it,
	// insert. Different cases do not contend.
	unlock := s.locks.acquire(caseID)
	defer unlock()

	last, err := s.repo.LastByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("read journal tail: %w", err)
	}

	ts := s.now().Unix()
	prevHash := ""
	if last != nil {
		prevHash = last.EntryHash
		if last.TS > ts {
			// Clock went backwards; keep the per-case sequence non-decreasing.
			ts = last.TS
		}
	}

	payloadHash, err := integrity.PayloadHash(payload)
	if err != nil {
		return nil, err
	}

	entry := &model.JournalEntry{
		ID:          integrity.NewID("jrn"),
		CaseID:      caseID,
		TS:          ts,
		Actor:       actor,
		ActionType:  action,
		Payload:     payload,
		PayloadHash: payloadHash,
		PrevHash:    prevHash,
	}
	entry.EntryHash, err = integrity.EntryHash(entry)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("append journal entry: %w", err)
	}
	return stored, nil
}

func (s *journalService) ListByCase(ctx context.Context, caseID string) ([]model.JournalEntry, error) {
	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return nil, ErrInvalidCase
	}
	return s.repo.ListByCase(ctx, caseID)
}

func (s *journalService) Verify(entry *model.JournalEntry) bool {
	got, err := integrity.PayloadHash(entry.Payload)
	if err != nil {
		return false
	}
	return got == entry.PayloadHash
}

func (s *journalService) VerifyChain(ctx context.Context, caseID string) (*ChainReport, error) {
	entries, err := s.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	report := &ChainReport{OK: true, Entries: len(entries)}
	prevHash := ""
	for i := range entries {
		e := &entries[i]
		if !s.Verify(e) {
			return badEntry(report, e.ID, "payload hash mismatch"), nil
		}
		if e.PrevHash != prevHash {
			return badEntry(report, e.ID, "broken predecessor link"), nil
		}
		wantEntryHash, err := integrity.EntryHash(e)
		if err != nil {
			return nil, err
		}
		if wantEntryHash != e.EntryHash {
			return badEntry(report, e.ID, "entry hash mismatch"), nil
		}
		prevHash = e.EntryHash
	}
	return report, nil
}

func badEntry(r *ChainReport, id, reason string) *ChainReport {
	r.OK = false
	r.FirstBadEntry = id
	r.Reason = reason
	return r
}
