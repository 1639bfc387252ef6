package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"caseledger/internal/integrity"
	"caseledger/internal/model"
	repoMocks "caseledger/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestJournal(repo *repoMocks.MockJournalRepository, cases *repoMocks.MockCaseRepository, at int64) *journalService {
	svc := NewJournalService(repo, cases).(*journalService)
	svc.now = func() time.Time { return time.Unix(at, 0) }
	return svc
}

// echoAppend makes the mock repository return the entry it was given, with a
// fixed seq, like the real insert does.
func echoAppend(seq int64) func(context.Context, *model.JournalEntry) *model.JournalEntry {
	return func(_ context.Context, e *model.JournalEntry) *model.JournalEntry {
		out := *e
		out.Seq = seq
		return &out
	}
}

func TestJournalAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("first entry of a case", func(t *testing.T) {
		repo := new(repoMocks.MockJournalRepository)
		cases := new(repoMocks.MockCaseRepository)
		svc := newTestJournal(repo, cases, 1700000000)

		cases.On("Exists", ctx, "case_1").Return(true, nil)
		repo.On("LastByCase", ctx, "case_1").Return(nil, nil)
		repo.On("Append", ctx, mock.Anything).Return(echoAppend(1), nil)

		payload := map[string]any{"title": "Dawn raid", "jurisdiction": "NL"}
		entry, err := svc.Append(ctx, "case_1", "admin", model.ActionCaseCreated, payload)
		require.NoError(t, err)

		assert.Equal(t, "case_1", entry.CaseID)
		assert.Equal(t, "admin", entry.Actor)
		assert.Equal(t, model.ActionCaseCreated, entry.ActionType)
		assert.Equal(t, int64(1700000000), entry.TS)
		assert.Equal(t, int64(1), entry.Seq)
		assert.True(t, len(entry.ID) > 4 && entry.ID[:4] == "jrn_")
		assert.Empty(t, entry.PrevHash)

		wantPayloadHash, err := integrity.PayloadHash(payload)
		require.NoError(t, err)
		assert.Equal(t, wantPayloadHash, entry.PayloadHash)

		wantEntryHash, err := integrity.EntryHash(entry)
		require.NoError(t, err)
		assert.Equal(t, wantEntryHash, entry.EntryHash)

		repo.AssertExpectations(t)
		cases.AssertExpectations(t)
	})

	t.Run("chains to the tail and keeps timestamps non-decreasing", func(t *testing.T) {
		repo := new(repoMocks.MockJournalRepository)
		cases := new(repoMocks.MockCaseRepository)
		// Tail timestamp is ahead of the wall clock (clock adjustment)
		svc := newTestJournal(repo, cases, 1700000000)

		tail := &model.JournalEntry{
			ID:        "jrn_tail",
			CaseID:    "case_1",
			TS:        1700000100,
			EntryHash: "tailhash",
		}
		cases.On("Exists", ctx, "case_1").Return(true, nil)
		repo.On("LastByCase", ctx, "case_1").Return(tail, nil)
		repo.On("Append", ctx, mock.Anything).Return(echoAppend(2), nil)

		entry, err := svc.Append(ctx, "case_1", "admin", model.ActionCaseUpdated, map[string]any{"title": "x"})
		require.NoError(t, err)

		assert.Equal(t, "tailhash", entry.PrevHash)
		assert.Equal(t, tail.TS, entry.TS, "timestamp must not go backwards within a case")
	})

	t.Run("unknown case", func(t *testing.T) {
		repo := new(repoMocks.MockJournalRepository)
		cases := new(repoMocks.MockCaseRepository)
		svc := newTestJournal(repo, cases, 1700000000)

		cases.On("Exists", ctx, "case_missing").Return(false, nil)

		_, err := svc.Append(ctx, "case_missing", "admin", model.ActionCaseCreated, nil)
		assert.ErrorIs(t, err, ErrInvalidCase)
		repo.AssertNotCalled(t, "Append")
	})

	t.Run("empty action type", func(t *testing.T) {
		svc := newTestJournal(new(repoMocks.MockJournalRepository), new(repoMocks.MockCaseRepository), 1700000000)

		_, err := svc.Append(ctx, "case_1", "admin", "", nil)
		assert.ErrorIs(t, err, ErrActionRequired)
	})
}

func TestJournalVerify(t *testing.T) {
	svc := newTestJournal(new(repoMocks.MockJournalRepository), new(repoMocks.MockCaseRepository), 0)

	payload := map[string]any{"document_id": "doc_1", "sha256": "ff"}
	hash, err := integrity.PayloadHash(payload)
	require.NoError(t, err)

	entry := &model.JournalEntry{Payload: payload, PayloadHash: hash}
	assert.True(t, svc.Verify(entry))

	// Any out-of-band payload change must be detected
	entry.Payload["sha256"] = "00"
	assert.False(t, svc.Verify(entry))
}

func TestJournalListByCaseEmpty(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockJournalRepository)
	cases := new(repoMocks.MockCaseRepository)
	svc := newTestJournal(repo, cases, 0)

	cases.On("Exists", ctx, "case_1").Return(true, nil)
	repo.On("ListByCase", ctx, "case_1").Return([]model.JournalEntry{}, nil)

	entries, err := svc.ListByCase(ctx, "case_1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

// buildChain produces a valid two-entry chain for chain verification tests.
func buildChain(t *testing.T) []model.JournalEntry {
	t.Helper()

	entries := make([]model.JournalEntry, 0, 2)
	prevHash := ""
	for i, payload := range []map[string]any{
		{"title": "case opened"},
		{"document_id": "doc_1", "sha256": "ff"},
	} {
		payloadHash, err := integrity.PayloadHash(payload)
		require.NoError(t, err)
		e := model.JournalEntry{
			ID:          integrity.NewID("jrn"),
			CaseID:      "case_1",
			Seq:         int64(i + 1),
			TS:          1700000000 + int64(i),
			Actor:       "admin",
			ActionType:  model.ActionCaseCreated,
			Payload:     payload,
			PayloadHash: payloadHash,
			PrevHash:    prevHash,
		}
		e.EntryHash, err = integrity.EntryHash(&e)
		require.NoError(t, err)
		prevHash = e.EntryHash
		entries = append(entries, e)
	}
	return entries
}

func TestJournalVerifyChain(t *testing.T) {
	ctx := context.Background()

	setup := func(entries []model.JournalEntry) *journalService {
		repo := new(repoMocks.MockJournalRepository)
		cases := new(repoMocks.MockCaseRepository)
		cases.On("Exists", ctx, "case_1").Return(true, nil)
		repo.On("ListByCase", ctx, "case_1").Return(entries, nil)
		return newTestJournal(repo, cases, 0)
	}

	t.Run("intact chain", func(t *testing.T) {
		report, err := setup(buildChain(t)).VerifyChain(ctx, "case_1")
		require.NoError(t, err)
		assert.True(t, report.OK)
		assert.Equal(t, 2, report.Entries)
		assert.Empty(t, report.FirstBadEntry)
	})

	t.Run("empty chain", func(t *testing.T) {
		report, err := setup([]model.JournalEntry{}).VerifyChain(ctx, "case_1")
		require.NoError(t, err)
		assert.True(t, report.OK)
		assert.Equal(t, 0, report.Entries)
	})

	t.Run("tampered payload", func(t *testing.T) {
		entries := buildChain(t)
		entries[1].Payload["sha256"] = "00"

		report, err := setup(entries).VerifyChain(ctx, "case_1")
		require.NoError(t, err)
		assert.False(t, report.OK)
		assert.Equal(t, entries[1].ID, report.FirstBadEntry)
		assert.Equal(t, "payload hash mismatch", report.Reason)
	})

	t.Run("broken predecessor link", func(t *testing.T) {
		entries := buildChain(t)
		entries[1].PrevHash = "severed"

		report, err := setup(entries).VerifyChain(ctx, "case_1")
		require.NoError(t, err)
		assert.False(t, report.OK)
		assert.Equal(t, entries[1].ID, report.FirstBadEntry)
		assert.Equal(t, "broken predecessor link", report.Reason)
	})

	t.Run("rewritten header", func(t *testing.T) {
		entries := buildChain(t)
		entries[0].Actor = "intruder"

		report, err := setup(entries).VerifyChain(ctx, "case_1")
		require.NoError(t, err)
		assert.False(t, report.OK)
		assert.Equal(t, entries[0].ID, report.FirstBadEntry)
		assert.Equal(t, "entry hash mismatch", report.Reason)
	})
}

// fakeJournalRepo stores entries in memory. It deliberately does not
// serialize the read-tail-then-append sequence; that is the service's job.
type fakeJournalRepo struct {
	mu      sync.Mutex
	entries map[string][]model.JournalEntry
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{entries: make(map[string][]model.JournalEntry)}
}

func (f *fakeJournalRepo) Append(_ context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *entry
	out.Seq = int64(len(f.entries[entry.CaseID]) + 1)
	f.entries[entry.CaseID] = append(f.entries[entry.CaseID], out)
	return &out, nil
}

func (f *fakeJournalRepo) LastByCase(_ context.Context, caseID string) (*model.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.entries[caseID]
	if len(list) == 0 {
		return nil, nil
	}
	last := list[len(list)-1]
	return &last, nil
}

func (f *fakeJournalRepo) ListByCase(_ context.Context, caseID string) ([]model.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.JournalEntry(nil), f.entries[caseID]...), nil
}

func TestJournalConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo := newFakeJournalRepo()
	cases := new(repoMocks.MockCaseRepository)
	cases.On("Exists", ctx, mock.Anything).Return(true, nil)

	svc := NewJournalService(repo, cases)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Append(ctx, "case_hot", "admin", model.ActionCaseUpdated, map[string]any{"n": n})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := svc.ListByCase(ctx, "case_hot")
	require.NoError(t, err)
	require.Len(t, entries, writers)

	// The per-case lock must have produced one linear chain: every entry
	// links to exactly the entry before it and timestamps never decrease.
	prevHash := ""
	var prevTS int64
	for _, e := range entries {
		assert.Equal(t, prevHash, e.PrevHash)
		assert.GreaterOrEqual(t, e.TS, prevTS)
		prevHash = e.EntryHash
		prevTS = e.TS
	}

	report, err := svc.VerifyChain(ctx, "case_hot")
	require.NoError(t, err)
	assert.True(t, report.OK)
}
