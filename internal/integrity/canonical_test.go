package integrity

import (
	"testing"

	"caseledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPayload(t *testing.T) {
	raw, err := CanonicalPayload(map[string]any{
		"b":   1,
		"a":   "x",
		"url": "https://example.com/?a=1&b=2",
	})
	require.NoError(t, err)

	// Sorted keys, compact separators, no HTML escaping, no trailing newline.
	assert.Equal(t, `{"a":"x","b":1,"url":"https://example.com/?a=1&b=2"}`, string(raw))
}

func TestCanonicalPayloadNested(t *testing.T) {
	raw, err := CanonicalPayload(map[string]any{
		"outer": map[string]any{"z": true, "a": []any{"1", 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"outer":{"a":["1",2],"z":true}}`, string(raw))
}

func TestPayloadHashOrderIndependent(t *testing.T) {
	// Same logical payload built in different insertion orders must hash
	// identically, including after a JSON round-trip turns ints into floats.
	p1 := map[string]any{"filename": "a.pdf", "sha256": "ff", "size": 10}
	p2 := map[string]any{"size": float64(10), "sha256": "ff", "filename": "a.pdf"}

	h1, err := PayloadHash(p1)
	require.NoError(t, err)
	h2, err := PayloadHash(p2)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestPayloadHashDiffers(t *testing.T) {
	h1, err := PayloadHash(map[string]any{"k": "v"})
	require.NoError(t, err)
	h2, err := PayloadHash(map[string]any{"k": "w"})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestEntryHash(t *testing.T) {
	entry := &model.JournalEntry{
		ID:          "jrn_0000000000000001",
		CaseID:      "case_0000000000000001",
		TS:          1700000000,
		Actor:       "admin",
		ActionType:  model.ActionDocumentUploaded,
		PayloadHash: "aa",
		PrevHash:    "",
	}
	h1, err := EntryHash(entry)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	// Deterministic
	h2, err := EntryHash(entry)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// Every header field participates
	mutations := []func(e *model.JournalEntry){
		func(e *model.JournalEntry) { e.ID = "jrn_0000000000000002" },
		func(e *model.JournalEntry) { e.CaseID = "case_0000000000000002" },
		func(e *model.JournalEntry) { e.TS = 1700000001 },
		func(e *model.JournalEntry) { e.Actor = "clerk" },
		func(e *model.JournalEntry) { e.ActionType = model.ActionCaseUpdated },
		func(e *model.JournalEntry) { e.PayloadHash = "bb" },
		func(e *model.JournalEntry) { e.PrevHash = "cc" },
	}
	for i, mutate := range mutations {
		changed := *entry
		mutate(&changed)
		got, err := EntryHash(&changed)
		require.NoError(t, err)
		assert.NotEqual(t, h1, got, "mutation %d did not change the hash", i)
	}
}
