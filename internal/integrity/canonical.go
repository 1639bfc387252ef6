package integrity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"caseledger/internal/model"
)

// CanonicalPayload serializes a journal payload into its canonical form:
// object keys sorted lexicographically, compact separators, UTF-8, no HTML
// escaping. Two logically identical payloads always produce identical bytes
// regardless of construction order, which is what makes payload hashes
// comparable across storage and transport round-trips.
//
// This is version 1 of the encoding; any future change must keep old stored
// hashes verifiable.
func CanonicalPayload(payload map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}
	// Encode appends a newline that is not part of the canonical form.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PayloadHash returns the SHA-256 hex digest of the canonical payload form.
func PayloadHash(payload map[string]any) (string, error) {
	raw, err := CanonicalPayload(payload)
	if err != nil {
		return "", err
	}
	return Digest(raw), nil
}

// EntryHash seals a journal entry header. It covers everything that defines
// the entry except the payload body, which is pinned through PayloadHash, and
// chains to the predecessor through PrevHash.
func EntryHash(e *model.JournalEntry) (string, error) {
	header := map[string]any{
		"id":           e.ID,
		"case_id":      e.CaseID,
		"ts":           e.TS,
		"actor":        e.Actor,
		"action_type":  string(e.ActionType),
		"payload_hash": e.PayloadHash,
		"prev_hash":    e.PrevHash,
	}
	raw, err := CanonicalPayload(header)
	if err != nil {
		return "", err
	}
	return Digest(raw), nil
}
