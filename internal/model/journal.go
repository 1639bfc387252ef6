package model

// JournalEntry is one immutable record in a case's append-only journal.
//
// Seq is the storage-assigned append order and is the authoritative ordering;
// TS is advisory wall-clock metadata (seconds since epoch, non-decreasing
// within a case, ties allowed). PayloadHash covers the canonical serialization
// of Payload. PrevHash links the entry to its predecessor's EntryHash (empty
// for the first entry of a case), and EntryHash seals the entry header itself.
type JournalEntry struct {
	ID          string         `json:"id"`
	CaseID      string         `json:"case_id"`
	Seq         int64          `json:"-"`
	TS          int64          `json:"ts"`
	Actor       string         `json:"actor"`
	ActionType  ActionType     `json:"action_type"`
	Payload     map[string]any `json:"payload"`
	PayloadHash string         `json:"payload_hash"`
	PrevHash    string         `json:"prev_hash"`
	EntryHash   string         `json:"entry_hash"`
}
