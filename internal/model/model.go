package model

// Package model contains the domain data structures shared across layers.
// No business logic here.

// ActionType names the kind of case activity a journal entry records.
//
// The set is open: new kinds may be added over time, but a retired name must
// never be reused with a different payload shape, or previously stored
// entries become unreadable.
type ActionType string

const (
	ActionCaseCreated      ActionType = "case-created"
	ActionCaseUpdated      ActionType = "case-updated"
	ActionCaseArchived     ActionType = "case-archived"
	ActionDocumentUploaded ActionType = "document-uploaded"
)

// Valid reports whether the action type is usable in a journal entry.
// Unknown non-empty values are accepted to keep the enumeration extensible.
func (a ActionType) Valid() bool {
	return a != ""
}
