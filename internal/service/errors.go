package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCase means the referenced case id is not registered.
	ErrInvalidCase = errors.New("case not found")
	// ErrDocumentNotFound means no document row matches the id within the case.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrActionRequired means an empty action type was supplied to append.
	ErrActionRequired = errors.New("action type is required")
	// ErrContentMismatch means stored bytes no longer match the recorded
	// digest. Never corrected silently.
	ErrContentMismatch = errors.New("stored content does not match recorded digest")
)

// PartialRecordError reports that a document record was persisted but its
// journal entry failed to append. It is distinct from total failure so the
// caller can re-journal by document id instead of re-uploading bytes.
type PartialRecordError struct {
	DocumentID string
	Err        error
}

func (e *PartialRecordError) Error() string {
	return fmt.Sprintf("document %s recorded but not journaled: %v", e.DocumentID, e.Err)
}

func (e *PartialRecordError) Unwrap() error { return e.Err }
