package model

// Document represents a file imported into a case.
// This is a pure domain model with no database-specific dependencies or tags.
// The SHA256 digest is always computed server-side from the stored bytes;
// two documents with identical content share one underlying blob but keep
// distinct records.
type Document struct {
	ID         string `json:"id"`
	CaseID     string `json:"case_id"`
	Filename   string `json:"filename"`
	Mime       string `json:"mime"`
	SHA256     string `json:"sha256"`
	ImportedAt int64  `json:"imported_at"`
}
