package model

// Case is the registry record the integrity subsystem journals against.
// Timestamps are seconds since epoch. ArchivedAt is nil for open cases.
type Case struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Jurisdiction string   `json:"jurisdiction"`
	Tags         []string `json:"tags"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
	ArchivedAt   *int64   `json:"archived_at,omitempty"`
}
