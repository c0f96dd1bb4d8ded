package types

import "time"

// ErrorRecord is one categorized migration failure. Records are
// append-only and outlive the runs that produced them, so operators can
// triage without re-running migrations.
type ErrorRecord struct {
	ErrorID    string
	EntityType string
	Category   string // recoverable, data, fatal
	RunID      string
	ProjectID  string
	UserID     string
	Message    string
	CreatedAt  time.Time
}

// ErrorFilter narrows ledger queries. Zero-valued fields are ignored;
// set fields combine with AND. Search matches a substring of Message.
type ErrorFilter struct {
	UserID     string
	EntityType string
	Category   string
	RunID      string
	ProjectID  string
	Search     string
}

// Sort columns accepted by ListErrorRecords.
const (
	ErrorSortCreatedAt  = "created_at"
	ErrorSortEntityType = "entity_type"
	ErrorSortCategory   = "category"
)

// ErrorSort orders ledger query results.
type ErrorSort struct {
	Column string // one of the ErrorSort constants; created_at when empty
	Desc   bool
}

// Page bounds ledger query results. A non-positive limit returns all
// matches.
type Page struct {
	Limit  int
	Offset int
}
