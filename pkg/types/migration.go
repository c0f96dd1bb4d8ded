package types

import "time"

// Migration error categories.
const (
	// CategoryRecoverable marks transient failures, e.g. a dependency not
	// yet migrated. Retry-safe.
	CategoryRecoverable = "recoverable"
	// CategoryData marks malformed legacy records needing a manual fix.
	// Not retry-safe.
	CategoryData = "data"
	// CategoryFatal marks programming or schema errors. Stops the batch.
	CategoryFatal = "fatal"
)

// ValidCategory reports whether c is a recognized error category.
func ValidCategory(c string) bool {
	return c == CategoryRecoverable || c == CategoryData || c == CategoryFatal
}

// Legacy table names used as the first half of a mapping key.
const (
	LegacyTableProjects       = "projects"
	LegacyTableTasks          = "tasks"
	LegacyTableCalendarEvents = "calendar_events"
)

// Feature flag names and scopes gating the migration dual-write path.
// Dual-write is enabled when the org flag OR the user flag is set.
const (
	FlagDualWrite = "graph_dual_write"

	FlagScopeOrg  = "org"
	FlagScopeUser = "user"
)

// Mapping links one legacy record to its graph entity. Rows are created
// once and never updated; uniqueness on (LegacyTable, LegacyID) is the
// source of truth for "already migrated".
type Mapping struct {
	LegacyTable string
	LegacyID    int64
	OntoID      string
	CreatedAt   time.Time
}

// MigrationContext parameterizes one migration run. Now is a logical
// clock so a run produces deterministic timestamps.
type MigrationContext struct {
	RunID       string
	BatchID     string
	DryRun      bool
	InitiatedBy string          // actor ID
	Flags       map[string]bool // feature-flag snapshot at run start
	Now         time.Time
}

// Summary counts per-record outcomes of a migration run. A partially
// failed batch still reports all three counts.
type Summary struct {
	Created int
	Skipped int
	Failed  int
}

// PreviewRecord is one would-be (or actual) write of a migration run.
// Preview is populated for commit runs too, so callers can display what
// happened.
type PreviewRecord struct {
	LegacyTable string
	LegacyID    int64
	OntoID      string // empty on dry-run previews of unwritten records
	Entity      *Entity
}

// LegacyTask is one row of the legacy flat task schema.
type LegacyTask struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Status      string // legacy status string (open, in_progress, done, ...)
	OwnerUserID string
	DueAt       *time.Time
	CreatedAt   time.Time
}

// LegacyCalendarEvent is one row of the legacy calendar schema. TaskID
// links the event to a legacy task when present.
type LegacyCalendarEvent struct {
	ID        int64
	ProjectID int64
	TaskID    *int64
	Title     string
	StartsAt  time.Time
	EndsAt    time.Time
	Provider  string
	CreatedAt time.Time
}
