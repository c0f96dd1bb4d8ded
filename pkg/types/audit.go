package types

import "time"

// Audit actions recorded per entity mutation.
const (
	AuditCreated = "created"
	AuditUpdated = "updated"
	AuditDeleted = "deleted"
)

// AuditEntry is one append-only activity record with before/after
// snapshots and actor attribution. Entries are written asynchronously;
// a logging failure never fails the mutation that triggered it.
type AuditEntry struct {
	EntryID   string
	Kind      string
	EntityID  string
	Action    string // created, updated, deleted
	ActorID   string
	Before    map[string]any // nil for created
	After     map[string]any // nil for deleted
	CreatedAt time.Time
}
