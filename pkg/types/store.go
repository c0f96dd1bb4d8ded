package types

import "time"

// Store is the persistence contract the graph, access, fsm, audit,
// ledger, and migration components share. Callers attach to a backend,
// operate on typed rows, and detach when done. All operations return
// ErrDetached when the store is not attached.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the data directory if needed. Returns ErrAlreadyAttached
	// when called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// InsertEntity persists a new entity row.
	InsertEntity(e *Entity) error

	// GetEntity retrieves an entity by kind and ID. Soft-deleted rows
	// are ErrNotFound unless includeDeleted is set.
	GetEntity(kind, id string, includeDeleted bool) (*Entity, error)

	// ListEntities returns a project's entities ordered by creation
	// time descending. An empty kind matches every kind. Soft-deleted
	// rows are excluded unless includeDeleted is set.
	ListEntities(projectID, kind string, includeDeleted bool) ([]*Entity, error)

	// UpdateEntityProps replaces the props bag without touching state.
	UpdateEntityProps(kind, id string, props map[string]any, updatedAt time.Time) error

	// UpdateEntityState is the conditional check-and-set for transitions:
	// the row is updated only when its current state equals fromState.
	// Returns false with a nil error when the condition fails, meaning
	// another caller transitioned the entity first.
	UpdateEntityState(kind, id, fromState, toState string, updatedAt time.Time) (bool, error)

	// SoftDeleteEntity sets deleted_at. Returns false when the entity was
	// already soft-deleted (callers treat that as a no-op success).
	SoftDeleteEntity(kind, id string, at time.Time) (bool, error)

	// InsertEdge persists a new edge row. No uniqueness is enforced at
	// write time; single-valued relations resolve at read time via
	// LatestEdges.
	InsertEdge(e *Edge) error

	// GetEdge retrieves an edge by ID.
	GetEdge(id string) (*Edge, error)

	// ListEdges returns edges matching the filter, ordered by creation
	// time descending.
	ListEdges(filter EdgeFilter) ([]*Edge, error)

	// DeleteEdge removes an edge row. Returns false when no row existed
	// (callers treat that as a no-op success).
	DeleteEdge(id string) (bool, error)

	// EnsureActor returns the actor ID for userID, creating the actor
	// when absent. Atomic under concurrent calls for the same userID.
	EnsureActor(userID string, now time.Time) (string, error)

	// GetActor retrieves an actor by ID.
	GetActor(actorID string) (*Actor, error)

	// UpsertMembership adds or reactivates a project membership at the
	// given level.
	UpsertMembership(m *Membership) error

	// RemoveMembership sets removed_at on an active membership.
	RemoveMembership(projectID, actorID string, at time.Time) error

	// MembershipLevel returns the active membership level of an actor on
	// a project; ok is false when no active membership exists.
	MembershipLevel(projectID, actorID string) (level string, ok bool, err error)

	// GetMapping retrieves a legacy mapping; ErrNotFound when absent.
	GetMapping(legacyTable string, legacyID int64) (*Mapping, error)

	// InsertMapping persists a mapping row with no accompanying entity,
	// used when a legacy record maps onto an entity that already exists.
	// Returns ErrAlreadyMigrated when the pair is already mapped.
	InsertMapping(m *Mapping) error

	// InsertEntityWithMapping persists an entity and its legacy mapping
	// as one unit: neither row exists if either insert fails. A mapping
	// uniqueness violation returns ErrAlreadyMigrated and writes nothing.
	InsertEntityWithMapping(e *Entity, m *Mapping) error

	// InsertAuditEntry appends one activity record.
	InsertAuditEntry(entry *AuditEntry) error

	// ListAuditEntries returns an entity's activity, oldest first.
	ListAuditEntries(kind, entityID string) ([]*AuditEntry, error)

	// InsertErrorRecord appends one migration error record.
	InsertErrorRecord(rec *ErrorRecord) error

	// ListErrorRecords returns ledger records matching the filter plus
	// the total match count before paging.
	ListErrorRecords(filter ErrorFilter, page Page, sort ErrorSort) ([]*ErrorRecord, int, error)

	// DeleteErrorRecords removes records by ID, returning how many rows
	// were deleted.
	DeleteErrorRecords(ids []string) (int, error)

	// DeleteErrorRecordsWhere removes every record matching the filter,
	// using the same predicate as ListErrorRecords.
	DeleteErrorRecordsWhere(filter ErrorFilter) (int, error)

	// SetFlag enables or disables a feature flag for an org or user scope.
	SetFlag(scope, scopeID, flag string, enabled bool) error

	// FlagEnabled reports whether a flag is set for the scope.
	FlagEnabled(scope, scopeID, flag string) (bool, error)

	// InsertLegacyTask seeds one legacy task row.
	InsertLegacyTask(t *LegacyTask) error

	// InsertLegacyCalendarEvent seeds one legacy calendar event row.
	InsertLegacyCalendarEvent(ev *LegacyCalendarEvent) error

	// ListLegacyTasks returns the legacy tasks of a legacy project.
	ListLegacyTasks(legacyProjectID int64) ([]*LegacyTask, error)

	// ListLegacyCalendarEvents returns the legacy calendar events of a
	// legacy project.
	ListLegacyCalendarEvents(legacyProjectID int64) ([]*LegacyCalendarEvent, error)
}
