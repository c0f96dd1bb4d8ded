package types

import (
	"errors"
	"fmt"
)

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Validation and lookup errors.
var (
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidID      = errors.New("invalid entity ID")
	ErrInvalidData    = errors.New("invalid entity data")
	ErrInvalidTypeKey = errors.New("no machine registered for type key")
	ErrInvalidFilter  = errors.New("invalid filter value type")
	ErrInvalidMachine = errors.New("invalid machine definition")
)

// Access and transition errors. ErrTransitionConflict means another
// caller transitioned the entity first; safe to retry after re-reading
// the current state.
var (
	ErrAccessDenied       = errors.New("access denied")
	ErrNoSuchTransition   = errors.New("no transition for event from current state")
	ErrTransitionConflict = errors.New("concurrent transition conflict")
	ErrUnknownGuard       = errors.New("unknown guard")
	ErrUnknownAction      = errors.New("unknown action")
)

// Migration errors.
var (
	// ErrAlreadyMigrated reports that a legacy mapping row already exists
	// for the (legacy_table, legacy_id) pair. Treated as a benign skip by
	// the orchestrator, including when a concurrent writer won the insert.
	ErrAlreadyMigrated = errors.New("legacy record already migrated")

	// ErrDualWriteDisabled rejects a commit-mode migration run when
	// neither the org nor the user dual-write flag is set.
	ErrDualWriteDisabled = errors.New("dual-write is not enabled for this organization or user")
)

// GuardError reports which guard rejected a transition and why. The
// transition never commits when a guard rejects.
type GuardError struct {
	Guard  string
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("guard %s rejected transition: %s", e.Guard, e.Reason)
}

// MigrationError classifies a per-record migration failure. Category is
// one of CategoryRecoverable, CategoryData, or CategoryFatal.
type MigrationError struct {
	Category   string
	EntityType string
	Err        error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("%s migration error (%s): %v", e.EntityType, e.Category, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
