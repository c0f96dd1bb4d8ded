// Package migrate copies legacy flat-relational records into the
// entity graph while the legacy schema stays live. Runs are
// incremental and idempotent: the legacy mapping table is the source
// of truth for "already migrated", errors are classified per record
// into the ledger, and dry-run mode previews without writing.
package migrate

import (
	"errors"
	"fmt"
	"time"

	"github.com/praxis-works/onto/internal/access"
	"github.com/praxis-works/onto/internal/audit"
	"github.com/praxis-works/onto/internal/fsm"
	"github.com/praxis-works/onto/internal/ledger"
	"github.com/praxis-works/onto/pkg/types"
)

// Orchestrator runs migrations per legacy project. It is the only
// component permitted to write legacy mapping rows.
type Orchestrator struct {
	store    types.Store
	access   *access.Service
	machines *fsm.Registry
	log      *audit.Logger
	ledger   *ledger.Service
	notifier types.Notifier
}

// NewOrchestrator wires the orchestrator. notifier defaults to a no-op
// when nil.
func NewOrchestrator(store types.Store, acc *access.Service, machines *fsm.Registry, log *audit.Logger, led *ledger.Service, notifier types.Notifier) *Orchestrator {
	if notifier == nil {
		notifier = types.NopNotifier{}
	}
	return &Orchestrator{
		store:    store,
		access:   acc,
		machines: machines,
		log:      log,
		ledger:   led,
		notifier: notifier,
	}
}

// Result is the outcome of one migration run. Preview is always
// populated, in commit mode too, so callers can display what happened.
// TaskMappings carries legacy task ID → graph entity ID for dependent
// migrators (calendar events reference migrated tasks through it).
type Result struct {
	Summary      types.Summary
	Preview      []types.PreviewRecord
	TaskMappings map[int64]string
}

// FlagSnapshot captures the dual-write gate for a run: the org flag OR
// the user flag enables it, so an org-wide rollout and an individual
// opt-in both function independently.
func (o *Orchestrator) FlagSnapshot(orgID, userID string) (map[string]bool, error) {
	orgOn, err := o.store.FlagEnabled(types.FlagScopeOrg, orgID, types.FlagDualWrite)
	if err != nil {
		return nil, fmt.Errorf("reading org flag: %w", err)
	}
	userOn, err := o.store.FlagEnabled(types.FlagScopeUser, userID, types.FlagDualWrite)
	if err != nil {
		return nil, fmt.Errorf("reading user flag: %w", err)
	}
	return map[string]bool{types.FlagDualWrite: orgOn || userOn}, nil
}

// MapProject records that a legacy project corresponds to an existing
// graph project entity. Idempotent: an existing mapping to the same
// entity is a no-op, a mapping to a different entity is a conflict.
func (o *Orchestrator) MapProject(mc types.MigrationContext, legacyProjectID int64, projectID string) error {
	if _, err := o.store.GetEntity(types.KindProject, projectID, false); err != nil {
		return err
	}
	err := o.store.InsertMapping(&types.Mapping{
		LegacyTable: types.LegacyTableProjects,
		LegacyID:    legacyProjectID,
		OntoID:      projectID,
		CreatedAt:   mc.Now,
	})
	if errors.Is(err, types.ErrAlreadyMigrated) {
		existing, getErr := o.store.GetMapping(types.LegacyTableProjects, legacyProjectID)
		if getErr != nil {
			return getErr
		}
		if existing.OntoID != projectID {
			return fmt.Errorf("legacy project %d already mapped to %s: %w", legacyProjectID, existing.OntoID, types.ErrAlreadyMigrated)
		}
		return nil
	}
	return err
}

// Run migrates a legacy project's tasks and then its calendar events.
// Task migration completes first so calendar migration can translate
// task references through the produced mapping table. One bad record
// never aborts the batch; a fatal error does, surfaced as the returned
// error alongside the partial result.
func (o *Orchestrator) Run(mc types.MigrationContext, legacyProjectID int64) (*Result, error) {
	if !mc.DryRun && !mc.Flags[types.FlagDualWrite] {
		return nil, types.ErrDualWriteDisabled
	}

	result := &Result{TaskMappings: make(map[int64]string)}

	// Resolve the mapped graph project once so every ledger record of
	// this run is filterable by project. An unmapped project leaves it
	// empty; the per-record data errors explain why.
	projectID, err := o.mappedProject(legacyProjectID)
	if err != nil {
		return result, err
	}

	tasks, err := o.store.ListLegacyTasks(legacyProjectID)
	if err != nil {
		return result, fmt.Errorf("listing legacy tasks: %w", err)
	}
	events, err := o.store.ListLegacyCalendarEvents(legacyProjectID)
	if err != nil {
		return result, fmt.Errorf("listing legacy calendar events: %w", err)
	}
	total := len(tasks) + len(events)
	processed := 0

	tm := &taskMigrator{o: o, mc: mc}
	for _, task := range tasks {
		recordErr := tm.migrate(task, result)
		processed++
		o.notifier.MigrationProgress(types.ProgressEvent{
			RunID:            mc.RunID,
			RecordsProcessed: processed,
			RecordsTotal:     total,
		})
		if recordErr != nil {
			result.Summary.Failed++
			if fatal := o.step(mc, projectID, task.OwnerUserID, recordErr); fatal != nil {
				return result, fatal
			}
		}
	}

	cm := &calendarMigrator{o: o, mc: mc}
	for _, event := range events {
		recordErr := cm.migrate(event, result)
		processed++
		o.notifier.MigrationProgress(types.ProgressEvent{
			RunID:            mc.RunID,
			RecordsProcessed: processed,
			RecordsTotal:     total,
		})
		if recordErr != nil {
			result.Summary.Failed++
			if fatal := o.step(mc, projectID, "", recordErr); fatal != nil {
				return result, fatal
			}
		}
	}

	return result, nil
}

// mappedProject resolves the graph project a legacy project is mapped
// to. Returns empty when no mapping exists yet.
func (o *Orchestrator) mappedProject(legacyProjectID int64) (string, error) {
	mapping, err := o.store.GetMapping(types.LegacyTableProjects, legacyProjectID)
	if errors.Is(err, types.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving project mapping: %w", err)
	}
	return mapping.OntoID, nil
}

// step writes the per-record failure into the ledger and decides
// whether the batch continues. Only fatal errors come back non-nil.
// The legacy record's owner is the ledger record's user when known; it
// is the more useful triage key than the run initiator.
func (o *Orchestrator) step(mc types.MigrationContext, projectID, ownerUserID string, err error) error {
	merr := classify(err)
	userID := mc.InitiatedBy
	if ownerUserID != "" {
		userID = ownerUserID
	}
	_, recErr := o.ledger.Record(merr.EntityType, merr.Category, mc.RunID, projectID, userID, merr.Err.Error())
	if recErr != nil {
		// Ledger failures must not mask the migration error.
		merr.Err = fmt.Errorf("%w (ledger write failed: %v)", merr.Err, recErr)
	}
	if merr.Category == types.CategoryFatal {
		return merr
	}
	return nil
}

// classify maps an error to its migration category. Pre-classified
// errors pass through; anything unrecognized is a programming or
// schema problem and treated as fatal.
func classify(err error) *types.MigrationError {
	var merr *types.MigrationError
	if errors.As(err, &merr) {
		return merr
	}
	return &types.MigrationError{
		Category:   types.CategoryFatal,
		EntityType: "unknown",
		Err:        err,
	}
}

// dataErr and recoverableErr build classified per-record errors.
func dataErr(entityType string, format string, args ...any) error {
	return &types.MigrationError{
		Category:   types.CategoryData,
		EntityType: entityType,
		Err:        fmt.Errorf(format, args...),
	}
}

func recoverableErr(entityType string, format string, args ...any) error {
	return &types.MigrationError{
		Category:   types.CategoryRecoverable,
		EntityType: entityType,
		Err:        fmt.Errorf(format, args...),
	}
}

func fatalErr(entityType string, err error) error {
	return &types.MigrationError{
		Category:   types.CategoryFatal,
		EntityType: entityType,
		Err:        err,
	}
}

// resolveActor maps the legacy owner to a graph actor, falling back to
// the run's initiating actor when the legacy record has no owner.
func (o *Orchestrator) resolveActor(mc types.MigrationContext, ownerUserID string) (string, error) {
	if ownerUserID == "" {
		return mc.InitiatedBy, nil
	}
	return o.access.EnsureActor(ownerUserID)
}

// commitTime preserves legacy creation times while keeping run output
// deterministic for rows missing one.
func commitTime(mc types.MigrationContext, legacy time.Time) time.Time {
	if legacy.IsZero() {
		return mc.Now
	}
	return legacy
}
