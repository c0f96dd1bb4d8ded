// Orchestrator tests run against a real backend with seeded legacy
// rows, exercising the full dual-write path: flag gating, dry-run,
// idempotent re-runs, and per-record error classification.
package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/internal/access"
	"github.com/praxis-works/onto/internal/audit"
	"github.com/praxis-works/onto/internal/fsm"
	"github.com/praxis-works/onto/internal/graph"
	"github.com/praxis-works/onto/internal/ledger"
	"github.com/praxis-works/onto/internal/sqlite"
	"github.com/praxis-works/onto/pkg/types"
)

const legacyProject = int64(42)

type migrateFixture struct {
	backend *sqlite.Backend
	orch    *Orchestrator
	graph   *graph.Store
	ledger  *ledger.Service
	access  *access.Service
	log     *audit.Logger
	owner   string
	project string
}

func setupMigrate(t *testing.T) *migrateFixture {
	t.Helper()

	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })

	acc := access.NewService(b, nil)
	log := audit.NewLogger(b)
	t.Cleanup(log.Close)
	registry := fsm.DefaultRegistry()
	led := ledger.NewService(b, nil)
	g := graph.NewStore(b, acc, registry, log, nil)

	owner, err := acc.EnsureActor("legacy-admin")
	require.NoError(t, err)

	project, err := g.CreateEntity("project.default", "", map[string]any{"title": "Migrated"}, owner)
	require.NoError(t, err)

	return &migrateFixture{
		backend: b,
		orch:    NewOrchestrator(b, acc, registry, log, led, nil),
		graph:   g,
		ledger:  led,
		access:  acc,
		log:     log,
		owner:   owner,
		project: project.EntityID,
	}
}

func (f *migrateFixture) context(t *testing.T, dryRun bool) types.MigrationContext {
	t.Helper()
	return types.MigrationContext{
		RunID:       types.NewID(),
		BatchID:     types.NewID(),
		DryRun:      dryRun,
		InitiatedBy: f.owner,
		Flags:       map[string]bool{types.FlagDualWrite: true},
		Now:         time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *migrateFixture) mapProject(t *testing.T) {
	t.Helper()
	require.NoError(t, f.orch.MapProject(f.context(t, false), legacyProject, f.project))
}

func (f *migrateFixture) seedTask(t *testing.T, id int64, title, status, owner string) {
	t.Helper()
	require.NoError(t, f.backend.InsertLegacyTask(&types.LegacyTask{
		ID:          id,
		ProjectID:   legacyProject,
		Title:       title,
		Status:      status,
		OwnerUserID: owner,
		CreatedAt:   time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC),
	}))
}

func (f *migrateFixture) seedEvent(t *testing.T, id int64, title string, taskID *int64) {
	t.Helper()
	starts := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, f.backend.InsertLegacyCalendarEvent(&types.LegacyCalendarEvent{
		ID:        id,
		ProjectID: legacyProject,
		TaskID:    taskID,
		Title:     title,
		StartsAt:  starts,
		EndsAt:    starts.Add(time.Hour),
		Provider:  "google",
		CreatedAt: starts.Add(-30 * 24 * time.Hour),
	}))
}

func (f *migrateFixture) ledgerRecords(t *testing.T, filter types.ErrorFilter) []*types.ErrorRecord {
	t.Helper()
	records, _, err := f.ledger.List(filter, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	return records
}

func TestFlagSnapshot(t *testing.T) {
	f := setupMigrate(t)

	flags, err := f.orch.FlagSnapshot("acme", f.owner)
	require.NoError(t, err)
	assert.False(t, flags[types.FlagDualWrite])

	// Org flag alone enables dual-write.
	require.NoError(t, f.backend.SetFlag(types.FlagScopeOrg, "acme", types.FlagDualWrite, true))
	flags, err = f.orch.FlagSnapshot("acme", f.owner)
	require.NoError(t, err)
	assert.True(t, flags[types.FlagDualWrite])

	// User flag alone enables it too.
	require.NoError(t, f.backend.SetFlag(types.FlagScopeOrg, "acme", types.FlagDualWrite, false))
	require.NoError(t, f.backend.SetFlag(types.FlagScopeUser, f.owner, types.FlagDualWrite, true))
	flags, err = f.orch.FlagSnapshot("acme", f.owner)
	require.NoError(t, err)
	assert.True(t, flags[types.FlagDualWrite])
}

func TestMapProject(t *testing.T) {
	f := setupMigrate(t)
	mc := f.context(t, false)

	require.NoError(t, f.orch.MapProject(mc, legacyProject, f.project))
	// Same target again is a no-op.
	require.NoError(t, f.orch.MapProject(mc, legacyProject, f.project))

	other, err := f.graph.CreateEntity("project.default", "", nil, f.owner)
	require.NoError(t, err)
	err = f.orch.MapProject(mc, legacyProject, other.EntityID)
	assert.ErrorIs(t, err, types.ErrAlreadyMigrated, "remapping to a different project is a conflict")

	err = f.orch.MapProject(mc, 99, types.NewID())
	assert.ErrorIs(t, err, types.ErrNotFound, "target project must exist")
}

func TestRun_RequiresDualWriteFlag(t *testing.T) {
	f := setupMigrate(t)
	f.mapProject(t)
	f.seedTask(t, 1, "Ship it", "open", "")

	mc := f.context(t, false)
	mc.Flags = map[string]bool{}
	_, err := f.orch.Run(mc, legacyProject)
	assert.ErrorIs(t, err, types.ErrDualWriteDisabled)

	// Dry-run never needs the flag.
	mc.DryRun = true
	result, err := f.orch.Run(mc, legacyProject)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Created)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	f := setupMigrate(t)
	f.mapProject(t)
	f.seedTask(t, 1, "Ship it", "open", "alice")
	taskRef := int64(1)
	f.seedEvent(t, 10, "Review", &taskRef)

	result, err := f.orch.Run(f.context(t, true), legacyProject)
	require.NoError(t, err)
	assert.Equal(t, types.Summary{Created: 2}, result.Summary)
	require.Len(t, result.Preview, 2)
	assert.Empty(t, result.Preview[0].OntoID, "dry-run previews carry no committed ID")
	assert.Equal(t, "todo", result.Preview[0].Entity.StateKey)

	entities, err := f.backend.ListEntities(f.project, "", false)
	require.NoError(t, err)
	assert.Empty(t, entities, "dry-run commits no entities")

	_, err = f.backend.GetMapping(types.LegacyTableTasks, 1)
	assert.ErrorIs(t, err, types.ErrNotFound, "dry-run claims no mappings")
}

func TestRun_MigratesTasksThenEvents(t *testing.T) {
	f := setupMigrate(t)
	f.mapProject(t)
	f.seedTask(t, 1, "Ship it", "in_progress", "alice")
	f.seedTask(t, 2, "Write docs", "closed", "")
	taskRef := int64(1)
	f.seedEvent(t, 10, "Review", &taskRef)
	f.seedEvent(t, 11, "Standup", nil)

	result, err := f.orch.Run(f.context(t, false), legacyProject)
	require.NoError(t, err)
	assert.Equal(t, types.Summary{Created: 4}, result.Summary)
	require.Len(t, result.TaskMappings, 2)

	task1, err := f.backend.GetEntity(types.KindTask, result.TaskMappings[1], false)
	require.NoError(t, err)
	assert.Equal(t, "task.legacy", task1.TypeKey)
	assert.Equal(t, "in_progress", task1.StateKey)
	assert.Equal(t, "Ship it", task1.Props["title"])
	assert.Equal(t, f.project, task1.ProjectID)

	// The legacy owner was ensured as an actor and stamped as creator.
	aliceID, err := f.access.EnsureActor("alice")
	require.NoError(t, err)
	assert.Equal(t, aliceID, task1.CreatedBy)

	task2, err := f.backend.GetEntity(types.KindTask, result.TaskMappings[2], false)
	require.NoError(t, err)
	assert.Equal(t, "done", task2.StateKey)
	assert.Equal(t, f.owner, task2.CreatedBy, "ownerless rows fall back to the initiator")

	// The linked event carries a scheduled_for edge to the migrated task.
	edges, err := f.backend.ListEdges(types.EdgeFilter{Rel: types.RelScheduledFor})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, result.TaskMappings[1], edges[0].DstID)
	assert.Equal(t, types.KindEvent, edges[0].SrcKind)

	events, err := f.backend.ListEntities(f.project, types.KindEvent, false)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "event.calendar", ev.TypeKey)
		assert.Equal(t, "scheduled", ev.StateKey)
	}
}

func TestRun_SecondRunSkipsEverything(t *testing.T) {
	f := setupMigrate(t)
	f.mapProject(t)
	f.seedTask(t, 1, "Ship it", "open", "")
	f.seedEvent(t, 10, "Standup", nil)

	first, err := f.orch.Run(f.context(t, false), legacyProject)
	require.NoError(t, err)
	require.Equal(t, types.Summary{Created: 2}, first.Summary)

	second, err := f.orch.Run(f.context(t, false), legacyProject)
	require.NoError(t, err)
	assert.Equal(t, types.Summary{Skipped: 2}, second.Summary)
	assert.Equal(t, first.TaskMappings[1], second.TaskMappings[1],
		"skip still re-derives the mapping for dependent migrators")

	entities, err := f.backend.ListEntities(f.project, "", false)
	require.NoError(t, err)
	assert.Len(t, entities, 2, "no duplicates after the re-run")
}

func TestRun_BadRecordsGoToLedger(t *testing.T) {
	f := setupMigrate(t)
	f.mapProject(t)
	f.seedTask(t, 1, "Good", "open", "")
	// No title, unknown status, and a reference to an unmigrated task.
	f.seedTask(t, 2, "", "open", "bob")
	f.seedTask(t, 3, "Odd", "wontfix", "")
	f.seedEvent(t, 10, "Orphan", ptr(int64(7)))

	mc := f.context(t, false)
	result, err := f.orch.Run(mc, legacyProject)
	require.NoError(t, err, "data and recoverable errors never abort the batch")
	assert.Equal(t, types.Summary{Created: 1, Failed: 3}, result.Summary)

	dataRecords := f.ledgerRecords(t, types.ErrorFilter{RunID: mc.RunID, Category: types.CategoryData})
	assert.Len(t, dataRecords, 2)

	// Every failure of the run is filterable by the mapped project.
	byProject := f.ledgerRecords(t, types.ErrorFilter{RunID: mc.RunID, ProjectID: f.project})
	assert.Len(t, byProject, 3)

	// The failing record's legacy owner is the triage key when present.
	noTitle := f.ledgerRecords(t, types.ErrorFilter{RunID: mc.RunID, Search: "no title"})
	require.Len(t, noTitle, 1)
	assert.Equal(t, "bob", noTitle[0].UserID)

	recoverable := f.ledgerRecords(t, types.ErrorFilter{RunID: mc.RunID, Category: types.CategoryRecoverable})
	require.Len(t, recoverable, 1)
	assert.Equal(t, types.KindEvent, recoverable[0].EntityType)
	assert.Contains(t, recoverable[0].Message, "has not been migrated yet")
	assert.Equal(t, f.owner, recoverable[0].UserID)
}

func TestRun_UnmappedProjectIsDataError(t *testing.T) {
	f := setupMigrate(t)
	// No MapProject call: every task fails with a data error.
	f.seedTask(t, 1, "Ship it", "open", "")

	mc := f.context(t, false)
	result, err := f.orch.Run(mc, legacyProject)
	require.NoError(t, err)
	assert.Equal(t, types.Summary{Failed: 1}, result.Summary)

	records := f.ledgerRecords(t, types.ErrorFilter{RunID: mc.RunID})
	require.Len(t, records, 1)
	assert.Equal(t, types.CategoryData, records[0].Category)
	assert.Contains(t, records[0].Message, "has not been migrated")
}

func TestRun_EventFindsTaskFromEarlierBatch(t *testing.T) {
	f := setupMigrate(t)
	f.mapProject(t)
	f.seedTask(t, 1, "Ship it", "open", "")

	first, err := f.orch.Run(f.context(t, false), legacyProject)
	require.NoError(t, err)
	require.Equal(t, 1, first.Summary.Created)

	// The event arrives in a later batch; the task reference resolves
	// through the mapping table, not the in-run mapping.
	taskRef := int64(1)
	f.seedEvent(t, 10, "Review", &taskRef)

	second, err := f.orch.Run(f.context(t, false), legacyProject)
	require.NoError(t, err)
	assert.Equal(t, types.Summary{Created: 1, Skipped: 1}, second.Summary)

	edges, err := f.backend.ListEdges(types.EdgeFilter{Rel: types.RelScheduledFor})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, first.TaskMappings[1], edges[0].DstID)
}

func TestStateForStatus(t *testing.T) {
	for status, want := range map[string]string{
		"open":        "todo",
		"todo":        "todo",
		"in_progress": "in_progress",
		"started":     "in_progress",
		"done":        "done",
		"closed":      "done",
		"cancelled":   "cancelled",
	} {
		got, err := stateForStatus(status)
		require.NoError(t, err, status)
		assert.Equal(t, want, got, status)
	}

	_, err := stateForStatus("wontfix")
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
