// Tests for the legacy mapping table and the atomic
// entity-plus-mapping insert the migration orchestrator relies on.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/pkg/types"
)

func testMapping(table string, legacyID int64, ontoID string) *types.Mapping {
	return &types.Mapping{
		LegacyTable: table,
		LegacyID:    legacyID,
		OntoID:      ontoID,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestInsertMapping(t *testing.T) {
	b := setupBackend(t)

	m := testMapping(types.LegacyTableProjects, 1, "proj-graph-1")
	require.NoError(t, b.InsertMapping(m))

	got, err := b.GetMapping(types.LegacyTableProjects, 1)
	require.NoError(t, err)
	assert.Equal(t, "proj-graph-1", got.OntoID)

	// Re-mapping the same legacy row is rejected, even to another target.
	dup := testMapping(types.LegacyTableProjects, 1, "proj-graph-2")
	assert.ErrorIs(t, b.InsertMapping(dup), types.ErrAlreadyMigrated)

	// The key is (table, id): the same ID in another table is distinct.
	require.NoError(t, b.InsertMapping(testMapping(types.LegacyTableTasks, 1, "task-graph-1")))
}

func TestGetMapping_NotFound(t *testing.T) {
	b := setupBackend(t)

	_, err := b.GetMapping(types.LegacyTableTasks, 42)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInsertEntityWithMapping_Atomic(t *testing.T) {
	b := setupBackend(t)

	entity := testEntity(types.KindTask, "task.legacy", "proj-1", "todo")
	mapping := testMapping(types.LegacyTableTasks, 7, entity.EntityID)
	require.NoError(t, b.InsertEntityWithMapping(entity, mapping))

	got, err := b.GetEntity(types.KindTask, entity.EntityID, false)
	require.NoError(t, err)
	assert.Equal(t, "task.legacy", got.TypeKey)

	m, err := b.GetMapping(types.LegacyTableTasks, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.EntityID, m.OntoID)
}

func TestInsertEntityWithMapping_LosingClaimWritesNothing(t *testing.T) {
	b := setupBackend(t)

	winner := testEntity(types.KindTask, "task.legacy", "proj-1", "todo")
	require.NoError(t, b.InsertEntityWithMapping(winner, testMapping(types.LegacyTableTasks, 7, winner.EntityID)))

	loser := testEntity(types.KindTask, "task.legacy", "proj-1", "todo")
	err := b.InsertEntityWithMapping(loser, testMapping(types.LegacyTableTasks, 7, loser.EntityID))
	assert.ErrorIs(t, err, types.ErrAlreadyMigrated)

	// The losing entity row must not exist.
	_, err = b.GetEntity(types.KindTask, loser.EntityID, true)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The mapping still points at the winner.
	m, err := b.GetMapping(types.LegacyTableTasks, 7)
	require.NoError(t, err)
	assert.Equal(t, winner.EntityID, m.OntoID)
}

func TestInsertEntityWithMapping_FailedEntityRollsBackMapping(t *testing.T) {
	b := setupBackend(t)

	bad := testEntity(types.KindTask, "task.legacy", "proj-1", "todo")
	require.NoError(t, b.InsertEntity(bad))

	// Reusing the entity ID violates the primary key, so the whole
	// transaction, mapping included, must roll back.
	err := b.InsertEntityWithMapping(bad, testMapping(types.LegacyTableTasks, 9, bad.EntityID))
	require.Error(t, err)

	_, err = b.GetMapping(types.LegacyTableTasks, 9)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
