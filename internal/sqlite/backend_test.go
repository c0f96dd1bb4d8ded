// Tests for the backend lifecycle.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/pkg/types"
)

// setupBackend creates an attached backend over a temp data directory.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

// testEntity builds a minimal entity ready for InsertEntity.
func testEntity(kind, typeKey, projectID, state string) *types.Entity {
	now := time.Now().UTC()
	return &types.Entity{
		EntityID:  types.NewID(),
		Kind:      kind,
		ProjectID: projectID,
		TypeKey:   typeKey,
		StateKey:  state,
		Props:     map[string]any{},
		CreatedBy: "actor-test",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, "onto.db"))
	assert.NoError(t, err, "onto.db not created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsUnknownBackend(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	require.Error(t, err)
}

func TestBackend_DetachIdempotent(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err := b.GetEntity(types.KindTask, "any", false)
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	entity := testEntity(types.KindProject, "project.default", "", "active")
	require.NoError(t, b.InsertEntity(entity))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := b2.GetEntity(types.KindProject, entity.EntityID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.EntityID, got.EntityID)
}
