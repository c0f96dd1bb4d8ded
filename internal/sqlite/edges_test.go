// Tests for edge persistence.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/pkg/types"
)

func testEdge(srcID, dstID, rel, projectID string) *types.Edge {
	return &types.Edge{
		EdgeID:    types.NewID(),
		SrcKind:   types.KindMilestone,
		SrcID:     srcID,
		DstKind:   types.KindTask,
		DstID:     dstID,
		Rel:       rel,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
}

func TestInsertEdge_RoundTrip(t *testing.T) {
	b := setupBackend(t)

	edge := testEdge("ms-1", "task-1", types.RelHasTask, "proj-1")
	require.NoError(t, b.InsertEdge(edge))

	got, err := b.GetEdge(edge.EdgeID)
	require.NoError(t, err)
	assert.Equal(t, edge.SrcID, got.SrcID)
	assert.Equal(t, edge.DstID, got.DstID)
	assert.Equal(t, types.RelHasTask, got.Rel)
	assert.Equal(t, "proj-1", got.ProjectID)
}

func TestInsertEdge_Validation(t *testing.T) {
	b := setupBackend(t)

	noID := testEdge("ms-1", "task-1", types.RelHasTask, "proj-1")
	noID.EdgeID = ""
	assert.ErrorIs(t, b.InsertEdge(noID), types.ErrInvalidID)

	noRel := testEdge("ms-1", "task-1", "", "proj-1")
	assert.ErrorIs(t, b.InsertEdge(noRel), types.ErrInvalidData)
}

func TestListEdges_FilterAnd(t *testing.T) {
	b := setupBackend(t)

	e1 := testEdge("ms-1", "task-1", types.RelHasTask, "proj-1")
	e2 := testEdge("ms-1", "task-2", types.RelHasTask, "proj-1")
	e3 := testEdge("ev-1", "task-1", types.RelScheduledFor, "proj-1")
	for _, e := range []*types.Edge{e1, e2, e3} {
		require.NoError(t, b.InsertEdge(e))
	}

	bySrc, err := b.ListEdges(types.EdgeFilter{SrcID: "ms-1"})
	require.NoError(t, err)
	assert.Len(t, bySrc, 2)

	both, err := b.ListEdges(types.EdgeFilter{DstID: "task-1", Rel: types.RelScheduledFor})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, e3.EdgeID, both[0].EdgeID)

	none, err := b.ListEdges(types.EdgeFilter{SrcID: "absent"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteEdge(t *testing.T) {
	b := setupBackend(t)

	edge := testEdge("ms-1", "task-1", types.RelHasTask, "proj-1")
	require.NoError(t, b.InsertEdge(edge))

	deleted, err := b.DeleteEdge(edge.EdgeID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = b.DeleteEdge(edge.EdgeID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = b.GetEdge(edge.EdgeID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
