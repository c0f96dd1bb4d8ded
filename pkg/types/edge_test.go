// Tests for edge relation helpers and single-valued precedence.
package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleValued(t *testing.T) {
	assert.True(t, SingleValued(RelHasTask))
	assert.True(t, SingleValued(RelHasGoal))
	assert.True(t, SingleValued(RelHasMilestone))
	assert.False(t, SingleValued(RelProduces))
	assert.False(t, SingleValued(RelScheduledFor))
}

func TestLatestEdges_NewestWinsPerDst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	old := &Edge{EdgeID: "01-old", SrcID: "ms-1", DstID: "task-1", Rel: RelHasTask, CreatedAt: base}
	newer := &Edge{EdgeID: "02-new", SrcID: "ms-2", DstID: "task-1", Rel: RelHasTask, CreatedAt: base.Add(time.Hour)}
	other := &Edge{EdgeID: "03-oth", SrcID: "ms-1", DstID: "task-2", Rel: RelHasTask, CreatedAt: base}

	latest := LatestEdges([]*Edge{newer, old, other})
	require.Len(t, latest, 2)
	assert.Equal(t, "02-new", latest["task-1"].EdgeID)
	assert.Equal(t, "03-oth", latest["task-2"].EdgeID)
}

func TestLatestEdges_TieBreaksOnEdgeID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &Edge{EdgeID: "0190aaaa", DstID: "task-1", CreatedAt: at}
	b := &Edge{EdgeID: "0190bbbb", DstID: "task-1", CreatedAt: at}

	// UUID v7 IDs are time-ordered, so the larger ID is the later write.
	latest := LatestEdges([]*Edge{a, b})
	assert.Equal(t, "0190bbbb", latest["task-1"].EdgeID)

	latest = LatestEdges([]*Edge{b, a})
	assert.Equal(t, "0190bbbb", latest["task-1"].EdgeID)
}

func TestLatestEdges_Empty(t *testing.T) {
	assert.Empty(t, LatestEdges(nil))
}
