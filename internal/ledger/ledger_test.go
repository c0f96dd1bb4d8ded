package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/internal/sqlite"
	"github.com/praxis-works/onto/pkg/types"
)

func setupLedger(t *testing.T) *Service {
	t.Helper()

	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })

	clock := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return NewService(b, func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
}

func TestRecord(t *testing.T) {
	svc := setupLedger(t)

	rec, err := svc.Record("task", types.CategoryData, "run-1", "proj-1", "user-1", "missing title")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ErrorID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, total, err := svc.List(types.ErrorFilter{RunID: "run-1"}, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "missing title", got[0].Message)
}

func TestRecord_RejectsUnknownCategory(t *testing.T) {
	svc := setupLedger(t)

	_, err := svc.Record("task", "catastrophic", "run-1", "", "", "boom")
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestDelete_ByID(t *testing.T) {
	svc := setupLedger(t)

	keep, err := svc.Record("task", types.CategoryData, "run-1", "", "", "keep")
	require.NoError(t, err)
	drop, err := svc.Record("task", types.CategoryData, "run-1", "", "", "drop")
	require.NoError(t, err)

	n, err := svc.Delete([]string{drop.ErrorID, types.NewID()})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "unknown IDs are ignored")

	got, _, err := svc.List(types.ErrorFilter{}, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ErrorID, got[0].ErrorID)
}

func TestDeleteAll_MatchesListPredicate(t *testing.T) {
	svc := setupLedger(t)

	_, err := svc.Record("task", types.CategoryData, "run-1", "", "u1", "bad status")
	require.NoError(t, err)
	_, err = svc.Record("task", types.CategoryRecoverable, "run-1", "", "u1", "actor lookup failed")
	require.NoError(t, err)
	_, err = svc.Record("event", types.CategoryData, "run-2", "", "u2", "bad date")
	require.NoError(t, err)

	filter := types.ErrorFilter{Category: types.CategoryData, RunID: "run-1"}

	listed, total, err := svc.List(filter, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	require.Equal(t, 1, total)

	n, err := svc.DeleteAll(filter)
	require.NoError(t, err)
	assert.Equal(t, len(listed), n, "delete removes exactly what list showed")

	remaining, total, err := svc.List(types.ErrorFilter{}, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, rec := range remaining {
		assert.NotEqual(t, "bad status", rec.Message)
	}
}

func TestDeleteAll_EmptyFilterClearsLedger(t *testing.T) {
	svc := setupLedger(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Record("task", types.CategoryFatal, "run-1", "", "", "db gone")
		require.NoError(t, err)
	}

	n, err := svc.DeleteAll(types.ErrorFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, total, err := svc.List(types.ErrorFilter{}, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
