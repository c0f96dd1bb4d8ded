// Tests for the migration error ledger table: AND filters, paging,
// sorting, and the shared delete predicate.
package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-works/onto/pkg/types"
)

func testErrorRecord(entityType, category, runID, message string, at time.Time) *types.ErrorRecord {
	return &types.ErrorRecord{
		ErrorID:    types.NewID(),
		EntityType: entityType,
		Category:   category,
		RunID:      runID,
		ProjectID:  "proj-1",
		UserID:     "actor-1",
		Message:    message,
		CreatedAt:  at,
	}
}

func seedErrorRecords(t *testing.T, b *Backend) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*types.ErrorRecord{
		testErrorRecord(types.KindTask, types.CategoryData, "run-1", "legacy task 3 has unknown status \"???\"", base),
		testErrorRecord(types.KindTask, types.CategoryData, "run-1", "legacy task 4 has no title", base.Add(time.Minute)),
		testErrorRecord(types.KindEvent, types.CategoryRecoverable, "run-1", "legacy task 9 has not been migrated yet", base.Add(2*time.Minute)),
		testErrorRecord(types.KindEvent, types.CategoryRecoverable, "run-2", "legacy task 11 has not been migrated yet", base.Add(3*time.Minute)),
		testErrorRecord(types.KindTask, types.CategoryFatal, "run-2", "schema mismatch", base.Add(4*time.Minute)),
	}
	for _, rec := range records {
		require.NoError(t, b.InsertErrorRecord(rec))
	}
}

func TestInsertErrorRecord_Validation(t *testing.T) {
	b := setupBackend(t)

	rec := testErrorRecord(types.KindTask, "mystery", "run-1", "x", time.Now())
	assert.ErrorIs(t, b.InsertErrorRecord(rec), types.ErrInvalidData)

	rec = testErrorRecord(types.KindTask, types.CategoryData, "run-1", "x", time.Now())
	rec.ErrorID = ""
	assert.ErrorIs(t, b.InsertErrorRecord(rec), types.ErrInvalidID)
}

func TestListErrorRecords_Filters(t *testing.T) {
	b := setupBackend(t)
	seedErrorRecords(t, b)

	tests := []struct {
		name   string
		filter types.ErrorFilter
		want   int
	}{
		{"no filter", types.ErrorFilter{}, 5},
		{"by category", types.ErrorFilter{Category: types.CategoryRecoverable}, 2},
		{"by run", types.ErrorFilter{RunID: "run-1"}, 3},
		{"by entity type", types.ErrorFilter{EntityType: types.KindEvent}, 2},
		{"category AND run", types.ErrorFilter{Category: types.CategoryData, RunID: "run-1"}, 2},
		{"search substring", types.ErrorFilter{Search: "not been migrated"}, 2},
		{"search escapes wildcards", types.ErrorFilter{Search: "100% done"}, 0},
		{"no match", types.ErrorFilter{RunID: "run-9"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, total, err := b.ListErrorRecords(tt.filter, types.Page{}, types.ErrorSort{})
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestListErrorRecords_PagingAndTotal(t *testing.T) {
	b := setupBackend(t)
	seedErrorRecords(t, b)

	page1, total, err := b.ListErrorRecords(types.ErrorFilter{}, types.Page{Limit: 2}, types.ErrorSort{})
	require.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Equal(t, 5, total, "total counts matches before paging")

	page2, _, err := b.ListErrorRecords(types.ErrorFilter{}, types.Page{Limit: 2, Offset: 2}, types.ErrorSort{})
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.NotEqual(t, page1[0].ErrorID, page2[0].ErrorID)
}

func TestListErrorRecords_Sort(t *testing.T) {
	b := setupBackend(t)
	seedErrorRecords(t, b)

	byNewest, _, err := b.ListErrorRecords(types.ErrorFilter{}, types.Page{},
		types.ErrorSort{Column: types.ErrorSortCreatedAt, Desc: true})
	require.NoError(t, err)
	require.Len(t, byNewest, 5)
	assert.Equal(t, "schema mismatch", byNewest[0].Message)

	byCategory, _, err := b.ListErrorRecords(types.ErrorFilter{}, types.Page{},
		types.ErrorSort{Column: types.ErrorSortCategory})
	require.NoError(t, err)
	assert.Equal(t, types.CategoryData, byCategory[0].Category)

	_, _, err = b.ListErrorRecords(types.ErrorFilter{}, types.Page{},
		types.ErrorSort{Column: "message; DROP TABLE migration_errors"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestDeleteErrorRecords_ByID(t *testing.T) {
	b := setupBackend(t)
	seedErrorRecords(t, b)

	records, _, err := b.ListErrorRecords(types.ErrorFilter{RunID: "run-2"}, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	n, err := b.DeleteErrorRecords([]string{records[0].ErrorID, records[1].ErrorID, types.NewID()})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = b.DeleteErrorRecords(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteErrorRecordsWhere_MatchesListPredicate(t *testing.T) {
	b := setupBackend(t)
	seedErrorRecords(t, b)

	filter := types.ErrorFilter{Category: types.CategoryRecoverable, RunID: "run-1"}

	listed, _, err := b.ListErrorRecords(filter, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)

	n, err := b.DeleteErrorRecordsWhere(filter)
	require.NoError(t, err)
	assert.Equal(t, len(listed), n, "delete removes exactly what list showed")

	remaining, total, err := b.ListErrorRecords(types.ErrorFilter{}, types.Page{}, types.ErrorSort{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	for _, rec := range remaining {
		assert.False(t, rec.Category == types.CategoryRecoverable && rec.RunID == "run-1",
			fmt.Sprintf("record %s should have been deleted", rec.ErrorID))
	}
}
