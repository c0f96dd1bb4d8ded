// Package ledger is the categorized, queryable record of migration
// failures, decoupled from the orchestrator so operators can triage
// without re-running migrations.
package ledger

import (
	"fmt"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// Service reads and writes the error ledger.
type Service struct {
	store types.Store
	now   func() time.Time
}

// NewService creates a ledger service. now defaults to time.Now when nil.
func NewService(store types.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Record appends one error record. Records are never mutated after
// insert.
func (s *Service) Record(entityType, category, runID, projectID, userID, message string) (*types.ErrorRecord, error) {
	if !types.ValidCategory(category) {
		return nil, types.ErrInvalidData
	}
	rec := &types.ErrorRecord{
		ErrorID:    types.NewID(),
		EntityType: entityType,
		Category:   category,
		RunID:      runID,
		ProjectID:  projectID,
		UserID:     userID,
		Message:    message,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.InsertErrorRecord(rec); err != nil {
		return nil, fmt.Errorf("recording migration error: %w", err)
	}
	return rec, nil
}

// List returns records matching the filter plus the total match count
// before paging. Filters combine with AND.
func (s *Service) List(filter types.ErrorFilter, page types.Page, sort types.ErrorSort) ([]*types.ErrorRecord, int, error) {
	return s.store.ListErrorRecords(filter, page, sort)
}

// Delete removes records by ID and returns how many were deleted.
func (s *Service) Delete(ids []string) (int, error) {
	return s.store.DeleteErrorRecords(ids)
}

// DeleteAll removes every record matching the filter. The predicate is
// the same one List uses, so "delete everything currently shown" is
// exact.
func (s *Service) DeleteAll(filter types.ErrorFilter) (int, error) {
	return s.store.DeleteErrorRecordsWhere(filter)
}
