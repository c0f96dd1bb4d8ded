// This file implements the legacy mapping table. Mapping rows are
// created once and never updated; the unique index on
// (legacy_table, legacy_id) is the source of truth for "already
// migrated". Only the migration orchestrator writes these rows.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praxis-works/onto/pkg/types"
)

// GetMapping retrieves a legacy mapping; ErrNotFound when absent.
func (b *Backend) GetMapping(legacyTable string, legacyID int64) (*types.Mapping, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	var m types.Mapping
	var createdAt string
	err = db.QueryRow(
		"SELECT legacy_table, legacy_id, onto_id, created_at FROM legacy_mappings WHERE legacy_table = ? AND legacy_id = ?",
		legacyTable, legacyID,
	).Scan(&m.LegacyTable, &m.LegacyID, &m.OntoID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting mapping %s/%d: %w", legacyTable, legacyID, err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertMapping persists a mapping row with no accompanying entity.
// Returns ErrAlreadyMigrated when the (legacy_table, legacy_id) pair is
// already mapped.
func (b *Backend) InsertMapping(m *types.Mapping) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if m == nil || m.OntoID == "" {
		return types.ErrInvalidData
	}

	res, err := db.Exec(
		"INSERT OR IGNORE INTO legacy_mappings (legacy_table, legacy_id, onto_id, created_at) VALUES (?, ?, ?, ?)",
		m.LegacyTable, m.LegacyID, m.OntoID, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting mapping: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting mapping: %w", err)
	}
	if n == 0 {
		return types.ErrAlreadyMigrated
	}
	return nil
}

// InsertEntityWithMapping persists an entity and its legacy mapping as
// one transaction: neither row exists if either insert fails. When the
// mapping row already exists (including a lost race against a concurrent
// migrator), nothing is written and ErrAlreadyMigrated is returned.
func (b *Backend) InsertEntityWithMapping(e *types.Entity, m *types.Mapping) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if e == nil || m == nil {
		return types.ErrInvalidData
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim the mapping first. A zero-row insert means another writer
	// holds the (legacy_table, legacy_id) pair.
	res, err := tx.Exec(
		"INSERT OR IGNORE INTO legacy_mappings (legacy_table, legacy_id, onto_id, created_at) VALUES (?, ?, ?, ?)",
		m.LegacyTable, m.LegacyID, m.OntoID, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting mapping: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting mapping: %w", err)
	}
	if n == 0 {
		return types.ErrAlreadyMigrated
	}

	props := e.Props
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshaling props: %w", err)
	}
	_, err = tx.Exec(
		"INSERT INTO entities ("+entityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.EntityID, e.Kind, nullString(e.ProjectID), e.TypeKey, e.StateKey,
		string(propsJSON), e.CreatedBy, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		nullTime(e.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting migrated entity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migrated entity: %w", err)
	}
	return nil
}
