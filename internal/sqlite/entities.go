// This file implements entity row persistence: insert, hydration,
// listing, the conditional state update, and soft delete.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

const entityColumns = "entity_id, kind, project_id, type_key, state_key, props, created_by, created_at, updated_at, deleted_at"

// InsertEntity persists a new entity row. The caller fills IDs and
// timestamps; the row is stored as given.
func (b *Backend) InsertEntity(e *types.Entity) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if e.EntityID == "" {
		return types.ErrInvalidID
	}
	if !types.ValidKind(e.Kind) {
		return types.ErrInvalidData
	}

	props := e.Props
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshaling props: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO entities ("+entityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.EntityID, e.Kind, nullString(e.ProjectID), e.TypeKey, e.StateKey,
		string(propsJSON), e.CreatedBy, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		nullTime(e.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting entity: %w", err)
	}
	return nil
}

// GetEntity retrieves an entity by kind and ID. Soft-deleted rows are
// reported as ErrNotFound unless includeDeleted is set.
func (b *Backend) GetEntity(kind, id string, includeDeleted bool) (*types.Entity, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	query := "SELECT " + entityColumns + " FROM entities WHERE kind = ? AND entity_id = ?"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, kind, id)
	entity, err := hydrateEntity(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting entity %s/%s: %w", kind, id, err)
	}
	return entity, nil
}

// ListEntities returns a project's entities ordered by created_at DESC.
// An empty kind matches all kinds.
func (b *Backend) ListEntities(projectID, kind string, includeDeleted bool) ([]*types.Entity, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + entityColumns + " FROM entities WHERE project_id = ?"
	args := []any{projectID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching entities: %w", err)
	}
	defer rows.Close()

	results := []*types.Entity{}
	for rows.Next() {
		entity, err := hydrateEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating entity: %w", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return results, nil
}

// UpdateEntityProps replaces the props bag without touching state_key.
func (b *Backend) UpdateEntityProps(kind, id string, props map[string]any, updatedAt time.Time) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshaling props: %w", err)
	}

	res, err := db.Exec(
		"UPDATE entities SET props = ?, updated_at = ? WHERE kind = ? AND entity_id = ? AND deleted_at IS NULL",
		string(propsJSON), formatTime(updatedAt), kind, id,
	)
	if err != nil {
		return fmt.Errorf("updating entity props: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating entity props: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// UpdateEntityState performs the conditional check-and-set a transition
// commit requires: the row changes only when its current state equals
// fromState. Returns false when the condition misses, meaning another
// caller transitioned the entity first.
func (b *Backend) UpdateEntityState(kind, id, fromState, toState string, updatedAt time.Time) (bool, error) {
	db, err := b.conn()
	if err != nil {
		return false, err
	}

	res, err := db.Exec(
		"UPDATE entities SET state_key = ?, updated_at = ? WHERE kind = ? AND entity_id = ? AND state_key = ? AND deleted_at IS NULL",
		toState, formatTime(updatedAt), kind, id, fromState,
	)
	if err != nil {
		return false, fmt.Errorf("updating entity state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating entity state: %w", err)
	}
	return n == 1, nil
}

// SoftDeleteEntity sets deleted_at without altering state_key. Returns
// false when the row was already soft-deleted or absent.
func (b *Backend) SoftDeleteEntity(kind, id string, at time.Time) (bool, error) {
	db, err := b.conn()
	if err != nil {
		return false, err
	}

	res, err := db.Exec(
		"UPDATE entities SET deleted_at = ? WHERE kind = ? AND entity_id = ? AND deleted_at IS NULL",
		formatTime(at), kind, id,
	)
	if err != nil {
		return false, fmt.Errorf("soft-deleting entity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft-deleting entity: %w", err)
	}
	return n == 1, nil
}

// hydrateEntity converts one SQLite row into a *types.Entity. The scan
// argument abstracts over sql.Row and sql.Rows.
func hydrateEntity(scan func(...any) error) (*types.Entity, error) {
	var e types.Entity
	var projectID, deletedAt sql.NullString
	var propsJSON, createdAt, updatedAt string

	err := scan(&e.EntityID, &e.Kind, &projectID, &e.TypeKey, &e.StateKey,
		&propsJSON, &e.CreatedBy, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	e.ProjectID = projectID.String
	if err := json.Unmarshal([]byte(propsJSON), &e.Props); err != nil {
		return nil, fmt.Errorf("parsing props: %w", err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t, err := parseTime(deletedAt.String)
		if err != nil {
			return nil, err
		}
		e.DeletedAt = &t
	}
	return &e, nil
}
