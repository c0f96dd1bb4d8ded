// This file implements edge row persistence. No uniqueness is enforced
// at write time; single-valued relations resolve at read time through
// types.LatestEdges.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/praxis-works/onto/pkg/types"
)

const edgeColumns = "edge_id, src_kind, src_id, dst_kind, dst_id, rel, project_id, created_at"

// InsertEdge persists a new edge row.
func (b *Backend) InsertEdge(e *types.Edge) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if e.EdgeID == "" {
		return types.ErrInvalidID
	}
	if e.SrcID == "" || e.DstID == "" || e.Rel == "" {
		return types.ErrInvalidData
	}

	_, err = db.Exec(
		"INSERT INTO edges ("+edgeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.EdgeID, e.SrcKind, e.SrcID, e.DstKind, e.DstID, e.Rel, e.ProjectID,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting edge: %w", err)
	}
	return nil
}

// GetEdge retrieves an edge by ID.
func (b *Backend) GetEdge(id string) (*types.Edge, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := db.QueryRow("SELECT "+edgeColumns+" FROM edges WHERE edge_id = ?", id)
	edge, err := hydrateEdge(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting edge %s: %w", id, err)
	}
	return edge, nil
}

// ListEdges returns edges matching the filter, ordered by created_at DESC.
func (b *Backend) ListEdges(filter types.EdgeFilter) ([]*types.Edge, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + edgeColumns + " FROM edges"
	var conditions []string
	var args []any

	if filter.SrcID != "" {
		conditions = append(conditions, "src_id = ?")
		args = append(args, filter.SrcID)
	}
	if filter.DstID != "" {
		conditions = append(conditions, "dst_id = ?")
		args = append(args, filter.DstID)
	}
	if filter.Rel != "" {
		conditions = append(conditions, "rel = ?")
		args = append(args, filter.Rel)
	}
	if filter.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching edges: %w", err)
	}
	defer rows.Close()

	results := []*types.Edge{}
	for rows.Next() {
		edge, err := hydrateEdge(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating edge: %w", err)
		}
		results = append(results, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edges: %w", err)
	}
	return results, nil
}

// DeleteEdge removes an edge row. Returns false when no row existed.
func (b *Backend) DeleteEdge(id string) (bool, error) {
	db, err := b.conn()
	if err != nil {
		return false, err
	}
	if id == "" {
		return false, types.ErrInvalidID
	}

	res, err := db.Exec("DELETE FROM edges WHERE edge_id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting edge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting edge: %w", err)
	}
	return n == 1, nil
}

// hydrateEdge converts one SQLite row into a *types.Edge.
func hydrateEdge(scan func(...any) error) (*types.Edge, error) {
	var e types.Edge
	var createdAt string
	err := scan(&e.EdgeID, &e.SrcKind, &e.SrcID, &e.DstKind, &e.DstID, &e.Rel,
		&e.ProjectID, &createdAt)
	if err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}
