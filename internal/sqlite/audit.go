// This file implements the append-only audit_log table.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praxis-works/onto/pkg/types"
)

// InsertAuditEntry appends one activity record.
func (b *Backend) InsertAuditEntry(entry *types.AuditEntry) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if entry.EntryID == "" {
		return types.ErrInvalidID
	}

	before, err := marshalSnapshot(entry.Before)
	if err != nil {
		return fmt.Errorf("marshaling before snapshot: %w", err)
	}
	after, err := marshalSnapshot(entry.After)
	if err != nil {
		return fmt.Errorf("marshaling after snapshot: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO audit_log (entry_id, kind, entity_id, action, actor_id, before, after, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.EntryID, entry.Kind, entry.EntityID, entry.Action, entry.ActorID,
		before, after, formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns an entity's activity, oldest first.
func (b *Backend) ListAuditEntries(kind, entityID string) ([]*types.AuditEntry, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT entry_id, kind, entity_id, action, actor_id, before, after, created_at FROM audit_log WHERE kind = ? AND entity_id = ? ORDER BY created_at ASC",
		kind, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching audit entries: %w", err)
	}
	defer rows.Close()

	results := []*types.AuditEntry{}
	for rows.Next() {
		var e types.AuditEntry
		var before, after sql.NullString
		var createdAt string
		err := rows.Scan(&e.EntryID, &e.Kind, &e.EntityID, &e.Action, &e.ActorID,
			&before, &after, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("hydrating audit entry: %w", err)
		}
		if e.Before, err = unmarshalSnapshot(before); err != nil {
			return nil, err
		}
		if e.After, err = unmarshalSnapshot(after); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return results, nil
}

func marshalSnapshot(snap map[string]any) (any, error) {
	if snap == nil {
		return nil, nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalSnapshot(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid {
		return nil, nil
	}
	var snap map[string]any
	if err := json.Unmarshal([]byte(raw.String), &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap, nil
}
