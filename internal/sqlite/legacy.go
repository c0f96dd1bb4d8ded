// This file implements read access to the live legacy flat schema the
// migration orchestrator copies from, plus seed helpers for tests and
// demo tooling.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/praxis-works/onto/pkg/types"
)

// InsertLegacyTask seeds one legacy task row.
func (b *Backend) InsertLegacyTask(t *types.LegacyTask) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO legacy_tasks (id, project_id, title, description, status, owner_user_id, due_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.ProjectID, t.Title, nullString(t.Description), t.Status,
		nullString(t.OwnerUserID), nullTime(t.DueAt), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting legacy task: %w", err)
	}
	return nil
}

// InsertLegacyCalendarEvent seeds one legacy calendar event row.
func (b *Backend) InsertLegacyCalendarEvent(ev *types.LegacyCalendarEvent) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	var taskID any
	if ev.TaskID != nil {
		taskID = *ev.TaskID
	}
	_, err = db.Exec(
		"INSERT INTO legacy_calendar_events (id, project_id, task_id, title, starts_at, ends_at, provider, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		ev.ID, ev.ProjectID, taskID, ev.Title, formatTime(ev.StartsAt),
		formatTime(ev.EndsAt), nullString(ev.Provider), formatTime(ev.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting legacy calendar event: %w", err)
	}
	return nil
}

// ListLegacyTasks returns the legacy tasks of a legacy project, oldest
// first so migration output is deterministic.
func (b *Backend) ListLegacyTasks(legacyProjectID int64) ([]*types.LegacyTask, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT id, project_id, title, description, status, owner_user_id, due_at, created_at FROM legacy_tasks WHERE project_id = ? ORDER BY id ASC",
		legacyProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching legacy tasks: %w", err)
	}
	defer rows.Close()

	results := []*types.LegacyTask{}
	for rows.Next() {
		var t types.LegacyTask
		var description, ownerUserID, dueAt sql.NullString
		var createdAt string
		err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &description, &t.Status,
			&ownerUserID, &dueAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("hydrating legacy task: %w", err)
		}
		t.Description = description.String
		t.OwnerUserID = ownerUserID.String
		if dueAt.Valid {
			due, err := parseTime(dueAt.String)
			if err != nil {
				return nil, err
			}
			t.DueAt = &due
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy tasks: %w", err)
	}
	return results, nil
}

// ListLegacyCalendarEvents returns the legacy calendar events of a
// legacy project, oldest first.
func (b *Backend) ListLegacyCalendarEvents(legacyProjectID int64) ([]*types.LegacyCalendarEvent, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT id, project_id, task_id, title, starts_at, ends_at, provider, created_at FROM legacy_calendar_events WHERE project_id = ? ORDER BY id ASC",
		legacyProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching legacy calendar events: %w", err)
	}
	defer rows.Close()

	results := []*types.LegacyCalendarEvent{}
	for rows.Next() {
		var ev types.LegacyCalendarEvent
		var taskID sql.NullInt64
		var provider sql.NullString
		var startsAt, endsAt, createdAt string
		err := rows.Scan(&ev.ID, &ev.ProjectID, &taskID, &ev.Title, &startsAt,
			&endsAt, &provider, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("hydrating legacy calendar event: %w", err)
		}
		if taskID.Valid {
			id := taskID.Int64
			ev.TaskID = &id
		}
		ev.Provider = provider.String
		if ev.StartsAt, err = parseTime(startsAt); err != nil {
			return nil, err
		}
		if ev.EndsAt, err = parseTime(endsAt); err != nil {
			return nil, err
		}
		if ev.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy calendar events: %w", err)
	}
	return results, nil
}
