// This file implements actor identity rows and project memberships.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/praxis-works/onto/pkg/types"
)

// EnsureActor returns the actor ID for userID, creating the actor row
// when absent. The insert-or-ignore against the unique user_id index
// makes concurrent calls for the same user converge on one row.
func (b *Backend) EnsureActor(userID string, now time.Time) (string, error) {
	db, err := b.conn()
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", types.ErrInvalidID
	}

	candidate := types.NewID()
	_, err = db.Exec(
		"INSERT OR IGNORE INTO actors (actor_id, user_id, created_at) VALUES (?, ?, ?)",
		candidate, userID, formatTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("ensuring actor: %w", err)
	}

	var actorID string
	err = db.QueryRow("SELECT actor_id FROM actors WHERE user_id = ?", userID).Scan(&actorID)
	if err != nil {
		return "", fmt.Errorf("resolving actor for user %s: %w", userID, err)
	}
	return actorID, nil
}

// GetActor retrieves an actor by ID.
func (b *Backend) GetActor(actorID string) (*types.Actor, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, types.ErrInvalidID
	}

	var a types.Actor
	var createdAt string
	err = db.QueryRow(
		"SELECT actor_id, user_id, created_at FROM actors WHERE actor_id = ?", actorID,
	).Scan(&a.ActorID, &a.UserID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting actor %s: %w", actorID, err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertMembership adds or reactivates a project membership. An existing
// row is overwritten with the new level and a cleared removed_at.
func (b *Backend) UpsertMembership(m *types.Membership) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if m.ProjectID == "" || m.ActorID == "" {
		return types.ErrInvalidID
	}
	if !types.ValidLevel(m.Level) {
		return types.ErrInvalidData
	}

	_, err = db.Exec(
		`INSERT INTO project_members (project_id, actor_id, level, added_at, removed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (project_id, actor_id)
		 DO UPDATE SET level = excluded.level, added_at = excluded.added_at, removed_at = NULL`,
		m.ProjectID, m.ActorID, m.Level, formatTime(m.AddedAt), nullTime(m.RemovedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting membership: %w", err)
	}
	return nil
}

// RemoveMembership sets removed_at on an active membership.
func (b *Backend) RemoveMembership(projectID, actorID string, at time.Time) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	res, err := db.Exec(
		"UPDATE project_members SET removed_at = ? WHERE project_id = ? AND actor_id = ? AND removed_at IS NULL",
		formatTime(at), projectID, actorID,
	)
	if err != nil {
		return fmt.Errorf("removing membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing membership: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// MembershipLevel returns the active membership level of an actor on a
// project. ok is false when no active membership exists.
func (b *Backend) MembershipLevel(projectID, actorID string) (string, bool, error) {
	db, err := b.conn()
	if err != nil {
		return "", false, err
	}

	var level string
	err = db.QueryRow(
		"SELECT level FROM project_members WHERE project_id = ? AND actor_id = ? AND removed_at IS NULL",
		projectID, actorID,
	).Scan(&level)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying membership: %w", err)
	}
	return level, true, nil
}
