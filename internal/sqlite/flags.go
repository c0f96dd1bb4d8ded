// This file implements org- and user-scoped feature flags.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/praxis-works/onto/pkg/types"
)

// SetFlag enables or disables a feature flag for a scope.
func (b *Backend) SetFlag(scope, scopeID, flag string, enabled bool) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if scope != types.FlagScopeOrg && scope != types.FlagScopeUser {
		return types.ErrInvalidData
	}
	if scopeID == "" || flag == "" {
		return types.ErrInvalidData
	}

	val := 0
	if enabled {
		val = 1
	}
	_, err = db.Exec(
		`INSERT INTO feature_flags (scope, scope_id, flag, enabled) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, scope_id, flag) DO UPDATE SET enabled = excluded.enabled`,
		scope, scopeID, flag, val,
	)
	if err != nil {
		return fmt.Errorf("setting flag: %w", err)
	}
	return nil
}

// FlagEnabled reports whether a flag is set for the scope. An absent
// row reads as disabled.
func (b *Backend) FlagEnabled(scope, scopeID, flag string) (bool, error) {
	db, err := b.conn()
	if err != nil {
		return false, err
	}

	var enabled int
	err = db.QueryRow(
		"SELECT enabled FROM feature_flags WHERE scope = ? AND scope_id = ? AND flag = ?",
		scope, scopeID, flag,
	).Scan(&enabled)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("querying flag: %w", err)
	}
	return enabled != 0, nil
}
