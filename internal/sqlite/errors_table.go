// This file implements the migration error ledger table. List and
// DeleteErrorRecordsWhere share one predicate builder so "delete
// everything currently shown" is exact.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/praxis-works/onto/pkg/types"
)

// InsertErrorRecord appends one migration error record. Records are
// never mutated after insert.
func (b *Backend) InsertErrorRecord(rec *types.ErrorRecord) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if rec.ErrorID == "" {
		return types.ErrInvalidID
	}
	if !types.ValidCategory(rec.Category) {
		return types.ErrInvalidData
	}

	_, err = db.Exec(
		"INSERT INTO migration_errors (error_id, entity_type, category, run_id, project_id, user_id, message, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ErrorID, rec.EntityType, rec.Category, rec.RunID,
		nullString(rec.ProjectID), nullString(rec.UserID), rec.Message,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting error record: %w", err)
	}
	return nil
}

// ListErrorRecords returns ledger records matching the filter, plus the
// total match count before paging. Filters combine with AND.
func (b *Backend) ListErrorRecords(filter types.ErrorFilter, page types.Page, sort types.ErrorSort) ([]*types.ErrorRecord, int, error) {
	db, err := b.conn()
	if err != nil {
		return nil, 0, err
	}

	where, args := errorFilterPredicate(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM migration_errors" + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting error records: %w", err)
	}

	column := sort.Column
	switch column {
	case "":
		column = types.ErrorSortCreatedAt
	case types.ErrorSortCreatedAt, types.ErrorSortEntityType, types.ErrorSortCategory:
	default:
		return nil, 0, types.ErrInvalidFilter
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	query := "SELECT error_id, entity_type, category, run_id, project_id, user_id, message, created_at FROM migration_errors" +
		where + fmt.Sprintf(" ORDER BY %s %s", column, direction)
	if page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", page.Limit)
		if page.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", page.Offset)
		}
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching error records: %w", err)
	}
	defer rows.Close()

	results := []*types.ErrorRecord{}
	for rows.Next() {
		var r types.ErrorRecord
		var projectID, userID sql.NullString
		var createdAt string
		err := rows.Scan(&r.ErrorID, &r.EntityType, &r.Category, &r.RunID,
			&projectID, &userID, &r.Message, &createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("hydrating error record: %w", err)
		}
		r.ProjectID = projectID.String
		r.UserID = userID.String
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, 0, err
		}
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating error records: %w", err)
	}
	return results, total, nil
}

// DeleteErrorRecords removes records by ID.
func (b *Backend) DeleteErrorRecords(ids []string) (int, error) {
	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	res, err := db.Exec(
		"DELETE FROM migration_errors WHERE error_id IN ("+strings.Join(placeholders, ", ")+")",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting error records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting error records: %w", err)
	}
	return int(n), nil
}

// DeleteErrorRecordsWhere removes every record matching the filter,
// using the same predicate as ListErrorRecords.
func (b *Backend) DeleteErrorRecordsWhere(filter types.ErrorFilter) (int, error) {
	db, err := b.conn()
	if err != nil {
		return 0, err
	}

	where, args := errorFilterPredicate(filter)
	res, err := db.Exec("DELETE FROM migration_errors"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting error records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting error records: %w", err)
	}
	return int(n), nil
}

// errorFilterPredicate builds the shared WHERE clause for ledger queries
// and bulk deletes.
func errorFilterPredicate(filter types.ErrorFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Search != "" {
		conditions = append(conditions, `message LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
