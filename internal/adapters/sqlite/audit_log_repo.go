// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/auditcheck/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

const auditLogPrefix = "LOG-"

// Create persists a new audit log entry. The timestamp is assigned by the database.
func (r *AuditLogRepository) Create(ctx context.Context, entry *secondary.AuditLogRecord) error {
	var itemID sql.NullInt64
	if entry.ItemID != 0 {
		itemID = sql.NullInt64{Int64: int64(entry.ItemID), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, checklist_id, actor, item_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ChecklistID,
		nullString(entry.Actor),
		itemID,
		entry.Action,
		nullString(entry.FieldName),
		nullString(entry.OldValue),
		nullString(entry.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	query := `SELECT id, checklist_id, timestamp, actor, item_id, action, field_name, old_value, new_value FROM audit_logs WHERE 1=1`
	args := []any{}

	if filters.ChecklistID != "" {
		query += " AND checklist_id = ?"
		args = append(args, filters.ChecklistID)
	}

	if filters.ItemID != 0 {
		query += " AND item_id = ?"
		args = append(args, filters.ItemID)
	}

	if filters.Actor != "" {
		query += " AND actor = ?"
		args = append(args, filters.Actor)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += fmt.Sprintf(" ORDER BY timestamp DESC, CAST(SUBSTR(id, %d) AS INTEGER) DESC", len(auditLogPrefix)+1)

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.AuditLogRecord
	for rows.Next() {
		var (
			actor     sql.NullString
			itemID    sql.NullInt64
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			timestamp time.Time
		)

		record := &secondary.AuditLogRecord{}
		err := rows.Scan(&record.ID,
			&record.ChecklistID,
			&timestamp,
			&actor,
			&itemID,
			&record.Action,
			&fieldName,
			&oldValue,
			&newValue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		record.Timestamp = timestamp.UTC().Format(time.RFC3339)
		record.Actor = actor.String
		record.ItemID = int(itemID.Int64)
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String

		logs = append(logs, record)
	}

	return logs, rows.Err()
}

// GetNextID returns the next available log ID.
func (r *AuditLogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM audit_logs", len(auditLogPrefix)+1),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next audit log ID: %w", err)
	}

	return fmt.Sprintf("%s%04d", auditLogPrefix, maxID+1), nil
}

// PruneOlderThan deletes log entries older than the given number of days.
func (r *AuditLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM audit_logs WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

// Ensure AuditLogRepository implements the interface
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
