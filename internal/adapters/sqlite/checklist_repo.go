// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/auditcheck/internal/ports/secondary"
)

// ChecklistRepository implements secondary.ChecklistRepository with SQLite.
type ChecklistRepository struct {
	db *sql.DB
}

// NewChecklistRepository creates a new SQLite checklist repository.
func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

const checklistSelectCols = "id, audit_version, last_updated, created_at"

const itemSelectCols = "item_id, category, priority, description, completed, completed_at, auditor, notes"

// scanChecklist scans a checklist row into a ChecklistRecord.
func scanChecklist(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ChecklistRecord, error) {
	var (
		lastUpdated time.Time
		createdAt   sql.NullTime
	)

	record := &secondary.ChecklistRecord{}
	if err := scanner.Scan(&record.ID, &record.AuditVersion, &lastUpdated, &createdAt); err != nil {
		return nil, err
	}

	record.LastUpdated = lastUpdated.UTC().Format(time.RFC3339)
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
	}

	return record, nil
}

// scanItem scans an audit item row into an AuditItemRecord.
func scanItem(scanner interface {
	Scan(dest ...any) error
}) (*secondary.AuditItemRecord, error) {
	var (
		completedAt sql.NullTime
		auditor     sql.NullString
		notes       sql.NullString
	)

	record := &secondary.AuditItemRecord{}
	err := scanner.Scan(
		&record.ItemID, &record.Category, &record.Priority, &record.Description,
		&record.Completed, &completedAt, &auditor, &notes,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		record.CompletedAt = completedAt.Time.UTC().Format(time.RFC3339)
	}
	record.Auditor = auditor.String
	record.Notes = notes.String

	return record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Create persists a new checklist and its items in one transaction.
func (r *ChecklistRepository) Create(ctx context.Context, checklist *secondary.ChecklistRecord, items []*secondary.AuditItemRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO checklists (id, audit_version, last_updated) VALUES (?, ?, ?)",
		checklist.ID, checklist.AuditVersion, checklist.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to create checklist: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_items (checklist_id, item_id, category, priority, description, completed, completed_at, auditor, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.ExecContext(ctx,
			checklist.ID, item.ItemID, item.Category, item.Priority, item.Description,
			item.Completed, nullString(item.CompletedAt), nullString(item.Auditor), nullString(item.Notes),
		)
		if err != nil {
			return fmt.Errorf("failed to create audit item %d: %w", item.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checklist: %w", err)
	}

	return nil
}

// GetByID retrieves a checklist by its ID.
func (r *ChecklistRepository) GetByID(ctx context.Context, id string) (*secondary.ChecklistRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+checklistSelectCols+" FROM checklists WHERE id = ?",
		id,
	)

	record, err := scanChecklist(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("checklist %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	return record, nil
}

// List retrieves all checklists, oldest first.
func (r *ChecklistRepository) List(ctx context.Context) ([]*secondary.ChecklistRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+checklistSelectCols+" FROM checklists ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	defer rows.Close()

	var checklists []*secondary.ChecklistRecord
	for rows.Next() {
		record, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		checklists = append(checklists, record)
	}

	return checklists, rows.Err()
}

// GetItems retrieves the items of a checklist ordered by item ID.
func (r *ChecklistRepository) GetItems(ctx context.Context, checklistID string) ([]*secondary.AuditItemRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemSelectCols+" FROM audit_items WHERE checklist_id = ? ORDER BY item_id ASC",
		checklistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.AuditItemRecord
	for rows.Next() {
		record, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit item: %w", err)
		}
		items = append(items, record)
	}

	return items, rows.Err()
}

// SaveItem writes the mutable fields of one item and bumps the checklist's
// last_updated in the same transaction.
func (r *ChecklistRepository) SaveItem(ctx context.Context, checklistID string, item *secondary.AuditItemRecord, lastUpdated string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE audit_items SET completed = ?, completed_at = ?, auditor = ?, notes = ?
		 WHERE checklist_id = ? AND item_id = ?`,
		item.Completed, nullString(item.CompletedAt), nullString(item.Auditor), nullString(item.Notes),
		checklistID, item.ItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit item: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("audit item %s/%d: %w", checklistID, item.ItemID, secondary.ErrNotFound)
	}

	if err := touchChecklist(ctx, tx, checklistID, lastUpdated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit item: %w", err)
	}

	return nil
}

// ResetItems clears every item of a checklist and bumps last_updated.
func (r *ChecklistRepository) ResetItems(ctx context.Context, checklistID string, lastUpdated string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := touchChecklist(ctx, tx, checklistID, lastUpdated); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE audit_items SET completed = 0, completed_at = NULL, auditor = NULL, notes = NULL WHERE checklist_id = ?",
		checklistID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset audit items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	return nil
}

func touchChecklist(ctx context.Context, tx *sql.Tx, checklistID, lastUpdated string) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE checklists SET last_updated = ? WHERE id = ?",
		lastUpdated, checklistID,
	)
	if err != nil {
		return fmt.Errorf("failed to update checklist: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("checklist %s: %w", checklistID, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a checklist; items cascade.
func (r *ChecklistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM checklists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete checklist: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("checklist %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available checklist ID.
func (r *ChecklistRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM checklists",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next checklist ID: %w", err)
	}

	return fmt.Sprintf("AUDIT-%03d", maxID+1), nil
}

// Ensure ChecklistRepository implements the interface
var _ secondary.ChecklistRepository = (*ChecklistRepository)(nil)
