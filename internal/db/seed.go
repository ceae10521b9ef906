package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/auditcheck/internal/core/checklist"
)

// SeedFixtures populates the database with development fixtures:
// AUDIT-001 untouched, AUDIT-002 in progress, AUDIT-003 ready for deployment.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	fixtures := []struct {
		id   string
		done func(checklist.Definition) bool
	}{
		{"AUDIT-001", func(checklist.Definition) bool { return false }},
		{"AUDIT-002", func(d checklist.Definition) bool {
			return d.Category == checklist.CategorySecurity || d.Category == checklist.CategoryCodeReview
		}},
		{"AUDIT-003", func(d checklist.Definition) bool { return d.ID != 305 }},
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	for _, f := range fixtures {
		stamp := now.Format(time.RFC3339)
		if _, err := tx.Exec(
			"INSERT INTO checklists (id, audit_version, last_updated, created_at) VALUES (?, ?, ?, ?)",
			f.id, checklist.Version, stamp, stamp,
		); err != nil {
			return fmt.Errorf("seed checklist %s: %w", f.id, err)
		}

		for _, d := range checklist.Definitions() {
			var completedAt, auditor sql.NullString
			completed := f.done(d)
			if completed {
				completedAt = sql.NullString{String: stamp, Valid: true}
				auditor = sql.NullString{String: "seed", Valid: true}
			}
			if _, err := tx.Exec(
				`INSERT INTO audit_items (checklist_id, item_id, category, priority, description, completed, completed_at, auditor)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				f.id, d.ID, string(d.Category), string(d.Priority), d.Description, completed, completedAt, auditor,
			); err != nil {
				return fmt.Errorf("seed item %s/%d: %w", f.id, d.ID, err)
			}
		}
	}

	return tx.Commit()
}
