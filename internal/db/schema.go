package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it via GetSchemaSQL() instead of declaring their own tables, so
// a column referenced in code but missing here fails with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `go test ./internal/...` to verify alignment
const SchemaSQL = `
-- Checklists (one audit cycle each)
CREATE TABLE IF NOT EXISTS checklists (
	id TEXT PRIMARY KEY,
	audit_version TEXT NOT NULL DEFAULT '1.0.0',
	last_updated DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Audit items (fixed definitions, mutable completion state)
CREATE TABLE IF NOT EXISTS audit_items (
	checklist_id TEXT NOT NULL,
	item_id INTEGER NOT NULL,
	category TEXT NOT NULL CHECK(category IN ('security', 'code_review', 'testing', 'documentation', 'deployment')),
	priority TEXT NOT NULL CHECK(priority IN ('critical', 'high', 'medium', 'low')),
	description TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	completed_at DATETIME,
	auditor TEXT,
	notes TEXT,
	PRIMARY KEY (checklist_id, item_id),
	FOREIGN KEY (checklist_id) REFERENCES checklists(id) ON DELETE CASCADE,
	CHECK ((completed = 1) = (completed_at IS NOT NULL)),
	CHECK (completed = 1 OR auditor IS NULL)
);

CREATE INDEX IF NOT EXISTS idx_audit_items_category ON audit_items(checklist_id, category);

-- Audit logs (immutable trail; survives checklist deletion)
CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	checklist_id TEXT NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	actor TEXT,
	item_id INTEGER,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'reset', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_checklist ON audit_logs(checklist_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
`

// InitSchema creates the database schema on a fresh database and runs any
// pending migrations on an existing one.
func InitSchema(database *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(database)
	}

	// Completely fresh install - create modern schema directly and mark
	// every migration as applied.
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
