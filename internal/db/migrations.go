package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_checklists_and_audit_items",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_notes_to_audit_items",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "create_audit_logs",
		Up:      migrationV3,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(database *sql.DB) error {
	// Create schema_version table if it doesn't exist
	if _, err := database.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetSchemaVersion returns the highest applied migration version.
func GetSchemaVersion(database *sql.DB) (int, error) {
	var version int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// LatestVersion returns the version of the newest migration.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS checklists (
			id TEXT PRIMARY KEY,
			audit_version TEXT NOT NULL DEFAULT '1.0.0',
			last_updated DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS audit_items (
			checklist_id TEXT NOT NULL,
			item_id INTEGER NOT NULL,
			category TEXT NOT NULL CHECK(category IN ('security', 'code_review', 'testing', 'documentation', 'deployment')),
			priority TEXT NOT NULL CHECK(priority IN ('critical', 'high', 'medium', 'low')),
			description TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			auditor TEXT,
			PRIMARY KEY (checklist_id, item_id),
			FOREIGN KEY (checklist_id) REFERENCES checklists(id) ON DELETE CASCADE,
			CHECK ((completed = 1) = (completed_at IS NOT NULL)),
			CHECK (completed = 1 OR auditor IS NULL)
		);

		CREATE INDEX IF NOT EXISTS idx_audit_items_category ON audit_items(checklist_id, category);
	`)
	return err
}

func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE audit_items ADD COLUMN notes TEXT`)
	return err
}

func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}
