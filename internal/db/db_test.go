package db

import (
	"database/sql"
	"testing"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInitSchema_Fresh(t *testing.T) {
	testDB := openMemory(t)

	if err := InitSchema(testDB); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	version, err := GetSchemaVersion(testDB)
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version != LatestVersion() {
		t.Errorf("expected version %d, got %d", LatestVersion(), version)
	}

	// Running again must be a no-op.
	if err := InitSchema(testDB); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
}

func TestRunMigrations_Upgrade(t *testing.T) {
	testDB := openMemory(t)

	// Simulate a database created at version 1.
	if _, err := testDB.Exec(schemaVersionSQL); err != nil {
		t.Fatalf("create schema_version: %v", err)
	}
	tx, err := testDB.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := migrationV1(tx); err != nil {
		t.Fatalf("migrationV1: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		t.Fatalf("record v1: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := InitSchema(testDB); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	if _, err := testDB.Exec("SELECT notes FROM audit_items"); err != nil {
		t.Errorf("notes column missing after upgrade: %v", err)
	}
	if _, err := testDB.Exec("SELECT id, actor FROM audit_logs"); err != nil {
		t.Errorf("audit_logs missing after upgrade: %v", err)
	}
}

func TestSchema_CompletionConstraint(t *testing.T) {
	testDB := openMemory(t)
	if err := InitSchema(testDB); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	if _, err := testDB.Exec("INSERT INTO checklists (id, last_updated) VALUES ('AUDIT-001', '2026-01-01T00:00:00Z')"); err != nil {
		t.Fatalf("insert checklist: %v", err)
	}

	_, err := testDB.Exec(`INSERT INTO audit_items (checklist_id, item_id, category, priority, description, completed)
		VALUES ('AUDIT-001', 1, 'security', 'critical', 'x', 1)`)
	if err == nil {
		t.Error("expected completed item without completed_at to be rejected")
	}

	_, err = testDB.Exec(`INSERT INTO audit_items (checklist_id, item_id, category, priority, description, completed, auditor)
		VALUES ('AUDIT-001', 2, 'security', 'critical', 'x', 0, 'alice')`)
	if err == nil {
		t.Error("expected incomplete item with auditor to be rejected")
	}
}

func TestSeedFixtures(t *testing.T) {
	testDB := openMemory(t)
	if err := InitSchema(testDB); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	if err := SeedFixtures(testDB); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	var items, completed int
	if err := testDB.QueryRow("SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM audit_items WHERE checklist_id = 'AUDIT-003'").Scan(&items, &completed); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 29 || completed != 28 {
		t.Errorf("expected 28/29 completed in AUDIT-003, got %d/%d", completed, items)
	}
}
