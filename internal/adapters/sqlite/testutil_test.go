// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/auditcheck/internal/adapters/sqlite"
	"github.com/example/auditcheck/internal/core/checklist"
	"github.com/example/auditcheck/internal/db"
	"github.com/example/auditcheck/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// freshItems returns item records for every definition, all incomplete.
func freshItems() []*secondary.AuditItemRecord {
	defs := checklist.Definitions()
	items := make([]*secondary.AuditItemRecord, len(defs))
	for i, d := range defs {
		items[i] = &secondary.AuditItemRecord{
			ItemID:      d.ID,
			Category:    string(d.Category),
			Priority:    string(d.Priority),
			Description: d.Description,
		}
	}
	return items
}

// seedChecklist creates a checklist with fresh items and returns its ID.
func seedChecklist(t *testing.T, testDB *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "AUDIT-001"
	}
	repo := sqlite.NewChecklistRepository(testDB)
	err := repo.Create(context.Background(), &secondary.ChecklistRecord{
		ID:           id,
		AuditVersion: checklist.Version,
		LastUpdated:  "2026-03-01T09:00:00Z",
	}, freshItems())
	if err != nil {
		t.Fatalf("failed to seed checklist: %v", err)
	}
	return id
}
