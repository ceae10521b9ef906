package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/auditcheck/internal/adapters/sqlite"
	"github.com/example/auditcheck/internal/ports/secondary"
)

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()
	seedChecklist(t, db, "AUDIT-001")

	entries := []*secondary.AuditLogRecord{
		{ID: "LOG-0001", ChecklistID: "AUDIT-001", Actor: "alice", Action: "create"},
		{ID: "LOG-0002", ChecklistID: "AUDIT-001", Actor: "alice", ItemID: 1, Action: "update", FieldName: "completed", OldValue: "false", NewValue: "true"},
		{ID: "LOG-0003", ChecklistID: "AUDIT-001", Actor: "bob", ItemID: 2, Action: "update", FieldName: "notes", NewValue: "looked at it"},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := repo.List(ctx, secondary.AuditLogFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	// Same-second timestamps fall back to ID order, newest first.
	if all[0].ID != "LOG-0003" || all[2].ID != "LOG-0001" {
		t.Errorf("unexpected order: %s ... %s", all[0].ID, all[2].ID)
	}
	if all[0].Timestamp == "" {
		t.Error("expected timestamp to be assigned")
	}
	if all[2].ItemID != 0 || all[2].FieldName != "" {
		t.Errorf("checklist-level entry should have no item or field: %+v", all[2])
	}
	if all[1].OldValue != "false" || all[1].NewValue != "true" {
		t.Errorf("unexpected values: %+v", all[1])
	}
}

func TestAuditLogRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()
	seedChecklist(t, db, "AUDIT-001")
	seedChecklist(t, db, "AUDIT-002")

	for _, e := range []*secondary.AuditLogRecord{
		{ID: "LOG-0001", ChecklistID: "AUDIT-001", Actor: "alice", ItemID: 1, Action: "update", FieldName: "completed"},
		{ID: "LOG-0002", ChecklistID: "AUDIT-001", Actor: "bob", ItemID: 2, Action: "update", FieldName: "completed"},
		{ID: "LOG-0003", ChecklistID: "AUDIT-002", Actor: "alice", Action: "reset"},
		{ID: "LOG-0004", ChecklistID: "AUDIT-001", Actor: "alice", ItemID: 1, Action: "update", FieldName: "notes"},
	} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		filters secondary.AuditLogFilters
		want    int
	}{
		{"by checklist", secondary.AuditLogFilters{ChecklistID: "AUDIT-001"}, 3},
		{"by item", secondary.AuditLogFilters{ChecklistID: "AUDIT-001", ItemID: 1}, 2},
		{"by actor", secondary.AuditLogFilters{Actor: "alice"}, 3},
		{"by action", secondary.AuditLogFilters{Action: "reset"}, 1},
		{"with limit", secondary.AuditLogFilters{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestAuditLogRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()
	seedChecklist(t, db, "AUDIT-001")

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "LOG-0001" {
		t.Errorf("expected LOG-0001, got %s", id)
	}

	_ = repo.Create(ctx, &secondary.AuditLogRecord{ID: "LOG-0041", ChecklistID: "AUDIT-001", Action: "create"})

	id, _ = repo.GetNextID(ctx)
	if id != "LOG-0042" {
		t.Errorf("expected LOG-0042, got %s", id)
	}
}

func TestAuditLogRepository_PruneOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()
	seedChecklist(t, db, "AUDIT-001")

	_, err := db.Exec(`INSERT INTO audit_logs (id, checklist_id, timestamp, action) VALUES
		('LOG-0001', 'AUDIT-001', datetime('now', '-40 days'), 'create'),
		('LOG-0002', 'AUDIT-001', datetime('now', '-10 days'), 'reset')`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := repo.Create(ctx, &secondary.AuditLogRecord{ID: "LOG-0003", ChecklistID: "AUDIT-001", Action: "reset"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := repo.PruneOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	remaining, _ := repo.List(ctx, secondary.AuditLogFilters{})
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining, got %d", len(remaining))
	}
}
