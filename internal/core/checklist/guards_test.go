package checklist

import (
	"errors"
	"testing"
)

func TestCanUpdateItem(t *testing.T) {
	tests := []struct {
		name        string
		ctx         UpdateItemContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can complete existing item with auditor",
			ctx: UpdateItemContext{
				ItemID:         1,
				ItemExists:     true,
				Completed:      true,
				Auditor:        "alice",
				RequireAuditor: true,
			},
			wantAllowed: true,
		},
		{
			name: "can reopen without auditor",
			ctx: UpdateItemContext{
				ItemID:         1,
				ItemExists:     true,
				Completed:      false,
				RequireAuditor: true,
			},
			wantAllowed: true,
		},
		{
			name: "can complete without auditor when not required",
			ctx: UpdateItemContext{
				ItemID:     1,
				ItemExists: true,
				Completed:  true,
			},
			wantAllowed: true,
		},
		{
			name: "cannot update unknown item",
			ctx: UpdateItemContext{
				ItemID:     999,
				ItemExists: false,
				Completed:  true,
				Auditor:    "alice",
			},
			wantAllowed: false,
			wantReason:  "audit item 999 not found",
		},
		{
			name: "cannot complete without auditor",
			ctx: UpdateItemContext{
				ItemID:         3,
				ItemExists:     true,
				Completed:      true,
				RequireAuditor: true,
			},
			wantAllowed: false,
			wantReason:  "audit item 3: an auditor is required to mark an item complete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpdateItem(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanResetChecklist(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ResetChecklistContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can reset untouched checklist",
			ctx: ResetChecklistContext{
				ChecklistID: "AUDIT-001",
			},
			wantAllowed: true,
		},
		{
			name: "can force reset checklist with progress",
			ctx: ResetChecklistContext{
				ChecklistID:    "AUDIT-001",
				CompletedCount: 4,
				Force:          true,
			},
			wantAllowed: true,
		},
		{
			name: "cannot reset checklist with progress without force",
			ctx: ResetChecklistContext{
				ChecklistID:    "AUDIT-001",
				CompletedCount: 4,
			},
			wantAllowed: false,
			wantReason:  "checklist AUDIT-001 has 4 completed item(s). Use --force to discard them",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanResetChecklist(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGuardResult_Error(t *testing.T) {
	t.Run("allowed result returns nil error", func(t *testing.T) {
		result := GuardResult{Allowed: true}
		if err := result.Error(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("not allowed result returns error with reason", func(t *testing.T) {
		result := GuardResult{Allowed: false, Reason: "test reason"}
		err := result.Error()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err.Error() != "test reason" {
			t.Errorf("expected error message 'test reason', got '%s'", err.Error())
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected error to match ErrInvalidInput, got %v", err)
		}
	})
}
