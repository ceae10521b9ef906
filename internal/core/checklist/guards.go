// Package checklist contains the pure business logic for the audit checklist.
// Nothing here touches storage or the clock; callers pass "now" explicitly.
package checklist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an item or checklist does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed updates.
	ErrInvalidInput = errors.New("invalid input")
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed. The error
// matches ErrInvalidInput.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &guardError{reason: r.Reason, kind: ErrInvalidInput}
}

// UpdateItemContext provides context for item update guards.
type UpdateItemContext struct {
	ItemID         int
	ItemExists     bool
	Completed      bool
	Auditor        string
	RequireAuditor bool
}

// ResetChecklistContext provides context for reset guards.
type ResetChecklistContext struct {
	ChecklistID    string
	CompletedCount int
	Force          bool
}

// CanUpdateItem evaluates whether an item update can be applied.
// Rules:
// - Item must be one of the fixed definitions
// - Auditor must be named when completing (if the policy requires it)
func CanUpdateItem(ctx UpdateItemContext) GuardResult {
	if !ctx.ItemExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("audit item %d not found", ctx.ItemID),
		}
	}

	if ctx.Completed && ctx.RequireAuditor && strings.TrimSpace(ctx.Auditor) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("audit item %d: an auditor is required to mark an item complete", ctx.ItemID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanResetChecklist evaluates whether a checklist can be reset.
// Rules:
// - A checklist with completed items requires force
func CanResetChecklist(ctx ResetChecklistContext) GuardResult {
	if ctx.CompletedCount > 0 && !ctx.Force {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("checklist %s has %d completed item(s). Use --force to discard them",
				ctx.ChecklistID, ctx.CompletedCount),
		}
	}

	return GuardResult{Allowed: true}
}
