package secondary

import "context"

// LogWriter defines the interface for writing audit trail entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs the creation of a checklist.
	LogCreate(ctx context.Context, checklistID string) error

	// LogUpdate logs a change to one field of a checklist item.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, checklistID string, itemID int, fieldName, oldValue, newValue string) error

	// LogReset logs a checklist reset.
	LogReset(ctx context.Context, checklistID string) error

	// LogDelete logs the deletion of a checklist.
	LogDelete(ctx context.Context, checklistID string) error
}
