// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"

	"github.com/example/auditcheck/internal/ctxutil"
	"github.com/example/auditcheck/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using AuditLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.AuditLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.AuditLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs the creation of a checklist.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, checklistID string) error {
	return w.writeLog(ctx, checklistID, 0, "create", "", "", "")
}

// LogUpdate logs a change to one field of a checklist item.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, checklistID string, itemID int, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, checklistID, itemID, "update", fieldName, oldValue, newValue)
}

// LogReset logs a checklist reset.
func (w *LogWriterAdapter) LogReset(ctx context.Context, checklistID string) error {
	return w.writeLog(ctx, checklistID, 0, "reset", "", "", "")
}

// LogDelete logs the deletion of a checklist.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, checklistID string) error {
	return w.writeLog(ctx, checklistID, 0, "delete", "", "", "")
}

// writeLog writes a log entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, checklistID string, itemID int, action, fieldName, oldValue, newValue string) error {
	id, err := w.logRepo.GetNextID(ctx)
	if err != nil {
		return err
	}

	record := &secondary.AuditLogRecord{
		ID:          id,
		ChecklistID: checklistID,
		Actor:       ctxutil.ActorFromContext(ctx),
		ItemID:      itemID,
		Action:      action,
		FieldName:   fieldName,
		OldValue:    oldValue,
		NewValue:    newValue,
	}

	return w.logRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
