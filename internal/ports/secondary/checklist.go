package secondary

import (
	"context"
	"errors"
)

// ErrNotFound is wrapped by repositories when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ChecklistRepository defines the secondary port for checklist persistence.
type ChecklistRepository interface {
	// Create persists a new checklist together with its items.
	Create(ctx context.Context, checklist *ChecklistRecord, items []*AuditItemRecord) error

	// GetByID retrieves a checklist by its ID.
	GetByID(ctx context.Context, id string) (*ChecklistRecord, error)

	// List retrieves all checklists, oldest first.
	List(ctx context.Context) ([]*ChecklistRecord, error)

	// GetItems retrieves the items of a checklist.
	GetItems(ctx context.Context, checklistID string) ([]*AuditItemRecord, error)

	// SaveItem writes one item and the checklist's last_updated atomically.
	SaveItem(ctx context.Context, checklistID string, item *AuditItemRecord, lastUpdated string) error

	// ResetItems clears every item and sets last_updated atomically.
	ResetItems(ctx context.Context, checklistID string, lastUpdated string) error

	// Delete removes a checklist and its items.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available checklist ID.
	GetNextID(ctx context.Context) (string, error)
}

// ChecklistRecord represents a checklist as stored in persistence.
type ChecklistRecord struct {
	ID           string
	AuditVersion string
	LastUpdated  string
	CreatedAt    string
}

// AuditItemRecord represents a checklist item as stored in persistence.
type AuditItemRecord struct {
	ItemID      int
	Category    string
	Priority    string
	Description string
	Completed   bool
	CompletedAt string // Empty string means null
	Auditor     string // Empty string means null
	Notes       string // Empty string means null
}

// AuditLogRepository defines the secondary port for the audit trail.
// Entries are immutable - no Update operations, but old entries can be pruned.
type AuditLogRepository interface {
	// Create persists a new audit log entry.
	Create(ctx context.Context, entry *AuditLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)

	// GetNextID returns the next available log ID.
	GetNextID(ctx context.Context) (string, error)

	// PruneOlderThan deletes entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// AuditLogRecord represents an audit trail entry as stored in persistence.
type AuditLogRecord struct {
	ID          string
	ChecklistID string
	Timestamp   string
	Actor       string // Empty string means null
	ItemID      int    // 0 means null
	Action      string // 'create', 'update', 'reset', 'delete'
	FieldName   string // Empty string means null - for updates only
	OldValue    string
	NewValue    string
}

// AuditLogFilters contains filter options for querying the audit trail.
type AuditLogFilters struct {
	ChecklistID string
	ItemID      int
	Actor       string
	Action      string
	Limit       int
}
