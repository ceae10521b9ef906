package primary

import "context"

// ChecklistService defines the primary port for audit checklist operations.
type ChecklistService interface {
	// InitializeChecklist creates a new checklist with every item incomplete.
	InitializeChecklist(ctx context.Context, req InitializeChecklistRequest) (*InitializeChecklistResponse, error)

	// GetChecklist retrieves a checklist with all of its items.
	GetChecklist(ctx context.Context, checklistID string) (*Checklist, error)

	// ListChecklists lists every checklist with its headline numbers.
	ListChecklists(ctx context.Context) ([]*ChecklistSummary, error)

	// UpdateItem completes, reopens, or annotates a single item.
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*AuditItem, error)

	// ResetChecklist returns every item to its initial state.
	ResetChecklist(ctx context.Context, req ResetChecklistRequest) error

	// DeleteChecklist removes a checklist and its items.
	DeleteChecklist(ctx context.Context, req DeleteChecklistRequest) error

	// GetReport builds a read-only report for a checklist.
	GetReport(ctx context.Context, checklistID string) (*Report, error)

	// IsDeploymentReady evaluates the deployment gate.
	IsDeploymentReady(ctx context.Context, checklistID string) (bool, error)

	// GetStatistics returns item counts for a checklist.
	GetStatistics(ctx context.Context, checklistID string) (*Statistics, error)

	// ListAuditLog lists audit trail entries, newest first.
	ListAuditLog(ctx context.Context, filters AuditLogFilters) ([]*AuditLogEntry, error)

	// PruneAuditLog deletes audit trail entries older than the given number of days.
	PruneAuditLog(ctx context.Context, days int) (int, error)
}

// InitializeChecklistRequest contains parameters for creating a checklist.
type InitializeChecklistRequest struct {
	Version string // Optional, defaults to the current definition version
}

// InitializeChecklistResponse contains the result of creating a checklist.
type InitializeChecklistResponse struct {
	ChecklistID string
	Checklist   *Checklist
}

// UpdateItemRequest contains parameters for updating an item.
// Completed is nil for a notes-only update. Notes is nil when the caller
// did not supply notes.
type UpdateItemRequest struct {
	ChecklistID string
	ItemID      int
	Completed   *bool
	Auditor     string // Optional, falls back to the actor in context
	Notes       *string
}

// ResetChecklistRequest contains parameters for resetting a checklist.
type ResetChecklistRequest struct {
	ChecklistID string
	Force       bool
}

// DeleteChecklistRequest contains parameters for deleting a checklist.
type DeleteChecklistRequest struct {
	ChecklistID string
	Force       bool
}

// AuditItem represents a checklist item at the port boundary.
type AuditItem struct {
	ID          int
	Category    string
	Priority    string
	Description string
	Completed   bool
	CompletedAt string // RFC3339, empty when incomplete
	Auditor     string
	Notes       string
}

// Checklist represents a checklist at the port boundary.
type Checklist struct {
	ID                   string
	Version              string
	Items                []*AuditItem
	CompletionPercentage int
	DeploymentReady      bool
	LastUpdated          string
	CreatedAt            string
}

// ChecklistSummary is the list view of a checklist.
type ChecklistSummary struct {
	ID                   string
	Version              string
	CompletedItems       int
	TotalItems           int
	CompletionPercentage int
	DeploymentReady      bool
	Status               string
	LastUpdated          string
}

// CategoryStatus is the completion of one category.
type CategoryStatus struct {
	Category  string
	Name      string
	Complete  bool
	Completed int
	Total     int
}

// Report is a read-only snapshot of a checklist.
type Report struct {
	ChecklistID          string
	Version              string
	Status               string
	StatusLabel          string
	CompletionPercentage int
	CompletedItems       int
	TotalItems           int
	DeploymentReady      bool
	Categories           []CategoryStatus
	IncompleteCritical   []*AuditItem
	IncompleteHigh       []*AuditItem
	Recommendations      []string
	NextSteps            []string
	LastUpdated          string
	CategoryRule         string
}

// Statistics are item counts for a checklist.
type Statistics struct {
	ChecklistID          string
	TotalItems           int
	CompletedItems       int
	CriticalItems        int
	CriticalCompleted    int
	HighItems            int
	HighCompleted        int
	CompletionPercentage int
}

// AuditLogEntry is one audit trail record.
type AuditLogEntry struct {
	ID          string
	ChecklistID string
	Timestamp   string
	Actor       string
	ItemID      int // 0 for checklist-level actions
	Action      string
	FieldName   string
	OldValue    string
	NewValue    string
}

// AuditLogFilters contains filter options for listing the audit trail.
type AuditLogFilters struct {
	ChecklistID string
	ItemID      int
	Actor       string
	Limit       int
}
