package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/auditcheck/internal/core/checklist"
	"github.com/example/auditcheck/internal/ctxutil"
	"github.com/example/auditcheck/internal/ports/primary"
	"github.com/example/auditcheck/internal/ports/secondary"
)

// ChecklistServiceImpl implements the ChecklistService interface.
type ChecklistServiceImpl struct {
	checklistRepo  secondary.ChecklistRepository
	logRepo        secondary.AuditLogRepository
	logWriter      secondary.LogWriter
	logger         *zap.Logger
	policy         checklist.Policy
	defaultAuditor string
	now            func() time.Time

	mu sync.Mutex
}

// ChecklistServiceOptions carries the configurable parts of the service.
type ChecklistServiceOptions struct {
	Policy         checklist.Policy
	DefaultAuditor string
	Logger         *zap.Logger      // nil means zap.NewNop()
	Clock          func() time.Time // nil means time.Now
}

// NewChecklistService creates a new ChecklistService with injected dependencies.
func NewChecklistService(
	checklistRepo secondary.ChecklistRepository,
	logRepo secondary.AuditLogRepository,
	logWriter secondary.LogWriter,
	opts ChecklistServiceOptions,
) *ChecklistServiceImpl {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ChecklistServiceImpl{
		checklistRepo:  checklistRepo,
		logRepo:        logRepo,
		logWriter:      logWriter,
		logger:         logger,
		policy:         opts.Policy,
		defaultAuditor: strings.TrimSpace(opts.DefaultAuditor),
		now:            clock,
	}
}

// InitializeChecklist creates a new checklist with every item incomplete.
func (s *ChecklistServiceImpl) InitializeChecklist(ctx context.Context, req primary.InitializeChecklistRequest) (*primary.InitializeChecklistResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextID, err := s.checklistRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate checklist ID: %w", err)
	}

	c := checklist.New(nextID, s.timestamp(), s.policy)
	if req.Version != "" {
		c.Version = req.Version
	}

	record := &secondary.ChecklistRecord{
		ID:           c.ID,
		AuditVersion: c.Version,
		LastUpdated:  formatTime(c.LastUpdated),
	}
	items := make([]*secondary.AuditItemRecord, len(c.Items))
	for i, it := range c.Items {
		items[i] = itemToRecord(it)
	}

	if err := s.checklistRepo.Create(ctx, record, items); err != nil {
		return nil, fmt.Errorf("failed to create checklist: %w", err)
	}

	s.logger.Info("checklist initialized",
		zap.String("checklist_id", c.ID),
		zap.String("version", c.Version))
	s.writeLog(func() error { return s.logWriter.LogCreate(ctx, c.ID) }, c.ID)

	created, err := s.getChecklist(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created checklist: %w", err)
	}

	return &primary.InitializeChecklistResponse{
		ChecklistID: c.ID,
		Checklist:   created,
	}, nil
}

// GetChecklist retrieves a checklist with all of its items.
func (s *ChecklistServiceImpl) GetChecklist(ctx context.Context, checklistID string) (*primary.Checklist, error) {
	return s.getChecklist(ctx, checklistID)
}

func (s *ChecklistServiceImpl) getChecklist(ctx context.Context, checklistID string) (*primary.Checklist, error) {
	c, record, err := s.load(ctx, checklistID)
	if err != nil {
		return nil, err
	}

	items := make([]*primary.AuditItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = itemToPrimary(it)
	}

	return &primary.Checklist{
		ID:                   c.ID,
		Version:              c.Version,
		Items:                items,
		CompletionPercentage: c.CompletionPercentage(),
		DeploymentReady:      c.IsDeploymentReady(),
		LastUpdated:          formatTime(c.LastUpdated),
		CreatedAt:            record.CreatedAt,
	}, nil
}

// ListChecklists lists every checklist with its headline numbers.
func (s *ChecklistServiceImpl) ListChecklists(ctx context.Context) ([]*primary.ChecklistSummary, error) {
	records, err := s.checklistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}

	summaries := make([]*primary.ChecklistSummary, 0, len(records))
	for _, r := range records {
		c, _, err := s.load(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &primary.ChecklistSummary{
			ID:                   c.ID,
			Version:              c.Version,
			CompletedItems:       c.CompletedCount(),
			TotalItems:           len(c.Items),
			CompletionPercentage: c.CompletionPercentage(),
			DeploymentReady:      c.IsDeploymentReady(),
			Status:               string(c.Status()),
			LastUpdated:          formatTime(c.LastUpdated),
		})
	}
	return summaries, nil
}

// UpdateItem completes, reopens, or annotates a single item.
func (s *ChecklistServiceImpl) UpdateItem(ctx context.Context, req primary.UpdateItemRequest) (*primary.AuditItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx, req.ChecklistID)
	if err != nil {
		return nil, err
	}

	before, _ := c.Item(req.ItemID)

	auditor := ""
	if req.Completed != nil && *req.Completed {
		auditor = s.resolveAuditor(ctx, req.Auditor)
	}

	updated, err := c.UpdateItem(checklist.Update{
		ItemID:    req.ItemID,
		Completed: req.Completed,
		Auditor:   auditor,
		Notes:     req.Notes,
	}, s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("checklist %s: %w", req.ChecklistID, err)
	}

	if err := s.checklistRepo.SaveItem(ctx, c.ID, itemToRecord(updated), formatTime(c.LastUpdated)); err != nil {
		return nil, fmt.Errorf("failed to save item %d: %w", updated.ID, s.translate(err))
	}

	s.logger.Info("audit item updated",
		zap.String("checklist_id", c.ID),
		zap.Int("item_id", updated.ID),
		zap.Bool("completed", updated.Completed),
		zap.String("auditor", updated.Auditor))

	for _, ch := range itemChanges(before, updated) {
		s.writeLog(func() error {
			return s.logWriter.LogUpdate(ctx, c.ID, updated.ID, ch.field, ch.old, ch.new)
		}, c.ID)
	}

	return itemToPrimary(updated), nil
}

// ResetChecklist returns every item to its initial state.
func (s *ChecklistServiceImpl) ResetChecklist(ctx context.Context, req primary.ResetChecklistRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx, req.ChecklistID)
	if err != nil {
		return err
	}

	guard := checklist.CanResetChecklist(checklist.ResetChecklistContext{
		ChecklistID:    c.ID,
		CompletedCount: c.CompletedCount(),
		Force:          req.Force,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	completed := c.CompletedCount()
	c.Reset(s.timestamp())

	if err := s.checklistRepo.ResetItems(ctx, c.ID, formatTime(c.LastUpdated)); err != nil {
		return fmt.Errorf("failed to reset checklist: %w", s.translate(err))
	}

	s.logger.Info("checklist reset",
		zap.String("checklist_id", c.ID),
		zap.Int("discarded_items", completed))
	s.writeLog(func() error { return s.logWriter.LogReset(ctx, c.ID) }, c.ID)

	return nil
}

// DeleteChecklist removes a checklist and its items.
func (s *ChecklistServiceImpl) DeleteChecklist(ctx context.Context, req primary.DeleteChecklistRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx, req.ChecklistID)
	if err != nil {
		return err
	}

	guard := checklist.CanResetChecklist(checklist.ResetChecklistContext{
		ChecklistID:    c.ID,
		CompletedCount: c.CompletedCount(),
		Force:          req.Force,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.checklistRepo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete checklist: %w", s.translate(err))
	}

	s.logger.Info("checklist deleted", zap.String("checklist_id", c.ID))
	s.writeLog(func() error { return s.logWriter.LogDelete(ctx, c.ID) }, c.ID)

	return nil
}

// GetReport builds a read-only report for a checklist.
func (s *ChecklistServiceImpl) GetReport(ctx context.Context, checklistID string) (*primary.Report, error) {
	c, _, err := s.load(ctx, checklistID)
	if err != nil {
		return nil, err
	}

	r := c.Report()
	report := &primary.Report{
		ChecklistID:          r.ChecklistID,
		Version:              r.Version,
		Status:               string(r.Status),
		StatusLabel:          r.Status.Label(),
		CompletionPercentage: r.CompletionPercentage,
		CompletedItems:       r.CompletedItems,
		TotalItems:           r.TotalItems,
		DeploymentReady:      r.DeploymentReady,
		Recommendations:      r.Recommendations,
		NextSteps:            r.NextSteps,
		LastUpdated:          formatTime(r.LastUpdated),
		CategoryRule:         string(c.Policy.CategoryRule),
	}
	for _, cs := range r.Categories {
		report.Categories = append(report.Categories, primary.CategoryStatus{
			Category:  string(cs.Category),
			Name:      cs.Category.DisplayName(),
			Complete:  cs.Complete,
			Completed: cs.Completed,
			Total:     cs.Total,
		})
	}
	for _, it := range r.IncompleteCritical {
		report.IncompleteCritical = append(report.IncompleteCritical, itemToPrimary(it))
	}
	for _, it := range r.IncompleteHigh {
		report.IncompleteHigh = append(report.IncompleteHigh, itemToPrimary(it))
	}

	return report, nil
}

// IsDeploymentReady evaluates the deployment gate.
func (s *ChecklistServiceImpl) IsDeploymentReady(ctx context.Context, checklistID string) (bool, error) {
	c, _, err := s.load(ctx, checklistID)
	if err != nil {
		return false, err
	}
	return c.IsDeploymentReady(), nil
}

// GetStatistics returns item counts for a checklist.
func (s *ChecklistServiceImpl) GetStatistics(ctx context.Context, checklistID string) (*primary.Statistics, error) {
	c, _, err := s.load(ctx, checklistID)
	if err != nil {
		return nil, err
	}

	st := c.Statistics()
	return &primary.Statistics{
		ChecklistID:          c.ID,
		TotalItems:           st.TotalItems,
		CompletedItems:       st.CompletedItems,
		CriticalItems:        st.CriticalItems,
		CriticalCompleted:    st.CriticalCompleted,
		HighItems:            st.HighItems,
		HighCompleted:        st.HighCompleted,
		CompletionPercentage: st.CompletionPercentage,
	}, nil
}

// ListAuditLog lists audit trail entries, newest first.
func (s *ChecklistServiceImpl) ListAuditLog(ctx context.Context, filters primary.AuditLogFilters) ([]*primary.AuditLogEntry, error) {
	records, err := s.logRepo.List(ctx, secondary.AuditLogFilters{
		ChecklistID: filters.ChecklistID,
		ItemID:      filters.ItemID,
		Actor:       filters.Actor,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}

	entries := make([]*primary.AuditLogEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.AuditLogEntry{
			ID:          r.ID,
			ChecklistID: r.ChecklistID,
			Timestamp:   r.Timestamp,
			Actor:       r.Actor,
			ItemID:      r.ItemID,
			Action:      r.Action,
			FieldName:   r.FieldName,
			OldValue:    r.OldValue,
			NewValue:    r.NewValue,
		}
	}
	return entries, nil
}

// PruneAuditLog deletes audit trail entries older than the given number of days.
func (s *ChecklistServiceImpl) PruneAuditLog(ctx context.Context, days int) (int, error) {
	if days < 1 {
		return 0, fmt.Errorf("days must be at least 1, got %d: %w", days, checklist.ErrInvalidInput)
	}

	deleted, err := s.logRepo.PruneOlderThan(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit log: %w", err)
	}

	s.logger.Info("audit log pruned", zap.Int("days", days), zap.Int("deleted", deleted))
	return deleted, nil
}

// load reads a checklist and its items and validates them against the definitions.
func (s *ChecklistServiceImpl) load(ctx context.Context, checklistID string) (*checklist.Checklist, *secondary.ChecklistRecord, error) {
	record, err := s.checklistRepo.GetByID(ctx, checklistID)
	if err != nil {
		return nil, nil, s.translate(err)
	}

	itemRecords, err := s.checklistRepo.GetItems(ctx, checklistID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load items: %w", s.translate(err))
	}

	items := make([]checklist.Item, 0, len(itemRecords))
	for _, r := range itemRecords {
		it, err := recordToItem(r)
		if err != nil {
			return nil, nil, fmt.Errorf("checklist %s: %w", checklistID, err)
		}
		items = append(items, it)
	}

	lastUpdated, err := parseTime(record.LastUpdated)
	if err != nil {
		return nil, nil, fmt.Errorf("checklist %s: bad last_updated: %w", checklistID, err)
	}

	c, err := checklist.Restore(record.ID, record.AuditVersion, items, lastUpdated, s.policy)
	if err != nil {
		return nil, nil, err
	}
	return c, record, nil
}

// resolveAuditor picks the request auditor, then the context actor, then the default.
func (s *ChecklistServiceImpl) resolveAuditor(ctx context.Context, requested string) string {
	if a := strings.TrimSpace(requested); a != "" {
		return a
	}
	if a := strings.TrimSpace(ctxutil.ActorFromContext(ctx)); a != "" {
		return a
	}
	return s.defaultAuditor
}

// translate maps repository not-found errors onto the core sentinel.
func (s *ChecklistServiceImpl) translate(err error) error {
	if errors.Is(err, secondary.ErrNotFound) && !errors.Is(err, checklist.ErrNotFound) {
		return &notFoundError{err: err}
	}
	return err
}

// notFoundError keeps the repository message while matching checklist.ErrNotFound.
type notFoundError struct {
	err error
}

func (e *notFoundError) Error() string { return e.err.Error() }

func (e *notFoundError) Unwrap() error { return e.err }

func (e *notFoundError) Is(target error) bool { return target == checklist.ErrNotFound }

// writeLog runs an audit-trail write. The state change is already committed,
// so failures are logged and swallowed.
func (s *ChecklistServiceImpl) writeLog(write func() error, checklistID string) {
	if s.logWriter == nil {
		return
	}
	if err := write(); err != nil {
		s.logger.Warn("failed to write audit trail",
			zap.String("checklist_id", checklistID),
			zap.Error(err))
	}
}

// timestamp returns the current time truncated to the precision persisted.
func (s *ChecklistServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

type fieldChange struct {
	field, old, new string
}

func itemChanges(before, after checklist.Item) []fieldChange {
	var changes []fieldChange
	if before.Completed != after.Completed {
		changes = append(changes, fieldChange{"completed", strconv.FormatBool(before.Completed), strconv.FormatBool(after.Completed)})
	}
	if before.Auditor != after.Auditor {
		changes = append(changes, fieldChange{"auditor", before.Auditor, after.Auditor})
	}
	if before.Notes != after.Notes {
		changes = append(changes, fieldChange{"notes", before.Notes, after.Notes})
	}
	return changes
}

// Helper methods

func itemToRecord(it checklist.Item) *secondary.AuditItemRecord {
	r := &secondary.AuditItemRecord{
		ItemID:      it.ID,
		Category:    string(it.Category),
		Priority:    string(it.Priority),
		Description: it.Description,
		Completed:   it.Completed,
		Auditor:     it.Auditor,
		Notes:       it.Notes,
	}
	if it.Completed {
		r.CompletedAt = formatTime(it.CompletedAt)
	}
	return r
}

func recordToItem(r *secondary.AuditItemRecord) (checklist.Item, error) {
	category, err := checklist.ParseCategory(r.Category)
	if err != nil {
		return checklist.Item{}, err
	}
	priority, err := checklist.ParsePriority(r.Priority)
	if err != nil {
		return checklist.Item{}, err
	}

	it := checklist.Item{
		Definition: checklist.Definition{
			ID:          r.ItemID,
			Category:    category,
			Priority:    priority,
			Description: r.Description,
		},
		Completed: r.Completed,
		Auditor:   r.Auditor,
		Notes:     r.Notes,
	}
	if r.CompletedAt != "" {
		it.CompletedAt, err = parseTime(r.CompletedAt)
		if err != nil {
			return checklist.Item{}, fmt.Errorf("item %d: bad completed_at: %w", r.ItemID, err)
		}
	}
	return it, nil
}

func itemToPrimary(it checklist.Item) *primary.AuditItem {
	item := &primary.AuditItem{
		ID:          it.ID,
		Category:    string(it.Category),
		Priority:    string(it.Priority),
		Description: it.Description,
		Completed:   it.Completed,
		Auditor:     it.Auditor,
		Notes:       it.Notes,
	}
	if it.Completed {
		item.CompletedAt = formatTime(it.CompletedAt)
	}
	return item
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Ensure ChecklistServiceImpl implements the interface
var _ primary.ChecklistService = (*ChecklistServiceImpl)(nil)
