// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/example/auditcheck/internal/core/checklist"
	"github.com/example/auditcheck/internal/ports/primary"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ChecklistAdapter is a thin adapter that translates CLI operations to ChecklistService calls.
// It depends only on the ChecklistService interface, enabling easy testing with mocks.
type ChecklistAdapter struct {
	service primary.ChecklistService
	out     io.Writer
	now     func() time.Time
	newID   func() string
}

// NewChecklistAdapter creates a new ChecklistAdapter with the given service.
func NewChecklistAdapter(service primary.ChecklistService, out io.Writer) *ChecklistAdapter {
	return &ChecklistAdapter{
		service: service,
		out:     out,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	openMark = color.New(color.FgYellow).Sprint("○")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func readiness(ready bool) string {
	if ready {
		return color.New(color.FgGreen).Sprint("READY")
	}
	return color.New(color.FgRed).Sprint("NOT READY")
}

// Init creates a new checklist and returns its ID.
func (a *ChecklistAdapter) Init(ctx context.Context, version string) (string, error) {
	resp, err := a.service.InitializeChecklist(ctx, primary.InitializeChecklistRequest{Version: version})
	if err != nil {
		return "", err
	}

	fmt.Fprintf(a.out, "✓ Created checklist %s (version %s, %d items)\n",
		resp.ChecklistID, resp.Checklist.Version, len(resp.Checklist.Items))
	return resp.ChecklistID, nil
}

// List lists checklists, marking the current one.
func (a *ChecklistAdapter) List(ctx context.Context, current string) error {
	summaries, err := a.service.ListChecklists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list checklists: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "No checklists found. Run 'auditcheck init' to create one.")
		return nil
	}

	fmt.Fprintf(a.out, "\n  %-12s %-9s %-9s %-13s %-10s %s\n", "ID", "VERSION", "DONE", "STATUS", "DEPLOY", "UPDATED")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, s := range summaries {
		marker := " "
		if s.ID == current {
			marker = color.New(color.FgHiMagenta).Sprint("*")
		}
		fmt.Fprintf(a.out, "%s %-12s %-9s %-9s %-13s %-10s %s\n",
			marker, s.ID, s.Version,
			fmt.Sprintf("%d/%d", s.CompletedItems, s.TotalItems),
			fmt.Sprintf("%s %d%%", statusWord(s.Status), s.CompletionPercentage),
			readiness(s.DeploymentReady), s.LastUpdated)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays the items of a checklist grouped by category. An empty
// category shows every category; pendingOnly hides completed items.
func (a *ChecklistAdapter) Show(ctx context.Context, checklistID, category string, pendingOnly bool) error {
	var only checklist.Category
	if category != "" {
		c, err := checklist.ParseCategory(category)
		if err != nil {
			return err
		}
		only = c
	}

	cl, err := a.service.GetChecklist(ctx, checklistID)
	if err != nil {
		return fmt.Errorf("failed to get checklist: %w", err)
	}

	fmt.Fprintf(a.out, "\nChecklist: %s (version %s)\n", cl.ID, cl.Version)
	fmt.Fprintf(a.out, "Progress:  %d%%  %s\n", cl.CompletionPercentage, readiness(cl.DeploymentReady))
	fmt.Fprintf(a.out, "Updated:   %s\n", cl.LastUpdated)

	for _, cat := range checklist.Categories() {
		if only != "" && cat != only {
			continue
		}
		var rows []*primary.AuditItem
		done := 0
		total := 0
		for _, it := range cl.Items {
			if it.Category != string(cat) {
				continue
			}
			total++
			if it.Completed {
				done++
				if pendingOnly {
					continue
				}
			}
			rows = append(rows, it)
		}

		fmt.Fprintf(a.out, "\n%s (%d/%d)\n", cat.DisplayName(), done, total)
		if len(rows) == 0 {
			fmt.Fprintln(a.out, "  (nothing pending)")
			continue
		}
		for _, it := range rows {
			mark := openMark
			if it.Completed {
				mark = okMark
			}
			fmt.Fprintf(a.out, "  %s %3d [%-8s] %s\n", mark, it.ID, it.Priority, it.Description)
			if it.Completed {
				fmt.Fprintf(a.out, "          by %s at %s\n", it.Auditor, it.CompletedAt)
			}
			if it.Notes != "" {
				fmt.Fprintf(a.out, "          notes: %s\n", it.Notes)
			}
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// Complete marks an item complete.
func (a *ChecklistAdapter) Complete(ctx context.Context, checklistID string, itemID int, auditor string, notes *string) error {
	completed := true
	item, err := a.service.UpdateItem(ctx, primary.UpdateItemRequest{
		ChecklistID: checklistID,
		ItemID:      itemID,
		Completed:   &completed,
		Auditor:     auditor,
		Notes:       notes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Item %d completed by %s\n", item.ID, item.Auditor)
	return nil
}

// Reopen marks an item incomplete.
func (a *ChecklistAdapter) Reopen(ctx context.Context, checklistID string, itemID int, notes *string) error {
	completed := false
	item, err := a.service.UpdateItem(ctx, primary.UpdateItemRequest{
		ChecklistID: checklistID,
		ItemID:      itemID,
		Completed:   &completed,
		Notes:       notes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Item %d reopened\n", item.ID)
	return nil
}

// Note replaces an item's notes without changing its completion state.
func (a *ChecklistAdapter) Note(ctx context.Context, checklistID string, itemID int, text string) error {
	_, err := a.service.UpdateItem(ctx, primary.UpdateItemRequest{
		ChecklistID: checklistID,
		ItemID:      itemID,
		Notes:       &text,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Notes updated for item %d\n", itemID)
	return nil
}

// reportExport is the machine-readable report document.
type reportExport struct {
	ReportID             string           `json:"report_id" yaml:"report_id"`
	GeneratedAt          string           `json:"generated_at" yaml:"generated_at"`
	ChecklistID          string           `json:"checklist_id" yaml:"checklist_id"`
	AuditVersion         string           `json:"audit_version" yaml:"audit_version"`
	Status               string           `json:"status" yaml:"status"`
	CompletionPercentage int              `json:"completion_percentage" yaml:"completion_percentage"`
	CompletedItems       int              `json:"completed_items" yaml:"completed_items"`
	TotalItems           int              `json:"total_items" yaml:"total_items"`
	DeploymentReady      bool             `json:"deployment_ready" yaml:"deployment_ready"`
	CategoryRule         string           `json:"category_rule" yaml:"category_rule"`
	Categories           []categoryExport `json:"categories" yaml:"categories"`
	IncompleteCritical   []itemExport     `json:"incomplete_critical" yaml:"incomplete_critical"`
	IncompleteHigh       []itemExport     `json:"incomplete_high" yaml:"incomplete_high"`
	Recommendations      []string         `json:"recommendations" yaml:"recommendations"`
	NextSteps            []string         `json:"next_steps" yaml:"next_steps"`
	LastUpdated          string           `json:"last_updated" yaml:"last_updated"`
}

type categoryExport struct {
	Category  string `json:"category" yaml:"category"`
	Name      string `json:"name" yaml:"name"`
	Complete  bool   `json:"complete" yaml:"complete"`
	Completed int    `json:"completed" yaml:"completed"`
	Total     int    `json:"total" yaml:"total"`
}

type itemExport struct {
	ID          int    `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Priority    string `json:"priority" yaml:"priority"`
	Description string `json:"description" yaml:"description"`
}

// Report prints the checklist report in the given format.
func (a *ChecklistAdapter) Report(ctx context.Context, checklistID, format string) error {
	report, err := a.service.GetReport(ctx, checklistID)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		a.printReport(report)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(a.export(report))
	case FormatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(a.export(report)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func (a *ChecklistAdapter) export(r *primary.Report) reportExport {
	e := reportExport{
		ReportID:             a.newID(),
		GeneratedAt:          a.now().UTC().Format(time.RFC3339),
		ChecklistID:          r.ChecklistID,
		AuditVersion:         r.Version,
		Status:               r.Status,
		CompletionPercentage: r.CompletionPercentage,
		CompletedItems:       r.CompletedItems,
		TotalItems:           r.TotalItems,
		DeploymentReady:      r.DeploymentReady,
		CategoryRule:         r.CategoryRule,
		Categories:           []categoryExport{},
		IncompleteCritical:   []itemExport{},
		IncompleteHigh:       []itemExport{},
		Recommendations:      append([]string{}, r.Recommendations...),
		NextSteps:            append([]string{}, r.NextSteps...),
		LastUpdated:          r.LastUpdated,
	}
	for _, c := range r.Categories {
		e.Categories = append(e.Categories, categoryExport(c))
	}
	for _, it := range r.IncompleteCritical {
		e.IncompleteCritical = append(e.IncompleteCritical, toItemExport(it))
	}
	for _, it := range r.IncompleteHigh {
		e.IncompleteHigh = append(e.IncompleteHigh, toItemExport(it))
	}
	return e
}

func toItemExport(it *primary.AuditItem) itemExport {
	return itemExport{ID: it.ID, Category: it.Category, Priority: it.Priority, Description: it.Description}
}

func (a *ChecklistAdapter) printReport(r *primary.Report) {
	fmt.Fprintln(a.out, "\n=== AUDIT READINESS REPORT ===")
	fmt.Fprintf(a.out, "Checklist:  %s (version %s)\n", r.ChecklistID, r.Version)
	fmt.Fprintf(a.out, "Completion: %d%% (%d/%d items)\n", r.CompletionPercentage, r.CompletedItems, r.TotalItems)
	fmt.Fprintf(a.out, "Deployment: %s\n", readiness(r.DeploymentReady))
	fmt.Fprintf(a.out, "Updated:    %s\n", r.LastUpdated)

	fmt.Fprintln(a.out, "\nCategory Status:")
	for _, c := range r.Categories {
		mark := failMark
		if c.Complete {
			mark = okMark
		}
		fmt.Fprintf(a.out, "  %s %-14s %d/%d\n", mark, c.Name, c.Completed, c.Total)
	}

	if len(r.IncompleteCritical) > 0 {
		fmt.Fprintln(a.out, "\nIncomplete Critical Items:")
		for _, it := range r.IncompleteCritical {
			fmt.Fprintf(a.out, "  %s %3d %s\n", failMark, it.ID, it.Description)
		}
	}
	if len(r.IncompleteHigh) > 0 {
		fmt.Fprintln(a.out, "\nIncomplete High Priority Items:")
		for _, it := range r.IncompleteHigh {
			fmt.Fprintf(a.out, "  %s %3d %s\n", openMark, it.ID, it.Description)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(a.out, "\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(a.out, "  - %s\n", rec)
		}
	}
	if len(r.NextSteps) > 0 {
		fmt.Fprintln(a.out, "\nNext Steps:")
		for i, step := range r.NextSteps {
			fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
		}
	}

	fmt.Fprintf(a.out, "\n%s\n\n", statusColor(r.Status).Sprint(r.StatusLabel))
}

// Ready prints the deployment verdict and returns it.
func (a *ChecklistAdapter) Ready(ctx context.Context, checklistID string) (bool, error) {
	ready, err := a.service.IsDeploymentReady(ctx, checklistID)
	if err != nil {
		return false, err
	}

	if ready {
		fmt.Fprintf(a.out, "%s %s is ready for deployment\n", okMark, checklistID)
	} else {
		fmt.Fprintf(a.out, "%s %s is not ready for deployment (see 'auditcheck report')\n", failMark, checklistID)
	}
	return ready, nil
}

// Stats prints item counts.
func (a *ChecklistAdapter) Stats(ctx context.Context, checklistID string) error {
	s, err := a.service.GetStatistics(ctx, checklistID)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	fmt.Fprintf(a.out, "\nChecklist: %s\n", s.ChecklistID)
	fmt.Fprintf(a.out, "  Total:      %d/%d (%d%%)\n", s.CompletedItems, s.TotalItems, s.CompletionPercentage)
	fmt.Fprintf(a.out, "  Critical:   %d/%d\n", s.CriticalCompleted, s.CriticalItems)
	fmt.Fprintf(a.out, "  High:       %d/%d\n", s.HighCompleted, s.HighItems)
	fmt.Fprintln(a.out)

	return nil
}

// Reset clears every item of a checklist.
func (a *ChecklistAdapter) Reset(ctx context.Context, checklistID string, force bool) error {
	err := a.service.ResetChecklist(ctx, primary.ResetChecklistRequest{
		ChecklistID: checklistID,
		Force:       force,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Checklist %s reset\n", checklistID)
	return nil
}

// Delete removes a checklist.
func (a *ChecklistAdapter) Delete(ctx context.Context, checklistID string, force bool) error {
	err := a.service.DeleteChecklist(ctx, primary.DeleteChecklistRequest{
		ChecklistID: checklistID,
		Force:       force,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Checklist %s deleted\n", checklistID)
	return nil
}

// Log prints audit trail entries.
func (a *ChecklistAdapter) Log(ctx context.Context, filters primary.AuditLogFilters) error {
	entries, err := a.service.ListAuditLog(ctx, filters)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit trail entries found")
		return nil
	}

	for _, e := range entries {
		actor := e.Actor
		if actor == "" {
			actor = "-"
		}
		target := e.ChecklistID
		if e.ItemID != 0 {
			target = fmt.Sprintf("%s/%d", e.ChecklistID, e.ItemID)
		}
		line := fmt.Sprintf("%s  %-8s %-6s %s", e.Timestamp, actor, e.Action, target)
		if e.FieldName != "" {
			line += fmt.Sprintf(" %s: %q -> %q", e.FieldName, e.OldValue, e.NewValue)
		}
		fmt.Fprintln(a.out, line)
	}

	return nil
}

// Prune deletes audit trail entries older than days.
func (a *ChecklistAdapter) Prune(ctx context.Context, days int) error {
	deleted, err := a.service.PruneAuditLog(ctx, days)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Pruned %d audit trail entries older than %d days\n", deleted, days)
	return nil
}

func statusWord(status string) string {
	return statusColor(status).Sprint(strings.ReplaceAll(status, "_", " "))
}

func statusColor(status string) *color.Color {
	switch checklist.Status(status) {
	case checklist.StatusReady:
		return color.New(color.FgGreen, color.Bold)
	case checklist.StatusNearlyReady:
		return color.New(color.FgCyan)
	case checklist.StatusInProgress:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}
