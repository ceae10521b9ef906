package checklist

import (
	"errors"
	"testing"
	"time"
)

var (
	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

// completeAllExcept marks every item complete except the listed IDs.
func completeAllExcept(t *testing.T, c *Checklist, skip ...int) {
	t.Helper()
	skipped := make(map[int]bool, len(skip))
	for _, id := range skip {
		skipped[id] = true
	}
	for _, d := range Definitions() {
		if skipped[d.ID] {
			continue
		}
		if _, err := c.UpdateItem(Update{ItemID: d.ID, Completed: boolPtr(true), Auditor: "alice"}, t1); err != nil {
			t.Fatalf("UpdateItem(%d) failed: %v", d.ID, err)
		}
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	if len(defs) != 29 {
		t.Fatalf("expected 29 definitions, got %d", len(defs))
	}

	counts := map[Category]int{}
	priorities := map[Priority]int{}
	seen := map[int]bool{}
	for _, d := range defs {
		if seen[d.ID] {
			t.Errorf("duplicate item ID %d", d.ID)
		}
		seen[d.ID] = true
		counts[d.Category]++
		priorities[d.Priority]++
		if d.Description == "" {
			t.Errorf("item %d has empty description", d.ID)
		}
	}

	wantCounts := map[Category]int{
		CategorySecurity:      8,
		CategoryCodeReview:    5,
		CategoryTesting:       6,
		CategoryDocumentation: 5,
		CategoryDeployment:    5,
	}
	for cat, want := range wantCounts {
		if counts[cat] != want {
			t.Errorf("category %s: got %d items, want %d", cat, counts[cat], want)
		}
	}
	if priorities[PriorityCritical] != 11 {
		t.Errorf("expected 11 critical items, got %d", priorities[PriorityCritical])
	}

	// Mutating the returned slice must not affect the table.
	defs[0].Description = "changed"
	if d, _ := LookupDefinition(1); d.Description == "changed" {
		t.Error("Definitions() leaked the backing array")
	}
}

func TestNew(t *testing.T) {
	c := New("AUDIT-001", t0, DefaultPolicy())

	if len(c.Items) != TotalItems {
		t.Fatalf("expected %d items, got %d", TotalItems, len(c.Items))
	}
	if c.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", c.Version)
	}
	if !c.LastUpdated.Equal(t0) {
		t.Errorf("expected LastUpdated %v, got %v", t0, c.LastUpdated)
	}
	for _, it := range c.Items {
		if it.Completed || !it.CompletedAt.IsZero() || it.Auditor != "" || it.Notes != "" {
			t.Errorf("item %d not in initial state: %+v", it.ID, it)
		}
	}
	if got := c.CompletionPercentage(); got != 0 {
		t.Errorf("expected 0%%, got %d%%", got)
	}
	if c.IsDeploymentReady() {
		t.Error("fresh checklist must not be deployment ready")
	}
}

func TestNew_Independent(t *testing.T) {
	a := New("AUDIT-001", t0, DefaultPolicy())
	b := New("AUDIT-002", t0, DefaultPolicy())

	if _, err := a.UpdateItem(Update{ItemID: 1, Completed: boolPtr(true), Auditor: "alice"}, t1); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	if it, _ := b.Item(1); it.Completed {
		t.Error("updating one checklist changed another")
	}
	for i := range a.Items {
		if a.Items[i].Definition != b.Items[i].Definition {
			t.Errorf("definition mismatch at index %d", i)
		}
	}
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		completed int
		want      int
	}{
		{0, 0},
		{1, 3},
		{14, 48},
		{15, 52},
		{27, 93},
		{28, 97},
		{29, 100},
	}

	defs := Definitions()
	for _, tt := range tests {
		c := New("AUDIT-001", t0, DefaultPolicy())
		for _, d := range defs[:tt.completed] {
			if _, err := c.UpdateItem(Update{ItemID: d.ID, Completed: boolPtr(true), Auditor: "alice"}, t1); err != nil {
				t.Fatalf("UpdateItem failed: %v", err)
			}
		}
		if got := c.CompletionPercentage(); got != tt.want {
			t.Errorf("%d completed: got %d%%, want %d%%", tt.completed, got, tt.want)
		}
	}
}

func TestPercentage_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{1, 8, 13}, // 12.5
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := percentage(tt.done, tt.total); got != tt.want {
			t.Errorf("percentage(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestUpdateItem_Complete(t *testing.T) {
	c := New("AUDIT-001", t0, DefaultPolicy())

	it, err := c.UpdateItem(Update{ItemID: 1, Completed: boolPtr(true), Auditor: "A"}, t1)
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if !it.Completed {
		t.Error("expected item to be completed")
	}
	if !it.CompletedAt.Equal(t1) {
		t.Errorf("expected CompletedAt %v, got %v", t1, it.CompletedAt)
	}
	if it.Auditor != "A" {
		t.Errorf("expected auditor A, got %q", it.Auditor)
	}
	if !c.LastUpdated.Equal(t1) {
		t.Errorf("expected LastUpdated %v, got %v", t1, c.LastUpdated)
	}

	report := c.Report()
	if report.CompletionPercentage != 3 {
		t.Errorf("expected 3%%, got %d%%", report.CompletionPercentage)
	}
	stored, _ := c.Item(1)
	if stored != it {
		t.Errorf("returned item %+v differs from stored %+v", it, stored)
	}
}

func TestUpdateItem_SetOnce(t *testing.T) {
	c := New("AUDIT-001", t0, DefaultPolicy())

	if _, err := c.UpdateItem(Update{ItemID: 2, Completed: boolPtr(true), Auditor: "alice"}, t1); err != nil {
		t.Fatalf("first UpdateItem failed: %v", err)
	}
	it, err := c.UpdateItem(Update{ItemID: 2, Completed: boolPtr(true), Auditor: "bob", Notes: strPtr("rechecked")}, t2)
	if err != nil {
		t.Fatalf("second UpdateItem failed: %v", err)
	}

	if !it.CompletedAt.Equal(t1) {
		t.Errorf("expected CompletedAt to stay %v, got %v", t1, it.CompletedAt)
	}
	if it.Auditor != "alice" {
		t.Errorf("expected auditor to stay alice, got %q", it.Auditor)
	}
	if it.Notes != "rechecked" {
		t.Errorf("expected notes to be overwritten, got %q", it.Notes)
	}
	if !c.LastUpdated.Equal(t2) {
		t.Errorf("expected LastUpdated %v, got %v", t2, c.LastUpdated)
	}
}

func TestUpdateItem_Reopen(t *testing.T) {
	c := New("AUDIT-001", t0, DefaultPolicy())

	if _, err := c.UpdateItem(Update{ItemID: 3, Completed: boolPtr(true), Auditor: "alice", Notes: strPtr("ok")}, t1); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	it, err := c.UpdateItem(Update{ItemID: 3, Completed: boolPtr(false)}, t2)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	if it.Completed || !it.CompletedAt.IsZero() || it.Auditor != "" {
		t.Errorf("expected completion fields cleared, got %+v", it)
	}
	if it.Notes != "ok" {
		t.Errorf("expected notes untouched when nil, got %q", it.Notes)
	}
}

func TestUpdateItem_NotesOnly(t *testing.T) {
	c := New("AUDIT-001", t0, DefaultPolicy())

	if _, err := c.UpdateItem(Update{ItemID: 4, Completed: boolPtr(true), Auditor: "bob"}, t1); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	it, err := c.UpdateItem(Update{ItemID: 4, Notes: strPtr("follow-up filed")}, t2)
	if err != nil {
		t.Fatalf("notes-only update failed: %v", err)
	}
	if !it.Completed || !it.CompletedAt.Equal(t1) || it.Auditor != "bob" {
		t.Errorf("expected completion untouched, got %+v", it)
	}
	if it.Notes != "follow-up filed" {
		t.Errorf("expected notes set, got %q", it.Notes)
	}

	open, err := c.UpdateItem(Update{ItemID: 6, Notes: strPtr("waiting")}, t2)
	if err != nil {
		t.Fatalf("notes-only update failed: %v", err)
	}
	if open.Completed || open.Auditor != "" {
		t.Errorf("expected open item to stay open, got %+v", open)
	}
	if !c.LastUpdated.Equal(t2) {
		t.Errorf("expected LastUpdated %v, got %v", t2, c.LastUpdated)
	}
}

func TestUpdateItem_Errors(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		update  Update
		wantErr error
	}{
		{
			name:    "unknown item",
			policy:  DefaultPolicy(),
			update:  Update{ItemID: 999, Completed: boolPtr(true), Auditor: "alice"},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown item reopen",
			policy:  DefaultPolicy(),
			update:  Update{ItemID: 0, Completed: boolPtr(false)},
			wantErr: ErrNotFound,
		},
		{
			name:    "missing auditor",
			policy:  DefaultPolicy(),
			update:  Update{ItemID: 1, Completed: boolPtr(true)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank auditor",
			policy:  DefaultPolicy(),
			update:  Update{ItemID: 1, Completed: boolPtr(true), Auditor: "   "},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("AUDIT-001", t0, tt.policy)
			before := append([]Item(nil), c.Items...)

			_, err := c.UpdateItem(tt.update, t1)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !c.LastUpdated.Equal(t0) {
				t.Error("failed update must not touch LastUpdated")
			}
			for i := range before {
				if before[i] != c.Items[i] {
					t.Errorf("failed update changed item %d", before[i].ID)
				}
			}
		})
	}
}

func TestUpdateItem_AuditorOptional(t *testing.T) {
	c := New("AUDIT-001", t0, Policy{RequireAuditor: false})

	it, err := c.UpdateItem(Update{ItemID: 1, Completed: boolPtr(true)}, t1)
	if err != nil {
		t.Fatalf("expected update without auditor to succeed, got %v", err)
	}
	if !it.Completed || !it.CompletedAt.Equal(t1) {
		t.Errorf("expected completed item, got %+v", it)
	}
	if c.Policy.CategoryRule != CategoryRuleAll {
		t.Errorf("expected empty rule to normalise to %q, got %q", CategoryRuleAll, c.Policy.CategoryRule)
	}
}

func TestCategoryComplete(t *testing.T) {
	tests := []struct {
		name     string
		rule     CategoryRule
		skip     []int
		category Category
		want     bool
	}{
		{"all rule, every item done", CategoryRuleAll, nil, CategorySecurity, true},
		{"all rule, medium item open", CategoryRuleAll, []int{101}, CategoryCodeReview, false},
		{"critical_high rule, medium item open", CategoryRuleCriticalHigh, []int{101}, CategoryCodeReview, true},
		{"critical_high rule, low item open", CategoryRuleCriticalHigh, []int{104}, CategoryCodeReview, true},
		{"critical_high rule, high item open", CategoryRuleCriticalHigh, []int{102}, CategoryCodeReview, false},
		{"other category unaffected", CategoryRuleAll, []int{101}, CategoryTesting, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("AUDIT-001", t0, Policy{RequireAuditor: true, CategoryRule: tt.rule})
			completeAllExcept(t, c, tt.skip...)
			if got := c.CategoryComplete(tt.category); got != tt.want {
				t.Errorf("CategoryComplete(%s) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}

	t.Run("fresh checklist", func(t *testing.T) {
		c := New("AUDIT-001", t0, DefaultPolicy())
		for _, cat := range Categories() {
			if c.CategoryComplete(cat) {
				t.Errorf("category %s complete on a fresh checklist", cat)
			}
		}
	})
}

func TestIsDeploymentReady(t *testing.T) {
	tests := []struct {
		name    string
		rule    CategoryRule
		skip    []int
		wantPct int
		want    bool
	}{
		{"everything complete", CategoryRuleAll, nil, 100, true},
		{"28 of 29, documentation medium open", CategoryRuleAll, []int{305}, 97, true},
		{"28 of 29, code review low open", CategoryRuleAll, []int{104}, 97, true},
		{"27 of 29 below threshold", CategoryRuleAll, []int{302, 305}, 93, false},
		{"critical item open", CategoryRuleAll, []int{201}, 97, false},
		{"security high item open", CategoryRuleAll, []int{4}, 97, false},
		{"security high item open, critical_high rule", CategoryRuleCriticalHigh, []int{4}, 97, false},
		{"deployment high item open", CategoryRuleAll, []int{405}, 97, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("AUDIT-001", t0, Policy{RequireAuditor: true, CategoryRule: tt.rule})
			completeAllExcept(t, c, tt.skip...)

			if got := c.CompletionPercentage(); got != tt.wantPct {
				t.Errorf("CompletionPercentage() = %d, want %d", got, tt.wantPct)
			}
			if got := c.IsDeploymentReady(); got != tt.want {
				t.Errorf("IsDeploymentReady() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	c := New("AUDIT-001", t0, DefaultPolicy())
	completeAllExcept(t, c)
	if _, err := c.UpdateItem(Update{ItemID: 5, Completed: boolPtr(true), Auditor: "x", Notes: strPtr("note")}, t1); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	c.Reset(t2)

	report := c.Report()
	if report.CompletionPercentage != 0 {
		t.Errorf("expected 0%% after reset, got %d%%", report.CompletionPercentage)
	}
	if !report.LastUpdated.Equal(t2) {
		t.Errorf("expected LastUpdated %v, got %v", t2, report.LastUpdated)
	}
	for i, it := range c.Items {
		if it.Completed || !it.CompletedAt.IsZero() || it.Auditor != "" || it.Notes != "" {
			t.Errorf("item %d not reset: %+v", it.ID, it)
		}
		if it.Definition != Definitions()[i] {
			t.Errorf("reset changed definition of item %d", it.ID)
		}
	}
}

func TestRestore(t *testing.T) {
	src := New("AUDIT-007", t0, DefaultPolicy())
	completeAllExcept(t, src, 305)

	// Persistence may return items in any order.
	items := make([]Item, len(src.Items))
	for i := range src.Items {
		items[len(items)-1-i] = src.Items[i]
	}

	got, err := Restore("AUDIT-007", "1.0.0", items, t1, DefaultPolicy())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	for i := range src.Items {
		if got.Items[i] != src.Items[i] {
			t.Errorf("item %d mismatch: got %+v, want %+v", src.Items[i].ID, got.Items[i], src.Items[i])
		}
	}
	if !got.IsDeploymentReady() {
		t.Error("expected restored checklist to be ready")
	}
}

func TestRestore_Invalid(t *testing.T) {
	base := New("AUDIT-001", t0, DefaultPolicy()).Items

	tests := []struct {
		name   string
		mutate func([]Item) []Item
	}{
		{"too few items", func(items []Item) []Item { return items[1:] }},
		{"duplicate item", func(items []Item) []Item { items[1] = items[0]; return items }},
		{"unknown item", func(items []Item) []Item { items[0].ID = 999; return items }},
		{"wrong category", func(items []Item) []Item { items[0].Category = CategoryTesting; return items }},
		{"completed without timestamp", func(items []Item) []Item { items[0].Completed = true; return items }},
		{"timestamp without completion", func(items []Item) []Item { items[0].CompletedAt = t1; return items }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := tt.mutate(append([]Item(nil), base...))
			_, err := Restore("AUDIT-001", "", items, t0, DefaultPolicy())
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"security", CategorySecurity, false},
		{"CodeReview", CategoryCodeReview, false},
		{"code-review", CategoryCodeReview, false},
		{" Deployment ", CategoryDeployment, false},
		{"marketing", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCategoryRule(t *testing.T) {
	if r, err := ParseCategoryRule(""); err != nil || r != CategoryRuleAll {
		t.Errorf("empty rule: got %q, %v", r, err)
	}
	if r, err := ParseCategoryRule("CRITICAL_HIGH"); err != nil || r != CategoryRuleCriticalHigh {
		t.Errorf("critical_high: got %q, %v", r, err)
	}
	if _, err := ParseCategoryRule("some"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
