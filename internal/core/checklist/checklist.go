package checklist

import (
	"fmt"
	"strings"
	"time"
)

// MinDeploymentPercentage is the overall completion needed before deployment.
const MinDeploymentPercentage = 95

// CategoryRule selects which items gate category completion.
type CategoryRule string

const (
	// CategoryRuleAll requires every item in the category.
	CategoryRuleAll CategoryRule = "all"
	// CategoryRuleCriticalHigh requires only Critical and High items.
	CategoryRuleCriticalHigh CategoryRule = "critical_high"
)

// ParseCategoryRule parses a category rule name. Empty means CategoryRuleAll.
func ParseCategoryRule(s string) (CategoryRule, error) {
	switch CategoryRule(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryRuleAll:
		return CategoryRuleAll, nil
	case CategoryRuleCriticalHigh:
		return CategoryRuleCriticalHigh, nil
	}
	return "", fmt.Errorf("unknown category rule %q (want %q or %q): %w",
		s, CategoryRuleAll, CategoryRuleCriticalHigh, ErrInvalidInput)
}

// Policy holds the configurable validation rules.
type Policy struct {
	RequireAuditor bool
	CategoryRule   CategoryRule
}

// DefaultPolicy requires an auditor and gates categories on all items.
func DefaultPolicy() Policy {
	return Policy{RequireAuditor: true, CategoryRule: CategoryRuleAll}
}

// Item is one checklist entry.
// CompletedAt is set iff Completed is true. Auditor is empty whenever the
// item is incomplete; a completed item may also have an empty Auditor when
// the policy does not require one.
type Item struct {
	Definition
	Completed   bool
	CompletedAt time.Time
	Auditor     string
	Notes       string
}

// Checklist is the fixed set of audit items for one audit cycle.
type Checklist struct {
	ID          string
	Version     string
	Items       []Item
	LastUpdated time.Time
	Policy      Policy
}

// Update describes a single item mutation.
// A nil Completed leaves completion untouched; a nil Notes leaves the
// item's notes untouched.
type Update struct {
	ItemID    int
	Completed *bool
	Auditor   string
	Notes     *string
}

// New creates a checklist with every item incomplete.
func New(id string, now time.Time, policy Policy) *Checklist {
	items := make([]Item, 0, TotalItems)
	for _, d := range definitions {
		items = append(items, Item{Definition: d})
	}
	return &Checklist{
		ID:          id,
		Version:     Version,
		Items:       items,
		LastUpdated: now,
		Policy:      normalizePolicy(policy),
	}
}

// Restore rebuilds a checklist from persisted items. The items must cover
// exactly the fixed definitions; descriptions are taken from the definitions.
func Restore(id, version string, items []Item, lastUpdated time.Time, policy Policy) (*Checklist, error) {
	if len(items) != TotalItems {
		return nil, fmt.Errorf("checklist %s has %d items, want %d: %w", id, len(items), TotalItems, ErrInvalidInput)
	}

	byID := make(map[int]Item, len(items))
	for _, it := range items {
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("checklist %s: duplicate item %d: %w", id, it.ID, ErrInvalidInput)
		}
		byID[it.ID] = it
	}

	restored := make([]Item, 0, TotalItems)
	for _, d := range definitions {
		it, ok := byID[d.ID]
		if !ok {
			return nil, fmt.Errorf("checklist %s: missing item %d: %w", id, d.ID, ErrInvalidInput)
		}
		if it.Category != d.Category || it.Priority != d.Priority {
			return nil, fmt.Errorf("checklist %s: item %d does not match its definition: %w", id, d.ID, ErrInvalidInput)
		}
		if it.Completed == it.CompletedAt.IsZero() {
			return nil, fmt.Errorf("checklist %s: item %d has inconsistent completion state: %w", id, d.ID, ErrInvalidInput)
		}
		it.Definition = d
		restored = append(restored, it)
	}

	if version == "" {
		version = Version
	}

	return &Checklist{
		ID:          id,
		Version:     version,
		Items:       restored,
		LastUpdated: lastUpdated,
		Policy:      normalizePolicy(policy),
	}, nil
}

func normalizePolicy(p Policy) Policy {
	if p.CategoryRule == "" {
		p.CategoryRule = CategoryRuleAll
	}
	return p
}

// Item returns the item with the given ID.
func (c *Checklist) Item(id int) (Item, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// ItemsByCategory returns the items of one category in checklist order.
func (c *Checklist) ItemsByCategory(category Category) []Item {
	var out []Item
	for _, it := range c.Items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func (c *Checklist) indexOf(id int) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateItem applies u and returns the updated item. Either every field is
// written or, on error, nothing is.
//
// Completion is set-once: re-completing a complete item keeps its original
// CompletedAt and Auditor. Reopening clears both.
func (c *Checklist) UpdateItem(u Update, now time.Time) (Item, error) {
	idx := c.indexOf(u.ItemID)
	completing := u.Completed != nil && *u.Completed

	guard := CanUpdateItem(UpdateItemContext{
		ItemID:         u.ItemID,
		ItemExists:     idx >= 0,
		Completed:      completing,
		Auditor:        u.Auditor,
		RequireAuditor: c.Policy.RequireAuditor,
	})
	if !guard.Allowed {
		kind := ErrInvalidInput
		if idx < 0 {
			kind = ErrNotFound
		}
		return Item{}, &guardError{reason: guard.Reason, kind: kind}
	}

	it := &c.Items[idx]
	switch {
	case u.Completed == nil:
	case completing && !it.Completed:
		it.Completed = true
		it.CompletedAt = now
		it.Auditor = strings.TrimSpace(u.Auditor)
	case !completing:
		it.Completed = false
		it.CompletedAt = time.Time{}
		it.Auditor = ""
	}
	if u.Notes != nil {
		it.Notes = *u.Notes
	}

	c.LastUpdated = now
	return *it, nil
}

// Reset returns every item to its initial state.
func (c *Checklist) Reset(now time.Time) {
	for i := range c.Items {
		c.Items[i] = Item{Definition: c.Items[i].Definition}
	}
	c.LastUpdated = now
}

// CompletedCount returns the number of completed items.
func (c *Checklist) CompletedCount() int {
	n := 0
	for _, it := range c.Items {
		if it.Completed {
			n++
		}
	}
	return n
}

// CompletionPercentage returns 100*completed/total rounded half up.
func (c *Checklist) CompletionPercentage() int {
	return percentage(c.CompletedCount(), len(c.Items))
}

func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}

// CategoryComplete reports whether the category's gating items are all
// complete. Which items gate depends on Policy.CategoryRule.
func (c *Checklist) CategoryComplete(category Category) bool {
	for _, it := range c.Items {
		if it.Category != category || it.Completed {
			continue
		}
		if c.Policy.CategoryRule == CategoryRuleCriticalHigh &&
			it.Priority != PriorityCritical && it.Priority != PriorityHigh {
			continue
		}
		return false
	}
	return true
}

// CriticalComplete reports whether every Critical item is complete.
func (c *Checklist) CriticalComplete() bool {
	for _, it := range c.Items {
		if it.Priority == PriorityCritical && !it.Completed {
			return false
		}
	}
	return true
}

// IsDeploymentReady is the deployment gate: at least 95% overall, every
// Critical item complete, and the Security and Deployment categories complete.
func (c *Checklist) IsDeploymentReady() bool {
	return c.CompletionPercentage() >= MinDeploymentPercentage &&
		c.CriticalComplete() &&
		c.CategoryComplete(CategorySecurity) &&
		c.CategoryComplete(CategoryDeployment)
}

type guardError struct {
	reason string
	kind   error
}

func (e *guardError) Error() string { return e.reason }

func (e *guardError) Unwrap() error { return e.kind }
