package checklist

import (
	"fmt"
	"strings"
)

// Version is the revision of the fixed item definitions.
const Version = "1.0.0"

// Category groups checklist items.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryCodeReview    Category = "code_review"
	CategoryTesting       Category = "testing"
	CategoryDocumentation Category = "documentation"
	CategoryDeployment    Category = "deployment"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategorySecurity,
		CategoryCodeReview,
		CategoryTesting,
		CategoryDocumentation,
		CategoryDeployment,
	}
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	switch c {
	case CategorySecurity:
		return "Security"
	case CategoryCodeReview:
		return "CodeReview"
	case CategoryTesting:
		return "Testing"
	case CategoryDocumentation:
		return "Documentation"
	case CategoryDeployment:
		return "Deployment"
	}
	return string(c)
}

// ParseCategory accepts either the stored form ("code_review") or the
// display name ("CodeReview"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, c := range Categories() {
		if norm == string(c) || norm == strings.ToLower(c.DisplayName()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: %w", s, ErrInvalidInput)
}

// Priority is the urgency tier of a checklist item.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityCritical:
		return PriorityCritical, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q: %w", s, ErrInvalidInput)
}

// Definition is the immutable part of a checklist item.
type Definition struct {
	ID          int
	Category    Category
	Priority    Priority
	Description string
}

var definitions = [...]Definition{
	// Security
	{1, CategorySecurity, PriorityCritical, "Oracle security validation - verify oracle contract calls and data integrity"},
	{2, CategorySecurity, PriorityCritical, "Access control verification - validate admin privileges and authentication"},
	{3, CategorySecurity, PriorityCritical, "Reentrancy protection checks - verify no reentrancy vulnerabilities"},
	{4, CategorySecurity, PriorityHigh, "Input sanitization validation - verify all inputs are properly validated"},
	{5, CategorySecurity, PriorityCritical, "Admin privilege verification - ensure admin functions are properly protected"},
	{6, CategorySecurity, PriorityHigh, "Dispute mechanism security - validate dispute resolution security"},
	{7, CategorySecurity, PriorityHigh, "Fee calculation security - verify fee calculations are secure and accurate"},
	{8, CategorySecurity, PriorityCritical, "Token transfer security - validate all token transfers are secure"},

	// Code review
	{101, CategoryCodeReview, PriorityMedium, "Function complexity analysis - review function complexity and readability"},
	{102, CategoryCodeReview, PriorityHigh, "Error handling completeness - verify comprehensive error handling"},
	{103, CategoryCodeReview, PriorityMedium, "Documentation coverage - ensure all functions have proper documentation"},
	{104, CategoryCodeReview, PriorityLow, "Naming convention compliance - verify consistent naming conventions"},
	{105, CategoryCodeReview, PriorityMedium, "Code organization assessment - review module structure and organization"},

	// Testing
	{201, CategoryTesting, PriorityCritical, "Unit test coverage >90% - ensure comprehensive unit test coverage"},
	{202, CategoryTesting, PriorityHigh, "Integration test coverage - verify integration tests for all modules"},
	{203, CategoryTesting, PriorityCritical, "Oracle mock testing - test oracle integration with mocked responses"},
	{204, CategoryTesting, PriorityHigh, "Edge case testing - test boundary conditions and edge cases"},
	{205, CategoryTesting, PriorityMedium, "Gas optimization testing - verify gas usage is optimized"},
	{206, CategoryTesting, PriorityMedium, "Stress testing - test contract under high load conditions"},

	// Documentation
	{301, CategoryDocumentation, PriorityHigh, "README completeness - ensure README covers all essential information"},
	{302, CategoryDocumentation, PriorityMedium, "Function documentation - verify all public functions are documented"},
	{303, CategoryDocumentation, PriorityHigh, "Security considerations documentation - document security assumptions"},
	{304, CategoryDocumentation, PriorityCritical, "Deployment guide accuracy - verify deployment instructions are accurate"},
	{305, CategoryDocumentation, PriorityMedium, "API documentation - ensure API is properly documented"},

	// Deployment
	{401, CategoryDeployment, PriorityCritical, "Testnet validation - verify contract works correctly on testnet"},
	{402, CategoryDeployment, PriorityCritical, "Oracle configuration verification - verify oracle contracts are properly configured"},
	{403, CategoryDeployment, PriorityCritical, "Admin key security - ensure admin keys are properly secured"},
	{404, CategoryDeployment, PriorityHigh, "Fee structure validation - verify fee calculations are correct"},
	{405, CategoryDeployment, PriorityHigh, "Emergency procedure documentation - document emergency procedures"},
}

// TotalItems is the size of every checklist.
const TotalItems = len(definitions)

// Definitions returns a copy of the fixed item definitions in checklist order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions[:])
	return out
}

// LookupDefinition returns the definition for an item ID.
func LookupDefinition(id int) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
