package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/wire"
)

const checklistPrefix = "AUDIT"

var shortIDPattern = regexp.MustCompile(`^\d+$`)

// validateChecklistID checks if an ID has the AUDIT-xxx format.
// Returns an error with helpful message if the ID appears to be a short ID.
func validateChecklistID(id string) error {
	expectedPattern := checklistPrefix + "-"
	if strings.HasPrefix(id, expectedPattern) {
		return nil // Valid format
	}

	// Check if it looks like a short ID (just digits)
	if shortIDPattern.MatchString(id) {
		n, _ := strconv.Atoi(id)
		return fmt.Errorf("invalid checklist ID '%s'. Use full ID format: %s-%03d", id, checklistPrefix, n)
	}

	// Check if it's using wrong case
	if strings.HasPrefix(strings.ToUpper(id), expectedPattern) {
		return fmt.Errorf("invalid checklist ID '%s'. IDs are case-sensitive, use: %s", id, strings.ToUpper(id))
	}

	// Generic invalid format
	return fmt.Errorf("invalid checklist ID '%s'. Expected format: %s-xxx", id, checklistPrefix)
}

// resolveChecklistID picks the checklist to operate on: an explicit
// argument, then the --checklist flag, then current_checklist from config.
func resolveChecklistID(cmd *cobra.Command, arg string) (string, error) {
	id := arg
	if id == "" {
		id, _ = cmd.Flags().GetString("checklist")
	}
	if id == "" {
		id = wire.Config().CurrentChecklist
	}
	if id == "" {
		return "", fmt.Errorf("no checklist selected. Run 'auditcheck init' or 'auditcheck use AUDIT-xxx', or pass --checklist")
	}
	if err := validateChecklistID(id); err != nil {
		return "", err
	}
	return id, nil
}

// parseItemID parses a numeric item ID argument.
func parseItemID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item ID '%s'. Item IDs are positive numbers (e.g. 1, 101, 405)", arg)
	}
	return id, nil
}
