package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/wire"
)

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checklists",
		Long:  "List every checklist with its completion and deployment readiness. The current checklist is marked with *.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ChecklistAdapter().List(NewContext(), wire.Config().CurrentChecklist)
		},
	}
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	var (
		category string
		pending  bool
	)

	cmd := &cobra.Command{
		Use:   "show [checklist-id]",
		Short: "Show checklist items",
		Long: `Show the items of a checklist grouped by category.

Examples:
  auditcheck show
  auditcheck show AUDIT-002 --category security
  auditcheck show --pending`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveChecklistID(cmd, firstArg(args))
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Show(NewContext(), id, category, pending)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show one category (security, code_review, testing, documentation, deployment)")
	cmd.Flags().BoolVar(&pending, "pending", false, "Hide completed items")
	return cmd
}

// DeleteCmd returns the delete command
func DeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [checklist-id]",
		Short: "Delete a checklist",
		Long:  "Delete a checklist and its items. Checklists with completed items require --force.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := validateChecklistID(id); err != nil {
				return err
			}

			if err := wire.ChecklistAdapter().Delete(NewContext(), id, force); err != nil {
				return err
			}

			if wire.Config().CurrentChecklist == id {
				if err := setCurrentChecklist(""); err != nil {
					return err
				}
				fmt.Println("  (current checklist cleared)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if items are completed")
	return cmd
}

// ResetCmd returns the reset command
func ResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset [checklist-id]",
		Short: "Reset every item to incomplete",
		Long:  "Clear completion, auditor and notes on every item. Checklists with completed items require --force.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveChecklistID(cmd, firstArg(args))
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Reset(NewContext(), id, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Discard completed items")
	return cmd
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
