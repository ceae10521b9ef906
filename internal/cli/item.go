package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/wire"
)

// ItemCmd returns the item command group
func ItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Complete, reopen, or annotate checklist items",
		Long: `Update items of the current checklist (or the one given with --checklist).

Item IDs: Security 1-8, CodeReview 101-105, Testing 201-206,
Documentation 301-305, Deployment 401-405.`,
	}

	cmd.AddCommand(itemCompleteCmd())
	cmd.AddCommand(itemReopenCmd())
	cmd.AddCommand(itemNoteCmd())
	return cmd
}

func itemCompleteCmd() *cobra.Command {
	var (
		auditor string
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "complete [item-id]",
		Short: "Mark an item complete",
		Long: `Mark an item complete.

The auditor is taken from --auditor, then AUDITCHECK_ACTOR, then the
configured default_auditor. Re-completing an item keeps its original
auditor and completion time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			id, err := resolveChecklistID(cmd, "")
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Complete(NewContextAs(auditor), id, itemID, auditor, optionalFlag(cmd, "notes", notes))
		},
	}

	cmd.Flags().StringVarP(&auditor, "auditor", "a", "", "Who verified the item")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Replace the item's notes")
	return cmd
}

func itemReopenCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "reopen [item-id]",
		Short: "Mark an item incomplete",
		Long:  "Mark an item incomplete. Clears its auditor and completion time.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			id, err := resolveChecklistID(cmd, "")
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Reopen(NewContext(), id, itemID, optionalFlag(cmd, "notes", notes))
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Replace the item's notes")
	return cmd
}

func itemNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note [item-id] [text]",
		Short: "Set an item's notes",
		Long:  "Replace an item's notes without changing its completion. Pass \"\" to clear them.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			id, err := resolveChecklistID(cmd, "")
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Note(NewContext(), id, itemID, args[1])
		},
	}
}

// optionalFlag returns a pointer to value only when the flag was given,
// so that an omitted --notes leaves notes untouched and --notes "" clears them.
func optionalFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
