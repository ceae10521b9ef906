package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/ports/primary"
	"github.com/example/auditcheck/internal/wire"
)

// LogCmd returns the log command group
func LogCmd() *cobra.Command {
	var (
		limit  int
		itemID int
		actor  string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "View the audit trail",
		Long:  "View audit trail entries for the current checklist, newest first (default 50).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = 50
			}

			filters := primary.AuditLogFilters{
				ItemID: itemID,
				Actor:  actor,
				Limit:  limit,
			}
			if !all {
				id, err := resolveChecklistID(cmd, "")
				if err != nil {
					return err
				}
				filters.ChecklistID = id
			}

			return wire.ChecklistAdapter().Log(NewContext(), filters)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum entries to show")
	cmd.Flags().IntVar(&itemID, "item", 0, "Only entries for this item")
	cmd.Flags().StringVar(&actor, "actor", "", "Only entries by this actor")
	cmd.Flags().BoolVar(&all, "all", false, "Show entries for every checklist")

	cmd.AddCommand(logPruneCmd())
	return cmd
}

func logPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old audit trail entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be a positive number")
			}
			return wire.ChecklistAdapter().Prune(NewContext(), days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "Delete entries older than this many days")
	return cmd
}
