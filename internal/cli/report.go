package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/wire"
)

// ErrNotReady is returned by the ready command so that the process exits non-zero.
var ErrNotReady = errors.New("checklist is not ready for deployment")

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report [checklist-id]",
		Short: "Show the audit readiness report",
		Long: `Show completion per category, blocking items, recommendations and next steps.

Use --format json or --format yaml for a machine-readable export. Each export
carries a unique report_id and generated_at timestamp.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveChecklistID(cmd, firstArg(args))
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Report(NewContext(), id, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format: text, json, yaml")
	return cmd
}

// ReadyCmd returns the ready command
func ReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready [checklist-id]",
		Short: "Check the deployment gate",
		Long: `Check whether a checklist passes the deployment gate: at least 95% complete,
every critical item complete, and the Security and Deployment categories complete.

Exits with status 1 when the checklist is not ready, for use in CI.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveChecklistID(cmd, firstArg(args))
			if err != nil {
				return err
			}
			ready, err := wire.ChecklistAdapter().Ready(NewContext(), id)
			if err != nil {
				return err
			}
			if !ready {
				return ErrNotReady
			}
			return nil
		},
	}
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [checklist-id]",
		Short: "Show item counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveChecklistID(cmd, firstArg(args))
			if err != nil {
				return err
			}
			return wire.ChecklistAdapter().Stats(NewContext(), id)
		},
	}
}
