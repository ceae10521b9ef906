package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/config"
	"github.com/example/auditcheck/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new audit checklist",
		Long: `Create a new audit checklist with all 29 items incomplete and make it
the current checklist.

The database lives at ~/.auditcheck/auditcheck.db unless db_path is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wire.ChecklistAdapter().Init(NewContext(), version)
			if err != nil {
				return fmt.Errorf("failed to create checklist: %w", err)
			}

			if err := setCurrentChecklist(id); err != nil {
				return err
			}

			fmt.Printf("✓ %s is now the current checklist\n", id)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  auditcheck show --pending")
			fmt.Println("  auditcheck item complete 1 --auditor <name>")
			fmt.Println("  auditcheck report")
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Audit definition version to record (default current)")
	return cmd
}

// UseCmd returns the use command
func UseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use [checklist-id]",
		Short: "Switch the current checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := validateChecklistID(id); err != nil {
				return err
			}

			// Make sure it exists before pointing config at it
			if _, err := wire.ChecklistService().GetChecklist(NewContext(), id); err != nil {
				return fmt.Errorf("checklist not found: %w", err)
			}

			if err := setCurrentChecklist(id); err != nil {
				return err
			}
			fmt.Printf("✓ Current checklist set to %s\n", id)
			return nil
		},
	}
}

// setCurrentChecklist persists current_checklist without baking in env overrides.
func setCurrentChecklist(id string) error {
	dir := wire.ConfigDir()
	cfg, err := config.LoadFile(dir)
	if err != nil {
		return err
	}
	if err := cfg.Set("current_checklist", id); err != nil {
		return err
	}
	if err := config.Save(dir, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
