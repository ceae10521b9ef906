package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/cli"
	"github.com/example/auditcheck/internal/version"
	"github.com/example/auditcheck/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "auditcheck",
		Short:   "auditcheck - pre-deployment audit checklist tracker",
		Version: version.String(),
		Long: `auditcheck tracks a fixed 29-item audit checklist across Security,
CodeReview, Testing, Documentation and Deployment, and decides whether a
release may be deployed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor()
		},
	}

	rootCmd.PersistentFlags().String("checklist", "", "Checklist to operate on (default: current_checklist from config)")

	// Checklist lifecycle
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.UseCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.ResetCmd())
	rootCmd.AddCommand(cli.DeleteCmd())

	// Items and reporting
	rootCmd.AddCommand(cli.ItemCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.ReadyCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.LogCmd())

	// Configuration and developer tools
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.DevCmd())

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		if !errors.Is(err, cli.ErrNotReady) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
