package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/config"
	"github.com/example/auditcheck/internal/wire"
)

// ConfigCmd returns the config command group
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change ~/.auditcheck/config.json.

Every key can be overridden with an AUDITCHECK_ environment variable,
e.g. AUDITCHECK_LOG_LEVEL=debug or AUDITCHECK_REQUIRE_AUDITOR=false.`,
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.LoadConfig()
			if err != nil {
				return fmt.Errorf("%w\n\nRepair it with 'auditcheck config set <key> <value>'", err)
			}
			fmt.Printf("Config dir: %s\n\n", wire.ConfigDir())
			for _, kv := range cfg.Values() {
				value := kv[1]
				if value == "" {
					value = "(unset)"
				}
				fmt.Printf("  %-18s %s\n", kv[0], value)
			}
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.ConfigDir()
			cfg, err := config.LoadFile(dir)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(dir, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("✓ %s = %s\n", args[0], args[1])
			return nil
		},
	}
}
