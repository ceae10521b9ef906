package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/auditcheck/internal/db"
	"github.com/example/auditcheck/internal/wire"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development utilities",
		Hidden: true,
		Long: `Development utilities for working with a scratch auditcheck database.

These commands require AUDITCHECK_DB_PATH to be set explicitly. Running
without it will error to prevent accidental modification of the real
database.`,
	}

	cmd.AddCommand(devResetCmd())
	cmd.AddCommand(devDoctorCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds three checklists at different stages

Safety: This command requires AUDITCHECK_DB_PATH to be set to prevent
accidental reset of the real database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Safety check: require AUDITCHECK_DB_PATH to be set
			dbPath := os.Getenv("AUDITCHECK_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("AUDITCHECK_DB_PATH not set\n\nThis safety check prevents accidental reset of your real database")
			}

			// Confirmation unless --force
			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			// Close any existing DB connection
			db.Close()

			// Delete existing database
			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			// Create fresh database with schema
			db.SetPath(dbPath)
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Println("✓ Created fresh database with schema")

			// Seed fixtures
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nDev database reset complete!")
			fmt.Println("\nSeeded checklists:")
			fmt.Println("  - AUDIT-001 untouched")
			fmt.Println("  - AUDIT-002 Security and CodeReview complete")
			fmt.Println("  - AUDIT-003 ready for deployment (item 305 open)")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func devDoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check environment health",
		Long: `Check the health of your auditcheck environment.

Verifies:
- Configuration loads and validates
- Database exists
- Schema is at the latest migration`,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := 0

			if !quiet {
				fmt.Println("=== auditcheck Environment Health Check ===")
				fmt.Println()
				fmt.Println("1. Configuration")
			}
			cfg := wire.Config()
			if !quiet {
				fmt.Printf("   ✓ Loaded from %s\n", wire.ConfigDir())
				fmt.Println()
				fmt.Println("2. Database")
			}

			info, err := os.Stat(cfg.DBPath)
			if err != nil {
				issues++
				if !quiet {
					fmt.Printf("   ✗ Database not found: %s\n", cfg.DBPath)
					fmt.Println()
					fmt.Println("   FIX: Run 'auditcheck init' to create it")
				}
			} else if !quiet {
				fmt.Printf("   ✓ Database exists (%d KB)\n", info.Size()/1024)
			}

			if !quiet {
				fmt.Println()
				fmt.Println("3. Schema Version")
			}
			if err == nil {
				database, openErr := db.Open(cfg.DBPath)
				if openErr != nil {
					issues++
					if !quiet {
						fmt.Printf("   ✗ Could not open database: %v\n", openErr)
					}
				} else {
					defer database.Close()
					version, vErr := db.GetSchemaVersion(database)
					switch {
					case vErr != nil:
						issues++
						if !quiet {
							fmt.Printf("   ✗ Could not read schema version: %v\n", vErr)
						}
					case version < db.LatestVersion():
						issues++
						if !quiet {
							fmt.Printf("   ✗ Schema at v%d, latest is v%d\n", version, db.LatestVersion())
							fmt.Println()
							fmt.Println("   FIX: Run any auditcheck command to apply pending migrations")
						}
					default:
						if !quiet {
							fmt.Printf("   ✓ Schema at v%d\n", version)
						}
					}
				}
			} else if !quiet {
				fmt.Println("   ⚠️  Skipped (database doesn't exist)")
			}

			// Summary
			if !quiet {
				fmt.Println()
				if issues == 0 {
					fmt.Println("=== All checks passed! ===")
				} else {
					fmt.Printf("=== %d issue(s) found ===\n", issues)
				}
			}

			if issues > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only output exit code (0=healthy, 1=issues)")
	return cmd
}
