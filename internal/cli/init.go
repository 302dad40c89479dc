package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/config"
	"github.com/example/shiptrack/internal/db"
	"github.com/example/shiptrack/internal/version"
	"github.com/example/shiptrack/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the shiptrack database and config",
		Long: `Initialize the shiptrack database (default ~/.shiptrack/shiptrack.db) with the
required schema, seed the demo employees, and write .shiptrack/config.json in
the current directory if it does not exist yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			if _, err := config.LoadConfig(cwd); errors.Is(err, fs.ErrNotExist) {
				if err := config.SaveConfig(cwd, wire.Config()); err != nil {
					return err
				}
				fmt.Println("✓ Config written to .shiptrack/config.json")
			} else if err != nil {
				return err
			}

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			fmt.Printf("Initializing shiptrack database at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed employees: %w", err)
			}
			applied, err := db.SchemaVersion(database)
			if err != nil {
				return err
			}
			if err := version.Current().CheckSchema(applied); err != nil {
				return err
			}

			fmt.Printf("✓ Database initialized successfully (schema v%d)\n", applied)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  shiptrack login user")
			fmt.Println("  shiptrack scan")

			return nil
		},
	}
}
