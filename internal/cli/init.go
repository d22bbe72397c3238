package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/finsight/internal/config"
	"github.com/example/finsight/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize finsight in the current directory",
		Long: `Write .finsight/config.yaml with default settings and create the
database with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.LoadConfig(cwd)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}
			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Config written to %s/%s\n", config.Dir, config.FileName)

			conn, err := db.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer conn.Close()

			fmt.Printf("✓ Database initialized at %s\n", cfg.DatabasePath)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  Save this query as analysis.aql:")
			fmt.Println(indent(exampleQuery, "    "))
			fmt.Println("  finsight query run --tenant acme --bank-csv statement.csv --file analysis.aql")
			fmt.Println("  finsight health --tenant acme")

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: ~/.finsight/finsight.db)")

	return cmd
}
