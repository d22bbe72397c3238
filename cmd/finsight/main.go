package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/finsight/internal/cli"
	"github.com/example/finsight/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "finsight",
		Short:   "finsight - financial health pipeline for small businesses",
		Version: version.String(),
		Long: `finsight extracts transactions from bank statements, e-commerce exports and
OCR'd receipts, scores a tenant's financial health and forecasts its cashflow.
Stages are composed with AgentQL queries and every query run is audited.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.QueryCmd())
	rootCmd.AddCommand(cli.StageCmd())

	// Reports
	rootCmd.AddCommand(cli.HealthCmd())
	rootCmd.AddCommand(cli.AlertsCmd())
	rootCmd.AddCommand(cli.ForecastCmd())
	rootCmd.AddCommand(cli.ScoreCmd())
	rootCmd.AddCommand(cli.RunsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
