package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/finsight/internal/ports/primary"
	"github.com/example/finsight/internal/wire"
)

// HealthCmd returns the health command
func HealthCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the latest Financial Health Index for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().Health(context.Background(), tenantID)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

// ForecastCmd returns the forecast command
func ForecastCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show the latest cashflow forecast for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().Forecast(context.Background(), tenantID)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

// ScoreCmd returns the score command
func ScoreCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the Financial Strength Score for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().Strength(context.Background(), tenantID)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

// AlertsCmd returns the alerts command
func AlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List and resolve risk alerts",
	}

	cmd.AddCommand(alertsListCmd())
	cmd.AddCommand(alertsResolveCmd())

	return cmd
}

func alertsListCmd() *cobra.Command {
	var filters primary.AlertFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List risk alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().Alerts(context.Background(), filters)
		},
	}

	cmd.Flags().StringVarP(&filters.TenantID, "tenant", "t", "", "Filter by tenant ID")
	cmd.Flags().StringVarP(&filters.Severity, "severity", "s", "", "Filter by severity (medium, high, critical)")
	cmd.Flags().BoolVarP(&filters.UnresolvedOnly, "unresolved", "u", false, "Only show unresolved alerts")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 0, "Maximum number of alerts")

	return cmd
}

func alertsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [alert-id]",
		Short: "Mark a risk alert resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().Resolve(context.Background(), args[0])
		},
	}
}

// RunsCmd returns the runs command
func RunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the pipeline run audit trail",
	}

	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())

	return cmd
}

func runsListCmd() *cobra.Command {
	var filters primary.RunFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipeline runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().Runs(context.Background(), filters)
		},
	}

	cmd.Flags().StringVarP(&filters.TenantID, "tenant", "t", "", "Filter by tenant ID")
	cmd.Flags().StringVarP(&filters.Status, "status", "s", "", "Filter by status (running, completed, failed)")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 0, "Maximum number of runs")

	return cmd
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show one pipeline run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReportAdapter().ShowRun(context.Background(), args[0])
		},
	}
}
