package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/finsight/internal/ports/primary"
)

// ReportAdapter translates CLI operations to ReportService calls.
type ReportAdapter struct {
	service primary.ReportService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given service.
func NewReportAdapter(service primary.ReportService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		service: service,
		out:     out,
	}
}

// Health prints the latest health snapshot.
func (a *ReportAdapter) Health(ctx context.Context, tenantID string) error {
	report, err := a.service.LatestHealth(ctx, tenantID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nTenant:     %s\n", report.TenantID)
	fmt.Fprintf(a.out, "FHI:        %s\n", scoreLabel(report.Score))
	fmt.Fprintf(a.out, "Calculated: %s\n\n", report.CalculatedAt)
	fmt.Fprintln(a.out, "Metrics:")
	writeMap(a.out, "  ", report.Metrics)

	if len(report.RiskFlags) > 0 {
		fmt.Fprintln(a.out, "\nRisk flags:")
		for _, f := range report.RiskFlags {
			fmt.Fprintf(a.out, "  [%s] %s: %s\n", severityLabel(f.Severity), f.Type, f.Message)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// Alerts lists risk alerts.
func (a *ReportAdapter) Alerts(ctx context.Context, filters primary.AlertFilters) error {
	alerts, err := a.service.ListAlerts(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list alerts: %w", err)
	}

	if len(alerts) == 0 {
		fmt.Fprintln(a.out, "No alerts found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-36s %-10s %-20s %-9s %s\n", "ID", "SEVERITY", "TYPE", "RESOLVED", "MESSAGE")
	fmt.Fprintln(a.out, rule)
	for _, al := range alerts {
		resolved := "no"
		if al.Resolved {
			resolved = "yes"
		}
		fmt.Fprintf(a.out, "%-36s %s %-20s %-9s %s\n", al.ID, padded(severityLabel(al.Severity), al.Severity, 10), al.Type, resolved, al.Message)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Resolve marks an alert resolved.
func (a *ReportAdapter) Resolve(ctx context.Context, alertID string) error {
	if err := a.service.ResolveAlert(ctx, alertID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Alert %s resolved\n", alertID)
	return nil
}

// Forecast prints the latest forecast batch.
func (a *ReportAdapter) Forecast(ctx context.Context, tenantID string) error {
	report, err := a.service.LatestForecast(ctx, tenantID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nForecast %s (created %s)\n", report.BatchID, report.CreatedAt)
	fmt.Fprintf(a.out, "%-12s %14s %14s %14s\n", "DATE", "PREDICTED", "LOWER", "UPPER")
	fmt.Fprintln(a.out, rule)
	for _, p := range report.Points {
		fmt.Fprintf(a.out, "%-12s %14.2f %14.2f %14.2f\n", p.Date, p.Predicted, p.Lower, p.Upper)
	}
	fmt.Fprintf(a.out, "\nPredicted net: %.2f\n\n", report.Net)

	return nil
}

// Runs lists pipeline runs.
func (a *ReportAdapter) Runs(ctx context.Context, filters primary.RunFilters) error {
	runs, err := a.service.ListRuns(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-36s %-15s %-10s %-14s %s\n", "ID", "TENANT", "STATUS", "LABEL", "STARTED")
	fmt.Fprintln(a.out, rule)
	for _, r := range runs {
		fmt.Fprintf(a.out, "%-36s %-15s %s %-14s %s\n", r.ID, r.TenantID, padded(statusLabel(r.Status), r.Status, 10), r.StageLabel, r.StartedAt)
	}
	fmt.Fprintln(a.out)

	return nil
}

// ShowRun prints one pipeline run.
func (a *ReportAdapter) ShowRun(ctx context.Context, runID string) error {
	run, err := a.service.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nRun:     %s\n", run.ID)
	fmt.Fprintf(a.out, "Tenant:  %s\n", run.TenantID)
	fmt.Fprintf(a.out, "Label:   %s\n", run.StageLabel)
	fmt.Fprintf(a.out, "Status:  %s\n", statusLabel(run.Status))
	fmt.Fprintf(a.out, "Started: %s\n", run.StartedAt)
	if run.CompletedAt != "" {
		fmt.Fprintf(a.out, "Completed: %s\n", run.CompletedAt)
	}
	if run.Error != "" {
		fmt.Fprintf(a.out, "Error:   %s\n", run.Error)
	}
	if run.QueryText != "" {
		fmt.Fprintf(a.out, "\nQuery:\n%s\n", run.QueryText)
	}
	fmt.Fprintf(a.out, "\nInputs:  %s\n", run.Inputs)
	if run.Outputs != "" {
		fmt.Fprintf(a.out, "Outputs: %s\n", run.Outputs)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Strength prints the Financial Strength Score.
func (a *ReportAdapter) Strength(ctx context.Context, tenantID string) error {
	report, err := a.service.StrengthScore(ctx, tenantID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nFinancial Strength Score: %s\n\n", scoreLabel(report.Score))
	writeMap(a.out, "  ", report.Features)
	fmt.Fprintln(a.out)

	return nil
}
