package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/ports/primary"
	"github.com/example/finsight/internal/ports/secondary"
)

type reportFixture struct {
	service   *ReportServiceImpl
	txRepo    *mockTransactionRepository
	snapshots *mockHealthSnapshotRepository
	alerts    *mockRiskAlertRepository
	forecasts *mockForecastRepository
	runs      *mockPipelineRunRepository
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		txRepo:    newMockTransactionRepository(),
		snapshots: newMockHealthSnapshotRepository(),
		alerts:    newMockRiskAlertRepository(),
		forecasts: newMockForecastRepository(),
		runs:      newMockPipelineRunRepository(),
	}
	f.service = NewReportService(f.txRepo, f.snapshots, f.alerts, f.forecasts, f.runs, fixedClock)
	return f
}

func TestLatestHealth(t *testing.T) {
	f := newReportFixture()

	_, err := f.service.LatestHealth(context.Background(), "t1")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	seedThreeDays(t, f.txRepo)
	stage := NewMonitoringStage(f.txRepo, f.snapshots, f.alerts, hclog.NewNullLogger(), fixedClock, 90)
	if _, err := stage.Execute(context.Background(), "t1", nil); err != nil {
		t.Fatalf("monitoring failed: %v", err)
	}

	report, err := f.service.LatestHealth(context.Background(), "t1")
	if err != nil {
		t.Fatalf("LatestHealth failed: %v", err)
	}
	if report.Metrics["net_cashflow"] != 800.0 {
		t.Errorf("expected decoded metrics, got %v", report.Metrics)
	}
	if len(report.RiskFlags) != 1 || report.RiskFlags[0].Type != "high_volatility" {
		t.Errorf("expected decoded risk flags, got %v", report.RiskFlags)
	}
	if report.CalculatedAt != "2024-03-04T12:00:00Z" {
		t.Errorf("unexpected calculated_at %s", report.CalculatedAt)
	}
}

func TestListAlerts_DefaultLimit(t *testing.T) {
	f := newReportFixture()
	f.alerts.alerts = []*secondary.RiskAlertRecord{
		{ID: "RA-1", TenantID: "t1", AlertType: "negative_cashflow", Severity: "high", DetectedAt: fixedNow},
	}

	alerts, err := f.service.ListAlerts(context.Background(), primary.AlertFilters{TenantID: "t1"})
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if f.alerts.lastFilters.Limit != DefaultAlertLimit {
		t.Errorf("expected default limit %d, got %d", DefaultAlertLimit, f.alerts.lastFilters.Limit)
	}
	if len(alerts) != 1 || alerts[0].Type != "negative_cashflow" || alerts[0].Resolved {
		t.Errorf("unexpected alerts %+v", alerts)
	}
}

func TestResolveAlert(t *testing.T) {
	f := newReportFixture()
	f.alerts.alerts = []*secondary.RiskAlertRecord{{ID: "RA-1", TenantID: "t1", DetectedAt: fixedNow}}

	if err := f.service.ResolveAlert(context.Background(), "RA-1"); err != nil {
		t.Fatalf("ResolveAlert failed: %v", err)
	}
	alerts, _ := f.service.ListAlerts(context.Background(), primary.AlertFilters{TenantID: "t1"})
	if !alerts[0].Resolved || alerts[0].ResolvedAt != "2024-03-04T12:00:00Z" {
		t.Errorf("expected resolved alert, got %+v", alerts[0])
	}

	if err := f.service.ResolveAlert(context.Background(), "RA-9"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestForecast(t *testing.T) {
	f := newReportFixture()

	if _, err := f.service.LatestForecast(context.Background(), "t1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	f.forecasts.points = []*secondary.ForecastPointRecord{
		{TenantID: "t1", BatchID: "old", ForecastDate: fixedNow, Predicted: 1},
		{TenantID: "t1", BatchID: "new", ForecastDate: fixedNow, Predicted: 100, CreatedAt: fixedNow},
		{TenantID: "t1", BatchID: "new", ForecastDate: fixedNow.AddDate(0, 0, 1), Predicted: -40, CreatedAt: fixedNow},
	}

	report, err := f.service.LatestForecast(context.Background(), "t1")
	if err != nil {
		t.Fatalf("LatestForecast failed: %v", err)
	}
	if report.BatchID != "new" || len(report.Points) != 2 || report.Net != 60 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Points[1].Date != "2024-03-05" {
		t.Errorf("unexpected date %s", report.Points[1].Date)
	}
}

func TestRuns(t *testing.T) {
	f := newReportFixture()
	completed := fixedNow.Add(time.Minute)
	f.runs.runs["RUN-1"] = &secondary.PipelineRunRecord{ID: "RUN-1", TenantID: "t1", Status: "completed", StartedAt: fixedNow, CompletedAt: &completed}
	f.runs.order = []string{"RUN-1"}

	runs, err := f.service.ListRuns(context.Background(), primary.RunFilters{TenantID: "t1"})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].CompletedAt != "2024-03-04T12:01:00Z" {
		t.Errorf("unexpected runs %+v", runs)
	}

	if _, err := f.service.GetRun(context.Background(), "RUN-2"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStrengthScore(t *testing.T) {
	f := newReportFixture()

	empty, err := f.service.StrengthScore(context.Background(), "t1")
	if err != nil {
		t.Fatalf("StrengthScore failed: %v", err)
	}
	if empty.Score != 0 {
		t.Errorf("expected 0 without transactions, got %v", empty.Score)
	}

	seedThreeDays(t, f.txRepo)
	f.snapshots.snapshots = []*secondary.HealthSnapshotRecord{{TenantID: "t1", Score: 80}}
	f.forecasts.points = []*secondary.ForecastPointRecord{{TenantID: "t1", BatchID: "b", Predicted: 6000}}

	report, err := f.service.StrengthScore(context.Background(), "t1")
	if err != nil {
		t.Fatalf("StrengthScore failed: %v", err)
	}

	// ratio 800/1200 > 0.2 (+25), FHI 80 (+20), per-transaction CV above 0.5 (-15), forecast > 5000 (+10)
	if report.Score != 90 {
		t.Errorf("expected 90, got %v", report.Score)
	}
	if report.Features["fhi_score"] != 80.0 || report.Features["transaction_count"] != 3.0 {
		t.Errorf("unexpected features %v", report.Features)
	}
}
