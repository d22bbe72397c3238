package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/config"
	"github.com/example/finsight/internal/core/forecasting"
	"github.com/example/finsight/internal/core/strength"
	"github.com/example/finsight/internal/ports/primary"
	"github.com/example/finsight/internal/ports/secondary"
)

// DefaultAlertLimit caps alert listings when no limit is given.
const DefaultAlertLimit = 50

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	txRepo       secondary.TransactionRepository
	snapshotRepo secondary.HealthSnapshotRepository
	alertRepo    secondary.RiskAlertRepository
	forecastRepo secondary.ForecastRepository
	runRepo      secondary.PipelineRunRepository
	clock        Clock
}

// NewReportService creates a new ReportService with injected dependencies.
func NewReportService(
	txRepo secondary.TransactionRepository,
	snapshotRepo secondary.HealthSnapshotRepository,
	alertRepo secondary.RiskAlertRepository,
	forecastRepo secondary.ForecastRepository,
	runRepo secondary.PipelineRunRepository,
	clock Clock,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		txRepo:       txRepo,
		snapshotRepo: snapshotRepo,
		alertRepo:    alertRepo,
		forecastRepo: forecastRepo,
		runRepo:      runRepo,
		clock:        clock,
	}
}

// LatestHealth returns the newest health snapshot for a tenant.
func (s *ReportServiceImpl) LatestHealth(ctx context.Context, tenantID string) (*primary.HealthReport, error) {
	record, err := s.snapshotRepo.LatestByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("health snapshot for tenant %s: %w", tenantID, apperrors.ErrNotFound)
	}

	report := &primary.HealthReport{
		ID:           record.ID,
		TenantID:     record.TenantID,
		Score:        record.Score,
		CalculatedAt: formatTime(record.CalculatedAt),
	}
	if err := json.Unmarshal([]byte(record.Metrics), &report.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(record.RiskFlags), &report.RiskFlags); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot risk flags: %w", err)
	}

	return report, nil
}

// ListAlerts lists risk alerts, newest first.
func (s *ReportServiceImpl) ListAlerts(ctx context.Context, filters primary.AlertFilters) ([]*primary.Alert, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultAlertLimit
	}

	records, err := s.alertRepo.List(ctx, secondary.RiskAlertFilters{
		TenantID:       filters.TenantID,
		Severity:       filters.Severity,
		UnresolvedOnly: filters.UnresolvedOnly,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	alerts := make([]*primary.Alert, len(records))
	for i, r := range records {
		alerts[i] = &primary.Alert{
			ID:         r.ID,
			TenantID:   r.TenantID,
			Type:       r.AlertType,
			Severity:   r.Severity,
			Message:    r.Message,
			DetectedAt: formatTime(r.DetectedAt),
			Resolved:   r.Resolved,
		}
		if r.ResolvedAt != nil {
			alerts[i].ResolvedAt = formatTime(*r.ResolvedAt)
		}
	}
	return alerts, nil
}

// ResolveAlert marks an alert resolved.
func (s *ReportServiceImpl) ResolveAlert(ctx context.Context, alertID string) error {
	return s.alertRepo.Resolve(ctx, alertID, s.clock.now())
}

// LatestForecast returns the points of the newest forecasting run.
func (s *ReportServiceImpl) LatestForecast(ctx context.Context, tenantID string) (*primary.ForecastReport, error) {
	records, err := s.forecastRepo.LatestByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("forecast for tenant %s: %w", tenantID, apperrors.ErrNotFound)
	}

	report := &primary.ForecastReport{
		TenantID:  tenantID,
		BatchID:   records[0].BatchID,
		CreatedAt: formatTime(records[0].CreatedAt),
		Points:    make([]primary.ForecastPoint, len(records)),
	}
	for i, r := range records {
		report.Points[i] = primary.ForecastPoint{
			Date:      r.ForecastDate.Format(forecasting.DateLayout),
			Predicted: r.Predicted,
			Lower:     r.Lower,
			Upper:     r.Upper,
		}
		report.Net += r.Predicted
	}
	return report, nil
}

// ListRuns lists pipeline runs, newest first.
func (s *ReportServiceImpl) ListRuns(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	records, err := s.runRepo.List(ctx, secondary.PipelineRunFilters{
		TenantID: filters.TenantID,
		Status:   filters.Status,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = recordToRun(r)
	}
	return runs, nil
}

// GetRun retrieves one pipeline run.
func (s *ReportServiceImpl) GetRun(ctx context.Context, runID string) (*primary.Run, error) {
	record, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return recordToRun(record), nil
}

// StrengthScore computes the Financial Strength Score over the default
// lookback window, the latest health index and the latest forecast.
func (s *ReportServiceImpl) StrengthScore(ctx context.Context, tenantID string) (*primary.StrengthReport, error) {
	now := s.clock.now()
	entries, err := loadEntries(ctx, s.txRepo, tenantID, now, config.DefaultDaysBack)
	if err != nil {
		return nil, err
	}

	var healthIndex *float64
	snapshot, err := s.snapshotRepo.LatestByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		healthIndex = &snapshot.Score
	}

	points, err := s.forecastRepo.LatestByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	forecastNet := 0.0
	for _, p := range points {
		forecastNet += p.Predicted
	}

	features := strength.ExtractFeatures(entries, healthIndex, forecastNet)
	featureMap, err := structToMap(features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode strength features: %w", err)
	}

	return &primary.StrengthReport{
		TenantID:     tenantID,
		Score:        strength.Score(features),
		Features:     featureMap,
		CalculatedAt: formatTime(now),
	}, nil
}

func recordToRun(r *secondary.PipelineRunRecord) *primary.Run {
	run := &primary.Run{
		ID:         r.ID,
		TenantID:   r.TenantID,
		StageLabel: r.StageLabel,
		QueryText:  r.QueryText,
		Inputs:     r.Inputs,
		Outputs:    r.Outputs,
		Status:     r.Status,
		Error:      r.Error,
		StartedAt:  formatTime(r.StartedAt),
	}
	if r.CompletedAt != nil {
		run.CompletedAt = formatTime(*r.CompletedAt)
	}
	return run
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func structToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)
