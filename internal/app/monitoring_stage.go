package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/core/monitoring"
	"github.com/example/finsight/internal/ports/secondary"
)

// MonitoringStage computes financial health and raises risk alerts.
type MonitoringStage struct {
	txRepo       secondary.TransactionRepository
	snapshotRepo secondary.HealthSnapshotRepository
	alertRepo    secondary.RiskAlertRepository
	logger       hclog.Logger
	clock        Clock
	daysBack     int
}

// NewMonitoringStage creates a new MonitoringStage with injected dependencies.
// daysBack is the default lookback when inputs do not carry one.
func NewMonitoringStage(
	txRepo secondary.TransactionRepository,
	snapshotRepo secondary.HealthSnapshotRepository,
	alertRepo secondary.RiskAlertRepository,
	logger hclog.Logger,
	clock Clock,
	daysBack int,
) *MonitoringStage {
	return &MonitoringStage{
		txRepo:       txRepo,
		snapshotRepo: snapshotRepo,
		alertRepo:    alertRepo,
		logger:       logger,
		clock:        clock,
		daysBack:     daysBack,
	}
}

// Execute assesses the tenant's transactions in the lookback window, persists
// a health snapshot and one alert per medium-or-worse flag.
func (s *MonitoringStage) Execute(ctx context.Context, tenantID string, inputs map[string]any) (map[string]any, error) {
	logger := runLogger(ctx, s.logger)

	days, err := intInput(inputs, InputDaysBack, s.daysBack)
	if err != nil {
		return nil, fmt.Errorf("invalid monitoring input: %w", err)
	}

	now := s.clock.now()
	entries, err := loadEntries(ctx, s.txRepo, tenantID, now, days)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Info("no transactions to monitor", "days_back", days)
		return map[string]any{
			"status":    StatusInsufficientData,
			"fhi_score": nil,
			"message":   "Not enough transaction data for monitoring",
		}, nil
	}

	assessment := monitoring.Assess(entries)
	metrics := assessment.Metrics.Map()
	flags := make([]map[string]any, len(assessment.Flags))
	for i, f := range assessment.Flags {
		flags[i] = f.Map()
	}

	metricsJSON, err := toJSON(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	flagsJSON, err := toJSON(assessment.Flags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk flags: %w", err)
	}

	err = s.snapshotRepo.Create(ctx, &secondary.HealthSnapshotRecord{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Score:        assessment.Score,
		Metrics:      metricsJSON,
		RiskFlags:    flagsJSON,
		CalculatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save health snapshot: %w", err)
	}

	alertsCreated := 0
	for _, flag := range assessment.AlertFlags() {
		metadata, err := toJSON(flag)
		if err != nil {
			return nil, fmt.Errorf("failed to encode alert metadata: %w", err)
		}
		err = s.alertRepo.Create(ctx, &secondary.RiskAlertRecord{
			ID:         uuid.NewString(),
			TenantID:   tenantID,
			AlertType:  flag.Type,
			Severity:   string(flag.Severity),
			Message:    flag.Message,
			Metadata:   metadata,
			DetectedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create risk alert: %w", err)
		}
		alertsCreated++
	}

	logger.Info("monitoring complete",
		"fhi", assessment.Score,
		"flags", len(assessment.Flags),
		"alerts", alertsCreated,
	)

	return map[string]any{
		"status":         StatusSuccess,
		"fhi_score":      assessment.Score,
		"metrics":        metrics,
		"risk_flags":     flags,
		"alerts_created": alertsCreated,
	}, nil
}
