package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/core/forecasting"
	"github.com/example/finsight/internal/ports/secondary"
)

// ForecastingStage projects cash flow and scores liquidity risk.
type ForecastingStage struct {
	txRepo       secondary.TransactionRepository
	forecastRepo secondary.ForecastRepository
	logger       hclog.Logger
	clock        Clock
	daysBack     int
	forecastDays int
}

// NewForecastingStage creates a new ForecastingStage with injected dependencies.
func NewForecastingStage(
	txRepo secondary.TransactionRepository,
	forecastRepo secondary.ForecastRepository,
	logger hclog.Logger,
	clock Clock,
	daysBack, forecastDays int,
) *ForecastingStage {
	return &ForecastingStage{
		txRepo:       txRepo,
		forecastRepo: forecastRepo,
		logger:       logger,
		clock:        clock,
		daysBack:     daysBack,
		forecastDays: forecastDays,
	}
}

// Execute forecasts the next forecast_days days and appends the points as a
// new batch.
func (s *ForecastingStage) Execute(ctx context.Context, tenantID string, inputs map[string]any) (map[string]any, error) {
	logger := runLogger(ctx, s.logger)

	days, err := intInput(inputs, InputDaysBack, s.daysBack)
	if err != nil {
		return nil, fmt.Errorf("invalid forecasting input: %w", err)
	}
	horizon, err := intInput(inputs, InputForecastDays, s.forecastDays)
	if err != nil {
		return nil, fmt.Errorf("invalid forecasting input: %w", err)
	}
	if horizon > MaxForecastDays {
		return nil, fmt.Errorf("invalid forecasting input: %s must be at most %d, got %d", InputForecastDays, MaxForecastDays, horizon)
	}

	now := s.clock.now()
	entries, err := loadEntries(ctx, s.txRepo, tenantID, now, days)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Info("no transactions to forecast", "days_back", days)
		return map[string]any{
			"status":   StatusInsufficientData,
			"forecast": nil,
			"message":  "Not enough transaction data for forecasting",
		}, nil
	}

	result := forecasting.Forecast(entries, now, horizon)

	batchID := uuid.NewString()
	records := make([]*secondary.ForecastPointRecord, len(result.Points))
	for i, p := range result.Points {
		records[i] = &secondary.ForecastPointRecord{
			ID:           uuid.NewString(),
			TenantID:     tenantID,
			BatchID:      batchID,
			ForecastDate: p.Date,
			Predicted:    p.Predicted,
			Lower:        p.Lower,
			Upper:        p.Upper,
			CreatedAt:    now,
		}
	}
	if err := s.forecastRepo.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save forecast: %w", err)
	}

	logger.Info("forecast complete",
		"batch", batchID,
		"horizon", horizon,
		"window", result.Model.Window,
		"net", result.Summary.Net,
		"liquidity_risk", result.Risk,
	)

	return map[string]any{
		"status":               StatusSuccess,
		"forecast_days":        horizon,
		"forecast":             result.PointsMap(),
		"stress_scenarios":     result.Scenarios.Map(),
		"liquidity_risk_score": result.Risk,
		"forecast_summary":     result.Summary.Map(),
	}, nil
}
