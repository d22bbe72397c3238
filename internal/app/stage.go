package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/core/ledger"
	"github.com/example/finsight/internal/ctxutil"
	"github.com/example/finsight/internal/core/pipeline"
	"github.com/example/finsight/internal/ports/secondary"
)

// Stage is one analytic unit the orchestrator can invoke.
type Stage interface {
	Execute(ctx context.Context, tenantID string, inputs map[string]any) (map[string]any, error)
}

// StageRegistry maps every known stage identifier to its implementation.
type StageRegistry map[pipeline.StageID]Stage

// Status values reported in stage outputs.
const (
	StatusSuccess          = "success"
	StatusInsufficientData = "insufficient_data"
)

// Input keys read by the stages.
const (
	InputDataSources  = "data_sources"
	InputDaysBack     = "days_back"
	InputForecastDays = "forecast_days"
)

// MaxForecastDays bounds the forecast horizon; each day is one stored point.
const MaxForecastDays = 365

// Clock returns the current time. Stages take one so tests are deterministic.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// intInput reads a positive whole number from inputs, falling back to def when
// the key is absent or null.
func intInput(inputs map[string]any, key string, def int) (int, error) {
	v, ok := inputs[key]
	if !ok || v == nil {
		return def, nil
	}

	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%s must be a whole number, got %v", key, x)
		}
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number, got %s", key, x)
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number, got %q", key, x)
		}
		n = i
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, v)
	}

	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

// loadEntries reads a tenant's transactions for the last days and reduces
// them to ledger entries.
func loadEntries(ctx context.Context, repo secondary.TransactionRepository, tenantID string, now time.Time, days int) ([]ledger.Entry, error) {
	since := now.AddDate(0, 0, -days)
	records, err := repo.ListByTenantSince(ctx, tenantID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	entries := make([]ledger.Entry, len(records))
	for i, r := range records {
		entries[i] = ledger.Entry{
			Date:   r.Date,
			Amount: r.Amount.InexactFloat64(),
			Kind:   r.Kind,
		}
	}
	return entries, nil
}

// runLogger tags logger with the run and tenant carried by ctx.
func runLogger(ctx context.Context, logger hclog.Logger) hclog.Logger {
	var args []any
	if runID := ctxutil.RunFromContext(ctx); runID != "" {
		args = append(args, "run", runID)
	}
	if tenantID := ctxutil.TenantFromContext(ctx); tenantID != "" {
		args = append(args, "tenant", tenantID)
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}

func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
