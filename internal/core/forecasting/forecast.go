// Package forecasting projects daily net cash flow forward from history and
// derives stress scenarios and a liquidity risk score. It performs no I/O.
package forecasting

import (
	"time"

	"github.com/example/finsight/internal/core/ledger"
	"github.com/example/finsight/internal/core/stats"
)

// DateLayout is the key format of the per-day forecast map.
const DateLayout = "2006-01-02"

const (
	maxWindow = 30
	zScore95  = 1.96
)

// Point is the projection for one future calendar day.
type Point struct {
	Date      time.Time
	Predicted float64
	Lower     float64
	Upper     float64
}

// Map returns the point as {predicted, lower, upper}.
func (p Point) Map() map[string]any {
	return map[string]any{
		"predicted": p.Predicted,
		"lower":     p.Lower,
		"upper":     p.Upper,
	}
}

// Model is the fitted state a forecast is produced from.
type Model struct {
	Window   int
	Baseline float64
	Drift    float64
	Spread   float64
}

// WindowSize returns max(1, min(30, n/2)).
func WindowSize(n int) int {
	w := n / 2
	if w > maxWindow {
		w = maxWindow
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Series aggregates entries to signed daily net flow over a contiguous date range.
func Series(entries []ledger.Entry) []ledger.DailyTotal {
	return ledger.GapFill(ledger.DailyNet(entries))
}

// Fit derives the moving-average model from a contiguous daily series.
func Fit(series []float64) Model {
	n := len(series)
	w := WindowSize(n)
	m := Model{Window: w, Baseline: stats.Mean(series)}

	ma := rollingMean(series, w)
	if len(ma) > 0 {
		m.Baseline = ma[len(ma)-1]
	}
	if len(ma) > 1 {
		m.Drift = ma[len(ma)-1] - ma[len(ma)-2]
	}

	tail := series
	if n > w {
		tail = series[n-w:]
	}
	// Population std (ddof=0), matching the volatility metric. A sample std
	// would widen the band by sqrt(w/(w-1)).
	m.Spread = stats.PopulationStdDev(tail)
	return m
}

// rollingMean returns the trailing means for every fully populated window.
func rollingMean(values []float64, w int) []float64 {
	if w <= 0 || len(values) < w {
		return nil
	}
	out := make([]float64, 0, len(values)-w+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= w {
			sum -= values[i-w]
		}
		if i >= w-1 {
			out = append(out, sum/float64(w))
		}
	}
	return out
}

// Project produces horizon points starting at the calendar day of start.
func (m Model) Project(start time.Time, horizon int) []Point {
	if horizon <= 0 {
		return nil
	}
	first := ledger.Day(start)
	points := make([]Point, horizon)
	for i := range points {
		predicted := m.Baseline + m.Drift*float64(i)
		points[i] = Point{
			Date:      first.AddDate(0, 0, i),
			Predicted: predicted,
			Lower:     predicted - zScore95*m.Spread,
			Upper:     predicted + zScore95*m.Spread,
		}
	}
	return points
}

// Summary totals a forecast.
type Summary struct {
	Inflow  float64
	Outflow float64
	Net     float64
}

// Map returns the summary keyed by its reporting names.
func (s Summary) Map() map[string]any {
	return map[string]any{
		"total_predicted_inflow":  s.Inflow,
		"total_predicted_outflow": s.Outflow,
		"predicted_net_cashflow":  s.Net,
	}
}

// Summarize sums positive predictions as inflow and negative ones as outflow.
func Summarize(points []Point) Summary {
	var s Summary
	for _, p := range points {
		switch {
		case p.Predicted > 0:
			s.Inflow += p.Predicted
		case p.Predicted < 0:
			s.Outflow -= p.Predicted
		}
		s.Net += p.Predicted
	}
	return s
}

// Result is the complete forecasting outcome.
type Result struct {
	Model     Model
	Points    []Point
	Scenarios Scenarios
	Risk      float64
	Summary   Summary
}

// Forecast fits entries and projects horizon days from now.
func Forecast(entries []ledger.Entry, now time.Time, horizon int) Result {
	model := Fit(ledger.Values(Series(entries)))
	points := model.Project(now, horizon)
	summary := Summarize(points)
	scenarios := Stress(summary.Net)
	return Result{
		Model:     model,
		Points:    points,
		Scenarios: scenarios,
		Risk:      LiquidityRisk(summary.Net, scenarios),
		Summary:   summary,
	}
}

// PointsMap returns the forecast keyed by date.
func (r Result) PointsMap() map[string]any {
	out := make(map[string]any, len(r.Points))
	for _, p := range r.Points {
		out[p.Date.Format(DateLayout)] = p.Map()
	}
	return out
}
