// Package strength computes the rule-based Financial Strength Score.
package strength

import (
	"github.com/example/finsight/internal/core/ledger"
	"github.com/example/finsight/internal/core/stats"
)

// DefaultHealthIndex stands in when a tenant has no health snapshot yet.
const DefaultHealthIndex = 50.0

// Features are the indicators the score is derived from.
type Features struct {
	TotalIncome            float64 `json:"total_income"`
	TotalExpenses          float64 `json:"total_expenses"`
	NetCashflow            float64 `json:"net_cashflow"`
	CashflowRatio          float64 `json:"cashflow_ratio"`
	Volatility             float64 `json:"volatility"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	HealthIndex            float64 `json:"fhi_score"`
	ForecastNet            float64 `json:"forecasted_net_cashflow"`
	TransactionCount       int     `json:"transaction_count"`
}

// ExtractFeatures builds Features from a transaction window, the latest health
// index (nil when none) and the net of the latest forecast. Volatility is
// measured per transaction, not per day.
func ExtractFeatures(entries []ledger.Entry, healthIndex *float64, forecastNet float64) Features {
	f := Features{
		HealthIndex:      DefaultHealthIndex,
		ForecastNet:      forecastNet,
		TransactionCount: len(entries),
	}
	if healthIndex != nil {
		f.HealthIndex = *healthIndex
	}

	flows := make([]float64, len(entries))
	for i, e := range entries {
		flows[i] = e.Signed()
		if e.Kind == ledger.KindIncome {
			f.TotalIncome += e.Amount
		} else {
			f.TotalExpenses += e.Amount
		}
	}
	f.NetCashflow = f.TotalIncome - f.TotalExpenses

	f.CashflowRatio = -1
	if f.TotalIncome > 0 {
		f.CashflowRatio = f.NetCashflow / f.TotalIncome
	}

	f.Volatility = stats.PopulationStdDev(flows)
	if mean := stats.Mean(flows); mean != 0 {
		f.CoefficientOfVariation = f.Volatility / mean
	}
	return f
}

// Score returns the Financial Strength Score in [0,100]. A window with no
// transactions scores 0.
func Score(f Features) float64 {
	if f.TransactionCount == 0 {
		return 0
	}

	score := 50.0

	switch {
	case f.CashflowRatio > 0.2:
		score += 25
	case f.CashflowRatio > 0.1:
		score += 20
	case f.CashflowRatio > 0:
		score += 10
	case f.CashflowRatio > -0.1:
		score += 5
	}

	score += f.HealthIndex / 100 * 25

	switch {
	case f.CoefficientOfVariation > 0.5:
		score -= 15
	case f.CoefficientOfVariation > 0.3:
		score -= 10
	case f.CoefficientOfVariation > 0.2:
		score -= 5
	}

	switch {
	case f.ForecastNet > 10000:
		score += 15
	case f.ForecastNet > 5000:
		score += 10
	case f.ForecastNet > 0:
		score += 5
	}

	return stats.Clamp(score, 0, 100)
}
