package monitoring

import (
	"fmt"

	"github.com/example/finsight/internal/core/ledger"
	"github.com/example/finsight/internal/core/stats"
)

// Severity grades a risk flag.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RaisesAlert reports whether a flag of this severity is persisted as an alert.
func (s Severity) RaisesAlert() bool {
	return s == SeverityMedium || s == SeverityHigh || s == SeverityCritical
}

// Flag types.
const (
	FlagNegativeCashflow = "negative_cashflow"
	FlagHighExpenseRatio = "high_expense_ratio"
	FlagHighVolatility   = "high_volatility"
	FlagAnomaly          = "anomaly"
)

// MinAnomalySample is the transaction count below which outliers are not evaluated.
const MinAnomalySample = 10

// RiskFlag is one detected risk.
type RiskFlag struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Map returns the flag as a generic map.
func (f RiskFlag) Map() map[string]any {
	return map[string]any{
		"type":     f.Type,
		"severity": string(f.Severity),
		"message":  f.Message,
	}
}

// HealthIndex computes the Financial Health Index (0-100) by applying the
// scoring rules in order, starting from 100.
func HealthIndex(m Metrics) float64 {
	score := 100.0

	switch {
	case m.ExpenseRatio > 0.9:
		score -= 20
	case m.ExpenseRatio > 0.8:
		score -= 10
	}

	if m.NetCashflow < 0 {
		score -= 30
	}

	switch {
	case m.CoefficientOfVariation > 0.5:
		score -= 15
	case m.CoefficientOfVariation > 0.3:
		score -= 8
	}

	score += m.RevenueConsistency * 10

	return stats.Clamp(score, 0, 100)
}

// DetectRisks runs every independent check and returns all flags raised.
func DetectRisks(m Metrics, entries []ledger.Entry) []RiskFlag {
	var flags []RiskFlag

	if m.NetCashflow < 0 {
		flags = append(flags, RiskFlag{
			Type:     FlagNegativeCashflow,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("Negative cashflow detected: %.2f", m.NetCashflow),
		})
	}

	if m.ExpenseRatio > 0.9 {
		flags = append(flags, RiskFlag{
			Type:     FlagHighExpenseRatio,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("Expense ratio is %.2f%%", m.ExpenseRatio*100),
		})
	}

	if m.CoefficientOfVariation > 0.5 {
		flags = append(flags, RiskFlag{
			Type:     FlagHighVolatility,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("Cashflow volatility is high (CV: %.2f)", m.CoefficientOfVariation),
		})
	}

	if n := CountOutliers(entries); n > 0 {
		flags = append(flags, RiskFlag{
			Type:     FlagAnomaly,
			Severity: SeverityLow,
			Message:  fmt.Sprintf("Detected %d anomalous transactions", n),
		})
	}

	return flags
}

// CountOutliers counts transactions whose raw amount falls outside the Tukey
// fence. Fewer than MinAnomalySample transactions yields 0.
func CountOutliers(entries []ledger.Entry) int {
	if len(entries) < MinAnomalySample {
		return 0
	}

	amounts := make([]float64, len(entries))
	for i, e := range entries {
		amounts[i] = e.Amount
	}
	fence := stats.NewTukeyFence(amounts)

	count := 0
	for _, a := range amounts {
		if fence.Outside(a) {
			count++
		}
	}
	return count
}

// Assessment is the complete monitoring result for a window.
type Assessment struct {
	Metrics Metrics
	Score   float64
	Flags   []RiskFlag
}

// Assess computes metrics, the health index and risk flags.
func Assess(entries []ledger.Entry) Assessment {
	m := ComputeMetrics(entries)
	return Assessment{
		Metrics: m,
		Score:   HealthIndex(m),
		Flags:   DetectRisks(m, entries),
	}
}

// AlertFlags returns the flags that must be persisted as alerts.
func (a Assessment) AlertFlags() []RiskFlag {
	var out []RiskFlag
	for _, f := range a.Flags {
		if f.Severity.RaisesAlert() {
			out = append(out, f)
		}
	}
	return out
}
