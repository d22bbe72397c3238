package forecasting

import (
	"math"

	"github.com/example/finsight/internal/core/stats"
)

// Impact tags a scenario outcome.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
)

// Scenario names.
const (
	ScenarioRevenueDrop     = "revenue_drop_20"
	ScenarioExpenseIncrease = "expense_increase_30"
	ScenarioCombined        = "combined_stress"
)

// Scenario is the projected net under one stress multiplier.
type Scenario struct {
	Net    float64
	Impact Impact
}

// Scenarios holds the fixed stress set.
type Scenarios struct {
	RevenueDrop     Scenario
	ExpenseIncrease Scenario
	Combined        Scenario
}

// Map returns the scenarios keyed by name.
func (s Scenarios) Map() map[string]any {
	entry := func(sc Scenario) map[string]any {
		return map[string]any{"net_cashflow": sc.Net, "impact": string(sc.Impact)}
	}
	return map[string]any{
		ScenarioRevenueDrop:     entry(s.RevenueDrop),
		ScenarioExpenseIncrease: entry(s.ExpenseIncrease),
		ScenarioCombined:        entry(s.Combined),
	}
}

func scenario(net, multiplier float64) Scenario {
	v := net * multiplier
	impact := ImpactPositive
	if v < 0 {
		impact = ImpactNegative
	}
	return Scenario{Net: v, Impact: impact}
}

// Stress applies the fixed multipliers to a projected net total.
func Stress(net float64) Scenarios {
	return Scenarios{
		RevenueDrop:     scenario(net, 0.8),
		ExpenseIncrease: scenario(net, 0.7),
		Combined:        scenario(net, 0.5),
	}
}

// LiquidityRisk scores 0-100; higher means more risk.
func LiquidityRisk(net float64, s Scenarios) float64 {
	risk := 0.0
	if net < 0 {
		risk = math.Min(100, math.Abs(net)/1000*10)
	}
	if s.Combined.Impact == ImpactNegative {
		risk += 30
	}
	if s.RevenueDrop.Impact == ImpactNegative {
		risk += 15
	}
	if s.ExpenseIncrease.Impact == ImpactNegative {
		risk += 15
	}
	return stats.Clamp(risk, 0, 100)
}
