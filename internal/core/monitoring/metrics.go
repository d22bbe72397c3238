// Package monitoring computes financial health metrics, the Financial Health
// Index and risk flags from canonical transactions. It performs no I/O and is
// fully deterministic.
package monitoring

import (
	"github.com/shopspring/decimal"

	"github.com/example/finsight/internal/core/ledger"
	"github.com/example/finsight/internal/core/stats"
)

// Metrics are the named indicators derived from a transaction window.
type Metrics struct {
	TotalIncome            float64
	TotalExpenses          float64
	NetCashflow            float64
	CashflowVolatility     float64
	CoefficientOfVariation float64
	RevenueConsistency     float64
	ExpenseRatio           float64
	NumTransactions        int
	NumIncome              int
	NumExpense             int
	AverageDailyCashflow   float64
	PeriodDays             int
}

// Map returns the metrics keyed by their reporting names.
func (m Metrics) Map() map[string]any {
	return map[string]any{
		"total_income":                      m.TotalIncome,
		"total_expenses":                    m.TotalExpenses,
		"net_cashflow":                      m.NetCashflow,
		"cashflow_volatility":               m.CashflowVolatility,
		"cashflow_coefficient_of_variation": m.CoefficientOfVariation,
		"revenue_consistency":               m.RevenueConsistency,
		"expense_ratio":                     m.ExpenseRatio,
		"num_transactions":                  m.NumTransactions,
		"num_income_transactions":           m.NumIncome,
		"num_expense_transactions":          m.NumExpense,
		"average_daily_cashflow":            m.AverageDailyCashflow,
		"period_days":                       m.PeriodDays,
	}
}

// ComputeMetrics derives Metrics from entries. Totals are summed exactly in
// decimal before conversion.
func ComputeMetrics(entries []ledger.Entry) Metrics {
	var m Metrics
	income, expenses := decimal.Zero, decimal.Zero
	for _, e := range entries {
		amount := decimal.NewFromFloat(e.Amount)
		if e.Kind == ledger.KindIncome {
			income = income.Add(amount)
			m.NumIncome++
		} else {
			expenses = expenses.Add(amount)
			m.NumExpense++
		}
	}
	m.NumTransactions = len(entries)
	m.TotalIncome = income.InexactFloat64()
	m.TotalExpenses = expenses.InexactFloat64()
	m.NetCashflow = income.Sub(expenses).InexactFloat64()

	daily := ledger.Values(ledger.DailyNet(entries))
	m.PeriodDays = len(daily)
	m.AverageDailyCashflow = stats.Mean(daily)
	if len(daily) > 1 {
		m.CashflowVolatility = stats.PopulationStdDev(daily)
	}
	if m.AverageDailyCashflow != 0 {
		m.CoefficientOfVariation = m.CashflowVolatility / m.AverageDailyCashflow
	}

	m.RevenueConsistency = revenueConsistency(ledger.Values(ledger.DailyIncome(entries)))

	m.ExpenseRatio = 1
	if !income.IsZero() {
		m.ExpenseRatio = expenses.Div(income).InexactFloat64()
	}

	return m
}

// revenueConsistency is 1 - min(std/mean, 1) over daily income. Without
// income (or with a zero mean) the ratio is taken as 1.
func revenueConsistency(dailyIncome []float64) float64 {
	ratio := 1.0
	if mean := stats.Mean(dailyIncome); mean != 0 {
		ratio = stats.PopulationStdDev(dailyIncome) / mean
	}
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio
}
