// Package ledger holds the canonical view of stored transactions that the
// monitoring and forecasting stages compute over.
package ledger

import (
	"sort"
	"time"
)

// Transaction kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Entry is one stored transaction reduced to the fields analytics need.
type Entry struct {
	Date   time.Time
	Amount float64
	Kind   string
}

// Signed returns the amount with income positive and expense negative.
func (e Entry) Signed() float64 {
	if e.Kind == KindIncome {
		return e.Amount
	}
	return -e.Amount
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyTotal is the aggregate for one calendar date.
type DailyTotal struct {
	Day    time.Time
	Amount float64
}

// DailyNet sums signed amounts per observed date, oldest first.
func DailyNet(entries []Entry) []DailyTotal {
	return aggregate(entries, func(e Entry) (float64, bool) { return e.Signed(), true })
}

// DailyIncome sums income amounts per date that has income, oldest first.
func DailyIncome(entries []Entry) []DailyTotal {
	return aggregate(entries, func(e Entry) (float64, bool) { return e.Amount, e.Kind == KindIncome })
}

func aggregate(entries []Entry, pick func(Entry) (float64, bool)) []DailyTotal {
	byDay := make(map[time.Time]float64)
	for _, e := range entries {
		v, ok := pick(e)
		if !ok {
			continue
		}
		byDay[Day(e.Date)] += v
	}

	series := make([]DailyTotal, 0, len(byDay))
	for day, amount := range byDay {
		series = append(series, DailyTotal{Day: day, Amount: amount})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series
}

// GapFill reindexes a sorted series onto every date between its first and
// last day. Missing dates get zero.
func GapFill(series []DailyTotal) []DailyTotal {
	if len(series) == 0 {
		return nil
	}

	first := series[0].Day
	last := series[len(series)-1].Day
	observed := make(map[time.Time]float64, len(series))
	for _, d := range series {
		observed[d.Day] = d.Amount
	}

	var filled []DailyTotal
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		filled = append(filled, DailyTotal{Day: day, Amount: observed[day]})
	}
	return filled
}

// Values extracts the amounts of a series.
func Values(series []DailyTotal) []float64 {
	out := make([]float64, len(series))
	for i, d := range series {
		out[i] = d.Amount
	}
	return out
}
