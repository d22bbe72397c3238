// Package stats provides the small set of descriptive statistics the
// analytic stages share. All functions are pure and treat an empty input as
// zero rather than NaN so results stay JSON-serializable.
package stats

import (
	"math"
	"sort"
)

// Sum returns the sum of values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// PopulationStdDev returns the population standard deviation, or 0 when
// fewer than two values are present.
func PopulationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	sq := 0.0
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between closest ranks. The input is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TukeyFence holds the interquartile outlier bounds.
type TukeyFence struct {
	Q1    float64
	Q3    float64
	Lower float64
	Upper float64
}

// NewTukeyFence computes [Q1 - 1.5*IQR, Q3 + 1.5*IQR] over values.
func NewTukeyFence(values []float64) TukeyFence {
	q1 := Percentile(values, 25)
	q3 := Percentile(values, 75)
	iqr := q3 - q1
	return TukeyFence{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - 1.5*iqr,
		Upper: q3 + 1.5*iqr,
	}
}

// Outside reports whether v falls outside the fence.
func (f TukeyFence) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
