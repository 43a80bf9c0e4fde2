// Package stats computes descriptive statistics over numeric series produced
// by evaluation runs (scores, latencies, token counts).
package stats

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptySeries is returned when statistics are requested over an empty
// series. Statistics over an empty set are undefined; callers must guard.
var ErrEmptySeries = errors.New("stats: empty series")

// Summary is the descriptive statistics tuple over a value series.
type Summary struct {
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Std     float64 `json:"std"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// Describe computes {average, median, std, max, min} over a non-empty series.
// The input is not mutated; all computation happens on a value-sorted copy.
// Std is the population standard deviation (divisor n, not n-1). NaN and Inf
// inputs propagate through standard IEEE-754 arithmetic.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptySeries
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	avg := sum / float64(n)

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	var sqDev float64
	for _, v := range sorted {
		d := v - avg
		sqDev += d * d
	}

	return Summary{
		Average: avg,
		Median:  median,
		Std:     math.Sqrt(sqDev / float64(n)),
		Max:     sorted[n-1],
		Min:     sorted[0],
	}, nil
}
