// Package stats provides the size and latency statistics reported by the binser
// benchmarks and file inspection commands.
//
// Key features include:
//   - A bucketed size histogram covering bytes to gigabytes with constant memory
//   - Thread-safe sample addition and querying
//   - Summary statistics (min, max, mean, standard deviation) of a sample set
package stats

import (
	"math"
)

// ----------------------------------------------------------------------------
// Summary
// ----------------------------------------------------------------------------

// Summary describes a set of values
type Summary struct {
	Count        int     `json:"count"`
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewSummary computes the summary of values. An empty input yields the zero Summary.
func NewSummary(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(len(values))

	// population standard deviation
	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	ratio := 1.0
	if hi > 0 {
		ratio = lo / hi
	}

	return Summary{
		Count:        len(values),
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          lo,
		Max:          hi,
		Mean:         mean,
		MinMaxRatio:  ratio,
	}
}

// SummarizeSizes is NewSummary for integer sizes, e.g. encoded payload lengths
func SummarizeSizes(sizes []int) Summary {
	values := make([]float64, len(sizes))
	for i, s := range sizes {
		values[i] = float64(s)
	}
	return NewSummary(values)
}
