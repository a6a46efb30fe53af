// Package profiling computes descriptive summary statistics over numeric
// column samples.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics for one numeric sample. A nil
// *Summary means the sample was empty; callers must keep "no data" distinct
// from a single data point with zero variance.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summarize computes count, mean, sample standard deviation, min and max.
// Count 0 reports absent (nil). Count 1 defines the variance as 0 rather
// than dividing by zero. Count >= 2 uses Bessel-corrected sample variance.
func Summarize(values []float64) *Summary {
	if len(values) == 0 {
		return nil
	}

	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	std := 0.0
	if len(values) > 1 {
		variance, _ := stats.SampleVariance(values)
		std = math.Sqrt(variance)
	}

	return &Summary{
		Count: len(values),
		Mean:  mean,
		Std:   std,
		Min:   min,
		Max:   max,
	}
}
