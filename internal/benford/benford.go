// Package benford compares the observed leading-digit distribution of a
// numeric sample against Benford's Law, the prediction that digit d leads
// with probability log10(1 + 1/d).
package benford

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"ledgerscope/domain/core"
)

// Record is the immutable result of one Benford comparison. Count maps are
// keyed by digit 1-9; percentage maps hold proportions of the total sample,
// rounded to 4 decimal places for reporting. ObservedRaw and ExpectedRaw
// carry the unrounded proportions for chart rendering.
type Record struct {
	Column          string          `json:"column"`
	Total           int             `json:"total_values"`
	ObservedCounts  map[int]int     `json:"observed_counts"`
	ExpectedCounts  map[int]float64 `json:"expected_counts"`
	ObservedPercent map[int]float64 `json:"observed_percent"`
	ExpectedPercent map[int]float64 `json:"expected_percent"`
	ChiSquare       float64         `json:"chi_square"`
	PValue          float64         `json:"p_value"`

	ObservedRaw []float64 `json:"-"`
	ExpectedRaw []float64 `json:"-"`
}

// LeadingDigit extracts the first nonzero base-10 digit of v's magnitude by
// normalizing into [1, 10). Exact zero has no leading digit, and non-finite
// values never normalize into range, so both are excluded.
func LeadingDigit(v float64) (int, bool) {
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	magnitude := math.Abs(v)
	for magnitude < 1 {
		magnitude *= 10
	}
	for magnitude >= 10 {
		magnitude /= 10
	}
	digit := int(magnitude)
	if digit < 1 || digit > 9 {
		return 0, false
	}
	return digit, true
}

// ExpectedCounts computes the theoretical count per digit for a sample of the
// given total. The law is closed-form and recomputed per total; callers
// compare counts, not just percentages.
func ExpectedCounts(total int) map[int]float64 {
	expected := make(map[int]float64, 9)
	for d := 1; d <= 9; d++ {
		expected[d] = float64(total) * math.Log10(1+1/float64(d))
	}
	return expected
}

// Analyze extracts leading digits from the sample and builds the full
// observed-vs-expected record. It fails with an empty-sample error when no
// value yields a valid digit.
func Analyze(column string, values []float64) (*Record, error) {
	var digits []int
	for _, v := range values {
		if d, ok := LeadingDigit(v); ok {
			digits = append(digits, d)
		}
	}
	if len(digits) == 0 {
		return nil, core.NewEmptySampleError(column)
	}

	total := len(digits)
	observed := make(map[int]int, 9)
	for d := 1; d <= 9; d++ {
		observed[d] = 0
	}
	for _, d := range digits {
		observed[d]++
	}

	expected := ExpectedCounts(total)

	rec := &Record{
		Column:          column,
		Total:           total,
		ObservedCounts:  observed,
		ExpectedCounts:  make(map[int]float64, 9),
		ObservedPercent: make(map[int]float64, 9),
		ExpectedPercent: make(map[int]float64, 9),
		ObservedRaw:     make([]float64, 9),
		ExpectedRaw:     make([]float64, 9),
	}

	chiSquare := 0.0
	for d := 1; d <= 9; d++ {
		obs := float64(observed[d])
		exp := expected[d]

		rec.ExpectedCounts[d] = round4(exp)
		rec.ObservedPercent[d] = round4(obs / float64(total))
		rec.ExpectedPercent[d] = round4(exp / float64(total))
		rec.ObservedRaw[d-1] = obs / float64(total)
		rec.ExpectedRaw[d-1] = exp / float64(total)

		chiSquare += (obs - exp) * (obs - exp) / exp
	}

	rec.ChiSquare = chiSquare
	rec.PValue = chiSquarePValue(chiSquare, 8)
	return rec, nil
}

// chiSquarePValue is the upper-tail probability of the chi-squared
// distribution with the given degrees of freedom.
func chiSquarePValue(statistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	dist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - dist.CDF(statistic)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
