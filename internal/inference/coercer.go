// Package inference classifies raw column values by attempting numeric
// coercion and multi-format date parsing. Classification is per-value and
// permissive: values that fail to parse are excluded from the derived
// sequence, never escalated to column-level failures.
package inference

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Config defines coercion thresholds and the recognized date layouts.
type Config struct {
	DateRatioThreshold float64  // share of non-empty values that must parse as dates
	DateFormats        []string // ordered; first match wins per value
}

// DefaultConfig returns the fixed format list and the 0.80 date threshold.
func DefaultConfig() Config {
	return Config{
		DateRatioThreshold: 0.8,
		DateFormats: []string{
			"2006-01-02",
			"2006-01",
			"01/02/2006",
			"01/02/06",
			"2006/01/02",
			"2006-01-02 15:04:05",
		},
	}
}

// DateRange describes a column classified as holding dates.
type DateRange struct {
	Min   time.Time
	Max   time.Time
	Ratio float64 // parsed / non-empty, rounded to 4 decimal places
}

// ColumnProfile is the per-column inference result. Numbers holds every
// coercible value in row order; Dates is nil unless the column met the
// date-ratio threshold.
type ColumnProfile struct {
	Name         string
	NonEmpty     int
	Numbers      []float64
	NumericRatio float64
	Dates        *DateRange
}

// Coercer applies the configured rules to one column at a time.
type Coercer struct {
	config Config
}

// NewCoercer creates a coercer with the given config.
func NewCoercer(config Config) *Coercer {
	return &Coercer{config: config}
}

// CoerceNumeric parses a raw value as a base-10 float after trimming
// surrounding whitespace. Absent and empty values do not coerce. ParseFloat
// accepts "inf" and "nan" spellings; those are not finite measurements and
// do not coerce either.
func (c *Coercer) CoerceNumeric(raw *string) (float64, bool) {
	if raw == nil || *raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseDate tries each configured layout in order and returns the first
// match. No cross-row consistency is required; every value may match a
// different layout.
func (c *Coercer) ParseDate(raw string) (time.Time, bool) {
	for _, layout := range c.config.DateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProfileColumn runs numeric coercion and date detection independently over
// one column's raw values.
func (c *Coercer) ProfileColumn(name string, values []*string) ColumnProfile {
	profile := ColumnProfile{Name: name}

	var dates []time.Time
	for _, raw := range values {
		if raw == nil || *raw == "" {
			continue
		}
		profile.NonEmpty++

		if v, ok := c.CoerceNumeric(raw); ok {
			profile.Numbers = append(profile.Numbers, v)
		}
		if t, ok := c.ParseDate(*raw); ok {
			dates = append(dates, t)
		}
	}

	if profile.NonEmpty > 0 {
		profile.NumericRatio = float64(len(profile.Numbers)) / float64(profile.NonEmpty)
	}

	if len(dates) > 0 {
		ratio := float64(len(dates)) / float64(profile.NonEmpty)
		if ratio >= c.config.DateRatioThreshold {
			min, max := dates[0], dates[0]
			for _, t := range dates[1:] {
				if t.Before(min) {
					min = t
				}
				if t.After(max) {
					max = t
				}
			}
			profile.Dates = &DateRange{Min: min, Max: max, Ratio: round4(ratio)}
		}
	}

	return profile
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
