// Package app orchestrates the analysis pipeline: decode the container,
// project columns, infer types, then feed the statistics and Benford engines.
// Data flows strictly forward; every run opens and fully consumes its own
// container.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"ledgerscope/domain/core"
	"ledgerscope/domain/grid"
	"ledgerscope/internal/benford"
	"ledgerscope/internal/chart"
	"ledgerscope/internal/config"
	"ledgerscope/internal/inference"
	"ledgerscope/internal/profiling"
	"ledgerscope/internal/report"
	"ledgerscope/internal/xlsx"
)

// AnalysisService runs the extraction and statistics pipeline for one
// configured container.
type AnalysisService struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewAnalysisService(cfg *config.Config, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{cfg: cfg, log: log}
}

// Extraction bundles everything the downstream engines consume: the
// projected columns, the per-column inference profiles in header order, and
// the numeric samples keyed by every header.
type Extraction struct {
	Projection *grid.Projection
	Profiles   []inference.ColumnProfile
	Numeric    map[string][]float64
}

// Extract decodes and projects the configured worksheet and runs type
// inference over every column.
func (s *AnalysisService) Extract(ctx context.Context) (*Extraction, error) {
	data := s.cfg.Data

	decoder := xlsx.NewDecoder(data.File, data.SheetPath)
	g, err := decoder.Decode()
	if err != nil {
		return nil, err
	}
	if len(g) == 0 {
		return nil, core.NewEmptyGridError(data.SheetPath)
	}

	proj, err := grid.Project(g)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("file", data.File).
		Int("rows", proj.RowCount()).
		Int("columns", proj.ColumnCount()).
		Msg("worksheet decoded")

	profiles, err := inference.ProfileColumns(ctx, proj, inference.DefaultConfig())
	if err != nil {
		return nil, err
	}

	numeric := make(map[string][]float64, len(profiles))
	for _, p := range profiles {
		numeric[p.Name] = p.Numbers
	}

	return &Extraction{Projection: proj, Profiles: profiles, Numeric: numeric}, nil
}

// Profile produces the structured workbook summary: counts, missingness,
// date ranges and numeric descriptive statistics.
func (s *AnalysisService) Profile(ctx context.Context) (*report.Profile, error) {
	ext, err := s.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ext), nil
}

func (s *AnalysisService) buildProfile(ext *Extraction) *report.Profile {
	proj := ext.Projection

	dateColumns := make(map[string]report.DateColumn)
	numericSummary := make(map[string]*profiling.Summary)
	for _, p := range ext.Profiles {
		if p.Dates != nil {
			dateColumns[p.Name] = report.DateColumn{
				Min:          p.Dates.Min.Format("2006-01-02T15:04:05"),
				Max:          p.Dates.Max.Format("2006-01-02T15:04:05"),
				NonNullRatio: p.Dates.Ratio,
			}
		}
		if summary := profiling.Summarize(p.Numbers); summary != nil {
			numericSummary[p.Name] = summary
		}
	}

	return &report.Profile{
		File:           s.cfg.Data.File,
		RowCount:       proj.RowCount(),
		ColumnCount:    proj.ColumnCount(),
		Columns:        proj.Headers,
		MissingValues:  proj.MissingCounts(),
		DateColumns:    dateColumns,
		NumericSummary: numericSummary,
	}
}

// BenfordResult pairs the Benford summary record with its rendered chart.
type BenfordResult struct {
	RunID   core.RunID
	Summary *report.BenfordSummary
	SVG     string
}

// Benford selects the target column, runs the leading-digit comparison and
// renders the chart from the unrounded proportions.
func (s *AnalysisService) Benford(ctx context.Context) (*BenfordResult, error) {
	ext, err := s.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return s.runBenford(ext)
}

func (s *AnalysisService) runBenford(ext *Extraction) (*BenfordResult, error) {
	data := s.cfg.Data

	column, err := benford.SelectColumn(ext.Projection.Headers, ext.Numeric, data.Column, data.MinCount)
	if err != nil {
		return nil, err
	}

	rec, err := benford.Analyze(column, ext.Numeric[column])
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("column", column).
		Int("total_values", rec.Total).
		Float64("chi_square", rec.ChiSquare).
		Msg("benford comparison complete")

	digits := make([]int, 9)
	for d := 1; d <= 9; d++ {
		digits[d-1] = d
	}
	svg := chart.RenderSVG(digits, rec.ObservedRaw, rec.ExpectedRaw)

	return &BenfordResult{
		RunID:   core.NewRunID(),
		Summary: &report.BenfordSummary{File: data.File, Record: rec},
		SVG:     svg,
	}, nil
}

// Analyze runs both operations over a single extraction, so the container is
// opened and parsed once.
func (s *AnalysisService) Analyze(ctx context.Context) (*report.Profile, *BenfordResult, error) {
	ext, err := s.Extract(ctx)
	if err != nil {
		return nil, nil, err
	}

	profile := s.buildProfile(ext)
	result, err := s.runBenford(ext)
	if err != nil {
		return nil, nil, err
	}
	return profile, result, nil
}
