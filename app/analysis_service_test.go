package app_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerscope/app"
	"ledgerscope/domain/core"
	"ledgerscope/internal/config"
	"ledgerscope/internal/testkit"
	"ledgerscope/internal/xlsx"
)

func testConfig(file string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			File:      file,
			SheetPath: xlsx.DefaultSheetPath,
			MinCount:  10,
		},
		Output: config.OutputConfig{Dir: "outputs"},
	}
}

func writeSampleWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "je.xlsx")

	rows := make([][]string, 0, 12)
	amounts := []string{"120", "230", "310", "470", "520", "610", "710", "820", "910", "150", "260", "370"}
	for i, amount := range amounts {
		date := ""
		if i < len(amounts)-1 {
			date = "2021-01-0" + string(rune('1'+i%9))
		}
		rows = append(rows, []string{date, "desc", amount})
	}
	require.NoError(t, testkit.WriteWorkbook(path,
		[]string{"posting_date", "description", "amount"}, rows))
	return path
}

func TestProfilePipeline(t *testing.T) {
	path := writeSampleWorkbook(t)
	service := app.NewAnalysisService(testConfig(path), zerolog.Nop())

	profile, err := service.Profile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, profile.File)
	assert.Equal(t, 12, profile.RowCount)
	assert.Equal(t, 3, profile.ColumnCount)
	assert.Equal(t, []string{"posting_date", "description", "amount"}, profile.Columns)

	// One blank date cell out of twelve rows.
	assert.Equal(t, 1, profile.MissingValues["posting_date"])
	assert.Equal(t, 0, profile.MissingValues["amount"])

	dc, ok := profile.DateColumns["posting_date"]
	require.True(t, ok, "11 of 11 non-empty values parse as dates")
	assert.Equal(t, 1.0, dc.NonNullRatio)
	assert.Equal(t, "2021-01-01T00:00:00", dc.Min)

	amount, ok := profile.NumericSummary["amount"]
	require.True(t, ok)
	assert.Equal(t, 12, amount.Count)
	assert.Equal(t, 120.0, amount.Min)
	assert.Equal(t, 910.0, amount.Max)

	_, ok = profile.NumericSummary["description"]
	assert.False(t, ok, "non-numeric columns carry no summary")
}

func TestBenfordPipelineAutoSelection(t *testing.T) {
	path := writeSampleWorkbook(t)
	service := app.NewAnalysisService(testConfig(path), zerolog.Nop())

	result, err := service.Benford(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Summary)
	assert.Equal(t, "amount", result.Summary.Column, "first column meeting the minimum count")
	assert.Equal(t, 12, result.Summary.Total)
	assert.NotEmpty(t, result.RunID.String())
	assert.Contains(t, result.SVG, "<svg")

	total := 0
	for d := 1; d <= 9; d++ {
		total += result.Summary.ObservedCounts[d]
	}
	assert.Equal(t, 12, total)
}

func TestBenfordExplicitColumn(t *testing.T) {
	path := writeSampleWorkbook(t)
	cfg := testConfig(path)
	cfg.Data.Column = "amount"
	service := app.NewAnalysisService(cfg, zerolog.Nop())

	result, err := service.Benford(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "amount", result.Summary.Column)
}

func TestBenfordUnknownColumn(t *testing.T) {
	path := writeSampleWorkbook(t)
	cfg := testConfig(path)
	cfg.Data.Column = "nonexistent"
	service := app.NewAnalysisService(cfg, zerolog.Nop())

	_, err := service.Benford(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))
}

func TestBenfordNoEligibleColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.xlsx")
	require.NoError(t, testkit.WriteWorkbook(path,
		[]string{"amount"},
		[][]string{{"10"}, {"20"}},
	))
	service := app.NewAnalysisService(testConfig(path), zerolog.Nop())

	_, err := service.Benford(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoEligibleColumn))
}

func TestNonFiniteCellsAreSkippedNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.xlsx")
	rows := [][]string{
		{"inf"}, {"nan"}, {"Infinity"},
		{"11"}, {"22"}, {"33"}, {"44"}, {"55"},
		{"66"}, {"77"}, {"88"}, {"99"}, {"12"},
	}
	require.NoError(t, testkit.WriteWorkbook(path, []string{"amount"}, rows))
	service := app.NewAnalysisService(testConfig(path), zerolog.Nop())

	profile, result, err := service.Analyze(context.Background())
	require.NoError(t, err)

	amount, ok := profile.NumericSummary["amount"]
	require.True(t, ok)
	assert.Equal(t, 10, amount.Count, "only finite values feed the summary")
	assert.False(t, math.IsNaN(amount.Mean))
	assert.Equal(t, 10, result.Summary.Total)
}

func TestEmptyWorksheetIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, testkit.WriteRawContainer(path, map[string]string{
		xlsx.DefaultSheetPath: testkit.SheetXML(),
	}))
	service := app.NewAnalysisService(testConfig(path), zerolog.Nop())

	_, err := service.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmptyGrid))
}

func TestAnalyzeSharesOneExtraction(t *testing.T) {
	path := writeSampleWorkbook(t)
	service := app.NewAnalysisService(testConfig(path), zerolog.Nop())

	profile, result, err := service.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profile.RowCount, 12)
	assert.Equal(t, result.Summary.Total, 12)
}
