// Package samplegen produces deterministic synthetic journal-entry workbooks
// for demos and tests. Amounts are drawn log-uniformly so a healthy sample
// tracks Benford's Law closely; the generator is the only place in the
// codebase that writes workbooks, and it goes through excelize rather than
// the analysis decoder.
package samplegen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Dataset is the in-memory synthetic truth set.
type Dataset struct {
	Headers []string
	Rows    [][]string // already formatted strings

	// Numeric series for validation/tests
	Dates   []time.Time
	Amounts []float64
}

type Config struct {
	Rows      int
	Seed      int64
	StartDate time.Time

	// MissingDescriptionRate controls how many description cells are blank.
	MissingDescriptionRate float64
}

func DefaultConfig() Config {
	return Config{
		Rows:                   500,
		Seed:                   42,
		StartDate:              time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		MissingDescriptionRate: 0.1,
	}
}

var accounts = []string{
	"1000 Cash",
	"1200 Accounts Receivable",
	"2000 Accounts Payable",
	"4000 Revenue",
	"5000 Cost of Goods Sold",
	"6100 Travel Expense",
	"6200 Office Supplies",
}

var approvers = []string{"amari", "chen", "dubois", "okafor", "silva"}

// Generate builds a deterministic journal-entry dataset.
func Generate(cfg Config) (*Dataset, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if cfg.MissingDescriptionRate < 0 || cfg.MissingDescriptionRate > 1 {
		return nil, fmt.Errorf("missing description rate must be in [0,1]")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	dates := make([]time.Time, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		dates[i] = cfg.StartDate.AddDate(0, 0, rng.Intn(365))
	}

	// Log-uniform over roughly $1 to $100k; the hallmark Benford regime.
	amounts := make([]float64, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		amounts[i] = math.Pow(10, rng.Float64()*5)
	}

	headers := []string{"entry_id", "posting_date", "account", "description", "amount_usd", "approver"}

	rows := make([][]string, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		account := accounts[rng.Intn(len(accounts))]
		description := fmt.Sprintf("JE posting %d - %s", i+1, account)
		if rng.Float64() < cfg.MissingDescriptionRate {
			description = ""
		}
		rows[i] = []string{
			fmt.Sprintf("JE-%06d", i+1),
			dates[i].Format("2006-01-02"),
			account,
			description,
			fToStr(amounts[i], 2),
			approvers[rng.Intn(len(approvers))],
		}
	}

	return &Dataset{
		Headers: headers,
		Rows:    rows,
		Dates:   dates,
		Amounts: amounts,
	}, nil
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()

	// Ensure Sheet1 exists and is active.
	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	// Header row
	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	// Data rows
	for r := 0; r < len(ds.Rows); r++ {
		rowIdx := r + 2
		for c, v := range ds.Rows[r] {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
