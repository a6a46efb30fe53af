// Package report serializes the analysis records into the output artifacts:
// JSON summaries, flat CSV tables, Markdown reports with HTML renderings, and
// the Benford chart SVG. Formatting lives here so the engines stay free of
// I/O concerns.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ledgerscope/internal/benford"
	"ledgerscope/internal/profiling"
)

// DateColumn reports a detected date column's range.
type DateColumn struct {
	Min          string  `json:"min"`
	Max          string  `json:"max"`
	NonNullRatio float64 `json:"non_null_ratio"`
}

// Profile is the structured summary of one extracted workbook.
type Profile struct {
	File           string                        `json:"file"`
	RowCount       int                           `json:"row_count"`
	ColumnCount    int                           `json:"column_count"`
	Columns        []string                      `json:"columns"`
	MissingValues  map[string]int                `json:"missing_values"`
	DateColumns    map[string]DateColumn         `json:"date_columns"`
	NumericSummary map[string]*profiling.Summary `json:"numeric_summary"`
}

// BenfordSummary pairs a Benford record with the file it came from.
type BenfordSummary struct {
	File string `json:"file"`
	*benford.Record
}

// Writer emits artifacts into a single output directory, created on demand.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteProfile writes summary.json, numeric_summary.csv, summary.md and
// summary.html. It returns the written paths.
func (w *Writer) WriteProfile(p *Profile) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string

	jsonPath := filepath.Join(w.dir, "summary.json")
	if err := writeJSON(jsonPath, p); err != nil {
		return nil, err
	}
	written = append(written, jsonPath)

	csvPath := filepath.Join(w.dir, "numeric_summary.csv")
	if err := w.writeNumericCSV(csvPath, p); err != nil {
		return nil, err
	}
	written = append(written, csvPath)

	md := w.profileMarkdown(p)
	mdPath := filepath.Join(w.dir, "summary.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", mdPath, err)
	}
	written = append(written, mdPath)

	htmlPath := filepath.Join(w.dir, "summary.html")
	if err := os.WriteFile(htmlPath, renderHTML(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", htmlPath, err)
	}
	written = append(written, htmlPath)

	return written, nil
}

// WriteBenford writes benford_summary.json, benford_summary.csv,
// benford_summary.md, benford_summary.html and benford_chart.svg.
func (w *Writer) WriteBenford(s *BenfordSummary, svg string) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string

	jsonPath := filepath.Join(w.dir, "benford_summary.json")
	if err := writeJSON(jsonPath, s); err != nil {
		return nil, err
	}
	written = append(written, jsonPath)

	csvPath := filepath.Join(w.dir, "benford_summary.csv")
	if err := writeBenfordCSV(csvPath, s.Record); err != nil {
		return nil, err
	}
	written = append(written, csvPath)

	svgPath := filepath.Join(w.dir, "benford_chart.svg")
	if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", svgPath, err)
	}
	written = append(written, svgPath)

	md := w.benfordMarkdown(s)
	mdPath := filepath.Join(w.dir, "benford_summary.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", mdPath, err)
	}
	written = append(written, mdPath)

	htmlPath := filepath.Join(w.dir, "benford_summary.html")
	if err := os.WriteFile(htmlPath, renderHTML(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", htmlPath, err)
	}
	written = append(written, htmlPath)

	return written, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeNumericCSV flattens the numeric summaries in header order.
func (w *Writer) writeNumericCSV(path string, p *Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"column", "count", "mean", "std", "min", "max"}); err != nil {
		return err
	}
	for _, name := range p.Columns {
		s, ok := p.NumericSummary[name]
		if !ok || s == nil {
			continue
		}
		record := []string{
			name,
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Std),
			formatFloat(s.Min),
			formatFloat(s.Max),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeBenfordCSV(path string, rec *benford.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"digit", "observed_count", "expected_count", "observed_percent", "expected_percent"}); err != nil {
		return err
	}
	for d := 1; d <= 9; d++ {
		record := []string{
			strconv.Itoa(d),
			strconv.Itoa(rec.ObservedCounts[d]),
			formatFloat(rec.ExpectedCounts[d]),
			formatFloat(rec.ObservedPercent[d]),
			formatFloat(rec.ExpectedPercent[d]),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) profileMarkdown(p *Profile) string {
	lines := []string{
		"# Journal Entry Sample Summary",
		"",
		fmt.Sprintf("**File:** `%s`", p.File),
		fmt.Sprintf("**Row count:** %d", p.RowCount),
		fmt.Sprintf("**Column count:** %d", p.ColumnCount),
		"",
		"## Columns",
	}
	for _, column := range p.Columns {
		lines = append(lines, fmt.Sprintf("- %s", column))
	}

	lines = append(lines, "", "## Missing Values (Top 10)")
	byMissing := append([]string(nil), p.Columns...)
	sort.SliceStable(byMissing, func(i, j int) bool {
		return p.MissingValues[byMissing[i]] > p.MissingValues[byMissing[j]]
	})
	if len(byMissing) > 10 {
		byMissing = byMissing[:10]
	}
	for _, column := range byMissing {
		lines = append(lines, fmt.Sprintf("- %s: %d", column, p.MissingValues[column]))
	}

	lines = append(lines, "", "## Date Ranges")
	if len(p.DateColumns) > 0 {
		for _, column := range p.Columns {
			dc, ok := p.DateColumns[column]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s to %s (non-null ratio %g)", column, dc.Min, dc.Max, dc.NonNullRatio))
		}
	} else {
		lines = append(lines, "- No date columns detected with >= 80% non-null values.")
	}

	lines = append(lines, "", "## Numeric Summary")
	lines = append(lines, fmt.Sprintf("See `%s` for full descriptive statistics.", filepath.Join(w.dir, "numeric_summary.csv")))

	return strings.Join(lines, "\n")
}

func (w *Writer) benfordMarkdown(s *BenfordSummary) string {
	lines := []string{
		"# Benford's Law Analysis",
		"",
		fmt.Sprintf("**File:** `%s`", s.File),
		fmt.Sprintf("**Column:** `%s`", s.Column),
		fmt.Sprintf("**Total values analyzed:** %d", s.Total),
		fmt.Sprintf("**Chi-square:** %.4f (p = %.4f, df = 8)", s.ChiSquare, s.PValue),
		"",
		"Outputs:",
		fmt.Sprintf("- `%s`", filepath.Join(w.dir, "benford_summary.json")),
		fmt.Sprintf("- `%s`", filepath.Join(w.dir, "benford_summary.csv")),
		fmt.Sprintf("- `%s`", filepath.Join(w.dir, "benford_chart.svg")),
	}
	return strings.Join(lines, "\n")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderHTML converts a Markdown report into a standalone HTML fragment.
func renderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
