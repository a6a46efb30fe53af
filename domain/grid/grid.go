package grid

import (
	"fmt"

	"ledgerscope/domain/core"
)

// Grid is a decoded worksheet: rows in document order, each row exactly as
// wide as its highest populated column. A nil cell was absent in the source,
// which downstream stages must keep distinct from an empty string.
type Grid [][]*string

// Projection pairs the header row with the densified data columns.
type Projection struct {
	Headers []string
	Columns map[string][]*string
	RowRaws [][]*string // data rows densified to header width
}

// RowCount reports the number of data rows (header excluded).
func (p *Projection) RowCount() int {
	return len(p.RowRaws)
}

// ColumnCount reports the fixed column count taken from the header row.
func (p *Projection) ColumnCount() int {
	return len(p.Headers)
}

// MissingCounts returns, per column, how many values are absent or empty.
func (p *Projection) MissingCounts() map[string]int {
	missing := make(map[string]int, len(p.Headers))
	for name, values := range p.Columns {
		count := 0
		for _, v := range values {
			if v == nil || *v == "" {
				count++
			}
		}
		missing[name] = count
	}
	return missing
}

// Project reshapes a grid into named columns. Row 0 is the header row; blank
// header cells are given a positional placeholder name. Every data row is
// densified to the header width: short rows are padded with nil, long rows
// are truncated. Duplicate headers collapse into one key, matching the source
// format's own behavior.
func Project(g Grid) (*Projection, error) {
	if len(g) == 0 {
		return nil, core.ErrEmptyGrid
	}

	headerRow := g[0]
	headers := make([]string, len(headerRow))
	for i, cell := range headerRow {
		if cell == nil || *cell == "" {
			headers[i] = fmt.Sprintf("Column%d", i+1)
		} else {
			headers[i] = *cell
		}
	}

	width := len(headers)
	dataRows := make([][]*string, 0, len(g)-1)
	for _, row := range g[1:] {
		dense := make([]*string, width)
		for i := 0; i < width && i < len(row); i++ {
			dense[i] = row[i]
		}
		dataRows = append(dataRows, dense)
	}

	columns := make(map[string][]*string, width)
	for idx, name := range headers {
		values := make([]*string, len(dataRows))
		for r, row := range dataRows {
			values[r] = row[idx]
		}
		columns[name] = values
	}

	return &Projection{
		Headers: headers,
		Columns: columns,
		RowRaws: dataRows,
	}, nil
}
