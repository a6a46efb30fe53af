// Package xlsx decodes a zip-packaged XML workbook into a dense cell grid
// without going through a spreadsheet library. It understands exactly the
// pieces the analysis pipeline needs: the shared-string table and one
// addressed worksheet stream.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ledgerscope/domain/core"
	"ledgerscope/domain/grid"
)

const (
	// SharedStringsPath is the conventional shared-string stream location.
	SharedStringsPath = "xl/sharedStrings.xml"

	// DefaultSheetPath addresses the first worksheet stream.
	DefaultSheetPath = "xl/worksheets/sheet1.xml"
)

// Decoder extracts a grid from one workbook container.
type Decoder struct {
	containerPath string
	sheetPath     string
}

// NewDecoder creates a decoder for the given container. An empty sheetPath
// selects the first worksheet.
func NewDecoder(containerPath, sheetPath string) *Decoder {
	if sheetPath == "" {
		sheetPath = DefaultSheetPath
	}
	return &Decoder{containerPath: containerPath, sheetPath: sheetPath}
}

// Decode opens the container, resolves the shared-string table and parses the
// addressed worksheet into a grid. The container is held read-only and closed
// on every exit path.
func (d *Decoder) Decode() (grid.Grid, error) {
	archive, err := zip.OpenReader(d.containerPath)
	if err != nil {
		return nil, core.NewContainerOpenError(d.containerPath, err)
	}
	defer archive.Close()

	shared, err := d.readSharedStrings(&archive.Reader)
	if err != nil {
		return nil, err
	}

	sheetFile := findStream(&archive.Reader, d.sheetPath)
	if sheetFile == nil {
		return nil, core.NewMissingSheetError(d.sheetPath)
	}

	rc, err := sheetFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open worksheet stream %s: %w", d.sheetPath, err)
	}
	defer rc.Close()

	return parseSheet(rc, shared)
}

// readSharedStrings builds the shared-string table. An absent stream is not
// an error; it yields an empty table.
func (d *Decoder) readSharedStrings(archive *zip.Reader) ([]string, error) {
	f := findStream(archive, SharedStringsPath)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open shared strings: %w", err)
	}
	defer rc.Close()

	return parseSharedStrings(rc)
}

func findStream(archive *zip.Reader, name string) *zip.File {
	for _, f := range archive.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// parseSharedStrings reads <si> entries in declaration order, taking the
// first nested <t> text node of each. An entry with no text node contributes
// an empty string so the table indexes stay aligned.
func parseSharedStrings(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var table []string
	var inEntry, captured bool
	var current string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse shared strings: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				inEntry = true
				captured = false
				current = ""
			case "t":
				if inEntry && !captured {
					var text string
					if err := dec.DecodeElement(&text, &el); err != nil {
						return nil, fmt.Errorf("parse shared strings: %w", err)
					}
					current = text
					captured = true
				}
			}
		case xml.EndElement:
			if el.Name.Local == "si" && inEntry {
				table = append(table, current)
				inEntry = false
			}
		}
	}
	return table, nil
}

// sheetCell mirrors one <c> element. V is a pointer so a missing value node
// is distinguishable from an empty one.
type sheetCell struct {
	Ref  string  `xml:"r,attr"`
	Type string  `xml:"t,attr"`
	V    *string `xml:"v"`
}

// sheetRow mirrors one <row> element.
type sheetRow struct {
	Cells []sheetCell `xml:"c"`
}

// parseSheet walks the worksheet stream row by row in document order. A cell
// missing either its position reference or its value node is treated as
// absent. Shared-string typed cells are dereferenced; an index outside the
// table excludes the cell rather than aborting.
func parseSheet(r io.Reader, shared []string) (grid.Grid, error) {
	dec := xml.NewDecoder(r)

	var rows grid.Grid
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse worksheet: %w", err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "row" {
			continue
		}

		var row sheetRow
		if err := dec.DecodeElement(&row, &el); err != nil {
			return nil, fmt.Errorf("parse worksheet row: %w", err)
		}
		rows = append(rows, densifyRow(row, shared))
	}
	return rows, nil
}

// densifyRow collects a row's declared cells by decoded column index, then
// expands them into a slice sized to the highest populated index.
func densifyRow(row sheetRow, shared []string) []*string {
	cells := make(map[int]*string, len(row.Cells))
	maxIndex := -1
	for _, c := range row.Cells {
		if c.Ref == "" || c.V == nil {
			continue
		}
		idx := ColumnIndex(c.Ref)
		if idx < 0 {
			continue
		}

		value := *c.V
		if c.Type == "s" {
			pos, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || pos < 0 || pos >= len(shared) {
				continue
			}
			value = shared[pos]
		}

		cells[idx] = &value
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	dense := make([]*string, maxIndex+1)
	for idx, v := range cells {
		dense[idx] = v
	}
	return dense
}
