// Package testkit builds workbook containers for tests. The excelize builder
// produces realistic workbooks; the raw builder assembles arbitrary streams
// so tests can exercise sparse cells, shared-string indirection and malformed
// references that no spreadsheet library would emit.
package testkit

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes an xlsx file with the given header and rows on Sheet1.
// Empty cells are left unset rather than written as empty strings.
func WriteWorkbook(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	sheet := "Sheet1"

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// WriteRawContainer zips the given name->content streams into a container.
// Contents are written verbatim, so tests control the exact XML bytes.
func WriteRawContainer(path string, streams map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range streams {
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := w.Write([]byte(content)); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

// SharedStringsXML renders a shared-string stream from the given entries.
func SharedStringsXML(entries ...string) string {
	var b strings.Builder
	b.WriteString(`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, e := range entries {
		fmt.Fprintf(&b, "<si><t>%s</t></si>", e)
	}
	b.WriteString("</sst>")
	return b.String()
}

// Cell is one <c> element for SheetXML. Leave Ref or Value empty to emit a
// cell the decoder must skip; set Shared to reference the string table.
type Cell struct {
	Ref    string
	Value  string
	Shared bool
	NoV    bool // emit the cell without a value node
}

// SheetXML renders a worksheet stream from rows of cells.
func SheetXML(rows ...[]Cell) string {
	var b strings.Builder
	b.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
	for _, row := range rows {
		b.WriteString("<row>")
		for _, c := range row {
			b.WriteString("<c")
			if c.Ref != "" {
				fmt.Fprintf(&b, ` r="%s"`, c.Ref)
			}
			if c.Shared {
				b.WriteString(` t="s"`)
			}
			b.WriteString(">")
			if !c.NoV {
				fmt.Fprintf(&b, "<v>%s</v>", c.Value)
			}
			b.WriteString("</c>")
		}
		b.WriteString("</row>")
	}
	b.WriteString("</sheetData></worksheet>")
	return b.String()
}
