package importer

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/locus-group/facility-cli/internal/table"
)

// ReadXLSX parses an XLSX workbook into a frame. The first row of the
// selected sheet is the header.
func ReadXLSX(path string, opts Options) (table.Frame, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return table.Frame{}, eris.Wrap(err, "import: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return table.Frame{}, err
	}

	var frame table.Frame
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			frame.Columns = cells
			continue
		}
		frame.Rows = append(frame.Rows, cells)
	}
	return frame, nil
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("import: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("import: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
