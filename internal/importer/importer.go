// Package importer parses uploaded tabular files into raw frames for the
// normalizer. Parse failures degrade to an empty frame with a status message;
// no error crosses the boundary into the core.
package importer

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/locus-group/facility-cli/internal/table"
)

// Options configures the import adapter.
type Options struct {
	Delimiter  rune   // CSV delimiter, default ','
	Encoding   string // "utf-8" (default), "cp1250", "iso-8859-2"
	SheetName  string // XLSX sheet by name; overrides SheetIndex
	SheetIndex int    // XLSX sheet by index, default 0
}

// ReadPoints reads a tabular file and returns the raw frame plus a status
// message. The frame is empty when the file cannot be parsed; the status then
// explains why. Format is chosen by extension, defaulting to delimited text.
func ReadPoints(path string, opts Options) (table.Frame, string) {
	var (
		f   table.Frame
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		f, err = ReadXLSX(path, opts)
	case ".shp":
		f, err = ReadShapefile(path)
	default:
		f, err = readCSVFile(path, opts)
	}

	if err != nil {
		zap.L().Warn("import: unparseable file, returning empty table",
			zap.String("path", path),
			zap.Error(err),
		)
		return table.Frame{}, "could not parse file: " + filepath.Base(path)
	}
	return f, importStatus(f)
}

func importStatus(f table.Frame) string {
	if f.Empty() {
		return "no data rows found"
	}
	return ""
}

func readCSVFile(path string, opts Options) (table.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return table.Frame{}, err
	}
	defer file.Close()
	return ReadCSV(file, opts)
}
