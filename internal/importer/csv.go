package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/locus-group/facility-cli/internal/table"
)

// ReadCSV parses delimited text into a frame. The first record is the header.
// Rows may be ragged; fields are trimmed. Legacy Central European encodings
// are transcoded before parsing.
func ReadCSV(r io.Reader, opts Options) (table.Frame, error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return table.Frame{}, err
	}

	reader := csv.NewReader(decoded)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var f table.Frame
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Frame{}, eris.Wrap(err, "import: read csv row")
		}

		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}

		if first {
			first = false
			f.Columns = record
			continue
		}
		f.Rows = append(f.Rows, record)
	}

	return f, nil
}

// decodeReader wraps r with a charset decoder when the configured encoding is
// not UTF-8. Spreadsheet exports from Polish locales commonly arrive as
// Windows-1250 or ISO 8859-2.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "cp1250", "windows-1250":
		return transform.NewReader(r, charmap.Windows1250.NewDecoder()), nil
	case "iso-8859-2", "latin2":
		return transform.NewReader(r, charmap.ISO8859_2.NewDecoder()), nil
	default:
		return nil, eris.Errorf("import: unsupported encoding %q", encoding)
	}
}
