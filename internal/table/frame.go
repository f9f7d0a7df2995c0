// Package table holds the raw tabular frame type and the normalizer that
// coerces arbitrary input tables into the canonical point schema.
package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/locus-group/facility-cli/internal/model"
)

// Frame is a raw tabular input: a header row plus string cell rows. Rows may
// be ragged; missing cells read as empty strings.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the raw cell at (row, col), or "" when the row is short.
func (f Frame) Cell(row, col int) string {
	if row < 0 || row >= len(f.Rows) || col < 0 || col >= len(f.Rows[row]) {
		return ""
	}
	return f.Rows[row][col]
}

// Empty reports whether the frame has no data rows.
func (f Frame) Empty() bool {
	return len(f.Rows) == 0
}

// ColumnIndex returns the index of the first header equal to name after
// lowercasing and trimming, or -1.
func (f Frame) ColumnIndex(name string) int {
	want := model.Key(name)
	for i, col := range f.Columns {
		if model.Key(col) == want {
			return i
		}
	}
	return -1
}

// FromPoints converts a canonical point set back into a frame with the four
// canonical columns. Floats are formatted shortest-round-trip so that
// normalizing the result reproduces the set exactly.
func FromPoints(ps model.PointSet) Frame {
	f := Frame{Columns: []string{"longitude", "latitude", "transport_rate", "mass"}}
	for _, p := range ps {
		f.Rows = append(f.Rows, []string{
			formatFloat(p.Lon),
			formatFloat(p.Lat),
			formatFloat(p.TransportRate),
			formatFloat(p.Mass),
		})
	}
	return f
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseCell coerces a raw cell to a float. ok is false for empty,
// non-numeric, or non-finite values.
func parseCell(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
