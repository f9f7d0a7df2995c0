package importer

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/locus-group/facility-cli/internal/table"
)

// ReadShapefile reads a point shapefile into a frame with longitude/latitude
// columns followed by the DBF attribute fields. Non-point records are skipped.
func ReadShapefile(path string) (table.Frame, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return table.Frame{}, eris.Wrapf(err, "import: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	frame := table.Frame{Columns: []string{"longitude", "latitude"}}
	for _, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		frame.Columns = append(frame.Columns, name)
	}

	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			continue
		}

		row := make([]string, 0, len(frame.Columns))
		row = append(row,
			strconv.FormatFloat(point.X, 'g', -1, 64),
			strconv.FormatFloat(point.Y, 'g', -1, 64),
		)
		for i := range fields {
			val := strings.TrimRight(reader.Attribute(i), "\x00")
			row = append(row, strings.TrimSpace(val))
		}
		frame.Rows = append(frame.Rows, row)
	}

	if skipped > 0 {
		zap.L().Debug("import: skipped non-point shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return frame, nil
}
