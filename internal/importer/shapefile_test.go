package importer

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locus-group/facility-cli/internal/table"
)

func writeTempShapefile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)

	w.SetFields([]shp.Field{
		shp.StringField("MASA", 10),
		shp.StringField("ST", 10),
	})

	points := []shp.Point{
		{X: 21.0122, Y: 52.2297},
		{X: 19.945, Y: 50.0647},
	}
	attrs := [][]string{
		{"3", "1.5"},
		{"1", "2"},
	}
	for i, p := range points {
		n := w.Write(&p)
		for j, v := range attrs[i] {
			require.NoError(t, w.WriteAttribute(int(n), j, v))
		}
	}
	w.Close()
	return path
}

func TestReadShapefile(t *testing.T) {
	path := writeTempShapefile(t)

	f, err := ReadShapefile(path)
	require.NoError(t, err)

	require.Len(t, f.Columns, 4)
	assert.Equal(t, "longitude", f.Columns[0])
	assert.Equal(t, "latitude", f.Columns[1])
	assert.Equal(t, "MASA", f.Columns[2])
	assert.Equal(t, "ST", f.Columns[3])

	require.Len(t, f.Rows, 2)
	assert.Equal(t, "21.0122", f.Rows[0][0])
	assert.Equal(t, "52.2297", f.Rows[0][1])
	assert.Equal(t, "3", f.Rows[0][2])
	assert.Equal(t, "1.5", f.Rows[0][3])
}

func TestReadShapefileMissing(t *testing.T) {
	_, err := ReadShapefile(filepath.Join(t.TempDir(), "absent.shp"))
	assert.Error(t, err)
}

func TestReadPointsShapefileByExtension(t *testing.T) {
	path := writeTempShapefile(t)
	f, status := ReadPoints(path, Options{})
	assert.Empty(t, status)
	assert.Len(t, f.Rows, 2)
	assert.NotEqual(t, table.Frame{}, f)
}
