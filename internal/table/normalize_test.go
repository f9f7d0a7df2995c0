package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locus-group/facility-cli/internal/model"
)

func TestNormalizeAliasResolution(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
	}{
		{"canonical", []string{"longitude", "latitude", "transport_rate", "mass"}},
		{"short", []string{"lon", "lat", "rate", "m"}},
		{"xy", []string{"x", "y", "st", "masa"}},
		{"polish", []string{"LONGITUDE", " Latitude ", "Stawka_Transportowa", "MASA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Frame{
				Columns: tt.columns,
				Rows:    [][]string{{"21.0", "52.2", "2.0", "3.0"}},
			}
			ps := Normalize(f)
			require.Len(t, ps, 1)
			assert.InDelta(t, 21.0, ps[0].Lon, 1e-12)
			assert.InDelta(t, 52.2, ps[0].Lat, 1e-12)
			assert.InDelta(t, 2.0, ps[0].TransportRate, 1e-12)
			assert.InDelta(t, 3.0, ps[0].Mass, 1e-12)
		})
	}
}

func TestNormalizePositionalFallback(t *testing.T) {
	f := Frame{
		Columns: []string{"col_a", "col_b"},
		Rows:    [][]string{{"10", "20"}, {"30", "40"}},
	}
	ps := Normalize(f)
	require.Len(t, ps, 2)
	assert.InDelta(t, 10.0, ps[0].Lon, 1e-12)
	assert.InDelta(t, 20.0, ps[0].Lat, 1e-12)
	assert.InDelta(t, 1.0, ps[0].TransportRate, 1e-12)
	assert.InDelta(t, 1.0, ps[0].Mass, 1e-12)
}

func TestNormalizeSingleUnrecognizedColumn(t *testing.T) {
	// One column, no aliases: coordinates stay unresolved and every row drops.
	f := Frame{
		Columns: []string{"whatever"},
		Rows:    [][]string{{"1"}, {"2"}},
	}
	assert.Empty(t, Normalize(f))
}

func TestNormalizeDropsBadCoordinates(t *testing.T) {
	f := Frame{
		Columns: []string{"lon", "lat", "mass"},
		Rows: [][]string{
			{"1", "2", "5"},
			{"oops", "2", "5"},
			{"3", "", "5"},
			{"NaN", "4", "5"},
			{"5", "Inf", "5"},
			{"7", "8", "not-a-number"},
		},
	}
	ps := Normalize(f)
	require.Len(t, ps, 2)
	assert.InDelta(t, 1.0, ps[0].Lon, 1e-12)
	// Bad mass falls back to 1.0 instead of dropping the row.
	assert.InDelta(t, 7.0, ps[1].Lon, 1e-12)
	assert.InDelta(t, 1.0, ps[1].Mass, 1e-12)
	assert.InDelta(t, 5.0, ps[0].Mass, 1e-12)
}

func TestNormalizeRaggedRows(t *testing.T) {
	f := Frame{
		Columns: []string{"lon", "lat", "transport_rate", "mass"},
		Rows: [][]string{
			{"1", "2"},
			{"3", "4", "2.0"},
		},
	}
	ps := Normalize(f)
	require.Len(t, ps, 2)
	assert.InDelta(t, 1.0, ps[0].TransportRate, 1e-12)
	assert.InDelta(t, 1.0, ps[0].Mass, 1e-12)
	assert.InDelta(t, 2.0, ps[1].TransportRate, 1e-12)
	assert.InDelta(t, 1.0, ps[1].Mass, 1e-12)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := Frame{
		Columns: []string{"X", " Lat ", "st", "extra"},
		Rows: [][]string{
			{"21.0122", "52.2297", "1.5", "ignored"},
			{"bad", "1", "1", ""},
			{"19.945", "50.0647", "", "ignored"},
		},
	}
	once := Normalize(raw)
	twice := Normalize(FromPoints(once))
	assert.Equal(t, once, twice)
}

func TestNormalizeEmptyFrame(t *testing.T) {
	assert.Empty(t, Normalize(Frame{}))
	assert.Empty(t, Normalize(Frame{Columns: []string{"lon", "lat"}}))
}

func TestNormalizeCriteriaPassThrough(t *testing.T) {
	f := Frame{
		Columns: []string{"lon", "lat", "Rent", "Labour Cost", "notes"},
		Rows: [][]string{
			{"1", "2", "1200", "55", "good"},
			{"3", "4", "900", "not-a-number", "bad"},
			{"x", "4", "1", "1", ""},
		},
	}
	ps, names := NormalizeCriteria(f)
	require.Len(t, ps, 2)
	assert.Equal(t, []string{"rent", "labour cost", "notes"}, names)

	v, ok := ps[0].Criterion("rent")
	require.True(t, ok)
	assert.InDelta(t, 1200.0, v, 1e-12)

	// Non-numeric criterion cells are absent, not zeroed, at this stage.
	_, ok = ps[1].Criterion("labour cost")
	assert.False(t, ok)
	_, ok = ps[0].Criterion("notes")
	assert.False(t, ok)

	// Coordinate hard requirement still applies.
	assert.InDelta(t, 3.0, ps[1].Lon, 1e-12)
}

func TestNormalizeCriteriaSkipsCoordinateColumns(t *testing.T) {
	f := Frame{
		Columns: []string{"a", "b", "c"},
		Rows:    [][]string{{"1", "2", "3"}},
	}
	ps, names := NormalizeCriteria(f)
	require.Len(t, ps, 1)
	// a and b were claimed positionally as coordinates.
	assert.Equal(t, []string{"c"}, names)
	v, ok := ps[0].Criterion("c")
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-12)
}

func TestFromPointsRoundTrip(t *testing.T) {
	ps := model.PointSet{
		{Lon: 21.012345678901, Lat: 52.229700000001, TransportRate: 0.1, Mass: 3},
	}
	got := Normalize(FromPoints(ps))
	assert.Equal(t, ps, got)
}

func TestFrameCell(t *testing.T) {
	f := Frame{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	assert.Equal(t, "1", f.Cell(0, 0))
	assert.Equal(t, "", f.Cell(0, 5))
	assert.Equal(t, "", f.Cell(2, 0))
	assert.Equal(t, "", f.Cell(-1, -1))
}
