package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locus-group/facility-cli/internal/model"
)

var warsaw = model.Position{Lon: 21.0122, Lat: 52.2297}

func TestCenterLastPointWins(t *testing.T) {
	ps := model.PointSet{
		{Lon: 1, Lat: 2},
		{Lon: 3, Lat: 4},
	}
	got := Center(ps, model.Position{Lon: 9, Lat: 9}, warsaw)
	assert.InDelta(t, 3.0, got.Lon, 1e-12)
	assert.InDelta(t, 4.0, got.Lat, 1e-12)
}

func TestCenterFallsBackToCentroid(t *testing.T) {
	got := Center(nil, model.Position{Lon: 5, Lat: 6}, warsaw)
	assert.InDelta(t, 5.0, got.Lon, 1e-12)
	assert.InDelta(t, 6.0, got.Lat, 1e-12)
}

func TestCenterFallsBackToDefault(t *testing.T) {
	// Centroid at the origin means "no data"; the configured default wins.
	got := Center(nil, model.Position{}, warsaw)
	assert.InDelta(t, 21.0122, got.Lon, 1e-9)
	assert.InDelta(t, 52.2297, got.Lat, 1e-9)
}

func TestPolylinePathClosesRing(t *testing.T) {
	ps := model.PointSet{
		{Lon: 0, Lat: 0},
		{Lon: 1, Lat: 0},
		{Lon: 1, Lat: 1},
	}
	path := PolylinePath(ps)
	require.Len(t, path, 4)
	assert.Equal(t, []float64{0, 0}, path[0])
	assert.Equal(t, []float64{0, 0}, path[3])
}

func TestPolylinePathShortPathsStayOpen(t *testing.T) {
	assert.Empty(t, PolylinePath(nil))

	path := PolylinePath(model.PointSet{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}})
	assert.Len(t, path, 2)
}

func TestPolylinePathAlreadyClosed(t *testing.T) {
	ps := model.PointSet{
		{Lon: 0, Lat: 0},
		{Lon: 1, Lat: 0},
		{Lon: 1, Lat: 1},
		{Lon: 0, Lat: 0},
	}
	path := PolylinePath(ps)
	assert.Len(t, path, 4)
}
