package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locus-group/facility-cli/internal/model"
)

var defaults = Defaults{TransportRate: 1, Mass: 1}

func prevPoint(lon, lat, rate, mass float64) model.Point {
	return model.Point{Lon: lon, Lat: lat, TransportRate: rate, Mass: mass}
}

func TestReconcileEmptyMarkersClears(t *testing.T) {
	prev := model.PointSet{prevPoint(1, 2, 3, 4), prevPoint(5, 6, 7, 8)}

	got := Reconcile(prev, nil, defaults)
	assert.Empty(t, got)

	got = Reconcile(prev, []model.Position{}, defaults)
	assert.Empty(t, got)
}

func TestReconcileNoPreviousPoints(t *testing.T) {
	markers := []model.Position{{Lon: 1, Lat: 2}, {Lon: 3, Lat: 4}}
	d := Defaults{TransportRate: 2.5, Mass: 0.5, Criteria: map[string]float64{"Rent": 1200}}

	got := Reconcile(nil, markers, d)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0].Lon, 1e-12)
	assert.InDelta(t, 2.5, got[0].TransportRate, 1e-12)
	assert.InDelta(t, 0.5, got[0].Mass, 1e-12)
	assert.InDelta(t, 1200.0, got[0].Criteria["rent"], 1e-12)
	assert.InDelta(t, 3.0, got[1].Lon, 1e-12)
}

func TestReconcileTinyMovePreservesAttributes(t *testing.T) {
	prev := model.PointSet{prevPoint(0, 0, 7, 9)}
	markers := []model.Position{{Lon: 0.0001, Lat: 0.0001}}

	got := Reconcile(prev, markers, defaults)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.0001, got[0].Lon, 1e-12)
	assert.InDelta(t, 0.0001, got[0].Lat, 1e-12)
	assert.InDelta(t, 7.0, got[0].TransportRate, 1e-12)
	assert.InDelta(t, 9.0, got[0].Mass, 1e-12)
}

func TestReconcileIdempotentOnUnchangedPositions(t *testing.T) {
	prev := model.PointSet{
		prevPoint(0, 0, 1, 2),
		prevPoint(10, 5, 3, 4),
		prevPoint(-3, 8, 5, 6),
	}
	got := Reconcile(prev, prev.Positions(), defaults)
	assert.Equal(t, prev, got)
}

func TestReconcileAddedMarkerGetsDefaults(t *testing.T) {
	prev := model.PointSet{prevPoint(0, 0, 9, 9)}
	markers := []model.Position{{Lon: 0, Lat: 0}, {Lon: 100, Lat: 100}}

	got := Reconcile(prev, markers, Defaults{TransportRate: 2, Mass: 3})
	require.Len(t, got, 2)
	assert.InDelta(t, 9.0, got[0].TransportRate, 1e-12)
	assert.InDelta(t, 100.0, got[1].Lon, 1e-12)
	assert.InDelta(t, 2.0, got[1].TransportRate, 1e-12)
	assert.InDelta(t, 3.0, got[1].Mass, 1e-12)
}

func TestReconcileRemovedMarkerDropsPoint(t *testing.T) {
	prev := model.PointSet{
		prevPoint(0, 0, 1, 1),
		prevPoint(50, 50, 2, 2),
	}
	markers := []model.Position{{Lon: 50.001, Lat: 50.001}}

	got := Reconcile(prev, markers, defaults)
	require.Len(t, got, 1)
	// The nearer previous point survived with its attributes.
	assert.InDelta(t, 2.0, got[0].TransportRate, 1e-12)
	assert.InDelta(t, 50.001, got[0].Lon, 1e-9)
}

func TestReconcileGreedyClosestPairWins(t *testing.T) {
	// Marker sits between two previous points but closer to the second.
	prev := model.PointSet{
		prevPoint(0, 0, 1, 1),
		prevPoint(10, 0, 2, 2),
	}
	markers := []model.Position{{Lon: 7, Lat: 0}, {Lon: 1, Lat: 0}}

	got := Reconcile(prev, markers, defaults)
	require.Len(t, got, 2)

	// Output keeps previous-set order: prev[0] matched marker (1,0),
	// prev[1] matched marker (7,0).
	assert.InDelta(t, 1.0, got[0].Lon, 1e-12)
	assert.InDelta(t, 1.0, got[0].TransportRate, 1e-12)
	assert.InDelta(t, 7.0, got[1].Lon, 1e-12)
	assert.InDelta(t, 2.0, got[1].TransportRate, 1e-12)
}

func TestReconcileThresholdFreeMatching(t *testing.T) {
	// A far-away marker still claims the only previous point; there is no
	// distance cutoff.
	prev := model.PointSet{prevPoint(0, 0, 5, 5)}
	markers := []model.Position{{Lon: 1000, Lat: 1000}}

	got := Reconcile(prev, markers, defaults)
	require.Len(t, got, 1)
	assert.InDelta(t, 1000.0, got[0].Lon, 1e-12)
	assert.InDelta(t, 5.0, got[0].TransportRate, 1e-12)
}

func TestReconcileDeterministicTieBreak(t *testing.T) {
	// Two previous points equidistant from two markers: ties break by
	// previous index then marker index, so repeated calls agree.
	prev := model.PointSet{
		prevPoint(0, 0, 1, 1),
		prevPoint(2, 0, 2, 2),
	}
	markers := []model.Position{{Lon: 1, Lat: 1}, {Lon: 1, Lat: -1}}

	first := Reconcile(prev, markers, defaults)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Reconcile(prev, markers, defaults))
	}
	require.Len(t, first, 2)
	assert.InDelta(t, 1.0, first[0].TransportRate, 1e-12)
	assert.InDelta(t, 1.0, first[0].Lat, 1e-12)
	assert.InDelta(t, 2.0, first[1].TransportRate, 1e-12)
	assert.InDelta(t, -1.0, first[1].Lat, 1e-12)
}

func TestReconcileCarriesCriteriaAttributes(t *testing.T) {
	prev := model.PointSet{
		{Lon: 0, Lat: 0, TransportRate: 1, Mass: 1, Criteria: map[string]float64{"rent": 800}},
	}
	markers := []model.Position{{Lon: 0.5, Lat: 0.5}, {Lon: 9, Lat: 9}}
	d := Defaults{TransportRate: 1, Mass: 1, Criteria: map[string]float64{"rent": 1000}}

	got := Reconcile(prev, markers, d)
	require.Len(t, got, 2)
	assert.InDelta(t, 800.0, got[0].Criteria["rent"], 1e-12)
	assert.InDelta(t, 1000.0, got[1].Criteria["rent"], 1e-12)
}
