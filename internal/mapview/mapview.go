// Package mapview derives map presentation hints from the point table: where
// to center the view and the polyline connecting the points.
package mapview

import (
	"math"

	"github.com/locus-group/facility-cli/internal/model"
)

// originEpsilon distinguishes a real centroid from the (0, 0) empty-set
// placeholder.
const originEpsilon = 1e-9

// Center picks the map center: the last inserted point, else the centroid
// when it is not the empty-set placeholder, else the configured fallback.
func Center(ps model.PointSet, centroid model.Position, fallback model.Position) model.Position {
	if last, ok := ps.Last(); ok {
		return last.Position()
	}
	if math.Abs(centroid.Lon) > originEpsilon || math.Abs(centroid.Lat) > originEpsilon {
		return centroid
	}
	return fallback
}

// PolylinePath returns the [lon, lat] vertex path through all points,
// closed into a ring when it has at least three vertices and is not already
// closed.
func PolylinePath(ps model.PointSet) [][]float64 {
	path := make([][]float64, 0, len(ps)+1)
	for _, p := range ps {
		path = append(path, []float64{p.Lon, p.Lat})
	}
	if len(path) >= 3 {
		first, last := path[0], path[len(path)-1]
		if first[0] != last[0] || first[1] != last[1] {
			path = append(path, []float64{first[0], first[1]})
		}
	}
	return path
}
