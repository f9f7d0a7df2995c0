// Package centroid implements the weighted center-of-gravity calculation used
// to place a facility among weighted demand points.
package centroid

import (
	"math"

	"github.com/twpayne/go-geom/xy"

	"github.com/locus-group/facility-cli/internal/model"
)

// weightEpsilon is the threshold below which the total weight is treated as
// degenerate (zero-mass fleet) and the engine falls back to the unweighted
// coordinate mean.
const weightEpsilon = 1e-12

// Result holds the centroid computation output.
type Result struct {
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	WeightedDistanceSum float64 `json:"weighted_distance_sum"`
	UsedFallbackAverage bool    `json:"used_fallback_average"`
}

// RowBreakdown is the per-point explanation of a centroid computation.
type RowBreakdown struct {
	Point            model.Point `json:"point"`
	Weight           float64     `json:"weight"`
	WeightedX        float64     `json:"weighted_x"`
	WeightedY        float64     `json:"weighted_y"`
	Distance         float64     `json:"euclidean_distance"`
	WeightedDistance float64     `json:"weighted_euclidean_distance"`
}

// Compute returns the weighted centroid of the point set together with the
// weighted sum of Euclidean distances to it.
//
// Per-point weight is transport_rate × mass. When the total weight is below
// weightEpsilon the unweighted arithmetic mean is used instead and the result
// is flagged. An empty set yields (0, 0).
//
// The weighted distance sum is a diagnostic only: the centroid minimizes the
// weighted sum of squared deviations, not this linear sum.
func Compute(ps model.PointSet) Result {
	if len(ps) == 0 {
		return Result{}
	}

	var totalWeight, weightedX, weightedY float64
	for _, p := range ps {
		w := p.Weight()
		totalWeight += w
		weightedX += w * p.Lon
		weightedY += w * p.Lat
	}

	var res Result
	if math.Abs(totalWeight) < weightEpsilon {
		n := float64(len(ps))
		var sumX, sumY float64
		for _, p := range ps {
			sumX += p.Lon
			sumY += p.Lat
		}
		res = Result{X: sumX / n, Y: sumY / n, UsedFallbackAverage: true}
	} else {
		res = Result{X: weightedX / totalWeight, Y: weightedY / totalWeight}
	}

	res.WeightedDistanceSum = WeightedDistanceSum(ps, res.X, res.Y)
	return res
}

// WeightedDistanceSum returns Σ(w_i · distance(point_i, (x, y))) over the set.
func WeightedDistanceSum(ps model.PointSet, x, y float64) float64 {
	target := model.Position{Lon: x, Lat: y}.Coord()
	var sum float64
	for _, p := range ps {
		sum += p.Weight() * xy.Distance(p.Position().Coord(), target)
	}
	return sum
}

// Breakdown returns the per-point explanation rows for a centroid at (x, y).
// Purely derived; order follows the input set.
func Breakdown(ps model.PointSet, x, y float64) []RowBreakdown {
	target := model.Position{Lon: x, Lat: y}.Coord()
	rows := make([]RowBreakdown, 0, len(ps))
	for _, p := range ps {
		w := p.Weight()
		d := xy.Distance(p.Position().Coord(), target)
		rows = append(rows, RowBreakdown{
			Point:            p,
			Weight:           w,
			WeightedX:        w * p.Lon,
			WeightedY:        w * p.Lat,
			Distance:         d,
			WeightedDistance: w * d,
		})
	}
	return rows
}
