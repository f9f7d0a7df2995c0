// Package reconcile synchronizes the point table with marker geometry redrawn
// on the map, preserving per-point attributes across moves.
package reconcile

import (
	"sort"

	"github.com/twpayne/go-geom/xy"

	"github.com/locus-group/facility-cli/internal/model"
)

// Defaults holds the attribute values assigned to markers that have no
// previous point to inherit from.
type Defaults struct {
	TransportRate float64
	Mass          float64
	Criteria      map[string]float64
}

// pair is one candidate (previous point, marker) assignment.
type pair struct {
	dist      float64
	prevIdx   int
	markerIdx int
}

// Reconcile matches the previous point set against a redrawn marker list via
// greedy nearest-neighbor bipartite matching:
//
//   - an empty marker list clears the table (deliberate clear-on-empty policy)
//   - with no previous points, every marker becomes a fresh default-valued row
//   - otherwise all pairwise distances are sorted ascending and the globally
//     closest unmatched pair is claimed until one side is exhausted
//
// Matched points carry their attributes onto the marker's coordinates,
// unmatched markers become new default rows, unmatched previous points drop.
// The greedy policy is not globally optimal assignment; it is kept for
// compatibility with existing behavior on ambiguous inputs, and it matches
// regardless of distance magnitude (threshold-free).
//
// Output is deterministic: ties on distance break by previous index, then
// marker index.
func Reconcile(prev model.PointSet, markers []model.Position, defaults Defaults) model.PointSet {
	if len(markers) == 0 {
		return model.PointSet{}
	}

	if len(prev) == 0 {
		out := make(model.PointSet, 0, len(markers))
		for _, m := range markers {
			out = append(out, newPoint(m, defaults))
		}
		return out
	}

	pairs := make([]pair, 0, len(prev)*len(markers))
	for ei, p := range prev {
		from := p.Position().Coord()
		for mi, m := range markers {
			pairs = append(pairs, pair{
				dist:      xy.Distance(from, m.Coord()),
				prevIdx:   ei,
				markerIdx: mi,
			})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].dist != pairs[b].dist {
			return pairs[a].dist < pairs[b].dist
		}
		if pairs[a].prevIdx != pairs[b].prevIdx {
			return pairs[a].prevIdx < pairs[b].prevIdx
		}
		return pairs[a].markerIdx < pairs[b].markerIdx
	})

	matchedPrev := make([]bool, len(prev))
	matchedMarker := make([]bool, len(markers))
	assignment := make(map[int]int, len(prev)) // prev index -> marker index
	remaining := min(len(prev), len(markers))

	for _, pr := range pairs {
		if remaining == 0 {
			break
		}
		if matchedPrev[pr.prevIdx] || matchedMarker[pr.markerIdx] {
			continue
		}
		matchedPrev[pr.prevIdx] = true
		matchedMarker[pr.markerIdx] = true
		assignment[pr.prevIdx] = pr.markerIdx
		remaining--
	}

	// Matched previous points first, in previous-set order, then unmatched
	// markers in marker order.
	var out model.PointSet
	for ei, p := range prev {
		mi, ok := assignment[ei]
		if !ok {
			continue
		}
		p.Lon = markers[mi].Lon
		p.Lat = markers[mi].Lat
		out = append(out, p)
	}
	for mi, m := range markers {
		if matchedMarker[mi] {
			continue
		}
		out = append(out, newPoint(m, defaults))
	}
	return out
}

func newPoint(pos model.Position, defaults Defaults) model.Point {
	p := model.Point{
		Lon:           pos.Lon,
		Lat:           pos.Lat,
		TransportRate: defaults.TransportRate,
		Mass:          defaults.Mass,
	}
	if len(defaults.Criteria) > 0 {
		p.Criteria = make(map[string]float64, len(defaults.Criteria))
		for name, v := range defaults.Criteria {
			p.Criteria[model.Key(name)] = v
		}
	}
	return p
}
