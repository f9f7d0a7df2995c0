// Package model defines the canonical point schema shared by the decision
// engines, the normalizer, and the reconciler.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/twpayne/go-geom"
)

// Position is a planar coordinate pair. Coordinates are treated as Euclidean,
// not geodesic.
type Position struct {
	Lon float64 `json:"longitude"`
	Lat float64 `json:"latitude"`
}

// Coord returns the position as a go-geom coordinate.
func (p Position) Coord() geom.Coord {
	return geom.Coord{p.Lon, p.Lat}
}

// Point is a single canonical row: a position plus method-dependent attributes.
// TransportRate and Mass are never missing after normalization (default 1.0).
// Criteria holds arbitrary named numeric columns for TOPSIS mode, keyed by
// lowercased column name.
type Point struct {
	Lon           float64            `json:"longitude"`
	Lat           float64            `json:"latitude"`
	TransportRate float64            `json:"transport_rate"`
	Mass          float64            `json:"mass"`
	Criteria      map[string]float64 `json:"criteria,omitempty"`
}

// Weight is the per-point weight used by the centroid engine.
func (p Point) Weight() float64 {
	return p.TransportRate * p.Mass
}

// Position returns the point's coordinate pair.
func (p Point) Position() Position {
	return Position{Lon: p.Lon, Lat: p.Lat}
}

// Criterion returns the named criterion value, or ok=false when the point does
// not carry that column.
func (p Point) Criterion(name string) (float64, bool) {
	v, ok := p.Criteria[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// PointSet is an ordered collection of points. Order is insertion order; it
// carries no weight for the math, only for last-point heuristics and
// positional matching during reconciliation.
type PointSet []Point

// Positions returns the coordinate pairs of all points, in order.
func (ps PointSet) Positions() []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = p.Position()
	}
	return out
}

// Last returns the most recently inserted point.
func (ps PointSet) Last() (Point, bool) {
	if len(ps) == 0 {
		return Point{}, false
	}
	return ps[len(ps)-1], true
}

// Finite reports whether both coordinates are finite numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

// Signature returns a snapshot key for the point set, rounded to 8 decimal
// places per field. Two sets with equal signatures are considered unchanged
// for marker-sync purposes.
func (ps PointSet) Signature() string {
	var b strings.Builder
	for _, p := range ps {
		fmt.Fprintf(&b, "%.8f,%.8f,%.8f,%.8f;", p.Lon, p.Lat, p.TransportRate, p.Mass)
	}
	return b.String()
}

// PositionSignature returns a snapshot key for a raw marker list, rounded to
// 8 decimal places per coordinate.
func PositionSignature(positions []Position) string {
	var b strings.Builder
	for _, p := range positions {
		fmt.Fprintf(&b, "%.8f,%.8f;", p.Lon, p.Lat)
	}
	return b.String()
}
