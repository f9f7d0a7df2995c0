// Package marker extracts point positions from the geometry payload produced
// by the map draw layer.
package marker

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/locus-group/facility-cli/internal/model"
)

// Positions parses a draw-layer payload and returns the marker coordinates it
// contains, in document order.
//
// The payload may be a GeoJSON FeatureCollection, a bare array of features, a
// keyed object of features, or bare geometries. Only Point geometries with two
// finite coordinates are kept; everything malformed is skipped, never an
// error. A nil/empty payload yields no positions.
func Positions(raw json.RawMessage) []model.Position {
	if len(raw) == 0 {
		return nil
	}

	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil
	}

	var out []model.Position
	for _, item := range drawings(root) {
		if pos, ok := pointPosition(item); ok {
			out = append(out, pos)
		}
	}
	return out
}

// drawings flattens the accepted payload shapes into a list of candidate
// feature values.
func drawings(root any) []any {
	switch v := root.(type) {
	case []any:
		return v
	case map[string]any:
		if features, ok := v["features"].([]any); ok {
			return features
		}
		if _, isGeometry := v["type"]; isGeometry {
			return []any{v}
		}
		// Keyed wrapper object: JSON object order is unspecified, so only a
		// single-entry wrapper is unwrapped.
		if len(v) == 1 {
			for _, item := range v {
				return []any{item}
			}
		}
		return nil
	default:
		return nil
	}
}

// pointPosition digs the geometry out of a feature (or takes the value itself
// as a geometry) and decodes it, keeping only valid points.
func pointPosition(item any) (model.Position, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return model.Position{}, false
	}

	geometry := obj
	if g, ok := obj["geometry"].(map[string]any); ok {
		geometry = g
	}
	if t, _ := geometry["type"].(string); t != "Point" {
		return model.Position{}, false
	}

	data, err := json.Marshal(geometry)
	if err != nil {
		return model.Position{}, false
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return model.Position{}, false
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return model.Position{}, false
	}

	coords := pt.Coords()
	if len(coords) < 2 {
		return model.Position{}, false
	}
	pos := model.Position{Lon: coords[0], Lat: coords[1]}
	if !pos.Finite() {
		return model.Position{}, false
	}
	return pos, true
}
