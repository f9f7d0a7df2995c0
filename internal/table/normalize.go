package table

import (
	"github.com/locus-group/facility-cli/internal/model"
)

// Column aliases, checked in order. Headers are lowercased and trimmed before
// matching. The Polish aliases come from legacy spreadsheet exports.
var (
	lonAliases  = []string{"longitude", "lon", "x"}
	latAliases  = []string{"latitude", "lat", "y"}
	rateAliases = []string{"transport_rate", "transport", "rate", "stawka_transportowa", "stawka", "st"}
	massAliases = []string{"mass", "masa", "m"}
)

const defaultAttribute = 1.0

// Normalize coerces an arbitrary input table into the canonical centroid-mode
// point schema. Coordinate columns are resolved by alias, else positionally
// (first two columns). Rows whose coordinates fail numeric coercion are
// dropped; missing transport_rate/mass cells are filled with 1.0.
// Normalizing an already-normalized table is a no-op.
func Normalize(f Frame) model.PointSet {
	lonIdx, latIdx := resolveCoordinates(f)
	rateIdx := resolveAlias(f, rateAliases)
	massIdx := resolveAlias(f, massAliases)

	var ps model.PointSet
	for i := range f.Rows {
		lon, lonOK := coordAt(f, i, lonIdx)
		lat, latOK := coordAt(f, i, latIdx)
		if !lonOK || !latOK {
			continue
		}
		ps = append(ps, model.Point{
			Lon:           lon,
			Lat:           lat,
			TransportRate: attributeAt(f, i, rateIdx),
			Mass:          attributeAt(f, i, massIdx),
		})
	}
	return ps
}

// NormalizeCriteria coerces an input table into the TOPSIS-mode schema: clean
// coordinate columns plus every remaining column passed through as a named
// numeric criterion. It returns the criterion column names in header order,
// lowercased. Cells that fail coercion are simply absent from the point's
// criteria map.
func NormalizeCriteria(f Frame) (model.PointSet, []string) {
	lonIdx, latIdx := resolveCoordinates(f)

	var names []string
	var indices []int
	seen := make(map[string]bool)
	for i, col := range f.Columns {
		if i == lonIdx || i == latIdx {
			continue
		}
		key := model.Key(col)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
		indices = append(indices, i)
	}

	var ps model.PointSet
	for i := range f.Rows {
		lon, lonOK := coordAt(f, i, lonIdx)
		lat, latOK := coordAt(f, i, latIdx)
		if !lonOK || !latOK {
			continue
		}
		p := model.Point{Lon: lon, Lat: lat, TransportRate: defaultAttribute, Mass: defaultAttribute}
		for j, col := range indices {
			if v, ok := parseCell(f.Cell(i, col)); ok {
				if p.Criteria == nil {
					p.Criteria = make(map[string]float64, len(indices))
				}
				p.Criteria[names[j]] = v
			}
		}
		ps = append(ps, p)
	}
	return ps, names
}

// resolveCoordinates finds the longitude and latitude columns by alias, then
// falls back to the first two columns. An unresolved column stays -1, which
// makes every row fail coordinate coercion (empty coordinate column).
func resolveCoordinates(f Frame) (lonIdx, latIdx int) {
	lonIdx = resolveAlias(f, lonAliases)
	latIdx = resolveAlias(f, latAliases)

	if (lonIdx < 0 || latIdx < 0) && len(f.Columns) >= 2 {
		if lonIdx < 0 {
			lonIdx = 0
		}
		if latIdx < 0 {
			latIdx = 1
		}
	}
	return lonIdx, latIdx
}

func resolveAlias(f Frame, aliases []string) int {
	for _, alias := range aliases {
		if idx := f.ColumnIndex(alias); idx >= 0 {
			return idx
		}
	}
	return -1
}

func coordAt(f Frame, row, col int) (float64, bool) {
	if col < 0 {
		return 0, false
	}
	return parseCell(f.Cell(row, col))
}

// attributeAt reads a soft attribute cell: a missing column or unparseable
// cell yields the 1.0 default, never a dropped row.
func attributeAt(f Frame, row, col int) float64 {
	if col < 0 {
		return defaultAttribute
	}
	if v, ok := parseCell(f.Cell(row, col)); ok {
		return v
	}
	return defaultAttribute
}
