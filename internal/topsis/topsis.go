// Package topsis ranks candidate points with the Technique for Order of
// Preference by Similarity to Ideal Solution over arbitrary numeric criteria.
package topsis

import (
	"math"
	"sort"

	"github.com/locus-group/facility-cli/internal/model"
)

// Row is a single ranked point.
type Row struct {
	Point model.Point `json:"point"`
	Score float64     `json:"topsis_score"`
	Rank  int         `json:"topsis_rank"`
}

// Ranking holds the ordered result plus the intermediate matrices, which the
// presentation layer shows as the step-by-step explanation.
type Ranking struct {
	Criteria   []string       `json:"criteria"`
	Weights    []float64      `json:"weights"`
	Impacts    []model.Impact `json:"impacts"`
	Decision   [][]float64    `json:"decision_matrix"`
	Normalized [][]float64    `json:"normalized_matrix"`
	Weighted   [][]float64    `json:"weighted_matrix"`
	IdealBest  []float64      `json:"ideal_best"`
	IdealWorst []float64      `json:"ideal_worst"`
	Rows       []Row          `json:"rows"`
}

// Empty reports whether the ranking carries no rows.
func (r Ranking) Empty() bool {
	return len(r.Rows) == 0
}

// Rank scores the point set over the selected criteria and returns rows
// sorted by descending score, ties broken by original order.
//
// Criteria named in selected but present on no point are excluded from the
// decision matrix. Missing cell values enter the matrix as 0. Zero points or
// zero usable criteria yield an empty ranking.
func Rank(ps model.PointSet, selected []string, cfg model.CriteriaSet) Ranking {
	criteria := presentCriteria(ps, selected)
	if len(ps) == 0 || len(criteria) == 0 {
		return Ranking{}
	}

	n, m := len(ps), len(criteria)

	impacts := make([]model.Impact, m)
	rawWeights := make([]float64, m)
	for j, name := range criteria {
		c := cfg.Get(name)
		impacts[j] = c.Impact
		rawWeights[j] = c.Weight
	}
	weights := normalizeWeights(rawWeights)

	// Step 1: decision matrix, missing cells as 0.
	decision := make([][]float64, n)
	for i, p := range ps {
		decision[i] = make([]float64, m)
		for j, name := range criteria {
			if v, ok := p.Criterion(name); ok {
				decision[i][j] = v
			}
		}
	}

	// Step 2: vector normalization per column; an all-zero column stays zero.
	norms := make([]float64, m)
	for j := 0; j < m; j++ {
		var ss float64
		for i := 0; i < n; i++ {
			ss += decision[i][j] * decision[i][j]
		}
		norms[j] = math.Sqrt(ss)
	}
	normalized := make([][]float64, n)
	for i := 0; i < n; i++ {
		normalized[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			if norms[j] > 0 {
				normalized[i][j] = decision[i][j] / norms[j]
			}
		}
	}

	// Step 4: apply normalized weights.
	weighted := make([][]float64, n)
	for i := 0; i < n; i++ {
		weighted[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			weighted[i][j] = normalized[i][j] * weights[j]
		}
	}

	// Step 5: ideal vectors per impact direction.
	best := make([]float64, m)
	worst := make([]float64, m)
	for j := 0; j < m; j++ {
		lo, hi := weighted[0][j], weighted[0][j]
		for i := 1; i < n; i++ {
			lo = math.Min(lo, weighted[i][j])
			hi = math.Max(hi, weighted[i][j])
		}
		if impacts[j] == model.ImpactCost {
			best[j], worst[j] = lo, hi
		} else {
			best[j], worst[j] = hi, lo
		}
	}

	// Steps 6-7: distances to the ideals and the closeness score.
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		var dBest, dWorst float64
		for j := 0; j < m; j++ {
			dBest += (weighted[i][j] - best[j]) * (weighted[i][j] - best[j])
			dWorst += (weighted[i][j] - worst[j]) * (weighted[i][j] - worst[j])
		}
		dBest = math.Sqrt(dBest)
		dWorst = math.Sqrt(dWorst)

		var score float64
		if dBest+dWorst > 0 {
			score = dWorst / (dBest + dWorst)
		}
		rows[i] = Row{Point: ps[i], Score: score}
	}

	// Step 8: stable descending sort preserves original order on ties.
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Score > rows[b].Score })
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return Ranking{
		Criteria:   criteria,
		Weights:    weights,
		Impacts:    impacts,
		Decision:   decision,
		Normalized: normalized,
		Weighted:   weighted,
		IdealBest:  best,
		IdealWorst: worst,
		Rows:       rows,
	}
}

// presentCriteria filters the selection down to criteria that exist as a
// column on at least one point, dropping duplicates while keeping selection
// order.
func presentCriteria(ps model.PointSet, selected []string) []string {
	var out []string
	seen := make(map[string]bool, len(selected))
	for _, name := range selected {
		key := model.Key(name)
		if key == "" || seen[key] {
			continue
		}
		for _, p := range ps {
			if _, ok := p.Criteria[key]; ok {
				seen[key] = true
				out = append(out, key)
				break
			}
		}
	}
	return out
}

// normalizeWeights scales weights to sum to 1. An all-zero weight vector
// distributes equally so scores cannot collapse to NaN.
func normalizeWeights(raw []float64) []float64 {
	out := make([]float64, len(raw))
	var sum float64
	for _, w := range raw {
		sum += w
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1.0 / float64(len(raw))
		}
		return out
	}
	for i, w := range raw {
		out[i] = w / sum
	}
	return out
}
