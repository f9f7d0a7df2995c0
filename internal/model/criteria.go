package model

import "strings"

// Impact describes the direction of a TOPSIS criterion.
type Impact string

const (
	// ImpactBenefit means larger values are better (best = column max).
	ImpactBenefit Impact = "benefit"
	// ImpactCost means smaller values are better (best = column min).
	ImpactCost Impact = "cost"
)

// ParseImpact maps a raw string to an Impact, defaulting to benefit.
func ParseImpact(s string) Impact {
	if strings.EqualFold(strings.TrimSpace(s), string(ImpactCost)) {
		return ImpactCost
	}
	return ImpactBenefit
}

// CriterionConfig holds the per-criterion settings used by the TOPSIS engine.
type CriterionConfig struct {
	Weight  float64 `json:"weight" yaml:"weight"`
	Impact  Impact  `json:"impact" yaml:"impact"`
	Default float64 `json:"default" yaml:"default"`
}

// DefaultCriterionConfig returns the config assigned to a criterion column the
// first time it appears.
func DefaultCriterionConfig() CriterionConfig {
	return CriterionConfig{Weight: 1.0, Impact: ImpactBenefit, Default: 1.0}
}

// CriteriaSet keeps criterion configs keyed by lowercased column name so that
// configs survive header-case churn across re-renders.
type CriteriaSet map[string]CriterionConfig

// Ensure returns the config for name, creating a default one on first
// appearance.
func (cs CriteriaSet) Ensure(name string) CriterionConfig {
	key := Key(name)
	if cfg, ok := cs[key]; ok {
		return cfg
	}
	cfg := DefaultCriterionConfig()
	cs[key] = cfg
	return cfg
}

// Set stores a config under the canonical key for name.
func (cs CriteriaSet) Set(name string, cfg CriterionConfig) {
	if cfg.Impact == "" {
		cfg.Impact = ImpactBenefit
	}
	cs[Key(name)] = cfg
}

// Get returns the config for name, falling back to the default config when
// the criterion was never configured.
func (cs CriteriaSet) Get(name string) CriterionConfig {
	if cfg, ok := cs[Key(name)]; ok {
		return cfg
	}
	return DefaultCriterionConfig()
}

// Prune drops configs whose columns are no longer present in active.
func (cs CriteriaSet) Prune(active []string) {
	keep := make(map[string]bool, len(active))
	for _, name := range active {
		keep[Key(name)] = true
	}
	for key := range cs {
		if !keep[key] {
			delete(cs, key)
		}
	}
}

// Key returns the canonical lookup key for a column name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
