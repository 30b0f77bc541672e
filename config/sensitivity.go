package config

import (
	"fmt"

	"github.com/lmercat/socsim/core/sensitivity"
)

// VariantConfig names one what-if parameterization of the sweep.
type VariantConfig struct {
	Name  string  `json:"name"`
	Scale float64 `json:"scale"`
	// ComponentScale overrides the global scale for named components.
	ComponentScale map[string]float64 `json:"component_scale"`
	// Fade replaces the simulation's capacity fade for this variant. An out
	// of range fade fails that variant at run time without touching its
	// siblings.
	Fade float64 `json:"fade"`
}

// SensitivityConfig drives the variant sweep.
type SensitivityConfig struct {
	// Baseline names the variant deltas are computed against; empty selects
	// the first.
	Baseline string `json:"baseline"`
	// SummaryThreshold picks the threshold whose depletion times feed the
	// population summary; zero selects the first configured threshold.
	SummaryThreshold float64 `json:"summary_threshold"`
	// Workers bounds concurrent variant runs; zero selects GOMAXPROCS.
	Workers  int             `json:"workers"`
	Variants []VariantConfig `json:"variants"`
}

// SetDefaults ensures at least a baseline variant exists.
func (c *SensitivityConfig) SetDefaults() {
	if len(c.Variants) == 0 {
		c.Variants = []VariantConfig{{Name: "baseline", Scale: 1}}
	}
	if c.Baseline == "" {
		c.Baseline = c.Variants[0].Name
	}
}

// Validate checks the sweep description. Per-variant fade is deliberately
// not range-checked here: a bad fade fails its variant at run time, which
// is itself a supported scenario.
func (c SensitivityConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("sensitivity: workers must not be negative, got %d", c.Workers)
	}
	if c.SummaryThreshold < 0 || c.SummaryThreshold >= 1 {
		return fmt.Errorf("sensitivity: summary_threshold %v outside [0,1)", c.SummaryThreshold)
	}
	seen := make(map[string]struct{}, len(c.Variants))
	baselineFound := false
	for i, v := range c.Variants {
		if v.Name == "" {
			return fmt.Errorf("sensitivity: variant %d has no name", i)
		}
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("sensitivity: duplicate variant name %s", v.Name)
		}
		seen[v.Name] = struct{}{}
		if v.Scale < 0 {
			return fmt.Errorf("sensitivity: variant %s: scale must not be negative, got %v", v.Name, v.Scale)
		}
		if v.Name == c.Baseline {
			baselineFound = true
		}
	}
	if c.Baseline != "" && !baselineFound {
		return fmt.Errorf("sensitivity: baseline %s is not a declared variant", c.Baseline)
	}
	return nil
}

// Build maps the config onto runner variants.
func (c SensitivityConfig) Build() []sensitivity.Variant {
	variants := make([]sensitivity.Variant, len(c.Variants))
	for i, v := range c.Variants {
		variants[i] = sensitivity.Variant{
			Name:           v.Name,
			Scale:          v.Scale,
			ComponentScale: v.ComponentScale,
			Fade:           v.Fade,
		}
	}
	return variants
}
