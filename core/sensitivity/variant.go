// Package sensitivity runs the simulation pipeline across a matrix of
// what-if variants and compares the outcomes against a baseline.
package sensitivity

// Variant names one parameterization of the pipeline.
type Variant struct {
	// Name identifies the variant in results, e.g. "baseline" or "aged".
	Name string
	// Scale multiplies every component's power constants. Zero is treated
	// as 1, so a zero-value variant runs unchanged.
	Scale float64
	// ComponentScale overrides Scale for specific components, keyed by
	// component name. An override replaces the global factor, it does not
	// stack on top of it.
	ComponentScale map[string]float64
	// Fade is the capacity fade this variant runs with, in [0,1).
	Fade float64
}

// scaleFor resolves the multiplier for one component.
func (v Variant) scaleFor(component string) float64 {
	if k, ok := v.ComponentScale[component]; ok {
		return k
	}
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}
