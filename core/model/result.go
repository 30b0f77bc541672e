package model

// RunResult bundles the output of a single simulation run.
type RunResult struct {
	// ID uniquely identifies the run.
	ID string
	// SOC is the state-of-charge trajectory over the simulated window.
	SOC SOCTrajectory
	// Estimates maps each requested SOC threshold to its depletion estimate.
	Estimates map[float64]DepletionEstimate
	// MeanPowerW and MeanCurrentA are sample means over the window.
	MeanPowerW   float64
	MeanCurrentA float64
	// EnergyWh and ChargeAh are the totals drawn over the window.
	EnergyWh float64
	ChargeAh float64
	// Diagnostics lists recoverable conditions encountered during the run.
	Diagnostics []Diagnostic
}

// ScenarioResult is the outcome of one sensitivity variant.
type ScenarioResult struct {
	ID string
	// Variant names the parameterization, e.g. "baseline".
	Variant string
	// Scale is the global usage-intensity multiplier the variant applied.
	Scale float64
	// Fade is the capacity fade the variant ran with.
	Fade float64

	MeanPowerW   float64
	MeanCurrentA float64
	Estimates    map[float64]DepletionEstimate

	// DurationS is the wall-clock time the variant run took, in seconds.
	DurationS float64

	// DeltaPowerPct is the mean power change relative to the baseline
	// variant, in percent. DeltaTimePct holds the per-threshold depletion
	// time changes. Both are filled by the sensitivity runner and stay zero
	// for the baseline itself.
	DeltaPowerPct float64
	DeltaTimePct  map[float64]float64

	Diagnostics []Diagnostic

	// Err records a variant-fatal failure. Other variants are unaffected.
	Err error
}

// Summary aggregates the depletion times of one threshold across the variant
// population. Times are in seconds; variants without a usable estimate are
// excluded from Count.
type Summary struct {
	Threshold     float64
	Count         int
	MinSeconds    float64
	MaxSeconds    float64
	MeanSeconds   float64
	StdDevSeconds float64
	// CoeffVar is the coefficient of variation, StdDevSeconds/MeanSeconds.
	CoeffVar float64
}
