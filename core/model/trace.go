package model

// LoadTrace is the aggregated electrical load over a timeline: total power,
// the equivalent current at the working voltage, and the per-component
// breakdown. All series share the Times index.
type LoadTrace struct {
	// Times holds the sample instants in seconds.
	Times []float64
	// PowerW is the total draw in watts, floored at a small epsilon so the
	// derived current never reaches zero.
	PowerW []float64
	// CurrentA is PowerW divided by the working voltage.
	CurrentA []float64
	// Components maps each component name to its share of PowerW.
	Components map[string][]float64
}

// SOCTrajectory is the state-of-charge curve produced by an integrator.
// Values are fractions in [0,1], non-increasing for a pure discharge load.
type SOCTrajectory struct {
	Times  []float64
	Values []float64
}

// Initial returns the first SOC value, or 0 for an empty trajectory.
func (s SOCTrajectory) Initial() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[0]
}

// Final returns the last SOC value, or 0 for an empty trajectory.
func (s SOCTrajectory) Final() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}
