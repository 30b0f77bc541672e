// Package power holds the per-component draw models. Each model maps a
// scenario-provided state to instantaneous watts; none of them knows about
// timelines, schedules or batteries.
package power

// State carries the named scalar fields driving one component at one sample
// instant. Boolean knobs are encoded as 0/1. A nil State is the component's
// off state and always evaluates to zero watts.
type State map[string]float64

// Field returns the named field, or def when the field is absent.
func (s State) Field(name string, def float64) float64 {
	if s == nil {
		return def
	}
	if v, ok := s[name]; ok {
		return v
	}
	return def
}

// Flag reads a 0/1 indicator field. Values at or above 0.5 count as set, so
// schedule noise cannot flip an indicator.
func (s State) Flag(name string) bool {
	return s.Field(name, 0) >= 0.5
}

// Model maps a component state to instantaneous power draw. Implementations
// clamp out-of-domain inputs to the nearest valid value rather than reject
// them: schedules are allowed to inject sampling noise.
type Model interface {
	// Component names the subsystem, e.g. "cpu". Schedule intervals address
	// models by this name.
	Component() string
	// Power returns the instantaneous draw in watts for the given state.
	Power(s State) float64
	// Scaled returns a copy of the model with its power constants multiplied
	// by k. The receiver is unchanged.
	Scaled(k float64) Model
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
