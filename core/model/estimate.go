package model

// EstimateMethod tags how a depletion estimate was produced. Consumers use
// the tag to judge confidence: an interpolated estimate comes from an
// observed threshold crossing, an extrapolated one assumes the mean draw of
// the simulated window persists indefinitely.
type EstimateMethod int

const (
	// MethodInterpolated means the threshold was crossed inside the
	// simulated horizon and the crossing time was interpolated between the
	// two bracketing samples.
	MethodInterpolated EstimateMethod = iota
	// MethodExtrapolated means the threshold was never reached and the time
	// was projected from the mean positive current draw.
	MethodExtrapolated
	// MethodUnavailable means no estimate could be produced.
	MethodUnavailable
)

func (m EstimateMethod) String() string {
	switch m {
	case MethodInterpolated:
		return "interpolated"
	case MethodExtrapolated:
		return "extrapolated"
	case MethodUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// DepletionEstimate is the predicted elapsed time, counted from the start of
// the simulated window, until the SOC reaches Threshold.
type DepletionEstimate struct {
	Threshold float64
	Seconds   float64
	Method    EstimateMethod
}

// Hours returns the estimate in hours.
func (e DepletionEstimate) Hours() float64 { return e.Seconds / SecondsPerHour }
