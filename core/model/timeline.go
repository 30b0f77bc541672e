package model

import (
	"fmt"
	"math"
)

// SecondsPerHour converts between the simulation time base (seconds) and the
// ampere-hour charge base.
const SecondsPerHour = 3600.0

// Timeline is an ordered sequence of sample instants in seconds. Steps may
// be irregular, e.g. when the instants come from measured data.
type Timeline []float64

// Uniform builds a timeline from start to end with a fixed step. The last
// instant is the largest start+k*step that does not exceed end.
func Uniform(start, end, step float64) (Timeline, error) {
	if step <= 0 {
		return nil, fmt.Errorf("timeline step must be positive, got %v", step)
	}
	if end <= start {
		return nil, fmt.Errorf("timeline end %v not after start %v", end, start)
	}
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	tl := make(Timeline, n)
	for i := range tl {
		tl[i] = start + float64(i)*step
	}
	return tl, nil
}

// Validate checks that all instants are finite and strictly increasing.
func (tl Timeline) Validate() error {
	if len(tl) < 2 {
		return fmt.Errorf("timeline needs at least two instants, got %d", len(tl))
	}
	for i, t := range tl {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("timeline instant %d is not finite", i)
		}
		if i > 0 && t <= tl[i-1] {
			return fmt.Errorf("timeline not strictly increasing at index %d", i)
		}
	}
	return nil
}

// Span returns the covered duration in seconds.
func (tl Timeline) Span() float64 {
	if len(tl) == 0 {
		return 0
	}
	return tl[len(tl)-1] - tl[0]
}
