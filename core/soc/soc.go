// Package soc turns a discharge current signal into a state-of-charge
// trajectory and derives depletion estimates from it.
package soc

import (
	"errors"
	"fmt"

	"github.com/lmercat/socsim/core/model"
)

// ErrSolverFailure reports that the adaptive solver exceeded its step budget
// or underflowed its step size. Callers are expected to fall back to Coulomb
// counting.
var ErrSolverFailure = errors.New("adaptive solver failed to converge")

// ErrNoPositiveCurrent reports that a depletion estimate could not be
// extrapolated because the load never draws current.
var ErrNoPositiveCurrent = errors.New("no positive current samples to extrapolate from")

// Integrator turns a sampled discharge current into an SOC trajectory.
// Times are seconds, current amperes, capacity ampere-hours. Every
// implementation guarantees SOC stays in [0,1] at each sample and that the
// curve is non-increasing for a non-negative current signal.
type Integrator interface {
	Name() string
	Integrate(times, currentA []float64, capacityAh, initialSOC float64) (model.SOCTrajectory, error)
}

func checkInputs(times, currentA []float64, capacityAh float64) error {
	if len(times) < 2 {
		return fmt.Errorf("soc: need at least two samples, got %d", len(times))
	}
	if len(times) != len(currentA) {
		return fmt.Errorf("soc: %d time samples vs %d current samples", len(times), len(currentA))
	}
	if capacityAh <= 0 {
		return fmt.Errorf("soc: capacity %v Ah: %w", capacityAh, model.ErrNonPositiveCapacity)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return fmt.Errorf("soc: times not strictly increasing at index %d", i)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
