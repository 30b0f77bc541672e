package soc

import "github.com/lmercat/socsim/core/model"

// CoulombCounter integrates the current signal with cumulative trapezoids:
//
//	SOC[k] = SOC0 - (1/3600C) * sum_trapz(I, t)[k]
//
// The running SOC is clamped to [0,1] at every step, which keeps a single
// outlier sample from pushing the curve below zero and, with non-negative
// current, keeps it non-increasing by construction. Trapezoids handle
// irregular timelines without resampling.
type CoulombCounter struct{}

func (CoulombCounter) Name() string { return "coulomb" }

func (CoulombCounter) Integrate(times, currentA []float64, capacityAh, initialSOC float64) (model.SOCTrajectory, error) {
	if err := checkInputs(times, currentA, capacityAh); err != nil {
		return model.SOCTrajectory{}, err
	}
	initial := clamp01(initialSOC)
	values := make([]float64, len(times))
	values[0] = initial
	var chargeAh float64
	for i := 1; i < len(times); i++ {
		dt := times[i] - times[i-1]
		chargeAh += (currentA[i] + currentA[i-1]) / 2 * dt / model.SecondsPerHour
		values[i] = clamp01(initial - chargeAh/capacityAh)
	}
	return model.SOCTrajectory{
		Times:  append([]float64(nil), times...),
		Values: values,
	}, nil
}
