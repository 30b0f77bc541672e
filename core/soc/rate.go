package soc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/lmercat/socsim/core/model"
)

const (
	defaultTol      = 1e-6
	defaultMaxSteps = 100000
)

// rateSolve advances the rate equation; tests swap it out to exercise the
// failure path.
var rateSolve = solveRKF45

// RateEquation solves dSOC/dt = -I(t)/(3600*C) with an adaptive-step
// Runge-Kutta-Fehlberg 4(5) pair. I(t) is the piecewise-linear
// interpolation of the current samples, held at the boundary values outside
// the sampled span. The solution is reported at the input sample instants
// so the two integration strategies compare sample for sample.
type RateEquation struct {
	// Tol is the per-step absolute error target. Zero selects 1e-6.
	Tol float64
	// MaxSteps bounds the solver steps across the whole window. Zero
	// selects 100000.
	MaxSteps int
}

func (RateEquation) Name() string { return "rate" }

func (r RateEquation) Integrate(times, currentA []float64, capacityAh, initialSOC float64) (model.SOCTrajectory, error) {
	if err := checkInputs(times, currentA, capacityAh); err != nil {
		return model.SOCTrajectory{}, err
	}
	tol := r.Tol
	if tol <= 0 {
		tol = defaultTol
	}
	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	var current interp.PiecewiseLinear
	if err := current.Fit(times, currentA); err != nil {
		return model.SOCTrajectory{}, fmt.Errorf("soc: fitting current signal: %w", err)
	}
	deriv := func(t, _ float64) float64 {
		i := current.Predict(t)
		if i < 0 {
			i = 0
		}
		return -i / (model.SecondsPerHour * capacityAh)
	}
	values, err := rateSolve(times, clamp01(initialSOC), deriv, tol, maxSteps)
	if err != nil {
		return model.SOCTrajectory{}, err
	}
	for i, v := range values {
		values[i] = clamp01(v)
	}
	// integration error can leave sub-tolerance upward wiggles; the curve
	// must stay non-increasing for a non-negative current signal
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			values[i] = values[i-1]
		}
	}
	return model.SOCTrajectory{
		Times:  append([]float64(nil), times...),
		Values: values,
	}, nil
}

// solveRKF45 integrates y' = f(t, y) over the sample instants with the
// Fehlberg 4(5) embedded pair: the fifth-order solution advances the state,
// the fourth-order one estimates the local error. It fails with
// ErrSolverFailure when the step budget runs out or the step size
// underflows while rejecting.
func solveRKF45(times []float64, y0 float64, f func(t, y float64) float64, tol float64, maxSteps int) ([]float64, error) {
	out := make([]float64, len(times))
	out[0] = y0
	span := times[len(times)-1] - times[0]
	h := span / 100
	hMin := span * 1e-12
	t, y := times[0], y0
	steps := 0
	for k := 1; k < len(times); k++ {
		target := times[k]
		for t < target {
			if steps >= maxSteps {
				return nil, fmt.Errorf("%w: step budget %d exhausted at t=%g s", ErrSolverFailure, maxSteps, t)
			}
			steps++
			hs := math.Min(h, target-t)
			yNext, errEst := rkf45Step(t, y, hs, f)
			if errEst <= tol {
				t += hs
				y = yNext
				if errEst == 0 {
					h = hs * 4
				} else {
					h = hs * math.Min(4, 0.84*math.Pow(tol/errEst, 0.25))
				}
				continue
			}
			h = hs * math.Max(0.1, 0.84*math.Pow(tol/errEst, 0.25))
			if h < hMin {
				return nil, fmt.Errorf("%w: step size underflow at t=%g s", ErrSolverFailure, t)
			}
		}
		out[k] = y
	}
	return out, nil
}

// rkf45Step advances y by one step of size h, returning the fifth-order
// solution and the local error estimate |y5 - y4|.
func rkf45Step(t, y, h float64, f func(t, y float64) float64) (yNext, errEst float64) {
	k1 := f(t, y)
	k2 := f(t+h/4, y+h*k1/4)
	k3 := f(t+3*h/8, y+h*(3*k1+9*k2)/32)
	k4 := f(t+12*h/13, y+h*(1932*k1-7200*k2+7296*k3)/2197)
	k5 := f(t+h, y+h*(439.0/216*k1-8*k2+3680.0/513*k3-845.0/4104*k4))
	k6 := f(t+h/2, y+h*(-8.0/27*k1+2*k2-3544.0/2565*k3+1859.0/4104*k4-11.0/40*k5))
	y4 := y + h*(25.0/216*k1+1408.0/2565*k3+2197.0/4104*k4-k5/5)
	y5 := y + h*(16.0/135*k1+6656.0/12825*k3+28561.0/56430*k4-9.0/50*k5+2.0/55*k6)
	return y5, math.Abs(y5 - y4)
}
