package soc

import (
	"errors"
	"math"
	"testing"

	"github.com/lmercat/socsim/core/model"
)

func constantLoad(horizon, step, amps float64) (times, current []float64) {
	n := int(horizon/step) + 1
	times = make([]float64, n)
	current = make([]float64, n)
	for i := range times {
		times[i] = float64(i) * step
		current[i] = amps
	}
	return times, current
}

func TestCoulombConstantLoadSanity(t *testing.T) {
	// 1 Ah at a constant 0.5 A drains half the charge in exactly one hour
	times, current := constantLoad(7200, 600, 0.5)
	traj, err := CoulombCounter{}.Integrate(times, current, 1.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var at3600 float64
	for i, tau := range traj.Times {
		if tau == 3600 {
			at3600 = traj.Values[i]
		}
	}
	if math.Abs(at3600-0.5) > 1e-12 {
		t.Errorf("expected SOC 0.5 after one hour, got %v", at3600)
	}

	est, err := Depletion(traj, 0.5, 1.0, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != model.MethodInterpolated {
		t.Errorf("expected interpolated estimate, got %v", est.Method)
	}
	if math.Abs(est.Seconds-3600) > 1e-9 {
		t.Errorf("expected depletion at 3600 s, got %v", est.Seconds)
	}
	if math.Abs(est.Hours()-1.0) > 1e-12 {
		t.Errorf("expected 1.0 h, got %v", est.Hours())
	}
}

func TestCoulombClampsAndStaysMonotonic(t *testing.T) {
	// 10 A against 1 Ah exhausts the battery in six minutes
	times, current := constantLoad(3600, 60, 10)
	traj, err := CoulombCounter{}.Integrate(times, current, 1.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range traj.Values {
		if v < 0 || v > 1 {
			t.Fatalf("sample %d out of [0,1]: %v", i, v)
		}
		if i > 0 && v > traj.Values[i-1] {
			t.Fatalf("sample %d not monotonic: %v > %v", i, v, traj.Values[i-1])
		}
	}
	if traj.Final() != 0 {
		t.Errorf("expected exhausted battery, got final SOC %v", traj.Final())
	}
}

func TestRateMatchesAnalyticSolution(t *testing.T) {
	times, current := constantLoad(7200, 600, 0.5)
	traj, err := RateEquation{}.Integrate(times, current, 1.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, tau := range traj.Times {
		want := 1.0 - 0.5*tau/3600
		if want < 0 {
			want = 0
		}
		if math.Abs(traj.Values[i]-want) > 1e-6 {
			t.Errorf("t=%v: expected %v, got %v", tau, want, traj.Values[i])
		}
	}
}

func TestStrategiesAgreeOnSmoothLoad(t *testing.T) {
	// current ramps linearly from 0.1 A to 0.9 A over two hours
	times := make([]float64, 121)
	current := make([]float64, 121)
	for i := range times {
		times[i] = float64(i) * 60
		current[i] = 0.1 + 0.8*times[i]/7200
	}
	coulomb, err := CoulombCounter{}.Integrate(times, current, 2.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rate, err := RateEquation{}.Integrate(times, current, 2.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range times {
		if diff := math.Abs(coulomb.Values[i] - rate.Values[i]); diff > 0.01 {
			t.Errorf("t=%v: strategies diverge by %v", times[i], diff)
		}
	}
}

func TestIntegrateRejectsBadInputs(t *testing.T) {
	times, current := constantLoad(100, 10, 0.5)
	for _, integ := range []Integrator{CoulombCounter{}, RateEquation{}} {
		if _, err := integ.Integrate(times, current, 0, 1.0); !errors.Is(err, model.ErrNonPositiveCapacity) {
			t.Errorf("%s: expected ErrNonPositiveCapacity, got %v", integ.Name(), err)
		}
		if _, err := integ.Integrate(times, current[:len(current)-1], 1.0, 1.0); err == nil {
			t.Errorf("%s: expected error for mismatched lengths", integ.Name())
		}
		if _, err := integ.Integrate([]float64{0, 10, 5}, []float64{1, 1, 1}, 1.0, 1.0); err == nil {
			t.Errorf("%s: expected error for unsorted times", integ.Name())
		}
	}
}

func TestRateSolverFailureSurfacesSentinel(t *testing.T) {
	orig := rateSolve
	rateSolve = func([]float64, float64, func(t, y float64) float64, float64, int) ([]float64, error) {
		return nil, ErrSolverFailure
	}
	defer func() { rateSolve = orig }()

	times, current := constantLoad(100, 10, 0.5)
	_, err := RateEquation{}.Integrate(times, current, 1.0, 1.0)
	if !errors.Is(err, ErrSolverFailure) {
		t.Fatalf("expected ErrSolverFailure, got %v", err)
	}
}

func TestRateSolverStepBudget(t *testing.T) {
	times, current := constantLoad(7200, 600, 0.5)
	_, err := RateEquation{MaxSteps: 1}.Integrate(times, current, 1.0, 1.0)
	if !errors.Is(err, ErrSolverFailure) {
		t.Fatalf("expected ErrSolverFailure on a one-step budget, got %v", err)
	}
}

func TestDepletionInterpolatedCrossingLiesBetweenSamples(t *testing.T) {
	traj := model.SOCTrajectory{
		Times:  []float64{0, 100, 200, 300},
		Values: []float64{1.0, 0.8, 0.55, 0.30},
	}
	est, err := Depletion(traj, 0.5, 3.0, []float64{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != model.MethodInterpolated {
		t.Fatalf("expected interpolated, got %v", est.Method)
	}
	if est.Seconds <= 200 || est.Seconds >= 300 {
		t.Errorf("crossing %v s must lie inside (200, 300)", est.Seconds)
	}
	// 0.55 -> 0.30 over 100 s crosses 0.5 at 220 s
	if math.Abs(est.Seconds-220) > 1e-9 {
		t.Errorf("expected crossing at 220 s, got %v", est.Seconds)
	}
}

func TestDepletionExtrapolatesBeyondHorizon(t *testing.T) {
	times, current := constantLoad(3600, 600, 0.1)
	traj, err := CoulombCounter{}.Integrate(times, current, 3.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	est, err := Depletion(traj, 0.2, 3.0, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != model.MethodExtrapolated {
		t.Fatalf("expected extrapolated, got %v", est.Method)
	}
	if est.Seconds <= 3600 {
		t.Errorf("extrapolated time %v s must exceed the simulated window", est.Seconds)
	}
	// (1.0 - 0.2) * 3600 * 3 / 0.1
	if math.Abs(est.Seconds-86400) > 1e-6 {
		t.Errorf("expected 86400 s, got %v", est.Seconds)
	}
}

func TestDepletionExtrapolatesOscillatingLoad(t *testing.T) {
	// the draw swings between 0.05 A and 0.35 A; the SOC holds above 0.2
	// for the whole hour, so the 0.05 threshold can only be extrapolated
	times := make([]float64, 61)
	current := make([]float64, 61)
	for i := range times {
		times[i] = float64(i) * 60
		current[i] = 0.2 + 0.15*math.Sin(2*math.Pi*times[i]/600)
	}
	traj, err := CoulombCounter{}.Integrate(times, current, 3.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range traj.Values {
		if v < 0.2 {
			t.Fatalf("sample %d: SOC dipped to %v", i, v)
		}
	}
	est, err := Depletion(traj, 0.05, 3.0, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != model.MethodExtrapolated {
		t.Fatalf("expected extrapolated, got %v", est.Method)
	}
	if est.Seconds <= times[len(times)-1] {
		t.Errorf("extrapolated time %v s must exceed the horizon", est.Seconds)
	}
}

func TestDepletionIsIdempotent(t *testing.T) {
	times, current := constantLoad(7200, 600, 0.5)
	traj, _ := CoulombCounter{}.Integrate(times, current, 1.0, 1.0)
	first, err := Depletion(traj, 0.3, 1.0, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Depletion(traj, 0.3, 1.0, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("repeated estimation diverged: %+v vs %+v", first, second)
	}
}

func TestDepletionWithoutPositiveCurrent(t *testing.T) {
	traj := model.SOCTrajectory{
		Times:  []float64{0, 100, 200},
		Values: []float64{0.9, 0.9, 0.9},
	}
	est, err := Depletion(traj, 0.2, 3.0, []float64{0, 0, 0})
	if !errors.Is(err, ErrNoPositiveCurrent) {
		t.Fatalf("expected ErrNoPositiveCurrent, got %v", err)
	}
	if est.Method != model.MethodUnavailable {
		t.Errorf("expected unavailable estimate, got %v", est.Method)
	}
}

func TestDepletionThresholdAlreadyReached(t *testing.T) {
	traj := model.SOCTrajectory{
		Times:  []float64{50, 100},
		Values: []float64{0.15, 0.10},
	}
	est, err := Depletion(traj, 0.2, 3.0, []float64{1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Seconds != 0 || est.Method != model.MethodInterpolated {
		t.Errorf("expected immediate crossing, got %+v", est)
	}
}
