package soc

import (
	"fmt"

	"github.com/lmercat/socsim/core/model"
)

// Depletion estimates the elapsed time until the trajectory reaches the
// given SOC threshold. A crossing inside the simulated window is located by
// linear interpolation between the two bracketing samples and tagged
// interpolated. When the threshold is never reached, the estimate assumes
// the mean of the positive current samples persists indefinitely:
//
//	t = (SOC0 - threshold) * 3600 * C / meanPositiveCurrent
//
// and is tagged extrapolated. The mean-draw assumption can disagree with
// the trailing discharge rate of a bursty load; the tag lets consumers
// weigh that. With no positive current samples at all the estimate is
// unavailable and ErrNoPositiveCurrent is returned.
//
// The function is pure: estimating never mutates the trajectory, so repeated
// calls return identical results.
func Depletion(traj model.SOCTrajectory, threshold, capacityAh float64, currentA []float64) (model.DepletionEstimate, error) {
	est := model.DepletionEstimate{Threshold: threshold, Method: model.MethodUnavailable}
	if len(traj.Times) == 0 || len(traj.Times) != len(traj.Values) {
		return est, fmt.Errorf("soc: trajectory has %d times and %d values", len(traj.Times), len(traj.Values))
	}
	start := traj.Times[0]
	for i, v := range traj.Values {
		if v > threshold {
			continue
		}
		est.Method = model.MethodInterpolated
		if i == 0 {
			est.Seconds = 0
			return est, nil
		}
		prevT, curT := traj.Times[i-1], traj.Times[i]
		prevV, curV := traj.Values[i-1], v
		if prevV-curV <= 0 {
			// flat or non-decreasing segment, the threshold was reached no
			// later than its start
			est.Seconds = prevT - start
			return est, nil
		}
		frac := (prevV - threshold) / (prevV - curV)
		est.Seconds = prevT + frac*(curT-prevT) - start
		return est, nil
	}

	var sum float64
	var n int
	for _, a := range currentA {
		if a > 0 {
			sum += a
			n++
		}
	}
	if n == 0 || sum <= 0 {
		return est, ErrNoPositiveCurrent
	}
	mean := sum / float64(n)
	est.Seconds = (traj.Values[0] - threshold) * model.SecondsPerHour * capacityAh / mean
	est.Method = model.MethodExtrapolated
	return est, nil
}
