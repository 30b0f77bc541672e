package schedule

import (
	"math/rand"
	"sort"

	"github.com/lmercat/socsim/core/power"
)

// indicatorFields carry 0/1 state-machine semantics and must never be
// jittered.
var indicatorFields = map[string]bool{
	"on":       true,
	"iface_on": true,
	"active":   true,
	"tail":     true,
	"scanning": true,
}

// Jitter returns a copy of the schedule with every numeric field perturbed
// by multiplicative Gaussian noise, v*(1+frac*N(0,1)). Indicator fields are
// left untouched. Fields are visited in sorted order so reruns with the
// same seed reproduce the exact same schedule. Out-of-range perturbations
// are tolerated: every model clamps its inputs at evaluation time.
func (s *Schedule) Jitter(rng *rand.Rand, frac float64) *Schedule {
	out := &Schedule{intervals: make([]Interval, len(s.intervals))}
	for i, iv := range s.intervals {
		fields := make(power.State, len(iv.Fields))
		keys := make([]string, 0, len(iv.Fields))
		for k := range iv.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := iv.Fields[k]
			if frac > 0 && rng != nil && !indicatorFields[k] {
				v *= 1 + frac*rng.NormFloat64()
			}
			fields[k] = v
		}
		iv.Fields = fields
		out.intervals[i] = iv
	}
	return out
}
