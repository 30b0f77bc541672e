// Package sim wires schedule, power models and integrators into the full
// drain pipeline.
package sim

import (
	"fmt"

	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/power"
)

const (
	// minPowerW floors the aggregate draw so the derived current never
	// reaches zero and downstream divisions stay finite.
	minPowerW = 1e-6
	// minVoltageV guards the power to current conversion.
	minVoltageV = 1e-6
)

// Aggregate sums the per-component draws at every instant and converts the
// total to current at the working voltage. Negative model outputs are
// clamped to zero before summing, the total is floored at minPowerW, and
// the voltage at minVoltageV. Components absent from states stay in their
// off state for the whole window.
func Aggregate(tl model.Timeline, models []power.Model, states map[string][]power.State, voltageV float64) (model.LoadTrace, error) {
	if err := tl.Validate(); err != nil {
		return model.LoadTrace{}, err
	}
	if voltageV < minVoltageV {
		voltageV = minVoltageV
	}
	trace := model.LoadTrace{
		Times:      append([]float64(nil), tl...),
		PowerW:     make([]float64, len(tl)),
		CurrentA:   make([]float64, len(tl)),
		Components: make(map[string][]float64, len(models)),
	}
	for _, m := range models {
		name := m.Component()
		if _, dup := trace.Components[name]; dup {
			return model.LoadTrace{}, fmt.Errorf("duplicate component model %q", name)
		}
		seq := states[name]
		comp := make([]float64, len(tl))
		for i := range tl {
			var st power.State
			if i < len(seq) {
				st = seq[i]
			}
			p := m.Power(st)
			if p < 0 {
				p = 0
			}
			comp[i] = p
			trace.PowerW[i] += p
		}
		trace.Components[name] = comp
	}
	for i, p := range trace.PowerW {
		if p < minPowerW {
			p = minPowerW
			trace.PowerW[i] = p
		}
		trace.CurrentA[i] = p / voltageV
	}
	return trace, nil
}
