package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/lmercat/socsim/core/logger"
	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/power"
	"github.com/lmercat/socsim/core/schedule"
	"github.com/lmercat/socsim/core/soc"
)

// IntegrationMethod selects the SOC integration strategy.
type IntegrationMethod string

const (
	MethodCoulomb IntegrationMethod = "coulomb"
	MethodRate    IntegrationMethod = "rate"
)

// Simulator runs the drain pipeline for one scenario: schedule evaluation,
// component power, load aggregation, SOC integration and depletion
// estimation. A Simulator is cheap to build and safe to reuse; Run itself
// only reads the configured fields.
type Simulator struct {
	Models     []power.Model
	Schedule   *schedule.Schedule
	VoltageV   float64
	Capacity   model.Capacity
	InitialSOC float64
	// Thresholds lists the SOC levels to estimate depletion for.
	Thresholds []float64
	// Method selects the integrator; empty defaults to Coulomb counting.
	Method IntegrationMethod
	// SolverTol and SolverMaxSteps tune the rate-equation integrator.
	SolverTol      float64
	SolverMaxSteps int
	// Log may be nil, in which case the simulator stays silent.
	Log logger.Logger
}

// Run executes the pipeline over the timeline. Recoverable conditions
// (schedule overlaps, a solver fallback, thresholds without an estimate)
// are reported as diagnostics on the result; only unusable inputs fail the
// run.
func (s *Simulator) Run(tl model.Timeline) (*model.RunResult, error) {
	if err := s.Capacity.Validate(); err != nil {
		return nil, err
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	if s.Schedule == nil {
		return nil, errors.New("sim: no schedule configured")
	}
	initial := s.InitialSOC
	if initial < 0 {
		initial = 0
	}
	if initial > 1 {
		initial = 1
	}

	diags := s.tableDiags()
	states, schedDiags := s.Schedule.Evaluate(tl)
	diags = append(diags, schedDiags...)
	for _, d := range diags {
		s.warnf("%s: %s", d.Code, d.Message)
	}

	trace, err := Aggregate(tl, s.Models, states, s.VoltageV)
	if err != nil {
		return nil, err
	}

	capacityAh := s.Capacity.EffectiveAh()
	integ := s.integrator()
	traj, err := integ.Integrate(trace.Times, trace.CurrentA, capacityAh, initial)
	if errors.Is(err, soc.ErrSolverFailure) {
		d := model.Diagnostic{
			Severity: model.SeverityWarning,
			Code:     model.DiagSolverFallback,
			Message:  fmt.Sprintf("%s integrator failed (%v), falling back to coulomb counting", integ.Name(), err),
		}
		diags = append(diags, d)
		s.warnf("%s: %s", d.Code, d.Message)
		traj, err = soc.CoulombCounter{}.Integrate(trace.Times, trace.CurrentA, capacityAh, initial)
	}
	if err != nil {
		return nil, err
	}

	res := &model.RunResult{
		ID:           uuid.NewString(),
		SOC:          traj,
		Estimates:    make(map[float64]model.DepletionEstimate, len(s.Thresholds)),
		MeanPowerW:   stat.Mean(trace.PowerW, nil),
		MeanCurrentA: stat.Mean(trace.CurrentA, nil),
		EnergyWh:     integrate.Trapezoidal(trace.Times, trace.PowerW) / model.SecondsPerHour,
		ChargeAh:     integrate.Trapezoidal(trace.Times, trace.CurrentA) / model.SecondsPerHour,
		Diagnostics:  diags,
	}

	for _, th := range s.Thresholds {
		est, err := soc.Depletion(traj, th, capacityAh, trace.CurrentA)
		if err != nil {
			if errors.Is(err, soc.ErrNoPositiveCurrent) {
				// fatal for this threshold only, the others still estimate
				s.warnf("threshold %.2f: %v", th, err)
				res.Estimates[th] = est
				continue
			}
			return nil, err
		}
		res.Estimates[th] = est
	}
	return res, nil
}

// Trace exposes the aggregated load for callers that want the per-component
// breakdown without rerunning the pipeline.
func (s *Simulator) Trace(tl model.Timeline) (model.LoadTrace, error) {
	if err := tl.Validate(); err != nil {
		return model.LoadTrace{}, err
	}
	if s.Schedule == nil {
		return model.LoadTrace{}, errors.New("sim: no schedule configured")
	}
	states, _ := s.Schedule.Evaluate(tl)
	return Aggregate(tl, s.Models, states, s.VoltageV)
}

// calibrated is implemented by models whose draw comes from fitted tables.
type calibrated interface {
	DegenerateTables() []string
}

// tableDiags reports every calibration table that degenerated to a
// constant, so a run's result shows when a model stopped tracking its
// operating point.
func (s *Simulator) tableDiags() []model.Diagnostic {
	var diags []model.Diagnostic
	for _, m := range s.Models {
		c, ok := m.(calibrated)
		if !ok {
			continue
		}
		for _, name := range c.DegenerateTables() {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityWarning,
				Code:     model.DiagDegenerateTable,
				Message:  fmt.Sprintf("%s %s table has a single point and evaluates to a constant", m.Component(), name),
			})
		}
	}
	return diags
}

func (s *Simulator) integrator() soc.Integrator {
	if s.Method == MethodRate {
		return soc.RateEquation{Tol: s.SolverTol, MaxSteps: s.SolverMaxSteps}
	}
	return soc.CoulombCounter{}
}

func (s *Simulator) warnf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Warnf(format, args...)
	}
}
