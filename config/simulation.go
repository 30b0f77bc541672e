package config

import (
	"fmt"

	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/sim"
)

// TimelineConfig defines the uniform sampling grid of a run, in seconds.
type TimelineConfig struct {
	StartS float64 `json:"start_s"`
	EndS   float64 `json:"end_s"`
	StepS  float64 `json:"step_s"`
}

// NoiseConfig drives the optional schedule jitter. A zero Frac disables it.
type NoiseConfig struct {
	Frac float64 `json:"frac"`
	Seed int64   `json:"seed"`
}

// SimulationConfig holds the battery, timeline and integration parameters.
type SimulationConfig struct {
	VoltageV   float64 `json:"voltage_v"`
	CapacityAh float64 `json:"capacity_ah"`
	// Fade is the capacity fraction lost to aging, in [0,1).
	Fade       float64   `json:"fade"`
	InitialSOC float64   `json:"initial_soc"`
	Thresholds []float64 `json:"thresholds"`
	// Method selects the integrator: "coulomb" or "rate".
	Method string `json:"method"`
	// SolverTol and SolverMaxSteps tune the rate integrator; zero keeps the
	// solver defaults.
	SolverTol      float64        `json:"solver_tol"`
	SolverMaxSteps int            `json:"solver_max_steps"`
	Timeline       TimelineConfig `json:"timeline"`
	Noise          NoiseConfig    `json:"noise"`
}

// SetDefaults fills unset fields with the reference handset battery and a
// one-hour window sampled each second. A zero initial SOC means a full
// battery.
func (c *SimulationConfig) SetDefaults() {
	if c.VoltageV == 0 {
		c.VoltageV = 3.8
	}
	if c.CapacityAh == 0 {
		c.CapacityAh = 3.0
	}
	if c.InitialSOC == 0 {
		c.InitialSOC = 1.0
	}
	if len(c.Thresholds) == 0 {
		c.Thresholds = []float64{0.2, 0.05}
	}
	if c.Method == "" {
		c.Method = string(sim.MethodCoulomb)
	}
	if c.Timeline.StepS == 0 {
		c.Timeline.StepS = 1
	}
	if c.Timeline.EndS == 0 {
		c.Timeline.EndS = c.Timeline.StartS + 3600
	}
}

// Validate checks ranges. The capacity check reuses the model sentinel so
// misconfiguration and runtime failures surface identically.
func (c SimulationConfig) Validate() error {
	if c.VoltageV <= 0 {
		return fmt.Errorf("simulation: voltage_v must be positive, got %v", c.VoltageV)
	}
	if err := c.Capacity().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.InitialSOC < 0 || c.InitialSOC > 1 {
		return fmt.Errorf("simulation: initial_soc %v outside [0,1]", c.InitialSOC)
	}
	for _, th := range c.Thresholds {
		if th <= 0 || th >= 1 {
			return fmt.Errorf("simulation: threshold %v outside (0,1)", th)
		}
	}
	switch sim.IntegrationMethod(c.Method) {
	case sim.MethodCoulomb, sim.MethodRate:
	default:
		return fmt.Errorf("simulation: unknown method %s", c.Method)
	}
	if c.Timeline.StepS <= 0 {
		return fmt.Errorf("simulation: timeline step_s must be positive, got %v", c.Timeline.StepS)
	}
	if c.Timeline.EndS <= c.Timeline.StartS {
		return fmt.Errorf("simulation: timeline end_s %v not after start_s %v", c.Timeline.EndS, c.Timeline.StartS)
	}
	if c.Noise.Frac < 0 {
		return fmt.Errorf("simulation: noise frac must not be negative, got %v", c.Noise.Frac)
	}
	return nil
}

// BuildTimeline materializes the uniform sampling grid.
func (c SimulationConfig) BuildTimeline() (model.Timeline, error) {
	return model.Uniform(c.Timeline.StartS, c.Timeline.EndS, c.Timeline.StepS)
}

// Capacity returns the battery description.
func (c SimulationConfig) Capacity() model.Capacity {
	return model.Capacity{NominalAh: c.CapacityAh, Fade: c.Fade}
}

// IntegrationMethod returns the configured integrator selector.
func (c SimulationConfig) IntegrationMethod() sim.IntegrationMethod {
	return sim.IntegrationMethod(c.Method)
}
