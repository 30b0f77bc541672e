package app

import (
	"fmt"
	"math/rand"

	"github.com/lmercat/socsim/config"
	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/power"
	"github.com/lmercat/socsim/core/schedule"
	"github.com/lmercat/socsim/core/sensitivity"
	"github.com/lmercat/socsim/core/sim"
	coresink "github.com/lmercat/socsim/core/sink"
	"github.com/lmercat/socsim/infra/logger"
	_ "github.com/lmercat/socsim/infra/sink" // register the result sinks
)

// App assembles the simulation inputs from the configuration: the sampling
// timeline, the component models, the usage schedule and the result sink.
type App struct {
	Cfg      *config.Config
	Timeline model.Timeline
	Models   []power.Model
	Schedule *schedule.Schedule
	Sink     coresink.ResultSink
	Log      logger.Logger

	// PromListen is the listen address of the configured Prometheus sink,
	// empty when none is configured.
	PromListen string
}

// New builds an App from the configuration.
func New(cfg *config.Config) (*App, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("app")

	tl, err := cfg.Simulation.BuildTimeline()
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	models, err := cfg.Components.Build()
	if err != nil {
		return nil, err
	}
	sched, err := cfg.Schedule.Build()
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	if frac := cfg.Simulation.Noise.Frac; frac > 0 {
		rng := rand.New(rand.NewSource(cfg.Simulation.Noise.Seed))
		sched = sched.Jitter(rng, frac)
		logg.Debugf("schedule jittered with frac=%v seed=%d", frac, cfg.Simulation.Noise.Seed)
	}
	snk, err := coresink.New(cfg.Sinks)
	if err != nil {
		return nil, fmt.Errorf("sinks: %w", err)
	}

	a := &App{Cfg: cfg, Timeline: tl, Models: models, Schedule: sched, Sink: snk, Log: logg}
	for _, mc := range cfg.Sinks {
		if mc.Type == "prometheus" {
			if addr, ok := mc.Conf["listen"].(string); ok {
				a.PromListen = addr
			}
		}
	}
	return a, nil
}

// Simulator returns a single-scenario simulator over the assembled inputs.
func (a *App) Simulator() *sim.Simulator {
	sc := a.Cfg.Simulation
	return &sim.Simulator{
		Models:         a.Models,
		Schedule:       a.Schedule,
		VoltageV:       sc.VoltageV,
		Capacity:       sc.Capacity(),
		InitialSOC:     sc.InitialSOC,
		Thresholds:     sc.Thresholds,
		Method:         sc.IntegrationMethod(),
		SolverTol:      sc.SolverTol,
		SolverMaxSteps: sc.SolverMaxSteps,
		Log:            logger.New("sim"),
	}
}

// Runner returns a sensitivity runner sharing the assembled base scenario.
func (a *App) Runner() *sensitivity.Runner {
	sc := a.Cfg.Simulation
	return &sensitivity.Runner{
		Models:           a.Models,
		Schedule:         a.Schedule,
		Timeline:         a.Timeline,
		VoltageV:         sc.VoltageV,
		Capacity:         sc.Capacity(),
		InitialSOC:       sc.InitialSOC,
		Thresholds:       sc.Thresholds,
		Method:           sc.IntegrationMethod(),
		SolverTol:        sc.SolverTol,
		SolverMaxSteps:   sc.SolverMaxSteps,
		Baseline:         a.Cfg.Sensitivity.Baseline,
		SummaryThreshold: a.Cfg.Sensitivity.SummaryThreshold,
		Workers:          a.Cfg.Sensitivity.Workers,
		Sink:             a.Sink,
		Log:              logger.New("sweep"),
	}
}

// Close flushes and releases the configured sink.
func (a *App) Close() error { return a.Sink.Close() }
