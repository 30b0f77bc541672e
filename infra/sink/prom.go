// Package sink provides the result sink implementations: Prometheus,
// InfluxDB and MQTT exporters for simulation outcomes. Sinks are selected
// from configuration through the core registry; importing this package for
// side effects is enough to make them available.
package sink

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lmercat/socsim/core/model"
	coresink "github.com/lmercat/socsim/core/sink"
)

// PromSink exposes simulation results as Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	depletion *prometheus.GaugeVec
	meanPower *prometheus.GaugeVec
	finalSOC  *prometheus.GaugeVec
	summary   *prometheus.GaugeVec
}

// NewPromSink registers the simulation metrics on the default Prometheus
// registerer. The metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Total number of scenario runs by outcome",
	}, []string{"variant", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_run_duration_seconds",
		Help:    "Wall-clock time spent simulating one variant",
		Buckets: prometheus.DefBuckets,
	}, []string{"variant"})
	depletion := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simulation_depletion_seconds",
		Help: "Estimated time until the SOC threshold is reached",
	}, []string{"variant", "threshold", "method"})
	meanPower := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simulation_mean_power_watts",
		Help: "Mean aggregate draw over the simulated window",
	}, []string{"variant"})
	finalSOC := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simulation_final_soc",
		Help: "State of charge at the end of the simulated window",
	}, []string{"variant"})
	summary := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweep_depletion_seconds",
		Help: "Population statistics of depletion times across variants",
	}, []string{"threshold", "stat"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(depletion); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			depletion = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(meanPower); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			meanPower = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(finalSOC); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			finalSOC = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(summary); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			summary = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		runs:      runs,
		duration:  duration,
		depletion: depletion,
		meanPower: meanPower,
		finalSOC:  finalSOC,
		summary:   summary,
	}, nil
}

// RecordRun counts the run and records its estimates and mean draw.
func (s *PromSink) RecordRun(res model.ScenarioResult) error {
	status := "ok"
	if res.Err != nil {
		status = "error"
	}
	s.runs.WithLabelValues(res.Variant, status).Inc()
	if res.DurationS > 0 {
		s.duration.WithLabelValues(res.Variant).Observe(res.DurationS)
	}
	if res.Err != nil {
		return nil
	}
	s.meanPower.WithLabelValues(res.Variant).Set(res.MeanPowerW)
	for th, est := range res.Estimates {
		if est.Method == model.MethodUnavailable {
			continue
		}
		s.depletion.WithLabelValues(res.Variant, formatThreshold(th), est.Method.String()).Set(est.Seconds)
	}
	return nil
}

// RecordTrajectory records the final SOC; the full curve belongs in a
// time-series store, not in gauges.
func (s *PromSink) RecordTrajectory(_, variant string, traj model.SOCTrajectory) error {
	if len(traj.Values) == 0 {
		return nil
	}
	s.finalSOC.WithLabelValues(variant).Set(traj.Final())
	return nil
}

// RecordSummary exports the population statistics of the sweep.
func (s *PromSink) RecordSummary(sum model.Summary) error {
	th := formatThreshold(sum.Threshold)
	s.summary.WithLabelValues(th, "min").Set(sum.MinSeconds)
	s.summary.WithLabelValues(th, "max").Set(sum.MaxSeconds)
	s.summary.WithLabelValues(th, "mean").Set(sum.MeanSeconds)
	s.summary.WithLabelValues(th, "stddev").Set(sum.StdDevSeconds)
	s.summary.WithLabelValues(th, "cv").Set(sum.CoeffVar)
	return nil
}

// Close is a no-op; collectors stay registered for the process lifetime.
func (s *PromSink) Close() error { return nil }

func formatThreshold(th float64) string {
	return fmt.Sprintf("%g", th)
}

// sortedThresholds fixes the emission order of per-threshold records.
func sortedThresholds(estimates map[float64]model.DepletionEstimate) []float64 {
	ths := make([]float64, 0, len(estimates))
	for th := range estimates {
		ths = append(ths, th)
	}
	sort.Float64s(ths)
	return ths
}

var _ coresink.ResultSink = (*PromSink)(nil)
