package sensitivity

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lmercat/socsim/core/logger"
	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/power"
	"github.com/lmercat/socsim/core/schedule"
	"github.com/lmercat/socsim/core/sim"
	"github.com/lmercat/socsim/core/sink"
)

// Runner executes the pipeline once per variant and derives baseline deltas
// and a population summary. Variants are independent, so they run on a
// bounded worker pool; a failing variant carries its error in the result
// and never aborts the others.
type Runner struct {
	Models     []power.Model
	Schedule   *schedule.Schedule
	Timeline   model.Timeline
	VoltageV   float64
	Capacity   model.Capacity
	InitialSOC float64
	Thresholds []float64
	Method     sim.IntegrationMethod

	SolverTol      float64
	SolverMaxSteps int

	// Baseline names the variant deltas are computed against. Empty selects
	// the first variant.
	Baseline string
	// SummaryThreshold selects which threshold's depletion times feed the
	// population summary. Zero selects the first configured threshold.
	SummaryThreshold float64
	// Workers bounds concurrent variant runs. Zero or negative selects
	// GOMAXPROCS.
	Workers int

	// Sink receives per-variant results and the summary. Nil disables
	// recording. Sink errors are logged, never fatal.
	Sink sink.ResultSink
	Log  logger.Logger
}

// Run executes every variant and returns their results in declaration
// order together with the population summary.
func (r *Runner) Run(ctx context.Context, variants []Variant) ([]model.ScenarioResult, model.Summary, error) {
	if len(variants) == 0 {
		return nil, model.Summary{}, fmt.Errorf("sensitivity: no variants to run")
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]model.ScenarioResult, len(variants))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(i int, v Variant) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				scale, fade := r.effective(v)
				results[i] = model.ScenarioResult{Variant: v.Name, Scale: scale, Fade: fade, Err: err}
				return
			}
			results[i] = r.runVariant(v)
		}(i, v)
	}
	wg.Wait()

	baseline := r.Baseline
	if baseline == "" {
		baseline = variants[0].Name
	}
	r.applyBaseline(results, baseline)

	threshold := r.SummaryThreshold
	if threshold == 0 && len(r.Thresholds) > 0 {
		threshold = r.Thresholds[0]
	}
	summary := Summarize(results, threshold)

	r.record(results, summary)
	return results, summary, ctx.Err()
}

// effective resolves the variant knobs against the runner's base scenario.
// Zero means unchanged: the variant inherits a unit scale and the base fade.
func (r *Runner) effective(v Variant) (scale, fade float64) {
	scale, fade = v.Scale, v.Fade
	if scale == 0 {
		scale = 1
	}
	if fade == 0 {
		fade = r.Capacity.Fade
	}
	return scale, fade
}

func (r *Runner) runVariant(v Variant) model.ScenarioResult {
	start := time.Now()
	scale, fade := r.effective(v)
	res := model.ScenarioResult{Variant: v.Name, Scale: scale, Fade: fade}
	scaled := make([]power.Model, len(r.Models))
	for i, m := range r.Models {
		scaled[i] = m.Scaled(v.scaleFor(m.Component()))
	}
	s := &sim.Simulator{
		Models:         scaled,
		Schedule:       r.Schedule,
		VoltageV:       r.VoltageV,
		Capacity:       model.Capacity{NominalAh: r.Capacity.NominalAh, Fade: fade},
		InitialSOC:     r.InitialSOC,
		Thresholds:     r.Thresholds,
		Method:         r.Method,
		SolverTol:      r.SolverTol,
		SolverMaxSteps: r.SolverMaxSteps,
		Log:            r.Log,
	}
	run, err := s.Run(r.Timeline)
	res.DurationS = time.Since(start).Seconds()
	if err != nil {
		res.Err = fmt.Errorf("variant %s: %w", v.Name, err)
		return res
	}
	res.ID = run.ID
	res.MeanPowerW = run.MeanPowerW
	res.MeanCurrentA = run.MeanCurrentA
	res.Estimates = run.Estimates
	res.Diagnostics = run.Diagnostics
	return res
}

// applyBaseline fills the percentage deltas of every healthy result
// relative to the named baseline variant.
func (r *Runner) applyBaseline(results []model.ScenarioResult, baseline string) {
	var base *model.ScenarioResult
	for i := range results {
		if results[i].Variant == baseline {
			base = &results[i]
			break
		}
	}
	if base == nil || base.Err != nil {
		r.warnf("baseline variant %q unavailable, deltas not computed", baseline)
		return
	}
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		if base.MeanPowerW != 0 {
			res.DeltaPowerPct = (res.MeanPowerW - base.MeanPowerW) / base.MeanPowerW * 100
		}
		res.DeltaTimePct = make(map[float64]float64, len(res.Estimates))
		for th, est := range res.Estimates {
			ref, ok := base.Estimates[th]
			if !ok || ref.Method == model.MethodUnavailable || est.Method == model.MethodUnavailable || ref.Seconds == 0 {
				continue
			}
			res.DeltaTimePct[th] = (est.Seconds - ref.Seconds) / ref.Seconds * 100
		}
	}
}

// Summarize aggregates the depletion times of one threshold across the
// variant population. Failed variants and unavailable estimates are left
// out; the standard deviation of a single sample is zero.
func Summarize(results []model.ScenarioResult, threshold float64) model.Summary {
	sum := model.Summary{Threshold: threshold}
	var times []float64
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		est, ok := res.Estimates[threshold]
		if !ok || est.Method == model.MethodUnavailable {
			continue
		}
		times = append(times, est.Seconds)
	}
	sum.Count = len(times)
	if len(times) == 0 {
		return sum
	}
	sum.MinSeconds = floats.Min(times)
	sum.MaxSeconds = floats.Max(times)
	sum.MeanSeconds = stat.Mean(times, nil)
	if len(times) > 1 {
		sum.StdDevSeconds = stat.StdDev(times, nil)
	}
	if sum.MeanSeconds != 0 {
		sum.CoeffVar = sum.StdDevSeconds / sum.MeanSeconds
	}
	return sum
}

func (r *Runner) record(results []model.ScenarioResult, summary model.Summary) {
	if r.Sink == nil {
		return
	}
	for _, res := range results {
		if err := r.Sink.RecordRun(res); err != nil {
			r.warnf("recording %s: %v", res.Variant, err)
		}
	}
	if err := r.Sink.RecordSummary(summary); err != nil {
		r.warnf("recording summary: %v", err)
	}
}

func (r *Runner) warnf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Warnf(format, args...)
	}
}
