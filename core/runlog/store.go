// Package runlog persists scenario outcomes so past runs stay comparable
// across configuration and code changes. Stores keep one record per run;
// trajectories and population stats belong to the observability sinks.
package runlog

import (
	"context"
	"sort"
	"time"

	"github.com/lmercat/socsim/core/model"
)

// RunRecord captures one scenario outcome.
type RunRecord struct {
	Timestamp    time.Time        `json:"timestamp"`
	RunID        string           `json:"run_id"`
	Variant      string           `json:"variant"`
	Scale        float64          `json:"scale"`
	Fade         float64          `json:"fade"`
	MeanPowerW   float64          `json:"mean_power_w"`
	MeanCurrentA float64          `json:"mean_current_a"`
	DurationS    float64          `json:"duration_s,omitempty"`
	Estimates    []EstimateRecord `json:"estimates,omitempty"`
	// DeltaPowerPct is the mean power change against the sweep baseline,
	// zero for single runs and the baseline itself.
	DeltaPowerPct float64  `json:"delta_power_pct"`
	Diagnostics   []string `json:"diagnostics,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// EstimateRecord flattens one depletion estimate for storage.
type EstimateRecord struct {
	Threshold float64 `json:"threshold"`
	Seconds   float64 `json:"seconds"`
	Method    string  `json:"method"`
	DeltaPct  float64 `json:"delta_pct,omitempty"`
}

// NewRunRecord converts a scenario result into its stored form. Estimates
// are ordered by threshold so records serialize deterministically.
func NewRunRecord(res model.ScenarioResult, at time.Time) RunRecord {
	rec := RunRecord{
		Timestamp:     at,
		RunID:         res.ID,
		Variant:       res.Variant,
		Scale:         res.Scale,
		Fade:          res.Fade,
		MeanPowerW:    res.MeanPowerW,
		MeanCurrentA:  res.MeanCurrentA,
		DurationS:     res.DurationS,
		DeltaPowerPct: res.DeltaPowerPct,
	}
	ths := make([]float64, 0, len(res.Estimates))
	for th := range res.Estimates {
		ths = append(ths, th)
	}
	sort.Float64s(ths)
	for _, th := range ths {
		est := res.Estimates[th]
		rec.Estimates = append(rec.Estimates, EstimateRecord{
			Threshold: th,
			Seconds:   est.Seconds,
			Method:    est.Method.String(),
			DeltaPct:  res.DeltaTimePct[th],
		})
	}
	for _, d := range res.Diagnostics {
		rec.Diagnostics = append(rec.Diagnostics, d.Code)
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}

// RunQuery defines filters for retrieving records.
type RunQuery struct {
	Start   time.Time
	End     time.Time
	Variant string
}

func (q RunQuery) matches(rec RunRecord) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.Variant != "" && rec.Variant != q.Variant {
		return false
	}
	return true
}

// RunStore persists RunRecords and supports querying.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}
