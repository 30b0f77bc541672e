package test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmercat/socsim/app"
	"github.com/lmercat/socsim/config"
	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/runlog"
	infrasink "github.com/lmercat/socsim/infra/sink"
)

const historyConfigYAML = `
simulation:
  voltage_v: 3.8
  capacity_ah: 0.01
  initial_soc: 1.0
  thresholds: [0.2]
  timeline:
    start_s: 0
    end_s: 120
    step_s: 1
components:
  extras:
    - name: camera
      on_power_w: 1.5
schedule:
  intervals:
    - component: camera
      start_s: 0
      end_s: 120
      fields:
        "on": 1
sinks:
  - type: history
    conf:
      path: HISTORY_PATH
logging:
  level: error
`

// The full flow from a configuration file to a persisted run record:
// load, assemble, simulate, record, query back.
func TestConfigFileToRunHistory(t *testing.T) {
	dir := t.TempDir()
	histPath := filepath.Join(dir, "runs.jsonl")
	cfgPath := filepath.Join(dir, "config.yaml")
	data := strings.ReplaceAll(historyConfigYAML, "HISTORY_PATH", histPath)
	if err := os.WriteFile(cfgPath, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if _, ok := a.Sink.(*infrasink.HistorySink); !ok {
		t.Fatalf("expected *HistorySink, got %T", a.Sink)
	}

	run, err := a.Simulator().Run(a.Timeline)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	res := model.ScenarioResult{
		ID:           run.ID,
		Variant:      "baseline",
		Scale:        1,
		MeanPowerW:   run.MeanPowerW,
		MeanCurrentA: run.MeanCurrentA,
		Estimates:    run.Estimates,
		Diagnostics:  run.Diagnostics,
	}
	if err := a.Sink.RecordRun(res); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err := runlog.NewJSONLStore(histPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	recs, err := store.Query(context.Background(), runlog.RunQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Variant != "baseline" || rec.RunID != run.ID {
		t.Errorf("unexpected record identity %+v", rec)
	}
	// float64 values survive the JSON roundtrip exactly
	if rec.MeanPowerW != run.MeanPowerW {
		t.Errorf("stored mean power %v, run reported %v", rec.MeanPowerW, run.MeanPowerW)
	}
	if len(rec.Estimates) != 1 {
		t.Fatalf("expected 1 estimate, got %d", len(rec.Estimates))
	}
	est := rec.Estimates[0]
	if est.Threshold != 0.2 || est.Method != "interpolated" {
		t.Errorf("unexpected estimate %+v", est)
	}
	if est.Seconds <= 0 || est.Seconds >= 120 {
		t.Errorf("depletion %v s outside the simulated window", est.Seconds)
	}
	if est.Seconds != run.Estimates[0.2].Seconds {
		t.Errorf("stored estimate %v, run reported %v", est.Seconds, run.Estimates[0.2].Seconds)
	}
}
