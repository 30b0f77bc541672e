package sink

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/lmercat/socsim/core/model"
)

func newCaptureServer(t *testing.T, bodies *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, strings.TrimSpace(string(data)))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordRun(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(t, &bodies)

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	sink.now = func() time.Time { return now }

	res := model.ScenarioResult{
		ID:           "run-1",
		Variant:      "baseline",
		Scale:        1,
		MeanPowerW:   2.5,
		MeanCurrentA: 0.658,
		DurationS:    0.012,
		Estimates: map[float64]model.DepletionEstimate{
			0.2: {Threshold: 0.2, Seconds: 5400, Method: model.MethodInterpolated},
		},
	}
	if err := sink.RecordRun(res); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("scenario_result").
		AddTag("variant", "baseline").
		AddTag("run_id", "run-1").
		AddField("mean_power_w", 2.5).
		AddField("mean_current_a", 0.658).
		AddField("scale", 1.0).
		AddField("fade", 0.0).
		AddField("duration_s", 0.012).
		AddField("delta_power_pct", 0.0).
		SetTime(now)
	ep := write.NewPointWithMeasurement("depletion_estimate").
		AddTag("variant", "baseline").
		AddTag("run_id", "run-1").
		AddTag("threshold", "0.2").
		AddTag("method", "interpolated").
		AddField("seconds", 5400.0).
		AddField("hours", 1.5).
		SetTime(now)
	exp1 := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	exp2 := strings.TrimSpace(write.PointToLineProtocol(ep, time.Nanosecond))
	if len(bodies) != 2 || bodies[0] != exp1 || bodies[1] != exp2 {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordRunError(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(t, &bodies)

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	sink.now = func() time.Time { return now }

	res := model.ScenarioResult{Variant: "hot", Err: errors.New("voltage must be positive")}
	if err := sink.RecordRun(res); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("scenario_error").
		AddTag("variant", "hot").
		AddField("message", "voltage must be positive").
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordTrajectory(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(t, &bodies)

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	anchor := time.Now()
	sink.now = func() time.Time { return anchor }

	traj := model.SOCTrajectory{
		Times:  []float64{0, 1, 2},
		Values: []float64{1, 0.9, 0.8},
	}
	if err := sink.RecordTrajectory("run-1", "baseline", traj); err != nil {
		t.Fatalf("record error: %v", err)
	}

	var sb strings.Builder
	for i := range traj.Times {
		p := write.NewPointWithMeasurement("soc_sample").
			AddTag("variant", "baseline").
			AddTag("run_id", "run-1").
			AddField("soc", traj.Values[i]).
			AddField("sim_time_s", traj.Times[i]).
			SetTime(anchor.Add(time.Duration(traj.Times[i] * float64(time.Second))))
		sb.WriteString(write.PointToLineProtocol(p, time.Nanosecond))
	}
	exp := strings.TrimSpace(sb.String())
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordSummary(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(t, &bodies)

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	sink.now = func() time.Time { return now }

	sum := model.Summary{
		Threshold:     0.2,
		Count:         4,
		MinSeconds:    4800,
		MaxSeconds:    7200,
		MeanSeconds:   6000,
		StdDevSeconds: 900,
		CoeffVar:      0.15,
	}
	if err := sink.RecordSummary(sum); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("sweep_summary").
		AddTag("threshold", "0.2").
		AddField("count", 4).
		AddField("min_s", 4800.0).
		AddField("max_s", 7200.0).
		AddField("mean_s", 6000.0).
		AddField("stddev_s", 900.0).
		AddField("cv", 0.15).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
