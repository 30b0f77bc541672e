package e2e

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/power"
	"github.com/lmercat/socsim/core/schedule"
	"github.com/lmercat/socsim/core/sim"
	infrasink "github.com/lmercat/socsim/infra/sink"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// startInflux starts an onboarded InfluxDB 2.7 container and returns it
// along with the base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Skipf("container host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "8086")
	if err != nil {
		t.Skipf("container port: %v", err)
	}
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func waitForInfluxReady(ctx context.Context, cli *InfluxClient) bool {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if cli.Ready(ctx) {
			return true
		}
		time.Sleep(time.Second)
	}
	return false
}

func TestSimulationResultsLandInInflux(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	cli := NewInfluxClient(url, influxOrg, influxToken)
	defer cli.Close()
	if !waitForInfluxReady(ctx, cli) {
		t.Skip("influx not ready in time")
	}

	// A healthy instance must yield the real sink, not the fallback.
	snk := infrasink.NewInfluxSinkWithFallback(url, influxToken, influxOrg, influxBucket)
	sink, ok := snk.(*infrasink.InfluxSink)
	if !ok {
		t.Fatalf("expected *InfluxSink, got %T", snk)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	// A small battery drained by a constant 1.5 W camera load crosses the
	// 20% threshold well inside the sampled window. The schedule outlasts
	// the last sample so every sample sees the full load.
	tl, err := model.Uniform(0, 119, 1)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	sched, err := schedule.New(schedule.Interval{
		Start: 0, End: 120, Component: "camera", Fields: power.State{"on": 1},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	simulator := &sim.Simulator{
		Models:     []power.Model{power.Toggle{Name: "camera", OnPowerW: 1.5}},
		Schedule:   sched,
		VoltageV:   3.8,
		Capacity:   model.Capacity{NominalAh: 0.01},
		InitialSOC: 1,
		Thresholds: []float64{0.2},
	}
	run, err := simulator.Run(tl)
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
	if err := sink.RecordRun(res); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := sink.RecordTrajectory(run.ID, "baseline", run.SOC); err != nil {
		t.Fatalf("record trajectory: %v", err)
	}

	// Trajectory points are stamped up to two simulated minutes past the
	// recording anchor, so every range needs a future stop.
	flux := fmt.Sprintf(`from(bucket:"%s") |> range(start: -10m, stop: 10m)
		|> filter(fn: (r) => r._measurement == "scenario_result" and r._field == "mean_power_w")`, influxBucket)
	qr, err := cli.Query(ctx, flux)
	if err != nil {
		t.Fatalf("query results: %v", err)
	}
	found := 0
	for qr.Next() {
		found++
		if v, ok := qr.Record().Value().(float64); !ok || math.Abs(v-1.5) > 1e-6 {
			t.Errorf("unexpected mean power value %v", qr.Record().Value())
		}
	}
	if err := qr.Err(); err != nil {
		t.Fatalf("query iteration: %v", err)
	}
	if err := qr.Close(); err != nil {
		t.Fatalf("close result: %v", err)
	}
	if found != 1 {
		t.Fatalf("expected 1 scenario_result row, got %d", found)
	}

	flux = fmt.Sprintf(`from(bucket:"%s") |> range(start: -10m, stop: 10m)
		|> filter(fn: (r) => r._measurement == "depletion_estimate" and r._field == "seconds" and r.method == "interpolated")`, influxBucket)
	qr, err = cli.Query(ctx, flux)
	if err != nil {
		t.Fatalf("query estimates: %v", err)
	}
	found = 0
	for qr.Next() {
		found++
		v, ok := qr.Record().Value().(float64)
		if !ok || v <= 0 || v >= 119 {
			t.Errorf("depletion seconds %v outside the simulated window", qr.Record().Value())
		}
	}
	if err := qr.Err(); err != nil {
		t.Fatalf("query iteration: %v", err)
	}
	if err := qr.Close(); err != nil {
		t.Fatalf("close result: %v", err)
	}
	if found != 1 {
		t.Fatalf("expected 1 depletion_estimate row, got %d", found)
	}

	flux = fmt.Sprintf(`from(bucket:"%s") |> range(start: -10m, stop: 10m)
		|> filter(fn: (r) => r._measurement == "soc_sample" and r._field == "soc")`, influxBucket)
	qr, err = cli.Query(ctx, flux)
	if err != nil {
		t.Fatalf("query trajectory: %v", err)
	}
	found = 0
	for qr.Next() {
		found++
	}
	if err := qr.Err(); err != nil {
		t.Fatalf("query iteration: %v", err)
	}
	if err := qr.Close(); err != nil {
		t.Fatalf("close result: %v", err)
	}
	if want := len(run.SOC.Values); found != want {
		t.Fatalf("expected %d soc samples, got %d", want, found)
	}
}
