package sink

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/lmercat/socsim/core/model"
	coresink "github.com/lmercat/socsim/core/sink"
	"github.com/lmercat/socsim/infra/logger"
)

// InfluxSink writes simulation results to an InfluxDB instance using the
// official client. Trajectory samples become a time series anchored at the
// moment of recording, with the simulated spacing preserved.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
	now      func() time.Time
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
		now:      time.Now,
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing database never blocks a
// simulation sweep.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coresink.ResultSink {
	s := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := s.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			s.log.Errorf("influx health check error: %v", err)
		} else {
			s.log.Errorf("influx health status: %s", health.Status)
		}
		s.client.Close()
		return coresink.NopSink{}
	}
	return s
}

// RecordRun writes the variant outcome and one point per depletion
// estimate.
func (s *InfluxSink) RecordRun(res model.ScenarioResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := s.now()
	if res.Err != nil {
		p := write.NewPointWithMeasurement("scenario_error").
			AddTag("variant", res.Variant).
			AddField("message", res.Err.Error()).
			SetTime(now)
		return s.writeAPI.WritePoint(ctx, p)
	}
	p := write.NewPointWithMeasurement("scenario_result").
		AddTag("variant", res.Variant).
		AddTag("run_id", res.ID).
		AddField("mean_power_w", round3(res.MeanPowerW)).
		AddField("mean_current_a", round3(res.MeanCurrentA)).
		AddField("scale", res.Scale).
		AddField("fade", res.Fade).
		AddField("duration_s", round3(res.DurationS)).
		AddField("delta_power_pct", round3(res.DeltaPowerPct)).
		SetTime(now)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for _, th := range sortedThresholds(res.Estimates) {
		est := res.Estimates[th]
		if est.Method == model.MethodUnavailable {
			continue
		}
		ep := write.NewPointWithMeasurement("depletion_estimate").
			AddTag("variant", res.Variant).
			AddTag("run_id", res.ID).
			AddTag("threshold", formatThreshold(th)).
			AddTag("method", est.Method.String()).
			AddField("seconds", round3(est.Seconds)).
			AddField("hours", round3(est.Hours())).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, ep); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrajectory writes the SOC curve as a series of points spaced like
// the simulated timeline.
func (s *InfluxSink) RecordTrajectory(runID, variant string, traj model.SOCTrajectory) error {
	if len(traj.Times) == 0 || len(traj.Times) != len(traj.Values) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	anchor := s.now()
	points := make([]*write.Point, len(traj.Times))
	for i := range traj.Times {
		offset := time.Duration((traj.Times[i] - traj.Times[0]) * float64(time.Second))
		points[i] = write.NewPointWithMeasurement("soc_sample").
			AddTag("variant", variant).
			AddTag("run_id", runID).
			AddField("soc", traj.Values[i]).
			AddField("sim_time_s", traj.Times[i]).
			SetTime(anchor.Add(offset))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordSummary writes the cross-variant population statistics.
func (s *InfluxSink) RecordSummary(sum model.Summary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("sweep_summary").
		AddTag("threshold", formatThreshold(sum.Threshold)).
		AddField("count", sum.Count).
		AddField("min_s", round3(sum.MinSeconds)).
		AddField("max_s", round3(sum.MaxSeconds)).
		AddField("mean_s", round3(sum.MeanSeconds)).
		AddField("stddev_s", round3(sum.StdDevSeconds)).
		AddField("cv", round3(sum.CoeffVar)).
		SetTime(s.now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
