package sink

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/infra/logger"
)

// MQTTConfig defines the connection parameters for the MQTT result sink.
type MQTTConfig struct {
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	BaseTopic string `json:"base_topic"`
	QoS       byte   `json:"qos"`
}

// mqttClient is the subset of the Paho client the sink uses.
type mqttClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) mqttClient {
	return paho.NewClient(opts)
}

// MQTTSink publishes results as JSON messages under a base topic:
// <base>/runs, <base>/trajectories and <base>/summary. Consumers such as
// dashboards subscribe to the subtopics they care about.
type MQTTSink struct {
	cli   mqttClient
	base  string
	qos   byte
	log   logger.Logger
	await time.Duration
}

// NewMQTTSink connects to the broker and returns the sink.
func NewMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt sink: no broker configured")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "socsim-" + uuid.NewString()[:8]
	}
	base := cfg.BaseTopic
	if base == "" {
		base = "socsim"
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(clientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	log := logger.New("mqtt-sink")
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTSink{cli: cli, base: base, qos: cfg.QoS, log: log, await: 5 * time.Second}, nil
}

type estimatePayload struct {
	Threshold float64 `json:"threshold"`
	Seconds   float64 `json:"seconds"`
	Hours     float64 `json:"hours"`
	Method    string  `json:"method"`
}

type runPayload struct {
	ID            string             `json:"id,omitempty"`
	Variant       string             `json:"variant"`
	Scale         float64            `json:"scale"`
	Fade          float64            `json:"fade"`
	MeanPowerW    float64            `json:"mean_power_w"`
	MeanCurrentA  float64            `json:"mean_current_a"`
	DurationS     float64            `json:"duration_s,omitempty"`
	DeltaPowerPct float64            `json:"delta_power_pct"`
	Estimates     []estimatePayload  `json:"estimates,omitempty"`
	Diagnostics   []string           `json:"diagnostics,omitempty"`
	DeltaTimePct  map[string]float64 `json:"delta_time_pct,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type trajectoryPayload struct {
	RunID   string    `json:"run_id"`
	Variant string    `json:"variant"`
	Times   []float64 `json:"times_s"`
	Values  []float64 `json:"soc"`
}

type summaryPayload struct {
	Threshold     float64 `json:"threshold"`
	Count         int     `json:"count"`
	MinSeconds    float64 `json:"min_s"`
	MaxSeconds    float64 `json:"max_s"`
	MeanSeconds   float64 `json:"mean_s"`
	StdDevSeconds float64 `json:"stddev_s"`
	CoeffVar      float64 `json:"cv"`
}

// RecordRun publishes the variant outcome.
func (s *MQTTSink) RecordRun(res model.ScenarioResult) error {
	p := runPayload{
		ID:            res.ID,
		Variant:       res.Variant,
		Scale:         res.Scale,
		Fade:          res.Fade,
		MeanPowerW:    res.MeanPowerW,
		MeanCurrentA:  res.MeanCurrentA,
		DurationS:     res.DurationS,
		DeltaPowerPct: res.DeltaPowerPct,
	}
	for _, th := range sortedThresholds(res.Estimates) {
		est := res.Estimates[th]
		p.Estimates = append(p.Estimates, estimatePayload{
			Threshold: th,
			Seconds:   est.Seconds,
			Hours:     est.Hours(),
			Method:    est.Method.String(),
		})
	}
	for _, d := range res.Diagnostics {
		p.Diagnostics = append(p.Diagnostics, d.Code)
	}
	if len(res.DeltaTimePct) > 0 {
		p.DeltaTimePct = make(map[string]float64, len(res.DeltaTimePct))
		for th, pct := range res.DeltaTimePct {
			p.DeltaTimePct[formatThreshold(th)] = pct
		}
	}
	if res.Err != nil {
		p.Error = res.Err.Error()
	}
	return s.publish(s.base+"/runs", p)
}

// RecordTrajectory publishes the full SOC curve.
func (s *MQTTSink) RecordTrajectory(runID, variant string, traj model.SOCTrajectory) error {
	return s.publish(s.base+"/trajectories", trajectoryPayload{
		RunID:   runID,
		Variant: variant,
		Times:   traj.Times,
		Values:  traj.Values,
	})
}

// RecordSummary publishes the sweep summary.
func (s *MQTTSink) RecordSummary(sum model.Summary) error {
	return s.publish(s.base+"/summary", summaryPayload{
		Threshold:     sum.Threshold,
		Count:         sum.Count,
		MinSeconds:    sum.MinSeconds,
		MaxSeconds:    sum.MaxSeconds,
		MeanSeconds:   sum.MeanSeconds,
		StdDevSeconds: sum.StdDevSeconds,
		CoeffVar:      sum.CoeffVar,
	})
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() error {
	if s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}

func (s *MQTTSink) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := s.cli.Publish(topic, s.qos, false, data)
	if !token.WaitTimeout(s.await) {
		return fmt.Errorf("mqtt sink: publish to %s timed out", topic)
	}
	return token.Error()
}
