// Package sink defines where simulation results go. The numerical core
// never formats or persists anything itself; exporters implement ResultSink
// and live in infra/sink. Sinks like PromSink, InfluxSink and MQTTSink can
// be combined with NewMultiSink, and the factory helpers return a MultiSink
// automatically when several sinks are configured.
package sink

import "github.com/lmercat/socsim/core/model"

// ResultSink records simulation outcomes for observability or export.
type ResultSink interface {
	// RecordRun records the outcome of one scenario variant.
	RecordRun(res model.ScenarioResult) error
	// RecordTrajectory records the SOC curve of one run.
	RecordTrajectory(runID, variant string, traj model.SOCTrajectory) error
	// RecordSummary records the cross-variant population summary.
	RecordSummary(sum model.Summary) error
	// Close flushes buffered records and releases the sink.
	Close() error
}

// NopSink implements ResultSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(model.ScenarioResult) error { return nil }

func (NopSink) RecordTrajectory(string, string, model.SOCTrajectory) error { return nil }

func (NopSink) RecordSummary(model.Summary) error { return nil }

func (NopSink) Close() error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []ResultSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ResultSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRun(res model.ScenarioResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrajectory forwards the trajectory to all sinks.
func (m *MultiSink) RecordTrajectory(runID, variant string, traj model.SOCTrajectory) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrajectory(runID, variant, traj); err != nil {
			return err
		}
	}
	return nil
}

// RecordSummary forwards the summary to all sinks.
func (m *MultiSink) RecordSummary(sum model.Summary) error {
	for _, s := range m.Sinks {
		if err := s.RecordSummary(sum); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
