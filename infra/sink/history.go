package sink

import (
	"context"
	"errors"
	"time"

	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/core/runlog"
	coresink "github.com/lmercat/socsim/core/sink"
)

// HistorySink appends scenario outcomes to a run log so past runs stay
// comparable. Trajectories and summaries are not persisted here; curves go
// to the influx sink and population stats are recomputed from the records.
type HistorySink struct {
	store runlog.RunStore
	now   func() time.Time
}

// NewHistorySink creates a sink backed by a JSONL store at path.
func NewHistorySink(path string) (*HistorySink, error) {
	if path == "" {
		return nil, errors.New("history sink requires a path")
	}
	store, err := runlog.NewJSONLStore(path)
	if err != nil {
		return nil, err
	}
	return &HistorySink{store: store, now: time.Now}, nil
}

func (s *HistorySink) RecordRun(res model.ScenarioResult) error {
	return s.store.Append(context.Background(), runlog.NewRunRecord(res, s.now()))
}

func (s *HistorySink) RecordTrajectory(string, string, model.SOCTrajectory) error { return nil }

func (s *HistorySink) RecordSummary(model.Summary) error { return nil }

func (s *HistorySink) Close() error { return s.store.Close() }

var _ coresink.ResultSink = (*HistorySink)(nil)
