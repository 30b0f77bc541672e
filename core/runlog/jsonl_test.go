package runlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLStore_PersistQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recs := []RunRecord{
		{Timestamp: base, RunID: "r1", Variant: "baseline", MeanPowerW: 2.0},
		{Timestamp: base.Add(time.Hour), RunID: "r2", Variant: "heavy", MeanPowerW: 3.0},
		{Timestamp: base.Add(2 * time.Hour), RunID: "r3", Variant: "baseline", MeanPowerW: 2.1},
	}
	for _, rec := range recs {
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.Query(context.Background(), RunQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].RunID != "r1" || all[2].RunID != "r3" {
		t.Errorf("records out of append order: %v, %v", all[0].RunID, all[2].RunID)
	}

	baseline, err := store.Query(context.Background(), RunQuery{Variant: "baseline"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(baseline) != 2 {
		t.Fatalf("expected 2 baseline records, got %d", len(baseline))
	}

	recent, err := store.Query(context.Background(), RunQuery{Start: base.Add(30 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recent) != 2 || recent[0].RunID != "r2" {
		t.Fatalf("unexpected window result: %+v", recent)
	}

	windowed, err := store.Query(context.Background(), RunQuery{
		Start: base.Add(30 * time.Minute),
		End:   base.Add(90 * time.Minute),
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(windowed) != 1 || windowed[0].RunID != "r2" {
		t.Fatalf("unexpected bounded window result: %+v", windowed)
	}
}

func TestJSONLStore_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Append(context.Background(), RunRecord{RunID: "ok", Timestamp: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out, err := store.Query(context.Background(), RunQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].RunID != "ok" {
		t.Fatalf("expected the single valid record, got %+v", out)
	}
}
