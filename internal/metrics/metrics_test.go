package metrics

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	if c.GetRunID() == "" {
		t.Error("Expected non-empty run ID")
	}

	c.SetConfigMap(map[string]interface{}{
		"corpus": "poems",
		"table":  "poems_full.csv",
	})

	c.StartStage("segment")
	time.Sleep(10 * time.Millisecond)
	c.EndStage("segment")
	c.SetStageCounter("segment", "records", 100)

	c.StartStage("merge")
	c.SetStageCounter("merge", "updated", 98)
	c.SetStageCounter("merge", "skipped", 2)
	c.EndStage("merge")

	// counters on an unknown stage are ignored
	c.SetStageCounter("nope", "x", 1)

	metrics := c.Finalize(100, 98, 2)

	if metrics.RunID == "" {
		t.Error("Expected non-empty run ID in metrics")
	}
	if metrics.Totals.RecordsWritten != 100 {
		t.Errorf("Expected 100 records, got %d", metrics.Totals.RecordsWritten)
	}
	if metrics.Totals.RowsSkipped != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", metrics.Totals.RowsSkipped)
	}
	if _, ok := metrics.Stages["nope"]; ok {
		t.Error("unknown stage should not be created")
	}

	if c.StageCounter("segment", "records") != 100 {
		t.Errorf("records counter = %d, want 100", c.StageCounter("segment", "records"))
	}
	if c.StageCounter("merge", "missing") != 0 {
		t.Error("unset counter should read as 0")
	}

	if d := c.GetStageDuration("segment"); d < 10*time.Millisecond {
		t.Errorf("segment duration = %v, want >= 10ms", d)
	}
	if d := c.GetStageDuration("never"); d != 0 {
		t.Errorf("unknown stage duration = %v, want 0", d)
	}
}

func TestStagesOrder(t *testing.T) {
	c := NewCollector()
	for _, name := range []string{"segment", "load", "merge", "write"} {
		c.StartStage(name)
		c.EndStage(name)
	}

	stages := c.Stages()
	if len(stages) != 4 {
		t.Fatalf("got %d stages, want 4", len(stages))
	}
	if stages[0].Name != "segment" || stages[3].Name != "write" {
		t.Errorf("stages out of order: %s .. %s", stages[0].Name, stages[3].Name)
	}
}

func TestCounterNames(t *testing.T) {
	s := &StageMetrics{Counters: map[string]int64{"updated": 1, "skipped": 2, "malformed_verse": 3}}
	names := s.CounterNames()
	want := []string{"malformed_verse", "skipped", "updated"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("CounterNames = %v, want %v", names, want)
			break
		}
	}
}

func TestRunMetricsJSON(t *testing.T) {
	c := NewCollector()
	c.StartStage("write")
	c.EndStage("write")

	data, err := json.Marshal(c.Finalize(3, 2, 1))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	totals, ok := decoded["totals"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected totals object")
	}
	if totals["records_written"] != float64(3) {
		t.Errorf("records_written = %v, want 3", totals["records_written"])
	}
}
