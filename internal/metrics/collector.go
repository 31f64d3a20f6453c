// Package metrics records per-stage timings and counters for a run.
package metrics

import (
	"crypto/rand"
	"encoding/hex"
	"runtime"
	"sort"
	"time"
)

// StageMetrics holds metrics for a single pipeline stage.
type StageMetrics struct {
	Name       string           `json:"name"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	DurationMs int64            `json:"duration_ms"`
	Counters   map[string]int64 `json:"counters,omitempty"`
}

// RunMetrics holds all metrics for a complete run.
type RunMetrics struct {
	RunID       string                   `json:"run_id"`
	Timestamp   time.Time                `json:"timestamp"`
	Config      map[string]interface{}   `json:"config"`
	Stages      map[string]*StageMetrics `json:"stages"`
	Totals      *TotalMetrics            `json:"totals"`
	Environment *EnvironmentInfo         `json:"environment"`
}

// TotalMetrics holds aggregate metrics.
type TotalMetrics struct {
	DurationMs     int64   `json:"duration_ms"`
	PeakMemoryMB   float64 `json:"peak_memory_mb"`
	RecordsWritten int64   `json:"records_written"`
	RowsUpdated    int64   `json:"rows_updated"`
	RowsSkipped    int64   `json:"rows_skipped"`
}

// EnvironmentInfo holds system environment details.
type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
}

// Collector collects metrics during a run. It is not safe for concurrent use.
type Collector struct {
	runID      string
	startTime  time.Time
	config     map[string]interface{}
	stages     map[string]*StageMetrics
	order      []string
	peakMemory uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		runID:     generateRunID(),
		startTime: time.Now(),
		config:    make(map[string]interface{}),
		stages:    make(map[string]*StageMetrics),
	}
}

func generateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return timestamp + "-" + hex.EncodeToString(bytes)
}

// SetConfigMap stores configuration values for the run.
func (c *Collector) SetConfigMap(config map[string]interface{}) {
	for k, v := range config {
		c.config[k] = v
	}
}

// StartStage begins timing a stage.
func (c *Collector) StartStage(name string) {
	if _, ok := c.stages[name]; !ok {
		c.order = append(c.order, name)
	}
	c.stages[name] = &StageMetrics{
		Name:      name,
		StartTime: time.Now(),
		Counters:  make(map[string]int64),
	}
	c.updatePeakMemory()
}

// EndStage completes timing for a stage.
func (c *Collector) EndStage(name string) {
	if stage, ok := c.stages[name]; ok {
		stage.EndTime = time.Now()
		stage.DurationMs = stage.EndTime.Sub(stage.StartTime).Milliseconds()
	}
	c.updatePeakMemory()
}

// SetStageCounter sets a counter for a specific stage.
func (c *Collector) SetStageCounter(stage, name string, value int64) {
	if s, ok := c.stages[stage]; ok {
		s.Counters[name] = value
	}
}

// StageCounter returns a counter value, or 0 if unset.
func (c *Collector) StageCounter(stage, name string) int64 {
	if s, ok := c.stages[stage]; ok {
		return s.Counters[name]
	}
	return 0
}

// Stages returns stage metrics in the order the stages were started.
func (c *Collector) Stages() []*StageMetrics {
	out := make([]*StageMetrics, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.stages[name])
	}
	return out
}

// CounterNames returns a stage's counter names sorted.
func (s *StageMetrics) CounterNames() []string {
	names := make([]string, 0, len(s.Counters))
	for k := range s.Counters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (c *Collector) updatePeakMemory() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.Alloc > c.peakMemory {
		c.peakMemory = m.Alloc
	}
}

// Finalize creates the final RunMetrics report.
func (c *Collector) Finalize(recordsWritten, rowsUpdated, rowsSkipped int64) *RunMetrics {
	c.updatePeakMemory()

	return &RunMetrics{
		RunID:     c.runID,
		Timestamp: c.startTime,
		Config:    c.config,
		Stages:    c.stages,
		Totals: &TotalMetrics{
			DurationMs:     time.Since(c.startTime).Milliseconds(),
			PeakMemoryMB:   float64(c.peakMemory) / 1024 / 1024,
			RecordsWritten: recordsWritten,
			RowsUpdated:    rowsUpdated,
			RowsSkipped:    rowsSkipped,
		},
		Environment: &EnvironmentInfo{
			GoVersion: runtime.Version(),
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
		},
	}
}

// GetRunID returns the run identifier.
func (c *Collector) GetRunID() string {
	return c.runID
}

// GetStageDuration returns the duration of a completed stage.
func (c *Collector) GetStageDuration(name string) time.Duration {
	if stage, ok := c.stages[name]; ok && !stage.EndTime.IsZero() {
		return stage.EndTime.Sub(stage.StartTime)
	}
	return 0
}

// Elapsed returns the time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}
