// Package pipeline runs one card build: segment the corpus, load the table,
// merge, and write the deck.
package pipeline

import (
	"errors"
	"fmt"

	"karuta/internal/corpus"
	"karuta/internal/merge"
	"karuta/internal/metrics"
	"karuta/internal/schema"
	"karuta/internal/table"
)

// Stage names a pipeline step. They double as metrics stage names.
type Stage string

const (
	StageSegment Stage = "segment"
	StageLoad    Stage = "load"
	StageMerge   Stage = "merge"
	StageWrite   Stage = "write"
)

// FatalError is a failure that aborts the run before output is written.
type FatalError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err aborted a run.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// Options holds the inputs of one run.
type Options struct {
	CorpusPath string
	TablePath  string
	OutputPath string
	Separator  string
	Marker     string
	Delimiter  rune
}

// Result describes a completed run.
type Result struct {
	Deck       *schema.Deck
	Stats      *merge.Stats
	OutputPath string
}

// Build segments, loads and merges without writing anything.
func Build(opts Options, reporter merge.Reporter, collector *metrics.Collector) (*Result, error) {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = table.DefaultOptions().Delimiter
	}

	collector.StartStage(string(StageSegment))
	deck, err := corpus.Load(opts.CorpusPath)
	collector.EndStage(string(StageSegment))
	if err != nil {
		return nil, &FatalError{Stage: StageSegment, Path: opts.CorpusPath, Err: err}
	}
	collector.SetStageCounter(string(StageSegment), "records", int64(deck.Len()))

	collector.StartStage(string(StageLoad))
	rows, err := table.LoadFile(opts.TablePath, table.Options{Delimiter: opts.Delimiter})
	collector.EndStage(string(StageLoad))
	if err != nil {
		return nil, &FatalError{Stage: StageLoad, Path: opts.TablePath, Err: err}
	}
	collector.SetStageCounter(string(StageLoad), "rows", int64(len(rows)))

	collector.StartStage(string(StageMerge))
	stats := merge.NewMerger(opts.Separator, opts.Marker, reporter).Merge(deck, rows)
	collector.EndStage(string(StageMerge))
	collector.SetStageCounter(string(StageMerge), "updated", int64(stats.Updated))
	collector.SetStageCounter(string(StageMerge), "skipped", int64(stats.Skipped()))
	for kind, count := range stats.Counts {
		collector.SetStageCounter(string(StageMerge), kind.String(), int64(count))
	}

	return &Result{Deck: deck, Stats: stats}, nil
}

// Run builds the deck and writes it to opts.OutputPath.
func Run(opts Options, reporter merge.Reporter, collector *metrics.Collector) (*Result, error) {
	if collector == nil {
		collector = metrics.NewCollector()
	}

	result, err := Build(opts, reporter, collector)
	if err != nil {
		return nil, err
	}

	collector.StartStage(string(StageWrite))
	err = result.Deck.Save(opts.OutputPath)
	collector.EndStage(string(StageWrite))
	if err != nil {
		return nil, &FatalError{Stage: StageWrite, Path: opts.OutputPath, Err: err}
	}
	collector.SetStageCounter(string(StageWrite), "records", int64(result.Deck.Len()))

	result.OutputPath = opts.OutputPath
	return result, nil
}
