// karuta CLI - builds the poem card deck from the poem corpus and metadata table.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"karuta/internal/config"
	"karuta/internal/metrics"
	"karuta/internal/pipeline"
	"karuta/internal/ui"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", "", "Path to karuta.toml (default: search upwards)")
	corpusPath := pflag.String("corpus", "", "Poem corpus text file")
	tablePath := pflag.StringP("table", "t", "", "Poem metadata table (CSV)")
	outputPath := pflag.StringP("output", "o", "", "Output JSON file")
	separator := pflag.String("separator", "", "Token dividing the upper and lower phrase")
	marker := pflag.String("marker", "", "Glyph appended to the lower phrase")
	delimiter := pflag.String("delimiter", "", "Table field delimiter")
	quiet := pflag.BoolP("quiet", "q", false, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose logging")
	summaryJSON := pflag.Bool("summary-json", false, "Print run metrics as one JSON line instead of the report")

	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		return 1
	}

	// Flags override file values only when given.
	if *corpusPath != "" {
		cfg.Paths.Corpus = *corpusPath
	}
	if *tablePath != "" {
		cfg.Paths.Table = *tablePath
	}
	if *outputPath != "" {
		cfg.Paths.Output = *outputPath
	}
	if *separator != "" {
		cfg.Merge.Separator = *separator
	}
	if *marker != "" {
		cfg.Merge.Marker = *marker
	}
	if *delimiter != "" {
		cfg.Merge.Delimiter = *delimiter
	}
	if pflag.CommandLine.Changed("quiet") {
		cfg.Output.Quiet = *quiet
	}
	if pflag.CommandLine.Changed("verbose") {
		cfg.Output.Verbose = *verbose
	}

	term := ui.New(cfg.Output.Quiet || *summaryJSON, cfg.Output.Verbose)

	if err := cfg.Validate(); err != nil {
		term.Error(err.Error())
		return 1
	}
	delim, _ := cfg.DelimiterRune()

	if !*summaryJSON {
		term.Banner()
		term.Config(cfg.Source, cfg.Paths.Corpus, cfg.Paths.Table, cfg.Paths.Output, cfg.Merge.Separator)
	}

	collector := metrics.NewCollector()
	collector.SetConfigMap(map[string]interface{}{
		"corpus":    cfg.Paths.Corpus,
		"table":     cfg.Paths.Table,
		"output":    cfg.Paths.Output,
		"separator": cfg.Merge.Separator,
		"marker":    cfg.Merge.Marker,
		"delimiter": string(delim),
	})

	term.Phase(1, 2, "Merging corpus and table")
	term.Info(fmt.Sprintf("Run %s", collector.GetRunID()))

	result, err := pipeline.Run(pipeline.Options{
		CorpusPath: cfg.Paths.Corpus,
		TablePath:  cfg.Paths.Table,
		OutputPath: cfg.Paths.Output,
		Separator:  cfg.Merge.Separator,
		Marker:     cfg.Merge.Marker,
		Delimiter:  delim,
	}, term, collector)
	if err != nil {
		term.Error(err.Error())
		return 1
	}

	runMetrics := collector.Finalize(
		int64(result.Deck.Len()),
		int64(result.Stats.Updated),
		int64(result.Stats.Skipped()),
	)

	if *summaryJSON {
		line, err := json.Marshal(runMetrics)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ERROR:", err)
			return 1
		}
		fmt.Println(string(line))
		return 0
	}

	term.Phase(2, 2, "Summary")
	term.MergeStats(result.Stats)
	term.StageTimings(collector)

	if cfg.Output.Quiet {
		fmt.Printf("%d cards written to %s\n", result.Deck.Len(), result.OutputPath)
		return 0
	}

	term.FinalReport(result.Deck.Len(), result.Deck.MergedCount(), result.OutputPath, collector.Elapsed())
	term.Success(fmt.Sprintf("%d cards written to %s", result.Deck.Len(), result.OutputPath))
	term.Done()
	return 0
}
