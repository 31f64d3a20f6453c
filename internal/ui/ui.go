// Package ui provides terminal UI components using pterm.
package ui

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pterm/pterm"

	"karuta/internal/merge"
	"karuta/internal/metrics"
)

var _ merge.Reporter = (*UI)(nil)

// UI wraps pterm components for karuta.
type UI struct {
	quiet   bool
	verbose bool
}

// New creates a new UI instance.
func New(quiet, verbose bool) *UI {
	if quiet {
		pterm.DisableOutput()
	}
	if verbose {
		pterm.EnableDebugMessages()
	}
	return &UI{quiet: quiet, verbose: verbose}
}

// Banner prints the application banner.
func (u *UI) Banner() {
	pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("ka", pterm.NewStyle(pterm.FgCyan)),
		pterm.NewLettersFromStringWithStyle("ruta", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()

	pterm.DefaultCenter.Println(
		pterm.FgGray.Sprint("Poem Card Builder"),
	)
	fmt.Println()
}

// Config prints the configuration summary.
func (u *UI) Config(source, corpus, table, output, separator string) {
	pterm.DefaultSection.Println("Configuration")

	if source == "" {
		source = "built-in defaults"
	}
	data := [][]string{
		{"Config", source},
		{"Corpus", corpus},
		{"Table", table},
		{"Output", output},
		{"Separator", fmt.Sprintf("%q", separator)},
	}

	pterm.DefaultTable.WithData(data).Render()
	fmt.Println()
}

// Phase prints a phase header.
func (u *UI) Phase(number int, total int, name string) {
	pterm.DefaultSection.WithLevel(2).Println(
		fmt.Sprintf("[%d/%d] %s", number, total, name),
	)
}

// MergeStats prints how many rows were applied or skipped, by reason.
func (u *UI) MergeStats(stats *merge.Stats) {
	data := pterm.TableData{{"Rows", "Count"}}
	data = append(data,
		[]string{"read", fmt.Sprintf("%d", stats.Rows)},
		[]string{"updated", fmt.Sprintf("%d", stats.Updated)},
	)

	kinds := make([]merge.Kind, 0, len(stats.Counts))
	for kind := range stats.Counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		data = append(data, []string{kind.String(), fmt.Sprintf("%d", stats.Counts[kind])})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// StageTimings prints per-stage durations and counters (verbose mode only).
func (u *UI) StageTimings(collector *metrics.Collector) {
	if !u.verbose {
		return
	}
	stages := collector.Stages()
	if len(stages) == 0 {
		return
	}

	data := pterm.TableData{{"Stage", "Duration", "Counters"}}
	for _, s := range stages {
		counters := ""
		for i, name := range s.CounterNames() {
			if i > 0 {
				counters += ", "
			}
			counters += fmt.Sprintf("%s=%d", name, s.Counters[name])
		}
		data = append(data, []string{
			s.Name,
			collector.GetStageDuration(s.Name).Round(time.Microsecond).String(),
			counters,
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// FinalReport prints the final summary report.
func (u *UI) FinalReport(records, merged int, outputPath string, duration time.Duration) {
	pterm.DefaultSection.Println("Summary")

	panel := pterm.DefaultBox.WithTitle("Results").Sprint(
		fmt.Sprintf(
			"  Cards Written:  %s\n"+
				"  Merged:         %s\n"+
				"  Location:       %s\n"+
				"  Duration:       %s",
			pterm.FgGreen.Sprintf("%d", records),
			pterm.FgCyan.Sprintf("%d", merged),
			pterm.FgMagenta.Sprint(outputPath),
			pterm.FgYellow.Sprint(duration.Round(time.Millisecond)),
		),
	)
	fmt.Println(panel)
}

// Success prints a success message.
func (u *UI) Success(message string) {
	pterm.Success.Println(message)
}

// Error prints an error message. Errors are still written to stderr in
// quiet mode.
func (u *UI) Error(message string) {
	if u.quiet {
		fmt.Fprintln(os.Stderr, "ERROR:", message)
		return
	}
	pterm.Error.Println(message)
}

// Warning prints a warning message.
func (u *UI) Warning(message string) {
	pterm.Warning.Println(message)
}

// Info prints an info message.
func (u *UI) Info(message string) {
	pterm.Info.Println(message)
}

// Debug prints a debug message (only in verbose mode).
func (u *UI) Debug(message string) {
	if u.verbose {
		pterm.Debug.Println(message)
	}
}

// Done prints the completion message.
func (u *UI) Done() {
	fmt.Println()
	pterm.DefaultCenter.Println(
		pterm.FgGreen.Sprint("✓ Done!"),
	)
}
