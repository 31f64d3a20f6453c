// Package merge applies table rows to the segmented poem deck.
package merge

import (
	"fmt"
	"strings"

	"karuta/internal/schema"
	"karuta/internal/table"
)

const (
	// DefaultSeparator divides the upper and lower phrase in the poem column.
	DefaultSeparator = " <> "
	// DefaultMarker is appended to the lower phrase.
	DefaultMarker = "⸺"
)

// Reporter receives row-level messages.
type Reporter interface {
	Warning(message string)
	Debug(message string)
}

// Kind classifies a row that was not applied cleanly.
type Kind int

const (
	KindMissingID Kind = iota + 1
	KindUnknownID
	KindEmptyVerse
	KindMalformedVerse
	KindOverwrite
)

func (k Kind) String() string {
	switch k {
	case KindMissingID:
		return "missing_id"
	case KindUnknownID:
		return "unknown_id"
	case KindEmptyVerse:
		return "empty_verse"
	case KindMalformedVerse:
		return "malformed_verse"
	case KindOverwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Skips reports whether rows of this kind leave the deck untouched.
func (k Kind) Skips() bool {
	return k != KindOverwrite
}

// Diagnostic describes one row-level problem.
type Diagnostic struct {
	Kind  Kind
	Line  int
	ID    int // -1 when the row had no id
	Raw   string
	Parts int
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case KindMissingID:
		return fmt.Sprintf("line %d: row has no id, skipping", d.Line)
	case KindUnknownID:
		return fmt.Sprintf("table id %d has no matching poem in the corpus, skipping", d.ID)
	case KindEmptyVerse:
		return fmt.Sprintf("id %d: poem is empty, skipping", d.ID)
	case KindMalformedVerse:
		return fmt.Sprintf("id %d: expected 2 phrases, got %d: %s", d.ID, d.Parts, d.Raw)
	case KindOverwrite:
		return fmt.Sprintf("id %d: duplicate row on line %d replaces earlier data", d.ID, d.Line)
	default:
		return fmt.Sprintf("id %d: %s", d.ID, d.Kind)
	}
}

// Stats summarizes one merge pass.
type Stats struct {
	Rows        int
	Updated     int
	Counts      map[Kind]int
	Diagnostics []Diagnostic
}

func newStats() *Stats {
	return &Stats{Counts: make(map[Kind]int)}
}

// Skipped returns the number of rows that changed nothing.
func (s *Stats) Skipped() int {
	n := 0
	for kind, count := range s.Counts {
		if kind.Skips() {
			n += count
		}
	}
	return n
}

func (s *Stats) add(d Diagnostic) {
	s.Counts[d.Kind]++
	s.Diagnostics = append(s.Diagnostics, d)
}

// Merger joins table rows onto deck records by identifier.
type Merger struct {
	Separator string
	Marker    string
	reporter  Reporter
}

// NewMerger creates a Merger. Empty separator or marker fall back to the
// defaults; a nil reporter discards messages.
func NewMerger(separator, marker string, reporter Reporter) *Merger {
	if separator == "" {
		separator = DefaultSeparator
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return &Merger{Separator: separator, Marker: marker, reporter: reporter}
}

// SplitVerse splits a poem field into its upper and lower phrase. parts is
// the number of pieces the separator produced; the phrases are only set
// when it is exactly 2.
func SplitVerse(field, separator string) (kami, simo string, parts int) {
	p := strings.Split(field, separator)
	if len(p) != 2 {
		return "", "", len(p)
	}
	return strings.TrimSpace(p[0]), strings.TrimSpace(p[1]), 2
}

// Merge applies rows to the deck in order. It never fails: rows that cannot
// be applied are reported and leave the deck unchanged. When several rows
// share an id the last applicable one wins.
func (m *Merger) Merge(deck *schema.Deck, rows []table.Row) *Stats {
	stats := newStats()

	for _, row := range rows {
		stats.Rows++
		m.mergeRow(deck, row, stats)
	}

	return stats
}

func (m *Merger) mergeRow(deck *schema.Deck, row table.Row, stats *Stats) {
	if row.ID == nil {
		m.warn(stats, Diagnostic{Kind: KindMissingID, Line: row.Line, ID: -1})
		return
	}
	id := *row.ID

	rec, ok := deck.Get(id)
	if !ok {
		m.warn(stats, Diagnostic{Kind: KindUnknownID, Line: row.Line, ID: id})
		return
	}

	if row.Poem == nil || *row.Poem == "" {
		stats.add(Diagnostic{Kind: KindEmptyVerse, Line: row.Line, ID: id})
		return
	}

	kami, simo, parts := SplitVerse(*row.Poem, m.Separator)
	if parts != 2 {
		m.warn(stats, Diagnostic{Kind: KindMalformedVerse, Line: row.Line, ID: id, Raw: *row.Poem, Parts: parts})
		return
	}

	if rec.Merged() {
		d := Diagnostic{Kind: KindOverwrite, Line: row.Line, ID: id}
		stats.add(d)
		m.debug(d.String())
	} else {
		stats.Updated++
	}

	// poem_hira and poem_kr are written both under their own names and
	// under the per-phrase names.
	hira, kr := row.PoemHira, row.PoemKR
	rec.Kami = kami
	rec.Simo = simo + m.Marker
	rec.PoemHira = hira
	rec.PoemKR = kr
	rec.KamiHira = &hira
	rec.SimoHira = &kr

	m.debug(fmt.Sprintf("[%d. %s] kami/simo updated", id, row.Poet))
}

func (m *Merger) warn(stats *Stats, d Diagnostic) {
	stats.add(d)
	if m.reporter != nil {
		m.reporter.Warning(d.String())
	}
}

func (m *Merger) debug(message string) {
	if m.reporter != nil {
		m.reporter.Debug(message)
	}
}
