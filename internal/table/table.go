// Package table loads the delimited poem metadata file.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"karuta/internal/textenc"
)

// Column names read from the header row.
const (
	ColumnID       = "id"
	ColumnPoem     = "poem"
	ColumnPoemHira = "poem_hira"
	ColumnPoemKR   = "poem_kr"
	ColumnPoet     = "poet"
)

var (
	// ErrNotFound is returned when the table file does not exist.
	ErrNotFound = errors.New("table file not found")
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
	// ErrMalformed is returned when the file cannot be parsed as a table.
	ErrMalformed = errors.New("malformed table")
)

// Row is one data row of the table.
type Row struct {
	Line     int     // line number in the source file
	ID       *int    // nil when the id cell is empty
	Poem     *string // nil when the poem cell is empty or a null token
	PoemHira string
	PoemKR   string
	Poet     string
}

// Options configures parsing.
type Options struct {
	Delimiter rune
}

// DefaultOptions returns comma-separated parsing options.
func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// LoadFile reads and parses the table at path.
func LoadFile(path string, opts Options) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	rows, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Parse reads a whole table from r. The first record is the header.
func Parse(r io.Reader, opts Options) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	text, err := textenc.Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cols := indexColumns(header)
	for _, name := range []string{ColumnID, ColumnPoem} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d",
				ErrMalformed, line, len(header), len(record))
		}

		row, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, nil
}

// nullTokens are cell values read as missing, matching what spreadsheet and
// dataframe tools write for empty values.
var nullTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "NaN": true, "nan": true,
	"<NA>": true, "N/A": true, "n/a": true, "NA": true,
	"NULL": true, "null": true, "None": true,
}

// IsNull reports whether a cell holds no value. Tokens match exactly.
func IsNull(value string) bool {
	return value == "" || nullTokens[value]
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func parseRow(record []string, cols map[string]int) (Row, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) || IsNull(record[i]) {
			return ""
		}
		return record[i]
	}

	var row Row

	if raw := strings.TrimSpace(cell(ColumnID)); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return Row{}, fmt.Errorf("id %q is not an integer", raw)
		}
		row.ID = &id
	}

	if poem := cell(ColumnPoem); poem != "" {
		row.Poem = &poem
	}

	row.PoemHira = cell(ColumnPoemHira)
	row.PoemKR = cell(ColumnPoemKR)
	row.Poet = cell(ColumnPoet)

	return row, nil
}
