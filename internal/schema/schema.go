// Package schema defines the poem card records and the ordered deck that holds them.
package schema

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// PoemRecord is one card: a poem body plus the fields merged in from the table.
type PoemRecord struct {
	ID       int     `json:"id"`
	Text     string  `json:"text"`
	Kami     string  `json:"kami"`
	Simo     string  `json:"simo"`
	PoemHira string  `json:"poem_hira"`
	PoemKR   string  `json:"poem_kr"`
	KamiHira *string `json:"kami_hira,omitempty"` // set only by a successful merge
	SimoHira *string `json:"simo_hira,omitempty"` // set only by a successful merge
}

// NewPoemRecord creates a record with every merged field at its default.
func NewPoemRecord(id int, text string) *PoemRecord {
	return &PoemRecord{ID: id, Text: text}
}

// Merged reports whether a table row has been applied to the record.
func (p *PoemRecord) Merged() bool {
	return p.KamiHira != nil
}

// Deck is the run's record set. Identifiers are dense, so the record for
// id n lives at index n.
type Deck struct {
	records []*PoemRecord
}

// NewDeck creates one record per text, numbered in order from 0.
func NewDeck(texts []string) *Deck {
	d := &Deck{records: make([]*PoemRecord, len(texts))}
	for i, text := range texts {
		d.records[i] = NewPoemRecord(i, text)
	}
	return d
}

// Get returns the record with the given identifier.
func (d *Deck) Get(id int) (*PoemRecord, bool) {
	if id < 0 || id >= len(d.records) {
		return nil, false
	}
	return d.records[id], true
}

// Len returns the number of records.
func (d *Deck) Len() int {
	return len(d.records)
}

// Records returns the records in ascending identifier order.
func (d *Deck) Records() []*PoemRecord {
	out := make([]*PoemRecord, len(d.records))
	copy(out, d.records)
	return out
}

// MergedCount returns how many records carry merged table data.
func (d *Deck) MergedCount() int {
	n := 0
	for _, r := range d.records {
		if r.Merged() {
			n++
		}
	}
	return n
}

// Encode writes the deck as indented JSON with non-ASCII text left as is.
func (d *Deck) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d.Records())
}

// Save writes the deck to a JSON file, creating parent directories.
func (d *Deck) Save(filePath string) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if err := d.Encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
