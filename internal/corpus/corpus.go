// Package corpus splits the poem text file into ordered card records.
package corpus

import (
	"strings"

	"karuta/internal/schema"
	"karuta/internal/textenc"
)

// Blocks splits raw text into poem bodies. Blocks are separated by one or
// more empty lines; a line holding only spaces does not end a block. Line
// breaks inside a block are removed and the block is trimmed. Blocks that
// end up empty are dropped.
func Blocks(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var blocks []string
	var current strings.Builder

	flush := func() {
		if block := strings.TrimSpace(current.String()); block != "" {
			blocks = append(blocks, block)
		}
		current.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			flush()
			continue
		}
		current.WriteString(line)
	}
	flush()

	return blocks
}

// Segment builds a deck with one record per block, numbered from 0.
func Segment(raw string) *schema.Deck {
	return schema.NewDeck(Blocks(raw))
}

// Load reads and segments the corpus file at path.
func Load(path string) (*schema.Deck, error) {
	raw, err := textenc.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Segment(raw), nil
}
