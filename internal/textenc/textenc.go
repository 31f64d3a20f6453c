// Package textenc turns raw input bytes into text the rest of the pipeline can trust.
package textenc

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUndecodable is returned when input is not valid UTF-8.
var ErrUndecodable = errors.New("input is not valid UTF-8")

// Decode validates data as UTF-8 and returns it as a string with any
// leading byte-order mark removed.
func Decode(data []byte) (string, error) {
	if off := invalidOffset(data); off >= 0 {
		return "", fmt.Errorf("%w (byte offset %d)", ErrUndecodable, off)
	}

	// BOMOverride drops a leading byte-order mark and passes the rest through.
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return string(out), nil
}

// ReadFile reads a whole file and decodes it.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// invalidOffset returns the offset of the first invalid sequence, or -1.
func invalidOffset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
