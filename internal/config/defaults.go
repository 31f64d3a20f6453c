// Package config provides configuration defaults for karuta.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// FileName is the config file searched for when no path is given.
const FileName = "karuta.toml"

// ConfigFile represents the structure of karuta.toml
type ConfigFile struct {
	Paths  Paths  `toml:"paths"`
	Merge  Merge  `toml:"merge"`
	Output Output `toml:"output"`

	// Source is the file the values came from, empty for fallback defaults.
	Source string `toml:"-"`
}

// Paths holds the input and output locations.
type Paths struct {
	Corpus string `toml:"corpus"`
	Table  string `toml:"table"`
	Output string `toml:"output"`
}

// Merge holds the table format settings.
type Merge struct {
	Separator string `toml:"separator"`
	Marker    string `toml:"marker"`
	Delimiter string `toml:"delimiter"`
}

// Output holds terminal settings.
type Output struct {
	Quiet   bool `toml:"quiet"`
	Verbose bool `toml:"verbose"`
}

// Hardcoded fallback defaults (used if karuta.toml not found)
func fallback() ConfigFile {
	return ConfigFile{
		Paths: Paths{
			Corpus: "poems",
			Table:  "poems_full.csv",
			Output: "cards.json",
		},
		Merge: Merge{
			Separator: " <> ",
			Marker:    "⸺",
			Delimiter: ",",
		},
	}
}

// Load reads configuration. An explicit path must exist and parse. With an
// empty path the usual locations are searched and the fallback defaults are
// used when none is found.
func Load(path string) (*ConfigFile, error) {
	if path != "" {
		return LoadFile(path)
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return LoadFile(candidate)
		}
	}

	cfg := fallback()
	return &cfg, nil
}

// searchPaths lists where karuta.toml is looked for, walking up from the
// working directory and the executable.
func searchPaths() []string {
	paths := []string{
		FileName,
		filepath.Join("..", FileName),
		filepath.Join("..", "..", FileName),
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, FileName),
			filepath.Join(dir, "..", FileName),
		)
	}
	return paths
}

// LoadFile decodes a config file on top of the fallback defaults.
func LoadFile(path string) (*ConfigFile, error) {
	cfg := fallback()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *ConfigFile) Validate() error {
	if c.Merge.Separator == "" {
		return errors.New("merge.separator must not be empty")
	}
	if c.Merge.Marker == "" {
		return errors.New("merge.marker must not be empty")
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	return nil
}

// DelimiterRune returns the table delimiter as a single rune.
func (c *ConfigFile) DelimiterRune() (rune, error) {
	d := c.Merge.Delimiter
	if d == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("merge.delimiter must be a single character, got %q", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("merge.delimiter %q is not allowed", d)
	}
	return r, nil
}
