package textenc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain ascii", []byte("id,poem"), "id,poem"},
		{"japanese", []byte("はるすぎて"), "はるすぎて"},
		{"bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,poem")...), "id,poem"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	// cp949 bytes for a Korean syllable
	_, err := Decode([]byte{'o', 'k', 0xB0, 0xA1})
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("Decode error = %v, want ErrUndecodable", err)
	}
}

func TestInvalidOffset(t *testing.T) {
	if off := invalidOffset([]byte("abc")); off != -1 {
		t.Errorf("invalidOffset(valid) = %d, want -1", off)
	}
	if off := invalidOffset([]byte{'a', 'b', 0xFF}); off != 2 {
		t.Errorf("invalidOffset = %d, want 2", off)
	}
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "poems")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFあきのたの"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != "あきのたの" {
		t.Errorf("ReadFile = %q, want %q", got, "あきのたの")
	}

	if _, err := ReadFile(filepath.Join(tmpDir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}
