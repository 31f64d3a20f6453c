package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"karuta/internal/textenc"
)

func TestBlocks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "two poems",
			raw:  "Aはるすぎて\n\nBなつきぬらし",
			want: []string{"Aはるすぎて", "Bなつきぬらし"},
		},
		{
			name: "multi-line poem collapsed",
			raw:  "あきのたの\nかりほのいほの\nとまをあらみ\n\nはるすぎて\nなつきにけらし",
			want: []string{"あきのたのかりほのいほのとまをあらみ", "はるすぎてなつきにけらし"},
		},
		{
			name: "several blank lines between blocks",
			raw:  "one\n\n\n\ntwo",
			want: []string{"one", "two"},
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  one\n\ntwo  \n\n\n",
			want: []string{"one", "two"},
		},
		{
			name: "whitespace-only line stays in the block",
			raw:  "one\n   \ntwo",
			want: []string{"one   two"},
		},
		{
			name: "whitespace-only line does not shift later poems",
			raw:  "あきの\n  \nたの\n\nはるすぎて",
			want: []string{"あきの  たの", "はるすぎて"},
		},
		{
			name: "whitespace-only block between blank lines is dropped",
			raw:  "one\n\n  \n\ntwo",
			want: []string{"one", "two"},
		},
		{
			name: "bare cr line endings",
			raw:  "one\rline\r\rtwo\r",
			want: []string{"oneline", "two"},
		},
		{
			name: "crlf line endings",
			raw:  "one\r\nline\r\n\r\ntwo\r\n",
			want: []string{"oneline", "two"},
		},
		{
			name: "single poem",
			raw:  "ひとつ",
			want: []string{"ひとつ"},
		},
		{
			name: "empty",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  " \n\n\t\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blocks(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Blocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSegmentIdentifiers(t *testing.T) {
	raw := strings.Repeat("うた\nの\n\n", 100)
	deck := Segment(raw)

	if deck.Len() != 100 {
		t.Fatalf("Len = %d, want 100", deck.Len())
	}

	for i, rec := range deck.Records() {
		if rec.ID != i {
			t.Fatalf("record at %d has ID %d", i, rec.ID)
		}
		if rec.Text != "うたの" {
			t.Errorf("record %d Text = %q, want うたの", i, rec.Text)
		}
	}
}

func TestSegmentEmpty(t *testing.T) {
	deck := Segment("")
	if deck.Len() != 0 {
		t.Errorf("Len = %d, want 0", deck.Len())
	}
	if records := deck.Records(); len(records) != 0 {
		t.Errorf("Records = %v, want empty", records)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "poems")

	content := "\xEF\xBB\xBFAはるすぎて\n\nBなつきぬらし\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	deck, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if deck.Len() != 2 {
		t.Fatalf("Len = %d, want 2", deck.Len())
	}
	rec, _ := deck.Get(0)
	if rec.Text != "Aはるすぎて" {
		t.Errorf("record 0 Text = %q, want Aはるすぎて", rec.Text)
	}
}

func TestLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(filepath.Join(tmpDir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(tmpDir, "bad")
	if err := os.WriteFile(bad, []byte{0xC3, 0x28}, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := Load(bad); !errors.Is(err, textenc.ErrUndecodable) {
		t.Errorf("Load(bad) error = %v, want ErrUndecodable", err)
	}
}
