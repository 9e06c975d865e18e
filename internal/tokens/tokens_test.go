package tokens

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want List
	}{
		{"single", "6507522e38405857", List{"6507522e38405857"}},
		{"two with spaces", "6507522e38405857, b133316a0e795993", List{"6507522e38405857", "b133316a0e795993"}},
		{"trailing comma", "abc,", List{"abc"}},
		{"empty", "", nil},
		{"only commas", ",,,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.txt")
	content := "# scene tokens for the qualitative set\n6507522e38405857\n\nb133316a0e795993\n  8f5b53ff94a7486b  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := List{"6507522e38405857", "b133316a0e795993", "8f5b53ff94a7486b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLooksCanonical(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"6507522e38405857", true},
		{"b133316a0e795993", true},
		{"6507522E38405857", false}, // uppercase
		{"6507522e3840585", false},  // 15 chars
		{"6507522e384058571", false},
		{"6507522g38405857", false}, // non-hex
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksCanonical(tt.tok); got != tt.want {
			t.Errorf("LooksCanonical(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}
