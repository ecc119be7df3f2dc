package interp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGoldenGoodFixtures runs every testdata/good/*.mpl file and compares
// its stdout against the matching .out golden file, adapted from the
// project's original good/bad fixture runner into an in-process table
// instead of a subprocess-and-diff pipeline.
func TestGoldenGoodFixtures(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "good", "*.mpl"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no good fixtures found")
	}

	for _, file := range files {
		file := file
		name := strings.TrimSuffix(filepath.Base(file), ".mpl")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("reading fixture: %v", err)
			}
			want, err := os.ReadFile(strings.TrimSuffix(file, ".mpl") + ".out")
			if err != nil {
				t.Fatalf("reading golden output: %v", err)
			}

			var out strings.Builder
			res := Run(string(src), Options{Stdout: &out, Stdin: strings.NewReader("")})
			if len(res.Diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
			}
			if out.String() != string(want) {
				t.Errorf("stdout mismatch.\nwant=%q\ngot=%q", string(want), out.String())
			}
		})
	}
}

// TestGoldenBadFixtures runs every testdata/bad/*.mpl file and asserts only
// that it produces at least one diagnostic — these fixtures exist to prove
// a failure mode is caught, not to pin an exact message.
func TestGoldenBadFixtures(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "bad", "*.mpl"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no bad fixtures found")
	}

	for _, file := range files {
		file := file
		name := strings.TrimSuffix(filepath.Base(file), ".mpl")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("reading fixture: %v", err)
			}

			res := Run(string(src), Options{Stdout: &strings.Builder{}, Stdin: strings.NewReader("")})
			if len(res.Diagnostics) == 0 {
				t.Fatalf("expected at least one diagnostic, got none")
			}
		})
	}
}
