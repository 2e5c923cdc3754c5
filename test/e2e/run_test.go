package e2e

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/codemotion/internal/ssa"
	"github.com/you-not-fish/codemotion/internal/ssa/passes"
)

var update = flag.Bool("update", false, "rewrite .golden files with the current output")

// TestE2E runs end-to-end tests for all .ssa files in testdata/.
// Each test:
//  1. Parses the file and verifies every function
//  2. Runs the default pipeline with verification after each pass
//  3. Prints the result and compares it against the .golden file
//  4. Parses the printed result again and checks that another run is a no-op
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.ssa")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .ssa test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".ssa")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, ssaFile string) {
	t.Helper()

	src, err := os.ReadFile(ssaFile)
	if err != nil {
		t.Fatalf("reading input: %v", err)
	}

	got, _ := optimize(t, ssaFile, src)

	goldenFile := strings.TrimSuffix(ssaFile, ".ssa") + ".golden"
	if *update {
		if err := os.WriteFile(goldenFile, []byte(got), 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		return
	}

	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if got != string(expected) {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, expected)
	}

	again, changed := optimize(t, goldenFile, []byte(got))
	if changed {
		t.Errorf("second run changed the output:\n%s", again)
	}
}

// optimize runs the default pipeline over every function in src and
// returns the printed result.
func optimize(t *testing.T, filename string, src []byte) (string, bool) {
	t.Helper()

	file, err := ssa.Parse(filename, bytes.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	pipeline, err := passes.Pipeline(passes.DefaultPipeline, passes.Options{})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	changed := false
	for _, fn := range file.Funcs {
		if err := ssa.VerifyDom(fn); err != nil {
			t.Fatalf("input %s: %v", fn.Name, err)
		}
		c, err := passes.Run(fn, pipeline, passes.Config{Verify: true})
		if err != nil {
			t.Fatalf("pass pipeline failed for %s: %v", fn.Name, err)
		}
		changed = changed || c
	}

	var out bytes.Buffer
	ssa.FprintTypes(&out, file.Funcs...)
	if out.Len() != 0 {
		out.WriteByte('\n')
	}
	for i, fn := range file.Funcs {
		if i > 0 {
			out.WriteByte('\n')
		}
		ssa.Fprint(&out, fn)
	}
	return out.String(), changed
}
