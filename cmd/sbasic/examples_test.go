package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
)

const examplesDir = "../../examples"

func readExample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(examplesDir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestExamplesCompile(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(examplesDir, "*.sb"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example programs found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if c := compiler.Compile(string(data)); c.HasErrors() {
				t.Errorf("diagnostics: %v", c.Diagnostics())
			}
		})
	}
}

func TestExamplesRun(t *testing.T) {
	tests := []struct {
		file  string
		input string
		want  string
	}{
		{"hello.sb", "Ada\n", "What is your name? Hello, Ada!\n"},
		{"fibonacci.sb", "", "0 1 1 2 3 5 8 13 21 34\n"},
		{"countdown.sb", "", "5\n4\n3\n2\n1\nLiftoff\n"},
		{"shapes.sb", "", "Rectangle1 at 10,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			out, err := runConsole(t, readExample(t, tt.file), tt.input)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}
