package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

func TestFormatDiagnostic(t *testing.T) {
	lines := []string{"x = 1", "GoTo nowhere\r"}
	d := diagnostics.New(diagnostics.LabelDoesNotExist, diagnostics.NewRange(1, 5, 12), "nowhere")

	got := formatDiagnostic("prog.sb", lines, d)
	parts := strings.Split(got, "\n")
	if len(parts) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(parts), got)
	}
	if !strings.HasPrefix(parts[0], "prog.sb:2:6: LabelDoesNotExist ") {
		t.Errorf("header = %q", parts[0])
	}
	if !strings.Contains(parts[0], "nowhere") {
		t.Errorf("header %q does not render the argument", parts[0])
	}
	if parts[1] != "    GoTo nowhere" {
		t.Errorf("source = %q", parts[1])
	}
	if parts[2] != "         ^^^^^^^" {
		t.Errorf("caret = %q", parts[2])
	}
}

func TestFormatDiagnosticZeroWidth(t *testing.T) {
	d := diagnostics.New(diagnostics.UnrecognizedCommand, diagnostics.NewRange(0, 3, 3))
	got := formatDiagnostic("p.sb", []string{"abc"}, d)
	if !strings.HasSuffix(got, "\n       ^") {
		t.Errorf("zero-width range should get one caret:\n%s", got)
	}
}

func TestFormatDiagnosticPastEndOfText(t *testing.T) {
	d := diagnostics.New(diagnostics.UnrecognizedCommand, diagnostics.NewRange(4, 0, 1))
	got := formatDiagnostic("p.sb", []string{"abc"}, d)
	if strings.Contains(got, "\n") {
		t.Errorf("diagnostic past the text should have no source line:\n%s", got)
	}
}

func TestPrintDiagnostics(t *testing.T) {
	c := compiler.Compile("GoTo a\nGoTo b")
	var out bytes.Buffer
	printDiagnostics(&out, "p.sb", c)

	text := out.String()
	if !strings.Contains(text, "p.sb:1:6:") || !strings.Contains(text, "p.sb:2:6:") {
		t.Errorf("missing locations:\n%s", text)
	}
	if !strings.HasSuffix(text, "2 errors\n") {
		t.Errorf("missing summary:\n%s", text)
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "error", "errors") != "error" || plural(0, "error", "errors") != "errors" {
		t.Error("plural picked the wrong form")
	}
}
