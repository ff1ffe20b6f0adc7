package server

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

const testURI = protocol.DocumentUri("file:///test.sb")

// ---------------------------------------------------------------------------
// Text extraction helpers
// ---------------------------------------------------------------------------

func TestExtractMemberPrefix(t *testing.T) {
	tests := []struct {
		text    string
		line    uint32
		char    uint32
		library string
		prefix  string
	}{
		{"TextWindow.Wri", 0, 14, "TextWindow", "Wri"},
		{"TextWindow.", 0, 11, "TextWindow", ""},
		{"x = Mat", 0, 7, "", "Mat"},
		{"first\nsecond\nClo", 2, 3, "", "Clo"},
		{"hello", 0, 0, "", ""},
		{"single line", 5, 0, "", ""},
		{"abc", 0, 99, "", "abc"},
	}
	for _, tt := range tests {
		library, prefix := extractMemberPrefix(tt.text, protocol.Position{Line: tt.line, Character: tt.char})
		if library != tt.library || prefix != tt.prefix {
			t.Errorf("extractMemberPrefix(%q) = %q, %q, want %q, %q", tt.text, library, prefix, tt.library, tt.prefix)
		}
	}
}

func TestExtractMemberWord(t *testing.T) {
	tests := []struct {
		text    string
		char    uint32
		library string
		word    string
	}{
		{"TextWindow.WriteLine(x)", 13, "TextWindow", "WriteLine"},
		{"TextWindow.WriteLine(x)", 3, "", "TextWindow"},
		{"TextWindow.WriteLine(x)", 21, "", "x"},
		{"a + b", 2, "", ""},
	}
	for _, tt := range tests {
		library, word := extractMemberWord(tt.text, protocol.Position{Line: 0, Character: tt.char})
		if library != tt.library || word != tt.word {
			t.Errorf("extractMemberWord(%q, %d) = %q, %q, want %q, %q", tt.text, tt.char, library, word, tt.library, tt.word)
		}
	}
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

func TestToProtocolDiagnostics(t *testing.T) {
	c := compiler.Compile("x = \"abc")
	got := toProtocolDiagnostics(c.Diagnostics())
	if len(got) != 1 {
		t.Fatalf("diagnostics = %v", got)
	}
	d := got[0]
	if d.Range.Start.Line != 0 || d.Range.Start.Character != 4 || d.Range.End.Character != 8 {
		t.Errorf("range = %+v", d.Range)
	}
	if d.Code == nil || d.Code.Value != diagnostics.UnterminatedStringLiteral.String() {
		t.Errorf("code = %v", d.Code)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v", d.Severity)
	}
	if !strings.Contains(d.Message, "double quotes") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestToProtocolDiagnosticsEmpty(t *testing.T) {
	got := toProtocolDiagnostics(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty, non-nil slice so clients clear old diagnostics")
	}
}

// ---------------------------------------------------------------------------
// Completion and hover
// ---------------------------------------------------------------------------

func labels(items []protocol.CompletionItem) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestCompleteLibraryMembers(t *testing.T) {
	s := NewLSP("test")
	c := compiler.Compile("TextWindow.Wr")
	got := labels(s.complete(c, protocol.Position{Line: 0, Character: 13}))
	if !contains(got, "WriteLine") || !contains(got, "Write") {
		t.Errorf("completions = %v, want Write and WriteLine", got)
	}
	if contains(got, "Read") {
		t.Errorf("completions = %v, should be filtered by prefix", got)
	}
}

func TestCompleteNames(t *testing.T) {
	s := NewLSP("test")
	c := compiler.Compile("total = 1\nSub Tally\nEndSub\nT")
	got := labels(s.complete(c, protocol.Position{Line: 3, Character: 1}))
	for _, want := range []string{"TextWindow", "Text", "Turtle", "Tally", "To", "Then", "total"} {
		if !contains(got, want) {
			t.Errorf("completions = %v, missing %s", got, want)
		}
	}
}

func TestCompleteUnknownLibrary(t *testing.T) {
	s := NewLSP("test")
	c := compiler.Compile("Nope.")
	if got := s.complete(c, protocol.Position{Line: 0, Character: 5}); got != nil {
		t.Errorf("completions = %v, want none", labels(got))
	}
}

func TestHover(t *testing.T) {
	s := NewLSP("test")
	c := compiler.Compile("TextWindow.WriteLine(Clock.Time)\nFoo()\nSub Foo\nEndSub")
	tests := []struct {
		line, char uint32
		want       string
	}{
		{0, 14, "**TextWindow.WriteLine(data)**"},
		{0, 3, "**TextWindow**"},
		{0, 29, "(read-only)"},
		{1, 1, "**Sub Foo**"},
	}
	for _, tt := range tests {
		h := s.hover(c, protocol.Position{Line: tt.line, Character: tt.char})
		if h == nil {
			t.Errorf("hover at %d:%d = nil", tt.line, tt.char)
			continue
		}
		value := h.Contents.(protocol.MarkupContent).Value
		if !strings.Contains(value, tt.want) {
			t.Errorf("hover at %d:%d = %q, want %q", tt.line, tt.char, value, tt.want)
		}
	}
	if h := s.hover(c, protocol.Position{Line: 3, Character: 0}); h != nil {
		t.Errorf("hover on EndSub = %v, want nil", h)
	}
}

// ---------------------------------------------------------------------------
// Definition and references
// ---------------------------------------------------------------------------

func TestDefinition(t *testing.T) {
	c := compiler.Compile("Foo()\nGoto done\nSub Foo\nEndSub\ndone:")

	locs := definition(c, testURI, protocol.Position{Line: 0, Character: 1})
	if len(locs) != 1 || locs[0].Range.Start.Line != 2 || locs[0].Range.Start.Character != 4 {
		t.Errorf("sub definition = %+v", locs)
	}

	locs = definition(c, testURI, protocol.Position{Line: 1, Character: 6})
	if len(locs) != 1 || locs[0].Range.Start.Line != 4 || locs[0].URI != testURI {
		t.Errorf("label definition = %+v", locs)
	}

	if locs := definition(c, testURI, protocol.Position{Line: 1, Character: 1}); len(locs) != 0 {
		t.Errorf("keyword definition = %+v, want none", locs)
	}
}

func TestReferences(t *testing.T) {
	c := compiler.Compile("x = 1\nx = x + Math.Abs(x)\nTextWindow.WriteLine(y)")
	locs := references(c, testURI, protocol.Position{Line: 0, Character: 0})
	if len(locs) != 4 {
		t.Errorf("references = %d, want 4", len(locs))
	}
	if locs := references(c, testURI, protocol.Position{Line: 1, Character: 14}); locs != nil {
		t.Errorf("member references = %+v, want none", locs)
	}
}
