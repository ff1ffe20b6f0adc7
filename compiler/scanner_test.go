package compiler

import (
	"testing"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

func scanKinds(t *testing.T, text string) ([]TokenKind, []Token, []diagnostics.Diagnostic) {
	t.Helper()
	var diags []diagnostics.Diagnostic
	tokens := Scan(0, text, &diags)
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds, tokens, diags
}

func TestScanTokenKinds(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenKind
	}{
		{"x = 1", []TokenKind{TokenIdentifier, TokenEqual, TokenNumberLiteral}},
		{`TextWindow.WriteLine("hi")`, []TokenKind{TokenIdentifier, TokenDot, TokenIdentifier, TokenLeftParen, TokenStringLiteral, TokenRightParen}},
		{"a[1][2]", []TokenKind{TokenIdentifier, TokenLeftBracket, TokenNumberLiteral, TokenRightBracket, TokenLeftBracket, TokenNumberLiteral, TokenRightBracket}},
		{"a <> b <= c >= d < e > f", []TokenKind{
			TokenIdentifier, TokenNotEqual, TokenIdentifier, TokenLessThanOrEqual, TokenIdentifier,
			TokenGreaterThanOrEqual, TokenIdentifier, TokenLessThan, TokenIdentifier, TokenGreaterThan, TokenIdentifier,
		}},
		{"1+2-3*4/5", []TokenKind{
			TokenNumberLiteral, TokenPlus, TokenNumberLiteral, TokenMinus, TokenNumberLiteral,
			TokenMultiply, TokenNumberLiteral, TokenDivide, TokenNumberLiteral,
		}},
		{"For i = 1 To 10 Step 2", []TokenKind{TokenFor, TokenIdentifier, TokenEqual, TokenNumberLiteral, TokenTo, TokenNumberLiteral, TokenStep, TokenNumberLiteral}},
		{"start:", []TokenKind{TokenIdentifier, TokenColon}},
		{"x = 1 ' comment", []TokenKind{TokenIdentifier, TokenEqual, TokenNumberLiteral, TokenComment}},
		{"a, b", []TokenKind{TokenIdentifier, TokenComma, TokenIdentifier}},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, _, diags := scanKinds(t, tt.input)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics %v", diags)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanKeywordsAreCaseInsensitive(t *testing.T) {
	_, tokens, _ := scanKinds(t, "if ENDWHILE elseIf goTo myVar")
	want := []struct {
		kind TokenKind
		text string
	}{
		{TokenIf, "If"},
		{TokenEndWhile, "EndWhile"},
		{TokenElseIf, "ElseIf"},
		{TokenGoto, "Goto"},
		{TokenIdentifier, "myVar"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v", tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Text != w.text {
			t.Errorf("token %d = %s %q, want %s %q", i, tokens[i].Kind, tokens[i].Text, w.kind, w.text)
		}
	}
}

func TestScanRanges(t *testing.T) {
	var diags []diagnostics.Diagnostic
	tokens := Scan(3, `ab = "x y"`, &diags)
	want := []diagnostics.Range{
		diagnostics.NewRange(3, 0, 2),
		diagnostics.NewRange(3, 3, 4),
		diagnostics.NewRange(3, 5, 10),
	}
	for i, w := range want {
		if tokens[i].Range != w {
			t.Errorf("token %d range = %s, want %s", i, tokens[i].Range, w)
		}
	}
	if v := StringLiteralValue(tokens[2]); v != "x y" {
		t.Errorf("string value = %q", v)
	}
}

func TestScanNumbers(t *testing.T) {
	_, tokens, _ := scanKinds(t, "3.25 7. 42")
	texts := []string{"3.25", "7", ".", "42"}
	if len(tokens) != len(texts) {
		t.Fatalf("tokens = %v", tokens)
	}
	for i, text := range texts {
		if tokens[i].Text != text {
			t.Errorf("token %d = %q, want %q", i, tokens[i].Text, text)
		}
	}
}

func TestScanUnterminatedString(t *testing.T) {
	kinds, tokens, diags := scanKinds(t, `x = "abc`)
	if len(kinds) != 3 || kinds[2] != TokenStringLiteral {
		t.Fatalf("kinds = %v", kinds)
	}
	if StringLiteralValue(tokens[2]) != "abc" {
		t.Errorf("partial text = %q", StringLiteralValue(tokens[2]))
	}
	if len(diags) != 1 || diags[0].Code != diagnostics.UnterminatedStringLiteral {
		t.Fatalf("diags = %v", diags)
	}
	if diags[0].Range != diagnostics.NewRange(0, 4, 8) {
		t.Errorf("range = %s, want quote to end of line", diags[0].Range)
	}
}

func TestScanUnrecognizedCharacterContinues(t *testing.T) {
	kinds, _, diags := scanKinds(t, "a $ b # c")
	if len(kinds) != 3 {
		t.Fatalf("kinds = %v, want three identifiers", kinds)
	}
	if len(diags) != 2 {
		t.Fatalf("diags = %v", diags)
	}
	for i, ch := range []string{"$", "#"} {
		if diags[i].Code != diagnostics.UnrecognizedCharacter || diags[i].Args[0] != ch {
			t.Errorf("diag %d = %v, want UnrecognizedCharacter %q", i, diags[i], ch)
		}
	}
}

func TestScanStripsCarriageReturn(t *testing.T) {
	kinds, _, diags := scanKinds(t, "x = 1\r")
	if len(diags) != 0 || len(kinds) != 3 {
		t.Errorf("kinds = %v, diags = %v", kinds, diags)
	}
}
