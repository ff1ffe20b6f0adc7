package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// ---------------------------------------------------------------------------
// Scanner: one source line to tokens
// ---------------------------------------------------------------------------

// scanner tokenizes a single line. Columns are byte offsets into the line.
type scanner struct {
	line  int
	text  string
	pos   int
	diags *[]diagnostics.Diagnostic
}

// Scan tokenizes one line of source text, appending any diagnostics to
// diags. Comments are returned as tokens; the parser skips them.
func Scan(line int, text string, diags *[]diagnostics.Diagnostic) []Token {
	s := &scanner{line: line, text: strings.TrimRight(text, "\r"), diags: diags}
	var tokens []Token
	for {
		s.skipWhitespace()
		if s.pos >= len(s.text) {
			return tokens
		}
		if tok, ok := s.next(); ok {
			tokens = append(tokens, tok)
		}
	}
}

// SplitLines splits program text into lines the way Compile numbers them.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.text) {
		return 0
	}
	return s.text[s.pos+offset]
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.text) {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *scanner) token(kind TokenKind, start int) Token {
	return Token{
		Text:  s.text[start:s.pos],
		Kind:  kind,
		Range: diagnostics.NewRange(s.line, start, s.pos),
	}
}

// next scans one token starting at a non-space character. It returns false
// when the character was reported as unrecognized.
func (s *scanner) next() (Token, bool) {
	start := s.pos
	c := s.text[s.pos]

	switch {
	case c == '\'':
		s.pos = len(s.text)
		return s.token(TokenComment, start), true

	case c == '"':
		return s.scanString(), true

	case isDigit(c):
		return s.scanNumber(), true

	case isIdentifierStart(c):
		return s.scanIdentifier(), true
	}

	if kind, width, ok := s.punctuation(); ok {
		s.pos += width
		return s.token(kind, start), true
	}

	r, size := utf8.DecodeRuneInString(s.text[s.pos:])
	s.pos += size
	*s.diags = append(*s.diags, diagnostics.New(diagnostics.UnrecognizedCharacter,
		diagnostics.NewRange(s.line, start, s.pos), string(r)))
	return Token{}, false
}

// punctuation matches the longest operator at the current position.
func (s *scanner) punctuation() (TokenKind, int, bool) {
	switch c := s.peek(0); c {
	case '.':
		return TokenDot, 1, true
	case ',':
		return TokenComma, 1, true
	case '=':
		return TokenEqual, 1, true
	case ':':
		return TokenColon, 1, true
	case '(':
		return TokenLeftParen, 1, true
	case ')':
		return TokenRightParen, 1, true
	case '[':
		return TokenLeftBracket, 1, true
	case ']':
		return TokenRightBracket, 1, true
	case '+':
		return TokenPlus, 1, true
	case '-':
		return TokenMinus, 1, true
	case '*':
		return TokenMultiply, 1, true
	case '/':
		return TokenDivide, 1, true
	case '<':
		switch s.peek(1) {
		case '>':
			return TokenNotEqual, 2, true
		case '=':
			return TokenLessThanOrEqual, 2, true
		}
		return TokenLessThan, 1, true
	case '>':
		if s.peek(1) == '=' {
			return TokenGreaterThanOrEqual, 2, true
		}
		return TokenGreaterThan, 1, true
	}
	return 0, 0, false
}

// scanString reads a string literal. Strings end at the next double quote;
// an unterminated string runs to the end of the line.
func (s *scanner) scanString() Token {
	start := s.pos
	end := strings.IndexByte(s.text[start+1:], '"')
	if end < 0 {
		s.pos = len(s.text)
		tok := s.token(TokenStringLiteral, start)
		*s.diags = append(*s.diags, diagnostics.New(diagnostics.UnterminatedStringLiteral, tok.Range))
		return tok
	}
	s.pos = start + 1 + end + 1
	return s.token(TokenStringLiteral, start)
}

// scanNumber reads digits with an optional fractional part.
func (s *scanner) scanNumber() Token {
	start := s.pos
	for isDigit(s.peek(0)) {
		s.pos++
	}
	if s.peek(0) == '.' && isDigit(s.peek(1)) {
		s.pos++
		for isDigit(s.peek(0)) {
			s.pos++
		}
	}
	return s.token(TokenNumberLiteral, start)
}

// scanIdentifier reads an identifier or keyword. Keywords match in any
// casing and keep their canonical text.
func (s *scanner) scanIdentifier() Token {
	start := s.pos
	for isIdentifierPart(s.peek(0)) {
		s.pos++
	}
	tok := s.token(TokenIdentifier, start)
	if kind, ok := keywords[strings.ToLower(tok.Text)]; ok {
		tok.Kind = kind
		tok.Text = kind.String()
	}
	return tok
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentifierStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierPart(c byte) bool { return isIdentifierStart(c) || isDigit(c) }

// StringLiteralValue returns the text between a string token's quotes.
func StringLiteralValue(tok Token) string {
	text := strings.TrimPrefix(tok.Text, `"`)
	return strings.TrimSuffix(text, `"`)
}
