package compiler

import (
	"fmt"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

// TokenKind is the kind of a scanned token.
type TokenKind int

const (
	TokenUnrecognized TokenKind = iota
	TokenComment

	// Literals and names
	TokenIdentifier
	TokenNumberLiteral
	TokenStringLiteral

	// Keywords
	TokenIf
	TokenThen
	TokenElse
	TokenElseIf
	TokenEndIf
	TokenFor
	TokenTo
	TokenStep
	TokenEndFor
	TokenWhile
	TokenEndWhile
	TokenSub
	TokenEndSub
	TokenGoto
	TokenAnd
	TokenOr

	// Punctuation and operators
	TokenDot
	TokenComma
	TokenEqual
	TokenColon
	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenNotEqual
	TokenPlus
	TokenMinus
	TokenMultiply
	TokenDivide
	TokenLessThan
	TokenGreaterThan
	TokenLessThanOrEqual
	TokenGreaterThanOrEqual
)

var tokenNames = map[TokenKind]string{
	TokenUnrecognized:       "unrecognized",
	TokenComment:            "comment",
	TokenIdentifier:         "identifier",
	TokenNumberLiteral:      "number",
	TokenStringLiteral:      "string",
	TokenIf:                 "If",
	TokenThen:               "Then",
	TokenElse:               "Else",
	TokenElseIf:             "ElseIf",
	TokenEndIf:              "EndIf",
	TokenFor:                "For",
	TokenTo:                 "To",
	TokenStep:               "Step",
	TokenEndFor:             "EndFor",
	TokenWhile:              "While",
	TokenEndWhile:           "EndWhile",
	TokenSub:                "Sub",
	TokenEndSub:             "EndSub",
	TokenGoto:               "Goto",
	TokenAnd:                "And",
	TokenOr:                 "Or",
	TokenDot:                ".",
	TokenComma:              ",",
	TokenEqual:              "=",
	TokenColon:              ":",
	TokenLeftParen:          "(",
	TokenRightParen:         ")",
	TokenLeftBracket:        "[",
	TokenRightBracket:       "]",
	TokenNotEqual:           "<>",
	TokenPlus:               "+",
	TokenMinus:              "-",
	TokenMultiply:           "*",
	TokenDivide:             "/",
	TokenLessThan:           "<",
	TokenGreaterThan:        ">",
	TokenLessThanOrEqual:    "<=",
	TokenGreaterThanOrEqual: ">=",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords maps lower-cased keyword text to its kind.
var keywords = map[string]TokenKind{
	"if":       TokenIf,
	"then":     TokenThen,
	"else":     TokenElse,
	"elseif":   TokenElseIf,
	"endif":    TokenEndIf,
	"for":      TokenFor,
	"to":       TokenTo,
	"step":     TokenStep,
	"endfor":   TokenEndFor,
	"while":    TokenWhile,
	"endwhile": TokenEndWhile,
	"sub":      TokenSub,
	"endsub":   TokenEndSub,
	"goto":     TokenGoto,
	"and":      TokenAnd,
	"or":       TokenOr,
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenIf && k <= TokenOr
}

// Token is a lexical token. Tokens never span lines.
type Token struct {
	Text  string
	Kind  TokenKind
	Range diagnostics.Range

	// Missing marks a placeholder the parser synthesized in place of a
	// token the line did not contain.
	Missing bool
}

func (t Token) String() string {
	if t.Missing {
		return fmt.Sprintf("<missing %s>@%s", t.Kind, t.Range)
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Range)
}
