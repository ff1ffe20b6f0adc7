package compiler

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ---------------------------------------------------------------------------
// Command parser: one line of tokens to one command
// ---------------------------------------------------------------------------

// commandParser parses a single line. Only the first syntax error on a line
// is reported; later ones are almost always consequences of it.
type commandParser struct {
	line     int
	tokens   []Token
	index    int
	diags    *[]diagnostics.Diagnostic
	reported bool
}

// ParseCommand parses one line's tokens into a command. It returns nil for
// lines holding only comments or nothing, and for lines that do not start a
// command.
func ParseCommand(line int, tokens []Token, diags *[]diagnostics.Diagnostic) Command {
	p := &commandParser{line: line, diags: diags}
	for _, tok := range tokens {
		if tok.Kind != TokenComment {
			p.tokens = append(p.tokens, tok)
		}
	}
	if len(p.tokens) == 0 {
		return nil
	}

	cmd := p.parseCommand()
	if cmd != nil && !p.atEnd() {
		p.errorf(diagnostics.UnexpectedToken_ExpectingEOL, p.current().Range, p.current().Text)
	}
	return cmd
}

// ---------------------------------------------------------------------------
// Token helpers
// ---------------------------------------------------------------------------

func (p *commandParser) atEnd() bool { return p.index >= len(p.tokens) }

func (p *commandParser) current() Token { return p.tokens[p.index] }

func (p *commandParser) peekIs(kind TokenKind) bool {
	return !p.atEnd() && p.current().Kind == kind
}

func (p *commandParser) advance() Token {
	tok := p.tokens[p.index]
	p.index++
	return tok
}

// endOfLine is the zero-width range after the last token.
func (p *commandParser) endOfLine() diagnostics.Range {
	last := p.tokens[len(p.tokens)-1].Range
	return diagnostics.NewRange(p.line, last.End, last.End)
}

func (p *commandParser) errorf(code diagnostics.ErrorCode, rng diagnostics.Range, args ...string) {
	if p.reported {
		return
	}
	p.reported = true
	*p.diags = append(*p.diags, diagnostics.New(code, rng, args...))
}

// missing synthesizes a placeholder at the current position.
func (p *commandParser) missing(kind TokenKind) Token {
	rng := p.endOfLine()
	if !p.atEnd() {
		start := p.current().Range.Start
		rng = diagnostics.NewRange(p.line, start, start)
	}
	return Token{Kind: kind, Range: rng, Missing: true}
}

// expect consumes a token of the given kind, or reports it and returns a
// missing placeholder without consuming anything.
func (p *commandParser) expect(kind TokenKind) Token {
	if p.peekIs(kind) {
		return p.advance()
	}
	if p.atEnd() {
		p.errorf(diagnostics.UnexpectedEOL_ExpectingToken, p.endOfLine(), kind.String())
	} else {
		p.errorf(diagnostics.UnexpectedToken_ExpectingToken, p.current().Range, p.current().Text, kind.String())
	}
	return p.missing(kind)
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (p *commandParser) parseCommand() Command {
	first := p.current()
	switch first.Kind {
	case TokenIf:
		p.advance()
		cond := p.parseExpression()
		return &IfCommand{If: first, Condition: cond, Then: p.expect(TokenThen)}

	case TokenElseIf:
		p.advance()
		cond := p.parseExpression()
		return &ElseIfCommand{ElseIf: first, Condition: cond, Then: p.expect(TokenThen)}

	case TokenElse:
		return &ElseCommand{Else: p.advance()}

	case TokenEndIf:
		return &EndIfCommand{EndIf: p.advance()}

	case TokenFor:
		return p.parseFor()

	case TokenEndFor:
		return &EndForCommand{EndFor: p.advance()}

	case TokenWhile:
		p.advance()
		return &WhileCommand{While: first, Condition: p.parseExpression()}

	case TokenEndWhile:
		return &EndWhileCommand{EndWhile: p.advance()}

	case TokenGoto:
		p.advance()
		return &GoToCommand{GoTo: first, Label: p.expect(TokenIdentifier)}

	case TokenSub:
		p.advance()
		return &SubCommand{Sub: first, Name: p.expect(TokenIdentifier)}

	case TokenEndSub:
		return &EndSubCommand{EndSub: p.advance()}

	case TokenIdentifier:
		if p.index+1 < len(p.tokens) && p.tokens[p.index+1].Kind == TokenColon {
			return &LabelCommand{Label: p.advance(), Colon: p.advance()}
		}
		return p.parseExpressionCommand()

	case TokenNumberLiteral, TokenStringLiteral, TokenMinus, TokenLeftParen:
		return p.parseExpressionCommand()
	}

	p.errorf(diagnostics.UnrecognizedCommand, first.Range, first.Text)
	return nil
}

func (p *commandParser) parseFor() Command {
	cmd := &ForCommand{For: p.advance()}
	cmd.Identifier = p.expect(TokenIdentifier)
	cmd.Equal = p.expect(TokenEqual)
	cmd.FromExpression = p.parseExpression()
	cmd.To = p.expect(TokenTo)
	cmd.ToExpression = p.parseExpression()
	if p.peekIs(TokenStep) {
		cmd.Step = p.advance()
		cmd.StepExpression = p.parseExpression()
	}
	return cmd
}

// parseExpressionCommand parses an assignment or a call. In "target = value"
// the first "=" assigns and the rest of the line is the value, so
// "a = b = c" stores the comparison of b and c.
func (p *commandParser) parseExpressionCommand() Command {
	start, diagCount, reported := p.index, len(*p.diags), p.reported

	target := p.parseCoreExpression()
	if p.peekIs(TokenEqual) {
		op := p.advance()
		value := p.parseExpression()
		return &ExpressionCommand{Expression: &BinaryExpression{Left: target, Operator: op, Right: value}}
	}

	p.index, p.reported = start, reported
	*p.diags = (*p.diags)[:diagCount]
	return &ExpressionCommand{Expression: p.parseExpression()}
}

// ---------------------------------------------------------------------------
// Expressions, lowest precedence first
// ---------------------------------------------------------------------------

func (p *commandParser) parseExpression() Expression {
	return p.parseOr()
}

func (p *commandParser) parseBinary(next func() Expression, kinds ...TokenKind) Expression {
	left := next()
	for !p.atEnd() && matches(p.current().Kind, kinds) {
		op := p.advance()
		left = &BinaryExpression{Left: left, Operator: op, Right: next()}
	}
	return left
}

func matches(kind TokenKind, kinds []TokenKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *commandParser) parseOr() Expression {
	return p.parseBinary(p.parseAnd, TokenOr)
}

func (p *commandParser) parseAnd() Expression {
	return p.parseBinary(p.parseRelational, TokenAnd)
}

func (p *commandParser) parseRelational() Expression {
	return p.parseBinary(p.parseAdditive,
		TokenEqual, TokenNotEqual, TokenLessThan, TokenGreaterThan, TokenLessThanOrEqual, TokenGreaterThanOrEqual)
}

func (p *commandParser) parseAdditive() Expression {
	return p.parseBinary(p.parseMultiplicative, TokenPlus, TokenMinus)
}

func (p *commandParser) parseMultiplicative() Expression {
	return p.parseBinary(p.parseUnary, TokenMultiply, TokenDivide)
}

func (p *commandParser) parseUnary() Expression {
	if p.peekIs(TokenMinus) {
		op := p.advance()
		return &UnaryExpression{Operator: op, Operand: p.parseUnary()}
	}
	return p.parseCoreExpression()
}

// parseCoreExpression parses a primary expression followed by any chain of
// member access, indexing and calls.
func (p *commandParser) parseCoreExpression() Expression {
	expr := p.parsePrimary()
	for !p.atEnd() {
		switch p.current().Kind {
		case TokenDot:
			dot := p.advance()
			expr = &ObjectAccessExpression{Base: expr, Dot: dot, Member: p.expect(TokenIdentifier)}

		case TokenLeftBracket:
			left := p.advance()
			index := p.parseExpression()
			expr = &ArrayAccessExpression{Base: expr, LeftBracket: left, Index: index, RightBracket: p.expect(TokenRightBracket)}

		case TokenLeftParen:
			expr = p.parseInvocation(expr)

		default:
			return expr
		}
	}
	return expr
}

func (p *commandParser) parseInvocation(base Expression) Expression {
	inv := &InvocationExpression{Base: base, LeftParen: p.advance()}
	if !p.peekIs(TokenRightParen) && !p.atEnd() {
		for {
			inv.Arguments = append(inv.Arguments, p.parseExpression())
			if !p.peekIs(TokenComma) {
				break
			}
			inv.Commas = append(inv.Commas, p.advance())
		}
	}
	inv.RightParen = p.expect(TokenRightParen)
	return inv
}

func (p *commandParser) parsePrimary() Expression {
	if p.atEnd() {
		p.errorf(diagnostics.UnexpectedEOL_ExpectingExpression, p.endOfLine())
		return &IdentifierExpression{Identifier: p.missing(TokenIdentifier)}
	}

	tok := p.current()
	switch tok.Kind {
	case TokenIdentifier:
		return &IdentifierExpression{Identifier: p.advance()}
	case TokenNumberLiteral:
		return &NumberLiteralExpression{Literal: p.advance()}
	case TokenStringLiteral:
		return &StringLiteralExpression{Literal: p.advance()}
	case TokenLeftParen:
		left := p.advance()
		inner := p.parseExpression()
		return &ParenthesisExpression{LeftParen: left, Expression: inner, RightParen: p.expect(TokenRightParen)}
	}

	p.errorf(diagnostics.UnexpectedToken_ExpectingExpression, tok.Range, tok.Text)
	return &IdentifierExpression{Identifier: p.missing(TokenIdentifier)}
}
