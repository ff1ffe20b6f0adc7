package compiler

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ---------------------------------------------------------------------------
// Statement parser: commands to nested statements
// ---------------------------------------------------------------------------

// openBlock is a block statement whose terminator has not been seen yet.
// body points at the statement list currently being filled.
type openBlock struct {
	ifStatement *IfStatement
	while       *WhileStatement
	forLoop     *ForStatement
	sub         *SubModuleDeclaration
	body        *[]Statement
}

// terminator names the command that closes the block.
func (b *openBlock) terminator() TokenKind {
	switch {
	case b.ifStatement != nil:
		return TokenEndIf
	case b.while != nil:
		return TokenEndWhile
	case b.forLoop != nil:
		return TokenEndFor
	}
	return TokenEndSub
}

func (b *openBlock) opener() Command {
	switch {
	case b.ifStatement != nil:
		return b.ifStatement.If
	case b.while != nil:
		return b.while.While
	case b.forLoop != nil:
		return b.forLoop.For
	}
	return b.sub.Sub
}

type statementParser struct {
	program *Program
	stack   []*openBlock
	diags   *[]diagnostics.Diagnostic
}

// ParseStatements nests the commands of a whole program into statements.
// Misplaced commands are reported and dropped, and blocks left open at the
// end of the input are reported and closed, so the result is always a
// complete tree.
func ParseStatements(commands []Command, diags *[]diagnostics.Diagnostic) *Program {
	p := &statementParser{program: &Program{}, diags: diags}
	for _, cmd := range commands {
		p.parse(cmd)
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		block := p.stack[i]
		p.errorf(diagnostics.UnexpectedEOF_ExpectingCommand, block.opener().Range(), block.terminator().String())
	}
	p.stack = nil
	return p.program
}

func (p *statementParser) errorf(code diagnostics.ErrorCode, rng diagnostics.Range, args ...string) {
	*p.diags = append(*p.diags, diagnostics.New(code, rng, args...))
}

func (p *statementParser) top() *openBlock {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *statementParser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *statementParser) addStatement(stmt Statement) {
	if top := p.top(); top != nil {
		*top.body = append(*top.body, stmt)
		return
	}
	p.program.Statements = append(p.program.Statements, stmt)
}

func (p *statementParser) insideSub() bool {
	for _, block := range p.stack {
		if block.sub != nil {
			return true
		}
	}
	return false
}

// unmatched reports a terminator or continuation with no block to attach to.
func (p *statementParser) unmatched(cmd Command, kind, expected TokenKind) {
	p.errorf(diagnostics.CannotHaveCommandWithoutPreviousCommand, cmd.Range(), kind.String(), expected.String())
}

func (p *statementParser) parse(cmd Command) {
	top := p.top()

	switch c := cmd.(type) {
	case *IfCommand:
		stmt := &IfStatement{If: c}
		p.addStatement(stmt)
		p.stack = append(p.stack, &openBlock{ifStatement: stmt, body: &stmt.Body})

	case *ElseIfCommand:
		if top == nil || top.ifStatement == nil || top.ifStatement.Else != nil {
			p.unmatched(c, TokenElseIf, TokenIf)
			return
		}
		part := &ElseIfPart{ElseIf: c}
		top.ifStatement.ElseIfs = append(top.ifStatement.ElseIfs, part)
		top.body = &part.Body

	case *ElseCommand:
		if top == nil || top.ifStatement == nil || top.ifStatement.Else != nil {
			p.unmatched(c, TokenElse, TokenIf)
			return
		}
		part := &ElsePart{Else: c}
		top.ifStatement.Else = part
		top.body = &part.Body

	case *EndIfCommand:
		if top == nil || top.ifStatement == nil {
			p.unmatched(c, TokenEndIf, TokenIf)
			return
		}
		top.ifStatement.EndIf = c
		p.pop()

	case *WhileCommand:
		stmt := &WhileStatement{While: c}
		p.addStatement(stmt)
		p.stack = append(p.stack, &openBlock{while: stmt, body: &stmt.Body})

	case *EndWhileCommand:
		if top == nil || top.while == nil {
			p.unmatched(c, TokenEndWhile, TokenWhile)
			return
		}
		top.while.EndWhile = c
		p.pop()

	case *ForCommand:
		stmt := &ForStatement{For: c}
		p.addStatement(stmt)
		p.stack = append(p.stack, &openBlock{forLoop: stmt, body: &stmt.Body})

	case *EndForCommand:
		if top == nil || top.forLoop == nil {
			p.unmatched(c, TokenEndFor, TokenFor)
			return
		}
		top.forLoop.EndFor = c
		p.pop()

	case *SubCommand:
		if p.insideSub() {
			p.errorf(diagnostics.CannotDefineASubInsideAnotherSub, c.Range())
			return
		}
		decl := &SubModuleDeclaration{Sub: c}
		p.program.SubModules = append(p.program.SubModules, decl)
		p.stack = append(p.stack, &openBlock{sub: decl, body: &decl.Body})

	case *EndSubCommand:
		if top == nil || top.sub == nil {
			p.unmatched(c, TokenEndSub, TokenSub)
			return
		}
		top.sub.EndSub = c
		p.pop()

	case *LabelCommand:
		p.addStatement(&LabelStatement{Command: c})

	case *GoToCommand:
		p.addStatement(&GoToStatement{Command: c})

	case *ExpressionCommand:
		p.addStatement(&ExpressionStatement{Command: c})

	default:
		panic("compiler: unexpected command type")
	}
}
