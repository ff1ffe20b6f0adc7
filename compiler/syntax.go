package compiler

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ---------------------------------------------------------------------------
// Syntax tree
//
// Expressions and commands live on a single line and derive their range from
// their first and last tokens. Block statements group commands from several
// lines and report the range of their opening command.
// ---------------------------------------------------------------------------

// Node is implemented by every syntax node.
type Node interface {
	Range() diagnostics.Range
	node() // marker method
}

// ============ Expressions ============

// Expression is a syntax expression.
type Expression interface {
	Node
	expression() // marker method
}

// IdentifierExpression is a bare name.
type IdentifierExpression struct {
	Identifier Token
}

// StringLiteralExpression is a double-quoted literal.
type StringLiteralExpression struct {
	Literal Token
}

// NumberLiteralExpression is a decimal literal.
type NumberLiteralExpression struct {
	Literal Token
}

// UnaryExpression is a negation.
type UnaryExpression struct {
	Operator Token
	Operand  Expression
}

// BinaryExpression applies an arithmetic, relational or logical operator.
type BinaryExpression struct {
	Left     Expression
	Operator Token
	Right    Expression
}

// ParenthesisExpression wraps an expression in parentheses.
type ParenthesisExpression struct {
	LeftParen  Token
	Expression Expression
	RightParen Token
}

// ObjectAccessExpression is Base.Member.
type ObjectAccessExpression struct {
	Base   Expression
	Dot    Token
	Member Token
}

// ArrayAccessExpression is Base[Index].
type ArrayAccessExpression struct {
	Base         Expression
	LeftBracket  Token
	Index        Expression
	RightBracket Token
}

// InvocationExpression is Base(Arguments...). Commas holds the separators.
type InvocationExpression struct {
	Base       Expression
	LeftParen  Token
	Arguments  []Expression
	Commas     []Token
	RightParen Token
}

func (n *IdentifierExpression) Range() diagnostics.Range    { return n.Identifier.Range }
func (n *StringLiteralExpression) Range() diagnostics.Range { return n.Literal.Range }
func (n *NumberLiteralExpression) Range() diagnostics.Range { return n.Literal.Range }
func (n *UnaryExpression) Range() diagnostics.Range {
	return diagnostics.Combine(n.Operator.Range, n.Operand.Range())
}
func (n *BinaryExpression) Range() diagnostics.Range {
	return diagnostics.Combine(n.Left.Range(), n.Right.Range())
}
func (n *ParenthesisExpression) Range() diagnostics.Range {
	return diagnostics.Combine(n.LeftParen.Range, n.RightParen.Range)
}
func (n *ObjectAccessExpression) Range() diagnostics.Range {
	return diagnostics.Combine(n.Base.Range(), n.Member.Range)
}
func (n *ArrayAccessExpression) Range() diagnostics.Range {
	return diagnostics.Combine(n.Base.Range(), n.RightBracket.Range)
}
func (n *InvocationExpression) Range() diagnostics.Range {
	return diagnostics.Combine(n.Base.Range(), n.RightParen.Range)
}

func (n *IdentifierExpression) node()    {}
func (n *StringLiteralExpression) node() {}
func (n *NumberLiteralExpression) node() {}
func (n *UnaryExpression) node()         {}
func (n *BinaryExpression) node()        {}
func (n *ParenthesisExpression) node()   {}
func (n *ObjectAccessExpression) node()  {}
func (n *ArrayAccessExpression) node()   {}
func (n *InvocationExpression) node()    {}

func (n *IdentifierExpression) expression()    {}
func (n *StringLiteralExpression) expression() {}
func (n *NumberLiteralExpression) expression() {}
func (n *UnaryExpression) expression()         {}
func (n *BinaryExpression) expression()        {}
func (n *ParenthesisExpression) expression()   {}
func (n *ObjectAccessExpression) expression()  {}
func (n *ArrayAccessExpression) expression()   {}
func (n *InvocationExpression) expression()    {}

// ============ Commands ============

// Command is the syntax of one source line.
type Command interface {
	Node
	command() // marker method
}

type IfCommand struct {
	If        Token
	Condition Expression
	Then      Token
}

type ElseIfCommand struct {
	ElseIf    Token
	Condition Expression
	Then      Token
}

type ElseCommand struct {
	Else Token
}

type EndIfCommand struct {
	EndIf Token
}

// ForCommand is For Identifier = From To To [Step Step]. StepExpression is
// nil when the line has no Step clause.
type ForCommand struct {
	For            Token
	Identifier     Token
	Equal          Token
	FromExpression Expression
	To             Token
	ToExpression   Expression
	Step           Token
	StepExpression Expression
}

type EndForCommand struct {
	EndFor Token
}

type WhileCommand struct {
	While     Token
	Condition Expression
}

type EndWhileCommand struct {
	EndWhile Token
}

type LabelCommand struct {
	Label Token
	Colon Token
}

type GoToCommand struct {
	GoTo  Token
	Label Token
}

type SubCommand struct {
	Sub  Token
	Name Token
}

type EndSubCommand struct {
	EndSub Token
}

// ExpressionCommand is an assignment or call statement.
type ExpressionCommand struct {
	Expression Expression
}

func (n *IfCommand) Range() diagnostics.Range     { return diagnostics.Combine(n.If.Range, n.Then.Range) }
func (n *ElseIfCommand) Range() diagnostics.Range { return diagnostics.Combine(n.ElseIf.Range, n.Then.Range) }
func (n *ElseCommand) Range() diagnostics.Range   { return n.Else.Range }
func (n *EndIfCommand) Range() diagnostics.Range  { return n.EndIf.Range }
func (n *ForCommand) Range() diagnostics.Range {
	if n.StepExpression != nil {
		return diagnostics.Combine(n.For.Range, n.StepExpression.Range())
	}
	return diagnostics.Combine(n.For.Range, n.ToExpression.Range())
}
func (n *EndForCommand) Range() diagnostics.Range { return n.EndFor.Range }
func (n *WhileCommand) Range() diagnostics.Range {
	return diagnostics.Combine(n.While.Range, n.Condition.Range())
}
func (n *EndWhileCommand) Range() diagnostics.Range   { return n.EndWhile.Range }
func (n *LabelCommand) Range() diagnostics.Range      { return diagnostics.Combine(n.Label.Range, n.Colon.Range) }
func (n *GoToCommand) Range() diagnostics.Range       { return diagnostics.Combine(n.GoTo.Range, n.Label.Range) }
func (n *SubCommand) Range() diagnostics.Range        { return diagnostics.Combine(n.Sub.Range, n.Name.Range) }
func (n *EndSubCommand) Range() diagnostics.Range     { return n.EndSub.Range }
func (n *ExpressionCommand) Range() diagnostics.Range { return n.Expression.Range() }

func (n *IfCommand) node()         {}
func (n *ElseIfCommand) node()     {}
func (n *ElseCommand) node()       {}
func (n *EndIfCommand) node()      {}
func (n *ForCommand) node()        {}
func (n *EndForCommand) node()     {}
func (n *WhileCommand) node()      {}
func (n *EndWhileCommand) node()   {}
func (n *LabelCommand) node()      {}
func (n *GoToCommand) node()       {}
func (n *SubCommand) node()        {}
func (n *EndSubCommand) node()     {}
func (n *ExpressionCommand) node() {}

func (n *IfCommand) command()         {}
func (n *ElseIfCommand) command()     {}
func (n *ElseCommand) command()       {}
func (n *EndIfCommand) command()      {}
func (n *ForCommand) command()        {}
func (n *EndForCommand) command()     {}
func (n *WhileCommand) command()      {}
func (n *EndWhileCommand) command()   {}
func (n *LabelCommand) command()      {}
func (n *GoToCommand) command()       {}
func (n *SubCommand) command()        {}
func (n *EndSubCommand) command()     {}
func (n *ExpressionCommand) command() {}

// ============ Statements ============

// Statement is a node of the nested program tree.
type Statement interface {
	Node
	statement() // marker method
}

// IfStatement is an If block with its ElseIf and Else parts. EndIf is nil
// when the file ended before the block was closed.
type IfStatement struct {
	If      *IfCommand
	Body    []Statement
	ElseIfs []*ElseIfPart
	Else    *ElsePart
	EndIf   *EndIfCommand
}

type ElseIfPart struct {
	ElseIf *ElseIfCommand
	Body   []Statement
}

type ElsePart struct {
	Else *ElseCommand
	Body []Statement
}

type WhileStatement struct {
	While    *WhileCommand
	Body     []Statement
	EndWhile *EndWhileCommand
}

type ForStatement struct {
	For    *ForCommand
	Body   []Statement
	EndFor *EndForCommand
}

// SubModuleDeclaration is a Sub block. Sub-modules only appear at the top
// level of a program.
type SubModuleDeclaration struct {
	Sub    *SubCommand
	Body   []Statement
	EndSub *EndSubCommand
}

type LabelStatement struct {
	Command *LabelCommand
}

type GoToStatement struct {
	Command *GoToCommand
}

type ExpressionStatement struct {
	Command *ExpressionCommand
}

func (n *IfStatement) Range() diagnostics.Range          { return n.If.Range() }
func (n *WhileStatement) Range() diagnostics.Range       { return n.While.Range() }
func (n *ForStatement) Range() diagnostics.Range         { return n.For.Range() }
func (n *SubModuleDeclaration) Range() diagnostics.Range { return n.Sub.Range() }
func (n *LabelStatement) Range() diagnostics.Range       { return n.Command.Range() }
func (n *GoToStatement) Range() diagnostics.Range        { return n.Command.Range() }
func (n *ExpressionStatement) Range() diagnostics.Range  { return n.Command.Range() }

func (n *IfStatement) node()          {}
func (n *WhileStatement) node()       {}
func (n *ForStatement) node()         {}
func (n *SubModuleDeclaration) node() {}
func (n *LabelStatement) node()       {}
func (n *GoToStatement) node()        {}
func (n *ExpressionStatement) node()  {}

func (n *IfStatement) statement()          {}
func (n *WhileStatement) statement()       {}
func (n *ForStatement) statement()         {}
func (n *SubModuleDeclaration) statement() {}
func (n *LabelStatement) statement()       {}
func (n *GoToStatement) statement()        {}
func (n *ExpressionStatement) statement()  {}

// Program is the output of the statement parser.
type Program struct {
	Statements []Statement
	SubModules []*SubModuleDeclaration
}
