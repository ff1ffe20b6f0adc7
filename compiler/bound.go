package compiler

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ---------------------------------------------------------------------------
// Bound tree
//
// Bound nodes mirror the syntax they came from and add what the binder
// resolved. HasErrors marks a node already covered by a diagnostic so outer
// nodes do not report it again.
// ---------------------------------------------------------------------------

// BoundExpression is a resolved expression.
type BoundExpression interface {
	Syntax() Expression
	HasValue() bool
	HasErrors() bool
	boundExpression() // marker method
}

type expressionBase struct {
	syntax    Expression
	hasValue  bool
	hasErrors bool
}

func (b *expressionBase) Syntax() Expression { return b.syntax }
func (b *expressionBase) HasValue() bool     { return b.hasValue }
func (b *expressionBase) HasErrors() bool    { return b.hasErrors }
func (b *expressionBase) boundExpression()   {}

// anyErrors reports whether any of exprs has errors.
func anyErrors(exprs ...BoundExpression) bool {
	for _, e := range exprs {
		if e != nil && e.HasErrors() {
			return true
		}
	}
	return false
}

// BinaryOperator is a resolved binary operator.
type BinaryOperator int

const (
	OperatorAdd BinaryOperator = iota
	OperatorSubtract
	OperatorMultiply
	OperatorDivide
	OperatorEqual
	OperatorNotEqual
	OperatorLessThan
	OperatorGreaterThan
	OperatorLessThanOrEqual
	OperatorGreaterThanOrEqual
	OperatorAnd
	OperatorOr
)

var binaryOperators = map[TokenKind]BinaryOperator{
	TokenPlus:               OperatorAdd,
	TokenMinus:              OperatorSubtract,
	TokenMultiply:           OperatorMultiply,
	TokenDivide:             OperatorDivide,
	TokenEqual:              OperatorEqual,
	TokenNotEqual:           OperatorNotEqual,
	TokenLessThan:           OperatorLessThan,
	TokenGreaterThan:        OperatorGreaterThan,
	TokenLessThanOrEqual:    OperatorLessThanOrEqual,
	TokenGreaterThanOrEqual: OperatorGreaterThanOrEqual,
	TokenAnd:                OperatorAnd,
	TokenOr:                 OperatorOr,
}

// ============ Expressions ============

type BoundLibraryTypeExpression struct {
	expressionBase
	Library string
}

type BoundLibraryMethodExpression struct {
	expressionBase
	Library string
	Method  string
}

type BoundLibraryPropertyExpression struct {
	expressionBase
	Library  string
	Property string
}

type BoundLibraryEventExpression struct {
	expressionBase
	Library string
	Event   string
}

type BoundSubModuleExpression struct {
	expressionBase
	Name string
}

type BoundLibraryMethodInvocationExpression struct {
	expressionBase
	Library   string
	Method    string
	Arguments []BoundExpression
}

type BoundSubModuleInvocationExpression struct {
	expressionBase
	Name string
}

type BoundVariableExpression struct {
	expressionBase
	Name string
}

// BoundArrayAccessExpression is an element of the array stored in Name.
// Indices are in source order, outermost first.
type BoundArrayAccessExpression struct {
	expressionBase
	Name    string
	Indices []BoundExpression
}

type BoundStringLiteralExpression struct {
	expressionBase
	Value string
}

type BoundNumberLiteralExpression struct {
	expressionBase
	Value float64
}

type BoundUnaryExpression struct {
	expressionBase
	Operand BoundExpression
}

type BoundBinaryExpression struct {
	expressionBase
	Operator BinaryOperator
	Left     BoundExpression
	Right    BoundExpression
}

type BoundParenthesisExpression struct {
	expressionBase
	Expression BoundExpression
}

// BoundInvalidExpression stands in for an expression that failed to bind.
type BoundInvalidExpression struct {
	expressionBase
}

// ============ Statements ============

// BoundStatement is a resolved statement.
type BoundStatement interface {
	Syntax() Node
	boundStatement() // marker method
}

type statementBase struct {
	syntax Node
}

func (b *statementBase) Syntax() Node    { return b.syntax }
func (b *statementBase) boundStatement() {}

// BoundIfPart is the If part or one ElseIf part of an If statement. Header
// is the range of the part's command line.
type BoundIfPart struct {
	Header    diagnostics.Range
	Condition BoundExpression
	Body      []BoundStatement
}

type BoundIfStatement struct {
	statementBase
	If      BoundIfPart
	ElseIfs []BoundIfPart
	Else    []BoundStatement
}

type BoundWhileStatement struct {
	statementBase
	Condition BoundExpression
	Body      []BoundStatement
}

// BoundForStatement is a counted loop. Step is nil when the loop counts by 1.
type BoundForStatement struct {
	statementBase
	Variable string
	From     BoundExpression
	To       BoundExpression
	Step     BoundExpression
	Body     []BoundStatement
}

type BoundLabelStatement struct {
	statementBase
	Label string
}

type BoundGoToStatement struct {
	statementBase
	Label string
}

type BoundVariableAssignmentStatement struct {
	statementBase
	Variable string
	Value    BoundExpression
}

type BoundArrayAssignmentStatement struct {
	statementBase
	Array *BoundArrayAccessExpression
	Value BoundExpression
}

type BoundPropertyAssignmentStatement struct {
	statementBase
	Library  string
	Property string
	Value    BoundExpression
}

type BoundEventAssignmentStatement struct {
	statementBase
	Library   string
	Event     string
	SubModule string
}

type BoundLibraryMethodInvocationStatement struct {
	statementBase
	Invocation *BoundLibraryMethodInvocationExpression
}

type BoundSubModuleInvocationStatement struct {
	statementBase
	Name string
}

// BoundInvalidStatement replaces a statement that failed to bind. It emits
// nothing.
type BoundInvalidStatement struct {
	statementBase
}

// BoundProgram is the binder's output: the main module and every declared
// sub-module, in declaration order.
type BoundProgram struct {
	MainModule     []BoundStatement
	SubModules     map[string][]BoundStatement
	SubModuleOrder []string
}
