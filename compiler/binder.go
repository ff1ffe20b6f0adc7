package compiler

import (
	"strconv"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
	"github.com/sb/SmallBasic-Online-sub000/vm"
)

// ---------------------------------------------------------------------------
// Binder: syntax tree to bound tree
// ---------------------------------------------------------------------------

// binder resolves one program against a library catalog. Labels are scoped
// to the module being bound.
type binder struct {
	libraries  *vm.Libraries
	subModules map[string]bool
	labels     map[string]bool
	duplicates map[*LabelCommand]bool
	diags      *[]diagnostics.Diagnostic
}

// Bind resolves the program. It never fails: statements that do not bind
// are reported and replaced by BoundInvalidStatement.
func Bind(program *Program, libraries *vm.Libraries, diags *[]diagnostics.Diagnostic) *BoundProgram {
	b := &binder{
		libraries:  libraries,
		subModules: make(map[string]bool),
		diags:      diags,
	}

	var declared []*SubModuleDeclaration
	var rejected []*SubModuleDeclaration
	for _, sub := range program.SubModules {
		name := sub.Sub.Name
		if name.Missing {
			rejected = append(rejected, sub)
			continue
		}
		if b.subModules[name.Text] {
			b.errorf(diagnostics.TwoSubModulesWithTheSameName, name.Range, name.Text)
			rejected = append(rejected, sub)
			continue
		}
		b.subModules[name.Text] = true
		declared = append(declared, sub)
	}

	bound := &BoundProgram{
		MainModule: b.bindModule(program.Statements),
		SubModules: make(map[string][]BoundStatement, len(declared)),
	}
	for _, sub := range declared {
		name := sub.Sub.Name.Text
		bound.SubModules[name] = b.bindModule(sub.Body)
		bound.SubModuleOrder = append(bound.SubModuleOrder, name)
	}
	// Rejected bodies are bound only for their diagnostics.
	for _, sub := range rejected {
		b.bindModule(sub.Body)
	}
	return bound
}

func (b *binder) errorf(code diagnostics.ErrorCode, rng diagnostics.Range, args ...string) {
	*b.diags = append(*b.diags, diagnostics.New(code, rng, args...))
}

// ---------------------------------------------------------------------------
// Modules and labels
// ---------------------------------------------------------------------------

func (b *binder) bindModule(statements []Statement) []BoundStatement {
	b.labels = make(map[string]bool)
	b.duplicates = make(map[*LabelCommand]bool)
	b.collectLabels(statements)
	return b.bindStatements(statements)
}

func (b *binder) collectLabels(statements []Statement) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *LabelStatement:
			label := s.Command.Label
			if b.labels[label.Text] {
				b.errorf(diagnostics.TwoLabelsWithTheSameName, label.Range, label.Text)
				b.duplicates[s.Command] = true
				continue
			}
			b.labels[label.Text] = true
		case *IfStatement:
			b.collectLabels(s.Body)
			for _, part := range s.ElseIfs {
				b.collectLabels(part.Body)
			}
			if s.Else != nil {
				b.collectLabels(s.Else.Body)
			}
		case *WhileStatement:
			b.collectLabels(s.Body)
		case *ForStatement:
			b.collectLabels(s.Body)
		}
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (b *binder) bindStatements(statements []Statement) []BoundStatement {
	bound := make([]BoundStatement, 0, len(statements))
	for _, stmt := range statements {
		bound = append(bound, b.bindStatement(stmt))
	}
	return bound
}

func (b *binder) bindStatement(stmt Statement) BoundStatement {
	switch s := stmt.(type) {
	case *IfStatement:
		bound := &BoundIfStatement{
			statementBase: statementBase{syntax: s},
			If: BoundIfPart{
				Header:    s.If.Range(),
				Condition: b.bindValue(s.If.Condition),
				Body:      b.bindStatements(s.Body),
			},
		}
		for _, part := range s.ElseIfs {
			bound.ElseIfs = append(bound.ElseIfs, BoundIfPart{
				Header:    part.ElseIf.Range(),
				Condition: b.bindValue(part.ElseIf.Condition),
				Body:      b.bindStatements(part.Body),
			})
		}
		if s.Else != nil {
			bound.Else = b.bindStatements(s.Else.Body)
		}
		return bound

	case *WhileStatement:
		return &BoundWhileStatement{
			statementBase: statementBase{syntax: s},
			Condition:     b.bindValue(s.While.Condition),
			Body:          b.bindStatements(s.Body),
		}

	case *ForStatement:
		bound := &BoundForStatement{
			statementBase: statementBase{syntax: s},
			Variable:      s.For.Identifier.Text,
			From:          b.bindValue(s.For.FromExpression),
			To:            b.bindValue(s.For.ToExpression),
		}
		if s.For.StepExpression != nil {
			bound.Step = b.bindValue(s.For.StepExpression)
		}
		bound.Body = b.bindStatements(s.Body)
		if s.For.Identifier.Missing {
			return &BoundInvalidStatement{statementBase{syntax: s}}
		}
		return bound

	case *LabelStatement:
		if b.duplicates[s.Command] || s.Command.Label.Missing {
			return &BoundInvalidStatement{statementBase{syntax: s}}
		}
		return &BoundLabelStatement{statementBase: statementBase{syntax: s}, Label: s.Command.Label.Text}

	case *GoToStatement:
		label := s.Command.Label
		if label.Missing {
			return &BoundInvalidStatement{statementBase{syntax: s}}
		}
		if !b.labels[label.Text] {
			b.errorf(diagnostics.LabelDoesNotExist, label.Range, label.Text)
			return &BoundInvalidStatement{statementBase{syntax: s}}
		}
		return &BoundGoToStatement{statementBase: statementBase{syntax: s}, Label: label.Text}

	case *ExpressionStatement:
		return b.bindExpressionStatement(s)

	case *SubModuleDeclaration:
		panic("compiler: sub-module declarations are bound as modules")
	}
	panic("compiler: unexpected statement type")
}

// bindExpressionStatement binds an assignment, when the top-level operator
// is "=", or a call.
func (b *binder) bindExpressionStatement(s *ExpressionStatement) BoundStatement {
	invalid := &BoundInvalidStatement{statementBase{syntax: s}}
	base := statementBase{syntax: s}

	switch expr := s.Command.Expression.(type) {
	case *BinaryExpression:
		if expr.Operator.Kind == TokenEqual {
			return b.bindAssignment(s, expr)
		}

	case *InvocationExpression:
		switch call := b.bindExpression(expr).(type) {
		case *BoundLibraryMethodInvocationExpression:
			if call.HasErrors() {
				return invalid
			}
			return &BoundLibraryMethodInvocationStatement{statementBase: base, Invocation: call}
		case *BoundSubModuleInvocationExpression:
			return &BoundSubModuleInvocationStatement{statementBase: base, Name: call.Name}
		}
		return invalid
	}

	bound := b.bindExpression(s.Command.Expression)
	switch {
	case bound.HasErrors():
	case bound.HasValue():
		b.errorf(diagnostics.UnassignedExpressionStatement, s.Range())
	default:
		b.errorf(diagnostics.InvalidExpressionStatement, s.Range())
	}
	return invalid
}

func (b *binder) bindAssignment(s *ExpressionStatement, expr *BinaryExpression) BoundStatement {
	invalid := &BoundInvalidStatement{statementBase{syntax: s}}
	base := statementBase{syntax: s}
	target := b.bindExpression(expr.Left)

	if event, ok := target.(*BoundLibraryEventExpression); ok {
		switch handler := b.bindExpression(expr.Right).(type) {
		case *BoundSubModuleExpression:
			return &BoundEventAssignmentStatement{
				statementBase: base,
				Library:       event.Library,
				Event:         event.Event,
				SubModule:     handler.Name,
			}
		default:
			if !handler.HasErrors() {
				b.errorf(diagnostics.AssigningNonSubModuleToEvent, expr.Right.Range())
			}
			return invalid
		}
	}

	value := b.bindValue(expr.Right)

	switch t := target.(type) {
	case *BoundVariableExpression:
		if value.HasErrors() {
			return invalid
		}
		return &BoundVariableAssignmentStatement{statementBase: base, Variable: t.Name, Value: value}

	case *BoundArrayAccessExpression:
		if anyErrors(t, value) {
			return invalid
		}
		return &BoundArrayAssignmentStatement{statementBase: base, Array: t, Value: value}

	case *BoundLibraryPropertyExpression:
		lib, _ := b.libraries.Lookup(t.Library)
		if !lib.Properties[t.Property].HasSetter() {
			b.errorf(diagnostics.PropertyHasNoSetter, expr.Left.Range())
			return invalid
		}
		if value.HasErrors() {
			return invalid
		}
		return &BoundPropertyAssignmentStatement{statementBase: base, Library: t.Library, Property: t.Property, Value: value}
	}

	if !target.HasErrors() {
		b.errorf(diagnostics.ValueIsNotAssignable, expr.Left.Range())
	}
	return invalid
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// bindValue binds an expression used where a value is required.
func (b *binder) bindValue(syntax Expression) BoundExpression {
	bound := b.bindExpression(syntax)
	if !bound.HasValue() && !bound.HasErrors() {
		b.errorf(diagnostics.UnexpectedVoid_ExpectingValue, syntax.Range())
		return b.invalid(syntax)
	}
	return bound
}

func (b *binder) invalid(syntax Expression) BoundExpression {
	return &BoundInvalidExpression{expressionBase{syntax: syntax, hasValue: true, hasErrors: true}}
}

func (b *binder) bindExpression(syntax Expression) BoundExpression {
	switch s := syntax.(type) {
	case *IdentifierExpression:
		return b.bindIdentifier(s)

	case *NumberLiteralExpression:
		value, err := strconv.ParseFloat(s.Literal.Text, 64)
		if err != nil {
			return b.invalid(s)
		}
		return &BoundNumberLiteralExpression{expressionBase{syntax: s, hasValue: true}, value}

	case *StringLiteralExpression:
		return &BoundStringLiteralExpression{expressionBase{syntax: s, hasValue: true}, StringLiteralValue(s.Literal)}

	case *UnaryExpression:
		operand := b.bindValue(s.Operand)
		return &BoundUnaryExpression{expressionBase{syntax: s, hasValue: true, hasErrors: operand.HasErrors()}, operand}

	case *BinaryExpression:
		left, right := b.bindValue(s.Left), b.bindValue(s.Right)
		return &BoundBinaryExpression{
			expressionBase: expressionBase{syntax: s, hasValue: true, hasErrors: anyErrors(left, right)},
			Operator:       binaryOperators[s.Operator.Kind],
			Left:           left,
			Right:          right,
		}

	case *ParenthesisExpression:
		inner := b.bindValue(s.Expression)
		return &BoundParenthesisExpression{expressionBase{syntax: s, hasValue: true, hasErrors: inner.HasErrors()}, inner}

	case *ObjectAccessExpression:
		return b.bindObjectAccess(s)

	case *ArrayAccessExpression:
		return b.bindArrayAccess(s)

	case *InvocationExpression:
		return b.bindInvocation(s)
	}
	panic("compiler: unexpected expression type")
}

// bindIdentifier resolves a name as a library, then a sub-module, then a
// variable.
func (b *binder) bindIdentifier(s *IdentifierExpression) BoundExpression {
	name := s.Identifier.Text
	switch {
	case s.Identifier.Missing:
		return b.invalid(s)
	case b.isLibrary(name):
		return &BoundLibraryTypeExpression{expressionBase{syntax: s}, name}
	case b.subModules[name]:
		return &BoundSubModuleExpression{expressionBase{syntax: s}, name}
	}
	return &BoundVariableExpression{expressionBase{syntax: s, hasValue: true}, name}
}

func (b *binder) isLibrary(name string) bool {
	_, ok := b.libraries.Lookup(name)
	return ok
}

func (b *binder) bindObjectAccess(s *ObjectAccessExpression) BoundExpression {
	base := b.bindExpression(s.Base)
	if base.HasErrors() || s.Member.Missing {
		return b.invalid(s)
	}
	libType, ok := base.(*BoundLibraryTypeExpression)
	if !ok {
		b.errorf(diagnostics.UnsupportedDotBaseExpression, s.Base.Range())
		return b.invalid(s)
	}

	lib, _ := b.libraries.Lookup(libType.Library)
	member := s.Member.Text
	if _, ok := lib.Methods[member]; ok {
		return &BoundLibraryMethodExpression{expressionBase{syntax: s}, lib.Name, member}
	}
	if p, ok := lib.Properties[member]; ok {
		return &BoundLibraryPropertyExpression{expressionBase{syntax: s, hasValue: p.HasGetter()}, lib.Name, member}
	}
	if _, ok := lib.Events[member]; ok {
		return &BoundLibraryEventExpression{expressionBase{syntax: s}, lib.Name, member}
	}
	b.errorf(diagnostics.LibraryMemberNotFound, s.Member.Range, lib.Name, member)
	return b.invalid(s)
}

func (b *binder) bindArrayAccess(s *ArrayAccessExpression) BoundExpression {
	base := b.bindExpression(s.Base)
	index := b.bindValue(s.Index)
	if base.HasErrors() {
		return b.invalid(s)
	}

	var name string
	var indices []BoundExpression
	switch a := base.(type) {
	case *BoundVariableExpression:
		name = a.Name
	case *BoundArrayAccessExpression:
		name = a.Name
		indices = append(indices, a.Indices...)
	default:
		b.errorf(diagnostics.UnsupportedArrayBaseExpression, s.Base.Range())
		return b.invalid(s)
	}
	indices = append(indices, index)

	return &BoundArrayAccessExpression{
		expressionBase: expressionBase{syntax: s, hasValue: true, hasErrors: anyErrors(indices...)},
		Name:           name,
		Indices:        indices,
	}
}

func (b *binder) bindInvocation(s *InvocationExpression) BoundExpression {
	base := b.bindExpression(s.Base)
	args := make([]BoundExpression, 0, len(s.Arguments))
	for _, arg := range s.Arguments {
		args = append(args, b.bindValue(arg))
	}
	if base.HasErrors() {
		return b.invalid(s)
	}
	// Argument counts of a call the parser had to repair are not checked.
	recovered := s.RightParen.Missing || anyErrors(args...)

	switch callee := base.(type) {
	case *BoundLibraryMethodExpression:
		lib, _ := b.libraries.Lookup(callee.Library)
		method := lib.Methods[callee.Method]
		if len(args) != len(method.Parameters) {
			if !recovered {
				b.errorf(diagnostics.UnexpectedArgumentsCount, s.Range(),
					strconv.Itoa(len(method.Parameters)), strconv.Itoa(len(args)))
			}
			return b.invalid(s)
		}
		return &BoundLibraryMethodInvocationExpression{
			expressionBase: expressionBase{syntax: s, hasValue: method.ReturnsValue, hasErrors: anyErrors(args...)},
			Library:        callee.Library,
			Method:         callee.Method,
			Arguments:      args,
		}

	case *BoundSubModuleExpression:
		if len(args) != 0 {
			if !recovered {
				b.errorf(diagnostics.UnexpectedArgumentsCount, s.Range(), "0", strconv.Itoa(len(args)))
			}
			return b.invalid(s)
		}
		return &BoundSubModuleInvocationExpression{expressionBase{syntax: s}, callee.Name}
	}

	b.errorf(diagnostics.UnsupportedCallBaseExpression, s.Base.Range())
	return b.invalid(s)
}
