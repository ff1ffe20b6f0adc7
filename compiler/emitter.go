package compiler

import (
	"fmt"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
	"github.com/sb/SmallBasic-Online-sub000/vm"
)

// ---------------------------------------------------------------------------
// Emitter: bound statements to instructions
//
// Control flow is emitted against named temporary labels. patch erases the
// labels and rewrites temporary jumps to absolute indices once every
// instruction is in place. Temporary instructions are not vm.Instructions,
// so an unpatched jump cannot reach a module.
// ---------------------------------------------------------------------------

type tempInstruction interface {
	tempInstruction() // marker method
}

type tempLabel struct {
	Name string
}

type tempJump struct {
	Label string
	Range diagnostics.Range
}

type tempConditionalJump struct {
	Label    string
	WhenTrue bool
	Range    diagnostics.Range
}

func (tempLabel) tempInstruction()           {}
func (tempJump) tempInstruction()            {}
func (tempConditionalJump) tempInstruction() {}

// pendingInstruction holds either a final instruction or a temporary one.
type pendingInstruction struct {
	final vm.Instruction
	temp  tempInstruction
}

type emitter struct {
	instructions []pendingInstruction
	labelCount   *int
}

// Emit turns one module's bound statements into instructions. labelCount
// numbers synthetic labels and may be shared across modules.
func Emit(statements []BoundStatement, labelCount *int) []vm.Instruction {
	e := &emitter{labelCount: labelCount}
	for _, stmt := range statements {
		e.emitStatement(stmt)
	}
	return patch(e.instructions)
}

// patch resolves temporary labels. Duplicate or unknown labels are emitter
// bugs and panic.
func patch(pending []pendingInstruction) []vm.Instruction {
	targets := make(map[string]int)
	index := 0
	for _, p := range pending {
		if label, ok := p.temp.(tempLabel); ok {
			if _, dup := targets[label.Name]; dup {
				panic(fmt.Sprintf("compiler: label %q emitted twice", label.Name))
			}
			targets[label.Name] = index
			continue
		}
		index++
	}

	resolve := func(name string) int {
		target, ok := targets[name]
		if !ok {
			panic(fmt.Sprintf("compiler: jump to undefined label %q", name))
		}
		return target
	}

	out := make([]vm.Instruction, 0, index)
	for _, p := range pending {
		switch t := p.temp.(type) {
		case nil:
			out = append(out, p.final)
		case tempLabel:
		case tempJump:
			out = append(out, &vm.JumpInstruction{Target: resolve(t.Label), Range: t.Range})
		case tempConditionalJump:
			out = append(out, &vm.ConditionalJumpInstruction{Target: resolve(t.Label), WhenTrue: t.WhenTrue, Range: t.Range})
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (e *emitter) add(instr vm.Instruction) {
	e.instructions = append(e.instructions, pendingInstruction{final: instr})
}

func (e *emitter) label(name string) {
	e.instructions = append(e.instructions, pendingInstruction{temp: tempLabel{Name: name}})
}

func (e *emitter) jump(label string, rng diagnostics.Range) {
	e.instructions = append(e.instructions, pendingInstruction{temp: tempJump{Label: label, Range: rng}})
}

func (e *emitter) jumpIf(whenTrue bool, label string, rng diagnostics.Range) {
	e.instructions = append(e.instructions, pendingInstruction{
		temp: tempConditionalJump{Label: label, WhenTrue: whenTrue, Range: rng},
	})
}

// newLabel returns a synthetic label. The "$" prefix cannot start an
// identifier, so synthetic labels never collide with program labels.
func (e *emitter) newLabel() string {
	*e.labelCount++
	return fmt.Sprintf("$%d", *e.labelCount)
}

func (e *emitter) statementStart(rng diagnostics.Range) {
	e.add(&vm.StatementStartInstruction{Range: rng})
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (e *emitter) emitStatements(statements []BoundStatement) {
	for _, stmt := range statements {
		e.emitStatement(stmt)
	}
}

func (e *emitter) emitStatement(stmt BoundStatement) {
	switch s := stmt.(type) {
	case *BoundIfStatement:
		e.emitIf(s)

	case *BoundWhileStatement:
		rng := s.Syntax().Range()
		top, end := e.newLabel(), e.newLabel()
		e.label(top)
		e.statementStart(rng)
		e.emitExpression(s.Condition)
		e.jumpIf(false, end, rng)
		e.emitStatements(s.Body)
		e.jump(top, rng)
		e.label(end)

	case *BoundForStatement:
		e.emitFor(s)

	case *BoundLabelStatement:
		e.label(s.Label)

	case *BoundGoToStatement:
		rng := s.Syntax().Range()
		e.statementStart(rng)
		e.jump(s.Label, rng)

	case *BoundVariableAssignmentStatement:
		e.statementStart(s.Syntax().Range())
		e.emitExpression(s.Value)
		e.add(&vm.StoreVariableInstruction{Name: s.Variable, Range: s.Syntax().Range()})

	case *BoundArrayAssignmentStatement:
		e.statementStart(s.Syntax().Range())
		e.emitExpression(s.Value)
		e.emitIndices(s.Array.Indices)
		e.add(&vm.StoreArrayElementInstruction{
			Name:         s.Array.Name,
			IndicesCount: len(s.Array.Indices),
			Range:        s.Syntax().Range(),
		})

	case *BoundPropertyAssignmentStatement:
		e.statementStart(s.Syntax().Range())
		e.emitExpression(s.Value)
		e.add(&vm.StorePropertyInstruction{Library: s.Library, Property: s.Property, Range: s.Syntax().Range()})

	case *BoundEventAssignmentStatement:
		e.statementStart(s.Syntax().Range())
		e.add(&vm.SetEventHandlerInstruction{
			Library:   s.Library,
			Event:     s.Event,
			SubModule: s.SubModule,
			Range:     s.Syntax().Range(),
		})

	case *BoundLibraryMethodInvocationStatement:
		e.statementStart(s.Syntax().Range())
		e.emitExpression(s.Invocation)
		if s.Invocation.HasValue() {
			e.add(&vm.DiscardInstruction{Range: s.Syntax().Range()})
		}

	case *BoundSubModuleInvocationStatement:
		e.statementStart(s.Syntax().Range())
		e.add(&vm.CallSubModuleInstruction{Name: s.Name, Range: s.Syntax().Range()})

	case *BoundInvalidStatement:
		// Already reported.

	default:
		panic(fmt.Sprintf("compiler: unexpected bound statement %T", stmt))
	}
}

// emitIf emits each guarded part as: condition, jump past the part when
// false, body, jump to the end of the whole statement.
func (e *emitter) emitIf(s *BoundIfStatement) {
	end := e.newLabel()
	for _, part := range append([]BoundIfPart{s.If}, s.ElseIfs...) {
		next := e.newLabel()
		e.statementStart(part.Header)
		e.emitExpression(part.Condition)
		e.jumpIf(false, next, part.Header)
		e.emitStatements(part.Body)
		e.jump(end, part.Header)
		e.label(next)
	}
	e.emitStatements(s.Else)
	e.label(end)
}

// emitFor stores the start value once, then tests the counter on every
// iteration. With an explicit step the sign of the step picks between an
// ascending and a descending test at run time. Each pass back to the For line
// starts a statement, so stepping pauses once per iteration.
func (e *emitter) emitFor(s *BoundForStatement) {
	rng := s.Syntax().Range()
	next, test, descending, body, end := e.newLabel(), e.newLabel(), e.newLabel(), e.newLabel(), e.newLabel()
	load := func() { e.add(&vm.LoadVariableInstruction{Name: s.Variable, Range: rng}) }

	e.statementStart(rng)
	e.emitExpression(s.From)
	e.add(&vm.StoreVariableInstruction{Name: s.Variable, Range: rng})
	e.jump(test, rng)

	e.label(next)
	e.statementStart(rng)
	load()
	if s.Step != nil {
		e.emitExpression(s.Step)
	} else {
		e.add(&vm.PushNumberInstruction{Value: 1, Range: rng})
	}
	e.add(&vm.AddInstruction{Range: rng})
	e.add(&vm.StoreVariableInstruction{Name: s.Variable, Range: rng})

	e.label(test)
	if s.Step != nil {
		e.emitExpression(s.Step)
		e.add(&vm.PushNumberInstruction{Value: 0, Range: rng})
		e.add(&vm.LessThanInstruction{Range: rng})
		e.jumpIf(true, descending, rng)
	}

	load()
	e.emitExpression(s.To)
	e.add(&vm.LessThanOrEqualInstruction{Range: rng})
	e.jumpIf(false, end, rng)
	e.jump(body, rng)

	e.label(descending)
	if s.Step != nil {
		load()
		e.emitExpression(s.To)
		e.add(&vm.GreaterThanOrEqualInstruction{Range: rng})
		e.jumpIf(false, end, rng)
	}

	e.label(body)
	e.emitStatements(s.Body)
	e.jump(next, rng)
	e.label(end)
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// emitIndices pushes array indices innermost first, so the engine pops the
// outermost index first.
func (e *emitter) emitIndices(indices []BoundExpression) {
	for i := len(indices) - 1; i >= 0; i-- {
		e.emitExpression(indices[i])
	}
}

var arithmetic = map[BinaryOperator]func(diagnostics.Range) vm.Instruction{
	OperatorAdd:      func(r diagnostics.Range) vm.Instruction { return &vm.AddInstruction{Range: r} },
	OperatorSubtract: func(r diagnostics.Range) vm.Instruction { return &vm.SubtractInstruction{Range: r} },
	OperatorMultiply: func(r diagnostics.Range) vm.Instruction { return &vm.MultiplyInstruction{Range: r} },
	OperatorDivide:   func(r diagnostics.Range) vm.Instruction { return &vm.DivideInstruction{Range: r} },
}

var comparisons = map[BinaryOperator]func(diagnostics.Range) vm.Instruction{
	OperatorEqual:              func(r diagnostics.Range) vm.Instruction { return &vm.EqualInstruction{Range: r} },
	OperatorNotEqual:           func(r diagnostics.Range) vm.Instruction { return &vm.EqualInstruction{Range: r} },
	OperatorLessThan:           func(r diagnostics.Range) vm.Instruction { return &vm.LessThanInstruction{Range: r} },
	OperatorGreaterThan:        func(r diagnostics.Range) vm.Instruction { return &vm.GreaterThanInstruction{Range: r} },
	OperatorLessThanOrEqual:    func(r diagnostics.Range) vm.Instruction { return &vm.LessThanOrEqualInstruction{Range: r} },
	OperatorGreaterThanOrEqual: func(r diagnostics.Range) vm.Instruction { return &vm.GreaterThanOrEqualInstruction{Range: r} },
}

func (e *emitter) emitExpression(expr BoundExpression) {
	rng := expr.Syntax().Range()

	switch x := expr.(type) {
	case *BoundVariableExpression:
		e.add(&vm.LoadVariableInstruction{Name: x.Name, Range: rng})

	case *BoundArrayAccessExpression:
		e.emitIndices(x.Indices)
		e.add(&vm.LoadArrayElementInstruction{Name: x.Name, IndicesCount: len(x.Indices), Range: rng})

	case *BoundLibraryPropertyExpression:
		e.add(&vm.LoadPropertyInstruction{Library: x.Library, Property: x.Property, Range: rng})

	case *BoundLibraryMethodInvocationExpression:
		for _, arg := range x.Arguments {
			e.emitExpression(arg)
		}
		e.add(&vm.CallLibraryMethodInstruction{Library: x.Library, Method: x.Method, Range: rng})

	case *BoundSubModuleInvocationExpression:
		e.add(&vm.CallSubModuleInstruction{Name: x.Name, Range: rng})

	case *BoundStringLiteralExpression:
		e.add(&vm.PushStringInstruction{Value: x.Value, Range: rng})

	case *BoundNumberLiteralExpression:
		e.add(&vm.PushNumberInstruction{Value: x.Value, Range: rng})

	case *BoundParenthesisExpression:
		e.emitExpression(x.Expression)

	case *BoundUnaryExpression:
		e.emitExpression(x.Operand)
		e.add(&vm.NegateInstruction{Range: rng})

	case *BoundBinaryExpression:
		e.emitBinary(x, rng)

	case *BoundInvalidExpression, *BoundLibraryTypeExpression, *BoundLibraryMethodExpression,
		*BoundLibraryEventExpression, *BoundSubModuleExpression:
		// Only reachable in programs that already have diagnostics.
		e.add(&vm.PushStringInstruction{Value: "", Range: rng})

	default:
		panic(fmt.Sprintf("compiler: unexpected bound expression %T", expr))
	}
}

func (e *emitter) emitBinary(x *BoundBinaryExpression, rng diagnostics.Range) {
	if op, ok := arithmetic[x.Operator]; ok {
		e.emitExpression(x.Left)
		e.emitExpression(x.Right)
		e.add(op(rng))
		return
	}

	// Each form jumps to "jumped" on one outcome and falls through on the
	// other, then materializes the canonical string for that outcome.
	jumped, end := e.newLabel(), e.newLabel()
	onJump, onFallThrough := vm.True, vm.False

	switch x.Operator {
	case OperatorAnd:
		e.emitExpression(x.Left)
		e.jumpIf(false, jumped, rng)
		e.emitExpression(x.Right)
		e.jumpIf(false, jumped, rng)
		onJump, onFallThrough = vm.False, vm.True

	case OperatorOr:
		e.emitExpression(x.Left)
		e.jumpIf(true, jumped, rng)
		e.emitExpression(x.Right)
		e.jumpIf(true, jumped, rng)

	default:
		e.emitExpression(x.Left)
		e.emitExpression(x.Right)
		e.add(comparisons[x.Operator](rng))
		e.jumpIf(true, jumped, rng)
		if x.Operator == OperatorNotEqual {
			onJump, onFallThrough = vm.False, vm.True
		}
	}

	e.add(&vm.PushStringInstruction{Value: onFallThrough, Range: rng})
	e.jump(end, rng)
	e.label(jumped)
	e.add(&vm.PushStringInstruction{Value: onJump, Range: rng})
	e.label(end)
}
