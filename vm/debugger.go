package vm

import (
	"sort"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// ---------------------------------------------------------------------------
// Debugging support: breakpoints and inspection snapshots
// ---------------------------------------------------------------------------

// StackFrame describes one entry of the call stack for inspection.
type StackFrame struct {
	Module string
	Cursor int
	Range  diagnostics.Range // range of the instruction at Cursor
}

// Variable is a name/value pair for inspection.
type Variable struct {
	Name  string
	Value Value
}

// SetBreakpoint makes Debug mode pause before any statement on line.
func (e *Engine) SetBreakpoint(line int) {
	e.breakpoints[line] = true
}

// RemoveBreakpoint clears the breakpoint on line.
func (e *Engine) RemoveBreakpoint(line int) {
	delete(e.breakpoints, line)
}

// Breakpoints returns the lines holding breakpoints, ascending.
func (e *Engine) Breakpoints() []int {
	lines := make([]int, 0, len(e.breakpoints))
	for line := range e.breakpoints {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// CallStack returns the active frames, innermost first.
func (e *Engine) CallStack() []StackFrame {
	frames := make([]StackFrame, 0, len(e.frames))
	for i := len(e.frames) - 1; i >= 0; i-- {
		f := e.frames[i]
		sf := StackFrame{Module: f.Module, Cursor: f.Cursor}
		if instructions := e.modules[f.Module]; f.Cursor < len(instructions) {
			sf.Range = instructions[f.Cursor].SourceRange()
		}
		frames = append(frames, sf)
	}
	return frames
}

// CurrentRange returns the source range of the next instruction to run.
func (e *Engine) CurrentRange() (diagnostics.Range, bool) {
	stack := e.CallStack()
	if len(stack) == 0 {
		return diagnostics.Range{}, false
	}
	top := stack[0]
	if top.Cursor >= len(e.modules[top.Module]) {
		return diagnostics.Range{}, false
	}
	return top.Range, true
}

// Memory returns every variable, sorted by name.
func (e *Engine) Memory() []Variable {
	vars := make([]Variable, 0, len(e.memory))
	for name, v := range e.memory {
		vars = append(vars, Variable{Name: name, Value: v})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

// Variable returns the current value of a variable, which defaults to the
// empty string.
func (e *Engine) Variable(name string) Value {
	return e.loadVariable(name)
}

// EvaluationStackDepth returns the number of values on the evaluation stack.
func (e *Engine) EvaluationStackDepth() int {
	return len(e.stack)
}

// RaiseEvent raises a library event on behalf of a plugin. The handler runs
// on the next Execute call, after which execution continues where it was.
func (e *Engine) RaiseEvent(library, event string) bool {
	return e.libraries.event(library, event).Raise(e)
}
