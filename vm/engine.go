package vm

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tliron/commonlog"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

var log = commonlog.GetLogger("sbasic.vm")

// ExecutionMode selects when Execute hands control back to its caller.
type ExecutionMode int

const (
	// RunToEnd runs until termination or a blocking library call.
	RunToEnd ExecutionMode = iota
	// NextStatement additionally pauses when the next statement begins.
	NextStatement
	// Debug additionally pauses on breakpoints and Program.Pause().
	Debug
)

func (m ExecutionMode) String() string {
	switch m {
	case RunToEnd:
		return "RunToEnd"
	case NextStatement:
		return "NextStatement"
	case Debug:
		return "Debug"
	}
	return fmt.Sprintf("ExecutionMode(%d)", int(m))
}

// ExecutionState is the engine's current state. Terminated is absorbing.
type ExecutionState int

const (
	Running ExecutionState = iota
	Paused
	Terminated
	BlockedOnNumberInput
	BlockedOnStringInput
	BlockedOnOutput
)

var stateNames = map[ExecutionState]string{
	Running:              "Running",
	Paused:               "Paused",
	Terminated:           "Terminated",
	BlockedOnNumberInput: "BlockedOnNumberInput",
	BlockedOnStringInput: "BlockedOnStringInput",
	BlockedOnOutput:      "BlockedOnOutput",
}

func (s ExecutionState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ExecutionState(%d)", int(s))
}

// IsBlocked reports whether the engine is waiting on its host.
func (s ExecutionState) IsBlocked() bool {
	return s == BlockedOnNumberInput || s == BlockedOnStringInput || s == BlockedOnOutput
}

// Frame is one active module invocation.
type Frame struct {
	Module string
	Cursor int
}

// Engine executes emitted modules on an evaluation stack. It is not safe for
// concurrent use; hosts drive it by calling Execute repeatedly.
type Engine struct {
	modules map[string][]Instruction

	stack  []Value
	frames []Frame
	memory map[string]Value

	state       ExecutionState
	exception   *diagnostics.Diagnostic
	started     bool
	pausedDepth int

	buffer      ValueBuffer
	libraries   *Libraries
	breakpoints map[int]bool

	clock  func() time.Time
	start  time.Time
	random *rand.Rand
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLibraries runs the engine against an existing library registry, for
// hosts that install plugins before construction.
func WithLibraries(l *Libraries) EngineOption {
	return func(e *Engine) { e.libraries = l }
}

// WithClock replaces the wall clock used by the Clock library.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithRandom seeds Math.GetRandomNumber.
func WithRandom(seed int64) EngineOption {
	return func(e *Engine) { e.random = rand.New(rand.NewSource(seed)) }
}

// NewEngine creates an engine positioned at the start of the main module.
// The compilation must be free of diagnostics; running a program that failed
// to compile is a caller bug.
func NewEngine(c Compilation, opts ...EngineOption) *Engine {
	if diags := c.Diagnostics(); len(diags) > 0 {
		panic(fmt.Sprintf("vm: cannot execute a compilation with %d diagnostics", len(diags)))
	}

	e := &Engine{
		modules:     make(map[string][]Instruction),
		stack:       make([]Value, 0, 64),
		frames:      make([]Frame, 0, 16),
		memory:      make(map[string]Value),
		breakpoints: make(map[int]bool),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.libraries == nil {
		e.libraries = NewLibraries()
	}
	if e.random == nil {
		e.random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.start = e.clock()

	e.modules[MainModule] = c.MainModule()
	for name, instructions := range c.SubModules() {
		e.modules[name] = instructions
	}
	e.pushFrame(MainModule)
	return e
}

// State returns the current execution state.
func (e *Engine) State() ExecutionState { return e.state }

// Exception returns the runtime diagnostic that terminated the engine, or nil.
func (e *Engine) Exception() *diagnostics.Diagnostic { return e.exception }

// Buffer returns the I/O hand-off slot used in the blocked states.
func (e *Engine) Buffer() *ValueBuffer { return &e.buffer }

// Libraries returns the registry the engine calls into.
func (e *Engine) Libraries() *Libraries { return e.libraries }

// Execute runs instructions until the engine terminates, pauses or blocks.
//
// Paused engines resume. Blocked engines re-enter the blocking instruction,
// which decides whether the host has satisfied it.
func (e *Engine) Execute(mode ExecutionMode) {
	if e.state == Terminated {
		return
	}
	// The statement the engine paused on runs before the next pause. So does
	// the first statement when a fresh engine is stepped.
	skipDepth := 0
	if e.state == Paused {
		e.setState(Running)
		skipDepth = e.pausedDepth
	} else if !e.started && mode == NextStatement {
		skipDepth = len(e.frames)
	}

	for {
		if len(e.frames) == 0 {
			e.setState(Terminated)
			return
		}

		frame := &e.frames[len(e.frames)-1]
		instructions := e.modules[frame.Module]
		if frame.Cursor >= len(instructions) {
			e.frames = e.frames[:len(e.frames)-1]
			continue
		}

		instr := instructions[frame.Cursor]
		if start, ok := instr.(*StatementStartInstruction); ok && len(e.frames) != skipDepth && e.state == Running {
			if mode == NextStatement || (mode == Debug && e.breakpoints[start.Range.Line]) {
				e.setState(Paused)
				return
			}
		}

		skipDepth = 0
		e.started = true
		e.step(instr, mode)
		if e.state != Running {
			return
		}
	}
}

// step executes one instruction and moves the cursor.
func (e *Engine) step(instr Instruction, mode ExecutionMode) {
	frame := &e.frames[len(e.frames)-1]

	switch in := instr.(type) {
	case *JumpInstruction:
		frame.Cursor = in.Target
		return

	case *ConditionalJumpInstruction:
		if e.pop().ToBoolean() == in.WhenTrue {
			frame.Cursor = in.Target
			return
		}

	case *StatementStartInstruction:
		// Marker only.

	case *CallSubModuleInstruction:
		frame.Cursor++
		e.pushFrame(in.Name)
		return

	case *CallLibraryMethodInstruction:
		method := e.libraries.method(in.Library, in.Method)
		if !method.Execute(e, mode, in.Range) {
			return
		}

	case *StoreVariableInstruction:
		e.memory[in.Name] = e.pop()

	case *StoreArrayElementInstruction:
		indices := e.popIndices(in.IndicesCount, in.Range)
		value := e.pop()
		if indices == nil {
			return
		}
		e.memory[in.Name] = storeElement(e.memory[in.Name], indices, value)

	case *StorePropertyInstruction:
		e.libraries.property(in.Library, in.Property).Setter(e, e.pop(), in.Range)

	case *SetEventHandlerInstruction:
		e.libraries.event(in.Library, in.Event).SetSubModule(in.SubModule)

	case *LoadVariableInstruction:
		e.push(e.loadVariable(in.Name))

	case *LoadArrayElementInstruction:
		indices := e.popIndices(in.IndicesCount, in.Range)
		if indices == nil {
			return
		}
		e.push(e.loadElement(in.Name, indices))

	case *LoadPropertyInstruction:
		e.push(e.libraries.property(in.Library, in.Property).Getter(e))

	case *NegateInstruction:
		v := e.pop()
		NumberValue(0).Subtract(v, e, in)

	case *AddInstruction:
		right, left := e.pop(), e.pop()
		left.Add(right, e, in)

	case *SubtractInstruction:
		right, left := e.pop(), e.pop()
		left.Subtract(right, e, in)

	case *MultiplyInstruction:
		right, left := e.pop(), e.pop()
		left.Multiply(right, e, in)

	case *DivideInstruction:
		right, left := e.pop(), e.pop()
		left.Divide(right, e, in)

	case *EqualInstruction:
		right, left := e.pop(), e.pop()
		e.push(BooleanValue(left.IsEqualTo(right)))

	case *LessThanInstruction:
		right, left := e.pop(), e.pop()
		e.push(BooleanValue(left.IsLessThan(right)))

	case *GreaterThanInstruction:
		right, left := e.pop(), e.pop()
		e.push(BooleanValue(left.IsGreaterThan(right)))

	case *LessThanOrEqualInstruction:
		right, left := e.pop(), e.pop()
		e.push(BooleanValue(left.IsLessThanOrEqualTo(right)))

	case *GreaterThanOrEqualInstruction:
		right, left := e.pop(), e.pop()
		e.push(BooleanValue(left.IsGreaterThanOrEqualTo(right)))

	case *PushNumberInstruction:
		e.push(NumberValue(in.Value))

	case *PushStringInstruction:
		e.push(StringValue(in.Value))

	case *DiscardInstruction:
		e.pop()

	default:
		panic(fmt.Sprintf("vm: unexpected instruction %T", instr))
	}

	if e.state != Terminated {
		frame.Cursor++
	}
}

// ---------------------------------------------------------------------------
// Stack and frames
// ---------------------------------------------------------------------------

func (e *Engine) push(v Value) {
	e.stack = append(e.stack, v)
}

func (e *Engine) pop() Value {
	if len(e.stack) == 0 {
		panic("vm: evaluation stack underflow")
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

// popArguments pops n method arguments and returns them in call order.
func (e *Engine) popArguments(n int) []Value {
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = e.pop()
	}
	return args
}

// popIndices pops n array indices, outermost first, converting each to its
// key. It terminates the engine and returns nil if an index is an array.
func (e *Engine) popIndices(n int, rng diagnostics.Range) []string {
	keys := make([]string, n)
	var bad Value
	for i := 0; i < n; i++ {
		v := e.pop()
		if v.Kind() == KindArray {
			bad = v
			continue
		}
		keys[i] = v.String()
	}
	if bad != nil {
		e.terminate(diagnostics.New(diagnostics.CannotUseAnArrayAsAnIndexToAnotherArray, rng))
		return nil
	}
	return keys
}

func (e *Engine) pushFrame(module string) {
	if _, ok := e.modules[module]; !ok {
		panic("vm: unknown module " + module)
	}
	e.frames = append(e.frames, Frame{Module: module})
}

// ---------------------------------------------------------------------------
// Memory
// ---------------------------------------------------------------------------

func (e *Engine) loadVariable(name string) Value {
	if v, ok := e.memory[name]; ok {
		return v
	}
	return StringValue("")
}

// loadElement walks the array stored in name. A non-array slot is upgraded to
// an empty array; a missing element reads as the empty string.
func (e *Engine) loadElement(name string, keys []string) Value {
	root, ok := e.memory[name].(ArrayValue)
	if !ok {
		e.memory[name] = NewArrayValue(nil)
		return StringValue("")
	}
	var current Value = root
	for _, key := range keys {
		arr, ok := current.(ArrayValue)
		if !ok {
			return StringValue("")
		}
		next, ok := arr.Get(key)
		if !ok {
			return StringValue("")
		}
		current = next
	}
	return current
}

// storeElement returns a copy of slot with the element at keys set to value,
// creating or upgrading arrays along the path.
func storeElement(slot Value, keys []string, value Value) Value {
	arr, ok := slot.(ArrayValue)
	if !ok {
		arr = NewArrayValue(nil)
	}
	if len(keys) == 1 {
		return arr.With(keys[0], value)
	}
	child, _ := arr.Get(keys[0])
	return arr.With(keys[0], storeElement(child, keys[1:], value))
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

func (e *Engine) setState(s ExecutionState) {
	if e.state == s {
		return
	}
	if e.state == Terminated {
		panic("vm: cannot leave the terminated state")
	}
	log.Debugf("engine state %s -> %s", e.state, s)
	if s == Paused {
		e.pausedDepth = len(e.frames)
	}
	e.state = s
}

// terminate stops the engine with a runtime diagnostic.
func (e *Engine) terminate(d diagnostics.Diagnostic) {
	if e.state == Terminated {
		return
	}
	log.Debugf("engine terminated at %s: %s", d.Range, d.Code)
	e.exception = &d
	e.setState(Terminated)
}

// Terminate stops the engine without a diagnostic. Hosts use it to abandon a
// program; Program.End uses it to finish one.
func (e *Engine) Terminate() {
	e.frames = e.frames[:0]
	e.setState(Terminated)
}
