package vm

import (
	"sort"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// ---------------------------------------------------------------------------
// Library runtime contract
// ---------------------------------------------------------------------------

// Method is a callable library member.
//
// Execute pops its arguments from the evaluation stack, rightmost first, and
// pushes exactly one value when ReturnsValue is set. It returns whether the
// engine should advance past the call instruction. A method that blocks
// returns false without advancing so the next Execute re-enters it.
type Method struct {
	Description  string
	Parameters   []string
	ReturnsValue bool
	Execute      func(e *Engine, mode ExecutionMode, rng diagnostics.Range) bool
}

// Property is a library value with an optional getter and setter. A setter
// may terminate the engine when it rejects a value.
type Property struct {
	Description string
	Getter      func(e *Engine) Value
	Setter      func(e *Engine, v Value, rng diagnostics.Range)
}

// HasGetter reports whether the property can be read.
func (p *Property) HasGetter() bool { return p.Getter != nil }

// HasSetter reports whether the property can be assigned.
func (p *Property) HasSetter() bool { return p.Setter != nil }

// Event is a notification a library raises into a program-supplied
// sub-module.
type Event struct {
	Description string
	subModule   string
}

// SetSubModule installs the handler.
func (ev *Event) SetSubModule(name string) {
	ev.subModule = name
}

// SubModule returns the handler name, or "" when none is set.
func (ev *Event) SubModule() string {
	return ev.subModule
}

// Raise schedules the handler on the engine's call stack. It reports false
// when no handler is set or the engine is terminated or blocked on I/O.
func (ev *Event) Raise(e *Engine) bool {
	if ev.subModule == "" || e.state == Terminated || e.state.IsBlocked() {
		return false
	}
	e.pushFrame(ev.subModule)
	return true
}

// Library is a named type exposing methods, properties and events.
type Library struct {
	Name        string
	Description string
	Methods     map[string]*Method
	Properties  map[string]*Property
	Events      map[string]*Event
}

func newLibrary(name, description string) *Library {
	return &Library{
		Name:        name,
		Description: description,
		Methods:     make(map[string]*Method),
		Properties:  make(map[string]*Property),
		Events:      make(map[string]*Event),
	}
}

// MemberNames returns every member name, sorted.
func (l *Library) MemberNames() []string {
	names := make([]string, 0, len(l.Methods)+len(l.Properties)+len(l.Events))
	for name := range l.Methods {
		names = append(names, name)
	}
	for name := range l.Properties {
		names = append(names, name)
	}
	for name := range l.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// valueMethod builds a method that pops len(params) arguments, computes a
// result and pushes it.
func valueMethod(description string, params []string, fn func(e *Engine, args []Value, rng diagnostics.Range) Value) *Method {
	return &Method{
		Description:  description,
		Parameters:   params,
		ReturnsValue: true,
		Execute: func(e *Engine, _ ExecutionMode, rng diagnostics.Range) bool {
			args := e.popArguments(len(params))
			result := fn(e, args, rng)
			if e.state == Terminated {
				return false
			}
			e.push(result)
			return true
		},
	}
}

// voidMethod builds a method that pops len(params) arguments and returns
// nothing.
func voidMethod(description string, params []string, fn func(e *Engine, args []Value, rng diagnostics.Range)) *Method {
	return &Method{
		Description: description,
		Parameters:  params,
		Execute: func(e *Engine, _ ExecutionMode, rng diagnostics.Range) bool {
			fn(e, e.popArguments(len(params)), rng)
			return e.state != Terminated
		},
	}
}

// getter builds a read-only property.
func getter(description string, fn func(e *Engine) Value) *Property {
	return &Property{Description: description, Getter: fn}
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Libraries is the set of library types one engine runs against. Stateful
// libraries keep their state here, so every engine owns its own instance.
// Presentation libraries are reachable through typed fields for plugin
// injection.
type Libraries struct {
	types map[string]*Library

	TextWindow *TextWindowLibrary
	Turtle     *TurtleLibrary
	Shapes     *ShapesLibrary
	Controls   *ControlsLibrary
	Sound      *SoundLibrary
}

// NewLibraries creates a fresh registry with every built-in library.
func NewLibraries() *Libraries {
	l := &Libraries{
		types:      make(map[string]*Library),
		TextWindow: newTextWindowLibrary(),
		Turtle:     newTurtleLibrary(),
		Shapes:     newShapesLibrary(),
		Controls:   newControlsLibrary(),
		Sound:      newSoundLibrary(),
	}

	for _, lib := range []*Library{
		newArrayLibrary(),
		newClockLibrary(),
		newMathLibrary(),
		newProgramLibrary(),
		newStackLibrary(),
		newTextLibrary(),
		l.TextWindow.library(),
		l.Turtle.library(),
		l.Shapes.library(),
		l.Controls.library(),
		l.Sound.library(),
	} {
		l.types[lib.Name] = lib
	}
	return l
}

// Lookup returns the library with the given name.
func (l *Libraries) Lookup(name string) (*Library, bool) {
	lib, ok := l.types[name]
	return lib, ok
}

// Names returns all library names, sorted.
func (l *Libraries) Names() []string {
	names := make([]string, 0, len(l.types))
	for name := range l.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// method, property and event look up members the compiler has already
// validated; a miss is an emitter or binder bug.

func (l *Libraries) method(library, name string) *Method {
	if lib, ok := l.types[library]; ok {
		if m, ok := lib.Methods[name]; ok {
			return m
		}
	}
	panic("vm: unknown library method " + library + "." + name)
}

func (l *Libraries) property(library, name string) *Property {
	if lib, ok := l.types[library]; ok {
		if p, ok := lib.Properties[name]; ok {
			return p
		}
	}
	panic("vm: unknown library property " + library + "." + name)
}

func (l *Libraries) event(library, name string) *Event {
	if lib, ok := l.types[library]; ok {
		if ev, ok := lib.Events[name]; ok {
			return ev
		}
	}
	panic("vm: unknown library event " + library + "." + name)
}
