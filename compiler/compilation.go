package compiler

import (
	"sync"

	"github.com/tliron/commonlog"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
	"github.com/sb/SmallBasic-Online-sub000/vm"
)

var log = commonlog.GetLogger("sbasic.compiler")

var (
	catalogOnce sync.Once
	catalog     *vm.Libraries
)

// Catalog returns the library metadata programs are bound against.
func Catalog() *vm.Libraries {
	catalogOnce.Do(func() { catalog = vm.NewLibraries() })
	return catalog
}

// Compilation is the result of compiling one program text. Every pass runs
// even when an earlier one reported diagnostics; a compilation with
// diagnostics must not be executed.
type Compilation struct {
	text        string
	lines       [][]Token
	diagnostics []diagnostics.Diagnostic
	syntax      *Program
	bound       *BoundProgram
	main        []vm.Instruction
	subs        map[string][]vm.Instruction
}

// Compile scans, parses, binds and emits text. Diagnostics are ordered by
// pass, then by source position within a pass.
func Compile(text string) *Compilation {
	c := &Compilation{text: text}

	for i, line := range SplitLines(text) {
		c.lines = append(c.lines, Scan(i, line, &c.diagnostics))
	}

	var commands []Command
	for i, tokens := range c.lines {
		if cmd := ParseCommand(i, tokens, &c.diagnostics); cmd != nil {
			commands = append(commands, cmd)
		}
	}
	c.syntax = ParseStatements(commands, &c.diagnostics)
	c.bound = Bind(c.syntax, Catalog(), &c.diagnostics)

	labels := 0
	c.main = Emit(c.bound.MainModule, &labels)
	c.subs = make(map[string][]vm.Instruction, len(c.bound.SubModules))
	for _, name := range c.bound.SubModuleOrder {
		c.subs[name] = Emit(c.bound.SubModules[name], &labels)
	}

	log.Debugf("compiled %d lines: %d diagnostics, %d sub-modules", len(c.lines), len(c.diagnostics), len(c.subs))
	return c
}

// Text returns the compiled source.
func (c *Compilation) Text() string { return c.text }

// Tokens returns the tokens of each line, comments included.
func (c *Compilation) Tokens() [][]Token { return c.lines }

// Diagnostics returns every compile-time diagnostic.
func (c *Compilation) Diagnostics() []diagnostics.Diagnostic { return c.diagnostics }

// HasErrors reports whether the compilation must not be executed.
func (c *Compilation) HasErrors() bool { return len(c.diagnostics) > 0 }

// Syntax returns the parsed program.
func (c *Compilation) Syntax() *Program { return c.syntax }

// Bound returns the bound program.
func (c *Compilation) Bound() *BoundProgram { return c.bound }

// MainModule returns the instructions of the main module.
func (c *Compilation) MainModule() []vm.Instruction { return c.main }

// SubModules returns the instructions of every declared sub-module.
func (c *Compilation) SubModules() map[string][]vm.Instruction { return c.subs }

var _ vm.Compilation = (*Compilation)(nil)
