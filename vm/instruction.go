package vm

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ---------------------------------------------------------------------------
// Instructions
// ---------------------------------------------------------------------------

// Instruction is one step of an emitted module. The set of implementations is
// closed; the engine and the disassembler switch over all of them.
//
// Every instruction carries the source range it was emitted from so runtime
// diagnostics can point back at the program text. Jump targets are absolute
// indices into the owning module.
type Instruction interface {
	SourceRange() diagnostics.Range
	instruction() // marker method
}

// ============ Control flow ============

// JumpInstruction continues execution at Target.
type JumpInstruction struct {
	Target int
	Range  diagnostics.Range
}

func (i *JumpInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *JumpInstruction) instruction()                   {}

// ConditionalJumpInstruction pops a value and jumps to Target when its
// boolean form equals WhenTrue; otherwise execution falls through.
type ConditionalJumpInstruction struct {
	Target   int
	WhenTrue bool
	Range    diagnostics.Range
}

func (i *ConditionalJumpInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *ConditionalJumpInstruction) instruction()                   {}

// StatementStartInstruction opens a source statement. Single-step execution
// pauses on it.
type StatementStartInstruction struct {
	Range diagnostics.Range
}

func (i *StatementStartInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *StatementStartInstruction) instruction()                   {}

// CallSubModuleInstruction pushes a frame for the named sub-module.
type CallSubModuleInstruction struct {
	Name  string
	Range diagnostics.Range
}

func (i *CallSubModuleInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *CallSubModuleInstruction) instruction()                   {}

// CallLibraryMethodInstruction invokes a library method whose arguments are
// already on the stack.
type CallLibraryMethodInstruction struct {
	Library string
	Method  string
	Range   diagnostics.Range
}

func (i *CallLibraryMethodInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *CallLibraryMethodInstruction) instruction()                   {}

// ============ Stores ============

// StoreVariableInstruction pops a value into a variable.
type StoreVariableInstruction struct {
	Name  string
	Range diagnostics.Range
}

func (i *StoreVariableInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *StoreVariableInstruction) instruction()                   {}

// StoreArrayElementInstruction pops IndicesCount indices (outermost first)
// and then the value to store into the array held by Name.
type StoreArrayElementInstruction struct {
	Name         string
	IndicesCount int
	Range        diagnostics.Range
}

func (i *StoreArrayElementInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *StoreArrayElementInstruction) instruction()                   {}

// StorePropertyInstruction pops a value into a library property.
type StorePropertyInstruction struct {
	Library  string
	Property string
	Range    diagnostics.Range
}

func (i *StorePropertyInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *StorePropertyInstruction) instruction()                   {}

// SetEventHandlerInstruction makes SubModule the handler of a library event.
type SetEventHandlerInstruction struct {
	Library   string
	Event     string
	SubModule string
	Range     diagnostics.Range
}

func (i *SetEventHandlerInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *SetEventHandlerInstruction) instruction()                   {}

// ============ Loads ============

// LoadVariableInstruction pushes the value of a variable.
type LoadVariableInstruction struct {
	Name  string
	Range diagnostics.Range
}

func (i *LoadVariableInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *LoadVariableInstruction) instruction()                   {}

// LoadArrayElementInstruction pops IndicesCount indices (outermost first)
// and pushes the element they address.
type LoadArrayElementInstruction struct {
	Name         string
	IndicesCount int
	Range        diagnostics.Range
}

func (i *LoadArrayElementInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *LoadArrayElementInstruction) instruction()                   {}

// LoadPropertyInstruction pushes the value of a library property.
type LoadPropertyInstruction struct {
	Library  string
	Property string
	Range    diagnostics.Range
}

func (i *LoadPropertyInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *LoadPropertyInstruction) instruction()                   {}

// ============ Arithmetic ============

// NegateInstruction negates the value on top of the stack.
type NegateInstruction struct {
	Range diagnostics.Range
}

func (i *NegateInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *NegateInstruction) instruction()                   {}

type AddInstruction struct {
	Range diagnostics.Range
}

func (i *AddInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *AddInstruction) instruction()                   {}

type SubtractInstruction struct {
	Range diagnostics.Range
}

func (i *SubtractInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *SubtractInstruction) instruction()                   {}

type MultiplyInstruction struct {
	Range diagnostics.Range
}

func (i *MultiplyInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *MultiplyInstruction) instruction()                   {}

type DivideInstruction struct {
	Range diagnostics.Range
}

func (i *DivideInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *DivideInstruction) instruction()                   {}

// ============ Comparison ============
//
// Comparisons pop two values and push True or False.

type EqualInstruction struct {
	Range diagnostics.Range
}

func (i *EqualInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *EqualInstruction) instruction()                   {}

type LessThanInstruction struct {
	Range diagnostics.Range
}

func (i *LessThanInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *LessThanInstruction) instruction()                   {}

type GreaterThanInstruction struct {
	Range diagnostics.Range
}

func (i *GreaterThanInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *GreaterThanInstruction) instruction()                   {}

type LessThanOrEqualInstruction struct {
	Range diagnostics.Range
}

func (i *LessThanOrEqualInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *LessThanOrEqualInstruction) instruction()                   {}

type GreaterThanOrEqualInstruction struct {
	Range diagnostics.Range
}

func (i *GreaterThanOrEqualInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *GreaterThanOrEqualInstruction) instruction()                   {}

// ============ Stack ============

type PushNumberInstruction struct {
	Value float64
	Range diagnostics.Range
}

func (i *PushNumberInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *PushNumberInstruction) instruction()                   {}

type PushStringInstruction struct {
	Value string
	Range diagnostics.Range
}

func (i *PushStringInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *PushStringInstruction) instruction()                   {}

// DiscardInstruction drops the top of the stack. It follows calls whose
// result is not used.
type DiscardInstruction struct {
	Range diagnostics.Range
}

func (i *DiscardInstruction) SourceRange() diagnostics.Range { return i.Range }
func (i *DiscardInstruction) instruction()                   {}

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

// MainModule is the name of the module that starts execution.
const MainModule = "Program"

// Module is a named, immutable instruction sequence. Execution returns from a
// module by running past its last instruction.
type Module struct {
	Name         string
	Instructions []Instruction
}

// Compilation is what the engine needs from a compiler: its diagnostics and
// the emitted modules.
type Compilation interface {
	Diagnostics() []diagnostics.Diagnostic
	MainModule() []Instruction
	SubModules() map[string][]Instruction
}
