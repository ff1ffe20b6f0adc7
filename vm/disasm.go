package vm

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble returns a human-readable listing of every module in c, the
// main module first and sub-modules in name order.
func Disassemble(c Compilation) string {
	var sb strings.Builder
	sb.WriteString(DisassembleModule(MainModule, c.MainModule()))

	subs := c.SubModules()
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString("\n")
		sb.WriteString(DisassembleModule(name, subs[name]))
	}
	return sb.String()
}

// DisassembleModule returns a listing of one module with a name header.
func DisassembleModule(name string, instructions []Instruction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	if len(instructions) == 0 {
		sb.WriteString(";   (empty)\n")
		return sb.String()
	}
	for i, instr := range instructions {
		sb.WriteString(fmt.Sprintf("%04d  line %-4d %s\n", i, instr.SourceRange().Line, describe(instr)))
	}
	return sb.String()
}

func describe(instr Instruction) string {
	switch in := instr.(type) {
	case *JumpInstruction:
		return fmt.Sprintf("JUMP %d", in.Target)
	case *ConditionalJumpInstruction:
		if in.WhenTrue {
			return fmt.Sprintf("JUMP_IF_TRUE %d", in.Target)
		}
		return fmt.Sprintf("JUMP_IF_FALSE %d", in.Target)
	case *StatementStartInstruction:
		return "STATEMENT"
	case *CallSubModuleInstruction:
		return "CALL_SUB " + in.Name
	case *CallLibraryMethodInstruction:
		return fmt.Sprintf("CALL %s.%s", in.Library, in.Method)
	case *StoreVariableInstruction:
		return "STORE " + in.Name
	case *StoreArrayElementInstruction:
		return fmt.Sprintf("STORE_ELEMENT %s [%d]", in.Name, in.IndicesCount)
	case *StorePropertyInstruction:
		return fmt.Sprintf("STORE_PROPERTY %s.%s", in.Library, in.Property)
	case *SetEventHandlerInstruction:
		return fmt.Sprintf("SET_HANDLER %s.%s = %s", in.Library, in.Event, in.SubModule)
	case *LoadVariableInstruction:
		return "LOAD " + in.Name
	case *LoadArrayElementInstruction:
		return fmt.Sprintf("LOAD_ELEMENT %s [%d]", in.Name, in.IndicesCount)
	case *LoadPropertyInstruction:
		return fmt.Sprintf("LOAD_PROPERTY %s.%s", in.Library, in.Property)
	case *NegateInstruction:
		return "NEGATE"
	case *AddInstruction:
		return "ADD"
	case *SubtractInstruction:
		return "SUBTRACT"
	case *MultiplyInstruction:
		return "MULTIPLY"
	case *DivideInstruction:
		return "DIVIDE"
	case *EqualInstruction:
		return "EQUAL"
	case *LessThanInstruction:
		return "LESS_THAN"
	case *GreaterThanInstruction:
		return "GREATER_THAN"
	case *LessThanOrEqualInstruction:
		return "LESS_EQUAL"
	case *GreaterThanOrEqualInstruction:
		return "GREATER_EQUAL"
	case *PushNumberInstruction:
		return "PUSH_NUMBER " + NumberValue(in.Value).String()
	case *PushStringInstruction:
		display := strings.ReplaceAll(in.Value, "\n", "\\n")
		return fmt.Sprintf("PUSH_STRING %q", display)
	case *DiscardInstruction:
		return "DISCARD"
	}
	return fmt.Sprintf("UNKNOWN %T", instr)
}
