package vm

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// newStackLibrary creates the Stack library. Stacks are named by their first
// argument and exist from their first push.
func newStackLibrary() *Library {
	lib := newLibrary("Stack", "Named last-in first-out stacks of values.")
	stacks := make(map[string][]Value)

	lib.Methods["PushValue"] = voidMethod("Pushes a value onto the named stack.", []string{"stackName", "value"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			name := args[0].String()
			stacks[name] = append(stacks[name], args[1])
		})

	lib.Methods["PopValue"] = valueMethod("Pops the top value of the named stack.", []string{"stackName"},
		func(e *Engine, args []Value, rng diagnostics.Range) Value {
			name := args[0].String()
			values := stacks[name]
			if len(values) == 0 {
				e.terminate(diagnostics.New(diagnostics.PoppingAnEmptyStack, rng))
				return nil
			}
			top := values[len(values)-1]
			stacks[name] = values[:len(values)-1]
			return top
		})

	lib.Methods["GetCount"] = valueMethod("Gets the number of values in the named stack.", []string{"stackName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(len(stacks[args[0].String()]))
		})

	return lib
}
