package vm

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

func newProgramLibrary() *Library {
	lib := newLibrary("Program", "Control over the running program.")

	lib.Methods["Pause"] = &Method{
		Description: "Pauses the program when it runs under the debugger.",
		Execute: func(e *Engine, mode ExecutionMode, _ diagnostics.Range) bool {
			if mode == Debug {
				e.setState(Paused)
			}
			return true
		},
	}

	lib.Methods["End"] = &Method{
		Description: "Ends the program.",
		Execute: func(e *Engine, _ ExecutionMode, _ diagnostics.Range) bool {
			e.Terminate()
			return false
		},
	}

	return lib
}
