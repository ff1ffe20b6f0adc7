package compiler

import (
	"strings"
	"testing"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
	"github.com/sb/SmallBasic-Online-sub000/vm"
)

// host drives an engine to termination, collecting text window output and
// answering reads from a queue of inputs.
type host struct {
	t      *testing.T
	engine *vm.Engine
	inputs []string
	output strings.Builder
}

func newHost(t *testing.T, text string, inputs ...string) *host {
	t.Helper()
	c := Compile(text)
	if c.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", c.Diagnostics())
	}
	return &host{t: t, engine: vm.NewEngine(c, vm.WithRandom(1)), inputs: inputs}
}

func (h *host) run() string {
	h.t.Helper()
	for steps := 0; steps < 10000; steps++ {
		h.engine.Execute(vm.RunToEnd)
		buf := h.engine.Buffer()
		switch h.engine.State() {
		case vm.Terminated:
			return h.output.String()
		case vm.BlockedOnOutput:
			newLine := buf.EndsLine()
			h.output.WriteString(buf.ReadValue().String())
			if newLine {
				h.output.WriteString("\n")
			}
		case vm.BlockedOnStringInput, vm.BlockedOnNumberInput:
			if len(h.inputs) == 0 {
				h.t.Fatalf("program is waiting for input; output so far %q", h.output.String())
			}
			buf.WriteValue(vm.StringValue(h.inputs[0]))
			h.inputs = h.inputs[1:]
		default:
			h.t.Fatalf("unexpected state %s", h.engine.State())
		}
	}
	h.t.Fatal("program did not terminate")
	return ""
}

func runProgram(t *testing.T, text string, inputs ...string) string {
	t.Helper()
	return newHost(t, text, inputs...).run()
}

func TestRunPrograms(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		inputs []string
		want   string
	}{
		{
			name:  "numeric string addition",
			lines: []string{`TextWindow.WriteLine(1 + "7")`},
			want:  "8\n",
		},
		{
			name:  "string concatenation",
			lines: []string{`TextWindow.WriteLine("a" + 1)`},
			want:  "a1\n",
		},
		{
			name:  "write without newline",
			lines: []string{`TextWindow.Write("a")`, `TextWindow.Write("b")`},
			want:  "ab",
		},
		{
			name:  "descending range without step",
			lines: []string{"n = 0", "For i = 5 To 1", "n = n + 1", "EndFor", "TextWindow.WriteLine(n)"},
			want:  "0\n",
		},
		{
			name:  "negative step",
			lines: []string{"n = 0", "For i = 5 To 1 Step -1", "n = n + 1", "EndFor", "TextWindow.WriteLine(n)"},
			want:  "5\n",
		},
		{
			name:  "single iteration",
			lines: []string{"n = 0", "For i = 1 To 1", "n = n + 1", "EndFor", "TextWindow.WriteLine(n)"},
			want:  "1\n",
		},
		{
			name:  "step values",
			lines: []string{"For i = 1 To 10 Step 3", "TextWindow.Write(i)", "EndFor"},
			want:  "14710",
		},
		{
			name:  "while loop",
			lines: []string{"i = 0", "While i < 3", "i = i + 1", "EndWhile", "TextWindow.WriteLine(i)"},
			want:  "3\n",
		},
		{
			name: "if elseif else",
			lines: []string{
				"For i = 1 To 3",
				"If i = 1 Then",
				`TextWindow.Write("one")`,
				"ElseIf i = 2 Then",
				`TextWindow.Write("two")`,
				"Else",
				`TextWindow.Write("many")`,
				"EndIf",
				"EndFor",
			},
			want: "onetwomany",
		},
		{
			name:  "auto-vivified nested array",
			lines: []string{"x[1][0] = 2", "TextWindow.WriteLine(x[1][0])", "TextWindow.WriteLine(x)"},
			want:  "2\n1=0=2;;\n",
		},
		{
			name:  "arrays are copied on assignment",
			lines: []string{"a[1] = 1", "b = a", "b[1] = 2", "TextWindow.WriteLine(a[1] + b[1])"},
			want:  "3\n",
		},
		{
			name:  "relational results",
			lines: []string{"TextWindow.Write(1 < 2)", "TextWindow.Write(1 <> 1)", "TextWindow.Write(2 >= 2)"},
			want:  "TrueFalseTrue",
		},
		{
			name:  "assignment of a comparison",
			lines: []string{"x = 1 = 1", "TextWindow.WriteLine(x)"},
			want:  "True\n",
		},
		{
			name:  "And short-circuits",
			lines: []string{`x = "False" And TextWindow.ReadNumber() = 1`, "TextWindow.WriteLine(x)"},
			want:  "False\n",
		},
		{
			name:  "Or short-circuits",
			lines: []string{`x = "True" Or TextWindow.ReadNumber() = 1`, "TextWindow.WriteLine(x)"},
			want:  "True\n",
		},
		{
			name:  "sub-module calls",
			lines: []string{"Greet()", "Greet()", "Sub Greet", `TextWindow.Write("hi")`, "EndSub"},
			want:  "hihi",
		},
		{
			name:  "goto loop",
			lines: []string{"i = 0", "top:", "i = i + 1", "If i < 4 Then", "Goto top", "EndIf", "TextWindow.WriteLine(i)"},
			want:  "4\n",
		},
		{
			name:   "read input",
			lines:  []string{"name = TextWindow.Read()", `TextWindow.WriteLine("Hello " + name)`},
			inputs: []string{"Ada"},
			want:   "Hello Ada\n",
		},
		{
			name:   "read number",
			lines:  []string{"n = TextWindow.ReadNumber()", "TextWindow.WriteLine(n * 2)"},
			inputs: []string{"21"},
			want:   "42\n",
		},
		{
			name:  "library calls",
			lines: []string{"TextWindow.WriteLine(Math.Max(3, 9))", `TextWindow.WriteLine(Text.GetLength("four"))`},
			want:  "9\n4\n",
		},
		{
			name:  "program end",
			lines: []string{`TextWindow.Write("a")`, "Program.End()", `TextWindow.Write("b")`},
			want:  "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runProgram(t, strings.Join(tt.lines, "\n"), tt.inputs...)
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunBlocksOnOutput(t *testing.T) {
	h := newHost(t, `TextWindow.WriteLine(1 + "7")`)
	h.engine.Execute(vm.RunToEnd)
	if h.engine.State() != vm.BlockedOnOutput {
		t.Fatalf("state = %s, want BlockedOnOutput", h.engine.State())
	}

	// Re-entering without draining the buffer stays blocked.
	h.engine.Execute(vm.RunToEnd)
	if h.engine.State() != vm.BlockedOnOutput {
		t.Fatalf("state = %s after re-entry", h.engine.State())
	}
	if v := h.engine.Buffer().ReadValue(); v.String() != "8" {
		t.Errorf("buffered %q, want 8", v.String())
	}
	h.engine.Execute(vm.RunToEnd)
	if h.engine.State() != vm.Terminated || h.engine.Exception() != nil {
		t.Errorf("state = %s, exception = %v", h.engine.State(), h.engine.Exception())
	}
}

func TestRunDivideByZero(t *testing.T) {
	h := newHost(t, "x = 0\ny = 5 / x\nTextWindow.WriteLine(y)")
	if out := h.run(); out != "" {
		t.Errorf("output = %q", out)
	}
	exc := h.engine.Exception()
	if exc == nil || exc.Code != diagnostics.CannotDivideByZero {
		t.Fatalf("exception = %v", exc)
	}
	if want := diagnostics.NewRange(1, 4, 9); exc.Range != want {
		t.Errorf("range = %s, want %s", exc.Range, want)
	}
}

func TestRunEventAssignment(t *testing.T) {
	h := newHost(t, "Controls.ButtonClicked = OnClick\nSub OnClick\nEndSub")
	h.run()
	lib, _ := h.engine.Libraries().Lookup("Controls")
	if got := lib.Events["ButtonClicked"].SubModule(); got != "OnClick" {
		t.Errorf("handler = %q, want OnClick", got)
	}
}

func TestRunStepsStatementByStatement(t *testing.T) {
	h := newHost(t, "a = 1\nb = 2\nc = 3")
	var lines []int
	for i := 0; i < 10 && h.engine.State() != vm.Terminated; i++ {
		h.engine.Execute(vm.NextStatement)
		if rng, ok := h.engine.CurrentRange(); ok && h.engine.State() == vm.Paused {
			lines = append(lines, rng.Line)
		}
	}
	if len(lines) == 0 || lines[len(lines)-1] != 2 {
		t.Errorf("paused on lines %v, want to reach line 2", lines)
	}
	if got := h.engine.Variable("c"); got == nil || got.String() != "3" {
		t.Errorf("c = %v", got)
	}
}

// pauses drives the engine in mode until it terminates and records the
// value of variable at each pause.
func pauses(t *testing.T, e *vm.Engine, mode vm.ExecutionMode, variable string, limit int) []string {
	t.Helper()
	var values []string
	for i := 0; i < limit; i++ {
		e.Execute(mode)
		if e.State() == vm.Terminated {
			return values
		}
		if e.State() != vm.Paused {
			t.Fatalf("state = %s, want Paused or Terminated", e.State())
		}
		values = append(values, e.Variable(variable).String())
	}
	return values
}

func TestStepPausesOncePerForIteration(t *testing.T) {
	h := newHost(t, "For i = 1 To 3\nEndFor")
	got := pauses(t, h.engine, vm.NextStatement, "i", 10)
	want := []string{"1", "2", "3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("paused with i = %v, want %v", got, want)
	}
	if h.engine.State() != vm.Terminated {
		t.Errorf("state = %s, want Terminated", h.engine.State())
	}
}

func TestStepReturnsFromEndlessFor(t *testing.T) {
	h := newHost(t, "For i = 1 To 2 Step 0\nEndFor")
	for n := 0; n < 5; n++ {
		h.engine.Execute(vm.NextStatement)
		if h.engine.State() != vm.Paused {
			t.Fatalf("step %d: state = %s, want Paused", n, h.engine.State())
		}
		if rng, _ := h.engine.CurrentRange(); rng.Line != 0 {
			t.Errorf("step %d: paused on line %d, want 0", n, rng.Line)
		}
	}
}

func TestBreakpointOnForLineHitsEveryIteration(t *testing.T) {
	h := newHost(t, "For i = 1 To 2\nx = i\nEndFor")
	h.engine.SetBreakpoint(0)
	got := pauses(t, h.engine, vm.Debug, "i", 10)
	want := []string{"", "1", "2"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("paused with i = %q, want %q", got, want)
	}
	if x := h.engine.Variable("x").String(); x != "2" {
		t.Errorf("x = %s, want 2", x)
	}
}

func TestBreakpointOnFirstStatement(t *testing.T) {
	h := newHost(t, "a = 1\nb = 2")
	h.engine.SetBreakpoint(0)
	h.engine.Execute(vm.Debug)
	if h.engine.State() != vm.Paused {
		t.Fatalf("state = %s, want Paused", h.engine.State())
	}
	if a := h.engine.Variable("a").String(); a != "" {
		t.Errorf("a = %q before the first statement ran", a)
	}
	h.engine.Execute(vm.Debug)
	if h.engine.State() != vm.Terminated {
		t.Errorf("state = %s, want Terminated", h.engine.State())
	}
	if b := h.engine.Variable("b").String(); b != "2" {
		t.Errorf("b = %s, want 2", b)
	}
}
