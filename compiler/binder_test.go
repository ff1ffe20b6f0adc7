package compiler

import (
	"strings"
	"testing"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

func TestBindDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		text string
		code diagnostics.ErrorCode
		args []string
	}{
		{"duplicate sub", "Sub A\nEndSub\nSub A\nEndSub", diagnostics.TwoSubModulesWithTheSameName, []string{"A"}},
		{"duplicate label", "a:\na:", diagnostics.TwoLabelsWithTheSameName, []string{"a"}},
		{"duplicate label nested", "a:\nIf x Then\na:\nEndIf", diagnostics.TwoLabelsWithTheSameName, []string{"a"}},
		{"unknown label", "Goto nowhere", diagnostics.LabelDoesNotExist, []string{"nowhere"}},
		{"label in another module", "Sub A\nGoto top\nEndSub\ntop:", diagnostics.LabelDoesNotExist, []string{"top"}},
		{"void value", `x = TextWindow.WriteLine("")`, diagnostics.UnexpectedVoid_ExpectingValue, nil},
		{"sub as value", "Sub A\nEndSub\nx = A", diagnostics.UnexpectedVoid_ExpectingValue, nil},
		{"unknown member", "TextWindow.Foo()", diagnostics.LibraryMemberNotFound, []string{"TextWindow", "Foo"}},
		{"argument count", "TextWindow.WriteLine(1, 2)", diagnostics.UnexpectedArgumentsCount, []string{"1", "2"}},
		{"sub argument count", "Sub A\nEndSub\nA(1)", diagnostics.UnexpectedArgumentsCount, []string{"0", "1"}},
		{"read-only property", "Clock.Time = 5", diagnostics.PropertyHasNoSetter, nil},
		{"event needs sub", "Controls.ButtonClicked = 5", diagnostics.AssigningNonSubModuleToEvent, nil},
		{"literal target", "1 = 2", diagnostics.ValueIsNotAssignable, nil},
		{"unassigned value", "x + 1", diagnostics.UnassignedExpressionStatement, nil},
		{"bare library", "TextWindow", diagnostics.InvalidExpressionStatement, nil},
		{"dot on variable", "x.y = 1", diagnostics.UnsupportedDotBaseExpression, nil},
		{"index a library", "x = TextWindow[1]", diagnostics.UnsupportedArrayBaseExpression, nil},
		{"call a variable", "x = y()", diagnostics.UnsupportedCallBaseExpression, nil},
		{"no cascade", "x = TextWindow.Foo + 1", diagnostics.LibraryMemberNotFound, []string{"TextWindow", "Foo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compile(tt.text)
			diags := c.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("diags = %v, want one %s", diags, tt.code)
			}
			if diags[0].Code != tt.code {
				t.Errorf("code = %s, want %s", diags[0].Code, tt.code)
			}
			if strings.Join(diags[0].Args, "|") != strings.Join(tt.args, "|") {
				t.Errorf("args = %v, want %v", diags[0].Args, tt.args)
			}
		})
	}
}

func TestBindVoidValueSpansTheCall(t *testing.T) {
	diags := Compile(`x = TextWindow.WriteLine("")`).Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diags = %v", diags)
	}
	if want := diagnostics.NewRange(0, 4, 28); diags[0].Range != want {
		t.Errorf("range = %s, want %s", diags[0].Range, want)
	}
}

func TestBindResolution(t *testing.T) {
	c := Compile(strings.Join([]string{
		"Sub Foo",
		"EndSub",
		"Foo()",
		"x = Math.Abs(-1)",
		"arr[x][2] = TextWindow.Title",
		"TextWindow.Title = arr[1][2]",
		"Controls.ButtonClicked = Foo",
		"TextWindow.WriteLine(x)",
	}, "\n"))
	if c.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", c.Diagnostics())
	}

	main := c.Bound().MainModule
	if len(main) != 6 {
		t.Fatalf("main has %d statements", len(main))
	}
	if s, ok := main[0].(*BoundSubModuleInvocationStatement); !ok || s.Name != "Foo" {
		t.Errorf("statement 0 = %T", main[0])
	}
	if s, ok := main[1].(*BoundVariableAssignmentStatement); !ok || s.Variable != "x" {
		t.Errorf("statement 1 = %T", main[1])
	}
	arr, ok := main[2].(*BoundArrayAssignmentStatement)
	if !ok || arr.Array.Name != "arr" || len(arr.Array.Indices) != 2 {
		t.Fatalf("statement 2 = %T", main[2])
	}
	if _, ok := arr.Array.Indices[0].(*BoundVariableExpression); !ok {
		t.Errorf("outermost index = %T, want the variable", arr.Array.Indices[0])
	}
	if s, ok := main[3].(*BoundPropertyAssignmentStatement); !ok || s.Library != "TextWindow" || s.Property != "Title" {
		t.Errorf("statement 3 = %T", main[3])
	}
	if s, ok := main[4].(*BoundEventAssignmentStatement); !ok || s.Event != "ButtonClicked" || s.SubModule != "Foo" {
		t.Errorf("statement 4 = %T", main[4])
	}
	if s, ok := main[5].(*BoundLibraryMethodInvocationStatement); !ok || s.Invocation.Method != "WriteLine" {
		t.Errorf("statement 5 = %T", main[5])
	}
	if got := c.Bound().SubModuleOrder; len(got) != 1 || got[0] != "Foo" {
		t.Errorf("sub-modules = %v", got)
	}
}

func TestBindLabelsAreScopedToTheirModule(t *testing.T) {
	c := Compile(strings.Join([]string{
		"top:",
		"Goto top",
		"Sub A",
		"top:",
		"Goto top",
		"EndSub",
	}, "\n"))
	if c.HasErrors() {
		t.Errorf("unexpected diagnostics %v", c.Diagnostics())
	}
}

func TestBindGoToIntoNestedBlock(t *testing.T) {
	c := Compile("Goto inner\nWhile 1 = 2\ninner:\nEndWhile")
	if c.HasErrors() {
		t.Errorf("unexpected diagnostics %v", c.Diagnostics())
	}
}

func TestDiagnosticsAreOrderedByPass(t *testing.T) {
	c := Compile("Goto nowhere\nx = $\nEndIf")
	var codes []diagnostics.ErrorCode
	for _, d := range c.Diagnostics() {
		codes = append(codes, d.Code)
	}
	want := []diagnostics.ErrorCode{
		diagnostics.UnrecognizedCharacter,
		diagnostics.UnexpectedEOL_ExpectingExpression,
		diagnostics.CannotHaveCommandWithoutPreviousCommand,
		diagnostics.LabelDoesNotExist,
	}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("diag %d = %s, want %s", i, codes[i], want[i])
		}
	}
}

func TestBindDuplicateSubBodyIsChecked(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []diagnostics.ErrorCode
	}{
		{
			"duplicate name",
			"Sub A\nEndSub\nSub A\nGoto nowhere\nEndSub",
			[]diagnostics.ErrorCode{diagnostics.TwoSubModulesWithTheSameName, diagnostics.LabelDoesNotExist},
		},
		{
			"missing name",
			"Sub\nx = TextWindow.Foo\nEndSub",
			[]diagnostics.ErrorCode{diagnostics.UnexpectedEOL_ExpectingToken, diagnostics.LibraryMemberNotFound},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var codes []diagnostics.ErrorCode
			for _, d := range Compile(tt.text).Diagnostics() {
				codes = append(codes, d.Code)
			}
			if len(codes) != len(tt.want) {
				t.Fatalf("codes = %v, want %v", codes, tt.want)
			}
			for i := range tt.want {
				if codes[i] != tt.want[i] {
					t.Errorf("diag %d = %s, want %s", i, codes[i], tt.want[i])
				}
			}
		})
	}
}

func TestBindSkipsArgumentCountOfRepairedCall(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"open call", "TextWindow.WriteLine("},
		{"trailing comma", "TextWindow.WriteLine(1,"},
		{"open sub call", "Sub A\nEndSub\nA(1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Compile(tt.text).Diagnostics()
			if len(diags) == 0 {
				t.Fatal("expected a parse error")
			}
			for _, d := range diags {
				if d.Code == diagnostics.UnexpectedArgumentsCount {
					t.Errorf("unexpected %s %v", d.Code, d.Args)
				}
			}
		})
	}
}
