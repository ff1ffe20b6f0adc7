package compiler

import (
	"testing"

	"github.com/sb/SmallBasic-Online-sub000/vm"
)

// ---------------------------------------------------------------------------
// FuzzCompile: every pass finishes on arbitrary text, and clean programs
// hand control back to the host after each statement.
// ---------------------------------------------------------------------------

func FuzzCompile(f *testing.F) {
	seeds := []string{
		// Expressions
		`x = 1 + 2 * 3 - -4 / 5`,
		`x = "a" + 1 = 1 And y < 2 Or z <> 3`,
		`x[1][y + 1] = x[0]`,
		`TextWindow.WriteLine(Math.Max(1, 2))`,
		// Blocks
		"If a Then\nx = 1\nElseIf b Then\nx = 2\nElse\nx = 3\nEndIf",
		"While i < 3\ni = i + 1\nEndWhile",
		"For i = 1 To 3\nEndFor",
		"For i = 1 To 2 Step 0\nEndFor",
		"For i = 10 To 1 Step -3\nTextWindow.Write(i)\nEndFor",
		"Sub A\nx = x + 1\nEndSub\nA()\nA()",
		"top:\nx = x + 1\nIf x < 3 Then\nGoto top\nEndIf",
		// Input and events
		"name = TextWindow.Read()\nn = TextWindow.ReadNumber()",
		"Controls.ButtonClicked = OnClick\nSub OnClick\nEndSub",
		`TextWindow.ForegroundColor = "Red"`,
		`x = 1 / 0`,
		// Malformed
		`TextWindow.WriteLine(`,
		`TextWindow.WriteLine(1,`,
		`x = (1`,
		`If Then`,
		`For = To Step`,
		"EndIf\nElse\nEndSub",
		"Sub A\nSub B\nEndSub",
		"While x\nFor i = 1 To 2\nEndWhile",
		`"unterminated`,
		`x = @ # $ %`,
		`x.y.z[1](2)`,
		`Goto`,
		`:`,
		``,
		"   \t\r\n\n",
		`ÿ = café`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, text string) {
		c := Compile(text)
		if c.Syntax() == nil || c.Bound() == nil {
			t.Fatalf("%q: compilation is missing a tree", text)
		}
		for _, d := range c.Diagnostics() {
			if d.Range.Line < 0 || d.Range.Start > d.Range.End {
				t.Fatalf("%q: bad range %s for %s", text, d.Range, d.Code)
			}
			_ = d.String()
		}
		if c.HasErrors() {
			return
		}

		libs := vm.NewLibraries()
		installNopPlugins(libs)
		e := vm.NewEngine(c, vm.WithLibraries(libs), vm.WithRandom(1))
		for calls := 0; calls < 200 && e.State() != vm.Terminated; calls++ {
			e.Execute(vm.NextStatement)
			switch e.State() {
			case vm.BlockedOnOutput:
				e.Buffer().ReadValue()
			case vm.BlockedOnStringInput, vm.BlockedOnNumberInput:
				e.Buffer().WriteValue(vm.StringValue("1"))
			}
		}
	})
}

func installNopPlugins(libs *vm.Libraries) {
	libs.TextWindow.Set(nopWindow{})
	libs.Turtle.Set(nopTurtle{})
	libs.Shapes.Set(nopShapes{})
	libs.Controls.Set(nopControls{})
	libs.Sound.Set(nopSound{})
}

type nopWindow struct{}

func (nopWindow) SetForegroundColor(string) {}
func (nopWindow) SetBackgroundColor(string) {}
func (nopWindow) SetTitle(string)           {}
func (nopWindow) Clear()                    {}

type nopTurtle struct{}

func (nopTurtle) Show()                             {}
func (nopTurtle) Hide()                             {}
func (nopTurtle) MoveTo(_, _, _, _ float64, _ bool) {}
func (nopTurtle) SetAngle(float64)                  {}
func (nopTurtle) SetSpeed(float64)                  {}

type nopShapes struct{}

func (nopShapes) AddRectangle(_, _ float64) string            { return "Rectangle1" }
func (nopShapes) AddEllipse(_, _ float64) string              { return "Ellipse1" }
func (nopShapes) AddTriangle(_, _, _, _, _, _ float64) string { return "Triangle1" }
func (nopShapes) AddLine(_, _, _, _ float64) string           { return "Line1" }
func (nopShapes) AddText(string) string                       { return "Text1" }
func (nopShapes) SetText(_, _ string)                         {}
func (nopShapes) Remove(string)                               {}
func (nopShapes) Move(string, float64, float64)               {}
func (nopShapes) Rotate(string, float64)                      {}
func (nopShapes) Zoom(string, float64, float64)               {}
func (nopShapes) SetOpacity(string, float64)                  {}
func (nopShapes) GetOpacity(string) float64                   { return 100 }
func (nopShapes) SetVisibility(string, bool)                  {}
func (nopShapes) GetLeft(string) float64                      { return 0 }
func (nopShapes) GetTop(string) float64                       { return 0 }

type nopControls struct{}

func (nopControls) AddButton(string, float64, float64) string { return "Button1" }
func (nopControls) AddTextBox(float64, float64) string        { return "TextBox1" }
func (nopControls) GetButtonCaption(string) string            { return "" }
func (nopControls) SetButtonCaption(_, _ string)              {}
func (nopControls) GetTextBoxText(string) string              { return "" }
func (nopControls) SetTextBoxText(_, _ string)                {}
func (nopControls) Remove(string)                             {}
func (nopControls) Move(string, float64, float64)             {}
func (nopControls) SetVisibility(string, bool)                {}

type nopSound struct{}

func (nopSound) PlayChime()       {}
func (nopSound) PlayClick()       {}
func (nopSound) PlayBellRing()    {}
func (nopSound) PlayMusic(string) {}
