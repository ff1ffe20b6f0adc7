package vm

import (
	"strings"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// TextWindowColors lists the colors the text window accepts, in console order.
var TextWindowColors = []string{
	"Black", "DarkBlue", "DarkGreen", "DarkCyan",
	"DarkRed", "DarkMagenta", "DarkYellow", "Gray",
	"DarkGray", "Blue", "Green", "Cyan",
	"Red", "Magenta", "Yellow", "White",
}

const (
	DefaultForegroundColor = "Gray"
	DefaultBackgroundColor = "Black"
)

// TextWindowColor returns the canonical spelling of a color name, matched
// case-insensitively.
func TextWindowColor(name string) (string, bool) {
	for _, c := range TextWindowColors {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// TextWindowLibrary is the console-style text window. Output and input pass
// through the engine's value buffer; colors, title and clearing go to the
// plugin.
type TextWindowLibrary struct {
	pluginSlot[TextWindowPlugin]

	foreground string
	background string
	title      string
}

func newTextWindowLibrary() *TextWindowLibrary {
	return &TextWindowLibrary{
		pluginSlot: pluginSlot[TextWindowPlugin]{owner: "TextWindow"},
		foreground: DefaultForegroundColor,
		background: DefaultBackgroundColor,
	}
}

// ForegroundColor returns the current text color.
func (t *TextWindowLibrary) ForegroundColor() string { return t.foreground }

// BackgroundColor returns the current background color.
func (t *TextWindowLibrary) BackgroundColor() string { return t.background }

// UseColors sets the starting colors before a program runs. Names must be
// canonical, as returned by TextWindowColor.
func (t *TextWindowLibrary) UseColors(foreground, background string) {
	t.foreground, t.background = foreground, background
}

func (t *TextWindowLibrary) library() *Library {
	lib := newLibrary("TextWindow", "A text console for reading and writing values.")

	lib.Methods["Write"] = t.output("Writes a value without ending the line.", false)
	lib.Methods["WriteLine"] = t.output("Writes a value and ends the line.", true)
	lib.Methods["Read"] = t.input("Reads a line of text.", BlockedOnStringInput)
	lib.Methods["ReadNumber"] = t.input("Reads a number.", BlockedOnNumberInput)

	lib.Methods["Clear"] = voidMethod("Clears the window.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.get().Clear()
	})

	lib.Properties["ForegroundColor"] = &Property{
		Description: "The color of text written to the window.",
		Getter:      func(*Engine) Value { return StringValue(t.foreground) },
		Setter: func(e *Engine, v Value, rng diagnostics.Range) {
			if color, ok := t.color(e, v, rng); ok {
				t.foreground = color
				t.get().SetForegroundColor(color)
			}
		},
	}
	lib.Properties["BackgroundColor"] = &Property{
		Description: "The background color of the window.",
		Getter:      func(*Engine) Value { return StringValue(t.background) },
		Setter: func(e *Engine, v Value, rng diagnostics.Range) {
			if color, ok := t.color(e, v, rng); ok {
				t.background = color
				t.get().SetBackgroundColor(color)
			}
		},
	}
	lib.Properties["Title"] = &Property{
		Description: "The title of the window.",
		Getter:      func(*Engine) Value { return StringValue(t.title) },
		Setter: func(_ *Engine, v Value, _ diagnostics.Range) {
			t.title = v.String()
			t.get().SetTitle(t.title)
		},
	}

	return lib
}

// output hands a value to the host and blocks until the host has taken it.
func (t *TextWindowLibrary) output(description string, newLine bool) *Method {
	return &Method{
		Description: description,
		Parameters:  []string{"data"},
		Execute: func(e *Engine, _ ExecutionMode, _ diagnostics.Range) bool {
			if e.state == BlockedOnOutput {
				if e.buffer.HasValue() {
					return false
				}
				e.setState(Running)
				return true
			}
			e.buffer.write(e.pop(), newLine)
			e.setState(BlockedOnOutput)
			return false
		},
	}
}

// input blocks until the host supplies a value.
func (t *TextWindowLibrary) input(description string, blocked ExecutionState) *Method {
	return &Method{
		Description:  description,
		ReturnsValue: true,
		Execute: func(e *Engine, _ ExecutionMode, _ diagnostics.Range) bool {
			if e.state != blocked || !e.buffer.HasValue() {
				e.setState(blocked)
				return false
			}
			v := e.buffer.ReadValue()
			if blocked == BlockedOnNumberInput {
				n, ok := v.TryConvertToNumber().(NumberValue)
				if !ok {
					n = 0
				}
				v = n
			}
			e.push(v)
			e.setState(Running)
			return true
		},
	}
}

func (t *TextWindowLibrary) color(e *Engine, v Value, rng diagnostics.Range) (string, bool) {
	if c, ok := TextWindowColor(v.String()); ok {
		return c, true
	}
	e.terminate(diagnostics.New(diagnostics.UnsupportedTextWindowColor, rng, v.String()))
	return "", false
}
