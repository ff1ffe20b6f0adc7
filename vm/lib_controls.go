package vm

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ControlsLibrary forwards widget operations to its plugin and raises
// ButtonClicked when the host reports a click.
type ControlsLibrary struct {
	pluginSlot[ControlsPlugin]

	lastClicked string
	clicked     *Event
}

func newControlsLibrary() *ControlsLibrary {
	return &ControlsLibrary{
		pluginSlot: pluginSlot[ControlsPlugin]{owner: "Controls"},
		clicked:    &Event{Description: "Raised when a button is clicked."},
	}
}

// NotifyButtonClicked records a click on the named button and raises
// ButtonClicked on e. It reports whether a handler was scheduled.
func (c *ControlsLibrary) NotifyButtonClicked(e *Engine, button string) bool {
	c.lastClicked = button
	return c.clicked.Raise(e)
}

func (c *ControlsLibrary) library() *Library {
	lib := newLibrary("Controls", "Buttons and text boxes on the graphics surface.")

	lib.Methods["AddButton"] = valueMethod("Adds a button and returns its name.", []string{"caption", "left", "top"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(c.get().AddButton(args[0].String(), toNumber(args[1]), toNumber(args[2])))
		})
	lib.Methods["AddTextBox"] = valueMethod("Adds a text box and returns its name.", []string{"left", "top"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(c.get().AddTextBox(toNumber(args[0]), toNumber(args[1])))
		})
	lib.Methods["GetButtonCaption"] = valueMethod("Gets the caption of a button.", []string{"buttonName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(c.get().GetButtonCaption(args[0].String()))
		})
	lib.Methods["SetButtonCaption"] = voidMethod("Sets the caption of a button.", []string{"buttonName", "caption"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			c.get().SetButtonCaption(args[0].String(), args[1].String())
		})
	lib.Methods["GetTextBoxText"] = valueMethod("Gets the text in a text box.", []string{"textBoxName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(c.get().GetTextBoxText(args[0].String()))
		})
	lib.Methods["SetTextBoxText"] = voidMethod("Sets the text in a text box.", []string{"textBoxName", "text"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			c.get().SetTextBoxText(args[0].String(), args[1].String())
		})
	lib.Methods["Remove"] = voidMethod("Removes a control.", []string{"controlName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			c.get().Remove(args[0].String())
		})
	lib.Methods["Move"] = voidMethod("Moves a control.", []string{"controlName", "left", "top"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			c.get().Move(args[0].String(), toNumber(args[1]), toNumber(args[2]))
		})
	lib.Methods["ShowControl"] = voidMethod("Shows a hidden control.", []string{"controlName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			c.get().SetVisibility(args[0].String(), true)
		})
	lib.Methods["HideControl"] = voidMethod("Hides a control.", []string{"controlName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			c.get().SetVisibility(args[0].String(), false)
		})

	lib.Properties["LastClickedButton"] = getter("The name of the last clicked button.", func(*Engine) Value {
		return StringValue(c.lastClicked)
	})

	lib.Events["ButtonClicked"] = c.clicked

	return lib
}
