package vm

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

// ShapesLibrary forwards shape operations to its plugin, which owns the
// shapes and their names.
type ShapesLibrary struct {
	pluginSlot[ShapesPlugin]
}

func newShapesLibrary() *ShapesLibrary {
	return &ShapesLibrary{pluginSlot: pluginSlot[ShapesPlugin]{owner: "Shapes"}}
}

func (s *ShapesLibrary) library() *Library {
	lib := newLibrary("Shapes", "Shapes drawn on the graphics surface.")

	add := func(description string, params []string, fn func(p ShapesPlugin, n []float64) string) *Method {
		return valueMethod(description, params, func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(fn(s.get(), numbers(args)))
		})
	}
	lib.Methods["AddRectangle"] = add("Adds a rectangle and returns its name.", []string{"width", "height"},
		func(p ShapesPlugin, n []float64) string { return p.AddRectangle(n[0], n[1]) })
	lib.Methods["AddEllipse"] = add("Adds an ellipse and returns its name.", []string{"width", "height"},
		func(p ShapesPlugin, n []float64) string { return p.AddEllipse(n[0], n[1]) })
	lib.Methods["AddTriangle"] = add("Adds a triangle and returns its name.", []string{"x1", "y1", "x2", "y2", "x3", "y3"},
		func(p ShapesPlugin, n []float64) string { return p.AddTriangle(n[0], n[1], n[2], n[3], n[4], n[5]) })
	lib.Methods["AddLine"] = add("Adds a line and returns its name.", []string{"x1", "y1", "x2", "y2"},
		func(p ShapesPlugin, n []float64) string { return p.AddLine(n[0], n[1], n[2], n[3]) })
	lib.Methods["AddText"] = valueMethod("Adds a text shape and returns its name.", []string{"text"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(s.get().AddText(args[0].String()))
		})

	lib.Methods["SetText"] = voidMethod("Changes the text of a text shape.", []string{"shapeName", "text"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().SetText(args[0].String(), args[1].String())
		})
	lib.Methods["Remove"] = voidMethod("Removes a shape.", []string{"shapeName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().Remove(args[0].String())
		})
	lib.Methods["Move"] = voidMethod("Moves a shape to a point.", []string{"shapeName", "x", "y"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().Move(args[0].String(), toNumber(args[1]), toNumber(args[2]))
		})
	lib.Methods["Rotate"] = voidMethod("Rotates a shape to an angle in degrees.", []string{"shapeName", "angle"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().Rotate(args[0].String(), toNumber(args[1]))
		})
	lib.Methods["Zoom"] = voidMethod("Scales a shape.", []string{"shapeName", "scaleX", "scaleY"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().Zoom(args[0].String(), toNumber(args[1]), toNumber(args[2]))
		})
	lib.Methods["SetOpacity"] = voidMethod("Sets the opacity of a shape, 0 to 100.", []string{"shapeName", "level"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().SetOpacity(args[0].String(), toNumber(args[1]))
		})
	lib.Methods["GetOpacity"] = valueMethod("Gets the opacity of a shape.", []string{"shapeName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(s.get().GetOpacity(args[0].String()))
		})
	lib.Methods["ShowShape"] = voidMethod("Shows a hidden shape.", []string{"shapeName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().SetVisibility(args[0].String(), true)
		})
	lib.Methods["HideShape"] = voidMethod("Hides a shape.", []string{"shapeName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().SetVisibility(args[0].String(), false)
		})
	lib.Methods["GetLeft"] = valueMethod("Gets the left coordinate of a shape.", []string{"shapeName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(s.get().GetLeft(args[0].String()))
		})
	lib.Methods["GetTop"] = valueMethod("Gets the top coordinate of a shape.", []string{"shapeName"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(s.get().GetTop(args[0].String()))
		})

	return lib
}

func numbers(args []Value) []float64 {
	n := make([]float64, len(args))
	for i, a := range args {
		n[i] = toNumber(a)
	}
	return n
}
