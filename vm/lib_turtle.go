package vm

import (
	"math"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// TurtleLibrary tracks a turtle on the graphics surface and reports every
// change to its plugin.
type TurtleLibrary struct {
	pluginSlot[TurtlePlugin]

	x, y    float64
	angle   float64
	speed   float64
	penDown bool
}

func newTurtleLibrary() *TurtleLibrary {
	return &TurtleLibrary{
		pluginSlot: pluginSlot[TurtlePlugin]{owner: "Turtle"},
		x:          320,
		y:          240,
		speed:      5,
		penDown:    true,
	}
}

func (t *TurtleLibrary) moveTo(x, y float64) {
	t.get().MoveTo(t.x, t.y, x, y, t.penDown)
	t.x, t.y = x, y
}

func (t *TurtleLibrary) turn(degrees float64) {
	t.angle = math.Mod(t.angle+degrees, 360)
	if t.angle < 0 {
		t.angle += 360
	}
	t.get().SetAngle(t.angle)
}

func (t *TurtleLibrary) library() *Library {
	lib := newLibrary("Turtle", "A turtle that draws as it moves.")

	lib.Methods["Show"] = voidMethod("Shows the turtle.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.get().Show()
	})
	lib.Methods["Hide"] = voidMethod("Hides the turtle.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.get().Hide()
	})
	lib.Methods["PenDown"] = voidMethod("Makes the turtle draw when it moves.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.penDown = true
	})
	lib.Methods["PenUp"] = voidMethod("Makes the turtle move without drawing.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.penDown = false
	})
	lib.Methods["Move"] = voidMethod("Moves the turtle forward by a distance.", []string{"distance"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			distance := toNumber(args[0])
			radians := t.angle * math.Pi / 180
			t.moveTo(t.x+distance*math.Sin(radians), t.y-distance*math.Cos(radians))
		})
	lib.Methods["MoveTo"] = voidMethod("Moves the turtle to a point.", []string{"x", "y"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			t.moveTo(toNumber(args[0]), toNumber(args[1]))
		})
	lib.Methods["Turn"] = voidMethod("Turns the turtle clockwise by an angle in degrees.", []string{"angle"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			t.turn(toNumber(args[0]))
		})
	lib.Methods["TurnLeft"] = voidMethod("Turns the turtle 90 degrees left.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.turn(-90)
	})
	lib.Methods["TurnRight"] = voidMethod("Turns the turtle 90 degrees right.", nil, func(*Engine, []Value, diagnostics.Range) {
		t.turn(90)
	})

	lib.Properties["X"] = &Property{
		Description: "The horizontal position of the turtle.",
		Getter:      func(*Engine) Value { return NumberValue(t.x) },
		Setter: func(_ *Engine, v Value, _ diagnostics.Range) {
			t.moveTo(toNumber(v), t.y)
		},
	}
	lib.Properties["Y"] = &Property{
		Description: "The vertical position of the turtle.",
		Getter:      func(*Engine) Value { return NumberValue(t.y) },
		Setter: func(_ *Engine, v Value, _ diagnostics.Range) {
			t.moveTo(t.x, toNumber(v))
		},
	}
	lib.Properties["Angle"] = &Property{
		Description: "The heading of the turtle in degrees, clockwise from up.",
		Getter:      func(*Engine) Value { return NumberValue(t.angle) },
		Setter: func(_ *Engine, v Value, _ diagnostics.Range) {
			t.angle = 0
			t.turn(toNumber(v))
		},
	}
	lib.Properties["Speed"] = &Property{
		Description: "How fast the turtle moves, from 1 to 10.",
		Getter:      func(*Engine) Value { return NumberValue(t.speed) },
		Setter: func(_ *Engine, v Value, _ diagnostics.Range) {
			t.speed = math.Max(1, math.Min(10, toNumber(v)))
			t.get().SetSpeed(t.speed)
		},
	}

	return lib
}
