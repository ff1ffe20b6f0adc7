package vm

import (
	"math"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

func newMathLibrary() *Library {
	lib := newLibrary("Math", "Mathematical functions and constants.")

	unary := func(description string, fn func(float64) float64) *Method {
		return valueMethod(description, []string{"number"}, func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(fn(toNumber(args[0])))
		})
	}
	binary := func(description string, params []string, fn func(a, b float64) float64) *Method {
		return valueMethod(description, params, func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(fn(toNumber(args[0]), toNumber(args[1])))
		})
	}

	lib.Methods["Abs"] = unary("Gets the absolute value of a number.", math.Abs)
	lib.Methods["Ceiling"] = unary("Rounds a number up to the nearest integer.", math.Ceil)
	lib.Methods["Floor"] = unary("Rounds a number down to the nearest integer.", math.Floor)
	lib.Methods["Round"] = unary("Rounds a number to the nearest integer.", math.Round)
	lib.Methods["SquareRoot"] = unary("Gets the square root of a number.", math.Sqrt)
	lib.Methods["Log"] = unary("Gets the base 10 logarithm of a number.", math.Log10)
	lib.Methods["NaturalLog"] = unary("Gets the natural logarithm of a number.", math.Log)
	lib.Methods["Sin"] = unary("Gets the sine of an angle in radians.", math.Sin)
	lib.Methods["Cos"] = unary("Gets the cosine of an angle in radians.", math.Cos)
	lib.Methods["Tan"] = unary("Gets the tangent of an angle in radians.", math.Tan)
	lib.Methods["ArcSin"] = unary("Gets the angle in radians of a sine value.", math.Asin)
	lib.Methods["ArcCos"] = unary("Gets the angle in radians of a cosine value.", math.Acos)
	lib.Methods["ArcTan"] = unary("Gets the angle in radians of a tangent value.", math.Atan)
	lib.Methods["GetDegrees"] = unary("Converts radians to degrees.", func(r float64) float64 {
		return math.Mod(r*180/math.Pi, 360)
	})
	lib.Methods["GetRadians"] = unary("Converts degrees to radians.", func(d float64) float64 {
		return math.Mod(d, 360) * math.Pi / 180
	})

	lib.Methods["Max"] = binary("Gets the larger of two numbers.", []string{"number1", "number2"}, math.Max)
	lib.Methods["Min"] = binary("Gets the smaller of two numbers.", []string{"number1", "number2"}, math.Min)
	lib.Methods["Power"] = binary("Raises a base to an exponent.", []string{"baseNumber", "exponent"}, math.Pow)
	lib.Methods["Remainder"] = binary("Gets the remainder of dividing two numbers.", []string{"dividend", "divisor"},
		func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return math.Mod(a, b)
		})

	lib.Methods["GetRandomNumber"] = valueMethod("Gets a random integer between 1 and maxNumber.", []string{"maxNumber"},
		func(e *Engine, args []Value, _ diagnostics.Range) Value {
			limit := int(toNumber(args[0]))
			if limit < 1 {
				limit = 1
			}
			return NumberValue(e.random.Intn(limit) + 1)
		})

	lib.Properties["Pi"] = getter("The ratio of a circle's circumference to its diameter.", func(*Engine) Value {
		return NumberValue(math.Pi)
	})

	return lib
}
