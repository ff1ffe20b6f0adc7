package vm

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

// ---------------------------------------------------------------------------
// Runtime values
// ---------------------------------------------------------------------------

// Canonical boolean strings. The language has no boolean kind, so conditions
// and comparisons materialize one of these two strings.
const (
	True  = "True"
	False = "False"
)

// ValueKind identifies one of the three runtime value variants.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindArray:
		return "Array"
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a runtime value: StringValue, NumberValue or ArrayValue.
//
// Arithmetic dispatches on the left operand and either pushes the result onto
// the engine's evaluation stack or terminates the engine with a diagnostic
// attributed to the instruction's source range.
type Value interface {
	Kind() ValueKind
	String() string
	ToBoolean() bool
	TryConvertToNumber() Value

	IsEqualTo(other Value) bool
	IsLessThan(other Value) bool
	IsGreaterThan(other Value) bool
	IsLessThanOrEqualTo(other Value) bool
	IsGreaterThanOrEqualTo(other Value) bool

	Add(other Value, e *Engine, instr Instruction)
	Subtract(other Value, e *Engine, instr Instruction)
	Multiply(other Value, e *Engine, instr Instruction)
	Divide(other Value, e *Engine, instr Instruction)

	value() // marker method
}

// BooleanValue returns the canonical string for b.
func BooleanValue(b bool) StringValue {
	if b {
		return StringValue(True)
	}
	return StringValue(False)
}

// ---------------------------------------------------------------------------
// StringValue
// ---------------------------------------------------------------------------

// StringValue is a text value. The empty string is the default value of every
// variable and array element.
type StringValue string

func (s StringValue) value()          {}
func (s StringValue) Kind() ValueKind { return KindString }
func (s StringValue) String() string  { return string(s) }

// ToBoolean is true only for the text "true", in any casing.
func (s StringValue) ToBoolean() bool {
	return strings.EqualFold(string(s), True)
}

// TryConvertToNumber returns a NumberValue when the text is a decimal number,
// otherwise the string itself.
func (s StringValue) TryConvertToNumber() Value {
	if n, ok := parseNumber(string(s)); ok {
		return NumberValue(n)
	}
	return s
}

func (s StringValue) IsEqualTo(other Value) bool {
	switch o := other.(type) {
	case StringValue:
		return s == o
	case NumberValue:
		if n, ok := s.TryConvertToNumber().(NumberValue); ok {
			return n == o
		}
		return string(s) == o.String()
	}
	return false
}

func (s StringValue) IsLessThan(other Value) bool {
	if n, ok := s.TryConvertToNumber().(NumberValue); ok {
		return n.IsLessThan(other)
	}
	return false
}

func (s StringValue) IsGreaterThan(other Value) bool {
	if n, ok := s.TryConvertToNumber().(NumberValue); ok {
		return n.IsGreaterThan(other)
	}
	return false
}

func (s StringValue) IsLessThanOrEqualTo(other Value) bool {
	if n, ok := s.TryConvertToNumber().(NumberValue); ok {
		return n.IsLessThanOrEqualTo(other)
	}
	return false
}

func (s StringValue) IsGreaterThanOrEqualTo(other Value) bool {
	if n, ok := s.TryConvertToNumber().(NumberValue); ok {
		return n.IsGreaterThanOrEqualTo(other)
	}
	return false
}

// Add adds numerically when the string holds a number and concatenates
// otherwise.
func (s StringValue) Add(other Value, e *Engine, instr Instruction) {
	if n, ok := s.TryConvertToNumber().(NumberValue); ok {
		n.Add(other, e, instr)
		return
	}
	switch o := other.(type) {
	case StringValue, NumberValue:
		e.push(StringValue(string(s) + o.String()))
	case ArrayValue:
		e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), "+"))
	}
}

func (s StringValue) Subtract(other Value, e *Engine, instr Instruction) {
	s.numericOperation("-", other, e, instr, NumberValue.Subtract)
}

func (s StringValue) Multiply(other Value, e *Engine, instr Instruction) {
	s.numericOperation("*", other, e, instr, NumberValue.Multiply)
}

func (s StringValue) Divide(other Value, e *Engine, instr Instruction) {
	s.numericOperation("/", other, e, instr, NumberValue.Divide)
}

func (s StringValue) numericOperation(op string, other Value, e *Engine, instr Instruction, fn func(NumberValue, Value, *Engine, Instruction)) {
	if n, ok := s.TryConvertToNumber().(NumberValue); ok {
		fn(n, other, e, instr)
		return
	}
	e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAString, instr.SourceRange(), op))
}

// ---------------------------------------------------------------------------
// NumberValue
// ---------------------------------------------------------------------------

// NumberValue is a float64 number.
type NumberValue float64

func (n NumberValue) value()          {}
func (n NumberValue) Kind() ValueKind { return KindNumber }
func (n NumberValue) ToBoolean() bool { return false }

// String renders integers without a fractional part and other numbers with
// the shortest representation that round-trips.
func (n NumberValue) String() string {
	f := float64(n)
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (n NumberValue) TryConvertToNumber() Value { return n }

func (n NumberValue) IsEqualTo(other Value) bool {
	switch o := other.(type) {
	case NumberValue:
		return n == o
	case StringValue:
		if m, ok := o.TryConvertToNumber().(NumberValue); ok {
			return n == m
		}
		return n.String() == string(o)
	}
	return false
}

func (n NumberValue) compare(other Value, fn func(a, b float64) bool) bool {
	switch o := other.(type) {
	case NumberValue:
		return fn(float64(n), float64(o))
	case StringValue:
		if m, ok := o.TryConvertToNumber().(NumberValue); ok {
			return fn(float64(n), float64(m))
		}
	}
	return false
}

func (n NumberValue) IsLessThan(other Value) bool {
	return n.compare(other, func(a, b float64) bool { return a < b })
}

func (n NumberValue) IsGreaterThan(other Value) bool {
	return n.compare(other, func(a, b float64) bool { return a > b })
}

func (n NumberValue) IsLessThanOrEqualTo(other Value) bool {
	return n.compare(other, func(a, b float64) bool { return a <= b })
}

func (n NumberValue) IsGreaterThanOrEqualTo(other Value) bool {
	return n.compare(other, func(a, b float64) bool { return a >= b })
}

func (n NumberValue) Add(other Value, e *Engine, instr Instruction) {
	switch o := other.(type) {
	case NumberValue:
		e.push(n + o)
	case StringValue:
		if m, ok := o.TryConvertToNumber().(NumberValue); ok {
			e.push(n + m)
			return
		}
		e.push(StringValue(n.String() + string(o)))
	case ArrayValue:
		e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), "+"))
	}
}

func (n NumberValue) Subtract(other Value, e *Engine, instr Instruction) {
	if m, ok := n.operand("-", other, e, instr); ok {
		e.push(n - m)
	}
}

func (n NumberValue) Multiply(other Value, e *Engine, instr Instruction) {
	if m, ok := n.operand("*", other, e, instr); ok {
		e.push(n * m)
	}
}

func (n NumberValue) Divide(other Value, e *Engine, instr Instruction) {
	m, ok := n.operand("/", other, e, instr)
	if !ok {
		return
	}
	if m == 0 {
		e.terminate(diagnostics.New(diagnostics.CannotDivideByZero, instr.SourceRange()))
		return
	}
	e.push(n / m)
}

// operand coerces the right-hand side of -, * or / to a number, terminating
// the engine when it cannot.
func (n NumberValue) operand(op string, other Value, e *Engine, instr Instruction) (NumberValue, bool) {
	switch o := other.(type) {
	case NumberValue:
		return o, true
	case StringValue:
		if m, ok := o.TryConvertToNumber().(NumberValue); ok {
			return m, true
		}
		e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAString, instr.SourceRange(), op))
	case ArrayValue:
		e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), op))
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// ArrayValue
// ---------------------------------------------------------------------------

// ArrayValue is an associative array keyed by the string form of its
// indices. It is treated as immutable: With returns a modified copy, so a
// value held on the stack or by a library never changes under it.
type ArrayValue struct {
	values map[string]Value
}

// NewArrayValue creates an array holding a copy of values.
func NewArrayValue(values map[string]Value) ArrayValue {
	copied := make(map[string]Value, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return ArrayValue{values: copied}
}

func (a ArrayValue) value()          {}
func (a ArrayValue) Kind() ValueKind { return KindArray }
func (a ArrayValue) ToBoolean() bool { return false }

// Len returns the number of elements.
func (a ArrayValue) Len() int { return len(a.values) }

// Get returns the element stored under key.
func (a ArrayValue) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// With returns a copy of the array with key set to v.
func (a ArrayValue) With(key string, v Value) ArrayValue {
	copied := make(map[string]Value, len(a.values)+1)
	for k, existing := range a.values {
		copied[k] = existing
	}
	copied[key] = v
	return ArrayValue{values: copied}
}

// Keys returns the keys in display order: numeric keys ascending, then the
// remaining keys lexically.
func (a ArrayValue) Keys() []string {
	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iNum := parseNumber(keys[i])
		nj, jNum := parseNumber(keys[j])
		switch {
		case iNum && jNum:
			if ni != nj {
				return ni < nj
			}
			return keys[i] < keys[j]
		case iNum:
			return true
		case jNum:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// String renders the array as "key=value;" pairs.
func (a ArrayValue) String() string {
	var b strings.Builder
	for _, k := range a.Keys() {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(a.values[k].String())
		b.WriteByte(';')
	}
	return b.String()
}

func (a ArrayValue) TryConvertToNumber() Value { return a }

// IsEqualTo compares arrays element-wise; an array never equals a non-array.
func (a ArrayValue) IsEqualTo(other Value) bool {
	o, ok := other.(ArrayValue)
	if !ok || len(a.values) != len(o.values) {
		return false
	}
	for k, v := range a.values {
		ov, ok := o.values[k]
		if !ok || !v.IsEqualTo(ov) {
			return false
		}
	}
	return true
}

func (a ArrayValue) IsLessThan(Value) bool             { return false }
func (a ArrayValue) IsGreaterThan(Value) bool          { return false }
func (a ArrayValue) IsLessThanOrEqualTo(Value) bool    { return false }
func (a ArrayValue) IsGreaterThanOrEqualTo(Value) bool { return false }

func (a ArrayValue) Add(_ Value, e *Engine, instr Instruction) {
	e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), "+"))
}

func (a ArrayValue) Subtract(_ Value, e *Engine, instr Instruction) {
	e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), "-"))
}

func (a ArrayValue) Multiply(_ Value, e *Engine, instr Instruction) {
	e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), "*"))
}

func (a ArrayValue) Divide(_ Value, e *Engine, instr Instruction) {
	e.terminate(diagnostics.New(diagnostics.CannotUseOperatorWithAnArray, instr.SourceRange(), "/"))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// parseNumber accepts an optional sign, digits and at most one decimal point,
// surrounded by optional whitespace. Exponents, hex and NaN/Inf spellings are
// plain text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	body := s
	if body[0] == '-' || body[0] == '+' {
		body = body[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return 0, false
		}
	}
	if digits == 0 || dots > 1 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toNumber coerces v to a float64, using 0 for non-numeric values. Library
// methods use it for their numeric parameters.
func toNumber(v Value) float64 {
	if n, ok := v.TryConvertToNumber().(NumberValue); ok {
		return float64(n)
	}
	return 0
}
