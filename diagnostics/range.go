package diagnostics

import "fmt"

// Range is a span of columns on a single source line. Start is inclusive and
// End is exclusive; both are zero-based.
type Range struct {
	Line  int
	Start int
	End   int
}

// NewRange creates a range on one line.
func NewRange(line, start, end int) Range {
	return Range{Line: line, Start: start, End: end}
}

// Combine returns the smallest range covering both a and b.
// Ranges never span lines, so combining ranges from different lines panics.
func Combine(a, b Range) Range {
	if a.Line != b.Line {
		panic(fmt.Sprintf("cannot combine ranges from lines %d and %d", a.Line, b.Line))
	}
	r := a
	if b.Start < r.Start {
		r.Start = b.Start
	}
	if b.End > r.End {
		r.End = b.End
	}
	return r
}

// Contains reports whether the column on the given line falls inside r.
func (r Range) Contains(line, column int) bool {
	return r.Line == line && column >= r.Start && column < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("(%d, %d)-(%d, %d)", r.Line, r.Start, r.Line, r.End)
}
