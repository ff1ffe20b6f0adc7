package vm

// ValueBuffer is the one-slot hand-off between the engine and its host for
// blocking text window I/O. The engine writes pending output and reads
// supplied input; the host does the opposite. Writing into an occupied slot
// or reading an empty one is a protocol violation and panics.
type ValueBuffer struct {
	value   Value
	newLine bool
	full    bool
}

// HasValue reports whether the slot is occupied.
func (b *ValueBuffer) HasValue() bool {
	return b.full
}

// WriteValue fills the slot.
func (b *ValueBuffer) WriteValue(v Value) {
	b.write(v, false)
}

func (b *ValueBuffer) write(v Value, newLine bool) {
	if b.full {
		panic("vm: value buffer is already holding a value")
	}
	b.value = v
	b.newLine = newLine
	b.full = true
}

// ReadValue empties the slot and returns its value.
func (b *ValueBuffer) ReadValue() Value {
	if !b.full {
		panic("vm: value buffer is empty")
	}
	v := b.value
	b.value = nil
	b.newLine = false
	b.full = false
	return v
}

// EndsLine reports whether the pending output was written by WriteLine and
// should be followed by a line break.
func (b *ValueBuffer) EndsLine() bool {
	return b.full && b.newLine
}
