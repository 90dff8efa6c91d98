package rewrite

import "strings"

// Buffer is the unit every stage reads and rewrites: an ordered sequence of
// text lines owned by one repair run. Stages never mutate their input; each
// returns a new Buffer, so a snapshot taken between stages stays stable.
type Buffer struct {
	lines []string
}

// NewBuffer splits source into lines. Line separators are "\n"; a trailing
// newline does not produce a phantom empty line beyond what the source holds.
func NewBuffer(source string) *Buffer {
	return &Buffer{lines: strings.Split(source, "\n")}
}

// fromLines wraps an already-built line slice without copying. Internal
// constructor for stages, which always hand over freshly allocated slices.
func fromLines(lines []string) *Buffer {
	return &Buffer{lines: lines}
}

// Len returns the number of lines.
func (b *Buffer) Len() int { return len(b.lines) }

// Line returns line i. It panics on out-of-range i, matching slice semantics.
func (b *Buffer) Line(i int) string { return b.lines[i] }

// Lines returns a copy of the line slice.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins the lines back into a single text blob.
func (b *Buffer) String() string { return strings.Join(b.lines, "\n") }
