// Package inlineedit describes an inline edit suggestion: which lines of the
// document it replaces and which lines of the replacement text show it.
package inlineedit

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned for line ranges that start before line 1 or
// end before they start.
var ErrInvalidRange = errors.New("invalid line range")

// LineRange is a half-open range of 1-based line numbers
// [Start, EndExclusive). An empty range marks a position between lines.
type LineRange struct {
	Start        int
	EndExclusive int
}

// NewLineRange creates a range from its bounds.
func NewLineRange(start, endExclusive int) LineRange {
	return LineRange{Start: start, EndExclusive: endExclusive}
}

// OfLength creates the range of length lines starting at start.
func OfLength(start, length int) LineRange {
	return LineRange{Start: start, EndExclusive: start + length}
}

// Length returns the number of lines covered.
func (r LineRange) Length() int {
	if r.EndExclusive <= r.Start {
		return 0
	}
	return r.EndExclusive - r.Start
}

// IsEmpty reports whether the range covers no line.
func (r LineRange) IsEmpty() bool {
	return r.Length() == 0
}

// Last returns the last line covered. It is Start-1 for an empty range.
func (r LineRange) Last() int {
	return r.EndExclusive - 1
}

// Contains reports whether line lies inside the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line < r.EndExclusive
}

// Touches reports whether line lies inside the range or on either boundary
// line. An empty range touches the line it sits in front of.
func (r LineRange) Touches(line int) bool {
	return line >= r.Start && line <= r.EndExclusive
}

// Intersects reports whether the two ranges share a line.
func (r LineRange) Intersects(other LineRange) bool {
	return r.Start < other.EndExclusive && other.Start < r.EndExclusive
}

// Join returns the smallest range covering both.
func (r LineRange) Join(other LineRange) LineRange {
	return LineRange{
		Start:        min(r.Start, other.Start),
		EndExclusive: max(r.EndExclusive, other.EndExclusive),
	}
}

// Complement returns the ranges of [1, lineCount] not covered by r, in
// document order. Empty parts are omitted.
func (r LineRange) Complement(lineCount int) []LineRange {
	var out []LineRange
	if r.Start > 1 {
		out = append(out, LineRange{Start: 1, EndExclusive: min(r.Start, lineCount+1)})
	}
	if r.EndExclusive <= lineCount {
		out = append(out, LineRange{Start: max(r.EndExclusive, 1), EndExclusive: lineCount + 1})
	}
	return out
}

// Validate checks the range bounds.
func (r LineRange) Validate() error {
	if r.Start < 1 {
		return fmt.Errorf("%w: start %d before line 1", ErrInvalidRange, r.Start)
	}
	if r.EndExclusive < r.Start {
		return fmt.Errorf("%w: end %d before start %d", ErrInvalidRange, r.EndExclusive, r.Start)
	}
	return nil
}

// String formats the range as [start,end).
func (r LineRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.EndExclusive)
}
