// Package geom provides the immutable pixel geometry used by the overlay
// layout: one-dimensional offset ranges and rectangles.
//
// All types are values. Every operation returns a new value.
package geom

import "fmt"

// OffsetRange is the half-open interval [Start, EndExclusive).
type OffsetRange struct {
	Start        int
	EndExclusive int
}

// NewOffsetRange creates a range. It panics if end < start.
func NewOffsetRange(start, endExclusive int) OffsetRange {
	if endExclusive < start {
		panic(fmt.Sprintf("geom: invalid offset range [%d, %d)", start, endExclusive))
	}
	return OffsetRange{Start: start, EndExclusive: endExclusive}
}

// IsEmpty reports whether the range covers nothing.
func (o OffsetRange) IsEmpty() bool {
	return o.EndExclusive <= o.Start
}

// Clip clamps v into the range. An empty range clips to Start.
func (o OffsetRange) Clip(v int) int {
	if o.IsEmpty() {
		return o.Start
	}
	return max(o.Start, min(o.EndExclusive-1, v))
}

// Intersect returns the overlap of two ranges.
func (o OffsetRange) Intersect(other OffsetRange) (OffsetRange, bool) {
	start := max(o.Start, other.Start)
	end := min(o.EndExclusive, other.EndExclusive)
	if end <= start {
		return OffsetRange{}, false
	}
	return OffsetRange{Start: start, EndExclusive: end}, true
}

// Rect is an axis-aligned rectangle. Left and Top are inclusive, Right and
// Bottom exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// FromLeftTopRightBottom creates a rectangle from its edges.
func FromLeftTopRightBottom(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// FromLeftTopWidthHeight creates a rectangle from its origin and size.
func FromLeftTopWidthHeight(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the width, never negative.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height, never negative.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Vertical returns the vertical extent.
func (r Rect) Vertical() OffsetRange {
	return OffsetRange{Start: r.Top, EndExclusive: r.Bottom}
}

// WithMargin grows the rectangle by vertical pixels above and below and by
// horizontal pixels left and right. Negative values shrink it.
func (r Rect) WithMargin(vertical, horizontal int) Rect {
	return r.WithMargins(vertical, horizontal, vertical, horizontal)
}

// WithMargins grows each edge independently.
func (r Rect) WithMargins(top, right, bottom, left int) Rect {
	return Rect{
		Left:   r.Left - left,
		Top:    r.Top - top,
		Right:  r.Right + right,
		Bottom: r.Bottom + bottom,
	}
}

// TranslateX moves the rectangle horizontally.
func (r Rect) TranslateX(dx int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top, Right: r.Right + dx, Bottom: r.Bottom}
}

// TranslateY moves the rectangle vertically.
func (r Rect) TranslateY(dy int) Rect {
	return Rect{Left: r.Left, Top: r.Top + dy, Right: r.Right, Bottom: r.Bottom + dy}
}

// IntersectHorizontal clips the rectangle to a horizontal range.
// The result is empty (zero width) when they do not overlap.
func (r Rect) IntersectHorizontal(h OffsetRange) Rect {
	left := max(r.Left, h.Start)
	right := min(r.Right, h.EndExclusive)
	if right < left {
		right = left
	}
	return Rect{Left: left, Top: r.Top, Right: right, Bottom: r.Bottom}
}

// Intersects reports whether the two rectangles overlap with positive area.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Intersect returns the overlapping region.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	if !r.Intersects(other) {
		return Rect{}, false
	}
	return Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}, true
}

// String returns a compact representation for logs and test failures.
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.Left, r.Top, r.Width(), r.Height())
}
