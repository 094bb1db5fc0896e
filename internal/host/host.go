// Package host defines what the inline preview needs from the editor it is
// drawn over, and provides MemoryEditor, an in-memory implementation used by
// the terminal demo and by tests.
//
// Reads go through an observable.Reader so that layout computations re-run
// when scroll position, metrics or document content change.
package host

import (
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/observable"
)

// LayoutInfo is the editor's current box model, in pixels.
type LayoutInfo struct {
	// Width and Height are the outer size of the editor.
	Width  int
	Height int

	// ContentLeft is where the text area starts, after gutter and line numbers.
	ContentLeft int

	// ContentWidth is the width of the text area, vertical scrollbar included.
	ContentWidth int

	// VerticalScrollbarWidth is the width of the vertical scrollbar.
	VerticalScrollbarWidth int

	// MinimapLeft and MinimapWidth locate the minimap. Width is 0 when hidden.
	MinimapLeft  int
	MinimapWidth int
}

// Window describes where the editor sits in its containing window.
type Window struct {
	// ContainerLeft is the editor's left edge in window coordinates.
	ContainerLeft int

	// InnerWidth is the window width.
	InnerWidth int
}

// Position is a 1-based line and column. The zero value means "none".
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether the position refers to a line.
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Column >= 1
}

// ZoneID identifies a view zone.
type ZoneID string

// ViewZone reserves vertical space below a line.
type ViewZone struct {
	// AfterLine is the line the zone follows; 0 places it above line 1.
	AfterLine int

	// Height is the reserved height in pixels.
	Height int
}

// Editor is the read side of a host editor.
type Editor interface {
	ScrollLeft() observable.Readable[int]
	ScrollTop() observable.Readable[int]
	Layout() observable.Readable[LayoutInfo]
	Window() observable.Readable[Window]
	Cursor() observable.Readable[Position]
	StickyScrollHeight() observable.Readable[int]

	// LineCount returns the number of lines in the document.
	LineCount(r *observable.Reader) int

	// TopForLine returns the document-space top of line. line may be
	// LineCount+1, which yields the bottom of the document.
	// ok is false for lines outside the document.
	TopForLine(r *observable.Reader, line int) (top int, ok bool)

	// BottomForLine returns the document-space bottom of line.
	BottomForLine(r *observable.Reader, line int) (bottom int, ok bool)

	// HeightOfRange returns the accumulated height of the lines in rng,
	// view zones inside the range included.
	HeightOfRange(r *observable.Reader, rng inlineedit.LineRange) (height int, ok bool)

	// ContentWidthInRange returns the widest rendered line in rng.
	ContentWidthInRange(r *observable.Reader, rng inlineedit.LineRange) (width int, ok bool)

	// OffsetForColumn returns the horizontal text-area offset of a column.
	OffsetForColumn(r *observable.Reader, pos Position) (offset int, ok bool)
}

// Writer is the write side the preview needs on an editor.
type Writer interface {
	SetScrollLeft(px int)
	AddViewZone(zone ViewZone) ZoneID
	RemoveViewZone(id ZoneID)
}

// PreviewEditor is the embedded editor that renders the replacement text.
type PreviewEditor interface {
	Editor
	Writer
	SetScrollTop(px int)
	SetHiddenAreas(ranges []inlineedit.LineRange)
	Resize(width, height int)
}
