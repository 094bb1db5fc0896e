package layout

import (
	"fmt"

	"github.com/dshills/inlineview/internal/geom"
	"github.com/dshills/inlineview/internal/host"
)

// Input is a snapshot of everything Compute needs. Vertical positions are in
// document space; Compute subtracts ScrollTop.
type Input struct {
	Layout host.LayoutInfo
	Window host.Window

	ScrollLeft         int
	ScrollTop          int
	StickyScrollHeight int

	// CodeTop and CodeBottom bound the original range. They are equal for an
	// insertion.
	CodeTop    int
	CodeBottom int

	// CodeMaxWidth is the widest line of the display range, in text-area pixels.
	CodeMaxWidth int

	// PreviewContentWidth and PreviewHeight measure the replacement lines.
	PreviewContentWidth int
	PreviewHeight       int

	// CursorOffset is the cursor's text-area offset. HasCursor is false when
	// the cursor is not on the edit.
	CursorOffset int
	HasCursor    bool

	IsInsertion bool
}

// Geometry is the computed placement of the overlay, in editor pixels.
type Geometry struct {
	// CodeRect frames the original lines; EditRect holds the preview.
	CodeRect geom.Rect
	EditRect geom.Rect

	// Clip is the part of the editor the overlay may paint into.
	Clip geom.Rect

	// CodeScrollLeft is the host scroll offset the layout assumes.
	// PreviewScrollLeft is applied to the preview so that its column 0 lines
	// up with the host's.
	CodeScrollLeft    int
	PreviewScrollLeft int

	ContentLeft int

	// PreviewLeft is where the preview starts in unscrolled text space.
	PreviewLeft  int
	PreviewWidth int

	// MaxContentWidth is the scrollable width of code, gap and preview together.
	MaxContentWidth int

	Gap int

	IsInsertion      bool
	ShouldShowShadow bool
}

// String summarizes the geometry for logs.
func (g *Geometry) String() string {
	if g == nil {
		return "hidden"
	}
	return fmt.Sprintf("code=%s edit=%s scroll=%d/%d gap=%d", g.CodeRect, g.EditRect,
		g.CodeScrollLeft, g.PreviewScrollLeft, g.Gap)
}

// Equal reports whether two geometries are the same placement. Two nil
// geometries are equal.
func Equal(a, b *Geometry) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Compute places the overlay. It returns nil when there is nothing to show:
// no layout yet, or the edit lies entirely outside the visible viewport.
//
// The steps, in order:
//  1. Measure the visible text area: its width without the scrollbar, and the
//     window space right of the content and right of the editor.
//  2. Take the desired minimum preview width: the smallest of MinWidthRatio
//     of the content width, the preview content width and MinWidthCap.
//  3. With the cursor on the edit, floor the preview left at the cursor
//     offset plus CursorPadding.
//  4. Bound the preview left by the right edge of the visible text area,
//     moved left by whatever part of the minimum width does not fit in the
//     window right of the content. Nothing else shifts it, since the overlay
//     never overflows the editor.
//  5. Place the preview ContentGap right of the widest original line, within
//     that bound. Left of the scroll position, the preview scrolls instead.
//  6. Derive the code rect from the original lines' tops and bottoms, and
//     hide the overlay when it misses the clip vertically.
//  7. Derive the edit rect from the replacement height, Gap right of the code
//     rect, as wide as the preview content plus ScrollbarGutter allows.
//  8. Show the shadow when no slack is left, and copy IsInsertion.
func Compute(in Input, p Params) *Geometry {
	l := in.Layout
	if l.Width <= 0 || l.Height <= 0 || l.ContentWidth <= 0 {
		return nil
	}

	contentAreaWidth := max(0, l.ContentWidth-l.VerticalScrollbarWidth)
	visibleRight := contentAreaWidth + in.ScrollLeft

	clientContentRight := in.Window.ContainerLeft + l.ContentLeft + l.ContentWidth
	availableRightOfContent := max(0, in.Window.InnerWidth-clientContentRight)
	availableRightOfEditor := max(0, in.Window.InnerWidth-(in.Window.ContainerLeft+l.Width))

	desiredMinWidth := min(int(float64(l.ContentWidth)*p.MinWidthRatio), in.PreviewContentWidth, p.MinWidthCap)

	cursorFloor := 0
	if in.HasCursor {
		cursorFloor = min(in.CursorOffset+p.CursorPadding, visibleRight)
	}
	maxPreviewLeft := max(visibleRight-max(0, desiredMinWidth-availableRightOfContent), cursorFloor)

	previewLeftInText := min(max(in.CodeMaxWidth+p.ContentGap, cursorFloor), maxPreviewLeft)
	slack := maxPreviewLeft - previewLeftInText

	var codeRight, previewScrollLeft int
	if previewLeftInText > in.ScrollLeft {
		codeRight = l.ContentLeft + previewLeftInText - in.ScrollLeft
	} else {
		previewScrollLeft = in.ScrollLeft - previewLeftInText
		codeRight = l.ContentLeft
	}

	top := in.CodeTop - in.ScrollTop
	bottom := in.CodeBottom - in.ScrollTop
	codeHeight := bottom - top
	previewHeight := max(codeHeight, in.PreviewHeight)
	if previewHeight <= 0 {
		return nil
	}

	clip := geom.FromLeftTopRightBottom(0, in.StickyScrollHeight, l.Width+availableRightOfEditor, l.Height)
	if _, visible := clip.Vertical().Intersect(geom.NewOffsetRange(top, top+previewHeight)); !visible {
		return nil
	}

	gap := p.Padding
	if codeHeight != in.PreviewHeight {
		gap = geom.NewOffsetRange(p.SeparatorMin, p.SeparatorMax+1).Clip(slack)
	}

	codeRect := geom.FromLeftTopRightBottom(l.ContentLeft, top, codeRight, bottom)
	if !in.IsInsertion {
		codeRect = codeRect.WithMargin(p.VerticalMargin, p.HorizontalMargin)
	}

	editLeft := codeRect.Right + gap
	previewWidth := max(0, min(in.PreviewContentWidth+p.ScrollbarGutter, l.Width+availableRightOfEditor-editLeft))
	editRect := geom.FromLeftTopWidthHeight(editLeft, top, previewWidth, previewHeight)
	if !in.IsInsertion {
		editRect = editRect.WithMargins(p.VerticalMargin, 0, p.VerticalMargin, 0)
	}

	return &Geometry{
		CodeRect:          codeRect,
		EditRect:          editRect,
		Clip:              clip,
		CodeScrollLeft:    in.ScrollLeft,
		PreviewScrollLeft: previewScrollLeft,
		ContentLeft:       l.ContentLeft,
		PreviewLeft:       l.ContentLeft + previewLeftInText,
		PreviewWidth:      previewWidth,
		MaxContentWidth:   in.CodeMaxWidth + p.ContentGap + in.PreviewContentWidth + p.ContentTrailing,
		Gap:               gap,
		IsInsertion:       in.IsInsertion,
		ShouldShowShadow:  slack == 0,
	}
}
