package host

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/dshills/inlineview/internal/event"
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/observable"
)

// Metrics are the fixed typographic and chrome sizes of a MemoryEditor.
type Metrics struct {
	LineHeight             int
	CharWidth              int
	TabSize                int
	ContentLeft            int
	VerticalScrollbarWidth int
	MinimapWidth           int
}

// DefaultMetrics returns metrics resembling a desktop editor at 14px.
func DefaultMetrics() Metrics {
	return Metrics{
		LineHeight:             19,
		CharWidth:              8,
		TabSize:                4,
		ContentLeft:            64,
		VerticalScrollbarWidth: 14,
		MinimapWidth:           0,
	}
}

// ScrollChange is the payload of the scroll event.
type ScrollChange struct {
	Left int
	Top  int
}

// MemoryEditor is an editor held entirely in memory. Its state is plain
// fields changed through setters; every setter fires an event, and the
// observables it exposes are bridged from those events with FromEvent.
type MemoryEditor struct {
	g       *observable.Graph
	metrics Metrics

	lines      []string
	hidden     []inlineedit.LineRange
	zones      map[ZoneID]ViewZone
	version    uint64
	scrollLeft int
	scrollTop  int
	width      int
	height     int
	window     Window
	cursor     Position
	sticky     int

	onDidScroll       event.Emitter[ScrollChange]
	onDidLayout       event.Emitter[LayoutInfo]
	onDidChangeModel  event.Emitter[uint64]
	onDidChangeCursor event.Emitter[Position]
	onDidChangeSticky event.Emitter[int]
	onDidChangeWindow event.Emitter[Window]

	scrollLeftObs *observable.EventObservable[int]
	scrollTopObs  *observable.EventObservable[int]
	layoutObs     *observable.EventObservable[LayoutInfo]
	windowObs     *observable.EventObservable[Window]
	cursorObs     *observable.EventObservable[Position]
	stickyObs     *observable.EventObservable[int]
	modelObs      *observable.EventObservable[uint64]
}

// NewMemoryEditor creates an editor of the given outer size showing text.
func NewMemoryEditor(g *observable.Graph, text string, width, height int, metrics Metrics) *MemoryEditor {
	if metrics.LineHeight <= 0 {
		metrics.LineHeight = DefaultMetrics().LineHeight
	}
	if metrics.CharWidth <= 0 {
		metrics.CharWidth = DefaultMetrics().CharWidth
	}
	if metrics.TabSize <= 0 {
		metrics.TabSize = DefaultMetrics().TabSize
	}

	e := &MemoryEditor{
		g:       g,
		metrics: metrics,
		lines:   splitLines(text),
		zones:   make(map[ZoneID]ViewZone),
		width:   width,
		height:  height,
		window:  Window{ContainerLeft: 0, InnerWidth: width},
	}

	e.scrollLeftObs = observable.FromEvent(g, &e.onDidScroll, func() int { return e.scrollLeft }, observable.WithName("editor.scrollLeft"))
	e.scrollTopObs = observable.FromEvent(g, &e.onDidScroll, func() int { return e.scrollTop }, observable.WithName("editor.scrollTop"))
	e.layoutObs = observable.FromEvent(g, &e.onDidLayout, e.layoutInfo, observable.WithName("editor.layout"))
	e.windowObs = observable.FromEvent(g, &e.onDidChangeWindow, func() Window { return e.window }, observable.WithName("editor.window"))
	e.cursorObs = observable.FromEvent(g, &e.onDidChangeCursor, func() Position { return e.cursor }, observable.WithName("editor.cursor"))
	e.stickyObs = observable.FromEvent(g, &e.onDidChangeSticky, func() int { return e.sticky }, observable.WithName("editor.stickyScroll"))
	e.modelObs = observable.FromEvent(g, &e.onDidChangeModel, func() uint64 { return e.version }, observable.WithName("editor.model"))
	return e
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Metrics returns the editor's fixed metrics.
func (e *MemoryEditor) Metrics() Metrics {
	return e.metrics
}

// ScrollLeft implements Editor.
func (e *MemoryEditor) ScrollLeft() observable.Readable[int] { return e.scrollLeftObs }

// ScrollTop implements Editor.
func (e *MemoryEditor) ScrollTop() observable.Readable[int] { return e.scrollTopObs }

// Layout implements Editor.
func (e *MemoryEditor) Layout() observable.Readable[LayoutInfo] { return e.layoutObs }

// Window implements Editor.
func (e *MemoryEditor) Window() observable.Readable[Window] { return e.windowObs }

// Cursor implements Editor.
func (e *MemoryEditor) Cursor() observable.Readable[Position] { return e.cursorObs }

// StickyScrollHeight implements Editor.
func (e *MemoryEditor) StickyScrollHeight() observable.Readable[int] { return e.stickyObs }

func (e *MemoryEditor) layoutInfo() LayoutInfo {
	m := e.metrics
	contentWidth := max(0, e.width-m.ContentLeft-m.MinimapWidth)
	return LayoutInfo{
		Width:                  e.width,
		Height:                 e.height,
		ContentLeft:            m.ContentLeft,
		ContentWidth:           contentWidth,
		VerticalScrollbarWidth: m.VerticalScrollbarWidth,
		MinimapLeft:            m.ContentLeft + contentWidth,
		MinimapWidth:           m.MinimapWidth,
	}
}

// Text returns the document text.
func (e *MemoryEditor) Text() string {
	return strings.Join(e.lines, "\n")
}

// Line returns the text of a 1-based line, or "" outside the document.
func (e *MemoryEditor) Line(line int) string {
	if line < 1 || line > len(e.lines) {
		return ""
	}
	return e.lines[line-1]
}

// SetText replaces the document.
func (e *MemoryEditor) SetText(text string) {
	e.lines = splitLines(text)
	e.modelChanged()
}

// SetScrollLeft implements Writer. Negative offsets clamp to 0.
func (e *MemoryEditor) SetScrollLeft(px int) {
	px = max(0, px)
	if px == e.scrollLeft {
		return
	}
	e.scrollLeft = px
	e.onDidScroll.Fire(ScrollChange{Left: e.scrollLeft, Top: e.scrollTop})
}

// SetScrollTop implements PreviewEditor. Negative offsets clamp to 0.
func (e *MemoryEditor) SetScrollTop(px int) {
	px = max(0, px)
	if px == e.scrollTop {
		return
	}
	e.scrollTop = px
	e.onDidScroll.Fire(ScrollChange{Left: e.scrollLeft, Top: e.scrollTop})
}

// ScrollPosition returns the current scroll offsets without tracking.
func (e *MemoryEditor) ScrollPosition() (left, top int) {
	return e.scrollLeft, e.scrollTop
}

// OnDidScroll fires after every scroll change.
func (e *MemoryEditor) OnDidScroll() event.Source[ScrollChange] {
	return &e.onDidScroll
}

// Resize implements PreviewEditor.
func (e *MemoryEditor) Resize(width, height int) {
	width, height = max(0, width), max(0, height)
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.onDidLayout.Fire(e.layoutInfo())
}

// SetWindow moves the editor within its window.
func (e *MemoryEditor) SetWindow(w Window) {
	if w == e.window {
		return
	}
	e.window = w
	e.onDidChangeWindow.Fire(w)
}

// SetCursor moves the cursor. The zero Position removes it.
func (e *MemoryEditor) SetCursor(pos Position) {
	if pos == e.cursor {
		return
	}
	e.cursor = pos
	e.onDidChangeCursor.Fire(pos)
}

// SetStickyScrollHeight sets the height of the sticky-scroll header.
func (e *MemoryEditor) SetStickyScrollHeight(px int) {
	px = max(0, px)
	if px == e.sticky {
		return
	}
	e.sticky = px
	e.onDidChangeSticky.Fire(px)
}

// SetHiddenAreas implements PreviewEditor. Hidden lines take no space.
func (e *MemoryEditor) SetHiddenAreas(ranges []inlineedit.LineRange) {
	if slices.Equal(ranges, e.hidden) {
		return
	}
	e.hidden = append([]inlineedit.LineRange(nil), ranges...)
	e.modelChanged()
}

// HiddenAreas returns the current hidden ranges.
func (e *MemoryEditor) HiddenAreas() []inlineedit.LineRange {
	return append([]inlineedit.LineRange(nil), e.hidden...)
}

// AddViewZone implements Writer.
func (e *MemoryEditor) AddViewZone(zone ViewZone) ZoneID {
	id := ZoneID(uuid.NewString())
	e.zones[id] = zone
	e.modelChanged()
	return id
}

// RemoveViewZone implements Writer. Unknown ids are ignored.
func (e *MemoryEditor) RemoveViewZone(id ZoneID) {
	if _, ok := e.zones[id]; !ok {
		return
	}
	delete(e.zones, id)
	e.modelChanged()
}

// ViewZones returns a copy of the current view zones.
func (e *MemoryEditor) ViewZones() map[ZoneID]ViewZone {
	out := make(map[ZoneID]ViewZone, len(e.zones))
	for id, z := range e.zones {
		out[id] = z
	}
	return out
}

func (e *MemoryEditor) modelChanged() {
	e.version++
	e.onDidChangeModel.Fire(e.version)
}

// LineCount implements Editor.
func (e *MemoryEditor) LineCount(r *observable.Reader) int {
	e.modelObs.Read(r)
	return len(e.lines)
}

// TopForLine implements Editor.
func (e *MemoryEditor) TopForLine(r *observable.Reader, line int) (int, bool) {
	e.modelObs.Read(r)
	if line < 1 || line > len(e.lines)+1 {
		return 0, false
	}
	return e.top(line), true
}

// BottomForLine implements Editor.
func (e *MemoryEditor) BottomForLine(r *observable.Reader, line int) (int, bool) {
	e.modelObs.Read(r)
	if line < 1 || line > len(e.lines) {
		return 0, false
	}
	return e.top(line) + e.lineHeight(line), true
}

// HeightOfRange implements Editor.
func (e *MemoryEditor) HeightOfRange(r *observable.Reader, rng inlineedit.LineRange) (int, bool) {
	e.modelObs.Read(r)
	if rng.Start < 1 || rng.EndExclusive > len(e.lines)+1 || rng.EndExclusive < rng.Start {
		return 0, false
	}
	h := 0
	for line := rng.Start; line < rng.EndExclusive; line++ {
		h += e.lineHeight(line) + e.zoneHeightAfter(line)
	}
	// The last line's trailing zone belongs to what follows the range.
	if !rng.IsEmpty() {
		h -= e.zoneHeightAfter(rng.Last())
	}
	return h, true
}

// ContentWidthInRange implements Editor.
func (e *MemoryEditor) ContentWidthInRange(r *observable.Reader, rng inlineedit.LineRange) (int, bool) {
	e.modelObs.Read(r)
	if rng.Start < 1 || rng.EndExclusive > len(e.lines)+1 {
		return 0, false
	}
	widest := 0
	for line := rng.Start; line < rng.EndExclusive; line++ {
		widest = max(widest, e.columnsWidth(e.lines[line-1]))
	}
	return widest * e.metrics.CharWidth, true
}

// OffsetForColumn implements Editor.
func (e *MemoryEditor) OffsetForColumn(r *observable.Reader, pos Position) (int, bool) {
	e.modelObs.Read(r)
	if !pos.IsValid() || pos.Line > len(e.lines) {
		return 0, false
	}
	runes := []rune(e.lines[pos.Line-1])
	n := min(pos.Column-1, len(runes))
	return e.columnsWidth(string(runes[:n])) * e.metrics.CharWidth, true
}

func (e *MemoryEditor) top(line int) int {
	y := e.zoneHeightAfter(0)
	for l := 1; l < line; l++ {
		y += e.lineHeight(l) + e.zoneHeightAfter(l)
	}
	return y
}

func (e *MemoryEditor) lineHeight(line int) int {
	for _, h := range e.hidden {
		if h.Contains(line) {
			return 0
		}
	}
	return e.metrics.LineHeight
}

func (e *MemoryEditor) zoneHeightAfter(line int) int {
	h := 0
	for _, z := range e.zones {
		if z.AfterLine == line {
			h += z.Height
		}
	}
	return h
}

// columnsWidth returns the display width of s in cells, expanding tabs.
func (e *MemoryEditor) columnsWidth(s string) int {
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if g.Str() == "\t" {
			col += e.metrics.TabSize - col%e.metrics.TabSize
			continue
		}
		col += g.Width()
	}
	return col
}

// ContentHeight returns the height of the whole document in pixels.
func (e *MemoryEditor) ContentHeight() int {
	return e.top(len(e.lines) + 1)
}

// Compile-time interface checks.
var (
	_ Editor        = (*MemoryEditor)(nil)
	_ PreviewEditor = (*MemoryEditor)(nil)
)
