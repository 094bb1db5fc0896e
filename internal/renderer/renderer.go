package renderer

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/inlineview/internal/event"
	"github.com/dshills/inlineview/internal/geom"
	"github.com/dshills/inlineview/internal/host"
	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/observable"
	"github.com/dshills/inlineview/internal/renderer/backend"
	"github.com/dshills/inlineview/internal/theme"
)

// TextEditor is an editor whose text and metrics the painter can read.
type TextEditor interface {
	host.Editor

	// Line returns the text of a 1-based line.
	Line(line int) string

	// Metrics returns the fixed typographic sizes.
	Metrics() host.Metrics
}

// Options configures the painter.
type Options struct {
	ShowLineNumbers bool // Show line numbers in the gutter
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{ShowLineNumbers: true}
}

// Painter draws the editor, its gutter and the overlay onto a backend
// whenever anything it read changes.
type Painter struct {
	g       *observable.Graph
	backend backend.Backend
	editor  TextEditor
	preview TextEditor
	engine  *layout.Engine
	opts    Options

	colors map[theme.Key]observable.Readable[colorful.Color]

	cellW, cellH int
	frames       uint64
	run          event.Disposable
}

// New creates a painter. It does not draw until Start is called.
func New(g *observable.Graph, b backend.Backend, editor, preview TextEditor, engine *layout.Engine, themes *theme.Service, opts Options) *Painter {
	m := editor.Metrics()
	p := &Painter{
		g:       g,
		backend: b,
		editor:  editor,
		preview: preview,
		engine:  engine,
		opts:    opts,
		colors:  make(map[theme.Key]observable.Readable[colorful.Color], len(theme.Keys)),
		cellW:   max(m.CharWidth, 1),
		cellH:   max(m.LineHeight, 1),
	}
	for _, key := range theme.Keys {
		p.colors[key] = themes.Color(g, key)
	}
	return p
}

// Start paints once and then repaints on every change.
func (p *Painter) Start() {
	if p.run != nil {
		return
	}
	p.run = observable.Autorun(p.g, p.Paint, observable.WithName("renderer.paint"))
}

// Dispose stops repainting.
func (p *Painter) Dispose() {
	if p.run != nil {
		p.run.Dispose()
		p.run = nil
	}
}

// FrameCount returns the number of frames painted.
func (p *Painter) FrameCount() uint64 {
	return p.frames
}

// CellSize returns the pixel size of one cell.
func (p *Painter) CellSize() (width, height int) {
	return p.cellW, p.cellH
}

// Paint draws one frame.
func (p *Painter) Paint(r *observable.Reader) {
	base := backend.DefaultStyle().
		WithForeground(p.color(r, theme.EditorForeground)).
		WithBackground(p.color(r, theme.EditorBackground))

	w, h := p.backend.Size()
	p.backend.Fill(backend.Rect{Right: w, Bottom: h}, backend.Cell{Rune: ' ', Style: base})

	p.paintEditor(r, base)
	p.paintOverlay(r, base)
	p.paintCursor(r)

	p.backend.Show()
	p.frames++
}

func (p *Painter) color(r *observable.Reader, key theme.Key) backend.Color {
	return backend.ColorFromColorful(p.colors[key].Read(r))
}

func (p *Painter) paintEditor(r *observable.Reader, base backend.Style) {
	info := p.editor.Layout().Read(r)
	scrollTop := p.editor.ScrollTop().Read(r)
	scrollLeft := p.editor.ScrollLeft().Read(r)
	_, rows := p.backend.Size()

	contentCol := p.col(info.ContentLeft)
	right := p.col(info.ContentLeft + info.ContentWidth)
	gutter := backend.Style{Foreground: base.Foreground, Background: base.Background, Dim: true}

	lines := p.editor.LineCount(r)
	digits := max(len(itoa(lines)), 1)
	for line := 1; line <= lines; line++ {
		top, ok := p.editor.TopForLine(r, line)
		if !ok {
			continue
		}
		bottom, _ := p.editor.BottomForLine(r, line)
		if bottom <= top {
			continue // hidden
		}
		row := p.row(top - scrollTop)
		if row < 0 {
			continue
		}
		if row >= rows {
			break
		}
		if p.opts.ShowLineNumbers && contentCol > 1 {
			p.drawText(0, row, formatLineNumber(line, min(contentCol-1, max(digits, 3))), 0, 0, contentCol-1, gutter)
		}
		p.drawText(contentCol, row, p.editor.Line(line), p.col(scrollLeft), contentCol, right, base)
	}
}

func (p *Painter) paintOverlay(r *observable.Reader, base backend.Style) {
	geo := p.engine.Geometry().Read(r)
	if geo == nil {
		return
	}
	in := p.engine.Input().Read(r)
	clip := p.cells(geo.Clip)

	p.tint(p.cells(geo.CodeRect), clip, p.color(r, theme.OriginalBackground))
	p.tint(p.cells(geo.EditRect), clip, p.color(r, theme.PreviewBackground))
	if geo.ShouldShowShadow && geo.Gap > 0 {
		shadow := geom.FromLeftTopWidthHeight(geo.EditRect.Left-geo.Gap, geo.EditRect.Top, geo.Gap, geo.EditRect.Height())
		p.tint(p.cells(shadow), clip, p.color(r, theme.Shadow))
	}
	if in == nil {
		return
	}

	// Preview lines share the vertical origin of the code they replace.
	contentTop := in.CodeTop - in.ScrollTop
	previewTop := p.preview.ScrollTop().Read(r)
	edit := p.cells(geo.EditRect)
	box, ok := edit.Intersect(clip)
	if !ok {
		return
	}
	modified := backend.Style{
		Foreground: base.Foreground,
		Background: p.color(r, theme.ModifiedBackground),
	}
	textCol := p.col(geo.EditRect.Left + p.preview.Layout().Read(r).ContentLeft)
	skip := p.col(geo.PreviewScrollLeft)
	for line := 1; line <= p.preview.LineCount(r); line++ {
		top, ok := p.preview.TopForLine(r, line)
		if !ok {
			continue
		}
		if bottom, _ := p.preview.BottomForLine(r, line); bottom <= top {
			continue
		}
		row := p.row(contentTop + top - previewTop)
		if row < box.Top || row >= box.Bottom {
			continue
		}
		p.tint(geom.Rect{Left: box.Left, Top: row, Right: box.Right, Bottom: row + 1}, box, modified.Background)
		p.drawText(textCol, row, p.preview.Line(line), skip, box.Left, box.Right, modified)
	}
}

func (p *Painter) paintCursor(r *observable.Reader) {
	pos := p.editor.Cursor().Read(r)
	if !pos.IsValid() {
		p.backend.HideCursor()
		return
	}
	offset, ok := p.editor.OffsetForColumn(r, pos)
	top, ok2 := p.editor.TopForLine(r, pos.Line)
	if !ok || !ok2 {
		p.backend.HideCursor()
		return
	}
	info := p.editor.Layout().Read(r)
	x := p.col(info.ContentLeft + offset - p.editor.ScrollLeft().Read(r))
	y := p.row(top - p.editor.ScrollTop().Read(r))
	w, h := p.backend.Size()
	if x < p.col(info.ContentLeft) || x >= w || y < 0 || y >= h {
		p.backend.HideCursor()
		return
	}
	p.backend.ShowCursor(x, y)
}

// drawText writes text starting at column x, skipping the first skip
// display columns and clipping to [left, right).
func (p *Painter) drawText(x, y int, text string, skip, left, right int, style backend.Style) {
	tab := max(p.editor.Metrics().TabSize, 1)
	col := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		width := g.Width()
		r := g.Runes()[0]
		if r == '\t' {
			width = tab - col%tab
			r = ' '
		}
		for i := range width {
			sx := x + col + i - skip
			if col+i >= skip && sx >= left && sx < right {
				ch := r
				if i > 0 {
					ch = ' '
				}
				if i == 0 || r == ' ' {
					p.backend.SetCell(sx, y, backend.Cell{Rune: ch, Style: style})
				}
			}
		}
		col += width
	}
}

// tint replaces the background of every cell of rect inside clip.
func (p *Painter) tint(rect, clip geom.Rect, bg backend.Color) {
	area, ok := rect.Intersect(clip)
	if !ok {
		return
	}
	for y := area.Top; y < area.Bottom; y++ {
		for x := area.Left; x < area.Right; x++ {
			cell := p.backend.GetCell(x, y)
			cell.Style.Background = bg
			p.backend.SetCell(x, y, cell)
		}
	}
}

// cells converts a pixel rectangle to the cells it touches.
func (p *Painter) cells(r geom.Rect) geom.Rect {
	return geom.Rect{
		Left:   floorDiv(r.Left, p.cellW),
		Top:    floorDiv(r.Top, p.cellH),
		Right:  ceilDiv(r.Right, p.cellW),
		Bottom: ceilDiv(r.Bottom, p.cellH),
	}
}

func (p *Painter) col(px int) int { return floorDiv(px, p.cellW) }
func (p *Painter) row(px int) int { return floorDiv(px, p.cellH) }

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// formatLineNumber formats a line number with padding.
func formatLineNumber(num int, width int) string {
	return padLeft(itoa(num), width)
}

// padLeft pads a string with spaces on the left.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := make([]byte, width-len(s))
	for i := range padding {
		padding[i] = ' '
	}
	return string(padding) + s
}

// itoa converts a non-negative int to string without fmt package.
func itoa(n int) string {
	if n <= 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
