package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/inlineview/internal/host"
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/observable"
	"github.com/dshills/inlineview/internal/renderer/backend"
	"github.com/dshills/inlineview/internal/theme"
	"github.com/dshills/inlineview/internal/view"
)

type fixture struct {
	g       *observable.Graph
	term    *backend.NullBackend
	editor  *host.MemoryEditor
	preview *host.MemoryEditor
	edit    *observable.Value[*inlineedit.Descriptor]
	themes  *theme.Service
	painter *Painter
}

func cellMetrics(contentLeft int) host.Metrics {
	return host.Metrics{LineHeight: 16, CharWidth: 8, TabSize: 4, ContentLeft: contentLeft}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := observable.NewGraph()
	desc := inlineedit.New(inlineedit.NewLineRange(2, 3), inlineedit.NewLineRange(2, 3))
	f := &fixture{
		g:       g,
		term:    backend.NewNullBackend(60, 10),
		editor:  host.NewMemoryEditor(g, "one\ntwo\nthree\nfour\n", 480, 160, cellMetrics(32)),
		preview: host.NewMemoryEditor(g, "one\nTWO!\nthree\nfour\n", 0, 0, cellMetrics(0)),
		edit:    observable.NewValue(g, &desc),
		themes:  theme.NewService(theme.DarkTheme()),
	}
	engine := layout.New(g, f.editor, f.preview, f.edit, observable.NewValue(g, layout.DefaultParams()))
	overlay := view.NewOverlay(g, engine, f.edit, f.editor, f.preview, f.themes)
	f.painter = New(g, f.term, f.editor, f.preview, engine, f.themes, DefaultOptions())
	f.painter.Start()
	t.Cleanup(func() {
		f.painter.Dispose()
		overlay.Dispose()
		engine.Dispose()
	})
	return f
}

func (f *fixture) resolve(t *testing.T, key theme.Key) backend.Color {
	t.Helper()
	c, err := f.themes.Resolve(key)
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", key, err)
	}
	return backend.ColorFromColorful(c)
}

func TestPainterDrawsEditorAndPreview(t *testing.T) {
	f := newFixture(t)

	if got := f.term.Row(0); !strings.HasPrefix(got, "  1 one") {
		t.Errorf("Row(0) = %q, want prefix %q", got, "  1 one")
	}
	if strings.Contains(f.term.Row(0), "TWO!") {
		t.Errorf("Row(0) = %q, preview drawn on the wrong line", f.term.Row(0))
	}

	row := f.term.Row(1)
	code := strings.Index(row, "two")
	preview := strings.Index(row, "TWO!")
	if code != 4 {
		t.Errorf("code column = %d, want 4 in %q", code, row)
	}
	if preview <= code+len("two") {
		t.Errorf("preview column = %d, want right of the code in %q", preview, row)
	}

	if got, want := f.term.GetCell(4, 1).Style.Background, f.resolve(t, theme.OriginalBackground); got != want {
		t.Errorf("code background = %+v, want %+v", got, want)
	}
	if got, want := f.term.GetCell(preview, 1).Style.Background, f.resolve(t, theme.ModifiedBackground); got != want {
		t.Errorf("preview background = %+v, want %+v", got, want)
	}
	if got, want := f.term.GetCell(4, 4).Style.Background, f.resolve(t, theme.EditorBackground); got != want {
		t.Errorf("untouched background = %+v, want %+v", got, want)
	}
	if f.term.Shows() == 0 {
		t.Error("Show was never called")
	}
}

func TestPainterRepaintsOnChange(t *testing.T) {
	f := newFixture(t)
	before := f.painter.FrameCount()

	f.edit.Set(nil)
	if f.painter.FrameCount() <= before {
		t.Fatal("clearing the edit did not repaint")
	}
	if got := f.term.Row(1); strings.Contains(got, "TWO!") {
		t.Errorf("Row(1) = %q, preview still drawn", got)
	}

	f.editor.SetScrollTop(16)
	if got := f.term.Row(0); !strings.HasPrefix(got, "  2 two") {
		t.Errorf("after scroll Row(0) = %q, want prefix %q", got, "  2 two")
	}
}

func TestPainterThemeChange(t *testing.T) {
	f := newFixture(t)

	f.themes.SetTheme(theme.LightTheme())
	if got, want := f.term.GetCell(0, 5).Style.Background, f.resolve(t, theme.EditorBackground); got != want {
		t.Errorf("background after theme change = %+v, want %+v", got, want)
	}
}

func TestPainterCursor(t *testing.T) {
	f := newFixture(t)

	f.editor.SetCursor(host.Position{Line: 2, Column: 2})
	if x, y, ok := f.term.Cursor(); x != 5 || y != 1 || !ok {
		t.Errorf("Cursor = (%d, %d, %v), want (5, 1, true)", x, y, ok)
	}

	f.editor.SetScrollTop(64)
	if _, _, ok := f.term.Cursor(); ok {
		t.Error("cursor scrolled off screen should be hidden")
	}
}

func TestPainterTabsAndScroll(t *testing.T) {
	g := observable.NewGraph()
	term := backend.NewNullBackend(20, 2)
	editor := host.NewMemoryEditor(g, "\tab\n", 160, 32, cellMetrics(32))
	preview := host.NewMemoryEditor(g, "\tab\n", 0, 0, cellMetrics(0))
	edit := observable.NewValue[*inlineedit.Descriptor](g, nil)
	engine := layout.New(g, editor, preview, edit, observable.NewValue(g, layout.DefaultParams()))
	defer engine.Dispose()

	p := New(g, term, editor, preview, engine, theme.NewService(theme.DarkTheme()), Options{})
	p.Start()
	defer p.Dispose()

	if got := term.Row(0); !strings.HasPrefix(got, "        ab") {
		t.Errorf("Row(0) = %q, want tab expanded to column 8", got)
	}

	editor.SetScrollLeft(40)
	if got := term.Row(0); !strings.HasPrefix(got, "    b") {
		t.Errorf("scrolled Row(0) = %q, want %q prefix", got, "    b")
	}
}

func TestCellMath(t *testing.T) {
	tests := []struct {
		a, b       int
		floor, cel int
	}{
		{0, 8, 0, 0},
		{7, 8, 0, 1},
		{8, 8, 1, 1},
		{-1, 8, -1, 0},
		{-8, 8, -1, -1},
		{-9, 8, -2, -1},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.floor {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.floor)
		}
		if got := ceilDiv(tt.a, tt.b); got != tt.cel {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.cel)
		}
	}
}

func TestFormatLineNumber(t *testing.T) {
	tests := []struct {
		num, width int
		want       string
	}{
		{7, 3, "  7"},
		{1234, 3, "1234"},
		{0, 2, " 0"},
	}
	for _, tt := range tests {
		if got := formatLineNumber(tt.num, tt.width); got != tt.want {
			t.Errorf("formatLineNumber(%d, %d) = %q, want %q", tt.num, tt.width, got, tt.want)
		}
	}
}
