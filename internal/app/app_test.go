package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/inlineview/internal/config"
	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/renderer/backend"
	"github.com/dshills/inlineview/internal/theme"
)

func newApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.LogOutput == nil {
		opts.LogOutput = &bytes.Buffer{}
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewSample(t *testing.T) {
	app := newApp(t, Options{})

	if got := app.Engine().State().Get(); got != layout.VisibleInline {
		t.Errorf("State = %v, want %v", got, layout.VisibleInline)
	}
	if app.edit.Get() == nil {
		t.Fatal("sample should produce an edit")
	}
	if got := app.Editor().Cursor().Get().Line; got != app.edit.Get().Original.Start {
		t.Errorf("cursor line = %d, want first edited line %d", got, app.edit.Get().Original.Start)
	}
}

func TestNewFiles(t *testing.T) {
	original := writeFile(t, "a.go", "one\ntwo\nthree\n")
	modified := writeFile(t, "b.go", "one\nTWO\nthree\n")

	app := newApp(t, Options{Files: []string{original, modified}})
	d := app.edit.Get()
	if d == nil {
		t.Fatal("edit = nil, want line 2 replaced")
	}
	if d.Original.Start != 2 || d.Original.EndExclusive != 3 {
		t.Errorf("Original = %s, want [2,3)", d.Original)
	}

	same := newApp(t, Options{Files: []string{original, original}})
	if same.edit.Get() != nil {
		t.Error("identical files should produce no edit")
	}
	if got := same.Engine().State().Get(); got != layout.Hidden {
		t.Errorf("State = %v, want %v", got, layout.Hidden)
	}
}

func TestNewErrors(t *testing.T) {
	existing := writeFile(t, "a.go", "x\n")

	tests := []struct {
		name  string
		opts  Options
		check func(error) bool
	}{
		{"one file", Options{Files: []string{existing}}, func(err error) bool { return errors.Is(err, ErrUsage) }},
		{"missing file", Options{Files: []string{existing, filepath.Join(t.TempDir(), "nope")}}, func(err error) bool {
			var fileErr *FileError
			return errors.As(err, &fileErr) && fileErr.Op == "read" && errors.Is(err, os.ErrNotExist)
		}},
		{"missing config", Options{ConfigPath: filepath.Join(t.TempDir(), "none.toml")}, func(err error) bool {
			return errors.Is(err, config.ErrFileNotFound)
		}},
		{"bad theme", Options{Theme: "neon"}, func(err error) bool { return errors.Is(err, config.ErrInvalidConfig) }},
		{"bad log level", Options{LogLevel: "loud"}, func(err error) bool { return errors.Is(err, config.ErrInvalidConfig) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.LogOutput = &bytes.Buffer{}
			_, err := New(tt.opts)
			if err == nil || !tt.check(err) {
				t.Errorf("New() error = %v", err)
			}
		})
	}
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	app := newApp(t, Options{Dump: true, Output: &out})

	if err := app.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"inlineview: visible-inline",
		"Default Dark",
		"inline-edits-side-by-side",
		`return "Hello, " + name`,
		"Sprintf(",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump lacks %q:\n%s", want, got)
		}
	}
}

func TestHandleKeyScroll(t *testing.T) {
	app := newApp(t, Options{Width: 40, Height: 5})
	editor := app.Editor()

	steps := []struct {
		ev       backend.Event
		wantLeft int
		wantTop  int
	}{
		{backend.Event{Type: backend.EventKey, Key: backend.KeyDown}, 0, 64},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyPageDown}, 0, 144},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyPageUp}, 0, 64},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyUp}, 0, 48},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyRight}, 8, 48},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyLeft}, 0, 48},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyLeft}, 0, 48},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyRight}, 8, 48},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyHome}, 0, 48},
	}
	for i, s := range steps {
		if err := app.handleEvent(s.ev); err != nil {
			t.Fatalf("step %d: handleEvent() error = %v", i, err)
		}
		left, top := editor.ScrollPosition()
		if left != s.wantLeft || top != s.wantTop {
			t.Errorf("step %d: scroll = (%d, %d), want (%d, %d)", i, left, top, s.wantLeft, s.wantTop)
		}
	}
}

func TestHandleKeyCursorAndTheme(t *testing.T) {
	app := newApp(t, Options{})
	start := app.Editor().Cursor().Get().Line

	key := func(r rune) backend.Event {
		return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
	}

	_ = app.handleEvent(key(']'))
	_ = app.handleEvent(key(']'))
	_ = app.handleEvent(key('['))
	if got := app.Editor().Cursor().Get().Line; got != start+1 {
		t.Errorf("cursor line = %d, want %d", got, start+1)
	}

	for range 20 {
		_ = app.handleEvent(key('['))
	}
	if got := app.Editor().Cursor().Get().Line; got != 1 {
		t.Errorf("cursor line = %d, want clamped to 1", got)
	}

	_ = app.handleEvent(key('t'))
	if got := app.Themes().Current().Kind; got != theme.Light {
		t.Errorf("theme kind = %v, want %v", got, theme.Light)
	}

	for _, ev := range []backend.Event{key('q'), {Type: backend.EventKey, Key: backend.KeyEscape}, {Type: backend.EventKey, Key: backend.KeyCtrlC}} {
		if err := app.handleEvent(ev); !errors.Is(err, ErrQuit) {
			t.Errorf("handleEvent(%+v) = %v, want ErrQuit", ev, err)
		}
	}
}

func TestApplyConfig(t *testing.T) {
	app := newApp(t, Options{})

	c := app.Config().Clone()
	c.Layout.SeparatorMax = 10
	c.Theme = config.ThemeConfig{Name: "light"}
	app.ApplyConfig(c)

	geo := app.Engine().Geometry().Get()
	if geo == nil {
		t.Fatal("Geometry = nil after reload")
	}
	if geo.Gap != 10 {
		t.Errorf("Gap = %d, want 10", geo.Gap)
	}
	if got := app.Themes().Current().Kind; got != theme.Light {
		t.Errorf("theme kind = %v, want %v", got, theme.Light)
	}

	bad := app.Config().Clone()
	bad.Log.Level = "loud"
	app.ApplyConfig(bad)
	if got := app.Config().Log.Level; got == "loud" {
		t.Error("invalid config was applied")
	}

	s := app.Metrics().Snapshot()
	if s.Reloads != 1 || s.FailedReloads != 1 {
		t.Errorf("reloads = %d/%d, want 1/1", s.Reloads, s.FailedReloads)
	}
}

func TestRun(t *testing.T) {
	app := newApp(t, Options{})
	b := backend.NewNullBackend(DefaultWidth, DefaultHeight)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}
	start := app.Editor().Cursor().Get().Line

	c := app.Config().Clone()
	c.Layout.SeparatorMax = 10
	for _, ev := range []backend.Event{
		{Type: backend.EventResize, Width: 80, Height: 20},
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: ']'},
		{Type: backend.EventInterrupt, Data: c},
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'},
	} {
		if err := b.PostEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	if err := app.Run(); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v, want ErrQuit", err)
	}
	if app.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}
	if got := app.Editor().Cursor().Get().Line; got != start+1 {
		t.Errorf("cursor line = %d, want %d", got, start+1)
	}
	if got := app.Editor().Layout().Get().Width; got != 80*8 {
		t.Errorf("editor width = %d, want %d", got, 80*8)
	}
	if got := app.Config().Layout.SeparatorMax; got != 10 {
		t.Errorf("SeparatorMax = %d, want 10", got)
	}
	if b.Shows() == 0 {
		t.Error("nothing was painted")
	}
	if got := app.Metrics().Snapshot().Events; got != 4 {
		t.Errorf("Events = %d, want 4", got)
	}
}

func TestRunWithoutBackend(t *testing.T) {
	app := newApp(t, Options{})
	if err := app.Run(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() error = %v, want ErrNoBackend", err)
	}
}

func TestShutdownStopsRun(t *testing.T) {
	app := newApp(t, Options{})
	if err := app.SetBackend(backend.NewNullBackend(20, 5)); err != nil {
		t.Fatal(err)
	}
	app.Shutdown()
	app.Shutdown()
	if err := app.Run(); err != nil {
		t.Errorf("Run() after Shutdown = %v, want nil", err)
	}
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "inlineview.log")
	cfgPath := writeFile(t, "inlineview.toml", "[log]\nlevel = \"debug\"\nfile = \""+filepath.ToSlash(logPath)+"\"\n")

	app, err := New(Options{ConfigPath: cfgPath, Dump: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	app.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "inline edit") {
		t.Errorf("log file lacks the edit line:\n%s", data)
	}
}
