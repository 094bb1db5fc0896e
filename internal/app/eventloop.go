package app

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/dshills/inlineview/internal/config"
	"github.com/dshills/inlineview/internal/host"
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/observable"
	"github.com/dshills/inlineview/internal/renderer/backend"
	"github.com/dshills/inlineview/internal/theme"
)

// pollEvents forwards backend events until the backend closes or stop is
// closed. PollEvent blocks, so it runs on its own goroutine.
func pollEvents(b backend.Backend, events chan<- backend.Event, stop <-chan struct{}) {
	for {
		ev := b.PollEvent()
		if ev.Type == backend.EventClosed {
			return
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// eventLoop is the main application loop. Every graph update happens here.
func (app *Application) eventLoop(events <-chan backend.Event) error {
	var updates <-chan *config.Config
	var reloadErrs <-chan error
	if app.watcher != nil {
		updates = app.watcher.Updates()
		reloadErrs = app.watcher.Errors()
	}

	for {
		select {
		case <-app.done:
			return nil

		case ev := <-events:
			if err := app.dispatch(ev); err != nil {
				return err
			}

		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			app.ApplyConfig(cfg)

		case err, ok := <-reloadErrs:
			if !ok {
				reloadErrs = nil
				continue
			}
			app.metrics.RecordReload(false)
			app.logger.Warn("config reload: %v", err)
		}
	}
}

// dispatch handles one event, recovering from panics so that a bad frame
// does not take the terminal down with it. Only ErrQuit is returned.
func (app *Application) dispatch(ev backend.Event) (err error) {
	start := time.Now()
	defer func() {
		app.metrics.RecordEvent(time.Since(start))
		if r := recover(); r != nil {
			app.metrics.RecordPanic()
			app.logger.Error("%v", &RecoveredPanicError{Value: r, Stack: string(debug.Stack())})
			err = nil
		}
	}()

	err = app.handleEvent(ev)
	if err != nil && !errors.Is(err, ErrQuit) {
		app.logger.Warn("event: %v", err)
		return nil
	}
	return err
}

// handleEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventInterrupt:
		if cfg, ok := ev.Data.(*config.Config); ok {
			app.ApplyConfig(cfg)
		}
	}
	return nil
}

// handleKey maps keys to scrolling, cursor movement and theme switching.
func (app *Application) handleKey(ev backend.Event) error {
	m := app.editor.Metrics()
	info := app.editor.Layout().Get()

	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyUp:
		app.scrollBy(0, -m.LineHeight)
	case backend.KeyDown:
		app.scrollBy(0, m.LineHeight)
	case backend.KeyPageUp:
		app.scrollBy(0, -info.Height)
	case backend.KeyPageDown:
		app.scrollBy(0, info.Height)
	case backend.KeyLeft:
		app.scrollBy(-m.CharWidth, 0)
	case backend.KeyRight:
		app.scrollBy(m.CharWidth, 0)
	case backend.KeyHome:
		app.editor.SetScrollLeft(0)
	case backend.KeyRune:
		switch ev.Rune {
		case 'q':
			return ErrQuit
		case '[':
			app.moveCursor(-1)
		case ']':
			app.moveCursor(1)
		case 't':
			app.cycleTheme()
		}
	}
	return nil
}

// resize fits the editor to a terminal of w by h cells.
func (app *Application) resize(w, h int) {
	m := app.editor.Metrics()
	width, height := w*m.CharWidth, h*m.LineHeight
	app.graph.Transaction(func() {
		app.editor.Resize(width, height)
		app.editor.SetWindow(host.Window{ContainerLeft: 0, InnerWidth: width})
	})
}

// scrollBy scrolls the editor, keeping both offsets inside the content.
func (app *Application) scrollBy(dx, dy int) {
	left, top := app.editor.ScrollPosition()
	info := app.editor.Layout().Get()

	maxTop := max(0, app.editor.ContentHeight()-info.Height)
	maxLeft := max(0, app.contentWidth()-(info.ContentWidth-info.VerticalScrollbarWidth))

	app.graph.Transaction(func() {
		app.editor.SetScrollTop(min(max(0, top+dy), maxTop))
		app.editor.SetScrollLeft(min(max(0, left+dx), maxLeft))
	})
}

// contentWidth is the scrollable width: the widest line, or the code and
// preview side by side when that is wider.
func (app *Application) contentWidth() int {
	var widest int
	app.graph.Untracked(func(r *observable.Reader) {
		n := app.editor.LineCount(r)
		widest, _ = app.editor.ContentWidthInRange(r, inlineedit.NewLineRange(1, n+1))
	})
	if geo := app.engine.Geometry().Get(); geo != nil {
		widest = max(widest, geo.MaxContentWidth)
	}
	return widest
}

// moveCursor moves the cursor by delta lines and scrolls it into view.
func (app *Application) moveCursor(delta int) {
	pos := app.editor.Cursor().Get()
	if !pos.IsValid() {
		pos = host.Position{Line: 1, Column: 1}
		delta = 0
	}

	var lines, top, bottom int
	line := pos.Line + delta
	app.graph.Untracked(func(r *observable.Reader) {
		lines = app.editor.LineCount(r)
		line = min(max(1, line), lines)
		top, _ = app.editor.TopForLine(r, line)
		bottom, _ = app.editor.BottomForLine(r, line)
	})

	_, scrollTop := app.editor.ScrollPosition()
	height := app.editor.Layout().Get().Height
	app.graph.Transaction(func() {
		app.editor.SetCursor(host.Position{Line: line, Column: pos.Column})
		switch {
		case top < scrollTop:
			app.editor.SetScrollTop(top)
		case bottom > scrollTop+height:
			app.editor.SetScrollTop(bottom - height)
		}
	})
}

// cycleTheme switches dark → light → high contrast → dark.
func (app *Application) cycleTheme() {
	var next *theme.Theme
	switch app.themes.Current().Kind {
	case theme.Dark:
		next = theme.LightTheme()
	case theme.Light:
		next = theme.HighContrastTheme()
	default:
		next = theme.DarkTheme()
	}
	app.themes.SetTheme(next)
	app.logger.Debug("theme: %s", next.Name)
}

// ApplyConfig makes c the configuration in effect. Layout parameters and
// theme change immediately; editor metrics only apply on restart. An
// invalid configuration is logged and ignored.
func (app *Application) ApplyConfig(c *config.Config) {
	c = c.Clone()
	applyOverrides(c, app.opts)
	if err := c.Validate(); err != nil {
		app.metrics.RecordReload(false)
		app.logger.Warn("config reload: %v", err)
		return
	}

	prev := app.source.Current()
	var t *theme.Theme
	if c.Theme != prev.Theme {
		loaded, err := loadTheme(c.Theme)
		if err != nil {
			app.logger.Warn("config reload: theme: %v", err)
		} else {
			t = loaded
		}
	}
	if c.Editor != prev.Editor {
		app.logger.Warn("config reload: editor settings take effect on restart")
	}

	app.graph.Transaction(func() {
		app.source.Set(c)
		if t != nil {
			app.themes.SetTheme(t)
		}
	})
	app.logger.SetLevel(ParseLogLevel(c.Log.Level))
	app.metrics.RecordReload(true)
	app.logger.Info("configuration reloaded")
}
