package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/inlineview/internal/config"
	"github.com/dshills/inlineview/internal/host"
	"github.com/dshills/inlineview/internal/inlineedit"
	"github.com/dshills/inlineview/internal/layout"
	"github.com/dshills/inlineview/internal/observable"
	"github.com/dshills/inlineview/internal/renderer"
	"github.com/dshills/inlineview/internal/renderer/backend"
	"github.com/dshills/inlineview/internal/theme"
	"github.com/dshills/inlineview/internal/view"
)

// Default terminal size used before a backend reports its own.
const (
	DefaultWidth  = 100
	DefaultHeight = 30
)

// Shown when no files are given.
const (
	sampleOriginal = `package main

import "fmt"

func greet(name string) string {
	return "Hello, " + name
}

func main() {
	fmt.Println(greet("world"))
}
`
	sampleModified = `package main

import "fmt"

func greet(name string) string {
	if name == "" {
		name = "stranger"
	}
	return fmt.Sprintf("Hello, %s!", name)
}

func main() {
	fmt.Println(greet("world"))
}
`
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses defaults
	// and disables live reload.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Theme overrides the configured theme name when set.
	Theme string

	// Files are the original and the modified file. With no files a
	// built-in sample is shown.
	Files []string

	// Dump prints the computed geometry and a painted frame instead of
	// running interactively.
	Dump bool

	// Width and Height are the size in cells used for Dump.
	Width  int
	Height int

	// Output receives the dump. Defaults to os.Stdout.
	Output io.Writer

	// LogOutput overrides where logs go.
	LogOutput io.Writer
}

// Application owns every component of the preview and the event loop.
type Application struct {
	opts    Options
	logger  *Logger
	logFile io.Closer
	metrics *Metrics

	source  *config.Source
	watcher *config.Watcher

	graph   *observable.Graph
	editor  *host.MemoryEditor
	preview *host.MemoryEditor
	edit    *observable.Value[*inlineedit.Descriptor]
	themes  *theme.Service
	engine  *layout.Engine
	overlay *view.Overlay

	mu      sync.Mutex
	backend backend.Backend
	painter *renderer.Painter

	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// New creates an Application from opts. Nothing is drawn until Run.
func New(opts Options) (*Application, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg.Log, opts)
	if err != nil {
		return nil, &ComponentError{Component: "log", Action: "setup", Err: err}
	}

	app := &Application{
		opts:    opts,
		logger:  logger,
		logFile: logFile,
		metrics: NewMetrics(),
		done:    make(chan struct{}),
	}
	if err := app.bootstrap(cfg); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func loadConfig(opts Options) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, &ComponentError{Component: "config", Action: "load", Err: err}
		}
		cfg = loaded
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, &ComponentError{Component: "config", Action: "validate", Err: err}
	}
	return cfg, nil
}

// applyOverrides lets command-line options win over the file.
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Theme != "" {
		cfg.Theme = config.ThemeConfig{Name: opts.Theme}
	}
}

func newLogger(c config.LogConfig, opts Options) (*Logger, io.Closer, error) {
	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(c.Level)

	switch {
	case opts.LogOutput != nil:
		cfg.Output = opts.LogOutput
	case c.File != "":
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		cfg.Output = f
		return NewLogger(cfg), f, nil
	case !opts.Dump:
		// stderr would draw over the terminal UI.
		return NewNullLogger(), nil, nil
	}
	return NewLogger(cfg), nil, nil
}

func loadTheme(c config.ThemeConfig) (*theme.Theme, error) {
	if c.File != "" {
		return theme.LoadLua(c.File)
	}
	return theme.Builtin(c.Name)
}

// readTexts returns the original and modified text named by files.
func readTexts(files []string) (string, string, error) {
	switch len(files) {
	case 0:
		return sampleOriginal, sampleModified, nil
	case 2:
		texts := make([]string, 2)
		for i, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", "", &FileError{Op: "read", Path: path, Err: err}
			}
			texts[i] = string(data)
		}
		return texts[0], texts[1], nil
	default:
		return "", "", fmt.Errorf("%w: want an original and a modified file, got %d files", ErrUsage, len(files))
	}
}

func editorMetrics(e config.EditorConfig) host.Metrics {
	return host.Metrics{
		LineHeight:             e.LineHeight,
		CharWidth:              e.CharWidth,
		TabSize:                e.TabSize,
		ContentLeft:            e.ContentLeft,
		VerticalScrollbarWidth: e.ScrollbarWidth,
		MinimapWidth:           e.MinimapWidth,
	}
}

// bootstrap builds the components in dependency order.
func (app *Application) bootstrap(cfg *config.Config) error {
	original, modified, err := readTexts(app.opts.Files)
	if err != nil {
		return err
	}

	t, err := loadTheme(cfg.Theme)
	if err != nil {
		return &ComponentError{Component: "theme", Action: "load", Err: err}
	}
	app.themes = theme.NewService(t)

	app.graph = observable.NewGraph(observable.WithLogger(app.logger.WithComponent("observable")))
	app.source = config.NewSource(cfg)

	m := editorMetrics(cfg.Editor)
	app.editor = host.NewMemoryEditor(app.graph, original, app.opts.Width*m.CharWidth, app.opts.Height*m.LineHeight, m)

	// The preview has no gutter and no scrollbar of its own.
	pm := m
	pm.ContentLeft, pm.VerticalScrollbarWidth, pm.MinimapWidth = 0, 0, 0
	app.preview = host.NewMemoryEditor(app.graph, modified, 0, 0, pm)

	var desc *inlineedit.Descriptor
	if d, ok := inlineedit.FromTexts(original, modified); ok {
		desc = &d
		app.logger.Info("inline edit %s", d)
	} else {
		app.logger.Info("texts are identical; nothing to preview")
	}
	app.edit = observable.NewValue(app.graph, desc, observable.WithName("app.edit"))

	app.engine = layout.New(app.graph, app.editor, app.preview, app.edit, app.source.Params(app.graph))
	app.overlay = view.NewOverlay(app.graph, app.engine, app.edit, app.editor, app.preview, app.themes,
		view.WithLogger(app.logger.WithComponent("view")))

	if desc != nil {
		app.revealEdit(*desc)
	}

	if app.opts.ConfigPath != "" && !app.opts.Dump {
		w, err := config.NewWatcher(app.opts.ConfigPath)
		if err != nil {
			// Live reload is optional.
			app.logger.Warn("config watcher: %v", err)
		} else {
			app.watcher = w
		}
	}
	return nil
}

// revealEdit places the cursor on the first edited line and scrolls it
// into view with two lines of context.
func (app *Application) revealEdit(d inlineedit.Descriptor) {
	m := app.editor.Metrics()
	var lines int
	app.graph.Untracked(func(r *observable.Reader) {
		lines = app.editor.LineCount(r)
	})
	line := max(1, min(d.Original.Start, lines))
	app.graph.Transaction(func() {
		app.editor.SetCursor(host.Position{Line: line, Column: 1})
		app.editor.SetScrollTop(max(0, line-3) * m.LineHeight)
	})
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run starts the application main loop and blocks until quit or Shutdown.
// A quit from the keyboard is reported as ErrQuit. In dump mode Run prints
// the dump and returns.
func (app *Application) Run() error {
	if app.opts.Dump {
		return app.Dump(app.output())
	}

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &ComponentError{Component: "backend", Action: "init", Err: fmt.Errorf("%w: %w", ErrInitialization, err)}
	}
	defer b.Shutdown()

	w, h := b.Size()
	app.resize(w, h)

	app.painter = renderer.New(app.graph, b, app.editor, app.preview, app.engine, app.themes, renderer.DefaultOptions())
	app.painter.Start()
	defer app.painter.Dispose()

	events := make(chan backend.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go pollEvents(b, events, stop)

	return app.eventLoop(events)
}

func (app *Application) output() io.Writer {
	if app.opts.Output != nil {
		return app.opts.Output
	}
	return os.Stdout
}

// Shutdown stops a running event loop. It is safe to call from any
// goroutine and more than once.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)
	})
}

// Close releases every component. The application cannot be used after.
func (app *Application) Close() {
	app.Shutdown()
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("config watcher: %v", err)
		}
		app.watcher = nil
	}
	if app.overlay != nil {
		app.overlay.Dispose()
		app.overlay = nil
	}
	if app.engine != nil {
		app.engine.Dispose()
		app.engine = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the event loop metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Config returns the configuration currently in effect.
func (app *Application) Config() *config.Config {
	return app.source.Current()
}

// Editor returns the host editor.
func (app *Application) Editor() *host.MemoryEditor {
	return app.editor
}

// Engine returns the layout engine.
func (app *Application) Engine() *layout.Engine {
	return app.engine
}

// Overlay returns the overlay view.
func (app *Application) Overlay() *view.Overlay {
	return app.overlay
}

// Themes returns the theme service.
func (app *Application) Themes() *theme.Service {
	return app.themes
}
